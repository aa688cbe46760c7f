package tokencache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_MissingFile(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "token"))

	token, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, missing cache must not fail", err)
	}
	if token != "" {
		t.Errorf("Load() = %q, want empty for missing cache", token)
	}
}

func TestStoreLoad_RoundTrip(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "token"))

	if err := c.Store("abc123"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	token, err := c.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if token != "abc123" {
		t.Errorf("Load() = %q, want %q", token, "abc123")
	}
}

func TestStore_Overwrites(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "token"))

	if err := c.Store("old-token"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if err := c.Store("new-token"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	token, _ := c.Load()
	if token != "new-token" {
		t.Errorf("Load() = %q, want %q after overwrite", token, "new-token")
	}
}

func TestStore_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "token")
	c := New(path)

	if err := c.Store("tok"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("token file not created: %v", err)
	}
}

func TestStore_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	c := New(path)

	if err := c.Store("tok"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}
}

func TestStore_NoTempFileLeftovers(t *testing.T) {
	dir := t.TempDir()
	c := New(filepath.Join(dir, "token"))

	if err := c.Store("tok"); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".token-") {
			t.Errorf("temp file %q left behind", e.Name())
		}
	}
}

func TestLoad_TrimsWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  tok-value\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	token, _ := New(path).Load()
	if token != "tok-value" {
		t.Errorf("Load() = %q, want trimmed %q", token, "tok-value")
	}
}
