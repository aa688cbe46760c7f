package command

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// centricServer mimics the login and request surface of a PLM server.
type centricServer struct {
	*httptest.Server

	loginHits    int
	endpointHits int

	issued  string          // token returned by login
	valid   map[string]bool // tokens the endpoint accepts
	payload string

	lastMethod string
	lastBody   []byte
}

func newCentricServer() *centricServer {
	s := &centricServer{
		issued:  "issued-token",
		valid:   map[string]bool{"issued-token": true},
		payload: `{"items":[{"id":"m1"}]}`,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/v2/session"):
			s.loginHits++
			jsonResponse(w, http.StatusOK, map[string]string{"token": s.issued})
		default:
			s.endpointHits++
			s.lastMethod = r.Method
			s.lastBody, _ = readAll(r)
			token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !s.valid[token] {
				jsonResponse(w, http.StatusUnauthorized, map[string]string{"message": "session expired"})
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, s.payload)
		}
	}))
	return s
}

func readAll(r *http.Request) ([]byte, error) {
	var buf bytes.Buffer
	_, err := buf.ReadFrom(r.Body)
	return buf.Bytes(), err
}

// jsonResponse writes a JSON response.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// testEnv provisions isolated config, token, alias, log, and output
// paths so tests never touch the user's home directory.
type testEnv struct {
	dir        string
	configPath string
	tokenPath  string
	aliasPath  string
	logPath    string
	outPath    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	return &testEnv{
		dir:        dir,
		configPath: filepath.Join(dir, "cli.yaml"),
		tokenPath:  filepath.Join(dir, "token"),
		aliasPath:  filepath.Join(dir, "aliases.toml"),
		logPath:    filepath.Join(dir, "centric.log"),
		outPath:    filepath.Join(dir, "out.json"),
	}
}

// baseArgs returns a complete argument set for a request against the
// mock server, writing the response to the env's output file.
func (e *testEnv) baseArgs(server *centricServer) []string {
	return []string{
		"--config", e.configPath,
		"--token-file", e.tokenPath,
		"--aliases-file", e.aliasPath,
		"--log-file", e.logPath,
		"--base-url", server.URL,
		"--username", "amy",
		"--password", "s3cret",
		"--endpoint", "v2/materials",
		"--out", e.outPath,
	}
}

func (e *testEnv) seedToken(t *testing.T, token string) {
	t.Helper()
	if err := os.WriteFile(e.tokenPath, []byte(token), 0o600); err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) cachedToken(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.tokenPath)
	if err != nil {
		t.Fatalf("read token cache: %v", err)
	}
	return strings.TrimSpace(string(data))
}

func (e *testEnv) response(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(e.outPath)
	if err != nil {
		t.Fatalf("read response file: %v", err)
	}
	return string(data)
}

// runApp runs the full CLI with the given arguments and captures
// output written through the app writer.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := App()
	var out bytes.Buffer
	app.Writer = &out
	err := app.Run(append([]string{"centric"}, args...))
	return out.String(), err
}
