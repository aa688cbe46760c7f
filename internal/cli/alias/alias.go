// Package alias resolves named endpoint aliases from a TOML file.
//
// The file maps short names to absolute URLs:
//
//	[aliases]
//	materials = "https://plm.example.com/csi-requesthandler/api/v2/materials"
package alias

import (
	"os"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pelletier/go-toml/v2"
)

// Set holds the alias name to URL mapping.
type Set map[string]string

type aliasFile struct {
	Aliases map[string]string `toml:"aliases"`
}

// Load reads the aliases file. A missing file yields an empty set;
// entries whose value is not an http(s) URL are skipped.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Set{}, nil
		}
		return nil, errors.Wrapf(err, "read aliases file %s", path)
	}

	var f aliasFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrapf(err, "parse aliases file %s", path)
	}

	set := Set{}
	for name, url := range f.Aliases {
		name = strings.TrimSpace(name)
		url = strings.TrimSpace(url)
		if name == "" || !strings.HasPrefix(url, "http") {
			continue
		}
		set[name] = url
	}
	return set, nil
}

// Resolve looks up an alias by name.
func (s Set) Resolve(name string) (string, bool) {
	url, ok := s[strings.TrimSpace(name)]
	return url, ok
}

// Names returns the alias names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
