package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FileNames lists the config file names tailcfg recognises, in lookup
// order.
var FileNames = []string{"tailcfg.json", "tailcfg.yaml", "tailcfg.yml", "tailcfg.hcl"}

// fileNamePattern matches any of FileNames.
const fileNamePattern = "tailcfg.{json,yaml,yml,hcl}"

// Find returns the first config file present in dir, in FileNames order.
func Find(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Discover walks root and returns every config file below it. Each one is
// an independent build context; nothing is merged. Dot-directories and
// node_modules are skipped.
func Discover(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "node_modules" || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if ok, _ := doublestar.Match(fileNamePattern, d.Name()); ok {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}
