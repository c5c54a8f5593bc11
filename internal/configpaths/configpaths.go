// Package configpaths resolves where padmap looks for configuration files and
// keeps its flash image.
package configpaths

import (
	"os"
	"path/filepath"
)

const appDir = "padmap"

// ImageName is the file name of the persisted flash image.
const ImageName = "flash.img"

// DefaultConfigDir returns the per-user configuration directory.
func DefaultConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, appDir), nil
}

// ConfigCandidatePaths lists config files in load order, split by format.
// An explicit user path takes precedence over the working directory and the
// config directory.
func ConfigCandidatePaths(user string) (jsonPaths, yamlPaths, tomlPaths []string) {
	add := func(p string) {
		switch filepath.Ext(p) {
		case ".json":
			jsonPaths = append(jsonPaths, p)
		case ".yaml", ".yml":
			yamlPaths = append(yamlPaths, p)
		case ".toml":
			tomlPaths = append(tomlPaths, p)
		}
	}
	if user != "" {
		add(user)
	}
	dirs := []string{"."}
	if d, err := DefaultConfigDir(); err == nil {
		dirs = append(dirs, d)
	}
	for _, d := range dirs {
		for _, name := range []string{"padmap.json", "padmap.yaml", "padmap.yml", "padmap.toml"} {
			add(filepath.Join(d, name))
		}
	}
	return jsonPaths, yamlPaths, tomlPaths
}

// DefaultImagePath returns the default flash image location.
func DefaultImagePath() string {
	dir, err := ImageDir()
	if err != nil {
		return ImageName
	}
	return filepath.Join(dir, ImageName)
}
