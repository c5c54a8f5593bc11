//go:build !windows

package configpaths

import (
	"os"
	"path/filepath"
)

// ImageDir returns the directory where the flash image should be stored.
// On Unix, root services use /var/lib/padmap.
func ImageDir() (string, error) {
	if os.Geteuid() == 0 {
		return filepath.Join(string(os.PathSeparator), "var", "lib", appDir), nil
	}
	return DefaultConfigDir()
}
