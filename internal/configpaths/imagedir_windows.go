//go:build windows

package configpaths

// ImageDir returns the directory where the flash image should be stored.
func ImageDir() (string, error) {
	return DefaultConfigDir()
}
