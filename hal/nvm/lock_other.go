//go:build !unix

package nvm

import "os"

// Advisory locking is only available on unix; elsewhere the image is opened
// without it.
func lockFile(*os.File) error { return nil }

func unlockFile(*os.File) error { return nil }
