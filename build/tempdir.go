package build

import (
	"os"
	"path/filepath"
)

// TempDir joins the provided path elements onto the OS temp dir, namespaced
// under a "SubWalletTesting" folder, and removes anything already there from a
// previous run. Used by tests that need a throwaway directory on disk.
func TempDir(dirs ...string) string {
	path := filepath.Join(append([]string{os.TempDir(), "SubWalletTesting"}, dirs...)...)
	err := os.RemoveAll(path)
	if err != nil {
		panic(err)
	}
	return path
}
