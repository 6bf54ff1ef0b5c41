// Package provision resolves the world directory spec §6's CLI surface
// names: a local path used as-is, or a go-getter source string (git::,
// s3::, http archive, …) fetched into a destination directory. This is
// the one CLI surface spec explicitly allows, generalizing the original's
// hard-coded "./ExampleWorld".
package provision

import (
	"fmt"
	"os"

	getter "github.com/hashicorp/go-getter"
)

// Resolve returns a filesystem path holding the world directory. If src
// is an existing local directory, it is returned unchanged. Otherwise src
// is treated as a go-getter source and fetched into dst.
func Resolve(dst, src string) (string, error) {
	if isLocalDir(src) {
		return src, nil
	}
	if err := getter.Get(dst, src); err != nil {
		return "", fmt.Errorf("provision world from %s: %w", src, err)
	}
	return dst, nil
}

func isLocalDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
