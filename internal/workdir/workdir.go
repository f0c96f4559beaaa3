// Package workdir resolves the tick data root, so commands run from a
// subdirectory find the .tick directory of an enclosing project.
package workdir

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	dataDir  = ".tick"
	rootFile = ".tick-root"
)

// ResolveBaseDir walks up from baseDir looking for a .tick directory or a
// .tick-root file. A .tick-root file holds the path of another root and
// wins over a .tick directory in the same place. When neither is found
// baseDir is returned unchanged.
func ResolveBaseDir(baseDir string) string {
	dir, err := filepath.Abs(baseDir)
	if err != nil {
		return baseDir
	}
	for {
		if root, ok := readRootFile(dir); ok {
			return root
		}
		if fi, err := os.Stat(filepath.Join(dir, dataDir)); err == nil && fi.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return baseDir
		}
		dir = parent
	}
}

func readRootFile(dir string) (string, bool) {
	content, err := os.ReadFile(filepath.Join(dir, rootFile))
	if err != nil {
		return "", false
	}
	root := strings.TrimSpace(string(content))
	if root == "" {
		return "", false
	}
	if !filepath.IsAbs(root) {
		root = filepath.Join(dir, root)
	}
	return root, true
}
