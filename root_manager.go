package notelens

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
)

// RootManager provides read access to a note directory through os.Root, so
// document ids can never reach outside of it.
type RootManager struct {
	path string
}

// NewRootManager creates a RootManager for an existing directory.
func NewRootManager(path string) (*RootManager, error) {
	// Test that we can open the directory as a root
	testRoot, err := os.OpenRoot(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory as root %s: %w", path, err)
	}
	_ = testRoot.Close()

	return &RootManager{path: path}, nil
}

// Path returns the directory the manager is rooted at.
func (rm *RootManager) Path() string {
	return rm.path
}

// withRoot executes a function with a safely opened os.Root
func (rm *RootManager) withRoot(fn func(*os.Root) error) error {
	root, err := os.OpenRoot(rm.path)
	if err != nil {
		return fmt.Errorf("failed to open root: %w", err)
	}
	defer func(root *os.Root) {
		_ = root.Close()
	}(root)

	return fn(root)
}

// ReadFile reads the contents of a file inside the root.
func (rm *RootManager) ReadFile(filename string) ([]byte, error) {
	var content []byte
	err := rm.withRoot(func(root *os.Root) error {
		f, err := root.Open(filename)
		if err != nil {
			return err
		}
		defer func(f *os.File) {
			_ = f.Close()
		}(f)

		content, err = io.ReadAll(f)
		return err
	})
	return content, err
}

// FileExists checks if a file exists using Root.Stat
func (rm *RootManager) FileExists(filename string) bool {
	exists := false
	_ = rm.withRoot(func(root *os.Root) error {
		_, err := root.Stat(filename)
		exists = err == nil
		return nil
	})
	return exists
}

// Stat returns file info using Root.Stat
func (rm *RootManager) Stat(filename string) (os.FileInfo, error) {
	var info os.FileInfo
	err := rm.withRoot(func(root *os.Root) error {
		var err error
		info, err = root.Stat(filename)
		return err
	})
	return info, err
}

// WalkDir walks the directory tree using Root.FS()
func (rm *RootManager) WalkDir(root string, fn fs.WalkDirFunc) error {
	return rm.withRoot(func(osRoot *os.Root) error {
		return fs.WalkDir(osRoot.FS(), root, fn)
	})
}

// ScanResult holds information about a scanned file or directory
type ScanResult struct {
	Path         string
	Name         string
	IsDir        bool
	RelativePath string
}

// Scan walks the tree under rootDir and returns the entries accepted by
// filter. A nil filter accepts everything. Paths are slash separated.
func (rm *RootManager) Scan(rootDir string, filter func(string, fs.DirEntry) bool) ([]ScanResult, error) {
	var results []ScanResult

	err := rm.WalkDir(rootDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Continue walking despite errors
		}

		if filter != nil && !filter(p, d) {
			if d.IsDir() && p != rootDir {
				return fs.SkipDir
			}
			return nil
		}

		relativePath := p
		if rootDir != "." && rootDir != "" {
			relativePath = strings.TrimPrefix(p, path.Clean(rootDir)+"/")
		}

		results = append(results, ScanResult{
			Path:         p,
			Name:         d.Name(),
			IsDir:        d.IsDir(),
			RelativePath: relativePath,
		})

		return nil
	})

	return results, err
}
