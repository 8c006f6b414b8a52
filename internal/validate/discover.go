package validate

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
)

// listDirs returns the names of the immediate subdirectories of dir in
// directory-listing order, skipping names for which skip returns true.
// Symlinks to directories count as directories. A missing dir yields nil.
func listDirs(dir string, skip func(name string) bool) ([]string, error) {
	entries, err := readDir(dir)
	if err != nil || entries == nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		name := entry.Name()
		if skip != nil && skip(name) {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			// Dangling symlinks are not directories.
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", filepath.Join(dir, name), err)
		}
		if info.IsDir() {
			names = append(names, name)
		}
	}
	return names, nil
}

// readDir lists dir, returning nil entries when it does not exist or is
// not a directory.
func readDir(dir string) ([]os.DirEntry, error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	return entries, nil
}

// checkSpecIn runs CheckSpec on the spec file inside dir. It returns nil
// when dir holds no spec file.
func checkSpecIn(dir string, rules Rules) (*Result, error) {
	path := filepath.Join(dir, rules.SpecFile())
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return CheckSpec(path, string(content), rules), nil
}

func logf(format string, args ...any) {
	log.Printf("[validate] "+format, args...)
}
