// Package listfile manages the per-directory file that pins a list name.
package listfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rogersnm/todomaster/internal/kv"
)

const FileName = ".todomaster-list"

// Find walks up from startDir looking for a .todomaster-list file.
// Returns the list name and the directory containing the file.
// Returns ("", "", nil) if not found.
func Find(startDir string) (name, dir string, err error) {
	dir = startDir
	for {
		name, err := Read(dir)
		if err != nil {
			return "", "", err
		}
		if name != "" {
			return name, dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", nil
		}
		dir = parent
	}
}

// Write pins name in dir/.todomaster-list.
func Write(dir, name string) error {
	if err := kv.ValidateKey(name); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, FileName), []byte(name+"\n"), 0644)
}

// Read reads and trims the .todomaster-list file in dir.
// Returns ("", nil) if the file does not exist.
func Read(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", err
	}
	name := strings.TrimSpace(string(data))
	if name == "" {
		return "", nil
	}
	if err := kv.ValidateKey(name); err != nil {
		return "", fmt.Errorf("%s in %s: %w", FileName, dir, err)
	}
	return name, nil
}

// Exists reports whether dir holds a .todomaster-list file, valid or not.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, FileName))
	return err == nil
}

// Remove deletes the file in dir. A missing file is not an error.
func Remove(dir string) error {
	err := os.Remove(filepath.Join(dir, FileName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
