package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/NicabarNimble/go-gitdesk/internal/errors"
)

// FolderFileName is the file that remembers the selected repository
const FolderFileName = "selected_git_folder.txt"

// FolderStore persists the selected working folder as a plain text file
type FolderStore struct {
	path string
}

// NewFolderStore creates a FolderStore backed by the file at path
func NewFolderStore(path string) *FolderStore {
	return &FolderStore{path: path}
}

// DefaultFolderStore stores the folder under Dir()
func DefaultFolderStore() (*FolderStore, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return NewFolderStore(filepath.Join(dir, FolderFileName)), nil
}

// Path returns the backing file
func (s *FolderStore) Path() string {
	return s.path
}

// Load returns the saved folder. If nothing was saved, or the saved folder
// no longer exists, the user's home directory is returned instead.
func (s *FolderStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return "", errors.NewKind("folder", errors.KindConfig, "failed to read folder file", err)
	}

	folder := strings.TrimSpace(string(data))
	if folder != "" {
		if info, err := os.Stat(folder); err == nil && info.IsDir() {
			return folder, nil
		}
	}

	home, err := homedir.Dir()
	if err != nil {
		return "", errors.NewKind("folder", errors.KindConfig, "cannot locate home directory", err)
	}
	return home, nil
}

// Save records folder, creating the backing file's directory if needed
func (s *FolderStore) Save(folder string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.NewKind("folder", errors.KindConfig, "failed to create config directory", err)
	}
	if err := os.WriteFile(s.path, []byte(folder), 0644); err != nil {
		return errors.NewKind("folder", errors.KindConfig, "failed to write folder file", err)
	}
	return nil
}
