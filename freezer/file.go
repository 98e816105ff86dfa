package freezer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	bp "github.com/sharnoff/backprop"
)

// Extension is added to the name of every Network stored by a FileStore
const Extension = ".frz"

// FileStore keeps each Network in its own file, in a single directory
type FileStore struct {
	dir string
}

// NewFileStore returns a FileStore in the directory, creating it if it doesn't exist
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "Can't create freezer directory\n")
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "Can't use freezer directory\n")
	} else if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", dir)
	}

	return &FileStore{dir}, nil
}

// Path returns the file a Network with the given name is stored in
func (s *FileStore) Path(name string) (string, error) {
	name = strings.TrimSuffix(name, Extension)
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", errors.Errorf("Invalid network name for freezing: %q", name)
	}

	return filepath.Join(s.dir, name+Extension), nil
}

func (s *FileStore) Save(net *bp.Network) error {
	path, err := s.Path(net.Name())
	if err != nil {
		return err
	}

	data, err := Marshal(net)
	if err != nil {
		return errors.Wrapf(err, "Can't encode network %q\n", net.Name())
	}

	// written to a temporary file first, so that a failed save never leaves a partial file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "Can't save network %q\n", net.Name())
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "Can't save network %q\n", net.Name())
	}

	return nil
}

func (s *FileStore) Load(name string) (*bp.Network, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrNotFound, "No file for %q", name)
	} else if err != nil {
		return nil, errors.Wrapf(err, "Can't read network %q\n", name)
	}

	return thaw(strings.TrimSuffix(name, Extension), data)
}
