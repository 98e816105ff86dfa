package input

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// ErrDataNotFound is returned by Pick when no data file can be found for one of the groups
var ErrDataNotFound = errors.New("Data could not be loaded automatically! You have to give the data files as arguments")

// Pick looks for data files in dir. Each group is a list of alternative file names, of which the
// first readable one is chosen. The chosen paths are returned in the order of the groups.
func Pick(dir string, groups ...[]string) ([]string, error) {
	paths := make([]string, 0, len(groups))

	for _, alternatives := range groups {
		found := ""
		for _, name := range alternatives {
			p := filepath.Join(dir, name)
			if readable(p) {
				found = p
				break
			}
		}

		if found == "" {
			return nil, errors.Wrapf(ErrDataNotFound, "None of %v in %q", alternatives, dir)
		}

		paths = append(paths, found)
	}

	return paths, nil
}

func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	return err == nil && info.Mode().IsRegular()
}
