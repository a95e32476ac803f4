package working_dir

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

const tempDirName = "tmp"

// WorkingDir is an absolute directory owned by one component, with a scratch area under it
type WorkingDir struct {
	root string
}

func NewWorkingDir(dir string) (WorkingDir, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return WorkingDir{}, errors.Wrap(err, "Failed to convert working dir to absolute format")
	}

	if err := os.MkdirAll(filepath.Join(absDir, tempDirName), os.ModePerm); err != nil {
		return WorkingDir{}, errors.Wrapf(err, "Failed to create working dir %s", absDir)
	}

	return WorkingDir{root: absDir}, nil
}

func (w WorkingDir) Root() string {
	return w.root
}

func (w WorkingDir) TempDir() string {
	return filepath.Join(w.root, tempDirName)
}

func (w WorkingDir) String() string {
	return w.root
}
