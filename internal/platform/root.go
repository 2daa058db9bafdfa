package platform

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/floatnote/pkg/adapters/fs"
)

// DefaultFileName is used when the path names a directory.
const DefaultFileName = fs.DefaultFileName

// ResolvePath turns a user-supplied location into an absolute notes file path.
// "~/" is expanded, an empty path means ./notes.json, and an existing
// directory gets DefaultFileName appended.
func ResolvePath(path string) (string, error) {
	if path == "" {
		path = DefaultFileName
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(abs); err == nil && info.IsDir() {
		abs = filepath.Join(abs, DefaultFileName)
	}
	return abs, nil
}
