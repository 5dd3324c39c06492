package store

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tanmika/tanmidock/internal/platform"
)

// GetSize walks the (lib, commit, platform) directory and sums file sizes.
// A missing directory reports size zero, not an error.
func (s *Store) GetSize(lib, commit string, p platform.Tag) (int64, error) {
	root := s.StorePathOf(lib, commit, p)

	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return 0, err
	}
	return total, nil
}
