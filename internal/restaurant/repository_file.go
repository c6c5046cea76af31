package restaurant

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// FileRepository keeps the snapshot in a single JSON file.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", r.path)
	}
	return data, nil
}

// Save writes to a temp file and renames it over the target, so a crash
// mid-write leaves the previous snapshot intact.
func (r *FileRepository) Save(ctx context.Context, snapshot []byte) error {
	return writeFileAtomic(r.path, snapshot)
}

// FileBackup writes restaurants-YYYY-MM-DD.json files into a directory.
type FileBackup struct {
	dir string
}

func NewFileBackup(dir string) *FileBackup {
	return &FileBackup{dir: dir}
}

func (b *FileBackup) Backup(ctx context.Context, day string, snapshot []byte) error {
	return writeFileAtomic(filepath.Join(b.dir, "restaurants-"+day+".json"), snapshot)
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "create dir for %s", path)
	}

	tmp := path + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return eris.Wrapf(err, "write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return eris.Wrapf(err, "rename %s", tmp)
	}
	return nil
}
