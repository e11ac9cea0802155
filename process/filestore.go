package process

import (
	"context"
	"os"
	"path/filepath"

	"pfdb/pkg/parse"
	"pfdb/pkg/weapon"
)

// FileStore keeps dumps as text files in one directory.
type FileStore struct {
	dir string
}

var _ parse.Store = (*FileStore)(nil)

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Save writes text to the canonical file name of id.
func (s *FileStore) Save(_ context.Context, id weapon.ID, text string) error {
	return s.write(DumpName(id), text)
}

// Dump returns a store that rewrites the named dump whatever its naming style.
func (s *FileStore) Dump(name string) parse.Store {
	return boundDump{s: s, name: name}
}

// write replaces the file through a temp file and rename so readers never
// see a partial dump.
func (s *FileStore) write(name, text string) error {
	tmp, err := os.CreateTemp(s.dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

type boundDump struct {
	s    *FileStore
	name string
}

func (b boundDump) Save(_ context.Context, _ weapon.ID, text string) error {
	return b.s.write(b.name, text)
}
