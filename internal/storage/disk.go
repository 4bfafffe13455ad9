// Package storage хранит байты вложений на локальном диске отдельно от
// метаданных в БД.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileStore — контракт хранилища байтов вложений.
type FileStore interface {
	// Save пишет содержимое под именем name и возвращает число записанных байт.
	Save(name string, r io.Reader) (int64, error)

	// Open открывает файл на чтение.
	Open(name string) (io.ReadCloser, error)

	// Remove удаляет файл. Отсутствующий файл ошибкой не считается.
	Remove(name string) error
}

// DiskStore — хранилище в одном каталоге на локальном диске.
type DiskStore struct {
	dir string
}

// NewDiskStore создаёт каталог хранилища, если его ещё нет.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dir %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

var _ FileStore = (*DiskStore)(nil)

// path отбрасывает любые элементы пути из имени: файлы лежат плоско.
func (s *DiskStore) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *DiskStore) Save(name string, r io.Reader) (int64, error) {
	f, err := os.Create(s.path(name))
	if err != nil {
		return 0, fmt.Errorf("storage: create %s: %w", name, err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		// недописанный файл не оставляем
		_ = os.Remove(s.path(name))
		return 0, fmt.Errorf("storage: write %s: %w", name, err)
	}
	return n, nil
}

func (s *DiskStore) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(s.path(name))
	if err != nil {
		return nil, fmt.Errorf("storage: open %s: %w", name, err)
	}
	return f, nil
}

func (s *DiskStore) Remove(name string) error {
	err := os.Remove(s.path(name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove %s: %w", name, err)
	}
	return nil
}
