package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File stores every slot in a single JSON object on disk. Writes go to a
// temporary file that is renamed over the target.
type File struct {
	mu     sync.Mutex
	path   string
	closed bool
}

var _ Store = (*File)(nil)

// NewFile returns a store backed by path. The file is created on first Set.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, NewError("NewFile", "", "path is required", ErrConnectionFailed)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, NewError("NewFile", "", "create directory", err)
		}
	}
	return &File{path: path}, nil
}

// Path returns the backing file location.
func (f *File) Path() string {
	return f.path
}

// Get implements Store.
func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, NewError("Get", key, "", ErrClosed)
	}
	slots, err := f.read()
	if err != nil {
		return "", false, NewError("Get", key, "", err)
	}
	v, ok := slots[key]
	return v, ok, nil
}

// Set implements Store.
func (f *File) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return NewError("Set", key, "", ErrInvalidKey)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return NewError("Set", key, "", ErrClosed)
	}
	slots, err := f.read()
	if err != nil {
		return NewError("Set", key, "", err)
	}
	slots[key] = value
	if err := f.write(slots); err != nil {
		return NewError("Set", key, "", err)
	}
	return nil
}

// Close implements Store.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, err
	}
	slots := make(map[string]string)
	if len(data) == 0 {
		return slots, nil
	}
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (f *File) write(slots map[string]string) error {
	data, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".slots-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
