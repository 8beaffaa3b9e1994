package labstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File keeps every key in a single json object on disk. Values must be
// valid json, they are stored inline rather than as strings.
type File struct {
	path  string
	mutex sync.Mutex
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) read() (map[string]json.RawMessage, error) {
	contents, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := map[string]json.RawMessage{}
	if len(contents) == 0 {
		return values, nil
	}
	err = json.Unmarshal(contents, &values)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return values, nil
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	values, err := f.read()
	if err != nil {
		return nil, err
	}
	value, ok := values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return fmt.Errorf("value of %q is not valid json", key)
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = json.RawMessage(value)

	encoded, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}

	// write then rename so readers never see a partial file
	temp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	// the temp file is created 0600, keep the mode of the file it replaces
	mode := os.FileMode(0644)
	info, statErr := os.Stat(f.path)
	if statErr == nil {
		mode = info.Mode().Perm()
	}
	err = temp.Chmod(mode)
	if err != nil {
		temp.Close()
		return err
	}

	_, err = temp.Write(encoded)
	if err != nil {
		temp.Close()
		return err
	}
	err = temp.Close()
	if err != nil {
		return err
	}
	return os.Rename(temp.Name(), f.path)
}
