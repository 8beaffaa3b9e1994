package labstore

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrNotFound is returned by Get when nothing was stored under the key.
var ErrNotFound = errors.New("labstore: key not found")

// Store is a keyed blob store, each Set fully replaces the value of its key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverLibsql = "libsql"
	DriverRedis  = "redis"
	DriverS3     = "s3"
)

type Config struct {
	// Driver is one of memory, file, sqlite, libsql, redis or s3. It
	// defaults to memory.
	Driver string `json:"driver"`
	// Path is the file of the file and sqlite drivers.
	Path string `json:"path"`
	// URL is the database url of the libsql driver.
	URL   string      `json:"url"`
	Redis RedisConfig `json:"redis"`
	S3    S3Config    `json:"s3"`
}

// Open creates the store described by config.
func Open(ctx context.Context, config Config) (Store, error) {
	switch config.Driver {
	case "", DriverMemory:
		return NewMemory(), nil
	case DriverFile:
		if config.Path == "" {
			return nil, fmt.Errorf("labstore: file driver needs a path")
		}
		return NewFile(config.Path), nil
	case DriverSQLite:
		return OpenSQLite(ctx, config.Path)
	case DriverLibsql:
		return OpenLibsql(ctx, config.URL)
	case DriverRedis:
		return OpenRedis(ctx, config.Redis)
	case DriverS3:
		return OpenS3(ctx, config.S3)
	}
	return nil, fmt.Errorf("labstore: unknown driver %q", config.Driver)
}

// Close releases the resources held by store, if it holds any.
func Close(store Store) error {
	closer, ok := store.(io.Closer)
	if !ok {
		return nil
	}
	return closer.Close()
}
