package labstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStore runs the behavior every backend must share.
func testStore(t *testing.T, store Store) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	_, err := store.Get(ctx, "__global__")
	require.ErrorIs(t, err, ErrNotFound)

	first := []byte(`{"timestamp":1,"labs":[{"name":"青木研究室","firstChoicePrimary":4,"firstChoiceTotal":5}]}`)
	require.NoError(t, store.Set(ctx, "__global__", first))

	value, err := store.Get(ctx, "__global__")
	require.NoError(t, err)
	require.JSONEq(t, string(first), string(value))

	second := []byte(`{"timestamp":2,"labs":[]}`)
	require.NoError(t, store.Set(ctx, "__global__", second))
	value, err = store.Get(ctx, "__global__")
	require.NoError(t, err)
	require.JSONEq(t, string(second), string(value))

	program := []byte(`{"timestamp":3,"labs":[]}`)
	require.NoError(t, store.Set(ctx, "メディア情報学プログラム", program))
	value, err = store.Get(ctx, "メディア情報学プログラム")
	require.NoError(t, err)
	require.JSONEq(t, string(program), string(value))

	value, err = store.Get(ctx, "__global__")
	require.NoError(t, err)
	require.JSONEq(t, string(second), string(value))
}

func TestMemory(t *testing.T) {
	testStore(t, NewMemory())
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	value := []byte(`{"a":1}`)
	require.NoError(t, store.Set(ctx, "key", value))
	value[2] = 'b'

	stored, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(stored))
}

func TestMemoryConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i%4)
			assert.NoError(t, store.Set(ctx, key, []byte(`{}`)))
			_, err := store.Get(ctx, key)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.json")
	testStore(t, NewFile(path))

	// a second handle on the same file sees what the first wrote
	value, err := NewFile(path).Get(context.Background(), "メディア情報学プログラム")
	require.NoError(t, err)
	require.JSONEq(t, `{"timestamp":3,"labs":[]}`, string(value))
}

func TestFileRejectsInvalidJSON(t *testing.T) {
	store := NewFile(filepath.Join(t.TempDir(), "snapshots.json"))
	require.Error(t, store.Set(context.Background(), "key", []byte("not json")))
}

func TestFileKeepsMode(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "snapshots.json")
	store := NewFile(path)

	require.NoError(t, store.Set(ctx, "a", []byte(`1`)))
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0644), info.Mode().Perm())

	require.NoError(t, os.Chmod(path, 0640))
	require.NoError(t, store.Set(ctx, "b", []byte(`2`)))
	info, err = os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0640), info.Mode().Perm())
}

func TestSQLite(t *testing.T) {
	store, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	defer store.Close()

	testStore(t, store)

	updatedAt, err := store.UpdatedAt(context.Background(), "__global__")
	require.NoError(t, err)
	require.Positive(t, updatedAt)

	_, err = store.UpdatedAt(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.db")
	ctx := context.Background()

	store, err := Open(ctx, Config{Driver: DriverSQLite, Path: path})
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "key", []byte(`{"v":1}`)))
	require.NoError(t, Close(store))

	reopened, err := Open(ctx, Config{Driver: DriverSQLite, Path: path})
	require.NoError(t, err)
	defer Close(reopened)

	value, err := reopened.Get(ctx, "key")
	require.NoError(t, err)
	require.JSONEq(t, `{"v":1}`, string(value))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, Config{})
	require.NoError(t, err)
	require.IsType(t, &Memory{}, store)
	require.NoError(t, Close(store))

	store, err = Open(ctx, Config{Driver: DriverFile, Path: filepath.Join(t.TempDir(), "s.json")})
	require.NoError(t, err)
	require.IsType(t, &File{}, store)

	cases := []Config{
		{Driver: "mongo"},
		{Driver: DriverFile},
		{Driver: DriverSQLite},
		{Driver: DriverLibsql},
		{Driver: DriverRedis},
		{Driver: DriverS3},
	}
	for _, config := range cases {
		_, err := Open(ctx, config)
		require.Error(t, err, config.Driver)
	}
}
