package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"tally/internal/project"
	"tally/internal/sema"
	"tally/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// schemaSalt mixes the schema into cache keys so a format bump never reads
// old entries.
var schemaSalt = []byte(fmt.Sprintf("tally-env-v%d", diskCacheSchemaVersion))

// DiskCache хранит окружения типов по хешу содержимого файла.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is one cached type environment.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path string
	// Hash of the normalized file content
	Hash project.Digest

	Bindings []sema.Binding
}

// OpenDiskCache initializes a disk cache rooted at dir.
func OpenDiskCache(dir string) (*DiskCache, error) {
	if dir == "" {
		return nil, errors.New("cache: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// KeyFor derives the cache key of a file from its content hash.
func KeyFor(file *source.File) project.Digest {
	return project.Combine(project.Digest(file.Hash), schemaSalt)
}

func (c *DiskCache) pathFor(key project.Digest) string {
	// Для удобства читаемости/очистки - подкаталог "envs".
	return filepath.Join(c.dir, "envs", key.String()+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache.
func (c *DiskCache) Get(key project.Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("cache: decode %s: %w", key, err)
	}
	return true, nil
}

// StoreEnv caches env under the content hash of file.
func (c *DiskCache) StoreEnv(file *source.File, env *sema.Env) error {
	return c.Put(KeyFor(file), &DiskPayload{
		Schema:   diskCacheSchemaVersion,
		Path:     file.Path,
		Hash:     project.Digest(file.Hash),
		Bindings: env.Bindings(),
	})
}

// LoadEnv returns the cached environment for file, if any. Entries written
// by another schema or for different content are ignored.
func (c *DiskCache) LoadEnv(file *source.File) (*sema.Env, bool, error) {
	var payload DiskPayload
	ok, err := c.Get(KeyFor(file), &payload)
	if err != nil || !ok {
		return nil, false, err
	}
	if payload.Schema != diskCacheSchemaVersion || payload.Hash != project.Digest(file.Hash) {
		return nil, false, nil
	}
	return sema.EnvFromBindings(payload.Bindings), true, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
