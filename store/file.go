package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"rocketcart/model"
)

// FileStore keeps a JSON document mapping keys to cart snapshots on disk.
// Other keys in the document are preserved on Save.
type FileStore struct {
	mu   sync.Mutex
	path string
	key  string
}

func NewFileStore(path, key string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store path is required")
	}
	if key == "" {
		key = DefaultKey
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return &FileStore{path: path, key: key}, nil
}

func (f *FileStore) Load(ctx context.Context) (model.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.readDocument()
	if err != nil {
		return nil, err
	}
	payload, ok := doc[f.key]
	if !ok {
		return model.Cart{}, nil
	}
	return decode(payload)
}

func (f *FileStore) Save(ctx context.Context, cart model.Cart) error {
	payload, err := encode(cart)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	doc, err := f.readDocument()
	if errors.Is(err, ErrCorrupt) {
		// an unreadable document is replaced, same as an unreadable snapshot
		doc = map[string]json.RawMessage{}
	} else if err != nil {
		return err
	}
	doc[f.key] = payload

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return f.writeAtomic(raw)
}

func (f *FileStore) Close() error { return nil }

func (f *FileStore) readDocument() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}

	doc := map[string]json.RawMessage{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, f.path, err)
	}
	if doc == nil {
		doc = map[string]json.RawMessage{}
	}
	return doc, nil
}

func (f *FileStore) writeAtomic(raw []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
