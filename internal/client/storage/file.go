package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKV keeps all keys in one JSON document on disk.
type FileKV struct {
	path   string
	mu     sync.Mutex
	Values map[string]string `json:"values"`
}

// OpenFile loads path, or starts empty if it does not exist yet.
func OpenFile(path string) (*FileKV, error) {
	kv := &FileKV{path: path}
	if err := kv.load(); err != nil {
		return nil, err
	}
	return kv, nil
}

func (kv *FileKV) load() error {
	f, err := os.Open(kv.path)
	if err != nil {
		if os.IsNotExist(err) {
			kv.Values = make(map[string]string)
			return nil
		}
		return fmt.Errorf("open %s: %w", kv.path, err)
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(kv); err != nil {
		return fmt.Errorf("decode %s: %w", kv.path, err)
	}
	if kv.Values == nil {
		kv.Values = make(map[string]string)
	}
	return nil
}

// save writes through a temp file so a crash never leaves a torn document.
func (kv *FileKV) save() error {
	dir := filepath.Dir(kv.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".lumina-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := json.NewEncoder(tmp).Encode(kv); err != nil {
		tmp.Close()
		return fmt.Errorf("encode: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), kv.path)
}

func (kv *FileKV) Get(_ context.Context, key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.Values[key]
	return v, ok, nil
}

func (kv *FileKV) Set(_ context.Context, key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	prev, had := kv.Values[key]
	kv.Values[key] = value
	if err := kv.save(); err != nil {
		if had {
			kv.Values[key] = prev
		} else {
			delete(kv.Values, key)
		}
		return err
	}
	return nil
}

func (kv *FileKV) Close() error { return nil }
