package memory

import (
	"encoding/json"
	"errors"
	"os"
	"sync"
)

// KV is the durable key-value medium behind the repository, mirroring the
// browser local-storage API the store was originally written against.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// MapKV keeps everything in process memory. Test and dev default.
type MapKV struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMapKV() *MapKV {
	return &MapKV{data: make(map[string]string)}
}

func (kv *MapKV) Get(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	return v, ok, nil
}

func (kv *MapKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return nil
}

// FileKV persists the whole key space to one JSON file, rewritten on every
// Set. Last-writer-wins across processes, same as two tabs sharing
// local storage.
type FileKV struct {
	mu   sync.Mutex
	path string
	data map[string]string
}

func NewFileKV(path string) (*FileKV, error) {
	kv := &FileKV{path: path, data: make(map[string]string)}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return kv, nil
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &kv.data); err != nil {
		return nil, err
	}
	return kv, nil
}

func (kv *FileKV) Get(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	return v, ok, nil
}

func (kv *FileKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	raw, err := json.MarshalIndent(kv.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(kv.path, raw, 0644)
}
