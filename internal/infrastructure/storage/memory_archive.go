package storage

import (
	"context"
	"net/url"
	"sync"
	"time"

	appledger "github.com/debtbook/backend/internal/application/ledger"
)

var _ appledger.ExportArchive = (*MemoryExportArchive)(nil)

// MemoryExportArchive keeps exports in process memory. Links point at
// BaseURL and are not served by anything; it is meant for development and
// tests.
type MemoryExportArchive struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryExportArchive creates an empty in-memory archive
func NewMemoryExportArchive() *MemoryExportArchive {
	return &MemoryExportArchive{
		BaseURL: "https://storage.example.com",
		objects: make(map[string]memoryObject),
	}
}

// Put stores a copy of data under key
func (a *MemoryExportArchive) Put(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return ErrKeyRequired
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[key] = memoryObject{data: append([]byte(nil), data...), contentType: contentType}
	return nil
}

// DownloadURL returns a placeholder link to key
func (a *MemoryExportArchive) DownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrKeyRequired
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiration
	}
	expiresAt := time.Now().Add(expiresIn)
	return a.BaseURL + "/" + key + "?expires=" + url.QueryEscape(expiresAt.UTC().Format(time.RFC3339)), expiresAt, nil
}

// Get returns the stored object and its content type
func (a *MemoryExportArchive) Get(key string) ([]byte, string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	obj, ok := a.objects[key]
	return obj.data, obj.contentType, ok
}

// Len returns the number of stored objects
func (a *MemoryExportArchive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.objects)
}
