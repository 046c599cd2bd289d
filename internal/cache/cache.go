// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cache holds the in-memory mirror of the durable metadata store.
// It is a plain mapping from storage key to per-entry encryption metadata,
// scoped to process lifetime, with no persistence of its own. It exists to
// avoid a durable-store round-trip on every read.
package cache

import (
	"sync"

	"github.com/MKhiriev/bvault/models"
)

// Cache is a concurrency-safe mapping from storage key to
// [models.EncryptionMetadata]. All operations are O(1).
type Cache struct {
	mu      sync.RWMutex
	entries map[string]models.EncryptionMetadata
}

// New returns an empty Cache ready for use.
func New() *Cache {
	return &Cache{
		entries: make(map[string]models.EncryptionMetadata),
	}
}

// Set stores metadata for the given key, replacing any previous value.
func (c *Cache) Set(key string, meta models.EncryptionMetadata) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = meta
}

// Get returns the metadata for key and whether it is present.
func (c *Cache) Get(key string) (models.EncryptionMetadata, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.entries[key]
	return meta, ok
}

// Delete removes the metadata for key. Deleting an absent key is a no-op.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]models.EncryptionMetadata)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
