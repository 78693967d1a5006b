package store

import (
	"fmt"
	"sync"
)

// MemoryStore implements Store with in-process maps. Used by tests and by
// dry runs where nothing should touch disk.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64
	docs   map[string][]*Document // collection -> documents, insertion order
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		docs:   make(map[string][]*Document),
	}
}

// GetAll returns every document in a collection, oldest first
func (m *MemoryStore) GetAll(collection string) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Document
	for _, doc := range m.docs[collection] {
		out = append(out, Document{
			ID:         doc.ID,
			Collection: doc.Collection,
			Fields:     copyFields(doc.Fields),
		})
	}
	return out, nil
}

// Add inserts a document and returns it with its handle populated
func (m *MemoryStore) Add(collection string, fields map[string]interface{}) (Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := &Document{
		ID:         m.nextID,
		Collection: collection,
		Fields:     copyFields(fields),
	}
	m.nextID++
	m.docs[collection] = append(m.docs[collection], doc)

	return Document{ID: doc.ID, Collection: collection, Fields: copyFields(fields)}, nil
}

// UpdateFields merges the given fields into an existing document
func (m *MemoryStore) UpdateFields(doc Document, fields map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, stored := range m.docs[doc.Collection] {
		if stored.ID == doc.ID {
			for k, v := range fields {
				stored.Fields[k] = v
			}
			return nil
		}
	}

	return fmt.Errorf("document %d not found", doc.ID)
}

// FindByField returns the documents whose field equals value
func (m *MemoryStore) FindByField(collection, field string, value interface{}) ([]Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []Document
	for _, doc := range m.docs[collection] {
		if doc.Fields[field] == value {
			out = append(out, Document{
				ID:         doc.ID,
				Collection: doc.Collection,
				Fields:     copyFields(doc.Fields),
			})
		}
	}
	return out, nil
}

// Close is a no-op for the in-memory store
func (m *MemoryStore) Close() error {
	return nil
}
