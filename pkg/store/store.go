// Package store provides the document store the collector persists to.
//
// Records live in flat-field documents grouped into named collections,
// mirroring the four operations the pipeline needs: read a whole
// collection, add a document, update fields of an existing document, and
// look a document up by field equality.
package store

// Collection names used by the collector
const (
	CollectionOptions   = "options"
	CollectionBlacklist = "blacklist"
	CollectionAliases   = "aliases"
	CollectionTweets    = "tweets"
)

// Option names within the options collection
const (
	OptionSearch       = "search"
	OptionLastResultID = "lastResultId"
)

// Document is a stored record together with its opaque handle. The ID is
// only meaningful to the store that produced it.
type Document struct {
	ID         int64
	Collection string
	Fields     map[string]interface{}
}

// String returns the string value of a field, or "" if absent or not a string
func (d Document) String(field string) string {
	if v, ok := d.Fields[field].(string); ok {
		return v
	}
	return ""
}

// Store is the document store contract used by the collector
type Store interface {
	// GetAll returns every document in a collection, oldest first
	GetAll(collection string) ([]Document, error)

	// Add inserts a document and returns it with its handle populated
	Add(collection string, fields map[string]interface{}) (Document, error)

	// UpdateFields merges the given fields into an existing document
	UpdateFields(doc Document, fields map[string]interface{}) error

	// FindByField returns the documents whose field equals value
	FindByField(collection, field string, value interface{}) ([]Document, error)

	// Close releases any resources held by the store
	Close() error
}
