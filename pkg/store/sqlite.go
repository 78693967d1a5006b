package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a single SQLite documents table. Fields
// are stored as a JSON object per row; equality lookups go through the
// JSON1 json_extract function.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// migrate creates the database schema
func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		collection TEXT NOT NULL,
		fields TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
	CREATE INDEX IF NOT EXISTS idx_documents_tweet_id
		ON documents(collection, json_extract(fields, '$.tweetId'));
	`

	_, err := s.db.Exec(schema)
	return err
}

// GetAll returns every document in a collection, oldest first
func (s *SQLiteStore) GetAll(collection string) ([]Document, error) {
	rows, err := s.db.Query(
		`SELECT id, fields FROM documents WHERE collection = ? ORDER BY id`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection %s: %w", collection, err)
	}
	defer rows.Close()

	return s.scanDocuments(rows, collection)
}

// Add inserts a document and returns it with its handle populated
func (s *SQLiteStore) Add(collection string, fields map[string]interface{}) (Document, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return Document{}, fmt.Errorf("failed to marshal fields: %w", err)
	}

	res, err := s.db.Exec(
		`INSERT INTO documents (collection, fields) VALUES (?, ?)`,
		collection, string(data),
	)
	if err != nil {
		return Document{}, fmt.Errorf("failed to insert into %s: %w", collection, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Document{}, fmt.Errorf("failed to read inserted id: %w", err)
	}

	return Document{ID: id, Collection: collection, Fields: copyFields(fields)}, nil
}

// UpdateFields merges the given fields into an existing document
func (s *SQLiteStore) UpdateFields(doc Document, fields map[string]interface{}) error {
	if doc.ID == 0 {
		return fmt.Errorf("cannot update a document without a handle")
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to marshal fields: %w", err)
	}

	res, err := s.db.Exec(
		`UPDATE documents SET fields = json_patch(fields, ?) WHERE id = ?`,
		string(data), doc.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update document %d: %w", doc.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("document %d not found", doc.ID)
	}

	return nil
}

// FindByField returns the documents whose field equals value
func (s *SQLiteStore) FindByField(collection, field string, value interface{}) ([]Document, error) {
	rows, err := s.db.Query(
		`SELECT id, fields FROM documents
		 WHERE collection = ? AND json_extract(fields, ?) = ?
		 ORDER BY id`,
		collection, "$."+field, value,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s by %s: %w", collection, field, err)
	}
	defer rows.Close()

	return s.scanDocuments(rows, collection)
}

// scanDocuments reads id+fields rows into Documents
func (s *SQLiteStore) scanDocuments(rows *sql.Rows, collection string) ([]Document, error) {
	var docs []Document
	for rows.Next() {
		var (
			id   int64
			data string
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}

		fields := make(map[string]interface{})
		if err := json.Unmarshal([]byte(data), &fields); err != nil {
			return nil, fmt.Errorf("failed to decode document %d: %w", id, err)
		}

		docs = append(docs, Document{ID: id, Collection: collection, Fields: fields})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}

	return docs, nil
}

func copyFields(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}
