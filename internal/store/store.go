// Package store owns the persistent project metadata document.
//
// All state lives in a single JSON file at the project root. Every public
// operation is a full load-mutate-save round trip: the document is read from
// disk, changed in memory, and written back atomically through a temp-file
// rename. Nothing is cached between calls.
//
// Operations within one process are serialized by an internal mutex, so
// parallel MCP tool calls cannot lose each other's updates. There is no
// cross-process locking: a second process writing the same document can
// still overwrite changes, and that usage is unsupported.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"scrivener/internal/logging"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema gates decoded documents: a file that parses as JSON but has
// the wrong shape counts as corrupt and is recreated, same as unparseable
// input.
const documentSchema = `{
	"type": "object",
	"required": ["plans", "docs", "todos", "recent_changes", "file_status", "list_variables"],
	"properties": {
		"plans": {"type": ["array", "object"]},
		"docs": {"type": "object"},
		"todos": {"type": "array"},
		"recent_changes": {
			"type": "object",
			"required": ["current", "archived"],
			"properties": {
				"current": {"type": "array", "items": {"type": "string"}},
				"archived": {"type": "array", "items": {"type": "string"}}
			}
		},
		"file_status": {"type": "object"},
		"list_variables": {"type": "object"}
	}
}`

var compiledSchema = jsonschema.MustCompileString("project_meta.schema.json", documentSchema)

// Store is the single source of truth for project metadata.
//
// The zero value is not usable; construct with New. One Store is created at
// process start and shared by every handler for its lifetime.
type Store struct {
	mu          sync.Mutex
	projectRoot string
	metaPath    string
	logger      *logging.AppLogger

	now func() time.Time // test seam
}

// New creates a Store rooted at projectRoot, persisting to metaFileName
// inside it. The metadata file is created with the default empty schema if
// it does not exist yet.
func New(projectRoot, metaFileName string, logger *logging.AppLogger) (*Store, error) {
	if logger == nil {
		logger = logging.GetDefault()
	}

	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	if metaFileName == "" {
		metaFileName = "project_meta.json"
	}

	s := &Store{
		projectRoot: abs,
		metaPath:    filepath.Join(abs, metaFileName),
		logger:      logger,
		now:         time.Now,
	}

	if _, err := os.Stat(s.metaPath); errors.Is(err, os.ErrNotExist) {
		if err := s.save(NewDocument()); err != nil {
			return nil, fmt.Errorf("failed to create metadata file: %w", err)
		}
	}

	return s, nil
}

// ProjectRoot returns the absolute project root the store normalizes
// file-audit paths against.
func (s *Store) ProjectRoot() string {
	return s.projectRoot
}

// MetaPath returns the full path of the metadata document.
func (s *Store) MetaPath() string {
	return s.metaPath
}

// load reads the document from disk. A missing, unparseable, or
// wrong-shaped file is destructively replaced with the default empty schema;
// the replacement is logged and the default returned. Callers must hold mu.
func (s *Store) load() (*Document, error) {
	data, err := os.ReadFile(s.metaPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read metadata file: %w", err)
		}
		return s.heal("metadata file missing", err)
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return s.heal("metadata file is not valid JSON", err)
	}
	if err := compiledSchema.Validate(raw); err != nil {
		return s.heal("metadata file violates the document schema", err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return s.heal("metadata file could not be decoded", err)
	}

	doc.normalize()
	return &doc, nil
}

// heal replaces a corrupt or missing document with the default empty schema.
// This is destructive: whatever was in the file is gone after this.
func (s *Store) heal(reason string, cause error) (*Document, error) {
	s.logger.Warn("Recreating metadata file", "reason", reason, "error", cause, "path", s.metaPath)

	doc := NewDocument()
	if err := s.save(doc); err != nil {
		return nil, fmt.Errorf("failed to recreate metadata file: %w", err)
	}
	return doc, nil
}

// save writes the document to a temp sibling and atomically renames it over
// the real path. A crash mid-write leaves either the old document or the new
// one, never a partial file. Callers must hold mu.
func (s *Store) save(doc *Document) error {
	if err := os.MkdirAll(filepath.Dir(s.metaPath), 0755); err != nil {
		return fmt.Errorf("failed to create metadata directory: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	tmpPath := s.metaPath + ".tmp"
	if err := os.WriteFile(tmpPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write temporary metadata file: %w", err)
	}
	if err := os.Rename(tmpPath, s.metaPath); err != nil {
		return fmt.Errorf("failed to replace metadata file: %w", err)
	}

	s.logger.Debug("Metadata saved", "path", s.metaPath)
	return nil
}

// timestamp returns the store's canonical timestamp string.
func (s *Store) timestamp() string {
	return s.now().Format(time.RFC3339)
}
