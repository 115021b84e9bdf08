package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fjonas/folio/internal/inspire"
	"github.com/xeipuuv/gojsonschema"
)

// DefaultSnapshotFile is the name of the static pre-generated snapshot.
const DefaultSnapshotFile = "publications.json"

// snapshotSchema accepts an array of objects that each carry a metadata
// object. Everything else about a record is optional.
const snapshotSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["metadata"],
    "properties": {
      "id": {"type": ["string", "integer"]},
      "metadata": {"type": "object"}
    }
  }
}`

var snapshotSchemaLoader = gojsonschema.NewStringLoader(snapshotSchema)

// ValidationError lists the schema violations of a snapshot document.
type ValidationError struct {
	Path   string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid snapshot %s: %s", e.Path, strings.Join(e.Errors, "; "))
}

// ReadSnapshotFile reads the static snapshot. A missing file returns
// ErrMiss; a document that fails validation returns a *ValidationError
// wrapped with ErrCorrupt.
func ReadSnapshotFile(path string) ([]inspire.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMiss
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return DecodeSnapshot(path, data)
}

// DecodeSnapshot validates and decodes snapshot bytes. path is used only in
// error messages.
func DecodeSnapshot(path string, data []byte) ([]inspire.Record, error) {
	result, err := gojsonschema.Validate(snapshotSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if !result.Valid() {
		verr := &ValidationError{Path: path}
		for _, desc := range result.Errors() {
			field := desc.Field()
			if field == "" {
				field = "(root)"
			}
			verr.Errors = append(verr.Errors, field+": "+desc.Description())
		}
		return nil, errors.Join(ErrCorrupt, verr)
	}

	var recs []inspire.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return recs, nil
}

// WriteSnapshotFile writes records as indented JSON, replacing path
// atomically.
func WriteSnapshotFile(path string, records []inspire.Record) error {
	if records == nil {
		records = []inspire.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
