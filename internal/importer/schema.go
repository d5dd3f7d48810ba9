package importer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// SchemaVersion is written by Export and accepted by Load.
const SchemaVersion = 1

// ImportSchema is the top-level JSON structure for response import and
// export. Export output can be imported again unchanged.
type ImportSchema struct {
	Version    int              `json:"version,omitempty"`
	ExportedAt *time.Time       `json:"exported_at,omitempty"`
	Responses  []ResponseImport `json:"responses"`
}

// ResponseImport is one respondent's answer in the import file.
type ResponseImport struct {
	Name           string             `json:"name"`
	Team           string             `json:"team"`
	Role           string             `json:"role,omitempty"`
	TimeAllocation map[string]float64 `json:"time_allocation"`
	UpdatedAt      *time.Time         `json:"updated_at,omitempty"`
}

// LoadImportSchema reads and parses a response import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeImportSchema(f)
}

// DecodeImportSchema parses an import document. Unknown fields are rejected.
func DecodeImportSchema(r io.Reader) (*ImportSchema, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var schema ImportSchema
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	if schema.Version > SchemaVersion {
		return nil, fmt.Errorf("import file version %d is newer than supported version %d", schema.Version, SchemaVersion)
	}
	return &schema, nil
}

// EncodeImportSchema writes schema as indented JSON.
func EncodeImportSchema(w io.Writer, schema *ImportSchema) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(schema); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}
	return nil
}
