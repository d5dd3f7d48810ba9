package catalog

import (
	"bytes"
	"fmt"
	"os"

	"github.com/alexanderramin/timesplit/internal/domain"
	"gopkg.in/yaml.v3"
)

// fileSchema is the on-disk layout of a catalog YAML file.
type fileSchema struct {
	DefaultRole domain.Role `yaml:"default_role"`
	Roles       []RoleSpec  `yaml:"roles"`
}

// Load reads a catalog YAML file. An empty path returns Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates catalog YAML. Unknown fields are rejected.
func Parse(data []byte) (*Catalog, error) {
	var f fileSchema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return New(f.Roles, f.DefaultRole)
}

// Marshal renders c in the YAML layout Parse accepts.
func Marshal(c *Catalog) ([]byte, error) {
	return yaml.Marshal(fileSchema{DefaultRole: c.DefaultRole(), Roles: c.Roles()})
}
