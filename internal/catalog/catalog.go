// Package catalog holds the static table of roles, their category groups
// and their teams. A Catalog is immutable once built; every accessor returns
// a copy.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/timesplit/internal/domain"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

type GroupID string

const (
	DevelopmentProcess GroupID = "development_process"
	DailyTasks         GroupID = "daily_tasks"
)

type Field struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
}

type Group struct {
	ID     GroupID `yaml:"id" json:"id"`
	Title  string  `yaml:"title" json:"title"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Keys returns the field keys of g in display order.
func (g Group) Keys() []string {
	keys := make([]string, len(g.Fields))
	for i, f := range g.Fields {
		keys[i] = f.Key
	}
	return keys
}

// RoleSpec describes the survey one role answers.
type RoleSpec struct {
	Role   domain.Role        `yaml:"role" json:"role"`
	Label  string             `yaml:"label" json:"label"`
	Groups []Group            `yaml:"groups" json:"groups"`
	Teams  []string           `yaml:"teams" json:"teams"`
	Preset map[string]float64 `yaml:"preset,omitempty" json:"preset,omitempty"`
}

// Keys returns every category key of the role, group by group.
func (s RoleSpec) Keys() []string {
	var keys []string
	for _, g := range s.Groups {
		keys = append(keys, g.Keys()...)
	}
	return keys
}

// GroupKeys returns the keys of group id, or nil when the role has no such
// group.
func (s RoleSpec) GroupKeys(id GroupID) []string {
	for _, g := range s.Groups {
		if g.ID == id {
			return g.Keys()
		}
	}
	return nil
}

// HasKey reports whether key is one of the role's categories.
func (s RoleSpec) HasKey(key string) bool {
	for _, g := range s.Groups {
		for _, f := range g.Fields {
			if f.Key == key {
				return true
			}
		}
	}
	return false
}

// FieldLabel returns the display label for key, falling back to the key itself.
func (s RoleSpec) FieldLabel(key string) string {
	for _, g := range s.Groups {
		for _, f := range g.Fields {
			if f.Key == key {
				return f.Label
			}
		}
	}
	return key
}

// HasTeam reports whether team is listed for the role.
func (s RoleSpec) HasTeam(team string) bool {
	for _, t := range s.Teams {
		if t == team {
			return true
		}
	}
	return false
}

func (s RoleSpec) clone() RoleSpec {
	out := RoleSpec{
		Role:  s.Role,
		Label: s.Label,
		Teams: append([]string(nil), s.Teams...),
	}
	out.Groups = make([]Group, len(s.Groups))
	for i, g := range s.Groups {
		out.Groups[i] = Group{ID: g.ID, Title: g.Title, Fields: append([]Field(nil), g.Fields...)}
	}
	if s.Preset != nil {
		out.Preset = make(map[string]float64, len(s.Preset))
		for k, v := range s.Preset {
			out.Preset[k] = v
		}
	}
	return out
}

// Catalog is the role lookup table.
type Catalog struct {
	roles       []RoleSpec
	index       map[domain.Role]int
	defaultRole domain.Role
}

// New validates specs and builds a Catalog. defaultRole is what Resolve
// falls back to; empty means domain.DefaultRole.
func New(specs []RoleSpec, defaultRole domain.Role) (*Catalog, error) {
	if defaultRole == "" {
		defaultRole = domain.DefaultRole
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: no roles defined", ErrInvalidCatalog)
	}

	c := &Catalog{index: make(map[domain.Role]int, len(specs)), defaultRole: defaultRole}
	for i, spec := range specs {
		spec = spec.clone()
		spec.Role = domain.NormalizeRole(string(spec.Role))
		if err := validateRole(spec); err != nil {
			return nil, err
		}
		if _, dup := c.index[spec.Role]; dup {
			return nil, fmt.Errorf("%w: role %q defined twice", ErrInvalidCatalog, spec.Role)
		}
		if spec.Label == "" {
			spec.Label = string(spec.Role)
		}
		c.index[spec.Role] = i
		c.roles = append(c.roles, spec)
	}

	if _, ok := c.index[defaultRole]; !ok {
		return nil, fmt.Errorf("%w: default role %q is not defined", ErrInvalidCatalog, defaultRole)
	}
	return c, nil
}

func validateRole(spec RoleSpec) error {
	if len(spec.Groups) == 0 {
		return fmt.Errorf("%w: role %q has no groups", ErrInvalidCatalog, spec.Role)
	}
	seenGroups := make(map[GroupID]bool, len(spec.Groups))
	seenKeys := make(map[string]bool)
	for gi := range spec.Groups {
		g := &spec.Groups[gi]
		if g.ID == "" {
			return fmt.Errorf("%w: role %q group %d has no id", ErrInvalidCatalog, spec.Role, gi)
		}
		if seenGroups[g.ID] {
			return fmt.Errorf("%w: role %q repeats group %q", ErrInvalidCatalog, spec.Role, g.ID)
		}
		seenGroups[g.ID] = true
		if len(g.Fields) == 0 {
			return fmt.Errorf("%w: role %q group %q has no fields", ErrInvalidCatalog, spec.Role, g.ID)
		}
		for fi := range g.Fields {
			f := &g.Fields[fi]
			f.Key = strings.TrimSpace(f.Key)
			if f.Key == "" {
				return fmt.Errorf("%w: role %q group %q field %d has no key", ErrInvalidCatalog, spec.Role, g.ID, fi)
			}
			if seenKeys[f.Key] {
				return fmt.Errorf("%w: role %q repeats key %q", ErrInvalidCatalog, spec.Role, f.Key)
			}
			seenKeys[f.Key] = true
			if f.Label == "" {
				f.Label = f.Key
			}
		}
	}
	for k, v := range spec.Preset {
		if !seenKeys[k] {
			return fmt.Errorf("%w: role %q preset names unknown key %q", ErrInvalidCatalog, spec.Role, k)
		}
		if v < 0 || v > 100 {
			return fmt.Errorf("%w: role %q preset %q=%v is outside 0-100", ErrInvalidCatalog, spec.Role, k, v)
		}
	}
	return nil
}

// Lookup returns the fields and teams of role, if it is defined.
func (c *Catalog) Lookup(role domain.Role) (RoleSpec, bool) {
	i, ok := c.index[domain.NormalizeRole(string(role))]
	if !ok {
		return RoleSpec{}, false
	}
	return c.roles[i].clone(), true
}

// Resolve returns the definition of role, or the default role when role
// is empty or unknown.
func (c *Catalog) Resolve(role domain.Role) RoleSpec {
	if spec, ok := c.Lookup(role); ok {
		return spec
	}
	return c.roles[c.index[c.defaultRole]].clone()
}

// Roles returns every role in definition order.
func (c *Catalog) Roles() []RoleSpec {
	out := make([]RoleSpec, len(c.roles))
	for i, r := range c.roles {
		out[i] = r.clone()
	}
	return out
}

// DefaultRole is the role Resolve falls back to.
func (c *Catalog) DefaultRole() domain.Role { return c.defaultRole }
