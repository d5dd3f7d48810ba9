package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxIdentityLen bounds the name and team of a response, in characters.
const MaxIdentityLen = 255

type Role string

const (
	RoleServer   Role = "server"
	RoleFrontend Role = "frontend"
	RoleQA       Role = "qa"
)

// DefaultRole is used for responses stored before roles existed and for
// submissions that leave the role empty.
const DefaultRole = RoleServer

// NormalizeRole lowercases and trims r, mapping empty to DefaultRole.
func NormalizeRole(r string) Role {
	r = strings.ToLower(strings.TrimSpace(r))
	if r == "" {
		return DefaultRole
	}
	return Role(r)
}

// Response is one respondent's submitted allocation. Name is the natural
// key: resubmitting under the same name replaces the previous answer.
type Response struct {
	ID         string
	Name       string
	Team       string
	Role       Role
	Allocation map[string]float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Keys returns the allocation keys in lexical order.
func (r *Response) Keys() []string {
	keys := make([]string, 0, len(r.Allocation))
	for k := range r.Allocation {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SumOf adds the allocation values for keys. Absent keys count as zero.
func (r *Response) SumOf(keys []string) float64 {
	var total float64
	for _, k := range keys {
		total += r.Allocation[k]
	}
	return total
}

// NormalizeIdentity trims name and team and checks both are present and
// within MaxIdentityLen characters.
func NormalizeIdentity(name, team string) (string, string, error) {
	name = strings.TrimSpace(name)
	team = strings.TrimSpace(team)
	if err := checkIdentityField("name", name); err != nil {
		return "", "", err
	}
	if err := checkIdentityField("team", team); err != nil {
		return "", "", err
	}
	return name, team, nil
}

func checkIdentityField(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	if n := utf8.RuneCountInString(v); n > MaxIdentityLen {
		return fmt.Errorf("%s is %d characters, maximum is %d", field, n, MaxIdentityLen)
	}
	return nil
}
