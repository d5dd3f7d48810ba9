package importer

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ValidateImportSchema checks the import schema for structural errors before
// any response is applied. Returns a slice of all validation errors found.
// Catalog rules (roles, category keys, the 100% total) are left to the
// submission path.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	if len(schema.Responses) == 0 {
		return []error{fmt.Errorf("responses: at least one response is required")}
	}

	seen := make(map[string]int, len(schema.Responses))
	for i, r := range schema.Responses {
		prefix := fmt.Sprintf("responses[%d]", i)
		name := strings.TrimSpace(r.Name)

		if name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else {
			if first, dup := seen[name]; dup {
				errs = append(errs, fmt.Errorf("%s.name %q duplicates responses[%d]", prefix, name, first))
			} else {
				seen[name] = i
			}
		}
		if strings.TrimSpace(r.Team) == "" {
			errs = append(errs, fmt.Errorf("%s.team is required", prefix))
		}
		if len(r.TimeAllocation) == 0 {
			errs = append(errs, fmt.Errorf("%s.time_allocation is required", prefix))
		}
		errs = append(errs, validateValues(prefix, r.TimeAllocation)...)
	}

	return errs
}

func validateValues(prefix string, values map[string]float64) []error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, k := range keys {
		v := values[k]
		switch {
		case strings.TrimSpace(k) == "":
			errs = append(errs, fmt.Errorf("%s.time_allocation has an empty key", prefix))
		case math.IsNaN(v) || math.IsInf(v, 0):
			errs = append(errs, fmt.Errorf("%s.time_allocation.%s is not a number", prefix, k))
		case v < 0:
			errs = append(errs, fmt.Errorf("%s.time_allocation.%s: %v is negative", prefix, k, v))
		case v > 100:
			errs = append(errs, fmt.Errorf("%s.time_allocation.%s: %v exceeds 100", prefix, k, v))
		}
	}
	return errs
}
