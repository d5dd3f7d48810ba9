package repository

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/timesplit/internal/db"
)

// encodeAllocation renders an allocation for the time_allocation column.
// A nil map is stored as an empty object.
func encodeAllocation(values map[string]float64) (string, error) {
	if values == nil {
		return "{}", nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("encoding allocation: %w", err)
	}
	return string(b), nil
}

// decodeAllocation parses the time_allocation column. Non-numeric entries
// written by hand are dropped rather than failing the whole row.
func decodeAllocation(s string) (map[string]float64, error) {
	out := make(map[string]float64)
	if strings.TrimSpace(s) == "" {
		return out, nil
	}
	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("decoding allocation: %w", err)
	}
	for k, v := range raw {
		if f, ok := v.(float64); ok {
			out[k] = f
		}
	}
	return out, nil
}

func parseStoredTime(s string) time.Time {
	t, err := db.ParseTime(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// likePattern escapes s for a LIKE ... ESCAPE '\' substring match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}
