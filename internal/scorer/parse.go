package scorer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/huangsam/douremember/schema"
)

// ErrMalformedScores is returned when the model output is not a same-length
// array of objects carrying all seven criteria.
var ErrMalformedScores = errors.New("malformed scores")

// StripFences removes markdown code fences and stray backticks the model may
// wrap around the JSON payload.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.ReplaceAll(s, "`", "")
	return strings.TrimSpace(s)
}

// ParseScores decodes the model output into one score object per description.
// expected < 0 skips the length check.
func ParseScores(text string, expected int) ([]schema.CriterionScores, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(StripFences(text))))
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScores, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after array", ErrMalformedScores)
	}
	if expected >= 0 && len(raw) != expected {
		return nil, fmt.Errorf("%w: got %d objects, want %d", ErrMalformedScores, len(raw), expected)
	}

	out := make([]schema.CriterionScores, 0, len(raw))
	for i, obj := range raw {
		var s schema.CriterionScores
		for _, c := range schema.AllCriteria {
			v, ok := obj[c.Key()]
			if !ok {
				return nil, fmt.Errorf("%w: object %d lacks %s", ErrMalformedScores, i, c.Key())
			}
			f, err := toFloat(v)
			if err != nil {
				return nil, fmt.Errorf("%w: object %d field %s: %v", ErrMalformedScores, i, c.Key(), err)
			}
			s.Set(c, f)
		}
		out = append(out, s)
	}
	return out, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}
