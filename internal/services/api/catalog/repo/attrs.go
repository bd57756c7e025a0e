package repo

import (
	"bytes"

	"lorebook/internal/services/api/catalog/domain"

	"github.com/goccy/go-json"
)

// encodeAttrs renders fields as a jsonb literal
func encodeAttrs(f domain.Fields) (string, error) {
	if f == nil {
		return "{}", nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeAttrs parses a jsonb document back into canonical field values
// integers come back as int64 and string arrays as []string
func decodeAttrs(s string) (domain.Fields, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	out := make(domain.Fields, len(raw))
	for k, v := range raw {
		out[k] = canonical(v)
	}
	return out, nil
}

func canonical(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		f, _ := x.Float64()
		return f
	case []any:
		ss := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				return x
			}
			ss = append(ss, s)
		}
		return ss
	}
	return v
}
