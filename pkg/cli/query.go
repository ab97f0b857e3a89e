package cli

import (
	"encoding/json"
	"fmt"

	"github.com/itchyny/gojq"
)

// Query is a parsed jq filter applied to command output.
type Query struct {
	expr  string
	query *gojq.Query
}

// ParseQuery parses a jq expression. An empty expression yields a nil
// Query, which passes values through unchanged.
func ParseQuery(expr string) (*Query, error) {
	if expr == "" {
		return nil, nil
	}
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression %q: %w", expr, err)
	}
	return &Query{expr: expr, query: q}, nil
}

// String returns the source expression.
func (q *Query) String() string {
	if q == nil {
		return "."
	}
	return q.expr
}

// Run applies the filter to v and returns every value it emits. v is first
// normalized through JSON so struct values can be queried by their JSON
// field names.
func (q *Query) Run(v any) ([]any, error) {
	input, err := normalize(v)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return []any{input}, nil
	}

	var out []any
	it := q.query.Run(input)
	for {
		r, ok := it.Next()
		if !ok {
			break
		}
		if err, ok := r.(error); ok {
			return out, fmt.Errorf("jq error: %w", err)
		}
		out = append(out, r)
	}
	return out, nil
}

func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal jq input: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal jq input: %w", err)
	}
	return out, nil
}
