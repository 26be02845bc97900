package query

import "strings"

// Projection selects the fields returned per document. Include wins over
// Exclude; the zero value returns whole documents.
type Projection struct {
	Include []string `json:"include,omitempty"`
	Exclude []string `json:"exclude,omitempty"`
}

// IsZero reports whether the projection returns whole documents.
func (p Projection) IsZero() bool {
	return len(p.Include) == 0 && len(p.Exclude) == 0
}

// Apply returns a projected copy of doc. doc itself is not modified.
func (p Projection) Apply(doc Document) Document {
	switch {
	case len(p.Include) > 0:
		out := make(Document, len(p.Include))
		for _, path := range p.Include {
			if v, ok := doc.Lookup(path); ok {
				setPath(out, path, v)
			}
		}
		return out
	case len(p.Exclude) > 0:
		out := make(Document, len(doc))
		for k, v := range doc {
			out[k] = v
		}
		for _, path := range p.Exclude {
			deletePath(out, path)
		}
		return out
	default:
		return doc
	}
}

func setPath(doc map[string]any, path string, v any) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[part] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = v
}

// deletePath removes path, copying each nested map on the way down so the
// source document's maps are never mutated.
func deletePath(doc map[string]any, path string) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur[part].(map[string]any)
		if !ok {
			return
		}
		cp := make(map[string]any, len(next))
		for k, v := range next {
			cp[k] = v
		}
		cur[part] = cp
		cur = cp
	}
	delete(cur, parts[len(parts)-1])
}
