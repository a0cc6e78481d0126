package model

import (
	"bytes"
	"encoding/json"
	"sort"
)

// Patch is a validated partial document: field name to new value.
type Patch map[string]any

// Apply overlays p onto base. Incoming values override existing ones and only
// keys present in p are touched. It returns the merged document and the sorted
// keys whose value actually changed.
func (p Patch) Apply(base map[string]any) (map[string]any, []string) {
	merged := make(map[string]any, len(base)+len(p))
	for k, v := range base {
		merged[k] = v
	}
	var changed []string
	for k, v := range p {
		old, ok := base[k]
		if !ok || !sameJSON(old, v) {
			changed = append(changed, k)
		}
		merged[k] = v
	}
	sort.Strings(changed)
	return merged, changed
}

// Only returns a copy of p restricted to keys.
func (p Patch) Only(keys []string) Patch {
	out := make(Patch, len(keys))
	for _, k := range keys {
		if v, ok := p[k]; ok {
			out[k] = v
		}
	}
	return out
}

// ToDocument converts v into its generic JSON document form.
func ToDocument(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// sameJSON compares values by their JSON encoding so that 1990 and 1990.0
// or []string and []any with equal elements are considered equal.
func sameJSON(a, b any) bool {
	ra, errA := json.Marshal(a)
	rb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ra, rb)
}
