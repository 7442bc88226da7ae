package models

// RelaxationStep records one search attempt during constraint relaxation.
// CategoryDist counts results per "category/subcategory" pair.
type RelaxationStep struct {
	Level        int            `json:"level"`
	Label        string         `json:"label"`
	Query        Query          `json:"query"`
	ResultCount  int            `json:"count"`
	CategoryDist map[string]int `json:"cats,omitempty"`
}

// RelaxationTrace is the append-only attempt log for one request.
type RelaxationTrace struct {
	Steps []RelaxationStep `json:"steps"`
}

// Append records an attempt. The query is deep-copied so later relaxation
// steps cannot mutate recorded snapshots.
func (t *RelaxationTrace) Append(level int, label string, q Query, results []Meeting) {
	dist := make(map[string]int)
	for _, m := range results {
		dist[m.Category+"/"+m.Subcategory]++
	}
	if len(dist) == 0 {
		dist = nil
	}
	t.Steps = append(t.Steps, RelaxationStep{
		Level:        level,
		Label:        label,
		Query:        q.Clone(),
		ResultCount:  len(results),
		CategoryDist: dist,
	})
}
