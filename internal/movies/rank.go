package movies

import (
	"sort"

	"github.com/peliculas/peliculas/internal/graph"
)

// decodeIntermediates converts the collected {kind, name} maps of a result
// row into scorer input.
func decodeIntermediates(maps []map[string]any) []Intermediate {
	nodes := make([]Intermediate, 0, len(maps))
	for _, m := range maps {
		node := Intermediate{}
		if kind, ok := m["kind"].(string); ok {
			node.Kind = kind
		}
		if name, ok := m["name"].(string); ok {
			node.Name = name
		}
		if node.Kind == "" {
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// rank orders recommendations by score descending and truncates to limit.
// The sort is stable: ties keep their first-discovery order, which is the
// row order of the store result and deterministic for a fixed graph
// snapshot.
func rank(recs []Recommendation, limit int) []Recommendation {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

// candidateRef reads the candidate movie reference out of a traversal row.
func candidateRef(row graph.Row) MovieRef {
	return MovieRef{
		ExternalID: row.String("external_id"),
		Title:      row.String("title"),
	}
}
