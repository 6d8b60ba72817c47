package movies

// Intermediate is a relationship node on a two-hop path between an anchor
// and a candidate movie, identified by its label and name.
type Intermediate struct {
	Kind string
	Name string
}

// relationWeights reflect the discriminative power of each relation: rare,
// strong signals outweigh common ones.
var relationWeights = map[string]float64{
	"Country":           1.0,
	"Actor":             1.5,
	"Writer":            2.0,
	"Director":          2.0,
	"ProductionCompany": 2.0,
	"Genre":             3.0,
}

// Score computes the weighted relevance of a candidate given the multiset of
// intermediate nodes connecting it to the anchor. Each distinct intermediate
// contributes its weight at most once, even when several path types reach
// the candidate through it. Unknown labels contribute nothing.
func Score(shared []Intermediate) float64 {
	seen := make(map[Intermediate]struct{}, len(shared))
	var score float64
	for _, node := range shared {
		if _, dup := seen[node]; dup {
			continue
		}
		seen[node] = struct{}{}
		score += relationWeights[node.Kind]
	}
	return score
}

// intermediateSet accumulates distinct intermediates for a candidate across
// one or more anchors, preserving nothing but membership.
type intermediateSet map[Intermediate]struct{}

func (s intermediateSet) add(nodes []Intermediate) {
	for _, node := range nodes {
		s[node] = struct{}{}
	}
}

func (s intermediateSet) score() float64 {
	var score float64
	for node := range s {
		score += relationWeights[node.Kind]
	}
	return score
}
