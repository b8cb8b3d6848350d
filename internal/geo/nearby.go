package geo

import "sort"

// Locatable is anything with an optional position.
type Locatable interface {
	Position() (Point, bool)
}

// Nearby is a candidate annotated with its distance from the search center.
type Nearby[T any] struct {
	Item           T       `json:"item"`
	DistanceMeters float64 `json:"distance_meters"`
	DistanceText   string  `json:"distance"`
}

// FindNearby keeps the candidates within radiusMeters of center, nearest first.
// Candidates without a valid position are skipped.
func FindNearby[T Locatable](center Point, candidates []T, radiusMeters float64) []Nearby[T] {
	out := make([]Nearby[T], 0, len(candidates))
	if !center.Valid() || !(radiusMeters >= 0) {
		return out
	}

	for _, c := range candidates {
		pos, ok := c.Position()
		if !ok || !pos.Valid() {
			continue
		}
		d := Distance(center, pos)
		if d > radiusMeters {
			continue
		}
		out = append(out, Nearby[T]{
			Item:           c,
			DistanceMeters: d,
			DistanceText:   FormatDistance(d),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceMeters < out[j].DistanceMeters
	})
	return out
}
