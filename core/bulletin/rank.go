package bulletin

import "sort"

// Standing is the average of a ranked entity, usually a student or one of their report cards.
type Standing struct {
	Key     string
	Average float64
}

type Ranking struct {
	Key       string
	Average   float64
	Rank      int
	ClassSize int
}

// Rank orders standings by average, best first, and assigns ranks 1..N.
// Ties are not shared: the standing that comes first in the input keeps the better rank.
func Rank(standings []Standing) []Ranking {
	sorted := make([]Standing, len(standings))
	copy(sorted, standings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Average > sorted[j].Average
	})

	rankings := make([]Ranking, 0, len(sorted))
	for i, s := range sorted {
		rankings = append(rankings, Ranking{
			Key:       s.Key,
			Average:   s.Average,
			Rank:      i + 1,
			ClassSize: len(sorted),
		})
	}
	return rankings
}

func findRanking(rankings []Ranking, key string) (Ranking, bool) {
	for _, r := range rankings {
		if r.Key == key {
			return r, true
		}
	}
	return Ranking{}, false
}
