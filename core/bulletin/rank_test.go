package bulletin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRank(t *testing.T) {
	tests := []struct {
		name      string
		standings []Standing
		want      []Ranking
	}{
		{name: "empty", standings: nil, want: []Ranking{}},
		{
			name:      "single",
			standings: []Standing{{Key: "a", Average: 9}},
			want:      []Ranking{{Key: "a", Average: 9, Rank: 1, ClassSize: 1}},
		},
		{
			name:      "best first",
			standings: []Standing{{Key: "a", Average: 9}, {Key: "b", Average: 17.5}, {Key: "c", Average: 12}},
			want: []Ranking{
				{Key: "b", Average: 17.5, Rank: 1, ClassSize: 3},
				{Key: "c", Average: 12, Rank: 2, ClassSize: 3},
				{Key: "a", Average: 9, Rank: 3, ClassSize: 3},
			},
		},
		{
			name:      "ties keep input order",
			standings: []Standing{{Key: "a", Average: 14}, {Key: "b", Average: 14}},
			want: []Ranking{
				{Key: "a", Average: 14, Rank: 1, ClassSize: 2},
				{Key: "b", Average: 14, Rank: 2, ClassSize: 2},
			},
		},
		{
			name: "ties among others",
			standings: []Standing{
				{Key: "a", Average: 10}, {Key: "b", Average: 15}, {Key: "c", Average: 10}, {Key: "d", Average: 15},
			},
			want: []Ranking{
				{Key: "b", Average: 15, Rank: 1, ClassSize: 4},
				{Key: "d", Average: 15, Rank: 2, ClassSize: 4},
				{Key: "a", Average: 10, Rank: 3, ClassSize: 4},
				{Key: "c", Average: 10, Rank: 4, ClassSize: 4},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Rank(tt.standings))
		})
	}
}

func TestRank_doesNotMutateInput(t *testing.T) {
	standings := []Standing{{Key: "a", Average: 1}, {Key: "b", Average: 2}}
	Rank(standings)
	assert.Equal(t, []Standing{{Key: "a", Average: 1}, {Key: "b", Average: 2}}, standings)
}

func TestRank_ranksArePermutation(t *testing.T) {
	standings := make([]Standing, 0, 40)
	for i := 0; i < 40; i++ {
		standings = append(standings, Standing{Key: string(rune('A' + i)), Average: float64(i % 7)})
	}
	rankings := Rank(standings)

	seen := make(map[int]bool, len(rankings))
	for i, r := range rankings {
		assert.Equal(t, i+1, r.Rank)
		assert.Equal(t, len(standings), r.ClassSize)
		assert.False(t, seen[r.Rank])
		seen[r.Rank] = true
		if i > 0 {
			assert.LessOrEqual(t, r.Average, rankings[i-1].Average)
		}
	}
}
