package bulletin

// Mention is the qualitative appreciation of an average on the 0-20 scale.
type Mention string

const (
	MentionExcellent    Mention = "Excellent"
	MentionTresBien     Mention = "Très bien"
	MentionBien         Mention = "Bien"
	MentionAssezBien    Mention = "Assez bien"
	MentionPassable     Mention = "Passable"
	MentionInsuffisante Mention = "Insuffisant"
)

// mentionBands are checked top-down: the first band whose lower bound is reached wins.
var mentionBands = []struct {
	min     float64
	mention Mention
}{
	{16, MentionExcellent},
	{14, MentionTresBien},
	{12, MentionBien},
	{10, MentionAssezBien},
	{8, MentionPassable},
}

// MentionFor classifies an average. Bounds are inclusive: 16 is Excellent, 15.99 is Très bien.
func MentionFor(avg float64) Mention {
	for _, band := range mentionBands {
		if avg >= band.min {
			return band.mention
		}
	}
	return MentionInsuffisante
}

// Level orders mentions from Insuffisant (0) to Excellent (5). Unknown mentions are -1.
func (m Mention) Level() int {
	for i, band := range mentionBands {
		if band.mention == m {
			return len(mentionBands) - i
		}
	}
	if m == MentionInsuffisante {
		return 0
	}
	return -1
}
