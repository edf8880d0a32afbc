package population

// PlayoffRounds is the playoff depth R referenced by BotScore.Wins.
const PlayoffRounds = 3

// BotScore is the ordered tuple used for ranking bots. Lexicographic
// ascending order is worse-to-better. EnemyUnits and EnemyHealth are
// stored negated (accumulated as -otherSideCount) so that larger is
// always better under plain tuple comparison.
type BotScore struct {
	Wins           [PlayoffRounds]int
	FriendlyUnits  int
	EnemyUnits     int
	FriendlyHealth int
	EnemyHealth    int
	TotalWins      int
}

// Less reports whether s is strictly worse than o under the canonical
// lexicographic order.
func (s BotScore) Less(o BotScore) bool {
	for i := range s.Wins {
		if s.Wins[i] != o.Wins[i] {
			return s.Wins[i] < o.Wins[i]
		}
	}
	if s.FriendlyUnits != o.FriendlyUnits {
		return s.FriendlyUnits < o.FriendlyUnits
	}
	if s.EnemyUnits != o.EnemyUnits {
		return s.EnemyUnits < o.EnemyUnits
	}
	if s.FriendlyHealth != o.FriendlyHealth {
		return s.FriendlyHealth < o.FriendlyHealth
	}
	if s.EnemyHealth != o.EnemyHealth {
		return s.EnemyHealth < o.EnemyHealth
	}
	return s.TotalWins < o.TotalWins
}

// Max returns the better of s and o.
func (s BotScore) Max(o BotScore) BotScore {
	if s.Less(o) {
		return o
	}
	return s
}
