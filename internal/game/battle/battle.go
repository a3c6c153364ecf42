// Package battle resolves turn-based duels between two owned creatures.
package battle

import (
	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/dice"
	"github.com/cory-johannsen/oozu/internal/game/player"
	"github.com/cory-johannsen/oozu/internal/game/stats"
)

// MaxRounds caps the number of exchanges in one battle.
const MaxRounds = 12

// Currency settled after every battle.
const (
	WinnerReward = 25
	LoserPenalty = 10
)

// Log actions.
const (
	ActionAttacked  = "attacked"
	ActionCountered = "countered"
)

// Side identifies a participant.
type Side int

const (
	Challenger Side = iota
	Opponent
)

// String returns the side label.
func (s Side) String() string {
	if s == Challenger {
		return "challenger"
	}
	return "opponent"
}

// Combatant is one creature entering a battle.
type Combatant struct {
	// Trainer is the owning player's display name.
	Trainer  string
	Nickname string
	Level    int
	Template *catalog.Template
}

// LogEntry records a single hit.
type LogEntry struct {
	Actor  string `json:"actor"`
	Action string `json:"action"`
	Damage int    `json:"damage"`
}

// Summary is the outcome of a resolved battle.
//
// Invariant: Rounds <= MaxRounds; len(Log) is 2*Rounds or 2*Rounds-1.
type Summary struct {
	Challenger string     `json:"challenger"`
	Opponent   string     `json:"opponent"`
	Winner     string     `json:"winner"`
	WinnerSide Side       `json:"winner_side"`
	Rounds     int        `json:"rounds"`
	Log        []LogEntry `json:"log"`
	// RemainingHP is indexed by Side.
	RemainingHP [2]int `json:"remaining_hp"`
}

// Resolve runs the duel. The challenger strikes first each round; the loop
// ends when either side drops to 0 HP or MaxRounds is reached. The challenger
// wins only with strictly more remaining HP, so the opponent takes ties.
//
// Precondition: both Templates must be non-nil; src must be non-nil.
// Postcondition: Returns a Summary satisfying its invariant. No profile is touched.
func Resolve(a, b Combatant, src dice.Source) Summary {
	sa, sb := stats.Derive(a.Template, a.Level), stats.Derive(b.Template, b.Level)
	hpA, hpB := sa.HP, sb.HP

	rounds := 0
	var log []LogEntry
	for hpA > 0 && hpB > 0 && rounds < MaxRounds {
		rounds++
		dmg := stats.Damage(src, sa.Attack, sb.Defense)
		hpB -= dmg
		log = append(log, LogEntry{Actor: a.Nickname, Action: ActionAttacked, Damage: dmg})
		if hpB <= 0 {
			break
		}

		dmg = stats.Damage(src, sb.Attack, sa.Defense)
		hpA -= dmg
		log = append(log, LogEntry{Actor: b.Nickname, Action: ActionCountered, Damage: dmg})
	}

	s := Summary{
		Challenger:  a.Trainer,
		Opponent:    b.Trainer,
		Rounds:      rounds,
		Log:         log,
		RemainingHP: [2]int{hpA, hpB},
		WinnerSide:  Opponent,
		Winner:      b.Trainer,
	}
	if hpA > hpB {
		s.WinnerSide = Challenger
		s.Winner = a.Trainer
	}
	return s
}

// Settle pays the winner and charges the loser.
//
// Precondition: challenger and opponent must be the profiles that fought s.
// Postcondition: winner currency += WinnerReward; loser currency -= LoserPenalty, floored at 0.
func Settle(s Summary, challenger, opponent *player.Profile) {
	winner, loser := opponent, challenger
	if s.WinnerSide == Challenger {
		winner, loser = challenger, opponent
	}
	winner.GainCurrency(WinnerReward)
	loser.LoseCurrency(LoserPenalty)
}
