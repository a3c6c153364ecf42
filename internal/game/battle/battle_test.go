package battle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/oozu/internal/game/battle"
	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/dice"
	"github.com/cory-johannsen/oozu/internal/game/player"
)

var (
	ember = &catalog.Template{ID: "emberling", Name: "Emberling", BaseHP: 38, BaseAttack: 12, BaseDefense: 7}
	tide  = &catalog.Template{ID: "tidepool", Name: "Tidepool", BaseHP: 44, BaseAttack: 9, BaseDefense: 10}
	// wall never falls inside the round cap.
	wall = &catalog.Template{ID: "wall", Name: "Wall", BaseHP: 1000, BaseAttack: 0, BaseDefense: 0}
)

func combatants(ta, tb *catalog.Template, level int) (battle.Combatant, battle.Combatant) {
	return battle.Combatant{Trainer: "Ash", Nickname: "Sparky", Level: level, Template: ta},
		battle.Combatant{Trainer: "Misty", Nickname: "Drip", Level: level, Template: tb}
}

func TestResolve_ThousandLevelFiveBattles(t *testing.T) {
	src := dice.NewSeededSource(7)
	a, b := combatants(ember, tide, 5)
	for i := 0; i < 1000; i++ {
		challenger := &player.Profile{Currency: 50}
		opponent := &player.Profile{Currency: 5}

		s := battle.Resolve(a, b, src)
		battle.Settle(s, challenger, opponent)

		require.LessOrEqual(t, s.Rounds, battle.MaxRounds)
		require.GreaterOrEqual(t, s.Rounds, 1)
		require.Contains(t, []int{2 * s.Rounds, 2*s.Rounds - 1}, len(s.Log))
		if s.WinnerSide == battle.Challenger {
			require.Equal(t, "Ash", s.Winner)
			require.Equal(t, 75, challenger.Currency)
			require.Equal(t, 0, opponent.Currency, "penalty floors at zero")
		} else {
			require.Equal(t, "Misty", s.Winner)
			require.Equal(t, 30, opponent.Currency)
			require.Equal(t, 40, challenger.Currency)
		}
	}
}

func TestResolve_LogAlternatesAndChallengerStarts(t *testing.T) {
	a, b := combatants(ember, tide, 3)
	s := battle.Resolve(a, b, dice.NewSeededSource(3))
	for i, entry := range s.Log {
		if i%2 == 0 {
			assert.Equal(t, "Sparky", entry.Actor)
			assert.Equal(t, battle.ActionAttacked, entry.Action)
		} else {
			assert.Equal(t, "Drip", entry.Actor)
			assert.Equal(t, battle.ActionCountered, entry.Action)
		}
		assert.GreaterOrEqual(t, entry.Damage, 3)
	}
}

func TestResolve_EarlyBreakWhenOpponentFalls(t *testing.T) {
	glass := &catalog.Template{ID: "glass", Name: "Glass", BaseHP: 1, BaseDefense: 0}
	a, b := combatants(ember, glass, 1)
	s := battle.Resolve(a, b, dice.NewSeededSource(1))
	assert.Equal(t, 1, s.Rounds)
	assert.Len(t, s.Log, 1, "the opponent never counters after falling")
	assert.Equal(t, battle.Challenger, s.WinnerSide)
}

// Equal remaining HP goes to the opponent. This asymmetry is intentional and preserved.
func TestResolve_TieFavorsOpponent(t *testing.T) {
	a, b := combatants(wall, wall, 1)
	// Every draw yields variance 0 so both sides take MinDamage each round.
	s := battle.Resolve(a, b, &dice.FixedSource{Values: []int{2}})
	require.Equal(t, battle.MaxRounds, s.Rounds)
	require.Equal(t, s.RemainingHP[battle.Challenger], s.RemainingHP[battle.Opponent])
	assert.Equal(t, battle.Opponent, s.WinnerSide)
	assert.Equal(t, "Misty", s.Winner)
}

func TestResolve_RoundCapProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		mk := func(label string) *catalog.Template {
			return &catalog.Template{
				ID:          label,
				Name:        label,
				BaseHP:      rapid.IntRange(1, 400).Draw(rt, label+"_hp"),
				BaseAttack:  rapid.IntRange(0, 60).Draw(rt, label+"_atk"),
				BaseDefense: rapid.IntRange(0, 60).Draw(rt, label+"_def"),
			}
		}
		a, b := combatants(mk("a"), mk("b"), rapid.IntRange(1, 30).Draw(rt, "level"))
		s := battle.Resolve(a, b, dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))

		assert.LessOrEqual(rt, s.Rounds, battle.MaxRounds)
		assert.Contains(rt, []int{2 * s.Rounds, 2*s.Rounds - 1}, len(s.Log))
		if len(s.Log) == 2*s.Rounds-1 {
			assert.LessOrEqual(rt, s.RemainingHP[battle.Opponent], 0)
		}
		hpA, hpB := s.RemainingHP[0], s.RemainingHP[1]
		assert.Equal(rt, hpA > hpB, s.WinnerSide == battle.Challenger)
	})
}

func TestSettle_LoserFloorsAtZero(t *testing.T) {
	c := &player.Profile{Currency: 3}
	o := &player.Profile{Currency: 0}
	battle.Settle(battle.Summary{WinnerSide: battle.Opponent}, c, o)
	assert.Equal(t, 0, c.Currency)
	assert.Equal(t, 25, o.Currency)
}
