// Package stats derives creature attributes from a template and level and
// computes battle damage.
package stats

import (
	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/dice"
)

// MinDamage is the floor applied to every hit so battles always progress.
const MinDamage = 3

// Damage variance is drawn from [varianceLow, varianceHigh).
const (
	varianceLow  = -2
	varianceHigh = 5
)

// Block holds the derived attributes of a creature at a level.
type Block struct {
	HP      int
	Attack  int
	Defense int
	MP      int
}

// HP returns baseHp + 5 per level.
func HP(t *catalog.Template, level int) int {
	return t.BaseHP + level*5
}

// Attack returns baseAttack + 2 per level.
func Attack(t *catalog.Template, level int) int {
	return t.BaseAttack + level*2
}

// Defense returns baseDefense + 1 per level.
func Defense(t *catalog.Template, level int) int {
	return t.BaseDefense + level
}

// MP returns baseAttack + floor(baseDefense/2) + 3 per level, never negative.
func MP(t *catalog.Template, level int) int {
	return max(0, t.BaseAttack+floorDiv(t.BaseDefense, 2)+level*3)
}

// Derive computes every attribute at once.
//
// Precondition: t must be non-nil.
func Derive(t *catalog.Template, level int) Block {
	return Block{
		HP:      HP(t, level),
		Attack:  Attack(t, level),
		Defense: Defense(t, level),
		MP:      MP(t, level),
	}
}

// Damage returns max(3, attack - floor(defense/2) + v) where v is uniform in [-2, 5).
//
// Precondition: src must be non-nil.
// Postcondition: result >= MinDamage.
func Damage(src dice.Source, attack, defense int) int {
	variance := varianceLow + src.Intn(varianceHigh-varianceLow)
	return max(MinDamage, attack-floorDiv(defense, 2)+variance)
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
