package quest

import (
	"strconv"
	"strings"

	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/dice"
	"github.com/cory-johannsen/oozu/internal/game/player"
)

// Content is the catalog surface the interpreter reads.
type Content interface {
	player.TemplateSource
	ItemsWhere(keep func(*catalog.ItemTemplate) bool) []*catalog.ItemTemplate
}

// subject is what an action is applied to.
type subject struct {
	profile  *player.Profile
	creature *player.Oozu
	template *catalog.Template
	itemID   string
}

// result is the rendered outcome of one action.
type result struct {
	Narrative string
	Outcome   string
	Effects   Effects
}

// tally accumulates applied deltas for text rendering and the effects record.
type tally struct {
	effects  Effects
	currency int
	hp       int
	mp       int
	stamina  int
	item     string
	target   string
}

func intPtr(n int) *int { return &n }

// resolveAction selects the subject, picks the branch, and applies it.
func resolveAction(a *Action, p *player.Profile, content Content, r *dice.Roller) result {
	s := subject{profile: p}
	branch := &a.Outcome
	switch a.Requires {
	case NeedsOozu:
		if !selectCreature(&s, content, r) {
			branch = a.Fallback
		}
	case NeedsInventory:
		entry, ok := dice.Pick(r.Source(), p.Inventory.Entries())
		if ok {
			s.itemID = entry.ItemID
		} else {
			branch = a.Fallback
		}
	}
	if branch == nil {
		branch = &Outcome{}
	}
	return apply(branch, s, content, r)
}

// selectCreature picks a random creature whose template is known.
func selectCreature(s *subject, content Content, r *dice.Roller) bool {
	var eligible []int
	for i := range s.profile.Oozu {
		if _, ok := content.Template(s.profile.Oozu[i].TemplateID); ok {
			eligible = append(eligible, i)
		}
	}
	idx, ok := dice.Pick(r.Source(), eligible)
	if !ok {
		return false
	}
	s.creature = &s.profile.Oozu[idx]
	s.template, _ = content.Template(s.creature.TemplateID)
	return true
}

// apply is the single interpreter for every Effect kind.
func apply(o *Outcome, s subject, content Content, r *dice.Roller) result {
	var t tally
	for i, e := range o.Effects {
		changed := applyEffect(e, s, content, r, &t)
		if i == 0 && !changed && o.Unchanged != nil {
			return result{Narrative: o.Unchanged.Narrative, Outcome: o.Unchanged.Text}
		}
	}
	return result{
		Narrative: o.Narrative,
		Outcome:   render(o.Text, &t),
		Effects:   t.effects,
	}
}

// applyEffect mutates the subject and records the change. It reports whether
// anything changed.
func applyEffect(e Effect, s subject, content Content, r *dice.Roller, t *tally) bool {
	p := s.profile
	switch e.Kind {
	case GainCurrency:
		gain := p.GainCurrency(r.Between("currency gain", e.Min, e.Max))
		t.currency += gain
		t.effects.Currency = intPtr(t.currency)
		return gain != 0
	case LoseCurrency:
		loss := p.LoseCurrency(r.Between("currency loss", e.Min, e.Max))
		t.currency += loss
		t.effects.Currency = intPtr(t.currency)
		return loss != 0
	case CreatureHP:
		if s.creature == nil {
			return false
		}
		d := s.creature.AdjustHP(s.template, r.Between("hp delta", e.Min, e.Max))
		t.hp += d
		t.effects.HP = intPtr(t.hp)
		t.target = s.creature.Nickname
		t.effects.Target = t.target
		return d != 0
	case CreatureMP:
		if s.creature == nil {
			return false
		}
		d := s.creature.AdjustMP(s.template, r.Between("mp delta", e.Min, e.Max))
		t.mp += d
		t.effects.MP = intPtr(t.mp)
		t.target = s.creature.Nickname
		t.effects.Target = t.target
		return d != 0
	case Stamina:
		d := p.AdjustStamina(r.Between("stamina delta", e.Min, e.Max))
		t.stamina += d
		t.effects.Stamina = intPtr(t.stamina)
		return d != 0
	case GrantItem:
		item, ok := dice.Pick(r.Source(), content.ItemsWhere(poolFilter(e.Pool)))
		if !ok {
			return false
		}
		p.Inventory.Adjust(item.ID, 1)
		t.item = item.Name
		t.effects.Item = item.ID
		t.effects.Delta = intPtr(1)
		return true
	case LoseItem:
		if s.itemID == "" || p.Inventory.Quantity(s.itemID) <= 0 {
			return false
		}
		p.Inventory.Adjust(s.itemID, -1)
		t.item = s.itemID
		t.effects.Item = s.itemID
		t.effects.Delta = intPtr(-1)
		return true
	case BuyItem:
		item, found := dice.Pick(r.Source(), content.ItemsWhere(poolFilter(e.Pool)))
		cost := r.Between("purchase cost", e.Min, e.Max)
		if !found || max(0, p.Currency) < cost {
			return false
		}
		p.Currency = max(0, p.Currency) - cost
		p.Inventory.Adjust(item.ID, 1)
		t.currency -= cost
		t.item = item.Name
		t.effects.Currency = intPtr(t.currency)
		t.effects.Item = item.ID
		t.effects.Delta = intPtr(1)
		return true
	}
	return false
}

func poolFilter(pool ItemPool) func(*catalog.ItemTemplate) bool {
	switch pool {
	case PoolConsumable:
		return (*catalog.ItemTemplate).IsConsumable
	case PoolNotHeld:
		return func(it *catalog.ItemTemplate) bool { return !it.IsHeld() }
	}
	return func(*catalog.ItemTemplate) bool { return true }
}

func render(text string, t *tally) string {
	abs := func(n int) string { return strconv.Itoa(max(n, -n)) }
	return strings.NewReplacer(
		"{currency}", abs(t.currency),
		"{hp}", abs(t.hp),
		"{mp}", abs(t.mp),
		"{stamina}", abs(t.stamina),
		"{item}", t.item,
		"{target}", t.target,
	).Replace(text)
}
