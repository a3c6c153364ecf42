package player

import (
	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/stats"
)

// TemplateSource resolves template ids. *catalog.Catalog satisfies it.
type TemplateSource interface {
	Template(id string) (*catalog.Template, bool)
}

// NormalizeVitals fills absent current HP/MP with the computed maximum and
// clamps both to [0, max].
//
// Precondition: t must be the creature's template.
// Postcondition: CurrentHP and CurrentMP are non-nil and within range.
func (o *Oozu) NormalizeVitals(t *catalog.Template) {
	maxHP, maxMP := max(0, stats.HP(t, o.Level)), max(0, stats.MP(t, o.Level))
	hp, mp := maxHP, maxMP
	if o.CurrentHP != nil {
		hp = clamp(*o.CurrentHP, 0, maxHP)
	}
	if o.CurrentMP != nil {
		mp = clamp(*o.CurrentMP, 0, maxMP)
	}
	o.CurrentHP = &hp
	o.CurrentMP = &mp
}

// AdjustHP applies delta to current HP, clamped to [0, max], and returns the
// change actually applied.
func (o *Oozu) AdjustHP(t *catalog.Template, delta int) int {
	o.NormalizeVitals(t)
	cur := *o.CurrentHP
	next := clamp(cur+delta, 0, max(0, stats.HP(t, o.Level)))
	*o.CurrentHP = next
	return next - cur
}

// AdjustMP applies delta to current MP, clamped to [0, max], and returns the
// change actually applied.
func (o *Oozu) AdjustMP(t *catalog.Template, delta int) int {
	o.NormalizeVitals(t)
	cur := *o.CurrentMP
	next := clamp(cur+delta, 0, max(0, stats.MP(t, o.Level)))
	*o.CurrentMP = next
	return next - cur
}

// RestoreHP sets current HP to the maximum and returns that maximum.
func (o *Oozu) RestoreHP(t *catalog.Template) int {
	o.NormalizeVitals(t)
	*o.CurrentHP = max(0, stats.HP(t, o.Level))
	return *o.CurrentHP
}

// RestoreMP sets current MP to the maximum and returns that maximum.
func (o *Oozu) RestoreMP(t *catalog.Template) int {
	o.NormalizeVitals(t)
	*o.CurrentMP = max(0, stats.MP(t, o.Level))
	return *o.CurrentMP
}

// GainCurrency adds a non-negative amount and returns it.
//
// Postcondition: Currency >= 0.
func (p *Profile) GainCurrency(amount int) int {
	gain := max(0, amount)
	p.Currency = max(0, p.Currency) + gain
	return gain
}

// LoseCurrency removes up to amount and returns the applied change, which is <= 0.
//
// Postcondition: Currency >= 0.
func (p *Profile) LoseCurrency(amount int) int {
	cur := max(0, p.Currency)
	loss := min(cur, max(0, amount))
	p.Currency = cur - loss
	return -loss
}

// AdjustStamina applies delta clamped to [0, MaxStamina] and returns the applied change.
func (p *Profile) AdjustStamina(delta int) int {
	cur := clamp(p.Stamina, 0, max(0, p.MaxStamina))
	next := clamp(cur+delta, 0, max(0, p.MaxStamina))
	p.Stamina = next
	return next - cur
}

// NormalizeVitals clamps stamina and currency and normalizes every creature
// whose template is known.
//
// Postcondition: 0 <= Stamina <= MaxStamina; Currency >= 0; inventory holds no
// non-positive entries.
func (p *Profile) NormalizeVitals(templates TemplateSource) {
	p.MaxStamina = max(0, p.MaxStamina)
	p.Stamina = clamp(p.Stamina, 0, p.MaxStamina)
	p.Currency = max(0, p.Currency)
	if p.Inventory == nil {
		p.Inventory = Inventory{}
	}
	p.Inventory.Scrub()
	for i := range p.Oozu {
		if t, ok := templates.Template(p.Oozu[i].TemplateID); ok {
			p.Oozu[i].NormalizeVitals(t)
		}
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
