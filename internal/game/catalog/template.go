// Package catalog holds the immutable creature templates and item definitions
// loaded once at startup.
package catalog

import (
	"fmt"
	"strings"
)

// DefaultTier is assigned to templates that omit a tier. Starter creatures are
// drawn from this tier.
const DefaultTier = "Oozu"

// Move is a named attack listed on a template.
type Move struct {
	Name        string `yaml:"name" json:"name"`
	Power       int    `yaml:"power" json:"power"`
	Description string `yaml:"description" json:"description"`
}

// Template is the shared archetype every owned creature is derived from.
type Template struct {
	ID          string   `yaml:"template_id" json:"template_id"`
	Name        string   `yaml:"name" json:"name"`
	Element     string   `yaml:"element" json:"element"`
	Tier        string   `yaml:"tier" json:"tier"`
	Sprite      string   `yaml:"sprite" json:"sprite"`
	Description string   `yaml:"description" json:"description"`
	BaseHP      int      `yaml:"base_hp" json:"base_hp"`
	BaseAttack  int      `yaml:"base_attack" json:"base_attack"`
	BaseDefense int      `yaml:"base_defense" json:"base_defense"`
	Moves       []Move   `yaml:"moves" json:"moves"`
	Aliases     []string `yaml:"aliases" json:"aliases"`
}

// Validate checks that the template satisfies basic invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff ID and Name are non-empty, BaseHP >= 1, and
// BaseAttack and BaseDefense are >= 0; returns an error on the first violation otherwise.
func (t *Template) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("template: template_id must not be empty")
	}
	if t.Name == "" {
		return fmt.Errorf("template %q: name must not be empty", t.ID)
	}
	if t.BaseHP < 1 {
		return fmt.Errorf("template %q: base_hp must be >= 1", t.ID)
	}
	if t.BaseAttack < 0 {
		return fmt.Errorf("template %q: base_attack must be >= 0", t.ID)
	}
	if t.BaseDefense < 0 {
		return fmt.Errorf("template %q: base_defense must be >= 0", t.ID)
	}
	for i, m := range t.Moves {
		if m.Name == "" {
			return fmt.Errorf("template %q: move %d: name must not be empty", t.ID, i)
		}
	}
	return nil
}

// IsBase reports whether the template belongs to the starter tier.
func (t *Template) IsBase() bool {
	return fold(t.Tier) == fold(DefaultTier)
}

// lookupKeys returns every normalized form the template answers to.
func (t *Template) lookupKeys() []string {
	keys := []string{fold(t.ID), slug(fold(t.ID)), fold(t.Name), slug(fold(t.Name))}
	for _, alias := range t.Aliases {
		a := fold(strings.TrimSpace(alias))
		if a == "" {
			continue
		}
		keys = append(keys, a, slug(a))
	}
	return keys
}
