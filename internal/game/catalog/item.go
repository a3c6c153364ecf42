package catalog

import (
	"fmt"
	"strings"
)

// Item type tags with behavior attached.
const (
	ItemTypeConsumable = "consumable"
	ItemTypeHeld       = "held"
	ItemTypeGeneral    = "general"
)

// Item effect types understood by the game service.
const (
	EffectRestoreHP      = "restore_hp"
	EffectRestoreMP      = "restore_mp"
	EffectRestoreStamina = "restore_stamina"
)

// EffectTargetPlayer marks effects applied to the player rather than a creature.
const EffectTargetPlayer = "player"

// ItemEffect describes what using a consumable does.
type ItemEffect struct {
	Type   string `yaml:"type" json:"type"`
	Amount int    `yaml:"amount" json:"amount,omitempty"`
	Target string `yaml:"target" json:"target,omitempty"`
}

// TargetsOozu reports whether the effect needs a creature to act on.
func (e *ItemEffect) TargetsOozu() bool {
	if e.Type == EffectRestoreStamina && e.Target == "" {
		return false
	}
	return e.Target != EffectTargetPlayer
}

// RestoreAmount returns the stamina restored, at least 1.
func (e *ItemEffect) RestoreAmount() int {
	if e.Amount < 1 {
		return 1
	}
	return e.Amount
}

// ItemTemplate is an immutable item definition.
type ItemTemplate struct {
	ID          string      `yaml:"item_id" json:"item_id"`
	LegacyID    string      `yaml:"id,omitempty" json:"-"`
	Name        string      `yaml:"name" json:"name"`
	Description string      `yaml:"description" json:"description"`
	Type        string      `yaml:"type" json:"type"`
	Sprite      string      `yaml:"sprite" json:"sprite,omitempty"`
	Effect      *ItemEffect `yaml:"effect" json:"effect,omitempty"`
}

// IsConsumable reports whether the item's type tag is "consumable".
func (i *ItemTemplate) IsConsumable() bool {
	return fold(i.Type) == ItemTypeConsumable
}

// IsHeld reports whether the item's type tag is "held".
func (i *ItemTemplate) IsHeld() bool {
	return fold(i.Type) == ItemTypeHeld
}

// normalize fills defaults in place.
//
// Postcondition: ID is set from LegacyID when absent; Type defaults to "general";
// Name defaults to ID.
func (i *ItemTemplate) normalize() {
	if strings.TrimSpace(i.ID) == "" {
		i.ID = strings.TrimSpace(i.LegacyID)
	}
	if i.Type == "" {
		i.Type = ItemTypeGeneral
	}
	if i.Name == "" {
		i.Name = i.ID
	}
}

// Validate checks that the item satisfies basic invariants.
//
// Postcondition: Returns nil iff ID is non-empty and any effect has a known type.
func (i *ItemTemplate) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("item: item_id must not be empty")
	}
	if i.Effect != nil {
		switch i.Effect.Type {
		case EffectRestoreHP, EffectRestoreMP, EffectRestoreStamina:
		default:
			return fmt.Errorf("item %q: unknown effect type %q", i.ID, i.Effect.Type)
		}
	}
	return nil
}
