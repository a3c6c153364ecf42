package gameserver

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/player"
)

func (s *GameService) item(itemID string) (*catalog.ItemTemplate, error) {
	it, ok := s.catalog.Item(itemID)
	if !ok {
		return nil, fmt.Errorf("item %q: %w", itemID, ErrUnknownItem)
	}
	return it, nil
}

// AddItem grants quantity units of an item.
//
// Precondition: quantity > 0; itemID names a catalog item.
// Postcondition: Returns the new owned quantity.
func (s *GameService) AddItem(ctx context.Context, userID, itemID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}
	it, err := s.item(itemID)
	if err != nil {
		return 0, err
	}
	var owned int
	err = s.mutate(ctx, "add_item", userID, func() error {
		p, err := s.profileLocked(userID)
		if err != nil {
			return err
		}
		owned = p.Inventory.Adjust(it.ID, quantity)
		return nil
	})
	return owned, err
}

// RemoveItem takes quantity units of an item.
//
// Precondition: quantity > 0 and the player owns at least that many.
// Postcondition: Returns the remaining quantity.
func (s *GameService) RemoveItem(ctx context.Context, userID, itemID string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, ErrInvalidQuantity
	}
	it, err := s.item(itemID)
	if err != nil {
		return 0, err
	}
	var remaining int
	err = s.mutate(ctx, "remove_item", userID, func() error {
		p, err := s.profileLocked(userID)
		if err != nil {
			return err
		}
		if p.Inventory.Quantity(it.ID) < quantity {
			return ErrInsufficientItems
		}
		remaining = p.Inventory.Adjust(it.ID, -quantity)
		return nil
	})
	return remaining, err
}

// Trade describes an item transfer between two players.
type Trade struct {
	FromUserID string
	ToUserID   string
	ItemID     string
	Quantity   int
}

// TradeItem moves exactly Quantity units from sender to recipient.
//
// Precondition: distinct registered players; the sender owns at least Quantity.
// Postcondition: On error neither inventory changed.
func (s *GameService) TradeItem(ctx context.Context, t Trade) error {
	if t.FromUserID == t.ToUserID {
		return ErrSelfTrade
	}
	if t.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	it, err := s.item(t.ItemID)
	if err != nil {
		return err
	}
	return s.mutate(ctx, "trade_item", t.FromUserID, func() error {
		sender, ok := s.players.Get(t.FromUserID)
		if !ok {
			return fmt.Errorf("sender: %w", ErrNotRegistered)
		}
		recipient, ok := s.players.Get(t.ToUserID)
		if !ok {
			return fmt.Errorf("recipient: %w", ErrNotRegistered)
		}
		if sender.Inventory.Quantity(it.ID) < t.Quantity {
			return fmt.Errorf("not enough items to trade: %w", ErrInsufficientItems)
		}
		sender.Inventory.Adjust(it.ID, -t.Quantity)
		recipient.Inventory.Adjust(it.ID, t.Quantity)
		return nil
	})
}

// GiveItemToOozu moves one unit from inventory to the creature's held slot.
// Any previously held item returns to inventory.
//
// Postcondition: Returns the previously held item id, or "".
func (s *GameService) GiveItemToOozu(ctx context.Context, userID string, index int, itemID string) (string, error) {
	if index < 0 {
		return "", ErrOozuUnavailable
	}
	it, err := s.item(itemID)
	if err != nil {
		return "", err
	}
	var previous string
	err = s.mutate(ctx, "give_item", userID, func() error {
		p, err := s.profileLocked(userID)
		if err != nil {
			return err
		}
		creature, err := creatureAt(p, index)
		if err != nil {
			return err
		}
		if p.Inventory.Quantity(it.ID) <= 0 {
			return ErrInsufficientItems
		}
		if creature.Holding() == it.ID {
			return ErrAlreadyHolding
		}
		previous = creature.Holding()
		p.Inventory.Adjust(it.ID, -1)
		held := it.ID
		creature.HeldItem = &held
		if previous != "" {
			p.Inventory.Adjust(previous, 1)
		}
		return nil
	})
	return previous, err
}

// UnequipItem returns the creature's held item to inventory.
//
// Postcondition: Returns the item id that was held.
func (s *GameService) UnequipItem(ctx context.Context, userID string, index int) (string, error) {
	if index < 0 {
		return "", ErrOozuUnavailable
	}
	var held string
	err := s.mutate(ctx, "unequip_item", userID, func() error {
		p, err := s.profileLocked(userID)
		if err != nil {
			return err
		}
		creature, err := creatureAt(p, index)
		if err != nil {
			return err
		}
		held = creature.Holding()
		if held == "" {
			return ErrNotHolding
		}
		creature.HeldItem = nil
		p.Inventory.Adjust(held, 1)
		return nil
	})
	return held, err
}

// UseResult reports what a consumable did.
type UseResult struct {
	Effect string
	// Restored is the HP or MP level reached, or the stamina gained.
	Restored int
	// Max is the cap the restoration was bounded by.
	Max      int
	Creature *player.Oozu
	Stamina  int
}

// UseItem consumes one unit of a consumable and applies its effect.
// Creature effects need index; restore_stamina applies to the player.
//
// Precondition: the item is consumable with an effect and the player owns one.
func (s *GameService) UseItem(ctx context.Context, userID, itemID string, index *int) (UseResult, error) {
	it, err := s.item(itemID)
	if err != nil {
		return UseResult{}, err
	}
	if !it.IsConsumable() || it.Effect == nil {
		return UseResult{}, ErrItemNotUsable
	}
	effect := it.Effect
	if effect.TargetsOozu() && index == nil {
		return UseResult{}, ErrTargetRequired
	}

	var res UseResult
	err = s.mutate(ctx, "use_item", userID, func() error {
		p, err := s.profileLocked(userID)
		if err != nil {
			return err
		}
		if p.Inventory.Quantity(it.ID) <= 0 {
			return ErrInsufficientItems
		}
		res = UseResult{Effect: effect.Type}

		if effect.TargetsOozu() {
			creature, err := creatureAt(p, *index)
			if err != nil {
				return err
			}
			tmpl, ok := s.catalog.Template(creature.TemplateID)
			if !ok {
				return fmt.Errorf("template %q: %w", creature.TemplateID, ErrUnknownTemplate)
			}
			switch effect.Type {
			case catalog.EffectRestoreHP:
				res.Restored = creature.RestoreHP(tmpl)
			case catalog.EffectRestoreMP:
				res.Restored = creature.RestoreMP(tmpl)
			default:
				return ErrItemNotUsable
			}
			res.Max = res.Restored
			c := creature.Clone()
			res.Creature = &c
		} else {
			if effect.Type != catalog.EffectRestoreStamina {
				return ErrItemNotUsable
			}
			res.Restored = p.AdjustStamina(effect.RestoreAmount())
			res.Max = p.MaxStamina
		}

		p.Inventory.Adjust(it.ID, -1)
		res.Stamina = p.Stamina
		return nil
	})
	return res, err
}
