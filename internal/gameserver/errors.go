package gameserver

import (
	"errors"

	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/player"
	"github.com/cory-johannsen/oozu/internal/game/quest"
)

// State errors.
var (
	ErrNotRegistered      = player.ErrNotRegistered
	ErrAlreadyRegistered  = errors.New("player is already registered")
	ErrWrongClass         = quest.ErrWrongClass
	ErrQuestNotActive     = quest.ErrQuestNotActive
	ErrNoPendingEvent     = quest.ErrNoPendingEvent
	ErrEncounterNotActive = quest.ErrEncounterNotActive
	ErrChoiceUnavailable  = quest.ErrChoiceUnavailable
	ErrPathUnavailable    = quest.ErrPathUnavailable
	ErrOozuUnavailable    = errors.New("that Oozu is not available")
	ErrNicknameTaken      = errors.New("another Oozu already uses that nickname")
	ErrAlreadyHolding     = errors.New("that Oozu is already holding that item")
	ErrNotHolding         = errors.New("that Oozu is not holding an item")
	ErrNoStarters         = errors.New("no starter templates available")
)

// Resource errors.
var (
	ErrInsufficientStamina = player.ErrInsufficientStamina
	ErrInsufficientItems   = errors.New("not enough items in inventory")
)

// Validation errors.
var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidNickname = errors.New("nickname must be 1 to 32 characters")
	ErrInvalidPortrait = errors.New("provide a valid image URL using http or https")
	ErrSelfTrade       = errors.New("cannot trade items with yourself")
	ErrSelfBattle      = errors.New("cannot battle yourself")
	ErrItemNotUsable   = errors.New("that item cannot be used")
	ErrTargetRequired  = errors.New("choose an Oozu to use that item on")
)

// Catalog errors.
var (
	ErrUnknownTemplate = catalog.ErrUnknownTemplate
	ErrUnknownItem     = catalog.ErrUnknownItem
)

// ErrPersist wraps a store failure. The in-memory change has already been
// applied when it is returned.
var ErrPersist = errors.New("saving game state failed")
