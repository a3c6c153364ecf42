package gameserver

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/dice"
	"github.com/cory-johannsen/oozu/internal/game/player"
)

// Registration carries the answers collected during sign-up.
type Registration struct {
	UserID            string
	DisplayName       string
	Gender            string
	Pronoun           string
	PlayerClass       string
	StarterTemplateID string
}

// RegisterPlayer creates a profile with one level-1 starter named after its template.
//
// Precondition: the user must not be registered; StarterTemplateID must name a template.
// Postcondition: Returns a copy of the new profile with the configured
// currency and full stamina.
func (s *GameService) RegisterPlayer(ctx context.Context, reg Registration) (*player.Profile, error) {
	var out *player.Profile
	err := s.mutate(ctx, "register", reg.UserID, func() error {
		if _, exists := s.players.Get(reg.UserID); exists {
			return ErrAlreadyRegistered
		}
		tmpl, ok := s.catalog.Template(reg.StarterTemplateID)
		if !ok {
			return fmt.Errorf("starter %q: %w", reg.StarterTemplateID, ErrUnknownTemplate)
		}
		p := &player.Profile{
			UserID:      reg.UserID,
			DisplayName: reg.DisplayName,
			Gender:      player.StringPtr(reg.Gender),
			Pronoun:     player.StringPtr(reg.Pronoun),
			PlayerClass: player.StringPtr(reg.PlayerClass),
			Currency:    s.settings.StartingCurrency,
			Stamina:     s.settings.MaxStamina,
			MaxStamina:  s.settings.MaxStamina,
			Inventory:   player.Inventory{},
			Oozu:        []player.Oozu{{TemplateID: tmpl.ID, Nickname: tmpl.Name, Level: 1}},
		}
		if err := s.players.Add(p); err != nil {
			return ErrAlreadyRegistered
		}
		out = p.Clone()
		return nil
	})
	return out, err
}

// SampleStarterTemplates returns up to count distinct random base-tier templates.
//
// Postcondition: Returns every base template when there are at most count of
// them; returns ErrNoStarters when there are none.
func (s *GameService) SampleStarterTemplates(count int) ([]*catalog.Template, error) {
	if count <= 0 {
		count = s.settings.StarterChoices
	}
	pool := s.catalog.BaseTemplates()
	if len(pool) == 0 {
		return nil, ErrNoStarters
	}
	if len(pool) <= count {
		return pool, nil
	}
	dice.Shuffle(s.roller.Source(), len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:count], nil
}

// CollectOozu adds a level-1 creature to the roster. The nickname defaults to
// the template name and is suffixed -2, -3, ... until unique.
//
// Postcondition: Returns a copy of the new creature.
func (s *GameService) CollectOozu(ctx context.Context, userID, templateID, nickname string) (player.Oozu, error) {
	var out player.Oozu
	err := s.mutate(ctx, "collect_oozu", userID, func() error {
		p, err := s.profileLocked(userID)
		if err != nil {
			return err
		}
		tmpl, ok := s.catalog.Template(templateID)
		if !ok {
			return fmt.Errorf("template %q: %w", templateID, ErrUnknownTemplate)
		}
		base := strings.TrimSpace(nickname)
		if base == "" {
			base = tmpl.Name
		}
		o := player.Oozu{TemplateID: tmpl.ID, Nickname: p.UniqueNickname(base), Level: 1}
		o.NormalizeVitals(tmpl)
		p.Oozu = append(p.Oozu, o)
		out = o.Clone()
		return nil
	})
	return out, err
}

// RenameOozu sets the nickname of the creature at index.
//
// Precondition: nickname trims to 1..32 characters and no other creature on
// the profile uses it, ignoring case.
func (s *GameService) RenameOozu(ctx context.Context, userID string, index int, nickname string) (player.Oozu, error) {
	desired := strings.TrimSpace(nickname)
	if desired == "" || utf8.RuneCountInString(desired) > player.MaxNicknameLength {
		return player.Oozu{}, ErrInvalidNickname
	}
	if index < 0 {
		return player.Oozu{}, ErrOozuUnavailable
	}

	var out player.Oozu
	err := s.mutate(ctx, "rename_oozu", userID, func() error {
		p, err := s.profileLocked(userID)
		if err != nil {
			return err
		}
		target, err := creatureAt(p, index)
		if err != nil {
			return err
		}
		if existing := p.FindOozu(desired); existing >= 0 && existing != index {
			return ErrNicknameTaken
		}
		target.Nickname = desired
		out = target.Clone()
		return nil
	})
	return out, err
}

// SpendStamina deducts amount stamina.
//
// Precondition: amount > 0.
// Postcondition: Returns the remaining stamina.
func (s *GameService) SpendStamina(ctx context.Context, userID string, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidQuantity
	}
	var remaining int
	err := s.mutate(ctx, "spend_stamina", userID, func() error {
		p, err := s.profileLocked(userID)
		if err != nil {
			return err
		}
		if p.Stamina < amount {
			return ErrInsufficientStamina
		}
		p.Stamina -= amount
		remaining = p.Stamina
		return nil
	})
	return remaining, err
}

// SetPortrait stores an http or https image URL; a blank value clears it.
func (s *GameService) SetPortrait(ctx context.Context, userID, rawURL string) (*string, error) {
	trimmed := strings.TrimSpace(rawURL)
	var portrait *string
	if trimmed != "" {
		u, err := url.Parse(trimmed)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, ErrInvalidPortrait
		}
		normalized := u.String()
		portrait = &normalized
	}

	err := s.mutate(ctx, "set_portrait", userID, func() error {
		p, err := s.profileLocked(userID)
		if err != nil {
			return err
		}
		p.PortraitURL = portrait
		return nil
	})
	return portrait, err
}

// ResetPlayer deletes the profile and any active quest.
//
// Postcondition: Returns whether a profile existed. Persists only in that case.
func (s *GameService) ResetPlayer(ctx context.Context, userID string) (bool, error) {
	var existed bool
	err := s.guard.Do(ctx, func() error {
		existed = s.players.Remove(userID)
		if err := s.quests.DropLocked(ctx, userID); err != nil {
			return err
		}
		if !existed {
			return nil
		}
		return s.persistLocked(ctx)
	})
	s.logOutcome("reset", userID, err)
	return existed, err
}
