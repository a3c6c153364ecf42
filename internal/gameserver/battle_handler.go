package gameserver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/oozu/internal/game/battle"
	"github.com/cory-johannsen/oozu/internal/game/player"
)

// Challenge names the two trainers and the creature each sends out.
type Challenge struct {
	ChallengerID   string
	ChallengerOozu string
	OpponentID     string
	OpponentOozu   string
}

// Battle resolves a duel between two players' creatures and settles currency.
//
// Precondition: both players are registered and distinct; each nickname names
// a creature with a known template.
// Postcondition: On error no profile changed. Otherwise the winner gained
// battle.WinnerReward and the loser lost up to battle.LoserPenalty.
func (s *GameService) Battle(ctx context.Context, c Challenge) (battle.Summary, error) {
	if c.ChallengerID == c.OpponentID {
		return battle.Summary{}, ErrSelfBattle
	}
	var summary battle.Summary
	err := s.mutate(ctx, "battle", c.ChallengerID, func() error {
		challenger, a, err := s.combatantLocked(c.ChallengerID, c.ChallengerOozu)
		if err != nil {
			return fmt.Errorf("challenger: %w", err)
		}
		opponent, b, err := s.combatantLocked(c.OpponentID, c.OpponentOozu)
		if err != nil {
			return fmt.Errorf("opponent: %w", err)
		}

		summary = battle.Resolve(a, b, s.roller.Source())
		battle.Settle(summary, challenger, opponent)
		s.logger.Info("battle resolved",
			zap.String("challenger", c.ChallengerID),
			zap.String("opponent", c.OpponentID),
			zap.String("winner", summary.WinnerSide.String()),
			zap.Int("rounds", summary.Rounds),
		)
		return nil
	})
	return summary, err
}

func (s *GameService) combatantLocked(userID, nickname string) (*player.Profile, battle.Combatant, error) {
	p, err := s.profileLocked(userID)
	if err != nil {
		return nil, battle.Combatant{}, err
	}
	idx := p.FindOozu(nickname)
	if idx < 0 {
		return nil, battle.Combatant{}, ErrOozuUnavailable
	}
	o := p.Oozu[idx]
	tmpl, ok := s.catalog.Template(o.TemplateID)
	if !ok {
		return nil, battle.Combatant{}, fmt.Errorf("template %q: %w", o.TemplateID, ErrUnknownTemplate)
	}
	return p, battle.Combatant{
		Trainer:  p.DisplayName,
		Nickname: o.Nickname,
		Level:    o.Level,
		Template: tmpl,
	}, nil
}
