package gameserver

import (
	"context"

	"github.com/cory-johannsen/oozu/internal/game/quest"
)

// StartHuntingQuest starts or resumes the player's hunting quest.
func (s *GameService) StartHuntingQuest(ctx context.Context, userID string) (quest.Response, error) {
	return s.quests.Start(ctx, userID)
}

// ChooseHuntingQuestOption follows a path option.
func (s *GameService) ChooseHuntingQuestOption(ctx context.Context, userID, questID, optionID string) (quest.Response, error) {
	return s.quests.Choose(ctx, userID, questID, optionID)
}

// ResolveHuntingEventAction resolves the open encounter with one of its options.
func (s *GameService) ResolveHuntingEventAction(ctx context.Context, userID, questID, optionID string) (quest.Response, error) {
	return s.quests.Resolve(ctx, userID, questID, optionID)
}

// CompleteHuntingQuestFinale closes a quest awaiting its finale.
func (s *GameService) CompleteHuntingQuestFinale(ctx context.Context, userID, questID string) (quest.Response, error) {
	return s.quests.Finalize(ctx, userID, questID)
}

// AbandonHuntingQuest discards the player's quest.
func (s *GameService) AbandonHuntingQuest(ctx context.Context, userID string) error {
	return s.quests.Abandon(ctx, userID)
}

// CurrentHuntingQuest returns the player's quest view without changing it.
func (s *GameService) CurrentHuntingQuest(ctx context.Context, userID string) (quest.Response, bool, error) {
	return s.quests.Current(ctx, userID)
}
