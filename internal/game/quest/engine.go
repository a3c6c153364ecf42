package quest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cory-johannsen/oozu/internal/game/assets"
	"github.com/cory-johannsen/oozu/internal/game/dice"
	"github.com/cory-johannsen/oozu/internal/game/guard"
	"github.com/cory-johannsen/oozu/internal/game/player"
)

const (
	minTotalEvents   = 3
	maxTotalEvents   = 7
	minRegularEvents = 2
	encounterOptions = 3
	visiblePaths     = 2
	optionTokenLen   = 6
)

// Profiles resolves live player profiles. *player.Registry satisfies it.
type Profiles interface {
	Get(userID string) (*player.Profile, bool)
}

// Store persists active quests when durability is enabled.
type Store interface {
	LoadQuests(ctx context.Context) (map[string]*Quest, error)
	SaveQuests(ctx context.Context, quests []*Quest) error
}

// Engine owns every player's active quest. All transitions run under the
// shared guard so they serialize with the rest of the game's mutations.
type Engine struct {
	guard    *guard.Guard
	profiles Profiles
	content  Content
	roller   *dice.Roller
	sampler  assets.Sampler
	persist  func(ctx context.Context) error
	store    Store
	logger   *zap.Logger

	// active is only touched under guard.
	active map[string]*Quest
}

// NewEngine creates an Engine.
//
// Precondition: every argument except store must be non-nil. A nil store keeps
// quests in memory only.
// Postcondition: Returns an Engine with no active quests.
func NewEngine(
	g *guard.Guard,
	profiles Profiles,
	content Content,
	roller *dice.Roller,
	sampler assets.Sampler,
	persist func(ctx context.Context) error,
	store Store,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		guard:    g,
		profiles: profiles,
		content:  content,
		roller:   roller,
		sampler:  sampler,
		persist:  persist,
		store:    store,
		logger:   logger,
		active:   make(map[string]*Quest),
	}
}

// Restore loads persisted quests. Completed quests and quests of unknown
// players are dropped.
//
// Postcondition: With a nil store this is a no-op.
func (e *Engine) Restore(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	return e.guard.Do(ctx, func() error {
		quests, err := e.store.LoadQuests(ctx)
		if err != nil {
			return fmt.Errorf("loading quests: %w", err)
		}
		for userID, q := range quests {
			if !q.Status.Active() {
				continue
			}
			if _, ok := e.profiles.Get(userID); !ok {
				continue
			}
			e.active[userID] = q
		}
		e.logger.Info("quests restored", zap.Int("active", len(e.active)))
		return nil
	})
}

// Start begins a hunting quest, or resumes the player's active one.
//
// Precondition: none when resuming. Otherwise the player must be registered,
// be a hunter, and have at least 1 stamina.
// Postcondition: A new quest costs 1 stamina and opens its first encounter.
// Resuming sets Resumed and changes nothing.
func (e *Engine) Start(ctx context.Context, userID string) (Response, error) {
	return guard.With(ctx, e.guard, func() (Response, error) {
		if q, ok := e.active[userID]; ok && q.Status.Active() {
			return buildResponse(q, nil, true), nil
		}

		profile, ok := e.profiles.Get(userID)
		if !ok {
			return Response{}, fmt.Errorf("taking on quests: %w", player.ErrNotRegistered)
		}
		if !profile.IsHunter() {
			return Response{}, ErrWrongClass
		}
		if profile.Stamina < 1 {
			return Response{}, player.ErrInsufficientStamina
		}

		q := e.newQuest(userID)
		eventType, _ := dice.Pick(e.roller.Source(), RegularEventTypes)
		pending, err := e.encounter(q, eventType)
		if err != nil {
			return Response{}, err
		}

		delete(e.active, userID)
		profile.AdjustStamina(-1)
		q.Pending = pending
		q.CurrentOptions = nil
		e.active[userID] = q

		if err := e.commit(ctx, profile); err != nil {
			return Response{}, err
		}
		e.logger.Info("hunting quest started",
			zap.String("user_id", userID),
			zap.String("quest_id", q.ID),
			zap.Int("target_regular_events", q.TargetRegularEvents),
			zap.String("event", eventType),
		)
		return buildResponse(q, nil, false), nil
	})
}

// Choose follows a path option, opening an encounter of its type.
//
// Precondition: questID names the player's quest.
// Postcondition: When the quest is not ongoing or an encounter is already
// open, the current view is returned unchanged. A stale optionId yields
// ErrPathUnavailable with no change.
func (e *Engine) Choose(ctx context.Context, userID, questID, optionID string) (Response, error) {
	return guard.With(ctx, e.guard, func() (Response, error) {
		q, err := e.lookup(userID, questID)
		if err != nil {
			return Response{}, err
		}
		if q.Status != StatusOngoing || q.Pending != nil {
			return buildResponse(q, q.latest(), false), nil
		}

		var chosen *PathOption
		for i := range q.CurrentOptions {
			if q.CurrentOptions[i].ID == optionID {
				chosen = &q.CurrentOptions[i]
				break
			}
		}
		if chosen == nil {
			return Response{}, ErrPathUnavailable
		}

		profile, err := e.profileFor(userID)
		if err != nil {
			return Response{}, err
		}

		pending, err := e.encounter(q, chosen.Type)
		if err != nil {
			return Response{}, err
		}
		e.logger.Info("hunting path chosen",
			zap.String("user_id", userID),
			zap.String("quest_id", q.ID),
			zap.String("event", chosen.Type),
			zap.Bool("hidden", chosen.Hidden),
		)
		q.Pending = pending
		q.CurrentOptions = nil

		if err := e.commit(ctx, profile); err != nil {
			return Response{}, err
		}
		return buildResponse(q, q.latest(), false), nil
	})
}

// Resolve applies an encounter option and advances the quest one stage.
//
// Precondition: an encounter of questID is open.
// Postcondition: One entry is appended; Stage increases by exactly 1. On
// reaching TargetRegularEvents the quest awaits its finale, otherwise fresh
// path options are offered.
func (e *Engine) Resolve(ctx context.Context, userID, questID, optionID string) (Response, error) {
	return guard.With(ctx, e.guard, func() (Response, error) {
		q, err := e.lookup(userID, questID)
		if err != nil {
			return Response{}, err
		}
		if q.Pending == nil {
			return Response{}, ErrNoPendingEvent
		}
		if q.Pending.ID != questID {
			return Response{}, ErrEncounterNotActive
		}

		var action *Action
		for _, opt := range q.Pending.Options {
			if opt.ID == optionID {
				action = actionsByKey[opt.Action]
				break
			}
		}
		if action == nil {
			return Response{}, ErrChoiceUnavailable
		}

		profile, err := e.profileFor(userID)
		if err != nil {
			return Response{}, err
		}

		res := resolveAction(action, profile, e.content, e.roller)
		entry := Entry{
			Index:     len(q.Log) + 1,
			Type:      q.Pending.Type,
			Title:     q.Pending.Title,
			Narrative: res.Narrative,
			Outcome:   res.Outcome,
			Effects:   res.Effects,
			Scene:     q.Pending.Scene,
			Sprite:    q.Pending.Sprite,
		}
		q.Log = append(q.Log, entry)
		q.Pending = nil
		q.Stage++

		if q.Stage >= q.TargetRegularEvents {
			q.Status = StatusAwaitingFinale
			q.CurrentOptions = nil
		} else {
			q.CurrentOptions = e.pathOptions(entry.Type)
		}

		if err := e.commit(ctx, profile); err != nil {
			return Response{}, err
		}
		e.logger.Info("hunting encounter resolved",
			zap.String("user_id", userID),
			zap.String("quest_id", q.ID),
			zap.String("action", action.Key),
			zap.Int("stage", q.Stage),
			zap.String("status", string(q.Status)),
		)
		return buildResponse(q, &entry, false), nil
	})
}

// Finalize resolves the wild Oozu finale and completes the quest.
//
// Postcondition: When the quest is not awaiting its finale the current view is
// returned unchanged. Otherwise Stage == TargetRegularEvents+1 and Status is complete.
func (e *Engine) Finalize(ctx context.Context, userID, questID string) (Response, error) {
	return guard.With(ctx, e.guard, func() (Response, error) {
		q, err := e.lookup(userID, questID)
		if err != nil {
			return Response{}, err
		}
		if q.Status != StatusAwaitingFinale {
			return buildResponse(q, q.latest(), false), nil
		}

		profile, err := e.profileFor(userID)
		if err != nil {
			return Response{}, err
		}

		scene, err := e.sampler.Scene()
		if err != nil {
			return Response{}, fmt.Errorf("sampling finale scene: %w", err)
		}
		sprite, err := e.sampler.OozuSprite()
		if err != nil {
			return Response{}, fmt.Errorf("sampling finale sprite: %w", err)
		}

		res := apply(&finale, subject{profile: profile}, e.content, e.roller)
		entry := Entry{
			Index:     len(q.Log) + 1,
			Type:      EventOozu,
			Title:     DisplayName(EventOozu),
			Narrative: res.Narrative,
			Outcome:   res.Outcome,
			Effects:   res.Effects,
			Scene:     scene,
			Sprite:    sprite,
		}
		q.Log = append(q.Log, entry)
		q.Stage = q.MaxStage()
		q.Status = StatusComplete
		q.CurrentOptions = nil

		if err := e.commit(ctx, profile); err != nil {
			return Response{}, err
		}
		e.logger.Info("hunting quest complete",
			zap.String("user_id", userID),
			zap.String("quest_id", q.ID),
			zap.Int("entries", len(q.Log)),
		)
		return buildResponse(q, &entry, false), nil
	})
}

// Abandon discards the player's quest, if any.
//
// Postcondition: Current(userID) reports no quest.
func (e *Engine) Abandon(ctx context.Context, userID string) error {
	return e.guard.Do(ctx, func() error {
		return e.dropLocked(ctx, userID)
	})
}

// DropLocked discards a quest from inside an operation already holding the guard.
//
// Precondition: the caller holds the guard.
func (e *Engine) DropLocked(ctx context.Context, userID string) error {
	return e.dropLocked(ctx, userID)
}

func (e *Engine) dropLocked(ctx context.Context, userID string) error {
	if _, ok := e.active[userID]; !ok {
		return nil
	}
	delete(e.active, userID)
	e.logger.Info("hunting quest abandoned", zap.String("user_id", userID))
	return e.saveQuests(ctx)
}

// Current returns the view of the player's quest without changing it.
//
// Postcondition: ok is false when the player has no quest.
func (e *Engine) Current(ctx context.Context, userID string) (resp Response, ok bool, err error) {
	err = e.guard.Do(ctx, func() error {
		q, found := e.active[userID]
		if !found {
			return nil
		}
		resp, ok = buildResponse(q, q.latest(), false), true
		return nil
	})
	return resp, ok, err
}

func (e *Engine) lookup(userID, questID string) (*Quest, error) {
	q, ok := e.active[userID]
	if !ok || q.ID != questID {
		return nil, ErrQuestNotActive
	}
	return q, nil
}

// profileFor drops the quest when its player has vanished.
func (e *Engine) profileFor(userID string) (*player.Profile, error) {
	profile, ok := e.profiles.Get(userID)
	if !ok {
		delete(e.active, userID)
		return nil, fmt.Errorf("taking on quests: %w", player.ErrNotRegistered)
	}
	return profile, nil
}

func (e *Engine) newQuest(userID string) *Quest {
	total := e.roller.Between("quest length", minTotalEvents, maxTotalEvents)
	return &Quest{
		ID:                  uuid.NewString(),
		UserID:              userID,
		Type:                QuestType,
		Subtype:             QuestSubtype,
		Status:              StatusOngoing,
		TargetRegularEvents: max(minRegularEvents, total-1),
	}
}

// encounter builds an open event of eventType. Art is sampled before any
// state changes so a sampling failure leaves the quest untouched.
func (e *Engine) encounter(q *Quest, eventType string) (*PendingEvent, error) {
	scene, err := e.sampler.Scene()
	if err != nil {
		return nil, fmt.Errorf("sampling scene: %w", err)
	}
	sprite, err := e.sampler.EventSprite(eventType)
	if err != nil {
		return nil, fmt.Errorf("sampling %s sprite: %w", eventType, err)
	}
	return &PendingEvent{
		ID:      q.ID,
		Type:    eventType,
		Title:   DisplayName(eventType),
		Prompt:  prompt(eventType),
		Scene:   scene,
		Sprite:  sprite,
		Options: e.encounterOptions(eventType),
	}, nil
}

// encounterOptions draws up to three distinct actions for eventType.
func (e *Engine) encounterOptions(eventType string) []EventOption {
	rows := append([]Action(nil), Actions(eventType)...)
	if len(rows) > encounterOptions {
		dice.Shuffle(e.roller.Source(), len(rows), func(i, j int) { rows[i], rows[j] = rows[j], rows[i] })
		rows = rows[:encounterOptions]
	}
	out := make([]EventOption, len(rows))
	for i, a := range rows {
		out[i] = EventOption{ID: e.roller.Token(optionTokenLen), Label: a.Label, Action: a.Key}
	}
	return out
}

// pathOptions offers two distinct visible event types other than previous,
// plus one hidden option of any type, in random order.
func (e *Engine) pathOptions(previous string) []PathOption {
	src := e.roller.Source()
	var pool []string
	for _, t := range RegularEventTypes {
		if t != previous {
			pool = append(pool, t)
		}
	}

	opts := make([]PathOption, 0, visiblePaths+1)
	for len(opts) < visiblePaths && len(pool) > 0 {
		i := src.Intn(len(pool))
		t := pool[i]
		pool = append(pool[:i], pool[i+1:]...)
		opts = append(opts, PathOption{ID: e.roller.Token(optionTokenLen), Type: t, Label: DisplayName(t)})
	}
	for len(opts) < visiblePaths {
		t, _ := dice.Pick(src, RegularEventTypes)
		opts = append(opts, PathOption{ID: e.roller.Token(optionTokenLen), Type: t, Label: DisplayName(t)})
	}
	hidden, _ := dice.Pick(src, RegularEventTypes)
	opts = append(opts, PathOption{ID: e.roller.Token(optionTokenLen), Type: hidden, Label: HiddenLabel, Hidden: true})

	dice.Shuffle(src, len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	return opts
}

// commit normalizes the profile, persists players, then snapshots quests.
func (e *Engine) commit(ctx context.Context, profile *player.Profile) error {
	profile.NormalizeVitals(e.content)
	if err := e.persist(ctx); err != nil {
		return err
	}
	return e.saveQuests(ctx)
}

func (e *Engine) saveQuests(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	snapshot := make([]*Quest, 0, len(e.active))
	for _, q := range e.active {
		snapshot = append(snapshot, q.clone())
	}
	if err := e.store.SaveQuests(ctx, snapshot); err != nil {
		return fmt.Errorf("saving quests: %w", err)
	}
	return nil
}
