package gameserver_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/oozu/internal/game/assets"
	"github.com/cory-johannsen/oozu/internal/game/battle"
	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/dice"
	"github.com/cory-johannsen/oozu/internal/game/player"
	"github.com/cory-johannsen/oozu/internal/game/quest"
	"github.com/cory-johannsen/oozu/internal/gameserver"
	"github.com/cory-johannsen/oozu/internal/storage"
	"github.com/cory-johannsen/oozu/internal/storage/jsonfile"
	"github.com/cory-johannsen/oozu/internal/storage/mock"
)

var testSettings = gameserver.Settings{StartingCurrency: 100, MaxStamina: 10, StarterChoices: 3}

func loadCatalog(t testing.TB) *catalog.Catalog {
	c, err := catalog.Load("../../data/species.yaml", "../../data/items.yaml", zap.NewNop())
	require.NoError(t, err)
	return c
}

func newService(t testing.TB, store storage.PlayerStore, seed uint64) *gameserver.GameService {
	logger := zap.NewNop()
	if tt, ok := t.(*testing.T); ok {
		logger = zaptest.NewLogger(tt)
	}
	roller := dice.NewLoggedRoller(dice.NewSeededSource(seed), logger)
	sampler := assets.Static{SceneToken: "scene", EventToken: "event", OozuToken: "oozu"}
	svc := gameserver.NewGameService(loadCatalog(t), store, nil, sampler, roller, testSettings, logger)
	require.NoError(t, svc.Load(context.Background()))
	return svc
}

func jsonStore(dir string) *jsonfile.Store {
	return jsonfile.New(filepath.Join(dir, "players.json"), zap.NewNop())
}

func register(t require.TestingT, svc *gameserver.GameService, id, class, starter string) *player.Profile {
	p, err := svc.RegisterPlayer(context.Background(), gameserver.Registration{
		UserID:            id,
		DisplayName:       "Trainer " + id,
		PlayerClass:       class,
		StarterTemplateID: starter,
	})
	require.NoError(t, err)
	return p
}

func TestRegisterPlayer(t *testing.T) {
	dir := t.TempDir()
	svc := newService(t, jsonStore(dir), 1)
	ctx := context.Background()

	p := register(t, svc, "a", "Hunter", "emberling")
	assert.Equal(t, 100, p.Currency)
	assert.Equal(t, 10, p.Stamina)
	assert.Equal(t, 10, p.MaxStamina)
	require.Len(t, p.Oozu, 1)
	assert.Equal(t, "Emberling", p.Oozu[0].Nickname)
	assert.Equal(t, 1, p.Oozu[0].Level)
	assert.Nil(t, p.Gender)

	_, err := svc.RegisterPlayer(ctx, gameserver.Registration{UserID: "a", StarterTemplateID: "emberling"})
	assert.ErrorIs(t, err, gameserver.ErrAlreadyRegistered)
	_, err = svc.RegisterPlayer(ctx, gameserver.Registration{UserID: "b", StarterTemplateID: "nope"})
	assert.ErrorIs(t, err, gameserver.ErrUnknownTemplate)

	reloaded := newService(t, jsonStore(dir), 2)
	got, ok, err := reloaded.GetPlayer(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Trainer a", got.DisplayName)
	_, ok, err = reloaded.GetPlayer(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSampleStarterTemplates(t *testing.T) {
	svc := newService(t, jsonStore(t.TempDir()), 3)

	picks, err := svc.SampleStarterTemplates(3)
	require.NoError(t, err)
	require.Len(t, picks, 3)
	seen := map[string]bool{}
	for _, p := range picks {
		assert.True(t, p.IsBase(), p.ID)
		assert.False(t, seen[p.ID], "distinct")
		seen[p.ID] = true
	}

	all, err := svc.SampleStarterTemplates(10)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestSampleStarterTemplates_NoneAvailable(t *testing.T) {
	c, err := catalog.New([]*catalog.Template{{ID: "boss", Name: "Boss", Tier: "Oozaru", BaseHP: 10}}, nil)
	require.NoError(t, err)
	roller := dice.NewLoggedRoller(dice.NewSeededSource(1), zap.NewNop())
	svc := gameserver.NewGameService(c, jsonStore(t.TempDir()), nil, assets.Static{}, roller, testSettings, zap.NewNop())

	_, err = svc.SampleStarterTemplates(3)
	assert.ErrorIs(t, err, gameserver.ErrNoStarters)
}

func TestCollectAndRename(t *testing.T) {
	svc := newService(t, jsonStore(t.TempDir()), 4)
	ctx := context.Background()
	register(t, svc, "a", "Hunter", "emberling")

	second, err := svc.CollectOozu(ctx, "a", "emberling", "")
	require.NoError(t, err)
	assert.Equal(t, "Emberling-2", second.Nickname)
	require.NotNil(t, second.CurrentHP)

	third, err := svc.CollectOozu(ctx, "a", "tidepool", "emberling")
	require.NoError(t, err)
	assert.Equal(t, "emberling-3", third.Nickname)

	_, err = svc.RenameOozu(ctx, "a", 1, "EMBERLING")
	assert.ErrorIs(t, err, gameserver.ErrNicknameTaken)

	renamed, err := svc.RenameOozu(ctx, "a", 0, "  emberling  ")
	require.NoError(t, err, "renaming to its own name is allowed")
	assert.Equal(t, "emberling", renamed.Nickname)

	_, err = svc.RenameOozu(ctx, "a", 1, "   ")
	assert.ErrorIs(t, err, gameserver.ErrInvalidNickname)
	_, err = svc.RenameOozu(ctx, "a", 1, strings.Repeat("x", 33))
	assert.ErrorIs(t, err, gameserver.ErrInvalidNickname)
	_, err = svc.RenameOozu(ctx, "a", 9, "Nine")
	assert.ErrorIs(t, err, gameserver.ErrOozuUnavailable)

	_, err = svc.CollectOozu(ctx, "ghost", "emberling", "")
	assert.ErrorIs(t, err, gameserver.ErrNotRegistered)
}

func TestSpendStamina(t *testing.T) {
	svc := newService(t, jsonStore(t.TempDir()), 5)
	ctx := context.Background()
	register(t, svc, "a", "Hunter", "emberling")

	left, err := svc.SpendStamina(ctx, "a", 4)
	require.NoError(t, err)
	assert.Equal(t, 6, left)

	_, err = svc.SpendStamina(ctx, "a", 7)
	assert.ErrorIs(t, err, gameserver.ErrInsufficientStamina)
	assert.Equal(t, "not enough stamina", gameserver.ErrInsufficientStamina.Error())
	_, err = svc.SpendStamina(ctx, "a", 0)
	assert.ErrorIs(t, err, gameserver.ErrInvalidQuantity)
}

func TestTradeItem(t *testing.T) {
	svc := newService(t, jsonStore(t.TempDir()), 6)
	ctx := context.Background()
	register(t, svc, "a", "Hunter", "emberling")
	register(t, svc, "b", "Hunter", "tidepool")

	_, err := svc.AddItem(ctx, "a", "sap_tonic", 3)
	require.NoError(t, err)

	require.NoError(t, svc.TradeItem(ctx, gameserver.Trade{FromUserID: "a", ToUserID: "b", ItemID: "sap_tonic", Quantity: 2}))
	inv, err := svc.ListInventory(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []player.Entry{{ItemID: "sap_tonic", Quantity: 1}}, inv)
	inv, err = svc.ListInventory(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, []player.Entry{{ItemID: "sap_tonic", Quantity: 2}}, inv)

	err = svc.TradeItem(ctx, gameserver.Trade{FromUserID: "a", ToUserID: "b", ItemID: "sap_tonic", Quantity: 2})
	assert.ErrorIs(t, err, gameserver.ErrInsufficientItems)
	inv, err = svc.ListInventory(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []player.Entry{{ItemID: "sap_tonic", Quantity: 1}}, inv, "failed trade leaves sender untouched")

	err = svc.TradeItem(ctx, gameserver.Trade{FromUserID: "a", ToUserID: "a", ItemID: "sap_tonic", Quantity: 1})
	assert.ErrorIs(t, err, gameserver.ErrSelfTrade)
	err = svc.TradeItem(ctx, gameserver.Trade{FromUserID: "a", ToUserID: "ghost", ItemID: "sap_tonic", Quantity: 1})
	assert.ErrorIs(t, err, gameserver.ErrNotRegistered)
	err = svc.TradeItem(ctx, gameserver.Trade{FromUserID: "a", ToUserID: "b", ItemID: "unknown", Quantity: 1})
	assert.ErrorIs(t, err, gameserver.ErrUnknownItem)
}

func TestHeldItems(t *testing.T) {
	svc := newService(t, jsonStore(t.TempDir()), 7)
	ctx := context.Background()
	register(t, svc, "a", "Hunter", "emberling")
	_, err := svc.AddItem(ctx, "a", "lucky_pebble", 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "a", "rope_coil", 1)
	require.NoError(t, err)

	prev, err := svc.GiveItemToOozu(ctx, "a", 0, "lucky_pebble")
	require.NoError(t, err)
	assert.Empty(t, prev)

	prev, err = svc.GiveItemToOozu(ctx, "a", 0, "rope_coil")
	require.NoError(t, err)
	assert.Equal(t, "lucky_pebble", prev)

	inv, err := svc.ListInventory(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []player.Entry{{ItemID: "lucky_pebble", Quantity: 1}}, inv)

	_, err = svc.AddItem(ctx, "a", "rope_coil", 1)
	require.NoError(t, err)
	_, err = svc.GiveItemToOozu(ctx, "a", 0, "rope_coil")
	assert.ErrorIs(t, err, gameserver.ErrAlreadyHolding)

	held, err := svc.UnequipItem(ctx, "a", 0)
	require.NoError(t, err)
	assert.Equal(t, "rope_coil", held)
	_, err = svc.UnequipItem(ctx, "a", 0)
	assert.ErrorIs(t, err, gameserver.ErrNotHolding)

	_, err = svc.GiveItemToOozu(ctx, "a", 3, "rope_coil")
	assert.ErrorIs(t, err, gameserver.ErrOozuUnavailable)
}

func TestUseItem(t *testing.T) {
	svc := newService(t, jsonStore(t.TempDir()), 8)
	ctx := context.Background()
	register(t, svc, "a", "Hunter", "emberling")
	for _, id := range []string{"sap_tonic", "ether_drop", "trail_ration", "lucky_pebble"} {
		_, err := svc.AddItem(ctx, "a", id, 1)
		require.NoError(t, err)
	}
	zero := 0

	_, err := svc.UseItem(ctx, "a", "sap_tonic", nil)
	assert.ErrorIs(t, err, gameserver.ErrTargetRequired)
	_, err = svc.UseItem(ctx, "a", "lucky_pebble", &zero)
	assert.ErrorIs(t, err, gameserver.ErrItemNotUsable)

	res, err := svc.UseItem(ctx, "a", "sap_tonic", &zero)
	require.NoError(t, err)
	assert.Equal(t, catalog.EffectRestoreHP, res.Effect)
	require.NotNil(t, res.Creature)
	assert.Equal(t, res.Max, *res.Creature.CurrentHP)

	_, err = svc.UseItem(ctx, "a", "sap_tonic", &zero)
	assert.ErrorIs(t, err, gameserver.ErrInsufficientItems)

	_, err = svc.SpendStamina(ctx, "a", 5)
	require.NoError(t, err)
	res, err = svc.UseItem(ctx, "a", "trail_ration", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Restored)
	assert.Equal(t, 7, res.Stamina)
	assert.Equal(t, 10, res.Max)

	inv, err := svc.ListInventory(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []player.Entry{{ItemID: "ether_drop", Quantity: 1}, {ItemID: "lucky_pebble", Quantity: 1}}, inv)
}

func TestSetPortrait(t *testing.T) {
	svc := newService(t, jsonStore(t.TempDir()), 9)
	ctx := context.Background()
	register(t, svc, "a", "Hunter", "emberling")

	url, err := svc.SetPortrait(ctx, "a", " https://example.com/me.png ")
	require.NoError(t, err)
	require.NotNil(t, url)
	assert.Equal(t, "https://example.com/me.png", *url)

	_, err = svc.SetPortrait(ctx, "a", "ftp://example.com/me.png")
	assert.ErrorIs(t, err, gameserver.ErrInvalidPortrait)
	_, err = svc.SetPortrait(ctx, "a", "not a url")
	assert.ErrorIs(t, err, gameserver.ErrInvalidPortrait)

	url, err = svc.SetPortrait(ctx, "a", "")
	require.NoError(t, err)
	assert.Nil(t, url)
	p, _, err := svc.GetPlayer(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, p.PortraitURL)
}

func TestResetPlayer(t *testing.T) {
	svc := newService(t, jsonStore(t.TempDir()), 10)
	ctx := context.Background()
	register(t, svc, "a", "Hunter", "emberling")
	_, err := svc.StartHuntingQuest(ctx, "a")
	require.NoError(t, err)

	existed, err := svc.ResetPlayer(ctx, "a")
	require.NoError(t, err)
	assert.True(t, existed)
	_, ok, err := svc.CurrentHuntingQuest(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	existed, err = svc.ResetPlayer(ctx, "a")
	require.NoError(t, err)
	assert.False(t, existed)
}

func TestBattle_SettlesCurrency(t *testing.T) {
	svc := newService(t, jsonStore(t.TempDir()), 11)
	ctx := context.Background()
	register(t, svc, "a", "Hunter", "emberling")
	register(t, svc, "b", "Hunter", "tidepool")

	for i := 0; i < 200; i++ {
		before, _, err := svc.GetPlayer(ctx, "a")
		require.NoError(t, err)
		otherBefore, _, err := svc.GetPlayer(ctx, "b")
		require.NoError(t, err)

		s, err := svc.Battle(ctx, gameserver.Challenge{ChallengerID: "a", ChallengerOozu: "emberling", OpponentID: "b", OpponentOozu: "Tidepool"})
		require.NoError(t, err)
		require.LessOrEqual(t, s.Rounds, 12)

		after, _, _ := svc.GetPlayer(ctx, "a")
		otherAfter, _, _ := svc.GetPlayer(ctx, "b")
		if s.WinnerSide == battle.Challenger {
			assert.Equal(t, before.Currency+25, after.Currency)
			assert.Equal(t, max(0, otherBefore.Currency-10), otherAfter.Currency)
		} else {
			assert.Equal(t, otherBefore.Currency+25, otherAfter.Currency)
			assert.Equal(t, max(0, before.Currency-10), after.Currency)
		}
	}
}

func TestBattle_Rejections(t *testing.T) {
	svc := newService(t, jsonStore(t.TempDir()), 12)
	ctx := context.Background()
	register(t, svc, "a", "Hunter", "emberling")
	register(t, svc, "b", "Hunter", "tidepool")

	_, err := svc.Battle(ctx, gameserver.Challenge{ChallengerID: "a", ChallengerOozu: "Emberling", OpponentID: "a", OpponentOozu: "Emberling"})
	assert.ErrorIs(t, err, gameserver.ErrSelfBattle)
	_, err = svc.Battle(ctx, gameserver.Challenge{ChallengerID: "a", ChallengerOozu: "Nobody", OpponentID: "b", OpponentOozu: "Tidepool"})
	assert.ErrorIs(t, err, gameserver.ErrOozuUnavailable)

	p, _, err := svc.GetPlayer(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 100, p.Currency)
}

func TestHuntingScenario(t *testing.T) {
	svc := newService(t, jsonStore(t.TempDir()), 13)
	ctx := context.Background()
	register(t, svc, "a", "hunter", "emberling")
	_, err := svc.SpendStamina(ctx, "a", 7)
	require.NoError(t, err)

	resp, err := svc.StartHuntingQuest(ctx, "a")
	require.NoError(t, err)
	p, _, err := svc.GetPlayer(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 2, p.Stamina)
	require.NotNil(t, resp.PendingEvent)
	require.Len(t, resp.EventOptions, 3)

	resp, err = svc.ResolveHuntingEventAction(ctx, "a", resp.Quest.ID, resp.EventOptions[2].ID)
	require.NoError(t, err)
	require.NotNil(t, resp.Latest)
	assert.Equal(t, 1, resp.Latest.Index)
	assert.Equal(t, 1, resp.Quest.Stage)
	assert.Nil(t, resp.PendingEvent)
	assert.GreaterOrEqual(t, len(resp.PathOptions), 2)
	assert.LessOrEqual(t, len(resp.PathOptions), 3)

	_, err = svc.ChooseHuntingQuestOption(ctx, "a", resp.Quest.ID, "stale")
	assert.ErrorIs(t, err, gameserver.ErrPathUnavailable)

	require.NoError(t, svc.AbandonHuntingQuest(ctx, "a"))
	_, err = svc.CompleteHuntingQuestFinale(ctx, "a", resp.Quest.ID)
	assert.ErrorIs(t, err, gameserver.ErrQuestNotActive)
}

func TestHunting_NonHunterRejected(t *testing.T) {
	svc := newService(t, jsonStore(t.TempDir()), 14)
	register(t, svc, "a", "Breeder", "emberling")
	_, err := svc.StartHuntingQuest(context.Background(), "a")
	assert.ErrorIs(t, err, gameserver.ErrWrongClass)
}

func TestPersistFailureIsReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	store.EXPECT().LoadPlayers(gomock.Any()).Return(map[string]*player.Profile{}, nil)
	store.EXPECT().SavePlayers(gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	svc := newService(t, store, 15)
	_, err := svc.RegisterPlayer(context.Background(), gameserver.Registration{UserID: "a", StarterTemplateID: "emberling"})
	require.Error(t, err)
	assert.ErrorIs(t, err, gameserver.ErrPersist)
	assert.Contains(t, err.Error(), "disk full")

	// The in-memory change stays applied until the next successful save.
	_, ok, err := svc.GetPlayer(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPersist_SnapshotsEveryProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mock.NewMockStore(ctrl)
	store.EXPECT().LoadPlayers(gomock.Any()).Return(map[string]*player.Profile{
		"old": {UserID: "old", DisplayName: "Old", Oozu: []player.Oozu{{TemplateID: "mossmote", Nickname: "Moss", Level: 2}}},
	}, nil)
	store.EXPECT().SavePlayers(gomock.Any(), gomock.Len(2)).Return(nil)

	svc := newService(t, store, 16)
	register(t, svc, "new", "Hunter", "emberling")

	old, ok, err := svc.GetPlayer(context.Background(), "old")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 10, old.MaxStamina, "legacy profiles receive the configured stamina cap")
	assert.Equal(t, 10, old.Stamina)
	require.NotNil(t, old.Oozu[0].CurrentHP)
}

func TestQuestDurability_JSONStore(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	open := func(seed uint64) *gameserver.GameService {
		store := jsonStore(dir)
		roller := dice.NewLoggedRoller(dice.NewSeededSource(seed), zap.NewNop())
		svc := gameserver.NewGameService(loadCatalog(t), store, store, assets.Static{}, roller, testSettings, zaptest.NewLogger(t))
		require.NoError(t, svc.Load(ctx))
		return svc
	}

	first := open(17)
	register(t, first, "a", "Hunter", "emberling")
	started, err := first.StartHuntingQuest(ctx, "a")
	require.NoError(t, err)

	second := open(18)
	resumed, err := second.StartHuntingQuest(ctx, "a")
	require.NoError(t, err)
	assert.True(t, resumed.Resumed)
	assert.Equal(t, started.Quest.ID, resumed.Quest.ID)

	p, _, err := second.GetPlayer(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 9, p.Stamina)
}

func TestInvariants_RandomOperations(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		svc := newService(t, jsonStore(t.TempDir()), rapid.Uint64().Draw(rt, "seed"))
		ctx := context.Background()
		register(rt, svc, "a", "Hunter", "emberling")
		register(rt, svc, "b", "Hunter", "tidepool")
		items := []string{"sap_tonic", "ether_drop", "trail_ration", "lucky_pebble", "rope_coil"}

		steps := rapid.IntRange(1, 30).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			user := rapid.SampledFrom([]string{"a", "b"}).Draw(rt, "user")
			item := rapid.SampledFrom(items).Draw(rt, "item")
			idx := rapid.IntRange(0, 1).Draw(rt, "idx")
			switch rapid.IntRange(0, 7).Draw(rt, "op") {
			case 0:
				_, _ = svc.AddItem(ctx, user, item, rapid.IntRange(1, 3).Draw(rt, "qty"))
			case 1:
				_, _ = svc.RemoveItem(ctx, user, item, rapid.IntRange(1, 3).Draw(rt, "qty"))
			case 2:
				_, _ = svc.SpendStamina(ctx, user, rapid.IntRange(1, 4).Draw(rt, "cost"))
			case 3:
				_, _ = svc.UseItem(ctx, user, item, &idx)
			case 4:
				_, _ = svc.GiveItemToOozu(ctx, user, idx, item)
			case 5:
				_, _ = svc.Battle(ctx, gameserver.Challenge{ChallengerID: "a", ChallengerOozu: "Emberling", OpponentID: "b", OpponentOozu: "Tidepool"})
			case 6:
				resp, err := svc.StartHuntingQuest(ctx, user)
				if err == nil && resp.PendingEvent != nil {
					_, _ = svc.ResolveHuntingEventAction(ctx, user, resp.Quest.ID, resp.EventOptions[0].ID)
				}
			case 7:
				_ = svc.TradeItem(ctx, gameserver.Trade{FromUserID: user, ToUserID: map[string]string{"a": "b", "b": "a"}[user], ItemID: item, Quantity: 1})
			}
		}

		players, err := svc.ListPlayers(ctx)
		require.NoError(rt, err)
		for _, p := range players {
			require.GreaterOrEqual(rt, p.Stamina, 0)
			require.LessOrEqual(rt, p.Stamina, p.MaxStamina)
			require.GreaterOrEqual(rt, p.Currency, 0)
			for _, qty := range p.Inventory {
				require.Positive(rt, qty)
			}
		}
	})
}

var _ quest.Store = (*jsonfile.Store)(nil)
