package quest

import "fmt"

// Requirement decides whether an action's main outcome or its fallback applies.
type Requirement int

const (
	// Always applies the main outcome.
	Always Requirement = iota
	// NeedsOozu applies the main outcome to a random creature, or the fallback
	// when the roster has none with a known template.
	NeedsOozu
	// NeedsInventory applies the main outcome to a random owned item, or the
	// fallback when the inventory is empty.
	NeedsInventory
)

// EffectKind names one resource change.
type EffectKind int

const (
	// GainCurrency adds a random amount of Oozorbs.
	GainCurrency EffectKind = iota + 1
	// LoseCurrency removes a random amount, never below zero.
	LoseCurrency
	// CreatureHP shifts the selected creature's HP, clamped to [0, max].
	CreatureHP
	// CreatureMP shifts the selected creature's MP, clamped to [0, max].
	CreatureMP
	// Stamina shifts player stamina, clamped to [0, max].
	Stamina
	// GrantItem adds one random catalog item from Pool.
	GrantItem
	// LoseItem removes one unit of the sampled inventory item.
	LoseItem
	// BuyItem picks an item from Pool and charges a random price when affordable.
	BuyItem
)

// ItemPool filters catalog items for GrantItem and BuyItem.
type ItemPool int

const (
	PoolConsumable ItemPool = iota + 1
	PoolNotHeld
)

// Effect is a bounded random change. Amounts are drawn uniformly from
// [Min, Max] inclusive; negative bounds express losses for HP, MP, and stamina.
type Effect struct {
	Kind EffectKind
	Min  int
	Max  int
	Pool ItemPool
}

// Outcome is the text and effects of one branch. Text placeholders
// {currency}, {hp}, {mp}, {stamina}, {item}, and {target} are filled with the
// magnitudes actually applied. When Unchanged is set and the first effect
// changes nothing, Unchanged is reported instead with no effects.
type Outcome struct {
	Narrative string
	Text      string
	Effects   []Effect
	Unchanged *Outcome
}

// Action is one row of an encounter's action table.
type Action struct {
	Key      string
	Label    string
	Requires Requirement
	Outcome  Outcome
	Fallback *Outcome
}

func span(kind EffectKind, lo, hi int) Effect {
	return Effect{Kind: kind, Min: lo, Max: hi}
}

var actionTable = map[string][]Action{
	EventBarrel: {
		{
			Key:   "barrel.inspect",
			Label: "Inspect the barrel carefully",
			Outcome: Outcome{
				Narrative: "You pry the warped lid open and scoop out a stash of glittering Oozorbs.",
				Text:      "You gain {currency} Oozorbs.",
				Effects:   []Effect{span(GainCurrency, 8, 18)},
			},
		},
		{
			Key:      "barrel.kick",
			Label:    "Kick the barrel open",
			Requires: NeedsOozu,
			Outcome: Outcome{
				Narrative: "A pressure trap detonates as you kick, scorching your lead Oozu.",
				Text:      "{target} loses {hp} HP.",
				Effects:   []Effect{span(CreatureHP, -9, -4)},
			},
			Fallback: &Outcome{
				Narrative: "The barrel bursts and coins spill across the ground.",
				Text:      "You grab {currency} Oozorbs.",
				Effects:   []Effect{span(GainCurrency, 5, 12)},
			},
		},
		{
			Key:   "barrel.vial",
			Label: "Snatch the sealed vial",
			Outcome: Outcome{
				Narrative: "You retrieve a sealed vial padded in straw.",
				Text:      "You obtain **{item}**.",
				Effects:   []Effect{{Kind: GrantItem, Pool: PoolConsumable}},
				Unchanged: &Outcome{
					Narrative: "The vial inside has spoiled, crumbling at your touch.",
					Text:      "No usable item remains.",
				},
			},
		},
		{
			Key:      "barrel.tap",
			Label:    "Tap the barrel to test it",
			Requires: NeedsOozu,
			Outcome: Outcome{
				Narrative: "A siphoning rune flares, draining arcana from your companion.",
				Text:      "{target} loses {mp} MP.",
				Effects:   []Effect{span(CreatureMP, -6, -3)},
			},
			Fallback: &Outcome{
				Narrative: "Loose coins rattle free from the barrel’s seams.",
				Text:      "You gather {currency} Oozorbs.",
				Effects:   []Effect{span(GainCurrency, 3, 8)},
			},
		},
	},
	EventChest: {
		{
			Key:   "chest.pick",
			Label: "Pick the lock carefully",
			Outcome: Outcome{
				Narrative: "Your steady hands work the tumblers loose, revealing neatly stacked Oozorbs.",
				Text:      "You gain {currency} Oozorbs.",
				Effects:   []Effect{span(GainCurrency, 15, 30)},
			},
		},
		{
			Key:      "chest.force",
			Label:    "Force the chest open",
			Requires: NeedsOozu,
			Outcome: Outcome{
				Narrative: "A mimic maw snaps shut on your Oozu before you wrench it free.",
				Text:      "{target} loses {hp} HP and you lose {stamina} stamina.",
				Effects:   []Effect{span(CreatureHP, -12, -6), span(Stamina, -1, -1)},
			},
			Fallback: &Outcome{
				Narrative: "A mimic lunges, but without an Oozu to bite it loses interest.",
				Text:      "You dodge without harm.",
			},
		},
		{
			Key:      "chest.heal",
			Label:    "Channel healing light inside",
			Requires: NeedsOozu,
			Outcome: Outcome{
				Narrative: "Radiant energy flows from the chest, knitting wounds and refilling arcana.",
				Text:      "{target} recovers {hp} HP and {mp} MP.",
				Effects:   []Effect{span(CreatureHP, 5, 10), span(CreatureMP, 4, 7)},
			},
			Fallback: &Outcome{
				Narrative: "The chest reflects the light into motes of coin.",
				Text:      "You gain {currency} Oozorbs.",
				Effects:   []Effect{span(GainCurrency, 10, 16)},
			},
		},
		{
			Key:   "chest.tithe",
			Label: "Leave a tithe and back away",
			Outcome: Outcome{
				Narrative: "You leave a respectful offering, hoping for favor on future hunts.",
				Text:      "You spend {currency} Oozorbs to appease the spirits.",
				Effects:   []Effect{span(LoseCurrency, 5, 9)},
				Unchanged: &Outcome{
					Narrative: "You leave a respectful offering, hoping for favor on future hunts.",
					Text:      "You had nothing to offer.",
				},
			},
		},
	},
	EventCrate: {
		{
			Key:   "crate.bandits",
			Label: "Pay off lurking bandits",
			Outcome: Outcome{
				Narrative: "Hidden bandits step out, demanding their cut. You toss them a handful of orbs.",
				Text:      "You lose {currency} Oozorbs.",
				Effects:   []Effect{span(LoseCurrency, 6, 14)},
			},
		},
		{
			Key:   "crate.rest",
			Label: "Take a breather on the crate",
			Outcome: Outcome{
				Narrative: "You sit on the crate and share rations, taking a brief respite.",
				Text:      "You regain 1 stamina.",
				Effects:   []Effect{span(Stamina, 1, 1)},
				Unchanged: &Outcome{
					Narrative: "You sit on the crate and share rations, taking a brief respite.",
					Text:      "You already feel fully rested.",
				},
			},
		},
		{
			Key:      "crate.rummage",
			Label:    "Rummage through the packing straw",
			Requires: NeedsOozu,
			Outcome: Outcome{
				Narrative: "You uncover an intact ether vial nestled in the straw.",
				Text:      "{target} regains {mp} MP.",
				Effects:   []Effect{span(CreatureMP, 5, 9)},
			},
			Fallback: &Outcome{
				Narrative: "The crate is mostly straw and empty jars.",
				Text:      "Nothing of value turns up.",
			},
		},
		{
			Key:      "crate.salvage",
			Label:    "Salvage spare parts",
			Requires: NeedsInventory,
			Outcome: Outcome{
				Narrative: "A crate collapses, crushing one of your packed supplies.",
				Text:      "You lose one **{item}**.",
				Effects:   []Effect{{Kind: LoseItem}},
			},
			Fallback: &Outcome{
				Narrative: "You gather a few scraps but nothing useful.",
				Text:      "Your supplies remain unchanged.",
			},
		},
	},
	EventShadyTrader: {
		{
			Key:   "trader.purchase",
			Label: "Purchase a curious trinket",
			Outcome: Outcome{
				Narrative: "You barter for a bottled concoction the trader swears by.",
				Text:      "You spend {currency} Oozorbs and receive **{item}**.",
				Effects:   []Effect{{Kind: BuyItem, Min: 8, Max: 16, Pool: PoolNotHeld}},
				Unchanged: &Outcome{
					Narrative: "You hesitate too long and the trader shrugs, pocketing their wares.",
					Text:      "No deal is made.",
				},
			},
		},
		{
			Key:      "trader.guard",
			Label:    "Guard your belongings",
			Requires: NeedsInventory,
			Outcome: Outcome{
				Narrative: "Despite your vigilance, the trader palms a supply, leaving a few coins in return.",
				Text:      "You lose one **{item}** but gain {currency} Oozorbs.",
				Effects:   []Effect{{Kind: LoseItem}, span(GainCurrency, 3, 6)},
			},
			Fallback: &Outcome{
				Narrative: "With nothing to swipe, the trader slips you a hush fee.",
				Text:      "You gain {currency} Oozorbs.",
				Effects:   []Effect{span(GainCurrency, 5, 10)},
			},
		},
		{
			Key:      "trader.treatment",
			Label:    "Pay for field treatment",
			Requires: NeedsOozu,
			Outcome: Outcome{
				Narrative: "The trader mixes salves and tonics tailored to your companion.",
				Text:      "{target} recovers {hp} HP and {mp} MP for {currency} Oozorbs.",
				Effects:   []Effect{span(CreatureHP, 4, 8), span(CreatureMP, 4, 8), span(LoseCurrency, 5, 9)},
			},
			Fallback: &Outcome{
				Narrative: "With no patients, the trader simply pockets your consultation fee.",
				Text:      "You lose {currency} Oozorbs.",
				Effects:   []Effect{span(LoseCurrency, 6, 12)},
			},
		},
		{
			Key:   "trader.intimidate",
			Label: "Intimidate the trader",
			Outcome: Outcome{
				Narrative: "You glare until the trader coughs up a bribe to keep the peace.",
				Text:      "You gain {currency} Oozorbs.",
				Effects:   []Effect{span(GainCurrency, 6, 11)},
			},
		},
	},
}

// finale closes every quest.
var finale = Outcome{
	Narrative: "You corner the elusive quarry. Your traps spring shut in a flurry of motion.",
	Text:      "You destroy the wild Oozu and harvest {currency} Oozorbs.",
	Effects:   []Effect{span(GainCurrency, 35, 55)},
}

var actionsByKey = indexActions()

func indexActions() map[string]*Action {
	idx := make(map[string]*Action)
	for eventType, rows := range actionTable {
		for i := range rows {
			a := &rows[i]
			if _, dup := idx[a.Key]; dup {
				panic(fmt.Sprintf("quest: duplicate action key %q in %s", a.Key, eventType))
			}
			idx[a.Key] = a
		}
	}
	return idx
}

// Actions returns the action rows for an event type.
func Actions(eventType string) []Action {
	return actionTable[eventType]
}
