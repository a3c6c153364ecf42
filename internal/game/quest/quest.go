// Package quest implements the hunting quest state machine: a per-player
// chain of randomized encounters joined by branching path choices and closed
// by a finale.
package quest

import "errors"

// Quest classification reported in every response.
const (
	QuestType    = "Work"
	QuestSubtype = "Hunting"
)

// Status is the lifecycle state of a quest.
type Status string

const (
	StatusOngoing        Status = "ongoing"
	StatusAwaitingFinale Status = "awaiting_finale"
	StatusComplete       Status = "complete"
)

// Active reports whether a start call should resume rather than replace the quest.
func (s Status) Active() bool {
	return s == StatusOngoing || s == StatusAwaitingFinale
}

// Event types.
const (
	EventBarrel      = "barrel"
	EventChest       = "chest"
	EventCrate       = "crate"
	EventShadyTrader = "shady_trader"
	EventOozu        = "oozu"
)

// RegularEventTypes are the encounters a path can lead to.
var RegularEventTypes = []string{EventBarrel, EventChest, EventCrate, EventShadyTrader}

// HiddenLabel is the internal label of the concealed path option.
const HiddenLabel = "Unknown Path"

// hiddenDisplay replaces the label of hidden options in responses.
const hiddenDisplay = "???"

var displayNames = map[string]string{
	EventBarrel:      "Weathered Barrel",
	EventChest:       "Forgotten Chest",
	EventCrate:       "Abandoned Crate",
	EventShadyTrader: "Shady Trader",
	EventOozu:        "Wild Oozu",
}

var prompts = map[string]string{
	EventBarrel:      "A weathered barrel lies half-buried in the underbrush, its lid barely holding.",
	EventChest:       "An ornate chest rests atop a stone pedestal, faintly humming with energy.",
	EventCrate:       "Supply crates are scattered across the clearing, some splintered, others sealed.",
	EventShadyTrader: "A cloaked trader waves you over, their stall cluttered with oddities.",
}

// DisplayName returns the title shown for an event type.
func DisplayName(eventType string) string {
	if name, ok := displayNames[eventType]; ok {
		return name
	}
	return eventType
}

func prompt(eventType string) string {
	if p, ok := prompts[eventType]; ok {
		return p
	}
	return "You encounter a " + DisplayName(eventType) + "."
}

var (
	// ErrWrongClass is returned when a non-hunter starts a hunting quest.
	ErrWrongClass = errors.New("only hunters can take hunting quests")
	// ErrQuestNotActive is returned for an unknown or stale quest id.
	ErrQuestNotActive = errors.New("that quest is no longer active")
	// ErrNoPendingEvent is returned when resolving with no encounter open.
	ErrNoPendingEvent = errors.New("there is no encounter awaiting a decision")
	// ErrEncounterNotActive is returned when the open encounter belongs to another quest.
	ErrEncounterNotActive = errors.New("that encounter is no longer active")
	// ErrChoiceUnavailable is returned for a stale encounter option id.
	ErrChoiceUnavailable = errors.New("that choice is no longer available")
	// ErrPathUnavailable is returned for a stale path option id.
	ErrPathUnavailable = errors.New("that path is no longer available")
)

// Effects records the resource changes an outcome applied. Only touched
// fields are set.
type Effects struct {
	Currency *int   `json:"currency,omitempty"`
	HP       *int   `json:"hp,omitempty"`
	MP       *int   `json:"mp,omitempty"`
	Stamina  *int   `json:"stamina,omitempty"`
	Item     string `json:"item,omitempty"`
	Delta    *int   `json:"delta,omitempty"`
	Target   string `json:"target,omitempty"`
}

// Entry is one resolved event in the quest log.
type Entry struct {
	Index     int     `json:"index"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Narrative string  `json:"narrative"`
	Outcome   string  `json:"outcome"`
	Effects   Effects `json:"effects"`
	Scene     string  `json:"scene,omitempty"`
	Sprite    string  `json:"sprite,omitempty"`
}

// PathOption is a choice of which encounter comes next.
type PathOption struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Label  string `json:"label"`
	Hidden bool   `json:"hidden"`
}

// EventOption is one way to resolve the open encounter. Action names a row
// of the static action table.
type EventOption struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Action string `json:"action"`
}

// PendingEvent is an encounter awaiting the player's decision.
type PendingEvent struct {
	ID      string        `json:"id"`
	Type    string        `json:"type"`
	Title   string        `json:"title"`
	Prompt  string        `json:"prompt"`
	Scene   string        `json:"scene,omitempty"`
	Sprite  string        `json:"sprite,omitempty"`
	Options []EventOption `json:"options"`
}

// Quest is the full state of one player's hunt.
//
// Invariant: 0 <= Stage <= TargetRegularEvents+1; len(Log) == Stage except
// that a complete quest holds TargetRegularEvents+1 entries.
type Quest struct {
	ID                  string        `json:"id"`
	UserID              string        `json:"user_id"`
	Type                string        `json:"type"`
	Subtype             string        `json:"subtype"`
	Stage               int           `json:"stage"`
	Status              Status        `json:"status"`
	TargetRegularEvents int           `json:"target_regular_events"`
	Log                 []Entry       `json:"log"`
	CurrentOptions      []PathOption  `json:"current_options"`
	Pending             *PendingEvent `json:"pending_event,omitempty"`
}

// MaxStage is the stage reached on completion.
func (q *Quest) MaxStage() int {
	return q.TargetRegularEvents + 1
}

func (q *Quest) latest() *Entry {
	if len(q.Log) == 0 {
		return nil
	}
	e := q.Log[len(q.Log)-1]
	return &e
}

func (q *Quest) clone() *Quest {
	c := *q
	c.Log = append([]Entry(nil), q.Log...)
	c.CurrentOptions = append([]PathOption(nil), q.CurrentOptions...)
	if q.Pending != nil {
		p := *q.Pending
		p.Options = append([]EventOption(nil), q.Pending.Options...)
		c.Pending = &p
	}
	return &c
}
