// Package player models registered player profiles, their creature rosters,
// and item inventories.
package player

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// MaxNicknameLength bounds creature nicknames after trimming.
const MaxNicknameLength = 32

// ClassHunter is the only class allowed to take hunting quests.
const ClassHunter = "hunter"

// Oozu is a creature instance owned by a player.
type Oozu struct {
	TemplateID string  `json:"template_id"`
	Nickname   string  `json:"nickname"`
	Level      int     `json:"level"`
	Experience int     `json:"experience"`
	HeldItem   *string `json:"held_item,omitempty"`
	CurrentHP  *int    `json:"current_hp,omitempty"`
	CurrentMP  *int    `json:"current_mp,omitempty"`
}

// Holding returns the held item id, or "" when nothing is held.
func (o *Oozu) Holding() string {
	if o.HeldItem == nil {
		return ""
	}
	return *o.HeldItem
}

// Profile is the persistent state of one registered player.
type Profile struct {
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Gender      *string   `json:"gender,omitempty"`
	Pronoun     *string   `json:"pronoun,omitempty"`
	PlayerClass *string   `json:"player_class,omitempty"`
	Currency    int       `json:"currency"`
	Stamina     int       `json:"stamina"`
	MaxStamina  int       `json:"max_stamina"`
	Inventory   Inventory `json:"inventory"`
	Oozu        []Oozu    `json:"oozu"`
	PortraitURL *string   `json:"portrait_url,omitempty"`
}

// Class returns the player class, or "" when unset.
func (p *Profile) Class() string {
	if p.PlayerClass == nil {
		return ""
	}
	return *p.PlayerClass
}

// IsHunter reports whether the class is "hunter", ignoring case.
func (p *Profile) IsHunter() bool {
	return sameName(p.Class(), ClassHunter)
}

// FindOozu returns the index of the creature with the given nickname, ignoring
// case, or -1 when none matches.
func (p *Profile) FindOozu(nickname string) int {
	for i := range p.Oozu {
		if sameName(p.Oozu[i].Nickname, nickname) {
			return i
		}
	}
	return -1
}

// UniqueNickname returns base, or base suffixed with -2, -3, ... until no
// creature on the profile uses it.
//
// Postcondition: p.FindOozu(result) == -1.
func (p *Profile) UniqueNickname(base string) string {
	candidate := base
	for suffix := 2; p.FindOozu(candidate) >= 0; suffix++ {
		candidate = base + "-" + strconv.Itoa(suffix)
	}
	return candidate
}

// Clone returns a deep copy safe to hand outside the concurrency guard.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Gender = cloneString(p.Gender)
	c.Pronoun = cloneString(p.Pronoun)
	c.PlayerClass = cloneString(p.PlayerClass)
	c.PortraitURL = cloneString(p.PortraitURL)
	c.Inventory = p.Inventory.Clone()
	c.Oozu = make([]Oozu, len(p.Oozu))
	for i := range p.Oozu {
		c.Oozu[i] = p.Oozu[i].Clone()
	}
	return &c
}

// Clone returns a copy sharing no pointers with o.
func (o *Oozu) Clone() Oozu {
	c := *o
	c.HeldItem = cloneString(o.HeldItem)
	c.CurrentHP = cloneInt(o.CurrentHP)
	c.CurrentMP = cloneInt(o.CurrentMP)
	return c
}

// SortProfiles orders profiles by user id for stable snapshots.
func SortProfiles(profiles []*Profile) {
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].UserID < profiles[j].UserID })
}

// StringPtr returns a pointer to the trimmed value, or nil when it is blank.
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func sameName(a, b string) bool {
	f := cases.Fold()
	return f.String(a) == f.String(b)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(n *int) *int {
	if n == nil {
		return nil
	}
	v := *n
	return &v
}
