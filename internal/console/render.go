package console

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/oozu/internal/game/battle"
	"github.com/cory-johannsen/oozu/internal/game/catalog"
	"github.com/cory-johannsen/oozu/internal/game/player"
	"github.com/cory-johannsen/oozu/internal/game/quest"
	"github.com/cory-johannsen/oozu/internal/game/stats"
	"github.com/cory-johannsen/oozu/internal/gameserver"
)

// renderProfile formats the player card.
func (p palette) renderProfile(prof *player.Profile) string {
	var b strings.Builder
	b.WriteString(p.Colorize(BrightYellow, prof.DisplayName))
	if prof.Class() != "" {
		b.WriteString(p.Colorf(Dim, " (%s)", prof.Class()))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Oozorbs: %d  Stamina: %d/%d\n", prof.Currency, prof.Stamina, prof.MaxStamina)
	if prof.PortraitURL != nil {
		fmt.Fprintf(&b, "Portrait: %s\n", *prof.PortraitURL)
	}
	fmt.Fprintf(&b, "Oozu: %d  Items: %d\n", len(prof.Oozu), len(prof.Inventory))
	return b.String()
}

// renderRoster lists creatures with their derived stats.
func (p palette) renderRoster(roster []player.Oozu, cat *catalog.Catalog) string {
	if len(roster) == 0 {
		return "You have no Oozu.\n"
	}
	var b strings.Builder
	for i, o := range roster {
		fmt.Fprintf(&b, "%d. %s", i+1, p.Colorize(BrightCyan, o.Nickname))
		t, ok := cat.Template(o.TemplateID)
		if !ok {
			fmt.Fprintf(&b, " Lv%d (unknown species %s)\n", o.Level, o.TemplateID)
			continue
		}
		s := stats.Derive(t, o.Level)
		hp, mp := s.HP, s.MP
		if o.CurrentHP != nil {
			hp = *o.CurrentHP
		}
		if o.CurrentMP != nil {
			mp = *o.CurrentMP
		}
		fmt.Fprintf(&b, " Lv%d %s  HP %d/%d  MP %d/%d  ATK %d  DEF %d",
			o.Level, t.Name, hp, s.HP, mp, s.MP, s.Attack, s.Defense)
		if held := o.Holding(); held != "" {
			fmt.Fprintf(&b, "  holding %s", held)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderInventory lists owned items in id order.
func (p palette) renderInventory(entries []player.Entry, cat *catalog.Catalog) string {
	if len(entries) == 0 {
		return "Your inventory is empty.\n"
	}
	var b strings.Builder
	for _, e := range entries {
		name := e.ItemID
		if it, ok := cat.Item(e.ItemID); ok {
			name = it.Name
		}
		fmt.Fprintf(&b, "%s x%d %s\n", p.Colorize(Cyan, name), e.Quantity, p.Colorf(Dim, "[%s]", e.ItemID))
	}
	return b.String()
}

// renderTemplates lists starter choices.
func (p palette) renderTemplates(templates []*catalog.Template) string {
	var b strings.Builder
	for _, t := range templates {
		fmt.Fprintf(&b, "%s %s  HP %d  ATK %d  DEF %d\n",
			p.Colorize(BrightCyan, t.Name), p.Colorf(Dim, "[%s]", t.ID), t.BaseHP, t.BaseAttack, t.BaseDefense)
	}
	return b.String()
}

// renderBattle prints the exchange log and the result.
func (p palette) renderBattle(s battle.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s vs %s\n", s.Challenger, s.Opponent)
	for _, e := range s.Log {
		fmt.Fprintf(&b, "  %s %s for %d\n", e.Actor, e.Action, e.Damage)
	}
	fmt.Fprintf(&b, "%s after %d rounds (+%d Oozorbs).\n",
		p.Colorf(Green, "%s wins", s.Winner), s.Rounds, battle.WinnerReward)
	return b.String()
}

// renderUse reports a consumable's effect.
func (p palette) renderUse(itemID string, r gameserver.UseResult) string {
	switch r.Effect {
	case catalog.EffectRestoreStamina:
		return fmt.Sprintf("Used %s: stamina +%d (%d/%d).\n", itemID, r.Restored, r.Stamina, r.Max)
	case catalog.EffectRestoreHP:
		return fmt.Sprintf("Used %s: %s is back to %d HP.\n", itemID, r.Creature.Nickname, r.Restored)
	default:
		return fmt.Sprintf("Used %s: %s is back to %d MP.\n", itemID, r.Creature.Nickname, r.Restored)
	}
}

// renderQuest formats a quest response: the latest outcome, then the open
// encounter or the path choices.
func (p palette) renderQuest(resp quest.Response) string {
	var b strings.Builder
	q := resp.Quest
	header := fmt.Sprintf("%s: %s  stage %d/%d  %s", q.Type, q.Subtype, q.Stage, q.MaxStage, q.Status)
	b.WriteString(p.Colorize(Magenta, header))
	if resp.Resumed {
		b.WriteString(p.Colorize(Dim, "  (resumed)"))
	}
	b.WriteString("\n")

	if l := resp.Latest; l != nil {
		fmt.Fprintf(&b, "%s\n", p.Colorize(BrightYellow, l.Title))
		if l.Narrative != "" {
			fmt.Fprintf(&b, "%s\n", l.Narrative)
		}
		fmt.Fprintf(&b, "%s\n", l.Outcome)
	}

	switch {
	case resp.PendingEvent != nil:
		ev := resp.PendingEvent
		fmt.Fprintf(&b, "%s\n%s\n", p.Colorize(BrightYellow, ev.Title), ev.Prompt)
		for i, o := range resp.EventOptions {
			fmt.Fprintf(&b, "  act %d: %s\n", i+1, o.Label)
		}
	case q.Status == quest.StatusAwaitingFinale:
		b.WriteString("Something stirs ahead. Type 'finale' to face it.\n")
	case q.Status == quest.StatusComplete:
		b.WriteString(p.Colorize(Green, "The hunt is over.") + "\n")
	default:
		for i, o := range resp.PathOptions {
			fmt.Fprintf(&b, "  go %d: %s\n", i+1, o.Label)
		}
	}
	return b.String()
}
