// Package console is a line-oriented text client that drives one player's
// session against the game service.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/oozu/internal/game/quest"
	"github.com/cory-johannsen/oozu/internal/gameserver"
)

// Prompt is written before every command.
const Prompt = "> "

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, c *Console, args []string) error
}

// errQuit ends the read loop.
var errQuit = errors.New("quit")

// errUsage marks a malformed command line.
var errUsage = errors.New("usage")

// Console reads commands from in and writes rendered results to out.
// It remembers the last quest response so options can be picked by number.
type Console struct {
	game   *gameserver.GameService
	in     io.Reader
	out    io.Writer
	userID string
	colors palette
	logger *zap.Logger

	commands map[string]command
	last     *quest.Response
}

// New creates a Console acting as userID.
//
// Precondition: game, in, out, and logger must be non-nil; userID must be non-empty.
func New(game *gameserver.GameService, in io.Reader, out io.Writer, userID string, color bool, logger *zap.Logger) *Console {
	c := &Console{
		game:   game,
		in:     in,
		out:    out,
		userID: userID,
		colors: palette(color),
		logger: logger,
	}
	c.commands = builtinCommands()
	return c
}

// Run reads lines until EOF, "quit", or ctx is cancelled.
//
// Postcondition: Returns nil on EOF or quit, ctx.Err() on cancellation.
func (c *Console) Run(ctx context.Context) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	c.printf("Welcome to Oozu, %s. Type 'help' for commands.\n", c.userID)
	for {
		c.printf("%s", Prompt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-readErr:
			c.printf("\n")
			return err
		case line := <-lines:
			if err := c.Execute(ctx, line); errors.Is(err, errQuit) {
				c.printf("Goodbye.\n")
				return nil
			}
		}
	}
}

// Execute runs one command line and writes its output. Domain errors are
// rendered, not returned; only quitting is reported to the caller.
func (c *Console) Execute(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	cmd, ok := c.commands[name]
	if !ok {
		c.printf("%s\n", c.colors.Colorf(Red, "Unknown command %q. Type 'help'.", name))
		return nil
	}
	err := cmd.run(ctx, c, fields[1:])
	switch {
	case err == nil:
	case errors.Is(err, errQuit):
		return err
	case errors.Is(err, errUsage):
		c.printf("Usage: %s\n", cmd.usage)
	default:
		c.logger.Debug("command failed", zap.String("command", name), zap.Error(err))
		c.printf("%s\n", c.colors.Colorize(Red, sentence(err.Error())))
	}
	return nil
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) showQuest(resp quest.Response) {
	c.last = &resp
	c.printf("%s", c.colors.renderQuest(resp))
}

// recoverQuest restarts the hunt after a stale option and shows the fresh view.
func (c *Console) recoverQuest(ctx context.Context, notice string) error {
	resp, err := c.game.StartHuntingQuest(ctx, c.userID)
	if err != nil {
		return err
	}
	c.printf("%s\n", c.colors.Colorize(Yellow, notice))
	c.showQuest(resp)
	return nil
}

func (c *Console) questErr(err error) error {
	if errors.Is(err, gameserver.ErrQuestNotActive) {
		c.last = nil
		return errors.New("that hunt is no longer available")
	}
	return err
}

// optionID maps a 1-based number to an option id. Anything else is passed
// through so stale or raw ids reach the service.
func optionID(options []quest.OptionView, arg string) string {
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(options) {
		return options[n-1].ID
	}
	return arg
}

// index parses a 1-based roster position.
func index(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, errUsage
	}
	return n - 1, nil
}

func sentence(msg string) string {
	if msg == "" {
		return msg
	}
	msg = strings.ToUpper(msg[:1]) + msg[1:]
	if !strings.HasSuffix(msg, ".") {
		msg += "."
	}
	return msg
}

func builtinCommands() map[string]command {
	cmds := map[string]command{
		"help":     {usage: "help", help: "list commands", run: runHelp},
		"quit":     {usage: "quit", help: "leave the console", run: func(context.Context, *Console, []string) error { return errQuit }},
		"starters": {usage: "starters", help: "show starter choices", run: runStarters},
		"register": {usage: "register <class> <starter_id> <display name...>", help: "create your profile", run: runRegister},
		"me":       {usage: "me", help: "show your profile", run: runProfile},
		"oozu":     {usage: "oozu", help: "list your Oozu", run: runRoster},
		"inv":      {usage: "inv", help: "list your items", run: runInventory},
		"collect":  {usage: "collect <template_id> [nickname]", help: "add an Oozu to your roster", run: runCollect},
		"rename":   {usage: "rename <n> <nickname>", help: "rename Oozu number n", run: runRename},
		"give":     {usage: "give <n> <item_id>", help: "give Oozu number n an item to hold", run: runGive},
		"unequip":  {usage: "unequip <n>", help: "take back the held item of Oozu number n", run: runUnequip},
		"use":      {usage: "use <item_id> [n]", help: "use a consumable, on Oozu number n when needed", run: runUse},
		"trade":    {usage: "trade <user_id> <item_id> <quantity>", help: "send items to another player", run: runTrade},
		"portrait": {usage: "portrait [url]", help: "set or clear your portrait", run: runPortrait},
		"battle":   {usage: "battle <your_oozu> <opponent_id> <their_oozu>", help: "duel another player", run: runBattle},
		"hunt":     {usage: "hunt", help: "start or resume a hunting quest", run: runHunt},
		"go":       {usage: "go <n>", help: "follow path n", run: runGo},
		"act":      {usage: "act <n>", help: "take encounter action n", run: runAct},
		"finale":   {usage: "finale", help: "face the hunt's finale", run: runFinale},
		"quest":    {usage: "quest", help: "show your current hunt", run: runQuest},
		"abandon":  {usage: "abandon", help: "give up your current hunt", run: runAbandon},
		"reset":    {usage: "reset", help: "delete your profile", run: runReset},
	}
	return cmds
}

func runHelp(_ context.Context, c *Console, _ []string) error {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := c.commands[name]
		c.printf("  %-48s %s\n", cmd.usage, c.colors.Colorize(Dim, cmd.help))
	}
	return nil
}

func runStarters(_ context.Context, c *Console, _ []string) error {
	picks, err := c.game.SampleStarterTemplates(0)
	if err != nil {
		return err
	}
	c.printf("%s", c.colors.renderTemplates(picks))
	return nil
}

func runRegister(ctx context.Context, c *Console, args []string) error {
	if len(args) < 3 {
		return errUsage
	}
	p, err := c.game.RegisterPlayer(ctx, gameserver.Registration{
		UserID:            c.userID,
		PlayerClass:       args[0],
		StarterTemplateID: args[1],
		DisplayName:       strings.Join(args[2:], " "),
	})
	if err != nil {
		return err
	}
	c.printf("Welcome, %s! %s joins you.\n", p.DisplayName, p.Oozu[0].Nickname)
	return nil
}

func runProfile(ctx context.Context, c *Console, _ []string) error {
	p, ok, err := c.game.GetPlayer(ctx, c.userID)
	if err != nil {
		return err
	}
	if !ok {
		return gameserver.ErrNotRegistered
	}
	c.printf("%s", c.colors.renderProfile(p))
	return nil
}

func runRoster(ctx context.Context, c *Console, _ []string) error {
	roster, err := c.game.ListPlayerOozu(ctx, c.userID)
	if err != nil {
		return err
	}
	c.printf("%s", c.colors.renderRoster(roster, c.game.Catalog()))
	return nil
}

func runInventory(ctx context.Context, c *Console, _ []string) error {
	entries, err := c.game.ListInventory(ctx, c.userID)
	if err != nil {
		return err
	}
	c.printf("%s", c.colors.renderInventory(entries, c.game.Catalog()))
	return nil
}

func runCollect(ctx context.Context, c *Console, args []string) error {
	if len(args) < 1 {
		return errUsage
	}
	o, err := c.game.CollectOozu(ctx, c.userID, args[0], strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	c.printf("%s joins your roster.\n", o.Nickname)
	return nil
}

func runRename(ctx context.Context, c *Console, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	i, err := index(args[0])
	if err != nil {
		return err
	}
	o, err := c.game.RenameOozu(ctx, c.userID, i, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	c.printf("Oozu %d is now called %s.\n", i+1, o.Nickname)
	return nil
}

func runGive(ctx context.Context, c *Console, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	i, err := index(args[0])
	if err != nil {
		return err
	}
	previous, err := c.game.GiveItemToOozu(ctx, c.userID, i, args[1])
	if err != nil {
		return err
	}
	c.printf("Oozu %d now holds %s.\n", i+1, args[1])
	if previous != "" {
		c.printf("%s went back to your inventory.\n", previous)
	}
	return nil
}

func runUnequip(ctx context.Context, c *Console, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	i, err := index(args[0])
	if err != nil {
		return err
	}
	held, err := c.game.UnequipItem(ctx, c.userID, i)
	if err != nil {
		return err
	}
	c.printf("%s went back to your inventory.\n", held)
	return nil
}

func runUse(ctx context.Context, c *Console, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}
	var target *int
	if len(args) == 2 {
		i, err := index(args[1])
		if err != nil {
			return err
		}
		target = &i
	}
	res, err := c.game.UseItem(ctx, c.userID, args[0], target)
	if err != nil {
		return err
	}
	c.printf("%s", c.colors.renderUse(args[0], res))
	return nil
}

func runTrade(ctx context.Context, c *Console, args []string) error {
	if len(args) != 3 {
		return errUsage
	}
	qty, err := strconv.Atoi(args[2])
	if err != nil {
		return errUsage
	}
	err = c.game.TradeItem(ctx, gameserver.Trade{FromUserID: c.userID, ToUserID: args[0], ItemID: args[1], Quantity: qty})
	if err != nil {
		return err
	}
	c.printf("Sent %d %s to %s.\n", qty, args[1], args[0])
	return nil
}

func runPortrait(ctx context.Context, c *Console, args []string) error {
	url, err := c.game.SetPortrait(ctx, c.userID, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if url == nil {
		c.printf("Portrait cleared.\n")
		return nil
	}
	c.printf("Portrait set to %s.\n", *url)
	return nil
}

func runBattle(ctx context.Context, c *Console, args []string) error {
	if len(args) != 3 {
		return errUsage
	}
	s, err := c.game.Battle(ctx, gameserver.Challenge{
		ChallengerID:   c.userID,
		ChallengerOozu: args[0],
		OpponentID:     args[1],
		OpponentOozu:   args[2],
	})
	if err != nil {
		return err
	}
	c.printf("%s", c.colors.renderBattle(s))
	return nil
}

func runHunt(ctx context.Context, c *Console, _ []string) error {
	resp, err := c.game.StartHuntingQuest(ctx, c.userID)
	if err != nil {
		return err
	}
	c.showQuest(resp)
	return nil
}

func runQuest(ctx context.Context, c *Console, _ []string) error {
	resp, ok, err := c.game.CurrentHuntingQuest(ctx, c.userID)
	if err != nil {
		return err
	}
	if !ok {
		c.last = nil
		c.printf("You are not on a hunt. Type 'hunt' to start one.\n")
		return nil
	}
	c.showQuest(resp)
	return nil
}

func runGo(ctx context.Context, c *Console, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if c.last == nil {
		return gameserver.ErrQuestNotActive
	}
	resp, err := c.game.ChooseHuntingQuestOption(ctx, c.userID, c.last.Quest.ID, optionID(c.last.PathOptions, args[0]))
	if errors.Is(err, gameserver.ErrPathUnavailable) {
		return c.recoverQuest(ctx, "That path slipped away. Choose a new route.")
	}
	if err != nil {
		return c.questErr(err)
	}
	c.showQuest(resp)
	return nil
}

func runAct(ctx context.Context, c *Console, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if c.last == nil {
		return gameserver.ErrQuestNotActive
	}
	resp, err := c.game.ResolveHuntingEventAction(ctx, c.userID, c.last.Quest.ID, optionID(c.last.EventOptions, args[0]))
	if errors.Is(err, gameserver.ErrChoiceUnavailable) {
		return c.recoverQuest(ctx, "That choice slipped away. A new encounter unfolds.")
	}
	if err != nil {
		return c.questErr(err)
	}
	c.showQuest(resp)
	return nil
}

func runFinale(ctx context.Context, c *Console, _ []string) error {
	if c.last == nil {
		return gameserver.ErrQuestNotActive
	}
	resp, err := c.game.CompleteHuntingQuestFinale(ctx, c.userID, c.last.Quest.ID)
	if err != nil {
		return c.questErr(err)
	}
	c.showQuest(resp)
	return nil
}

func runAbandon(ctx context.Context, c *Console, _ []string) error {
	if err := c.game.AbandonHuntingQuest(ctx, c.userID); err != nil {
		return err
	}
	c.last = nil
	c.printf("You head back to town.\n")
	return nil
}

func runReset(ctx context.Context, c *Console, _ []string) error {
	existed, err := c.game.ResetPlayer(ctx, c.userID)
	if err != nil {
		return err
	}
	c.last = nil
	if !existed {
		c.printf("There was no profile to reset.\n")
		return nil
	}
	c.printf("Your profile has been deleted.\n")
	return nil
}
