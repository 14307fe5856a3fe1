// Package console implements the admin REPL: a small fixed command set
// executed against the authoritative World, grounded on dragonfly's own
// operator console but re-specified for this domain (no generic command
// framework is carried over, since dragonfly's `cmd` package is tied to
// its own entity/target model).
package console

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"

	prompt "github.com/c-bata/go-prompt"

	"github.com/infinite-sweeper/sweeperd/internal/world"
)

const (
	defaultPromptPrefix = "> "
	maxHistoryEntries   = 128
)

// Config bundles the parameters a Console is constructed with, following
// the Config.New() defaulting idiom used throughout this module.
type Config struct {
	World *world.World
	Log   *slog.Logger
	// Reader, if set, puts the console into non-interactive scanner mode
	// (one command per line, no prompt rendering) -- used by tests and by
	// piped/scripted invocations.
	Reader io.Reader
	// Stop is invoked when the operator runs /stop. If nil, /stop only
	// logs a message.
	Stop func()
}

// Console reads commands from stdin (or Reader, for scripted/test use) and
// executes them against a World.
type Console struct {
	world  *world.World
	log    *slog.Logger
	reader io.Reader
	stop   func()

	history []string
}

// New constructs a Console bound to conf.World.
func (conf Config) New() *Console {
	if conf.Log == nil {
		conf.Log = slog.Default()
	}
	if conf.Stop == nil {
		conf.Stop = func() {}
	}
	return &Console{
		world:  conf.World,
		log:    conf.Log,
		reader: conf.Reader,
		stop:   conf.Stop,
	}
}

// Run consumes commands until ctx is cancelled or the input reaches EOF.
func (c *Console) Run(ctx context.Context) {
	if c.reader != nil {
		c.runScanner(ctx)
		return
	}
	c.runInteractive(ctx)
}

func (c *Console) runScanner(ctx context.Context) {
	scanner := bufio.NewScanner(c.reader)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				c.log.Error("console: input error", "error", err)
			}
			return
		}
		c.execute(strings.TrimSpace(scanner.Text()))
	}
}

func (c *Console) runInteractive(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := prompt.Input(defaultPromptPrefix, c.complete,
			prompt.OptionTitle("sweeperd console"),
			prompt.OptionHistory(c.history),
			prompt.OptionPrefix(defaultPromptPrefix),
			prompt.OptionCompletionOnDown(),
			prompt.OptionMaxSuggestion(12),
		)

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		c.history = append(c.history, line)
		if len(c.history) > maxHistoryEntries {
			c.history = c.history[len(c.history)-maxHistoryEntries:]
		}
		c.execute(line)
	}
}

var commandNames = []string{"stop", "who", "tp", "stats"}

func (c *Console) complete(doc prompt.Document) []prompt.Suggest {
	text := strings.TrimPrefix(doc.TextBeforeCursor(), "/")
	fields := strings.Fields(text)
	hasTrailingSpace := strings.HasSuffix(text, " ")

	if len(fields) == 0 || (len(fields) == 1 && !hasTrailingSpace) {
		word := ""
		if len(fields) == 1 {
			word = fields[0]
		}
		return prompt.FilterHasPrefix(commandSuggestions(), word, true)
	}

	switch fields[0] {
	case "tp", "stats":
		word := doc.GetWordBeforeCursor()
		return prompt.FilterHasPrefix(c.playerSuggestions(), word, true)
	}
	return nil
}

func commandSuggestions() []prompt.Suggest {
	suggestions := make([]prompt.Suggest, len(commandNames))
	for i, name := range commandNames {
		suggestions[i] = prompt.Suggest{Text: name}
	}
	return suggestions
}

func (c *Console) playerSuggestions() []prompt.Suggest {
	var names []string
	<-c.world.Exec(func(tx *world.Tx) {
		for _, p := range tx.Players() {
			names = append(names, p.Username)
		}
	})
	sort.Strings(names)
	suggestions := make([]prompt.Suggest, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		suggestions = append(suggestions, prompt.Suggest{Text: n})
	}
	return suggestions
}
