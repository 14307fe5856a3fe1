package console

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/infinite-sweeper/sweeperd/internal/pos"
	"github.com/infinite-sweeper/sweeperd/internal/world"
)

var printer = message.NewPrinter(language.English)

// execute parses and runs a single command line. Unknown commands and bad
// arguments are logged and otherwise ignored -- the console never exits on
// a typo.
func (c *Console) execute(line string) {
	fields := strings.Fields(strings.TrimPrefix(line, "/"))
	if len(fields) == 0 {
		return
	}
	name, args := fields[0], fields[1:]
	switch name {
	case "stop":
		c.cmdStop()
	case "who":
		c.cmdWho()
	case "tp":
		c.cmdTP(args)
	case "stats":
		c.cmdStats(args)
	default:
		c.log.Warn("console: unknown command", "command", name)
	}
}

func (c *Console) cmdStop() {
	c.log.Info("console: stopping")
	c.stop()
}

func (c *Console) cmdWho() {
	var names []string
	<-c.world.Exec(func(tx *world.Tx) {
		for _, p := range tx.Players() {
			names = append(names, p.Username)
		}
	})
	c.log.Info("console: connected players", "count", len(names), "players", strings.Join(names, ", "))
}

func (c *Console) cmdTP(args []string) {
	if len(args) != 3 {
		c.log.Warn("console: usage: /tp <player> <x> <y>")
		return
	}
	x, errX := strconv.Atoi(args[1])
	y, errY := strconv.Atoi(args[2])
	if errX != nil || errY != nil {
		c.log.Warn("console: /tp coordinates must be integers", "x", args[1], "y", args[2])
		return
	}

	var found bool
	<-c.world.Exec(func(tx *world.Tx) {
		p := findPlayerByName(tx, args[0])
		if p == nil {
			return
		}
		found = true
		p.Position = pos.Position{X: int32(x), Y: int32(y)}
	})
	if !found {
		c.log.Warn("console: no such player", "player", args[0])
		return
	}
	c.log.Info("console: teleported player", "player", args[0], "x", x, "y", y)
}

func (c *Console) cmdStats(args []string) {
	if len(args) != 1 {
		c.log.Warn("console: usage: /stats <player>")
		return
	}

	var p *world.Player
	<-c.world.Exec(func(tx *world.Tx) {
		p = findPlayerByName(tx, args[0])
	})
	if p == nil {
		c.log.Warn("console: no such player", "player", args[0])
		return
	}

	var revealed uint32
	for _, n := range p.StatsRevealed {
		revealed += n
	}

	c.log.Info("console: player stats",
		"player", p.Username,
		"flags_correct", printer.Sprintf("%d", p.FlagsCorrect),
		"flags_incorrect", printer.Sprintf("%d", p.FlagsIncorrect),
		"revealed", printer.Sprintf("%d", revealed),
		"deaths", printer.Sprintf("%d", len(p.Deaths)),
	)
}

func findPlayerByName(tx *world.Tx, username string) *world.Player {
	for _, p := range tx.Players() {
		if p.Username == username {
			return p
		}
	}
	return nil
}
