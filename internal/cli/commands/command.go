package commands

import (
	"Inventaris/internal/config"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "borrow".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "return <borrowing-id> <note...>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// aliased: команда с дополнительными короткими именами.
type aliased interface {
	Aliases() []string
}

var (
	registry = map[string]Command{}
	aliases  = map[string]string{}
)

// Out: общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command (and its aliases, if any) to the registry.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
	if a, ok := cmd.(aliased); ok {
		for _, alias := range a.Aliases() {
			aliases[alias] = cmd.Name()
		}
	}
}

// Get returns a command by name or alias.
func Get(name string) (Command, bool) {
	if c, ok := registry[name]; ok {
		return c, true
	}
	if target, ok := aliases[name]; ok {
		c, ok := registry[target]
		return c, ok
	}
	return nil, false
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage builds a help text for all commands.
func FormatGlobalUsage() string {
	lines := []string{
		"Inventaris CLI",
		"",
		"Usage:",
		"  invcli [--base-url <host:port>] [--token-file <path>] <command> [args]",
		"",
		"Commands:",
	}
	for _, c := range List() {
		desc := c.Description()
		if a, ok := c.(aliased); ok {
			desc += " (alias: " + strings.Join(a.Aliases(), ", ") + ")"
		}
		lines = append(lines, fmt.Sprintf("  %-36s %s", c.Usage(), desc))
	}
	return strings.Join(lines, "\n") + "\n"
}
