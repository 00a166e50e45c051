package commandstructure

import (
	"fmt"
	"log/slog"
	"time"
)

// CommandInvoker executes a sequence of commands, stopping at the first failure
type CommandInvoker[T any] struct {
	commands []Command[T]
}

// NewCommandInvoker creates a new command invoker
func NewCommandInvoker[T any](commands []Command[T]) *CommandInvoker[T] {
	return &CommandInvoker[T]{
		commands: commands,
	}
}

// Execute applies all commands in sequence to the state
func (i *CommandInvoker[T]) Execute(state T) (T, error) {
	start := time.Now()

	slog.Info("starting sky map pipeline", "command_count", len(i.commands))

	if len(i.commands) == 0 {
		slog.Debug("no commands to execute, returning initial state")
		return state, nil
	}

	current := state

	for idx, command := range i.commands {
		commandStart := time.Now()

		slog.Info("executing command",
			"index", idx,
			"command_name", command.Name())

		next, err := command.Execute(current)
		if err != nil {
			slog.Error("command execution failed",
				"index", idx,
				"command_name", command.Name(),
				"error", err)
			var zero T
			return zero, fmt.Errorf("command %s (index %d) failed: %w", command.Name(), idx, err)
		}

		slog.Info("command completed",
			"index", idx,
			"command_name", command.Name(),
			"duration_ms", time.Since(commandStart).Milliseconds())

		current = next
	}

	slog.Info("sky map pipeline completed",
		"total_duration_ms", time.Since(start).Milliseconds(),
		"command_count", len(i.commands))

	return current, nil
}
