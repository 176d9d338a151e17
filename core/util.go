package core

import (
	"context"
	"log/slog"
	"strings"
)

const (
	LevelTrace slog.Level = slog.LevelDebug - 4
)

// Trace logs a message at the trace level with the default logger.
func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

func ruleNames(kinds []RuleKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}

	return strings.Join(names, ",")
}
