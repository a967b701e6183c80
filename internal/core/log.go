package core

import "log/slog"

// Log, Warn, and Err are free-function, best-effort logging calls
// matching spec.md §6's log/warn/err(fmt, args...) collaborator
// contract: they never fail and never panic. Call sites pass key/value
// pairs the same way slog.Info does.
func Log(msg string, args ...any) { slog.Info(msg, args...) }

func Warn(msg string, args ...any) { slog.Warn(msg, args...) }

func Err(msg string, args ...any) { slog.Error(msg, args...) }
