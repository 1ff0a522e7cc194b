// Package logging holds the silent slog handler shared by texel and its
// sub-packages.
package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that silently discards all log records.
// The Enabled method returns false so the caller skips message formatting
// entirely, making disabled logging effectively zero-cost.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// Nop returns a logger that silently discards all output.
func Nop() *slog.Logger { return slog.New(nopHandler{}) }

// Holder stores a logger that can be swapped while other goroutines log.
// The zero value logs nothing.
type Holder struct {
	p atomic.Pointer[slog.Logger]
}

// Set stores l. A nil l restores silent logging.
func (h *Holder) Set(l *slog.Logger) {
	if l == nil {
		l = Nop()
	}
	h.p.Store(l)
}

// Get returns the stored logger, never nil.
func (h *Holder) Get() *slog.Logger {
	if l := h.p.Load(); l != nil {
		return l
	}
	l := Nop()
	h.p.CompareAndSwap(nil, l)
	return h.p.Load()
}
