package tracing

import (
	"log"

	"github.com/sarchlab/lowlevel/hooking"
)

// AllocLogger is a hook that prints one line per allocation or free.
type AllocLogger struct {
	hooking.LogHookBase
}

// NewAllocLogger returns a new AllocLogger which will write into the logger.
func NewAllocLogger(logger *log.Logger) *AllocLogger {
	h := new(AllocLogger)
	h.Logger = logger

	return h
}

// Func writes the allocation information into the logger.
func (h *AllocLogger) Func(ctx hooking.HookCtx) {
	e, ok := eventFromHook(ctx)
	if !ok {
		return
	}

	h.Logger.Printf("%-5s #%d %s %s (%d bytes)",
		e.Op, e.ID, e.Owner, e.Kind, e.Bytes)
}
