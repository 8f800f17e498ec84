package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/lowlevel/hooking"
)

// NamedHookable represent something both have a name and can be hooked.
type NamedHookable interface {
	hooking.Hookable
	Name() string
}

// CollectTrace lets the tracer collect the events raised by domain.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	for _, hook := range domain.Hooks() {
		h, ok := hook.(*traceHook)
		if ok && h.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	domain.AcceptHook(&traceHook{t: tracer})
}

// A traceHook is a hook that forwards allocator activity to a tracer.
type traceHook struct {
	t Tracer
}

// Func calls the tracer when the hook is triggered.
func (h *traceHook) Func(ctx hooking.HookCtx) {
	e, ok := eventFromHook(ctx)
	if !ok {
		return
	}

	h.t.Trace(e)
}
