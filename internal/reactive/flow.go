package reactive

// Flow is a cached derived computation over a list of source signals
// (spec §5, GLOSSARY): it recomputes lazily, on the first Get() after
// becoming dirty, and stays clean in between — the runtime shape of
// ir.Flow, produced both from an explicit `flow(...)` combinator call and
// from internal/lower's own def-argument lifting when the callee being
// lifted is not itself `def`.
//
// Flow subscribes to every source as soon as it is constructed (unlike
// Projection, which defers subscription to its own first listener):
// sources are fixed at construction, so there is no "becomes interesting"
// moment to defer to, and the Flow must see every invalidation from the
// moment it exists in order to know it needs to recompute on next Get.
type Flow struct {
	listenerSet
	sources []Signal
	compute func(args []any) any
	dirty   bool
	cached  any
}

// NewFlow builds a Flow over sources, computed by compute.
func NewFlow(sources []Signal, compute func([]any) any) *Flow {
	f := &Flow{sources: sources, compute: compute, dirty: true}
	for _, s := range sources {
		s.addListener(f)
	}
	return f
}

func (f *Flow) Get() any {
	if f.dirty {
		f.recompute()
	}
	return f.cached
}

func (f *Flow) recompute() {
	args := make([]any, len(f.sources))
	for i, s := range f.sources {
		args[i] = s.Get()
	}
	f.cached = f.compute(args)
	f.dirty = false
}

func (f *Flow) markDirty() {
	if f.dirty {
		return
	}
	f.dirty = true
	f.notifyDirty()
}

func (f *Flow) addListener(l listener)    { f.add(l) }
func (f *Flow) removeListener(l listener) { f.remove(l) }
