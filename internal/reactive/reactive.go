// Package reactive implements the single-threaded push-pull reactive
// scheduler spec §5 describes as the target runtime for internal/lower's
// output: Singleton, Variable, Projection, Flow, and Def signal kinds,
// dirty-bit pull recomputation, and deferred one-tick effect scheduling
// with Def-owned effect cancellation.
//
// Grounded on the teacher's internal/eval.Environment/Value: the same
// plain-struct, pointer-receiver shape, generalized to carry a listener
// list and a dirty bit instead of pure substitution, since a signal graph
// (unlike an evaluator's environment chain) is mutable and must propagate
// invalidation to its dependents.
package reactive

// Signal is any node in the reactive graph: Get returns its current value,
// recomputing first if dirty (spec §5: "recomputation is pull-based on the
// next get()").
type Signal interface {
	Get() any
	addListener(l listener)
	removeListener(l listener)
}

// Writable is a Signal that can also be set directly: Variable and
// Projection.
type Writable interface {
	Signal
	Set(value any)
}

// listener is anything that participates in invalidation propagation.
// Both user-facing signals (Flow, Def) and Projection (which must
// re-read its root) implement it.
type listener interface {
	markDirty()
}

// listenerSet is the listener-list bookkeeping every signal kind embeds.
// It keeps one entry per add (a listener added twice is notified twice),
// and remove drops one entry, so empty reports when the last listener is
// gone; Projection uses that to establish its upstream subscription
// exactly once, on the first listener, and tear it down exactly once, on
// the last (spec §5: "subscribes to root on first listener, unsubscribes
// on last").
type listenerSet struct {
	listeners []listener
}

func (s *listenerSet) add(l listener) {
	s.listeners = append(s.listeners, l)
}

func (s *listenerSet) remove(l listener) {
	for i, existing := range s.listeners {
		if existing == l {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

func (s *listenerSet) empty() bool { return len(s.listeners) == 0 }

func (s *listenerSet) notifyDirty() {
	for _, l := range s.listeners {
		l.markDirty()
	}
}
