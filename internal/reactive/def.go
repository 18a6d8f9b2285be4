package reactive

// Def is a Flow whose compute itself produces another signal (spec §5,
// GLOSSARY): the runtime shape of ir.Def, chosen by internal/lower's
// def-argument lifting whenever the callee being lifted is itself
// declared `def`.
//
// Like Projection, a Def only holds live subscriptions while it has
// listeners of its own (spec §5: "when a Def is unsubscribed by its last
// listener, it releases its source subscriptions and cancels owned
// effects"): sources are subscribed to on the Def's own first listener
// and released on its last, at which point any signal produced by a
// prior compute is also unsubscribed from and every effect the Def owns
// is cancelled.
type Def struct {
	listenerSet
	sources  []Signal
	compute  func(args []any) Signal
	produced Signal
	stale    bool
	effects  []*Effect
	srcProxy defSourceListener
}

// defSourceListener adapts a Def to its sources' listener interface,
// kept distinct from Def's own markDirty (used for its subscription to
// produced) so a source invalidation and a produced invalidation are
// never confused: only the former re-runs compute and cancels effects.
type defSourceListener struct{ def *Def }

func (p defSourceListener) markDirty() { p.def.invalidateSources() }

// NewDef builds a Def over sources, whose compute yields the signal this
// Def's Get() delegates to.
func NewDef(sources []Signal, compute func([]any) Signal) *Def {
	d := &Def{sources: sources, compute: compute, stale: true}
	d.srcProxy = defSourceListener{def: d}
	return d
}

func (d *Def) invalidateSources() {
	if d.stale {
		return
	}
	d.stale = true
	d.cancelEffects()
	d.notifyDirty()
}

func (d *Def) Get() any {
	if d.stale {
		d.recompute()
	}
	return d.produced.Get()
}

func (d *Def) recompute() {
	if d.produced != nil {
		d.produced.removeListener(d)
	}
	args := make([]any, len(d.sources))
	for i, s := range d.sources {
		args[i] = s.Get()
	}
	d.produced = d.compute(args)
	d.produced.addListener(d)
	d.stale = false
}

// markDirty implements listener for this Def's own subscription to its
// produced signal: produced changed for reasons of its own, not because
// this Def's sources changed, so this Def's value changed too and its
// listeners must be told — but compute is not re-run and no owned effect
// is cancelled (spec §5 reserves cancellation for sources invalidating
// this Def, not for produced changing downstream of it).
func (d *Def) markDirty() {
	d.notifyDirty()
}

func (d *Def) addListener(l listener) {
	if d.empty() {
		for _, s := range d.sources {
			s.addListener(d.srcProxy)
		}
	}
	d.add(l)
}

func (d *Def) removeListener(l listener) {
	d.remove(l)
	if d.empty() {
		for _, s := range d.sources {
			s.removeListener(d.srcProxy)
		}
		if d.produced != nil {
			d.produced.removeListener(d)
			d.produced = nil
		}
		d.cancelEffects()
		d.stale = true
	}
}

// RegisterEffect attaches eff as owned by this Def (spec §5: "effects
// register a callback bound to the nearest enclosing Def").
func (d *Def) RegisterEffect(eff *Effect) {
	d.effects = append(d.effects, eff)
}

func (d *Def) cancelEffects() {
	for _, eff := range d.effects {
		eff.cancel()
	}
	d.effects = nil
}
