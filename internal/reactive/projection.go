package reactive

// Projection is a writable view of a root signal via a getter/setter pair
// (spec §5, GLOSSARY: "propagates writes back to the root") — the runtime
// shape of ir.Projection, which internal/lower builds for a field-access
// chain passed to a `var` parameter or used as a reassignment target.
//
// A Projection subscribes to its root on its own first listener and
// unsubscribes on its last (spec §5), since until something depends on
// the projection there is no reason to keep its upstream subscription
// alive.
type Projection struct {
	listenerSet
	root   Writable
	getter func(rootValue any) any
	setter func(rootValue, newValue any) any
}

// NewProjection builds a writable view of root. getter reads the
// projected value out of a root value; setter returns the root value that
// results from writing newValue through the projection.
func NewProjection(root Writable, getter func(any) any, setter func(any, any) any) *Projection {
	return &Projection{root: root, getter: getter, setter: setter}
}

func (p *Projection) Get() any { return p.getter(p.root.Get()) }

func (p *Projection) Set(value any) {
	p.root.Set(p.setter(p.root.Get(), value))
}

func (p *Projection) markDirty() { p.notifyDirty() }

func (p *Projection) addListener(l listener) {
	if p.empty() {
		p.root.addListener(p)
	}
	p.add(l)
}

func (p *Projection) removeListener(l listener) {
	p.remove(l)
	if p.empty() {
		p.root.removeListener(p)
	}
}
