package reactive

// Singleton is a signal permanently holding a constant value (spec §5,
// GLOSSARY: "used to lift eager values into the signal world"). It never
// invalidates, so its listener set is never touched and addListener/
// removeListener are no-ops.
type Singleton struct {
	value any
}

// NewSingleton wraps value as a constant signal.
func NewSingleton(value any) *Singleton {
	return &Singleton{value: value}
}

func (s *Singleton) Get() any                  { return s.value }
func (s *Singleton) addListener(l listener)    {}
func (s *Singleton) removeListener(l listener) {}
