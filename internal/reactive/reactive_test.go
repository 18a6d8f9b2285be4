package reactive

import "testing"

func TestVariableGetReturnsCurrentValue(t *testing.T) {
	v := NewVariable(1)
	if got := v.Get(); got != 1 {
		t.Fatalf("Get() = %v, want 1", got)
	}
	v.Set(2)
	if got := v.Get(); got != 2 {
		t.Fatalf("Get() after Set = %v, want 2", got)
	}
}

func TestVariableSetSuppressesNoOpWrite(t *testing.T) {
	v := NewVariable(1)
	notified := 0
	fl := NewFlow([]Signal{v}, func(args []any) any {
		notified++
		return args[0]
	})
	fl.Get() // establish cache, clearing dirty

	v.Set(1) // same value
	if fl.Get(); notified != 1 {
		t.Fatalf("no-op Set must not invalidate listeners, recomputed %d times", notified)
	}

	v.Set(2)
	fl.Get()
	if notified != 2 {
		t.Fatalf("a genuine change must invalidate listeners, recomputed %d times", notified)
	}
}

func TestFlowRecomputesOnlyWhenDirty(t *testing.T) {
	v := NewVariable(10)
	calls := 0
	fl := NewFlow([]Signal{v}, func(args []any) any {
		calls++
		return args[0].(int) * 2
	})

	if got := fl.Get(); got != 20 {
		t.Fatalf("Get() = %v, want 20", got)
	}
	fl.Get()
	fl.Get()
	if calls != 1 {
		t.Fatalf("Flow recomputed %d times without invalidation, want 1", calls)
	}

	v.Set(11)
	if got := fl.Get(); got != 22 {
		t.Fatalf("Get() after invalidation = %v, want 22", got)
	}
	if calls != 2 {
		t.Fatalf("Flow recomputed %d times after one invalidation, want 2", calls)
	}
}

func TestFlowPropagatesInvalidationToItsOwnListeners(t *testing.T) {
	v := NewVariable(1)
	inner := NewFlow([]Signal{v}, func(args []any) any { return args[0].(int) + 1 })
	outerCalls := 0
	outer := NewFlow([]Signal{inner}, func(args []any) any {
		outerCalls++
		return args[0].(int) * 10
	})

	if got := outer.Get(); got != 20 {
		t.Fatalf("Get() = %v, want 20", got)
	}
	v.Set(5)
	if got := outer.Get(); got != 60 {
		t.Fatalf("Get() after upstream change = %v, want 60", got)
	}
	if outerCalls != 2 {
		t.Fatalf("outer Flow recomputed %d times, want 2", outerCalls)
	}
}

func TestProjectionReadsAndWritesThroughRoot(t *testing.T) {
	type pair struct{ a, b int }
	root := NewVariable(pair{a: 1, b: 2})
	proj := NewProjection(root,
		func(v any) any { return v.(pair).a },
		func(v, nv any) any { p := v.(pair); p.a = nv.(int); return p },
	)

	if got := proj.Get(); got != 1 {
		t.Fatalf("Get() = %v, want 1", got)
	}
	proj.Set(99)
	if got := root.Get().(pair).a; got != 99 {
		t.Fatalf("root.a after Set = %v, want 99", got)
	}
	if got := proj.Get(); got != 99 {
		t.Fatalf("Get() after Set = %v, want 99", got)
	}
}

func TestProjectionSubscribesToRootOnlyWhileItHasListeners(t *testing.T) {
	root := NewVariable(1)
	proj := NewProjection(root, func(v any) any { return v }, func(v, nv any) any { return nv })

	fl := NewFlow([]Signal{proj}, func(args []any) any { return args[0] })
	fl.Get()

	if root.empty() {
		t.Fatalf("root should have a listener (the projection) once the projection itself has one")
	}

	proj.removeListener(fl) // the projection's only listener goes away
	if !proj.empty() {
		t.Fatalf("projection's listener set should be empty after its sole listener is removed")
	}
	if !root.empty() {
		t.Fatalf("root should have no listeners once the projection that subscribed to it has none itself")
	}
}

func TestDefDelegatesToProducedSignal(t *testing.T) {
	v := NewVariable(3)
	def := NewDef([]Signal{v}, func(args []any) Signal {
		return NewSingleton(args[0].(int) * 100)
	})

	sink := NewFlow([]Signal{def}, func(args []any) any { return args[0] })
	if got := sink.Get(); got != 300 {
		t.Fatalf("Get() = %v, want 300", got)
	}
}

func TestDefRecomputesAndCancelsEffectsWhenSourcesInvalidate(t *testing.T) {
	v := NewVariable(1)
	def := NewDef([]Signal{v}, func(args []any) Signal {
		return NewSingleton(args[0])
	})
	sched := NewScheduler()

	ran := false
	eff := NewEffect(def, sched, func() { ran = true })
	_ = eff

	sink := NewFlow([]Signal{def}, func(args []any) any { return args[0] })
	sink.Get() // establish subscriptions

	v.Set(2) // invalidates def's source, must cancel the owned effect
	sched.Flush()
	if ran {
		t.Fatalf("effect must be cancelled before its owning Def recomputes")
	}

	if got := sink.Get(); got != 2 {
		t.Fatalf("Get() after source change = %v, want 2", got)
	}
}

func TestSchedulerDeferAndFlushRunsPendingEffectsOnce(t *testing.T) {
	sched := NewScheduler()
	def := NewDef(nil, func(args []any) Signal { return NewSingleton(nil) })

	count := 0
	NewEffect(def, sched, func() { count++ })
	NewEffect(def, sched, func() { count++ })

	if count != 0 {
		t.Fatalf("effects must not run before Flush, ran %d times", count)
	}
	sched.Flush()
	if count != 2 {
		t.Fatalf("Flush must run every pending effect exactly once, ran %d times", count)
	}
	sched.Flush()
	if count != 2 {
		t.Fatalf("a second Flush must not re-run already-flushed effects, ran %d times", count)
	}
}

func TestSingletonNeverInvalidates(t *testing.T) {
	s := NewSingleton(42)
	if got := s.Get(); got != 42 {
		t.Fatalf("Get() = %v, want 42", got)
	}
	fl := NewFlow([]Signal{s}, func(args []any) any { return args[0] })
	if got := fl.Get(); got != 42 {
		t.Fatalf("Get() = %v, want 42", got)
	}
}
