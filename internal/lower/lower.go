// Package lower implements the Reactive IR Lowering pass (spec §4.6):
// translating a checked tree (internal/check) into the target-agnostic IR
// (internal/ir), inserting the wrap/unwrap operations the reactive
// contract requires at every call boundary.
//
// Grounded on two teacher passes: internal/elaborate/dictionaries.go's
// DictElaborator (a small stateful struct recursing over Core, rewriting
// certain call-shaped nodes based on a side table resolved during
// checking — here, phase rather than type-class resolution drives the
// rewrite) and internal/pipeline/op_lowering.go's OpLowerer (a
// post-check, type-directed rewrite pass with its own recursive
// lowerExpr, matching the Design Notes' "re-verify against the checked
// phase" discipline: every wrap/unwrap decision below reads the already
// checked Type()/PhaseOf() of a node, never the parse form).
package lower

import (
	"fmt"
	"sort"

	"github.com/fluxlang/fluxc/internal/check"
	"github.com/fluxlang/fluxc/internal/ir"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// Lowerer carries the state threaded through one package's worth of
// lowering: the owning package (to tell a same-package-different-file
// static reference from a genuine cross-package import) and a fresh-name
// counter for the temporaries def-argument lifting introduces.
type Lowerer struct {
	pkg     symbol.Package
	fresh   int
	imports map[string]ir.Import
}

// New builds a Lowerer for one package's files.
func New(pkg symbol.Package) *Lowerer {
	return &Lowerer{pkg: pkg, imports: make(map[string]ir.Import)}
}

func (l *Lowerer) freshName(prefix string) string {
	l.fresh++
	return fmt.Sprintf("_%s%d", prefix, l.fresh)
}

// Imports returns the static-reference imports collected so far across
// every LowerFunction/LowerConst call on this Lowerer, ordered by symbol
// key so the result is deterministic.
func (l *Lowerer) Imports() []ir.Import {
	keys := make([]string, 0, len(l.imports))
	for k := range l.imports {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]ir.Import, 0, len(l.imports))
	for _, k := range keys {
		out = append(out, l.imports[k])
	}
	return out
}

// recordImport conservatively records every static reference the lowerer
// sees, same-package or cross-package: "which file declared it" is not
// tracked on symbol.Symbol, so a same-package reference to a sibling file
// cannot be told apart from one within the same file here. A later
// file-assembly step dedupes against declarations already present in the
// target file itself.
func (l *Lowerer) recordImport(sym symbol.Symbol) {
	l.imports[sym.Key()] = ir.Import{Sym: sym, Alias: sym.Name()}
}

// LowerExternal re-exports an extern declaration as a pass-through import
// under its declared name (spec §4.6).
func (l *Lowerer) LowerExternal(sym symbol.Symbol, declaredName string) ir.Import {
	imp := ir.Import{Sym: sym, Alias: declaredName}
	l.imports[sym.Key()] = imp
	return imp
}

// LowerFunction lowers one checked function declaration. paramNames pairs
// with sig.Params positionally (spec §4.6's Function carries both).
// External declarations (body == nil) lower to a Function with a nil Body.
func (l *Lowerer) LowerFunction(sym symbol.Symbol, sig types.Function, paramNames []string, body check.Expr) (*ir.Function, error) {
	fn := &ir.Function{Sym: sym, Sig: sig, Params: paramNames}
	if body == nil {
		return fn, nil
	}

	// A function whose body was a plain expression gets return-lifted to
	// a bare check.Return with no enclosing Block (spec §4.5's liftBody);
	// that has no Block home for the Return statement lowerBlock would
	// otherwise build, so it is given one here.
	if ret, ok := body.(check.Return); ok {
		v, err := l.lowerExpr(sig.FuncPhase, ret.Value)
		if err != nil {
			return nil, err
		}
		fn.Body = ir.Block{
			ExprBase: ir.ExprBase{Type: ret.Type()},
			Stmts:    []ir.Stmt{ir.Return{Value: v}},
		}
		return fn, nil
	}

	lowered, err := l.lowerExpr(sig.FuncPhase, body)
	if err != nil {
		return nil, err
	}
	fn.Body = lowered
	return fn, nil
}

// LowerConst lowers a module-level const binding. Consts are always
// Const-phase (spec §3.4 leaves, §4.6: "never reactively wrapped") so no
// wrap/unwrap logic ever applies to one.
func (l *Lowerer) LowerConst(sym symbol.Symbol, t types.Type, value check.Expr) (*ir.Const, error) {
	lowered, err := l.lowerExpr(types.Fun, value)
	if err != nil {
		return nil, err
	}
	return &ir.Const{Sym: sym, Type: t, Value: lowered}, nil
}

// LowerData lowers a struct/tuple/atom layout declaration. A layout shape
// needs no reactive lowering of its own (only construction sites do, which
// lowerExpr already handles), so this carries the already-checked
// types.DataLayout forward unchanged (spec §4.6).
func (l *Lowerer) LowerData(sym symbol.Symbol, layout types.DataLayout) *ir.Data {
	return &ir.Data{Sym: sym, Layout: layout}
}

// LowerEnum lowers an enum declaration to one ir.Data per variant, in
// declaration order, mirroring types.Enum the same way LowerData mirrors a
// plain data layout.
func (l *Lowerer) LowerEnum(sym symbol.Symbol, enum types.Enum) *ir.Enum {
	names := enum.VariantNames()
	variants := make([]ir.Data, len(names))
	for i, name := range names {
		layout, _ := enum.Variant(name)
		variants[i] = ir.Data{Sym: sym.Child(name), Layout: layout}
	}
	return &ir.Enum{Sym: sym, Variants: variants}
}

// lowerExpr recursively lowers a checked expression under callerPhase, the
// FuncPhase of the nearest enclosing named function declaration (spec
// §4.6: "driven by the caller's function phase"). An ordinary lambda
// literal inherits callerPhase unchanged (checkLambda itself checks a
// lambda body at its enclosing function's phase, per spec §4.4.8); only a
// locally declared FunctionStmt introduces a new one, read off its own
// Lambda.Type().
func (l *Lowerer) lowerExpr(callerPhase types.FuncPhase, e check.Expr) (ir.Expr, error) {
	switch n := e.(type) {
	case check.IntLit:
		return ir.IntLit{ExprBase: ir.ExprBase{Type: n.Type()}, Value: n.Value}, nil
	case check.FloatLit:
		return ir.FloatLit{ExprBase: ir.ExprBase{Type: n.Type()}, Value: n.Value}, nil
	case check.BoolLit:
		return ir.BoolLit{ExprBase: ir.ExprBase{Type: n.Type()}, Value: n.Value}, nil
	case check.StringLit:
		return ir.StringLit{ExprBase: ir.ExprBase{Type: n.Type()}, Value: n.Value}, nil
	case check.NoOpLit:
		return ir.NoOpLit{ExprBase: ir.ExprBase{Type: n.Type()}}, nil

	case check.Ident:
		return ir.Ident{ExprBase: ir.ExprBase{Type: n.Type()}, Name: n.Name}, nil

	case check.StaticReference:
		l.recordImport(n.Declaring)
		return ir.Global{ExprBase: ir.ExprBase{Type: n.Type()}, Sym: n.Sym}, nil

	case check.ListLit:
		return l.lowerListLike(callerPhase, n.Type(), n.Elements, func(es []ir.Expr) ir.Expr {
			return ir.ListLit{ExprBase: ir.ExprBase{Type: n.Type()}, Elements: es}
		})

	case check.SetLit:
		return l.lowerListLike(callerPhase, n.Type(), n.Elements, func(es []ir.Expr) ir.Expr {
			return ir.SetLit{ExprBase: ir.ExprBase{Type: n.Type()}, Elements: es}
		})

	case check.MapLit:
		keys := make([]ir.Expr, len(n.Entries))
		for i, me := range n.Entries {
			k, err := l.lowerExpr(callerPhase, me.Key)
			if err != nil {
				return nil, err
			}
			keys[i] = k
		}
		values := make([]check.Expr, len(n.Entries))
		for i, me := range n.Entries {
			values[i] = me.Value
		}
		return l.lowerListLike(callerPhase, n.Type(), values, func(vs []ir.Expr) ir.Expr {
			entries := make([]ir.MapEntry, len(vs))
			for i, v := range vs {
				entries[i] = ir.MapEntry{Key: keys[i], Value: v}
			}
			return ir.MapLit{ExprBase: ir.ExprBase{Type: n.Type()}, Entries: entries}
		})

	case check.IsExpr:
		v, err := l.lowerExpr(callerPhase, n.Value)
		if err != nil {
			return nil, err
		}
		return ir.Call{ExprBase: ir.ExprBase{Type: n.Type()}, Callee: ir.Ident{Name: "is"}, Args: []ir.Expr{v}}, nil

	case check.NotExpr:
		v, err := l.lowerExpr(callerPhase, n.Value)
		if err != nil {
			return nil, err
		}
		return ir.Call{ExprBase: ir.ExprBase{Type: n.Type()}, Callee: ir.Ident{Name: "!"}, Args: []ir.Expr{v}}, nil

	case check.AndExpr:
		return l.lowerBinaryShortCircuit(callerPhase, n.Type(), "&&", n.Left, n.Right)

	case check.OrExpr:
		return l.lowerBinaryShortCircuit(callerPhase, n.Type(), "||", n.Left, n.Right)

	case check.FieldAccess:
		base, err := l.lowerExpr(callerPhase, n.Base)
		if err != nil {
			return nil, err
		}
		return ir.Access{ExprBase: ir.ExprBase{Type: n.Type()}, Base: base, Name: n.Name}, nil

	case check.Construct:
		fields := make([]ir.ConstructField, len(n.Fields))
		for i, f := range n.Fields {
			v, err := l.lowerExpr(callerPhase, f.Value)
			if err != nil {
				return nil, err
			}
			fields[i] = ir.ConstructField{Name: f.Name, Value: v}
		}
		return ir.Construct{ExprBase: ir.ExprBase{Type: n.Type()}, Fields: fields}, nil

	case check.Call:
		return l.lowerCall(callerPhase, n)

	case check.Lambda:
		body, err := l.lowerExpr(callerPhase, n.Body)
		if err != nil {
			return nil, err
		}
		params := make([]string, len(n.Params))
		for i, p := range n.Params {
			params[i] = p.Name
		}
		return ir.Lambda{ExprBase: ir.ExprBase{Type: n.Type()}, Params: params, Body: body}, nil

	case check.Block:
		return l.lowerBlock(callerPhase, n)

	case check.If:
		cond, err := l.lowerExpr(callerPhase, n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := l.lowerExpr(callerPhase, n.Then)
		if err != nil {
			return nil, err
		}
		var els ir.Expr
		if n.Else != nil {
			els, err = l.lowerExpr(callerPhase, n.Else)
			if err != nil {
				return nil, err
			}
		}
		return ir.If{ExprBase: ir.ExprBase{Type: n.Type()}, Cond: cond, Then: then, Else: els}, nil

	default:
		return nil, fmt.Errorf("lower: unhandled expression kind %T", e)
	}
}

// lowerBinaryShortCircuit lowers && and || as ordinary Calls; their phase
// was already computed by the checker and carries no wrap/unwrap
// requirement of its own (neither operand is ever a call-boundary
// parameter with a declared phase).
func (l *Lowerer) lowerBinaryShortCircuit(callerPhase types.FuncPhase, t types.Type, op string, left, right check.Expr) (ir.Expr, error) {
	lv, err := l.lowerExpr(callerPhase, left)
	if err != nil {
		return nil, err
	}
	rv, err := l.lowerExpr(callerPhase, right)
	if err != nil {
		return nil, err
	}
	return ir.Call{ExprBase: ir.ExprBase{Type: t}, Callee: ir.Ident{Name: op}, Args: []ir.Expr{lv, rv}}, nil
}

// lowerListLike applies the argument wrap/unwrap/lift rule uniformly to
// each element of a list/set/map-value literal (spec §4.6: "collection
// literals follow the same rules uniformly"), treating each element as an
// argument to an unspecified-phase (val) slot. If any element needed
// lifting (callerPhase == Def, actual phase var/flow), the whole literal
// is wrapped in a flow(...) combinator over the lifted sources, the same
// construction a lifted call argument gets.
func (l *Lowerer) lowerListLike(callerPhase types.FuncPhase, t types.Type, elems []check.Expr, build func([]ir.Expr) ir.Expr) (ir.Expr, error) {
	finals, lifted, err := l.planArguments(callerPhase, nil, elems)
	if err != nil {
		return nil, err
	}
	inner := build(finals)
	if len(lifted) == 0 {
		return inner, nil
	}
	return l.wrapLifted(t, lifted, inner, false), nil
}

// lowerBlock translates a checked block into its IR shape (spec §4.6). A
// block whose Result is a Return (return-lifting already wrapped the
// trailing expression, spec §4.5) has no readable result of its own in
// IR: the Return is emitted as the block's final statement instead, since
// control exits the function there.
func (l *Lowerer) lowerBlock(callerPhase types.FuncPhase, n check.Block) (ir.Expr, error) {
	stmts := make([]ir.Stmt, 0, len(n.Stmts))
	for _, s := range n.Stmts {
		ls, err := l.lowerStmt(callerPhase, s)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, ls)
	}
	var result ir.Expr
	if n.Result != nil {
		if _, ok := n.Result.(check.Return); !ok {
			r, err := l.lowerExpr(callerPhase, n.Result)
			if err != nil {
				return nil, err
			}
			result = r
		}
	}
	return ir.Block{ExprBase: ir.ExprBase{Type: n.Type()}, Stmts: stmts, Result: result}, nil
}

// lowerStmt translates one checked statement. check.Return is an Expr, not
// a Stmt (spec §3.4/§4.4.9); it only ever appears wrapped in an ExprStmt
// (after return-lifting) or as a block's Result, both handled here and in
// lowerBlock by recognizing the Return shape rather than by a case in
// lowerExpr's switch.
func (l *Lowerer) lowerStmt(callerPhase types.FuncPhase, s check.Stmt) (ir.Stmt, error) {
	switch n := s.(type) {
	case check.ExprStmt:
		if ret, ok := n.Expr.(check.Return); ok {
			v, err := l.lowerExpr(callerPhase, ret.Value)
			if err != nil {
				return nil, err
			}
			return ir.Return{Value: v}, nil
		}
		v, err := l.lowerExpr(callerPhase, n.Expr)
		if err != nil {
			return nil, err
		}
		return ir.ExprStmt{Expr: v}, nil

	case check.Assignment:
		v, err := l.lowerExpr(callerPhase, n.Value)
		if err != nil {
			return nil, err
		}
		if n.Phase == types.Var || n.Phase == types.Flow {
			v = ir.Variable{ExprBase: ir.ExprBase{Type: n.Type}, Init: v}
		}
		return ir.Let{Name: n.Name, Value: v}, nil

	case check.Reassignment:
		target, err := l.projectionizeChain(callerPhase, n.Target)
		if err != nil {
			return nil, err
		}
		value, err := l.lowerExpr(callerPhase, n.Value)
		if err != nil {
			return nil, err
		}
		return ir.Reassign{Target: target, Value: value}, nil

	case check.FunctionStmt:
		fnType, _ := n.Lambda.Type().(types.Function)
		body, err := l.lowerExpr(fnType.FuncPhase, n.Lambda.Body)
		if err != nil {
			return nil, err
		}
		params := make([]string, len(n.Lambda.Params))
		for i, p := range n.Lambda.Params {
			params[i] = p.Name
		}
		lambda := ir.Lambda{ExprBase: ir.ExprBase{Type: n.Lambda.Type()}, Params: params, Body: body}
		return ir.Let{Name: n.Name, Value: lambda}, nil

	default:
		return nil, fmt.Errorf("lower: unhandled statement kind %T", s)
	}
}
