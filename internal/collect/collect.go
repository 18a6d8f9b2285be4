// Package collect implements the Declaration Collector (spec §4.2):
// traversing every file of every package in dependency order, qualifying
// each declaration's type, and recording it in the global tables.
//
// Grounded on the teacher's internal/link.ModuleLinker and
// internal/iface.Builder two-pass (collect signatures, then freeze) shape.
package collect

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/decl"
	"github.com/fluxlang/fluxc/internal/errors"
	"github.com/fluxlang/fluxc/internal/qualifier"
	"github.com/fluxlang/fluxc/internal/symbol"
	"github.com/fluxlang/fluxc/internal/types"
)

// Collector accumulates declaration headers into a decl.Builder across
// every file handed to it, in the dependency order the caller supplies.
type Collector struct {
	builder *decl.Builder
}

// New creates a Collector with a fresh, empty Builder.
func New() *Collector {
	return &Collector{builder: decl.NewBuilder()}
}

// FileResult is everything the collector extracted from one file: the
// checked-header declarations later phases need (import checking uses the
// leaves; the checker uses the bodies).
type FileResult struct {
	Imports   []decl.Import
	Consts    []decl.Constant
	Functions []decl.Function
	Datas     []decl.Data
	Enums     []decl.Enum
	Impls     []decl.Impl
	Protocols []decl.Protocol
}

// CollectFile processes one file belonging to module, using locals (built
// by qualifier.BuildFileMap) to qualify every type expression it contains.
func (c *Collector) CollectFile(file *ast.File, module symbol.Symbol, locals qualifier.LocalMap, deps *symbol.DependencyManager) (*FileResult, error) {
	res := &FileResult{}

	for _, imp := range file.Imports {
		leaves, err := deps.BreakdownImport(imp.PackageAlias, imp.Tree)
		if err != nil {
			return nil, errors.Wrap(errors.New("collect", "COL003", pos(imp.Position()),
				"cannot resolve import: %v", err))
		}
		res.Imports = append(res.Imports, decl.Import{Pos: imp.Position(), Leaves: leaves})
	}

	for _, cn := range file.Consts {
		cd, err := c.collectConst(cn, module, locals)
		if err != nil {
			return nil, err
		}
		res.Consts = append(res.Consts, cd)
	}

	for _, fn := range file.Funcs {
		fd, err := c.collectFunction(fn, module, locals, nil)
		if err != nil {
			return nil, err
		}
		res.Functions = append(res.Functions, fd)
	}

	for _, dt := range file.Datas {
		dd, err := c.collectData(dt, module, locals, "")
		if err != nil {
			return nil, err
		}
		res.Datas = append(res.Datas, dd)
	}

	for _, en := range file.Enums {
		ed, err := c.collectEnum(en, module, locals)
		if err != nil {
			return nil, err
		}
		res.Enums = append(res.Enums, ed)
	}

	for _, pr := range file.Protocols {
		pd, err := c.collectProtocol(pr, module, locals)
		if err != nil {
			return nil, err
		}
		res.Protocols = append(res.Protocols, pd)
	}

	for _, im := range file.Impls {
		id, err := c.collectImpl(im, module, locals)
		if err != nil {
			return nil, err
		}
		res.Impls = append(res.Impls, id)
	}

	return res, nil
}

// Freeze finalizes the global tables. Call once, after every file in
// dependency order has been collected.
func (c *Collector) Freeze() *decl.Tables {
	return c.builder.Freeze()
}

func (c *Collector) collectConst(cn *ast.ConstDecl, module symbol.Symbol, locals qualifier.LocalMap) (decl.Constant, error) {
	sym := module.Child(cn.Name)
	ty, err := qualifier.QualifyType(cn.Type, locals, nil)
	if err != nil {
		return decl.Constant{}, err
	}
	cd := decl.Constant{Access: cn.Access, Sym: sym, Type: ty, Expr: cn.Value, External: cn.External, Pos: cn.Position()}
	if !c.builder.AddSymbol(sym, decl.SymbolEntry{Access: cn.Access, Declaring: module, Type: ty}) {
		return decl.Constant{}, duplicateSymbol(sym, cn.Position())
	}
	return cd, nil
}

func (c *Collector) collectFunction(fn *ast.FunctionDecl, module symbol.Symbol, locals qualifier.LocalMap, selfSym *symbol.Symbol) (decl.Function, error) {
	sym := module.Child(fn.Name)
	generics := qualifier.NewGenericsScope(sym, fn.TypeParams)

	paramTypes := make([]types.FuncParam, len(fn.Params))
	paramNames := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		pt, err := qualifier.QualifyType(p.Type, locals, generics)
		if err != nil {
			return decl.Function{}, err
		}
		phase, has := annotationPhase(p.Phase)
		paramTypes[i] = types.FuncParam{Type: pt, Phase: phase, HasPhase: has}
		paramNames[i] = p.Name
	}
	result, err := qualifier.QualifyType(fn.Result, locals, generics)
	if err != nil {
		return decl.Function{}, err
	}

	var typeParamSyms []symbol.Symbol
	for _, tp := range fn.TypeParams {
		typeParamSyms = append(typeParamSyms, generics[tp])
	}

	fd := decl.Function{
		Access:       fn.Access,
		Sym:          sym,
		FuncPhase:    funcPhaseOf(fn.Phase),
		TypeParams:   typeParamSyms,
		ParamNames:   paramNames,
		ParamTypes:   paramTypes,
		Result:       result,
		Body:         fn.Body,
		External:     fn.External,
		ExternalName: fn.ExternalName,
		Pos:          fn.Position(),
	}

	if !c.builder.AddSymbol(sym, decl.SymbolEntry{Access: fn.Access, Declaring: module, Type: fd.Signature()}) {
		return decl.Function{}, duplicateSymbol(sym, fn.Position())
	}
	if fd.External {
		c.builder.AddExternal(sym, decl.ExternalBinding{SourceFile: fn.ExternalName})
	}
	return fd, nil
}

func (c *Collector) collectData(dt *ast.DataDecl, module symbol.Symbol, locals qualifier.LocalMap, enumTag string) (decl.Data, error) {
	sym := module.Child(dt.Name)
	generics := qualifier.NewGenericsScope(sym, dt.TypeParams)
	var typeParamSyms []symbol.Symbol
	for _, tp := range dt.TypeParams {
		typeParamSyms = append(typeParamSyms, generics[tp])
	}

	var enumSym symbol.Symbol
	hasEnum := enumTag != ""
	if hasEnum {
		enumSym = module.Child(enumTag)
	}

	layout, err := qualifyLayout(dt.Layout, sym, typeParamSyms, generics, locals, enumSym, hasEnum)
	if err != nil {
		return decl.Data{}, err
	}

	dd := decl.Data{Access: dt.Access, Sym: sym, Layout: layout, Pos: dt.Position()}
	if !c.builder.AddSymbol(sym, decl.SymbolEntry{Access: dt.Access, Declaring: module, Type: layout}) {
		return decl.Data{}, duplicateSymbol(sym, dt.Position())
	}
	return dd, nil
}

func (c *Collector) collectEnum(en *ast.EnumDecl, module symbol.Symbol, locals qualifier.LocalMap) (decl.Enum, error) {
	sym := module.Child(en.Name)
	generics := qualifier.NewGenericsScope(sym, en.TypeParams)
	var typeParamSyms []symbol.Symbol
	for _, tp := range en.TypeParams {
		typeParamSyms = append(typeParamSyms, generics[tp])
	}

	names := make([]string, len(en.Variants))
	layouts := make([]types.DataLayout, len(en.Variants))
	for i, v := range en.Variants {
		variantSym := sym.Child(v.Name)
		layout, err := qualifyLayout(v.Layout, variantSym, typeParamSyms, generics, locals, sym, true)
		if err != nil {
			return decl.Enum{}, err
		}
		names[i] = v.Name
		layouts[i] = layout
		// Register each variant layout separately so E::Variant is
		// addressable (spec §4.2).
		if !c.builder.AddSymbol(variantSym, decl.SymbolEntry{Access: en.Access, Declaring: module, Type: layout}) {
			return decl.Enum{}, duplicateSymbol(variantSym, en.Position())
		}
	}

	enumType := types.NewEnum(sym, typeParamSyms, names, layouts)
	ed := decl.Enum{Access: en.Access, Sym: sym, Layout: enumType, Pos: en.Position()}
	if !c.builder.AddSymbol(sym, decl.SymbolEntry{Access: en.Access, Declaring: module, Type: enumType}) {
		return decl.Enum{}, duplicateSymbol(sym, en.Position())
	}
	return ed, nil
}

func (c *Collector) collectProtocol(pr *ast.ProtocolDecl, module symbol.Symbol, locals qualifier.LocalMap) (decl.Protocol, error) {
	sym := module.Child(pr.Name)
	generics := qualifier.NewGenericsScope(sym, pr.TypeParams)
	var typeParamSyms []symbol.Symbol
	for _, tp := range pr.TypeParams {
		typeParamSyms = append(typeParamSyms, generics[tp])
	}

	methods := make(map[string]types.Function, len(pr.Methods))
	for _, m := range pr.Methods {
		methodSym := sym.Child(m.Name)
		methodGenerics := qualifier.NewGenericsScope(methodSym, m.TypeParams)
		for k, v := range generics {
			if _, ok := methodGenerics[k]; !ok {
				methodGenerics[k] = v
			}
		}
		params := make([]types.FuncParam, len(m.Params))
		for i, p := range m.Params {
			pt, err := qualifier.QualifyType(p.Type, locals, methodGenerics)
			if err != nil {
				return decl.Protocol{}, err
			}
			phase, has := annotationPhase(p.Phase)
			params[i] = types.FuncParam{Type: pt, Phase: phase, HasPhase: has}
		}
		result, err := qualifier.QualifyType(m.Result, locals, methodGenerics)
		if err != nil {
			return decl.Protocol{}, err
		}
		methods[m.Name] = types.Function{FuncPhase: types.Fun, Params: params, Result: result}
	}

	protoType := types.Protocol{Sym: sym, TypeParams: typeParamSyms, Methods: methods}
	pd := decl.Protocol{Access: pr.Access, Sym: sym, TypeParams: typeParamSyms, Methods: methods, Pos: pr.Position()}
	if !c.builder.AddSymbol(sym, decl.SymbolEntry{Access: pr.Access, Declaring: module, Type: protoType}) {
		return decl.Protocol{}, duplicateSymbol(sym, pr.Position())
	}
	return pd, nil
}

func (c *Collector) collectImpl(im *ast.ImplDecl, module symbol.Symbol, locals qualifier.LocalMap) (decl.Impl, error) {
	baseType, err := qualifier.QualifyType(im.Base, locals, nil)
	if err != nil {
		return decl.Impl{}, err
	}
	baseNominal, ok := baseType.(types.Nominal)
	if !ok {
		return decl.Impl{}, errors.Wrap(errors.New("collect", "COL001", pos(im.Position()),
			"impl base must be a nominal type"))
	}
	baseSym := baseNominal.Sym

	// Require the impl to live in the same module as the base (spec §4.2:
	// "temporary limitation -- surface as an error").
	if baseSym.IsRoot() || !baseSym.Parent().Equals(module) {
		return decl.Impl{}, errors.Wrap(errors.New("collect", "COL001", pos(im.Position()),
			"impl for %s must be declared in its own module", baseSym.String()))
	}

	if !c.builder.AddImplForBase(baseSym) {
		return decl.Impl{}, errors.Wrap(errors.New("collect", "COL002", pos(im.Position()),
			"multiple impls for base type %s", baseSym.String()))
	}

	implSym := module.Child(baseSym.Name() + "$impl")
	generics := qualifier.NewGenericsScope(implSym, im.TypeParams)
	var typeParamSyms []symbol.Symbol
	for _, tp := range im.TypeParams {
		typeParamSyms = append(typeParamSyms, generics[tp])
	}

	var protoSym *symbol.Symbol
	if im.Protocol != nil {
		protoType, err := qualifier.QualifyType(im.Protocol, locals, generics)
		if err != nil {
			return decl.Impl{}, err
		}
		protoNominal, ok := protoType.(types.Nominal)
		if !ok {
			return decl.Impl{}, errors.Wrap(errors.New("collect", "COL001", pos(im.Position()),
				"impl protocol must be a nominal type"))
		}
		protoSym = &protoNominal.Sym
		c.builder.AddProtocolImpl(baseSym, *protoSym, implSym)
	}

	methods := make([]decl.Function, 0, len(im.Methods))
	for _, m := range im.Methods {
		fd, err := c.collectFunction(m, implSym, locals, &baseSym)
		if err != nil {
			return decl.Impl{}, err
		}
		methods = append(methods, fd)

		// Only methods whose first parameter is literally named "self" are
		// registered as instance methods (spec §3.6); static methods live
		// only in the symbol table (already added by collectFunction).
		if len(m.Params) > 0 && m.Params[0].Name == "self" {
			c.builder.AddMethod(baseSym, m.Name, decl.MethodEntry{
				Access: m.Access, Sym: fd.Sym, Declaring: module, Type: fd.Signature(),
			})
		}
	}

	return decl.Impl{Sym: implSym, TypeParams: typeParamSyms, Base: baseSym, Protocol: protoSym, Methods: methods, Pos: im.Position()}, nil
}

func qualifyLayout(l ast.DataLayout, sym symbol.Symbol, typeParamSyms []symbol.Symbol, generics qualifier.Generics, locals qualifier.LocalMap, enumSym symbol.Symbol, hasEnum bool) (types.DataLayout, error) {
	switch l.Kind {
	case ast.LayoutStruct:
		names := make([]string, len(l.Fields))
		fieldTypes := make([]types.Type, len(l.Fields))
		for i, f := range l.Fields {
			ft, err := qualifier.QualifyType(f.Type, locals, generics)
			if err != nil {
				return nil, err
			}
			names[i] = f.Name
			fieldTypes[i] = ft
		}
		s := types.NewStruct(sym, typeParamSyms, names, fieldTypes)
		s.Enum, s.HasEnum = enumSym, hasEnum
		return s, nil
	case ast.LayoutTuple:
		elems := make([]types.Type, len(l.Elements))
		for i, e := range l.Elements {
			et, err := qualifier.QualifyType(e, locals, generics)
			if err != nil {
				return nil, err
			}
			elems[i] = et
		}
		return types.Tuple{Sym: sym, TypeParams: typeParamSyms, Elements: elems, Enum: enumSym, HasEnum: hasEnum}, nil
	default:
		return types.Atom{Sym: sym, TypeParams: typeParamSyms, Enum: enumSym, HasEnum: hasEnum}, nil
	}
}

func duplicateSymbol(sym symbol.Symbol, p ast.Pos) error {
	return errors.Wrap(errors.New("collect", "COL003", pos(p), "duplicate declaration of %s", sym.String()))
}

func annotationPhase(a ast.ExprPhaseAnnotation) (types.Phase, bool) {
	switch a {
	case ast.PhaseConst:
		return types.Const, true
	case ast.PhaseVal:
		return types.Val, true
	case ast.PhaseVar:
		return types.Var, true
	case ast.PhaseFlow:
		return types.Flow, true
	default:
		return types.Val, false
	}
}

func funcPhaseOf(p ast.FuncPhase) types.FuncPhase {
	switch p {
	case ast.FuncDef:
		return types.Def
	case ast.FuncSig:
		return types.Sig
	default:
		return types.Fun
	}
}

func pos(p ast.Pos) errors.Position {
	return errors.Position{File: p.File, Line: p.Line, Column: p.Column}
}
