package main

import (
	"github.com/fluxlang/fluxc/internal/ast"
	"github.com/fluxlang/fluxc/internal/pipeline"
)

// demoPackage builds a small, hard-coded source package exercising every
// declaration form the pipeline understands: a const, a struct, an enum,
// a protocol, an impl with both an instance and a static method, and a
// plain function. The lexer/parser that would normally produce this tree
// from .flux source are external collaborators outside this repo's scope
// (spec §1) -- until one exists, this stands in for "source read from
// disk" the same way the teacher's own cmd/ailang subcommands stub out
// functionality they don't implement yet (see DESIGN.md).
func demoPackage() []pipeline.SourceFile {
	intType := ast.NamedType{Name: "Int"}
	stringType := ast.NamedType{Name: "String"}
	pointType := ast.NamedType{Name: "Point"}

	file := &ast.File{
		ModulePath: "main",
		Consts: []*ast.ConstDecl{
			{Access: ast.Public, Name: "answer", Type: intType, Value: ast.IntLit{Value: 42}},
		},
		Funcs: []*ast.FunctionDecl{
			{
				Access: ast.Public, Name: "five", Phase: ast.FuncFun, Result: intType,
				Body: &ast.Block{Stmts: []ast.Stmt{ast.ExprStmt{Expr: ast.IntLit{Value: 5}}}},
			},
		},
		Datas: []*ast.DataDecl{
			{
				Access: ast.Public, Name: "Point",
				Layout: ast.DataLayout{Kind: ast.LayoutStruct, Fields: []ast.FieldDecl{
					{Name: "x", Type: intType},
					{Name: "y", Type: intType},
				}},
			},
		},
		Enums: []*ast.EnumDecl{
			{
				Access: ast.Public, Name: "Shape",
				Variants: []ast.EnumVariant{
					{Name: "Circle", Layout: ast.DataLayout{Kind: ast.LayoutStruct, Fields: []ast.FieldDecl{
						{Name: "radius", Type: intType},
					}}},
					{Name: "Square", Layout: ast.DataLayout{Kind: ast.LayoutStruct, Fields: []ast.FieldDecl{
						{Name: "side", Type: intType},
					}}},
				},
			},
		},
		Protocols: []*ast.ProtocolDecl{
			{
				Access: ast.Public, Name: "Greet",
				Methods: []ast.MethodSig{
					{Name: "greet", Params: []ast.Param{{Name: "self", Type: pointType}}, Result: stringType},
				},
			},
		},
		Impls: []*ast.ImplDecl{
			{
				Base:     pointType,
				Protocol: ast.NamedType{Name: "Greet"},
				Methods: []*ast.FunctionDecl{
					{
						Access: ast.Public, Name: "greet", Phase: ast.FuncFun,
						Params: []ast.Param{{Name: "self", Type: pointType}},
						Result: stringType,
						Body: &ast.Block{Stmts: []ast.Stmt{
							ast.ExprStmt{Expr: ast.StringLit{Value: "hello"}},
						}},
					},
					{
						Access: ast.Public, Name: "origin", Phase: ast.FuncFun,
						Result: pointType,
						Body: &ast.Block{Stmts: []ast.Stmt{ast.ExprStmt{Expr: ast.Construct{
							Base: pointType,
							Fields: []ast.ConstructField{
								{Name: "x", Value: ast.IntLit{Value: 0}},
								{Name: "y", Value: ast.IntLit{Value: 0}},
							},
						}}}},
					},
				},
			},
		},
	}

	return []pipeline.SourceFile{{Path: "main.flux", AST: file}}
}
