// Package main implements fluxc, a convenience harness that drives
// internal/pipeline end-to-end and prints the resulting archive: a thin
// external-facing demonstration of the pipeline, not the pipeline itself
// (spec §1 leaves the lexer/parser as external collaborators; see
// DESIGN.md for how this command stands in for them).
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/fluxlang/fluxc/internal/archive"
	"github.com/fluxlang/fluxc/internal/errors"
	"github.com/fluxlang/fluxc/internal/pipeline"
	"github.com/fluxlang/fluxc/internal/symbol"
)

var (
	// Version is set by ldflags during build.
	Version = "dev"

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

func main() {
	var (
		versionFlag     = flag.Bool("version", false, "Print version information")
		helpFlag        = flag.Bool("help", false, "Show help")
		verboseFlag     = flag.Bool("verbose", false, "Print per-phase timings and collection progress")
		interactiveFlag = flag.Bool("interactive", false, "Drop into an interactive session after checking")
	)
	flag.Parse()

	if *versionFlag {
		printVersion()
		return
	}
	if *helpFlag || flag.NArg() == 0 {
		printHelp()
		return
	}

	switch command := flag.Arg(0); command {
	case "check":
		dir := "."
		if flag.NArg() >= 2 {
			dir = flag.Arg(1)
		}
		runCheck(dir, *verboseFlag, *interactiveFlag)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", red("Error"), command)
		printHelp()
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("fluxc %s\n", bold(Version))
	fmt.Println("FLUX semantic-analysis pipeline")
}

func printHelp() {
	fmt.Println(bold("fluxc - FLUX semantic-analysis pipeline"))
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  fluxc <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  check <dir>   load <dir>/flux.yaml and run the pipeline against it")
	fmt.Println()
	fmt.Println("Flags:")
	flag.PrintDefaults()
}

// corePackage is the core library the symbol qualifier's preamble
// resolves Int/Float/Bool/... against (spec §4.1, §6.1). A real deployment
// would load this from its own flux.yaml-described package; fluxc pins a
// fixed identity since no such package is part of this repo.
func corePackage() symbol.Package {
	return symbol.Package{Organization: "flux", Name: "core", Version: symbol.Version{Major: 0, Minor: 1, Patch: 0}}
}

func runCheck(dir string, verbose bool, interactive bool) {
	manifestPath := dir + "/flux.yaml"
	manifest, err := archive.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	pkg, err := packageFromManifest(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}

	deps := symbol.NewDependencyManager(pkg)
	for alias, ref := range manifest.Dependencies {
		depPkg, err := packageFromRef(ref)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: dependency %q: %v\n", red("Error"), alias, err)
			os.Exit(1)
		}
		if err := deps.Bind(alias, depPkg); err != nil {
			fmt.Fprintf(os.Stderr, "%s: binding %q: %v\n", red("Error"), alias, err)
			os.Exit(1)
		}
	}

	cfg := pipeline.Config{Verbose: verbose, Log: func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, "%s %s\n", dim("[fluxc]"), fmt.Sprintf(format, args...))
	}}

	input := pipeline.PackageInput{Pkg: pkg, Deps: deps, Files: demoPackage()}

	result, err := pipeline.Run(cfg, corePackage(), []pipeline.PackageInput{input})
	if err != nil {
		printCheckError(err)
		os.Exit(1)
	}

	printSummary(pkg, result)

	if interactive {
		runREPL(cfg, corePackage(), input, result)
	}
}

func printCheckError(err error) {
	if report, ok := errors.As(err); ok {
		fmt.Fprintf(os.Stderr, "%s %s: %s: %s\n", red("Error"), report.Pos, report.Code, report.Message)
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
}

func printSummary(pkg symbol.Package, result *pipeline.Result) {
	arc, ok := result.Archives[pkg.String()]
	if !ok {
		fmt.Fprintf(os.Stderr, "%s: no archive produced for %s\n", yellow("Warning"), pkg.String())
		return
	}

	fmt.Printf("%s %s\n", green("ok"), bold(pkg.String()))
	fmt.Printf("  %d symbols, %d methods, %d protocol impls, %d externals\n",
		len(arc.Symbols), len(arc.Methods), len(arc.ProtocolImpls), len(arc.Externals))
	for _, sym := range arc.Symbols {
		fmt.Printf("  %s %s : %s\n", cyan(sym.Access), sym.Name, sym.Type)
	}
	for _, m := range arc.Methods {
		fmt.Printf("  %s %s.%s : %s\n", cyan(m.Access), m.Base, m.Name, m.Type)
	}
}

// packageFromManifest turns a flux.yaml's name/version into a
// symbol.Package. name may be "org/name"; a bare name is treated as an
// unscoped package under the empty organization.
func packageFromManifest(m *archive.Manifest) (symbol.Package, error) {
	org, name := splitOrgName(m.Name)
	version, err := parseVersion(m.Version)
	if err != nil {
		return symbol.Package{}, fmt.Errorf("manifest %q: %w", m.Name, err)
	}
	return symbol.Package{Organization: org, Name: name, Version: version}, nil
}

// packageFromRef turns a flux.yaml dependency value (e.g. "acme/widgets@1.2.0")
// into a symbol.Package. A missing version defaults to 0.0.0, matching an
// unversioned dependency alias.
func packageFromRef(ref string) (symbol.Package, error) {
	nameVersion := strings.SplitN(ref, "@", 2)
	org, name := splitOrgName(nameVersion[0])
	if len(nameVersion) == 1 {
		return symbol.Package{Organization: org, Name: name}, nil
	}
	version, err := parseVersion(nameVersion[1])
	if err != nil {
		return symbol.Package{}, fmt.Errorf("%q: %w", ref, err)
	}
	return symbol.Package{Organization: org, Name: name, Version: version}, nil
}

func splitOrgName(s string) (org, name string) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return "", parts[0]
}

// parseVersion parses a bare "major.minor.patch" string. flux.yaml carries
// no build metadata or channel suffix; those symbol.Version fields are
// left at their zero values.
func parseVersion(s string) (symbol.Version, error) {
	var v symbol.Version
	n, err := fmt.Sscanf(s, "%d.%d.%d", &v.Major, &v.Minor, &v.Patch)
	if err != nil || n != 3 {
		return symbol.Version{}, fmt.Errorf("invalid version %q", s)
	}
	return v, nil
}
