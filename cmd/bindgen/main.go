// bindgen generates script bindings for annotated Go types.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/bindc/gowrap"
	"github.com/chazu/bindc/manifest"
)

var log = commonlog.GetLogger("bindc.bindgen")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one bindgen invocation and returns the process exit code:
// 0 on success, 1 when a site failed, 2 on usage errors.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "inspect" {
		return runInspect(args[1:], stdout, stderr)
	}

	fs := flag.NewFlagSet("bindgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dir := fs.String("C", ".", "Run as if bindgen was started in `dir`")
	configPath := fs.String("config", "", "Configuration `file` (default: bindgen.toml found by walking up from -C)")
	naming := fs.String("naming", "", "Override the naming style of every site: snake, camel or keep")
	descriptors := fs.Bool("descriptors", false, "Also write a CBOR descriptor manifest next to each generated file")
	check := fs.Bool("check", false, "Type-check generated code against its package before writing it")
	dryRun := fs.Bool("n", false, "Print generated code instead of writing files")
	jobs := fs.Int("j", runtime.GOMAXPROCS(0), "Number of sites generated concurrently")
	verbose := fs.Bool("v", false, "Verbose output")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: bindgen [options] [package:Type ...]\n")
		fmt.Fprintf(stderr, "       bindgen inspect file.cbor\n\n")
		fmt.Fprintf(stderr, "Generates dispatch-table bindings for //bind: annotated declarations.\n")
		fmt.Fprintf(stderr, "Without sites on the command line, sites are read from bindgen.toml.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  bindgen                              # every [[site]] in bindgen.toml\n")
		fmt.Fprintf(stderr, "  bindgen ./examples/sprite:Sprite     # one site, ad-hoc\n")
		fmt.Fprintf(stderr, "  bindgen -check -descriptors          # verify output, write .cbor manifests\n")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	configureLogging(*verbose)

	if *naming != "" {
		if _, err := gowrap.ParseNamingStyle(*naming); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 2
		}
	}
	if *jobs < 1 {
		fmt.Fprintln(stderr, "Error: -j must be at least 1")
		return 2
	}

	m, err := loadManifest(*dir, *configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading configuration: %v\n", err)
		return 2
	}

	p, err := plan(m, *dir, fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if len(p.sites) == 0 {
		fmt.Fprintln(stderr, "Error: no bindgen.toml sites found and no sites specified")
		fmt.Fprintln(stderr, "Usage: bindgen [package:Type ...] or configure [[site]] in bindgen.toml")
		return 2
	}

	cfg := genConfig{
		naming:      *naming,
		descriptors: *descriptors || (m != nil && m.Generate.Descriptors),
		check:       *check,
		dryRun:      *dryRun,
		jobs:        *jobs,
		stdout:      stdout,
	}
	results := generateAll(ctx, &cfg, p)

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(stderr, "Error binding %s:%s: %v\n", r.site.Package, r.site.Type, r.err)
			continue
		}
		if *verbose && !*dryRun {
			fmt.Fprintf(stdout, "Wrote %s\n", r.path)
		}
	}
	if failed > 0 {
		return 1
	}
	if *verbose {
		fmt.Fprintf(stdout, "Bound %d site(s)\n", len(results))
	}
	return 0
}

func configureLogging(verbose bool) {
	verbosity := 0
	if verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)
}

// loadManifest reads an explicit configuration file or searches for one
// upward from dir. A missing bindgen.toml is not an error.
func loadManifest(dir, configPath string) (*manifest.Manifest, error) {
	if configPath != "" {
		return manifest.LoadFile(configPath)
	}
	return manifest.FindAndLoad(dir)
}
