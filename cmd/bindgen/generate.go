package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/chazu/bindc/bind"
	"github.com/chazu/bindc/gowrap"
	"github.com/chazu/bindc/manifest"
)

// sitePlan is the list of sites one invocation generates, together with
// the directory their package patterns are relative to.
type sitePlan struct {
	dir   string
	sites []manifest.Site
}

// plan resolves the sites to generate. Sites named on the command line
// win over the configuration file and are relative to dir.
func plan(m *manifest.Manifest, dir string, args []string) (sitePlan, error) {
	if len(args) == 0 {
		if m == nil {
			return sitePlan{dir: dir}, nil
		}
		return sitePlan{dir: m.Dir, sites: m.Sites}, nil
	}

	p := sitePlan{dir: dir}
	for _, arg := range args {
		s, err := m.ParseSite(arg)
		if err != nil {
			return sitePlan{}, err
		}
		p.sites = append(p.sites, s)
	}
	return p, nil
}

type genConfig struct {
	naming      string
	descriptors bool
	check       bool
	dryRun      bool
	jobs        int

	stdout io.Writer
	mu     sync.Mutex // serializes dry-run output
}

type siteResult struct {
	site manifest.Site
	path string
	err  error
}

// generateAll processes every site, at most cfg.jobs at a time. A failing
// site does not stop the others; each result carries its own error.
func generateAll(ctx context.Context, cfg *genConfig, p sitePlan) []siteResult {
	results := make([]siteResult, len(p.sites))
	var g errgroup.Group
	g.SetLimit(cfg.jobs)
	for i, s := range p.sites {
		results[i].site = s
		g.Go(func() error {
			results[i].path, results[i].err = generateSite(ctx, cfg, p.dir, s)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// generateSite loads, classifies and emits one site. It writes nothing
// unless the whole site is valid.
func generateSite(ctx context.Context, cfg *genConfig, dir string, s manifest.Site) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	naming := s.Naming
	if cfg.naming != "" {
		naming = cfg.naming
	}
	style, err := gowrap.ParseNamingStyle(naming)
	if err != nil {
		return "", err
	}

	site, err := gowrap.IntrospectSite(ctx, gowrap.Options{
		Dir:           dir,
		Package:       s.Package,
		Type:          s.Type,
		Output:        s.Output,
		FreeFunctions: s.FreeFunctions,
		Naming:        style,
	})
	if err != nil {
		return "", fmt.Errorf("introspecting: %w", err)
	}

	set, err := site.Collect()
	if err != nil {
		return "", err
	}
	log.Debugf("%s: %d functions, %d members", s.Type, len(set.Functions), len(set.Members))

	code, err := gowrap.GenerateGoGlue(site, set)
	if err != nil {
		return "", fmt.Errorf("generating Go glue: %w", err)
	}

	if cfg.check {
		cv := gowrap.NewCodeValidator(s.Output, s.Type, set)
		errs := cv.Validate(code)
		if len(errs) == 0 {
			errs = cv.ValidatePackage(code, site)
		}
		if len(errs) > 0 {
			return "", fmt.Errorf("generated code does not check:\n%s", gowrap.FormatValidationErrors(errs))
		}
	}

	path := site.OutputPath()
	if cfg.dryRun {
		cfg.mu.Lock()
		defer cfg.mu.Unlock()
		fmt.Fprintf(cfg.stdout, "// %s\n%s", path, code)
		return path, nil
	}

	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if cfg.descriptors {
		data, err := bind.MarshalSet(set)
		if err != nil {
			return "", fmt.Errorf("encoding descriptors: %w", err)
		}
		cborPath := descriptorPath(path)
		if err := os.WriteFile(cborPath, data, 0o644); err != nil {
			return "", fmt.Errorf("writing %s: %w", cborPath, err)
		}
		log.Debugf("wrote %s", cborPath)
	}
	return path, nil
}

// descriptorPath names the manifest written next to a generated file.
func descriptorPath(goPath string) string {
	return strings.TrimSuffix(goPath, ".go") + ".cbor"
}
