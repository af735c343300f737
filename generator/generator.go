// Package generator drives a generation run: it resolves entry classes and
// everything they reference, translates them and writes the rendered
// modules to a sink.
package generator

import (
	"context"
	"sort"
	"time"

	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/fusion/classpath"
	"github.com/dhamidi/fusion/config"
	"github.com/dhamidi/fusion/errors"
	"github.com/dhamidi/fusion/java"
	"github.com/dhamidi/fusion/sink"
	"github.com/dhamidi/fusion/translator"
)

var log = commonlog.GetLogger("fusion.generator")

// Finder is a classpath that can also list the classes in its directory
// roots. *classpath.Resolver implements it.
type Finder interface {
	classpath.Finder
	DirectoryClasses() []string
}

type Generator struct {
	cfg        *config.Config
	finder     Finder
	out        sink.OutputSink
	translator *translator.Translator

	// Debounce is how long Watch waits for changes to settle.
	Debounce time.Duration
}

func New(cfg *config.Config, finder Finder, out sink.OutputSink) *Generator {
	return &Generator{
		cfg:        cfg,
		finder:     finder,
		out:        out,
		translator: translator.New(cfg.TranslatorOptions()),
		Debounce:   200 * time.Millisecond,
	}
}

// Report describes a finished run.
type Report struct {
	// Written lists the output paths in lexical order.
	Written  []string
	Failures []Failure
}

// Failure is an entry whose class chain could not be generated.
type Failure struct {
	Entry string
	Err   error
}

// Run generates entries, or the configured entries, or every discovered
// endpoint, whichever is first non-empty. Each entry is resolved together
// with all classes it references; a failure in that chain drops the whole
// entry and is recorded in the report, while other entries are still
// written. Modules shared by several entries are written once.
//
// The returned error is an *Error when some entries failed, or the first
// write failure.
func (g *Generator) Run(ctx context.Context, entries []string) (*Report, error) {
	cache := classpath.NewCache(g.finder)
	if len(entries) == 0 {
		entries = g.cfg.Entries
	}
	if len(entries) == 0 {
		var err error
		if entries, err = g.discover(ctx, cache); err != nil {
			return nil, err
		}
		log.Infof("discovered %d endpoints", len(entries))
	}

	var (
		report  Report
		done    = make(map[string]*translator.Result)
		owners  = make(map[string]string)
		results []*translator.Result
	)
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chain, err := g.chain(cache, entry, done, owners)
		if err != nil {
			log.Errorf("%s: %s", entry, err)
			report.Failures = append(report.Failures, Failure{Entry: entry, Err: err})
			continue
		}
		for _, res := range chain {
			done[classpath.Normalize(res.Source)] = res
			owners[res.Path] = res.Source
			results = append(results, res)
		}
	}

	if err := g.write(ctx, results); err != nil {
		return &report, err
	}
	for _, res := range results {
		report.Written = append(report.Written, res.Path)
	}
	sort.Strings(report.Written)

	if len(report.Failures) > 0 {
		return &report, &Error{Failures: report.Failures}
	}
	return &report, nil
}

// chain translates entry and, breadth first, every class it references
// that has not been translated yet.
func (g *Generator) chain(cache classpath.Finder, entry string, done map[string]*translator.Result, owners map[string]string) ([]*translator.Result, error) {
	root := classpath.Normalize(entry)
	var (
		results []*translator.Result
		queue   = []string{root}
		seen    = map[string]bool{root: true}
		paths   = make(map[string]string)
	)
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if done[name] != nil {
			continue
		}

		res, err := g.translate(cache, name)
		if err != nil {
			if name != root {
				err = errors.Wrapf(err, "required by %s", entry)
			}
			return nil, err
		}
		if owner, ok := owners[res.Path]; ok && owner != res.Source {
			return nil, errors.Translationf(res.Source, "output %s is already generated from %s", res.Path, owner)
		}
		if owner, ok := paths[res.Path]; ok && owner != res.Source {
			return nil, errors.Translationf(res.Source, "output %s is already generated from %s", res.Path, owner)
		}
		paths[res.Path] = res.Source
		results = append(results, res)

		for _, dep := range res.Dependencies {
			dep = classpath.Normalize(dep)
			if !seen[dep] {
				seen[dep] = true
				queue = append(queue, dep)
			}
		}
	}
	return results, nil
}

func (g *Generator) translate(cache classpath.Finder, name string) (*translator.Result, error) {
	cf, err := cache.Resolve(name)
	if err != nil {
		return nil, err
	}
	model, err := java.ClassModelFromClassFile(cf)
	if err != nil {
		return nil, errors.ClassFormat(name, err)
	}
	return g.translator.Translate(model)
}

// write renders and stores results concurrently, at most Jobs at a time.
func (g *Generator) write(ctx context.Context, results []*translator.Result) error {
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(g.cfg.Jobs, 1))
	for _, res := range results {
		eg.Go(func() error {
			text := res.Module.TS(g.cfg.HeaderFor(res.Source))
			if err := g.out.WriteFile(ctx, res.Path, []byte(text)); err != nil {
				return errors.IO(res.Path, err)
			}
			log.Infof("generated %s from %s", res.Path, res.Source)
			return nil
		})
	}
	return eg.Wait()
}

// Render translates the single class called name without following its
// dependencies and returns the output path and module text.
func (g *Generator) Render(name string) (string, string, error) {
	res, err := g.translate(g.finder, classpath.Normalize(name))
	if err != nil {
		return "", "", err
	}
	return res.Path, res.Module.TS(g.cfg.HeaderFor(res.Source)), nil
}

// Discover lists the endpoint classes found in the directory roots, in
// classpath order.
func (g *Generator) Discover(ctx context.Context) ([]string, error) {
	return g.discover(ctx, classpath.NewCache(g.finder))
}

func (g *Generator) discover(ctx context.Context, cache classpath.Finder) ([]string, error) {
	names := g.finder.DirectoryClasses()
	found := make([]string, len(names))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(g.cfg.Jobs, 1))
	for i, name := range names {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cf, err := cache.Resolve(name)
			if err != nil {
				log.Debugf("discover: skipping %s: %s", name, err)
				return nil
			}
			model, err := java.ClassModelFromClassFile(cf)
			if err != nil {
				log.Debugf("discover: skipping %s: %s", name, err)
				return nil
			}
			if _, ok := g.translator.EndpointName(model); ok {
				found[i] = model.Name
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var endpoints []string
	for _, name := range found {
		if name != "" {
			endpoints = append(endpoints, name)
		}
	}
	return endpoints, nil
}
