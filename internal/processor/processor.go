package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"dvr2plex-go/internal/catalog"
	"dvr2plex-go/internal/config"
	"dvr2plex-go/internal/dictionary"
	apperrors "dvr2plex-go/internal/errors"
	"dvr2plex-go/internal/parser"
	"dvr2plex-go/internal/scanner"
	"dvr2plex-go/internal/template"
	"dvr2plex-go/internal/tokenizer"
)

// suggestLimit caps the "did you mean" names logged for an unknown series.
const suggestLimit = 3

// Processor runs recordings through parse, series lookup and template
// rendering, then prints or executes the result.
type Processor struct {
	cfg      *config.Config
	main     *dictionary.Dictionary
	layers   *template.Layers
	parser   *parser.Parser
	catalogs *catalog.Loader
	runner   Runner
	out      io.Writer
	logger   logrus.FieldLogger

	mu    sync.Mutex
	stats *apperrors.ErrorStats
}

// Result is what processing one path produced.
type Result struct {
	Source   string                 `json:"source"`
	Dict     *dictionary.Dictionary `json:"-"`
	Tokens   []tokenizer.Token      `json:"-"`
	Output   string                 `json:"output"`
	Executed bool                   `json:"executed"`
}

// Option configures a Processor.
type Option func(*Processor)

// WithOutput sets where rendered strings are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Processor) {
		p.out = w
	}
}

// WithRunner sets the command runner used in execute mode.
func WithRunner(r Runner) Option {
	return func(p *Processor) {
		p.runner = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithCatalogLoader replaces the loader that lists destination series.
func WithCatalogLoader(l *catalog.Loader) Option {
	return func(p *Processor) {
		p.catalogs = l
	}
}

// WithLayers replaces the lookup layers below the file dictionary.
func WithLayers(l *template.Layers) Option {
	return func(p *Processor) {
		p.layers = l
	}
}

// New creates a Processor for cfg.
func New(cfg *config.Config, opts ...Option) (*Processor, error) {
	policy, err := tokenizer.ParsePolicy(cfg.Tokenizer)
	if err != nil {
		return nil, apperrors.NewConfigError("processor", "invalid tokenizer", err)
	}

	p := &Processor{
		cfg:    cfg,
		main:   cfg.Dictionary(),
		runner: NewShellRunner(),
		out:    os.Stdout,
		logger: logrus.StandardLogger(),
		stats:  apperrors.NewErrorStats(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.parser = parser.New(tokenizer.New(policy), parser.WithLogger(p.logger))
	if p.catalogs == nil {
		p.catalogs = catalog.NewLoader(scanner.ListSeries, cfg.CatalogTTL)
	}
	if p.layers == nil {
		p.layers = template.NewLayers(p.main)
		if cfg.EnvFile != "" {
			if err := p.layers.LoadEnvFile(cfg.EnvFile); err != nil {
				return nil, err
			}
		}
	}

	p.main.Log(p.logger)
	return p, nil
}

// Catalogs returns the series catalog loader, so callers can invalidate it
// when the destination changes.
func (p *Processor) Catalogs() *catalog.Loader {
	return p.catalogs
}

// Parser returns the parser in use.
func (p *Processor) Parser() *parser.Parser {
	return p.parser
}

// Catalog returns the series catalog of the configured destination. A
// destination that cannot be listed gives an empty catalog, so every series
// is used as written.
func (p *Processor) Catalog() *catalog.Catalog {
	if p.cfg.Destination == "" {
		return catalog.New()
	}
	c, err := p.catalogs.Get(p.cfg.Destination)
	if err != nil {
		p.logger.WithError(err).WithField("destination", p.cfg.Destination).
			Warn("cannot list destination series")
		return catalog.New()
	}
	return c
}

// Parse builds the file dictionary for path without rendering anything.
func (p *Processor) Parse(path string) *Result {
	series := p.Catalog()
	dict := dictionary.New("File")
	tokens := p.parser.ParsePath(dict, path, series)

	if name, ok := dict.Find(dictionary.KeySeries); ok && series.Len() > 0 {
		if dest, _ := dict.Find(dictionary.KeyDestSeries); !slices.Contains(series.Names(), dest) {
			entry := p.logger.WithFields(logrus.Fields{"source": path, "series": name})
			if suggestions := series.Suggest(name, suggestLimit); len(suggestions) > 0 {
				entry.WithField("suggestions", suggestions).Info("series not found in destination, did you mean")
			} else {
				entry.Info("series not found in destination")
			}
		}
	}

	dict.Log(p.logger)
	return &Result{Source: path, Dict: dict, Tokens: tokens}
}

// Lookup returns the layered lookup for a file dictionary: the file first,
// then the main parameters, the env file and finally the environment.
func (p *Processor) Lookup(dict *dictionary.Dictionary) template.Lookup {
	return p.layers.With(dict)
}

// Render renders the template for a parsed result.
func (p *Processor) Render(res *Result) (string, error) {
	out, err := template.RenderTemplate(p.Lookup(res.Dict))
	if err != nil {
		return "", apperrors.NewTemplateError("processor", "cannot render "+res.Source, err).WithPath(res.Source)
	}
	res.Output = out
	return out, nil
}

// ProcessFile parses path, renders the template and prints the result, or
// runs it when execute mode is on.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Result, error) {
	res := p.Parse(path)
	out, err := p.Render(res)
	if err != nil {
		p.record(err)
		return res, err
	}

	if !p.cfg.Execute {
		if _, err := fmt.Fprintf(p.out, "%s\n", out); err != nil {
			return res, err
		}
		return res, nil
	}

	entry := p.logger.WithFields(logrus.Fields{"source": path, "command": out})
	if p.cfg.DryRun {
		entry.Info("dry run, not executing")
		return res, nil
	}

	entry.Debug("executing")
	if err := p.runner.Run(ctx, out); err != nil {
		execErr := apperrors.NewExecuteError("processor", out, err).WithPath(path)
		p.record(execErr)
		return res, execErr
	}
	res.Executed = true
	return res, nil
}

// ProcessPaths processes every path in order. A failing file is logged and
// does not stop the rest.
func (p *Processor) ProcessPaths(ctx context.Context, paths []string) error {
	failed := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := p.ProcessFile(ctx, path); err != nil {
			p.logger.WithError(err).WithField("source", path).Error("processing failed")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

// Stats returns a snapshot of the errors seen so far.
func (p *Processor) Stats() apperrors.ErrorStats {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := *p.stats
	snapshot.ErrorsByType = make(map[apperrors.ErrorType]int64, len(p.stats.ErrorsByType))
	for k, v := range p.stats.ErrorsByType {
		snapshot.ErrorsByType[k] = v
	}
	snapshot.ErrorsBySource = make(map[string]int64, len(p.stats.ErrorsBySource))
	for k, v := range p.stats.ErrorsBySource {
		snapshot.ErrorsBySource[k] = v
	}
	return snapshot
}

func (p *Processor) record(err error) {
	var appErr *apperrors.Error
	if !apperrors.As(err, &appErr) {
		appErr = apperrors.ClassifyError("processor", err)
	}
	p.mu.Lock()
	p.stats.RecordError(appErr)
	p.mu.Unlock()
}
