package lib

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/natefinch/atomic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/airmon/assetgz"
	"github.com/airmon/assetgz/internal"
	"github.com/airmon/assetgz/lib/compress"
	"github.com/airmon/assetgz/lib/manifest"
	"github.com/airmon/assetgz/lib/render"
	"github.com/airmon/assetgz/lib/render/config"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assetgz_runs_total",
		Help: "The total number of pipeline runs by result",
	}, []string{"result"})

	artifactsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assetgz_artifacts_written_total",
		Help: "The total number of compressed artifacts written",
	}, []string{"encoding"})

	artifactBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "assetgz_artifact_bytes",
		Help: "Size of each asset in the last run, uncompressed (identity) and per encoding",
	}, []string{"artifact", "encoding"})
)

var (
	ErrMissingInputDirectory = errors.New("lib: input directory not found")
	ErrMissingRequiredFile   = errors.New("lib: required file not found")
	ErrNoInputDirectory      = errors.New("lib: input directory must be set")
)

const fileMode = 0o644

type Options struct {
	// InputDir holds page.template.html, style.css and script.js.
	InputDir string
	// OutputDir receives page.html and the compressed copies. Defaults to
	// InputDir.
	OutputDir string

	Placeholders   *config.Config
	HashAlgorithm  internal.HashAlgorithm
	ExtraEncodings []compress.Encoding

	// Verbose adds per-file progress and directory listings on failure.
	Verbose bool
	// EmbedPrefix is prepended to every EMBED_FILES entry in the report.
	// Empty prints bare file names; the CLI defaults it to
	// assetgz.DefaultEmbedPrefix.
	EmbedPrefix string
	// HeaderPath, if set, is where a C header with the symbol declarations
	// is written.
	HeaderPath string

	Stdout io.Writer
}

// Pipeline turns the page template and its assets into cache-busted HTML
// and gzip blobs. A Pipeline can be run any number of times; every run
// starts from the files on disk.
type Pipeline struct {
	opts     Options
	renderer *render.Renderer
	console  *console
}

func New(opts Options) (*Pipeline, error) {
	if opts.InputDir == "" {
		return nil, ErrNoInputDirectory
	}
	opts.InputDir = filepath.Clean(opts.InputDir)

	if opts.OutputDir == "" {
		opts.OutputDir = opts.InputDir
	}
	opts.OutputDir = filepath.Clean(opts.OutputDir)

	if opts.Placeholders == nil {
		slog.Debug("opts.Placeholders not set, using builtin placeholders")
		placeholders, err := LoadPlaceholdersOrDefault("")
		if err != nil {
			return nil, err
		}
		opts.Placeholders = placeholders
	} else if err := opts.Placeholders.Valid(); err != nil {
		return nil, err
	}

	if opts.HashAlgorithm == "" {
		opts.HashAlgorithm = internal.HashSHA1
	}
	if _, err := internal.ParseHashAlgorithm(string(opts.HashAlgorithm)); err != nil {
		return nil, err
	}

	var extras []compress.Encoding
	for _, enc := range opts.ExtraEncodings {
		if enc.Suffix() == "" {
			return nil, fmt.Errorf("%w: %q", compress.ErrUnknownEncoding, enc)
		}
		if enc == compress.EncodingGzip || slices.Contains(extras, enc) {
			continue
		}
		extras = append(extras, enc)
	}
	opts.ExtraEncodings = extras

	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	return &Pipeline{
		opts:     opts,
		renderer: render.New(opts.Placeholders.Policies()),
		console:  newConsole(opts.Stdout, opts.Verbose),
	}, nil
}

// Run executes one build. On a validation failure nothing is written and
// the returned error wraps ErrMissingInputDirectory or ErrMissingRequiredFile.
// A run cancelled through ctx also leaves the output directory untouched.
func (p *Pipeline) Run(ctx context.Context) (*manifest.Manifest, error) {
	m, err := p.run(ctx)
	if err != nil {
		runsTotal.WithLabelValues("aborted").Inc()
		return nil, err
	}

	runsTotal.WithLabelValues("completed").Inc()
	return m, nil
}

func (p *Pipeline) run(ctx context.Context) (*manifest.Manifest, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	tpl, err := p.read(assetgz.TemplateFile)
	if err != nil {
		return nil, err
	}
	css, err := p.read(assetgz.StylesheetFile)
	if err != nil {
		return nil, err
	}
	js, err := p.read(assetgz.ScriptFile)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cssHash := p.opts.HashAlgorithm.ContentHash(css)
	jsHash := p.opts.HashAlgorithm.ContentHash(js)

	p.console.detailf("Rendering %s...\n", assetgz.TemplateFile)
	page := []byte(p.renderer.Render(string(tpl), p.substitutions(cssHash, jsHash)))

	sources := []struct {
		name string
		data []byte
	}{
		{assetgz.PageFile, page},
		{assetgz.StylesheetFile, css},
		{assetgz.ScriptFile, js},
	}
	encodings := append([]compress.Encoding{compress.EncodingGzip}, p.opts.ExtraEncodings...)

	m := &manifest.Manifest{EmbedPrefix: p.opts.EmbedPrefix}
	var blobs [][]byte
	for _, src := range sources {
		for _, enc := range encodings {
			a, compressed, err := p.compress(src.name, src.data, enc)
			if err != nil {
				return nil, err
			}
			m.Artifacts = append(m.Artifacts, a)
			blobs = append(blobs, compressed)
		}
	}

	// Last cancellation point. Past here the run writes every output.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(p.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("can't create output directory %s: %w", p.opts.OutputDir, err)
	}

	if err := p.write(assetgz.PageFile, page); err != nil {
		return nil, err
	}
	p.console.successf("Generated %s (css=%s, js=%s)\n", assetgz.PageFile, cssHash, jsHash)
	slog.Debug("rendered page", "css", cssHash, "js", jsHash, "hash", p.opts.HashAlgorithm)

	for _, src := range sources {
		artifactBytes.WithLabelValues(src.name, "identity").Set(float64(len(src.data)))
	}

	p.console.detailf("\nCompressing:\n")
	for i, a := range m.Artifacts {
		if err := p.write(a.Name, blobs[i]); err != nil {
			return nil, err
		}

		artifactsWritten.WithLabelValues(a.Encoding.String()).Inc()
		artifactBytes.WithLabelValues(a.Source, a.Encoding.String()).Set(float64(a.CompressedSize))
		p.console.detailf("  Compressed: %s -> %s (%d -> %d bytes)\n", a.Source, a.Name, a.RawSize, a.CompressedSize)
		slog.Debug("wrote artifact", "artifact", a)
	}

	if err := p.report(m); err != nil {
		return nil, err
	}

	return m, nil
}

// substitutions maps each placeholder bound to a source to that source's
// hash.
func (p *Pipeline) substitutions(cssHash, jsHash string) map[string]string {
	result := map[string]string{}

	if token, ok := p.opts.Placeholders.TokenFor(config.SourceStylesheet); ok {
		result[token] = cssHash
	}
	if token, ok := p.opts.Placeholders.TokenFor(config.SourceScript); ok {
		result[token] = jsHash
	}

	return result
}

// validate checks every input before anything is read or written.
func (p *Pipeline) validate() error {
	dir := p.opts.InputDir

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		p.console.errorf("directory not found: %s\n", dir)
		p.console.listDir(filepath.Dir(dir))
		return fmt.Errorf("%w: %s", ErrMissingInputDirectory, dir)
	}

	var missing []string
	for _, name := range []string{assetgz.TemplateFile, assetgz.StylesheetFile, assetgz.ScriptFile} {
		st, err := os.Stat(filepath.Join(dir, name))
		if err != nil || st.IsDir() {
			missing = append(missing, name)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	p.console.errorf("missing files:\n")
	errs := make([]error, 0, len(missing))
	for _, name := range missing {
		p.console.printf("  - %s\n", name)
		errs = append(errs, fmt.Errorf("%w: %s", ErrMissingRequiredFile, filepath.Join(dir, name)))
	}
	p.console.listDir(dir)

	return errors.Join(errs...)
}

func (p *Pipeline) read(name string) ([]byte, error) {
	fname := filepath.Join(p.opts.InputDir, name)

	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, fmt.Errorf("can't read %s: %w", fname, err)
	}

	return data, nil
}

// compress encodes data in memory. Nothing touches the output directory
// until every artifact of the run has been produced.
func (p *Pipeline) compress(name string, data []byte, enc compress.Encoding) (manifest.Artifact, []byte, error) {
	compressed, err := compress.Compress(enc, data)
	if err != nil {
		return manifest.Artifact{}, nil, fmt.Errorf("can't compress %s: %w", name, err)
	}

	return manifest.Artifact{
		Source:         name,
		Name:           name + enc.Suffix(),
		Encoding:       enc,
		RawSize:        len(data),
		CompressedSize: len(compressed),
	}, compressed, nil
}

// write replaces name in the output directory atomically.
func (p *Pipeline) write(name string, data []byte) error {
	return writeFile(filepath.Join(p.opts.OutputDir, name), data)
}

func writeFile(fname string, data []byte) error {
	if err := atomic.WriteFile(fname, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("can't write %s: %w", fname, err)
	}

	if err := os.Chmod(fname, fileMode); err != nil {
		return fmt.Errorf("can't set mode of %s: %w", fname, err)
	}

	return nil
}

func (p *Pipeline) report(m *manifest.Manifest) error {
	p.console.printf("\n")
	if err := manifest.Report(p.opts.Stdout, m); err != nil {
		return fmt.Errorf("can't print manifest: %w", err)
	}

	if p.opts.HeaderPath != "" {
		var buf bytes.Buffer
		if err := manifest.Header(&buf, m, manifest.GuardName(p.opts.HeaderPath)); err != nil {
			return fmt.Errorf("can't render header: %w", err)
		}

		if err := writeFile(p.opts.HeaderPath, buf.Bytes()); err != nil {
			return err
		}
		p.console.successf("Wrote %s\n", p.opts.HeaderPath)
	}

	p.console.successf("All files processed\n")
	return nil
}
