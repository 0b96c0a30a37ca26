package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/facebookgo/flagenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/airmon/assetgz"
	"github.com/airmon/assetgz/internal"
	libassetgz "github.com/airmon/assetgz/lib"
	"github.com/airmon/assetgz/lib/compress"
)

var (
	inputDir          = flag.String("input-dir", assetgz.DefaultInputDir, "directory holding page.template.html, style.css and script.js")
	outputDir         = flag.String("output-dir", "", "directory to write page.html and the compressed files to (defaults to input-dir)")
	placeholdersFname = flag.String("placeholders", "", "full path to a YAML placeholder document (defaults to the built-in placeholders)")
	hashAlgorithm     = flag.String("hash", string(internal.HashSHA1), "digest used for cache-busting tokens: sha1, sha256 or blake3")
	extraEncodings    = flag.String("extra-encodings", "", "comma separated encodings written next to the gzip files, e.g. zstd,br")
	verbose           = flag.Bool("verbose", false, "print per-file progress and list directory contents when inputs are missing")
	embedPrefix       = flag.String("embed-prefix", assetgz.DefaultEmbedPrefix, "path prefix printed for EMBED_FILES entries; pass an empty value for bare file names")
	cHeader           = flag.String("c-header", "", "if set, write a C header declaring the embedded symbols to this path")
	metricsTextfile   = flag.String("metrics-textfile", "", "if set, write build metrics in Prometheus text format to this path")
	slogLevel         = flag.String("slog-level", "INFO", "logging level (see https://pkg.go.dev/log/slog#hdr-Levels)")
	versionFlag       = flag.Bool("version", false, "print assetgz version")
)

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(os.Stderr, "  %s [--input-dir=data] [--output-dir=dir]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(2)
	}
}

func parseEncodings(list string) ([]compress.Encoding, error) {
	var result []compress.Encoding

	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		enc, err := compress.ParseEncoding(name)
		if err != nil {
			return nil, err
		}
		result = append(result, enc)
	}

	return result, nil
}

// build runs p once and returns the process exit status: 0 when the run
// completed, 1 when it was aborted.
func build(ctx context.Context, p *libassetgz.Pipeline, metricsPath string) int {
	_, runErr := p.Run(ctx)

	if metricsPath != "" {
		if err := prometheus.WriteToTextfile(metricsPath, prometheus.DefaultGatherer); err != nil {
			slog.Error("can't write metrics", "path", metricsPath, "err", err)
		}
	}

	if runErr != nil {
		slog.Error("build aborted", "err", runErr)
		return 1
	}

	return 0
}

func main() {
	flagenv.Parse()
	flag.Parse()

	if *versionFlag {
		fmt.Println("assetgz", assetgz.Version)
		return
	}

	internal.InitSlog(*slogLevel)

	if flag.NArg() != 0 {
		flag.Usage()
	}

	alg, err := internal.ParseHashAlgorithm(*hashAlgorithm)
	if err != nil {
		log.Fatalf("can't use --hash: %v", err)
	}

	encodings, err := parseEncodings(*extraEncodings)
	if err != nil {
		log.Fatalf("can't parse --extra-encodings: %v", err)
	}

	placeholders, err := libassetgz.LoadPlaceholdersOrDefault(*placeholdersFname)
	if err != nil {
		log.Fatalf("can't load placeholders: %v", err)
	}

	p, err := libassetgz.New(libassetgz.Options{
		InputDir:       *inputDir,
		OutputDir:      *outputDir,
		Placeholders:   placeholders,
		HashAlgorithm:  alg,
		ExtraEncodings: encodings,
		Verbose:        *verbose,
		EmbedPrefix:    *embedPrefix,
		HeaderPath:     *cHeader,
		Stdout:         os.Stdout,
	})
	if err != nil {
		log.Fatalf("can't construct pipeline: %v", err)
	}

	slog.Debug(
		"starting build",
		"input-dir", *inputDir,
		"output-dir", *outputDir,
		"hash", alg,
		"extra-encodings", *extraEncodings,
		"version", assetgz.Version,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := build(ctx, p, *metricsTextfile)
	stop()

	os.Exit(code)
}
