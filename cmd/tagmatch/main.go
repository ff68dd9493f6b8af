// Command tagmatch vectorizes tagged images and reports, for each distance
// metric, the image nearest a query image.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/23skdu/tagmatch/internal/benchmark"
	"github.com/23skdu/tagmatch/internal/corpus"
	"github.com/23skdu/tagmatch/internal/covariance"
	"github.com/23skdu/tagmatch/internal/errors"
	"github.com/23skdu/tagmatch/internal/logging"
	"github.com/23skdu/tagmatch/internal/metrics"
	"github.com/23skdu/tagmatch/internal/search"
	"github.com/23skdu/tagmatch/internal/tagging"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// options are the per-invocation flags; everything else comes from Config.
type options struct {
	CorpusPath string
	QueryPath  string
	BenchIters int
}

func main() {
	corpusPath := flag.String("corpus", "", "JSON file with the tagged items to search")
	queryPath := flag.String("query", "", "JSON file whose first item is the query")
	benchIters := flag.Int("bench", 0, "Time each metric over this many searches (0 disables)")
	envFile := flag.String("env", ".env", "Optional dotenv file loaded before reading TAGMATCH_* variables")
	flag.Parse()

	_ = godotenv.Load(*envFile)

	var cfg Config
	if err := envconfig.Process("TAGMATCH", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if err := ValidateConfig(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	logger, err := logging.NewLogger(logging.Config{Format: cfg.LogFormat, Level: cfg.LogLevel, Output: os.Stderr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}

	if cfg.MetricsAddr != "" {
		go func() {
			logger.Info().Str("address", cfg.MetricsAddr).Msg("Starting metrics server")
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				logger.Error().Err(err).Msg("Metrics server stopped")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := options{CorpusPath: *corpusPath, QueryPath: *queryPath, BenchIters: *benchIters}
	if err := run(ctx, &cfg, opts, os.Stdout, logger); err != nil {
		logger.Error().Err(err).Msg("tagmatch failed")
		os.Exit(1)
	}
}

// run loads the corpus and query, searches under every configured metric and
// writes one line per metric to out.
//
//nolint:gocritic // Logger passed by value for simplicity
func run(ctx context.Context, cfg *Config, opts options, out io.Writer, logger zerolog.Logger) error {
	if opts.CorpusPath == "" || opts.QueryPath == "" {
		return errors.NewConfigurationError("run", "both -corpus and -query are required")
	}

	loaded, err := tagging.LoadFile(opts.CorpusPath)
	if err != nil {
		return err
	}
	items, err := tagging.ExtractAll(ctx, tagging.NewStatic(loaded), tagging.IDs(loaded), cfg.ExtractWorkers)
	if err != nil {
		return err
	}

	queries, err := tagging.LoadFile(opts.QueryPath)
	if err != nil {
		return err
	}
	if len(queries) == 0 {
		return errors.NewConfigurationError("run", "query file has no items")
	}
	query := queries[0]

	mem := memory.NewGoAllocator()
	var c *corpus.Corpus
	if cfg.ExtendVocabulary {
		c, err = corpus.BuildWithVocabulary(mem, items, query.Labels)
	} else {
		c, err = corpus.BuildWithVocabulary(mem, items)
	}
	if err != nil {
		return err
	}
	defer c.Release()

	v := c.Vocabulary()
	if dropped := v.Dropped(query.Labels); len(dropped) > 0 {
		metrics.DroppedLabelsTotal.Add(float64(len(dropped)))
		logger.Warn().
			Str("query", query.ID).
			Strs("labels", dropped).
			Msg("Query labels outside the vocabulary were ignored")
	}
	queryVec := v.Vectorize(query.Labels)

	logger.Info().
		Int("items", c.Len()).
		Int("dimensions", c.Dim()).
		Str("query", query.ID).
		Msg("Corpus ready")

	searcher := search.NewSearcher(logger, search.Options{
		Parallel: cfg.Parallel,
		Inverses: covariance.NewEstimator(logger, cfg.EstimatorOptions()),
	})

	kinds := cfg.Kinds()
	results, err := searcher.NearestAll(ctx, queryVec, c, kinds)
	if err != nil {
		return err
	}
	if err := printResults(out, results); err != nil {
		return err
	}

	if opts.BenchIters > 0 {
		timings, err := benchmark.Run(ctx, searcher, queryVec, c, kinds, opts.BenchIters)
		if err != nil {
			return err
		}
		return printTimings(out, timings)
	}
	return nil
}

func printResults(out io.Writer, results []search.Result) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METRIC\tNEAREST\tDISTANCE\tELAPSED")
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "%s\terror: %v\t-\t%s\n", r.Kind, r.Err, r.Elapsed)
		case !r.Match.Found:
			fmt.Fprintf(w, "%s\tno match\t-\t%s\n", r.Kind, r.Elapsed)
		default:
			fmt.Fprintf(w, "%s\t%s\t%.6f\t%s\n", r.Kind, r.Match.ID, r.Match.Distance, r.Elapsed)
		}
	}
	return w.Flush()
}

func printTimings(out io.Writer, timings []benchmark.Timing) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nMETRIC\tRUNS\tMEAN\tMAX\tTOTAL")
	for _, t := range timings {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", t.Kind, t.Iterations, t.Mean, t.Max, t.Total)
	}
	return w.Flush()
}
