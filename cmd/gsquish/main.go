package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/planbiir/gsquish/internal/config"
	"github.com/planbiir/gsquish/internal/logger"
	"github.com/planbiir/gsquish/internal/pipeline"
	"github.com/planbiir/gsquish/internal/simplify"
)

const version = "gsquish v1.0.0 - bounded-memory trajectory simplification"

// options holds the command line flags.
type options struct {
	input       string
	output      string
	algorithm   string
	ratio       float64
	errorBound  float64
	compression float64
	epsilon     float64
	step        int
	maxSpeed    float64
	configFile  string
	format      string
	workers     int
	logLevel    string
	dryRun      bool
	showStats   bool
	statsJSON   bool
	list        bool
	version     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.input, "i", "", "Input trajectory (.txt, .csv or .gpx)")
	flag.StringVar(&opts.output, "o", "", "Output file (default: <input>_simplified.<format>)")
	flag.StringVar(&opts.algorithm, "algo", "", "Algorithm: "+strings.Join(simplify.Names(), ", ")+" (default squish_e)")
	flag.Float64Var(&opts.ratio, "ratio", 0, "SQUISH-E compression ratio, input points per kept point")
	flag.Float64Var(&opts.errorBound, "error", 0, "SQUISH-E error bound for the final convergence")
	flag.Float64Var(&opts.compression, "compression", 0, "STTrace fraction of points to keep")
	flag.Float64Var(&opts.epsilon, "epsilon", 0, "Tolerance for opw, opw_tr, dead_reckoning and douglas_peucker")
	flag.IntVar(&opts.step, "step", 0, "Sampling step for uniform")
	flag.Float64Var(&opts.maxSpeed, "max-speed", 0, "Drop points reached faster than this many m/s (0 disables)")
	flag.StringVar(&opts.configFile, "config", "", "YAML configuration file")
	flag.StringVar(&opts.format, "format", "", "Output format: txt, csv, gpx or geojson (default: input format)")
	flag.IntVar(&opts.workers, "workers", 0, "Parallel trajectories in batch mode (0 = one per CPU)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.BoolVar(&opts.dryRun, "dry-run", false, "Show statistics without writing output files")
	flag.BoolVar(&opts.showStats, "stats", false, "Show detailed statistics")
	flag.BoolVar(&opts.statsJSON, "stats-json", false, "Output statistics as JSON")
	flag.BoolVar(&opts.list, "list", false, "List available algorithms")
	flag.BoolVar(&opts.version, "version", false, "Show version information")

	flag.Usage = func() {
		fmt.Printf("gsquish - Simplify GPS trajectories with bounded memory\n\n")
		fmt.Printf("usage: gsquish -i /path/to/track.txt [more tracks...]\n\n")
		fmt.Printf("examples:\n")
		fmt.Printf("  gsquish -i track.txt\n")
		fmt.Printf("  gsquish -i ride.gpx -algo sttrace -compression 0.2\n")
		fmt.Printf("  gsquish -i run.csv -ratio 20 -error 0.0001 -format geojson\n")
		fmt.Printf("  gsquish -config gsquish.yaml -workers 4 -i day1.gpx day2.gpx day3.gpx\n\n")
		fmt.Printf("options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if opts.version {
		fmt.Println(version)
		fmt.Println("https://github.com/planbiir/gsquish")
		os.Exit(0)
	}

	if opts.list {
		for _, name := range simplify.Names() {
			fmt.Println(name)
		}
		os.Exit(0)
	}

	inputs := flag.Args()
	if opts.input != "" {
		inputs = append([]string{opts.input}, inputs...)
	}
	if len(inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if opts.output != "" && len(inputs) > 1 {
		fmt.Fprintf(os.Stderr, "Error: -o can only be used with a single input\n")
		os.Exit(2)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := buildConfig(opts, set)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	defer logger.Sync()

	jobs := make([]pipeline.Job, len(inputs))
	for i, in := range inputs {
		jobs[i] = pipeline.Job{Input: in, Output: opts.output}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(cfg, logger.For(logger.ComponentPipeline))
	runner.DryRun = opts.dryRun

	if !opts.statsJSON {
		fmt.Printf("📖 Simplifying %d trajectory file(s) with %s\n", len(jobs), cfg.Algorithm)
	}
	reports, err := runner.RunBatch(ctx, jobs)

	if opts.statsJSON {
		data, jerr := pipeline.BatchJSON(reports)
		if jerr != nil {
			fmt.Fprintf(os.Stderr, "Error marshaling stats: %v\n", jerr)
			os.Exit(1)
		}
		fmt.Println(string(data))
	} else {
		for _, report := range reports {
			if report.RunID == "" || report.SimplifiedPoints == 0 {
				continue
			}
			if opts.showStats || opts.dryRun {
				printStats(report)
			} else {
				printSummary(report)
			}
		}
	}

	if err != nil {
		log.Debugw("run failed", "error", err)
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}

	if opts.dryRun {
		fmt.Printf("🔍 Dry run completed - no files written\n")
	}
}

// buildConfig layers the configuration file, then explicitly set flags, over
// the defaults.
func buildConfig(opts options, set map[string]bool) (*config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		loaded, err := config.Load(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if set["algo"] && opts.algorithm != cfg.Algorithm {
		// Parameters from the file belong to the algorithm it names.
		cfg.Algorithm = opts.algorithm
		cfg.Params = map[string]interface{}{}
	}

	params := map[string]struct {
		flag  string
		value interface{}
	}{
		"ratio":             {"ratio", opts.ratio},
		"error_bound":       {"error", opts.errorBound},
		"compression_ratio": {"compression", opts.compression},
		"epsilon":           {"epsilon", opts.epsilon},
		"step":              {"step", opts.step},
	}
	for key, p := range params {
		if set[p.flag] {
			cfg.Params[key] = p.value
		}
	}

	if set["max-speed"] {
		cfg.Clean.MaxSpeed = opts.maxSpeed
	}
	if set["format"] {
		cfg.Output.Format = opts.format
	}
	if set["workers"] {
		cfg.Workers = opts.workers
	}
	if set["log-level"] {
		cfg.LogLevel = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printSummary(r pipeline.Report) {
	if r.Output != "" {
		fmt.Printf("💾 %s → %s\n", r.Input, r.Output)
	}
	fmt.Printf("✅ %d → %d points (%.1f%% removed), max SED %.6g\n",
		r.OriginalPoints, r.SimplifiedPoints, r.PointsPercent, r.MaxSED)
}

func printStats(r pipeline.Report) {
	fmt.Printf("\n📊 Simplification Statistics: %s\n", r.Input)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	fmt.Printf("🧮 Algorithm: %s\n", r.Metadata)
	fmt.Printf("📍 Points: %d → %d cleaned → %d kept (%.1f%% removed, ratio %.1f)\n",
		r.OriginalPoints, r.CleanedPoints, r.SimplifiedPoints, r.PointsPercent, r.CompressionRatio)
	fmt.Printf("📏 Length: %.2f → %.2f km\n", r.OriginalLength, r.SimplifiedLength)
	fmt.Printf("🎯 SED: max %.6g, mean %.6g\n", r.MaxSED, r.MeanSED)
	fmt.Printf("🧹 Cleaning: %d non-finite, %d zero, %d out of order, %d duplicates, %d too fast\n",
		r.Clean.NonFinite, r.Clean.ZeroCoordinates, r.Clean.OutOfOrder, r.Clean.Duplicates, r.Clean.TooFast)
	fmt.Printf("⚡ Speed Detection: %s, P95=%.1f m/s\n", r.Clean.ActivityType, r.Clean.P95Speed)
	if r.Buffer != nil {
		fmt.Printf("🔄 Buffer: %d inserted, %d evicted while streaming, %d at convergence, max compensation %.6g\n",
			r.Buffer.Inserted, r.Buffer.Evicted, r.Buffer.Converged, r.Buffer.MaxCompensation)
	}
	fmt.Printf("⏱️  Processing Time: %v\n", r.ProcessingTime)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
}
