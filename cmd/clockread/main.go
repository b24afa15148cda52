package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ironsheep/clockread/internal/config"
	"github.com/ironsheep/clockread/internal/debug"
	"github.com/ironsheep/clockread/internal/evaluation"
	"github.com/ironsheep/clockread/internal/pipeline"
	"github.com/ironsheep/clockread/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Configure logging to stderr (stdout carries reports and the MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if len(os.Args) < 2 {
		printUsage(os.Stderr)
		os.Exit(2)
	}

	cmd, args := os.Args[1], os.Args[2:]
	var err error
	switch cmd {
	case "evaluate":
		err = runEvaluate(args)
	case "detect":
		err = runDetect(args)
	case "report":
		err = runReport(args)
	case "serve":
		err = runServe(args)
	case "config":
		err = runConfig(args)
	case "--version", "-v", "version":
		fmt.Printf("clockread %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
		return
	case "--help", "-h", "help":
		printUsage(os.Stdout)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printUsage(os.Stderr)
		os.Exit(2)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "clockread - read the time from analog clock photographs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage: clockread <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  evaluate    Read every corpus image and print the accuracy report")
	fmt.Fprintln(w, "  detect      Read the time from the given images")
	fmt.Fprintln(w, "  report      Print the accuracy report of an existing result directory")
	fmt.Fprintln(w, "  serve       Run the MCP server over stdin/stdout")
	fmt.Fprintln(w, "  config      Print the effective configuration, or write it with -write")
	fmt.Fprintln(w, "  version     Print version information")
	fmt.Fprintln(w, "  help        Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'clockread <command> -h' for the options of a command.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s     Corpus directory\n", config.EnvCorpusDir)
	fmt.Fprintf(w, "  %s    Result directory\n", config.EnvResultsDir)
	fmt.Fprintf(w, "  %s        Worker count (0 = one per CPU)\n", config.EnvWorkers)
	fmt.Fprintf(w, "  %s=debug    Enable debug logging\n", config.EnvLogLevel)
}

// loadConfig reads path, or the default config file when it exists, and
// applies the environment on top.
func loadConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if path == "" {
		if _, err := os.Stat(config.GetConfigPath()); err == nil {
			path = config.GetConfigPath()
		}
	}
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if cfg.Verbose {
		log.Printf("clockread v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}
	return cfg, nil
}

// thresholdsFlag parses a comma-separated list of seconds.
type thresholdsFlag []float64

func (f *thresholdsFlag) String() string {
	parts := make([]string, len(*f))
	for i, v := range *f {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (f *thresholdsFlag) Set(s string) error {
	var out []float64
	for _, p := range strings.Split(s, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("invalid threshold %q", p)
		}
		out = append(out, v)
	}
	*f = out
	return nil
}

func runEvaluate(args []string) error {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	configPath := fs.String("config", "", "configuration file")
	corpus := fs.String("corpus", "", "corpus directory")
	results := fs.String("results", "", "result directory")
	steps := fs.String("steps", "", "debug image directory")
	ext := fs.String("ext", "", "image extension")
	workers := fs.Int("j", -1, "worker count (0 = one per CPU)")
	fail := fs.Float64("fail", -1, "largest error in seconds counted as success")
	var thresholds thresholdsFlag
	fs.Var(&thresholds, "thresholds", "comma-separated accuracy thresholds in seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *corpus != "" {
		cfg.Evaluation.CorpusDir = *corpus
	}
	if *results != "" {
		cfg.Evaluation.ResultsDir = *results
	}
	if *steps != "" {
		cfg.Evaluation.StepsDir = *steps
	}
	if *ext != "" {
		cfg.Evaluation.ImageExt = *ext
	}
	if *workers >= 0 {
		cfg.Evaluation.Workers = *workers
	}
	if *fail >= 0 {
		cfg.Evaluation.FailThresholdSeconds = *fail
	}
	if len(thresholds) > 0 {
		cfg.Evaluation.AccuracyThresholds = thresholds
	}

	h, err := evaluation.NewHarness(cfg)
	if err != nil {
		return err
	}
	report, summary, err := h.Evaluate(cfg.Evaluation.AccuracyThresholds)
	if err != nil {
		if summary != nil {
			log.Printf("%d of %d images could not be read", len(summary.Failures), summary.Total)
		}
		return err
	}
	return evaluation.PrintReport(os.Stdout, report, summary)
}

func runDetect(args []string) error {
	fs := flag.NewFlagSet("detect", flag.ContinueOnError)
	configPath := fs.String("config", "", "configuration file")
	debugDir := fs.String("debug", "", "directory for intermediate images, one subdirectory per image")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("no images given")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	det, err := pipeline.NewDetector(cfg.Detection)
	if err != nil {
		return err
	}
	det.Verbose = cfg.Verbose

	failed := 0
	for i, path := range fs.Args() {
		var dbg debug.Debugger
		if *debugDir != "" {
			rec, err := debug.NewRecorder(filepath.Join(*debugDir, fmt.Sprintf("%02d", i+1)), cfg.Evaluation.ImageExt)
			if err != nil {
				return err
			}
			dbg = rec
		}

		res, err := det.DetectFile(path, dbg)
		if err != nil {
			log.Printf("%s: %v", path, err)
			failed++
			continue
		}
		fmt.Printf("%s: %s\n", path, res.Time)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images could not be read", failed, fs.NArg())
	}
	return nil
}

func runReport(args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	configPath := fs.String("config", "", "configuration file")
	results := fs.String("results", "", "result directory")
	ext := fs.String("ext", "", "result image extension")
	var thresholds thresholdsFlag
	fs.Var(&thresholds, "thresholds", "comma-separated accuracy thresholds in seconds")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *results != "" {
		cfg.Evaluation.ResultsDir = *results
	}
	if *ext != "" {
		cfg.Evaluation.ImageExt = *ext
	}
	if len(thresholds) > 0 {
		cfg.Evaluation.AccuracyThresholds = thresholds
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	outcomes, err := evaluation.ReadResults(cfg.Evaluation.ResultsDir, cfg.Evaluation.ImageExt)
	if err != nil {
		return err
	}
	report, err := evaluation.BuildReport(outcomes, cfg.Evaluation.AccuracyThresholds)
	if err != nil {
		return err
	}
	return evaluation.PrintReport(os.Stdout, report, nil)
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	server.Version = Version
	srv, err := server.New(cfg)
	if err != nil {
		return err
	}
	return srv.Run()
}

func runConfig(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	configPath := fs.String("config", "", "configuration file")
	write := fs.String("write", "", "write the effective configuration to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if *write != "" {
		if err := cfg.SaveToFile(*write); err != nil {
			return err
		}
		log.Printf("Configuration written to %s", *write)
		return nil
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(cfg)
}
