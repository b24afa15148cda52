package evaluation

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/clockread/internal/clock"
	"github.com/ironsheep/clockread/internal/config"
	"github.com/ironsheep/clockread/internal/debug"
	"github.com/ironsheep/clockread/internal/pipeline"
)

// Harness runs the detector over a labeled corpus.
//
// Corpus images are named after the time they show, in 24-hour form:
// "{CorpusDir}/13:05:42.120.bmp". For every image the harness writes the debug
// artifacts to "{StepsDir}/{label}/" and a copy of the hands overlay to
// "{ResultsDir}/{Encode(outcome)}.{Ext}".
type Harness struct {
	Detector             *pipeline.Detector
	CorpusDir            string
	ResultsDir           string
	StepsDir             string
	Ext                  string
	FailThresholdSeconds float64

	// Workers bounds the number of images processed at once. 0 means one per CPU.
	Workers int
}

// ImageFailure records an image that produced no outcome.
type ImageFailure struct {
	Image string `json:"image"`
	Err   error  `json:"-"`
}

// Error implements error.
func (f ImageFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Image, f.Err)
}

// Summary is the result of one pass over the corpus. Failed images are listed
// in Failures and are not part of Outcomes.
type Summary struct {
	Total    int            `json:"total"`
	Outcomes []Outcome      `json:"outcomes"`
	Failures []ImageFailure `json:"failures"`
}

// NewHarness builds a Harness from the application configuration.
func NewHarness(cfg *config.Config) (*Harness, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	det, err := pipeline.NewDetector(cfg.Detection)
	if err != nil {
		return nil, err
	}
	det.Verbose = cfg.Verbose

	e := cfg.Evaluation
	return &Harness{
		Detector:             det,
		CorpusDir:            e.CorpusDir,
		ResultsDir:           e.ResultsDir,
		StepsDir:             e.StepsDir,
		Ext:                  strings.TrimPrefix(e.ImageExt, "."),
		FailThresholdSeconds: e.FailThresholdSeconds,
		Workers:              e.Workers,
	}, nil
}

// Images lists the corpus images in name order.
func (h *Harness) Images() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(h.CorpusDir, "*."+h.Ext))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	images := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			images = append(images, m)
		}
	}
	return images, nil
}

// Run processes every corpus image.
//
// An empty corpus fails with ErrConfiguration before any image is read. Result
// files left by an earlier run are removed first. Errors
// of single images, including panics, are logged and collected in
// Summary.Failures; they never stop the run.
func (h *Harness) Run() (*Summary, error) {
	images, err := h.Images()
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("%w: no *.%s images in %s", ErrConfiguration, h.Ext, h.CorpusDir)
	}

	for _, dir := range []string{h.ResultsDir, h.StepsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := h.clearResults(); err != nil {
		return nil, err
	}

	workers := h.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	outcomes := make([]*Outcome, len(images))
	failures := make([]error, len(images))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, path := range images {
		g.Go(func() error {
			o, err := h.runImage(path)
			if err != nil {
				failures[i] = err
				log.Printf("%s: %v", filepath.Base(path), err)
				return nil
			}
			outcomes[i] = &o
			log.Printf("%s: error %.1f s", filepath.Base(path), o.ErrorSeconds)
			return nil
		})
	}
	_ = g.Wait()

	summary := &Summary{Total: len(images)}
	for i := range images {
		if outcomes[i] != nil {
			summary.Outcomes = append(summary.Outcomes, *outcomes[i])
		} else {
			summary.Failures = append(summary.Failures, ImageFailure{
				Image: filepath.Base(images[i]),
				Err:   failures[i],
			})
		}
	}
	return summary, nil
}

// Evaluate runs the corpus and reports on the result directory. The report
// fails with ErrSampleCount unless every scored image left exactly one result.
func (h *Harness) Evaluate(thresholds []float64) (*Report, *Summary, error) {
	summary, err := h.Run()
	if err != nil {
		return nil, nil, err
	}
	outcomes, err := ReadResults(h.ResultsDir, h.Ext)
	if err != nil {
		return nil, summary, err
	}
	if len(outcomes) != len(summary.Outcomes) {
		return nil, summary, fmt.Errorf("%w: %d results in %s, %d images scored",
			ErrSampleCount, len(outcomes), h.ResultsDir, len(summary.Outcomes))
	}
	report, err := BuildReport(outcomes, thresholds)
	if err != nil {
		return nil, summary, err
	}
	return report, summary, nil
}

func (h *Harness) runImage(path string) (o Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	base := filepath.Base(path)
	label := strings.TrimSuffix(base, filepath.Ext(base))
	expected, err := clock.ParseLabel(label)
	if err != nil {
		return Outcome{}, err
	}

	rec, err := debug.NewRecorder(filepath.Join(h.StepsDir, label), h.Ext)
	if err != nil {
		return Outcome{}, err
	}

	res, err := h.Detector.DetectFile(path, rec)
	if err != nil {
		return Outcome{}, err
	}

	delta, ok := CheckResult(expected, res.Time, h.FailThresholdSeconds)
	o = Outcome{
		Success:      ok,
		ErrorSeconds: delta,
		Detected:     res.Time.TwelveHour(),
		Expected:     expected.TwelveHour(),
	}

	artifact, err := rec.ArtifactPath(pipeline.StageHands)
	if err != nil {
		return Outcome{}, err
	}
	dst := filepath.Join(h.ResultsDir, Encode(o)+"."+h.Ext)
	if err := copyFile(artifact, dst); err != nil {
		return Outcome{}, err
	}
	return o, nil
}

// clearResults removes the result files in ResultsDir. Files whose names are
// not results are kept.
func (h *Harness) clearResults() error {
	paths, err := filepath.Glob(filepath.Join(h.ResultsDir, "*."+h.Ext))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	for _, p := range paths {
		if _, err := DecodeFileName(p); err != nil {
			continue
		}
		if err := os.Remove(p); err != nil {
			return fmt.Errorf("failed to remove stale result: %w", err)
		}
	}
	return nil
}

// copyFile copies src to dst through a temporary file in dst's directory, so
// that dst either does not exist or is complete. An existing dst is never
// replaced; the error then wraps ErrDuplicateResult.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".clockread-*.partial")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to copy %s: %w", src, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Link(tmp.Name(), dst); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrDuplicateResult, filepath.Base(dst))
		}
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}
