// Package pipeline reads the time from a clock photograph.
//
// A Detector reduces the photograph to a silhouette of the hands, scans it
// radially around the dial center, picks three separated hands and converts
// their angles to a clock.Time. Intermediate images are handed to a
// debug.Debugger by stage name.
package pipeline

import (
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/clockread/internal/clock"
	"github.com/ironsheep/clockread/internal/config"
	"github.com/ironsheep/clockread/internal/debug"
	"github.com/ironsheep/clockread/internal/detection"
	"github.com/ironsheep/clockread/internal/imaging"
)

// Debug artifact names, in the order they are produced.
const (
	StageGrayscale  = "grayscale"
	StageDialCenter = "dial-center"
	StageDialEdges  = "dial-edges"
	StageSilhouette = "silhouette"
	StageHands      = "hands"
)

// Result is a successful reading.
type Result struct {
	Time   clock.Time       `json:"time"`
	Center imaging.Point    `json:"center"`
	Hands  []detection.Hand `json:"hands"`
	Hour   detection.Hand   `json:"hour"`
	Minute detection.Hand   `json:"minute"`
	Second detection.Hand   `json:"second"`
}

// Detector reads clock images. It is immutable after construction and safe
// for concurrent use.
type Detector struct {
	cfg          config.DetectionConfig
	handColor    imaging.RGBAColor
	overlayColor imaging.RGBAColor

	// Verbose enables per-stage log output.
	Verbose bool
}

// NewDetector validates cfg and returns a Detector.
func NewDetector(cfg config.DetectionConfig) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid detection config: %w", err)
	}
	hand, err := imaging.ParseColor(cfg.HandColor)
	if err != nil {
		return nil, err
	}
	overlay, err := imaging.ParseColor(cfg.OverlayColor)
	if err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg, handColor: hand, overlayColor: overlay}, nil
}

// Config returns the detection configuration.
func (d *Detector) Config() config.DetectionConfig {
	return d.cfg
}

// DetectFile opens path and reads the time from it.
func (d *Detector) DetectFile(path string, dbg debug.Debugger) (*Result, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, err
	}
	return d.Detect(img, dbg)
}

// DetectTime is Detect returning only the time.
func (d *Detector) DetectTime(img image.Image, dbg debug.Debugger) (clock.Time, error) {
	res, err := d.Detect(img, dbg)
	if err != nil {
		return clock.Time{}, err
	}
	return res.Time, nil
}

// Detect reads the time shown on the clock in img.
//
// A nil dbg discards debug artifacts. Debugger failures are logged and never
// affect the result. If fewer than three separated hands are found the error
// wraps detection.ErrDetection.
func (d *Detector) Detect(img image.Image, dbg debug.Debugger) (*Result, error) {
	if dbg == nil {
		dbg = debug.Nop{}
	}
	if img.Bounds().Min != (image.Point{}) {
		img = imaging.Canvas(img)
	}
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("empty image")
	}

	center := d.center(bounds)
	d.logf("center %v, image %dx%d", center, bounds.Dx(), bounds.Dy())

	gray := imaging.Grayscale(img)
	d.save(dbg, StageGrayscale, gray)

	region := imaging.CenterRegion(bounds, center, d.cfg.CenterCropPx)
	if crop := imaging.CropCenter(img, center, d.cfg.CenterCropPx); crop != nil {
		d.save(dbg, StageDialCenter, crop)
		d.save(dbg, StageDialEdges, imaging.Edges(crop))
	}

	silhouette := imaging.Binarize(gray, imaging.BinarizeOptions{
		Level:      d.cfg.ThresholdLevel,
		Invert:     d.cfg.DarkHands,
		BlurRadius: d.cfg.BlurRadius,
	})
	d.save(dbg, StageSilhouette, silhouette)

	maxRadius := d.cfg.MaxRadiusPx
	if maxRadius == 0 {
		maxRadius = min(bounds.Dx(), bounds.Dy()) / 2
	}

	candidates := detection.FindLine(silhouette, center, d.cfg.AngleStepDeg, d.cfg.MinRadiusPx, maxRadius, d.handColor)
	d.logf("scanned %d angles, radius %d-%d", len(candidates), d.cfg.MinRadiusPx, maxRadius)

	hands, err := detection.SelectBestHands(candidates, d.cfg.MinSeparationDeg, detection.HandCount)
	if err != nil {
		return nil, err
	}
	hour, minute, second, err := detection.AssignRoles(hands)
	if err != nil {
		return nil, err
	}

	if err := dbg.SaveImageWithOverlays(StageHands, img, debug.Overlay{
		Hands:   hands,
		Regions: []image.Rectangle{region},
		Color:   d.overlayColor,
	}); err != nil {
		log.Printf("Failed to save debug artifact %s: %v", StageHands, err)
	}

	res := &Result{
		Time:   detection.HandsToTime(hour, minute, second),
		Center: center,
		Hands:  hands,
		Hour:   hour,
		Minute: minute,
		Second: second,
	}
	d.logf("hands %.1f/%.1f/%.1f deg -> %s", hour.AngleDeg, minute.AngleDeg, second.AngleDeg, res.Time)
	return res, nil
}

func (d *Detector) center(bounds image.Rectangle) imaging.Point {
	if d.cfg.Center != nil {
		return *d.cfg.Center
	}
	return imaging.Point{X: bounds.Dx() / 2, Y: bounds.Dy() / 2}
}

func (d *Detector) save(dbg debug.Debugger, name string, img image.Image) {
	if err := dbg.SaveImage(name, img); err != nil {
		log.Printf("Failed to save debug artifact %s: %v", name, err)
	}
}

func (d *Detector) logf(format string, args ...any) {
	if d.Verbose {
		log.Printf(format, args...)
	}
}
