package debug

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ironsheep/clockread/internal/imaging"
)

// Recorder is a Debugger that saves every artifact as an image file in one
// directory. Files are named "NN-name.ext" in save order.
//
// Recorder is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	dir   string
	ext   string
	seq   int
	paths map[string]string
	order []string
}

// NewRecorder creates dir if needed and returns a Recorder writing files with
// the given extension ("bmp", ".png", ...).
func NewRecorder(dir, ext string) (*Recorder, error) {
	ext = strings.TrimPrefix(ext, ".")
	if !imaging.SupportedExtension(ext) {
		return nil, fmt.Errorf("unsupported debug image format %q", ext)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create debug directory %s: %w", dir, err)
	}
	return &Recorder{
		dir:   dir,
		ext:   ext,
		paths: make(map[string]string),
	}, nil
}

// Dir returns the directory artifacts are written to.
func (r *Recorder) Dir() string {
	return r.dir
}

// SaveImage writes img under name.
func (r *Recorder) SaveImage(name string, img image.Image) error {
	if err := validateName(name); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.paths[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateArtifact, name)
	}

	path := filepath.Join(r.dir, fmt.Sprintf("%02d-%s.%s", r.seq+1, name, r.ext))
	if err := imaging.Save(img, path); err != nil {
		return err
	}

	r.seq++
	r.paths[name] = path
	r.order = append(r.order, name)
	return nil
}

// SaveImageWithOverlays renders overlay on a copy of img and saves the result.
func (r *Recorder) SaveImageWithOverlays(name string, img image.Image, overlay Overlay) error {
	return r.SaveImage(name, Render(img, overlay))
}

// ArtifactPath returns the file written for name.
func (r *Recorder) ArtifactPath(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path, ok := r.paths[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoArtifact, name)
	}
	return path, nil
}

// Artifacts returns the saved names in save order.
func (r *Recorder) Artifacts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
