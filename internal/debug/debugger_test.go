package debug

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ironsheep/clockread/internal/detection"
	"github.com/ironsheep/clockread/internal/imaging"
)

// createTestImage creates a solid color image.
func createTestImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestNop(t *testing.T) {
	var d Debugger = Nop{}
	img := createTestImage(10, 10, color.White)

	if err := d.SaveImage("grayscale", img); err != nil {
		t.Errorf("SaveImage failed: %v", err)
	}
	if err := d.SaveImage("grayscale", img); err != nil {
		t.Errorf("Nop should accept repeated names: %v", err)
	}
	if err := d.SaveImageWithOverlays("hands", img, Overlay{}); err != nil {
		t.Errorf("SaveImageWithOverlays failed: %v", err)
	}
	if _, err := d.ArtifactPath("hands"); !errors.Is(err, ErrNoArtifact) {
		t.Errorf("Expected ErrNoArtifact, got %v", err)
	}
}

func TestRecorder_SaveImage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "steps", "10:15:30.250")
	r, err := NewRecorder(dir, "bmp")
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}
	if r.Dir() != dir {
		t.Errorf("Dir() = %s, want %s", r.Dir(), dir)
	}

	img := createTestImage(20, 10, color.Black)
	if err := r.SaveImage("grayscale", img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	if err := r.SaveImage("silhouette", img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	tests := []struct {
		name string
		file string
	}{
		{"grayscale", "01-grayscale.bmp"},
		{"silhouette", "02-silhouette.bmp"},
	}

	for _, tt := range tests {
		path, err := r.ArtifactPath(tt.name)
		if err != nil {
			t.Fatalf("ArtifactPath(%s) failed: %v", tt.name, err)
		}
		if want := filepath.Join(dir, tt.file); path != want {
			t.Errorf("ArtifactPath(%s) = %s, want %s", tt.name, path, want)
		}
		saved, err := imaging.Open(path)
		if err != nil {
			t.Fatalf("artifact %s not readable: %v", path, err)
		}
		if saved.Bounds().Dx() != 20 || saved.Bounds().Dy() != 10 {
			t.Errorf("artifact %s has size %v", path, saved.Bounds())
		}
	}

	names := r.Artifacts()
	if len(names) != 2 || names[0] != "grayscale" || names[1] != "silhouette" {
		t.Errorf("Artifacts() = %v", names)
	}
}

func TestRecorder_DuplicateName(t *testing.T) {
	r, err := NewRecorder(t.TempDir(), ".png")
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}
	img := createTestImage(4, 4, color.White)

	if err := r.SaveImage("hands", img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}
	err = r.SaveImageWithOverlays("hands", img, Overlay{})
	if !errors.Is(err, ErrDuplicateArtifact) {
		t.Fatalf("Expected ErrDuplicateArtifact, got %v", err)
	}

	entries, err := os.ReadDir(r.Dir())
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("Expected 1 file, got %d", len(entries))
	}
}

func TestRecorder_InvalidNames(t *testing.T) {
	r, err := NewRecorder(t.TempDir(), "png")
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}
	img := createTestImage(4, 4, color.White)

	for _, name := range []string{"", "a/b", `a\b`} {
		if err := r.SaveImage(name, img); err == nil {
			t.Errorf("SaveImage(%q) should fail", name)
		}
	}
}

func TestRecorder_UnknownArtifact(t *testing.T) {
	r, err := NewRecorder(t.TempDir(), "png")
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}
	if _, err := r.ArtifactPath("hands"); !errors.Is(err, ErrNoArtifact) {
		t.Errorf("Expected ErrNoArtifact, got %v", err)
	}
}

func TestNewRecorder_UnsupportedExtension(t *testing.T) {
	if _, err := NewRecorder(t.TempDir(), "xyz"); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}

func TestRecorder_ConcurrentSaves(t *testing.T) {
	r, err := NewRecorder(t.TempDir(), "png")
	if err != nil {
		t.Fatalf("NewRecorder failed: %v", err)
	}
	img := createTestImage(4, 4, color.White)

	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	var wg sync.WaitGroup
	for _, n := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if err := r.SaveImage(name, img); err != nil {
				t.Errorf("SaveImage(%s) failed: %v", name, err)
			}
		}(n)
	}
	wg.Wait()

	if got := len(r.Artifacts()); got != len(names) {
		t.Errorf("Expected %d artifacts, got %d", len(names), got)
	}
	seen := make(map[string]bool)
	for _, n := range names {
		path, err := r.ArtifactPath(n)
		if err != nil {
			t.Fatalf("ArtifactPath(%s) failed: %v", n, err)
		}
		if seen[path] {
			t.Errorf("path %s used twice", path)
		}
		seen[path] = true
	}
}

func TestRender(t *testing.T) {
	src := createTestImage(100, 100, color.White)
	hands := []detection.Hand{
		{Label: "1 hand", Origin: imaging.Point{X: 50, Y: 50}, AngleDeg: 0, LengthPx: 40},
		{Label: "2 hand", Origin: imaging.Point{X: 50, Y: 50}, AngleDeg: 90, LengthPx: 30},
	}
	before := make([]detection.Hand, len(hands))
	copy(before, hands)

	out := Render(src, Overlay{
		Hands:   hands,
		Regions: []image.Rectangle{image.Rect(5, 5, 20, 20)},
	})

	red := color.NRGBA{R: 255, A: 255}
	for _, p := range []image.Point{{50, 30}, {65, 50}, {5, 5}, {19, 12}} {
		if got := out.NRGBAAt(p.X, p.Y); got != red {
			t.Errorf("pixel %v = %v, want red", p, got)
		}
	}

	if got := src.NRGBAAt(50, 30); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Error("Render modified the source image")
	}
	for i := range hands {
		if hands[i] != before[i] {
			t.Errorf("hand %d modified: %+v", i, hands[i])
		}
	}
}

func TestRender_CustomColor(t *testing.T) {
	src := createTestImage(60, 60, color.White)
	blue := color.NRGBA{B: 255, A: 255}

	out := Render(src, Overlay{
		Hands: []detection.Hand{{Origin: imaging.Point{X: 30, Y: 30}, AngleDeg: 180, LengthPx: 20}},
		Color: blue,
	})
	if got := out.NRGBAAt(30, 40); got != blue {
		t.Errorf("pixel (30,40) = %v, want blue", got)
	}
}
