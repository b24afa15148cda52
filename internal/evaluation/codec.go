package evaluation

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ironsheep/clockread/internal/clock"
)

var resultPattern = regexp.MustCompile(`^([01])-(\d+\.\d+)-(\d{2}:\d{2}:\d{2}\.\d{3})-(\d{2}:\d{2}:\d{2}\.\d{3})$`)

// Outcome is the scored reading of one corpus image.
type Outcome struct {
	Success      bool       `json:"success"`
	ErrorSeconds float64    `json:"error_seconds"`
	Detected     clock.Time `json:"detected"`
	Expected     clock.Time `json:"expected"`
}

// Encode formats o as "{0|1}-{error_seconds}-{detected}-{expected}", for
// example "1-0.9-10:00:00.900-10:00:00.000". The error always contains a
// decimal point.
func Encode(o Outcome) string {
	flag := "0"
	if o.Success {
		flag = "1"
	}
	errSec := strconv.FormatFloat(o.ErrorSeconds, 'f', -1, 64)
	if !strings.Contains(errSec, ".") {
		errSec += ".0"
	}
	return flag + "-" + errSec + "-" + o.Detected.String() + "-" + o.Expected.String()
}

// Decode parses a string produced by Encode.
func Decode(s string) (Outcome, error) {
	m := resultPattern.FindStringSubmatch(s)
	if m == nil {
		return Outcome{}, fmt.Errorf("%w: %q", ErrFormat, s)
	}

	errSec, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %q: %v", ErrFormat, s, err)
	}
	detected, err := clock.Parse(m[3])
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	expected, err := clock.Parse(m[4])
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	return Outcome{
		Success:      m[1] == "1",
		ErrorSeconds: errSec,
		Detected:     detected,
		Expected:     expected,
	}, nil
}

// DecodeFileName decodes the name of a result artifact, ignoring its directory
// and extension.
func DecodeFileName(path string) (Outcome, error) {
	base := filepath.Base(path)
	return Decode(strings.TrimSuffix(base, filepath.Ext(base)))
}
