// Package element supplies orbital element sets for tracked satellites.
//
// An element set is the pair of fixed-format TLE lines describing a
// satellite's orbital parameters at a reference epoch, plus a display
// name. Sources hand out element sets per NORAD ID; a satellite whose
// element set cannot be obtained is reported as unavailable, never as a
// transport error.
package element

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnavailable marks a satellite for which no usable element set could
// be obtained. Ordinary network and data errors at the source boundary
// all map to this.
var ErrUnavailable = errors.New("element set unavailable")

// Set is one satellite's element set. Immutable once created; a Set
// always holds two non-empty TLE lines, absence is represented by not
// constructing one.
type Set struct {
	NoradID int
	Name    string
	Line1   string
	Line2   string
}

// NewSet validates the TLE lines and builds a Set. The display name
// falls back to the NORAD ID when empty.
func NewSet(noradID int, name, line1, line2 string) (Set, error) {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)

	if line1 == "" || line2 == "" {
		return Set{}, fmt.Errorf("norad %d: incomplete element set: %w", noradID, ErrUnavailable)
	}
	if !strings.HasPrefix(line1, "1 ") {
		return Set{}, fmt.Errorf("norad %d: line 1 must start with \"1 \": %w", noradID, ErrUnavailable)
	}
	if !strings.HasPrefix(line2, "2 ") {
		return Set{}, fmt.Errorf("norad %d: line 2 must start with \"2 \": %w", noradID, ErrUnavailable)
	}

	if name == "" {
		name = fmt.Sprintf("%d", noradID)
	}

	return Set{
		NoradID: noradID,
		Name:    name,
		Line1:   line1,
		Line2:   line2,
	}, nil
}
