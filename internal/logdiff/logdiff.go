// Package logdiff compares extracted log regions for exact equivalence.
//
// Equivalence between two simulator runs means their post-marker regions
// are identical: same number of lines, every pair of lines equal byte
// for byte. No normalization of whitespace, case, or encoding is applied
// anywhere; a single differing byte is a divergence.
package logdiff

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Missing marks the side of a divergence where one region ran out of
// lines before the other.
const Missing = "<missing>"

// Result is the outcome of comparing two extracted log regions.
// Index is -1 when the regions are identical; otherwise it holds the
// index of the first diverging line along with both lines and a full
// listing of the two regions.
type Result struct {
	// LabelA and LabelB name the compared regions in reports, typically
	// the run variant or log file that produced each.
	LabelA string `json:"label_a"`
	LabelB string `json:"label_b"`

	// Index is the first diverging line index, -1 when the regions match.
	Index int `json:"index"`

	// LineA and LineB are the diverging lines. A side that ran out of
	// lines carries the Missing marker.
	LineA string `json:"line_a,omitempty"`
	LineB string `json:"line_b,omitempty"`

	// Listing is the full aligned rendering of both regions, empty when
	// they match.
	Listing string `json:"listing,omitempty"`
}

// Equal reports whether the compared regions were identical.
func (r Result) Equal() bool {
	return r.Index < 0
}

// Diff compares two log regions line by line. Equality is positional:
// the regions match only when they have the same length and every pair
// of lines is identical byte for byte.
func Diff(a, b []string, labelA, labelB string) Result {
	r := Result{LabelA: labelA, LabelB: labelB, Index: -1}

	limit := len(a)
	if len(b) < limit {
		limit = len(b)
	}

	for i := 0; i < limit; i++ {
		if a[i] != b[i] {
			r.Index = i
			r.LineA = a[i]
			r.LineB = b[i]
			r.Listing = cmp.Diff(a, b)
			return r
		}
	}

	if len(a) != len(b) {
		r.Index = limit
		r.LineA = lineOrMissing(a, limit)
		r.LineB = lineOrMissing(b, limit)
		r.Listing = cmp.Diff(a, b)
	}

	return r
}

func lineOrMissing(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return Missing
}

// Report renders the divergence for humans: the labels, the first
// diverging line index, and both lines. Returns a single match line for
// identical regions. The full listing is kept out of the report; callers
// wanting it read Result.Listing directly.
func (r Result) Report() string {
	if r.Equal() {
		return fmt.Sprintf("%s and %s match", r.LabelA, r.LabelB)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s and %s diverge at line %d\n", r.LabelA, r.LabelB, r.Index)
	fmt.Fprintf(&sb, "  %s: %s\n", r.LabelA, r.LineA)
	fmt.Fprintf(&sb, "  %s: %s", r.LabelB, r.LineB)
	return sb.String()
}
