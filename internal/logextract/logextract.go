// Package logextract pulls marker-anchored regions out of simulator logs.
//
// Simulator output mixes build noise, waveform chatter, and the
// design's own printf output. The lines of interest (the memory model's
// closing statistics dump, for example) sit after a fixed marker line.
// Extract isolates that region so two runs can be compared without any
// of the surrounding noise.
package logextract

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// maxLineBytes caps a single log line during scanning. Statistics lines
// are short; the cap only guards against pathological printf output.
const maxLineBytes = 1 << 20

// MarkerError reports a marker line that never appeared in a log.
type MarkerError struct {
	// Path is the scanned log file.
	Path string

	// Marker is the line that was expected.
	Marker string
}

// Error implements the error interface.
func (e *MarkerError) Error() string {
	return fmt.Sprintf("marker %q not found in %s", e.Marker, e.Path)
}

// IsMarkerError returns true if the error is a missing-marker failure.
// Uses errors.As to handle wrapped errors.
func IsMarkerError(err error) bool {
	var me *MarkerError
	return errors.As(err, &me)
}

// Extract returns the lines of the log at path strictly after the first
// occurrence of marker, with the first skip lines dropped. The marker
// line itself is never included, and when the marker repeats only the
// first occurrence anchors the region.
//
// A line matches the marker only when it is equal byte for byte; no
// trimming or substring matching is applied. The scan is a single pass,
// and the returned slice is empty (never nil) when no lines remain.
func Extract(path, marker string, skip int) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read log %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	found := false
	var lines []string
	for scanner.Scan() {
		if !found {
			if scanner.Text() == marker {
				found = true
			}
			continue
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log %s: %w", path, err)
	}

	if !found {
		return nil, &MarkerError{Path: path, Marker: marker}
	}

	if skip < 0 {
		skip = 0
	}
	if skip >= len(lines) {
		return []string{}, nil
	}
	return lines[skip:], nil
}
