// Package runconfig models the runtime-configuration source handed to a
// simulator invocation.
//
// Exactly one of three modes applies to any invocation:
//
//   - Default: no explicit argument; the backend falls back to the
//     runtime-configuration artifact it generates alongside the design.
//   - Empty: an explicitly empty base configuration, for tests that
//     supply every setting themselves as plus-args.
//   - Custom: base configuration read from a file, one argument per
//     line, joined into a single make-variable assignment.
//
// The modes are mutually exclusive and not combinable. Resolution is
// deterministic: Default and Empty are pure, and Custom depends only on
// the bytes of the referenced file.
package runconfig

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MakeVar is the make variable carrying the base simulator arguments.
const MakeVar = "COMMON_SIM_ARGS"

// Kind identifies the runtime-configuration mode.
type Kind int

const (
	// KindDefault omits the argument so the backend uses its generated
	// configuration artifact.
	KindDefault Kind = iota

	// KindEmpty passes an explicitly empty base configuration.
	KindEmpty

	// KindCustom reads the base configuration from a file.
	KindCustom
)

// String returns the lowercase mode name.
func (k Kind) String() string {
	switch k {
	case KindDefault:
		return "default"
	case KindEmpty:
		return "empty"
	case KindCustom:
		return "custom"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Config describes the runtime-configuration source for one invocation.
// The zero value is the Default mode.
type Config struct {
	kind Kind
	path string
}

// Default selects the backend's generated runtime configuration.
func Default() Config {
	return Config{kind: KindDefault}
}

// Empty selects an explicitly empty base configuration.
func Empty() Config {
	return Config{kind: KindEmpty}
}

// Custom selects base configuration read from the file at path.
// Relative paths resolve against the simulation working directory at
// Resolve time, so a Config can be declared before the directory is
// known.
func Custom(path string) Config {
	return Config{kind: KindCustom, path: path}
}

// Kind returns the configuration mode.
func (c Config) Kind() Kind {
	return c.kind
}

// Path returns the configuration file path. Empty unless KindCustom.
func (c Config) Path() string {
	return c.path
}

// Describe returns a human-readable description of the configuration
// source for run reports.
func (c Config) Describe() string {
	switch c.kind {
	case KindDefault:
		return "generated default runtime config"
	case KindEmpty:
		return "empty runtime config"
	case KindCustom:
		return fmt.Sprintf("runtime config file %s", c.path)
	default:
		return fmt.Sprintf("unknown runtime config (kind %d)", int(c.kind))
	}
}

// Resolve produces the make argument for this configuration source.
// ok reports whether an argument should be emitted at all: the Default
// mode emits nothing, leaving the backend's own artifact in effect.
//
// The Custom mode reads its file eagerly, resolving relative paths
// against dir, and joins the file's lines with single spaces. A file
// that cannot be read fails the invocation here, before any simulator
// process starts.
func (c Config) Resolve(dir string) (arg string, ok bool, err error) {
	switch c.kind {
	case KindDefault:
		return "", false, nil
	case KindEmpty:
		return MakeVar + "=", true, nil
	case KindCustom:
		value, err := readArgsFile(c.path, dir)
		if err != nil {
			return "", false, err
		}
		return MakeVar + "=" + value, true, nil
	default:
		return "", false, fmt.Errorf("unknown runtime config kind %d", int(c.kind))
	}
}

// readArgsFile reads path (resolved against dir when relative) and joins
// its lines with single spaces. An empty file yields an empty value.
func readArgsFile(path, dir string) (string, error) {
	resolved := path
	if !filepath.IsAbs(resolved) && dir != "" {
		resolved = filepath.Join(dir, resolved)
	}

	f, err := os.Open(resolved)
	if err != nil {
		return "", &ReadError{Path: resolved, Err: err}
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return "", &ReadError{Path: resolved, Err: err}
	}

	return strings.Join(lines, " "), nil
}

// ReadError reports a runtime-configuration file that could not be read.
type ReadError struct {
	// Path is the resolved file path.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("read runtime config %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// IsReadError returns true if the error is a runtime-configuration read
// failure. Uses errors.As to handle wrapped errors.
func IsReadError(err error) bool {
	var re *ReadError
	return errors.As(err, &re)
}
