package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Record is one completed simulator launch.
type Record struct {
	// ID uniquely identifies the record. Filled from the ledger's
	// ID generator when empty.
	ID string `json:"id"`

	// Case is the test case name that requested the run.
	Case string `json:"case"`

	// Variant is the run variant name for equivalence legs, "" for
	// single runs.
	Variant string `json:"variant,omitempty"`

	// Backend is the simulator backend the run targeted.
	Backend string `json:"backend"`

	// Debug reports whether the waveform-enabled target was used.
	Debug bool `json:"debug,omitempty"`

	// Target is the make target that was launched.
	Target string `json:"target"`

	// Args are the arguments passed after the target, in order.
	Args []string `json:"args,omitempty"`

	// ExitCode is the process exit code, -1 when the process never ran.
	ExitCode int `json:"exit_code"`

	// Pass reports whether the launch exited zero.
	Pass bool `json:"pass"`

	// LogFile is the captured log path, "" when no log was requested.
	LogFile string `json:"log_file,omitempty"`

	// StartedAt is when the run was launched. Filled from the ledger's
	// clock when zero.
	StartedAt time.Time `json:"started_at"`

	// Duration is how long the run took.
	Duration time.Duration `json:"duration"`
}

// Append inserts a run record into the ledger.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are
// silently ignored. Other constraint violations still return errors.
//
// Args are serialized to JSON TEXT. Individual arguments may contain
// spaces (joined plusarg values), so a plain join would not survive
// the round trip.
func (l *Ledger) Append(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = l.ids.Generate()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = l.now()
	}

	argsJSON, err := marshalArgs(rec.Args)
	if err != nil {
		return fmt.Errorf("append run: %w", err)
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO runs
		(id, case_name, variant, backend, debug, target, args, exit_code, pass, log_file, started_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Case,
		rec.Variant,
		rec.Backend,
		boolToInt(rec.Debug),
		rec.Target,
		argsJSON,
		rec.ExitCode,
		boolToInt(rec.Pass),
		rec.LogFile,
		rec.StartedAt.UTC().Format(time.RFC3339Nano),
		rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("append run: %w", err)
	}

	return nil
}

// marshalArgs converts the argument list to JSON TEXT for storage.
func marshalArgs(args []string) (string, error) {
	if args == nil {
		args = []string{}
	}
	data, err := json.Marshal(args)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

// unmarshalArgs parses JSON TEXT back to the argument list.
func unmarshalArgs(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var args []string
	if err := json.Unmarshal([]byte(data), &args); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}
	return args, nil
}

// boolToInt maps Go bools onto SQLite's integer affinity explicitly.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
