package encoding

import (
	"fmt"
	"time"

	"code.helixprotocol.io/helix/logging"
)

// Duration wraps time.Duration so it reads and writes as a string in the
// toml configuration.
type Duration struct {
	time.Duration
}

// Get returns the stored duration.
func (d *Duration) Get() time.Duration {
	return d.Duration
}

// UnmarshalText parses a duration from its string form.
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d *Duration) UnmarshalFlag(s string) error {
	return d.UnmarshalText([]byte(s))
}

// MarshalText renders the duration back into its string form.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// LogLevel wraps a log level so it reads and writes as a string in the
// toml configuration.
type LogLevel struct {
	logging.Level
}

// Get returns the stored level.
func (l *LogLevel) Get() logging.Level {
	return l.Level
}

// UnmarshalText parses a level name.
func (l *LogLevel) UnmarshalText(text []byte) error {
	var err error
	l.Level, err = logging.ParseLevel(string(text))
	return err
}

func (l *LogLevel) UnmarshalFlag(s string) error {
	return l.UnmarshalText([]byte(s))
}

// MarshalText renders the level name.
func (l LogLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Bool is a flag-parseable boolean.
type Bool bool

func (b *Bool) UnmarshalFlag(s string) error {
	switch s {
	case "true":
		*b = true
	case "false":
		*b = false
	default:
		return fmt.Errorf("only `true' and `false' are valid values, not `%s'", s)
	}
	return nil
}
