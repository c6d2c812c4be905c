package spimidex

import "fmt"

// Error categories mirror §7 of the design: config errors fail fast before
// any file is opened, format errors name the offending byte offset, I/O
// errors abort the current operation and leave scratch state for inspection,
// and a query miss is not an error at all (handled by the caller returning
// zero results, not by this package).
//
// These follow the teacher's own sentinel-variable style (index.go's
// ErrNoPostingList, ErrNoNextElement) generalized with wrapped category
// errors so errors.Is/errors.As work against the category as well as the
// specific message.

// ConfigError reports an invalid configuration discovered before any file
// was opened: an unknown ranker or posting class, an incompatible
// ranker/posting-class pairing, or a malformed SMART schema string.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("config: %s", e.Msg) }
func (e *ConfigError) Unwrap() error { return ErrConfig }

// FormatError reports a structurally invalid index, block, or sidecar file:
// a truncated header, a missing trailer, a malformed posting line, or a
// non-monotonic term sequence. ByteOffset is -1 when no single offset
// applies (e.g. "missing trailer").
type FormatError struct {
	Msg        string
	ByteOffset int64
}

func (e *FormatError) Error() string {
	if e.ByteOffset < 0 {
		return fmt.Sprintf("format: %s", e.Msg)
	}
	return fmt.Sprintf("format: %s (at byte %d)", e.Msg, e.ByteOffset)
}
func (e *FormatError) Unwrap() error { return ErrFormat }

// IOError wraps a failure to open an input, create scratch space, or
// complete a spill/merge write.
type IOError struct {
	Msg string
	Err error
}

func (e *IOError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("io: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("io: %s", e.Msg)
}
func (e *IOError) Unwrap() error { return ErrIO }

var (
	ErrConfig = fmt.Errorf("spimidex: config error")
	ErrFormat = fmt.Errorf("spimidex: format error")
	ErrIO     = fmt.Errorf("spimidex: io error")
)
