package pq

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	srvErrors "github.com/kubev2v/parallel-queue/pkg/errors"
)

type durationKind uint8

const (
	kindUnset durationKind = iota
	kindImmediate
	kindTicks
	kindMilliseconds
	kindInfinite
)

// Legacy millisecond sentinels accepted by FromMilliseconds.
const (
	MillisecondsNoWait     = 0
	MillisecondsForever    = -1
	MillisecondsSingleTick = -2
)

// Duration is a wait expressed in scheduler terms. The zero value is unset
// and is replaced by a default when the handle is configured or started.
type Duration struct {
	kind durationKind
	n    int64
}

// Immediate never waits.
func Immediate() Duration {
	return Duration{kind: kindImmediate}
}

// Ticks waits n scheduler ticks. n <= 0 is Immediate.
func Ticks(n int64) Duration {
	if n <= 0 {
		return Immediate()
	}
	return Duration{kind: kindTicks, n: n}
}

// Milliseconds waits n milliseconds. n <= 0 is Immediate.
func Milliseconds(n int64) Duration {
	if n <= 0 {
		return Immediate()
	}
	return Duration{kind: kindMilliseconds, n: n}
}

// Infinite waits forever.
func Infinite() Duration {
	return Duration{kind: kindInfinite}
}

// FromMilliseconds converts a millisecond value that may hold one of the
// Milliseconds* sentinels.
func FromMilliseconds(ms int64) Duration {
	switch {
	case ms == MillisecondsForever:
		return Infinite()
	case ms == MillisecondsSingleTick:
		return Ticks(1)
	case ms > 0:
		return Milliseconds(ms)
	default:
		return Immediate()
	}
}

func (d Duration) IsZero() bool {
	return d.kind == kindUnset
}

func (d Duration) IsInfinite() bool {
	return d.kind == kindInfinite
}

// Std converts d to a time.Duration given the length of one tick.
// Infinite maps to a negative value, Immediate and unset to zero.
func (d Duration) Std(tick time.Duration) time.Duration {
	switch d.kind {
	case kindTicks:
		return time.Duration(d.n) * tick
	case kindMilliseconds:
		return time.Duration(d.n) * time.Millisecond
	case kindInfinite:
		return -1
	default:
		return 0
	}
}

func (d Duration) String() string {
	switch d.kind {
	case kindImmediate:
		return "nowait"
	case kindTicks:
		if d.n == 1 {
			return "1 tick"
		}
		return fmt.Sprintf("%d ticks", d.n)
	case kindMilliseconds:
		return fmt.Sprintf("%dms", d.n)
	case kindInfinite:
		return "forever"
	default:
		return ""
	}
}

// ParseDuration parses "nowait", "immediate", "forever", "infinite", "tick",
// "<n> ticks", a bare number of milliseconds, or a Go duration string.
func ParseDuration(s string) (Duration, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "nowait", "immediate":
		return Immediate(), nil
	case "forever", "infinite":
		return Infinite(), nil
	case "tick":
		return Ticks(1), nil
	case "":
		return Duration{}, srvErrors.NewInvalidDurationError(s)
	}

	if n, ok := strings.CutSuffix(v, "ticks"); ok {
		return parseTicks(s, n)
	}
	if n, ok := strings.CutSuffix(v, "tick"); ok {
		return parseTicks(s, n)
	}

	if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
		if ms < 0 && ms != MillisecondsForever && ms != MillisecondsSingleTick {
			return Duration{}, srvErrors.NewInvalidDurationError(s)
		}
		return FromMilliseconds(ms), nil
	}

	std, err := time.ParseDuration(v)
	if err != nil || std < 0 {
		return Duration{}, srvErrors.NewInvalidDurationError(s)
	}
	return Milliseconds(std.Milliseconds()), nil
}

func parseTicks(raw, n string) (Duration, error) {
	ticks, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	if err != nil || ticks < 0 {
		return Duration{}, srvErrors.NewInvalidDurationError(raw)
	}
	return Ticks(ticks), nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts everything ParseDuration does. Empty text is the unset
// value written by MarshalText.
func (d *Duration) UnmarshalText(text []byte) error {
	if len(bytes.TrimSpace(text)) == 0 {
		*d = Duration{}
		return nil
	}
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalJSON accepts a string or a number of milliseconds (sentinels included).
// null leaves d unchanged.
func (d *Duration) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return d.UnmarshalText([]byte(s))
	}
	return d.UnmarshalText(data)
}
