package vm

import "github.com/wudi/shellish/values"

// intValue wraps a Go int as a spec Int value, clamping is not
// attempted — callers only ever pass stack depths and small counters
// that fit comfortably in int32.
func intValue(n int) *values.Value { return values.NewInt(int32(n)) }
