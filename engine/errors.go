package engine

import "errors"

// ErrSlotsExhausted is returned when allocating a record would exceed the
// 32-bit slot space. Records inserted before the failure remain
// consistent.
var ErrSlotsExhausted = errors.New("slot capacity exhausted")
