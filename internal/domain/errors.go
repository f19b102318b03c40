package domain

import (
	"errors"
	"fmt"
)

// ErrAbsent means no usable result. Every client failure matches it.
var ErrAbsent = errors.New("no usable result")

var (
	ErrEmptyBreed = fmt.Errorf("%w: breed name is empty", ErrAbsent)
	ErrNotFound   = fmt.Errorf("%w: not found", ErrAbsent)
	ErrServer     = fmt.Errorf("%w: server error", ErrAbsent)
	ErrNetwork    = fmt.Errorf("%w: network error", ErrAbsent)
)
