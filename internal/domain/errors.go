package domain

import "errors"

var (
	// ErrInvalidNumber is returned when a decimal string cannot be parsed
	ErrInvalidNumber = errors.New("invalid number")
	// ErrDivisionByZero is returned when the weight total of the
	// selected assets (or a normalization step) is zero
	ErrDivisionByZero = errors.New("division by zero")
	// ErrNoTotal marks the idle state where no usable total amount was
	// entered. a non-numeric total wraps both this and ErrInvalidNumber
	ErrNoTotal = errors.New("no total amount")
	// ErrOutOfRange is returned when a rounded share does not fit an int64
	ErrOutOfRange = errors.New("value out of range")
)
