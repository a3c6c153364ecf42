package player

import "errors"

// ErrNotRegistered is returned when an operation names an unknown user id.
var ErrNotRegistered = errors.New("player must register first")

// ErrInsufficientStamina is returned when an action costs more stamina than remains.
var ErrInsufficientStamina = errors.New("not enough stamina")
