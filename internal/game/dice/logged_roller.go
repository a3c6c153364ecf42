package dice

import "go.uber.org/zap"

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Roller wraps a Source and logger with the helpers the game draws from.
// Draws are logged at debug level with their purpose and result.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source exposes the underlying randomness for pure packages that accept a Source.
func (r *Roller) Source() Source {
	return r.src
}

// Intn returns a value in [0, n).
//
// Precondition: n > 0.
func (r *Roller) Intn(n int) int {
	return r.src.Intn(n)
}

// Between returns a uniform value in the inclusive range spanned by a and b.
// The bounds may be given in either order.
//
// Postcondition: min(a,b) <= result <= max(a,b).
func (r *Roller) Between(purpose string, a, b int) int {
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	v := lo
	if hi > lo {
		v = lo + r.src.Intn(hi-lo+1)
	}
	r.logger.Debug("random amount",
		zap.String("purpose", purpose),
		zap.Int("min", lo),
		zap.Int("max", hi),
		zap.Int("result", v),
	)
	return v
}

// Token returns a random string of length n over [a-z0-9].
//
// Precondition: n >= 0.
func (r *Roller) Token(n int) string {
	return Token(r.src, n)
}

// Token returns a random string of length n over [a-z0-9] drawn from src.
func Token(src Source, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = tokenAlphabet[src.Intn(len(tokenAlphabet))]
	}
	return string(buf)
}

// Shuffle permutes n elements in place through swap, Fisher-Yates style.
func Shuffle(src Source, n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		swap(i, j)
	}
}

// Pick returns a uniformly chosen element of items, or the zero value and
// false when items is empty.
func Pick[T any](src Source, items []T) (T, bool) {
	var zero T
	if len(items) == 0 {
		return zero, false
	}
	return items[src.Intn(len(items))], true
}
