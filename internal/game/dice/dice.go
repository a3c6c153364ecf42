// Package dice provides the uniform randomness abstraction used by stat
// variance, battle damage, quest generation, and reward amounts.
package dice

// Source is the randomness provider for every random decision in the game.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
