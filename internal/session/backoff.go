package session

import "time"

// Backoff produces an exponentially growing delay sequence with a hard cap.
// Not safe for concurrent use; each loop owns its own Backoff.
type Backoff struct {
	Initial time.Duration
	Factor  float64
	Cap     time.Duration

	next time.Duration
}

// Next returns the current delay and advances the sequence.
func (b *Backoff) Next() time.Duration {
	if b.next == 0 {
		b.next = b.Initial
	}
	d := b.next
	grown := time.Duration(float64(b.next) * b.Factor)
	if grown > b.Cap {
		grown = b.Cap
	}
	b.next = grown
	return d
}

// Reset rewinds the sequence to the initial delay.
func (b *Backoff) Reset() {
	b.next = 0
}
