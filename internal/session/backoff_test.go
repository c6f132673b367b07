package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoffGrowsToCap(t *testing.T) {
	b := Backoff{Initial: 30 * time.Second, Factor: 1.5, Cap: 300 * time.Second}

	var got []time.Duration
	for i := 0; i < 8; i++ {
		got = append(got, b.Next())
	}

	assert.Equal(t, 30*time.Second, got[0])
	assert.Equal(t, 45*time.Second, got[1])
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i], got[i-1])
		assert.LessOrEqual(t, got[i], 300*time.Second)
	}
	assert.Equal(t, 300*time.Second, got[len(got)-1])
}

func TestBackoffReset(t *testing.T) {
	b := Backoff{Initial: 30 * time.Second, Factor: 1.5, Cap: 300 * time.Second}
	b.Next()
	b.Next()
	b.Reset()
	assert.Equal(t, 30*time.Second, b.Next())
}
