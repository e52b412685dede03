package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_RemovesExpiredSessions(t *testing.T) {
	clock := newFakeClock()
	store := NewOTPStore(WithClock(clock.Now))
	store.Issue("42")
	clock.Advance(OTPTTL)

	sweeper, err := StartSweeper(store, 10*time.Millisecond, nil)
	require.NoError(t, err)
	defer func() { assert.NoError(t, sweeper.Stop()) }()

	assert.Eventually(t, func() bool { return store.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestSweeper_KeepsLiveSessions(t *testing.T) {
	clock := newFakeClock()
	store := NewOTPStore(WithClock(clock.Now))
	store.Issue("42")

	sweeper, err := StartSweeper(store, 10*time.Millisecond, nil)
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, sweeper.Stop())
	assert.Equal(t, 1, store.Len())
}
