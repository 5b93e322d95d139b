package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoStopsAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3, Delay: time.Millisecond}, func() error {
		calls++
		return errors.New("boom")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoReturnsOnFirstSuccess(t *testing.T) {
	t.Parallel()

	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3, Delay: time.Millisecond}, func() error {
		calls++
		if calls < 2 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, Policy{MaxAttempts: 5, Delay: time.Minute}, func() error {
		calls++
		return errors.New("transient")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
