package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollWaiter_SucceedsWhenConditionTurnsTrue(t *testing.T) {
	cond, checks := afterChecks(3)
	w := NewPollWaiter(time.Millisecond)

	err := w.WaitUntil(context.Background(), fakeBrowser{}, cond, time.Second)

	require.NoError(t, err)
	assert.Equal(t, 3, *checks)
}

func TestPollWaiter_TimeoutKeepsLastError(t *testing.T) {
	missing := errors.New("no such element")
	cond := NewCondition("element #x visible", func(context.Context, Handle) (bool, error) {
		return false, missing
	})
	w := NewPollWaiter(time.Millisecond)

	err := w.WaitUntil(context.Background(), fakeBrowser{}, cond, 10*time.Millisecond)

	require.ErrorIs(t, err, ErrWaitTimeout)
	var timeoutErr *WaitTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, missing, timeoutErr.LastErr)
	assert.Contains(t, err.Error(), "element #x visible")
	assert.Contains(t, err.Error(), "no such element")
}

func TestPollWaiter_ZeroTimeoutChecksOnce(t *testing.T) {
	cond, checks := afterChecks(2)
	w := NewPollWaiter(0)
	assert.Equal(t, DefaultPollInterval, w.Interval)

	err := w.WaitUntil(context.Background(), fakeBrowser{}, cond, 0)

	assert.ErrorIs(t, err, ErrWaitTimeout)
	assert.Equal(t, 1, *checks)
}

func TestPollWaiter_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := NewPollWaiter(time.Millisecond)
	err := w.WaitUntil(ctx, fakeBrowser{}, never(), time.Second)

	assert.ErrorIs(t, err, context.Canceled)
}
