// internal/common/camunda/camunda_test.go
package camunda

import (
	"context"
	"fmt"
	"testing"
	"time"

	"visa-workers/internal/common/errors"
	"visa-workers/internal/common/logger"
	"visa-workers/internal/common/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastRetry = &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(fmt.Errorf("rpc error: code = Unavailable desc = connection refused")))
	assert.True(t, IsRetryable(fmt.Errorf("context deadline exceeded")))
	assert.False(t, IsRetryable(fmt.Errorf("rpc error: code = NotFound desc = job not found")))
}

func TestMapZeebeError(t *testing.T) {
	var std *errors.StandardError

	err := mapZeebeError(fmt.Errorf("connection reset by peer"), "complete job")
	require.ErrorAs(t, err, &std)
	assert.Equal(t, errors.ErrCodeEngineUnavailable, std.Code)

	err = mapZeebeError(fmt.Errorf("job not found"), "complete job")
	require.ErrorAs(t, err, &std)
	assert.Equal(t, errors.ErrCodeInternal, std.Code)
}

func TestRetryWithBackoff(t *testing.T) {
	log := logger.NewNoOpLogger()

	t.Run("succeeds after transient failures", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), fastRetry, log, "op", func(context.Context) error {
			calls++
			if calls < 3 {
				return fmt.Errorf("unavailable")
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on permanent error", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), fastRetry, log, "op", func(context.Context) error {
			calls++
			return fmt.Errorf("permission denied")
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), fastRetry, log, "op", func(context.Context) error {
			calls++
			return fmt.Errorf("timeout")
		})
		assert.ErrorContains(t, err, "op failed")
		assert.Equal(t, fastRetry.MaxRetries, calls)
	})

	t.Run("honours cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		slow := &RetryConfig{MaxRetries: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}
		err := RetryWithBackoff(ctx, slow, log, "op", func(context.Context) error {
			return fmt.Errorf("unavailable")
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestCompleteJob(t *testing.T) {
	client := testutil.NewJobClient()
	job := testutil.NewJob("reduce-schedule", `{}`, 3)

	require.NoError(t, CompleteJob(context.Background(), client, job, map[string]interface{}{"totalHours": 12.5}))

	var out map[string]interface{}
	testutil.CompletedVariables(t, client, &out)
	assert.Equal(t, 12.5, out["totalHours"])
}

func TestCompleteJob_SendError(t *testing.T) {
	client := testutil.NewJobClient()
	client.Gateway.SendErr = fmt.Errorf("Unavailable")
	job := testutil.NewJob("reduce-schedule", `{}`, 3)

	err := CompleteJob(context.Background(), client, job, map[string]interface{}{})
	var std *errors.StandardError
	require.ErrorAs(t, err, &std)
	assert.Equal(t, errors.ErrCodeEngineUnavailable, std.Code)
}
