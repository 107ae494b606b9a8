package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy(attempts int) RetryPolicy {
	return RetryPolicy{Attempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestWithRetry(t *testing.T) {
	netErr := NetworkError(errors.New("connection refused"))
	dataErr := DataError(errors.New("constraint violation"))

	tests := []struct {
		name      string
		errs      []error // ответы по порядку, nil - успех
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{name: "first try", errs: []error{nil}, attempts: 3, wantCalls: 1},
		{name: "network then success", errs: []error{netErr, netErr, nil}, attempts: 3, wantCalls: 3},
		{name: "network exhausted", errs: []error{netErr, netErr, netErr, nil}, attempts: 3, wantCalls: 3, wantErr: ErrNetwork},
		{name: "data not retried", errs: []error{dataErr, nil}, attempts: 3, wantCalls: 1, wantErr: ErrData},
		{name: "single attempt", errs: []error{netErr, nil}, attempts: 1, wantCalls: 1, wantErr: ErrNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			got, err := WithRetry(context.Background(), fastPolicy(tt.attempts), func(ctx context.Context) (string, error) {
				e := tt.errs[calls]
				calls++
				if e != nil {
					return "", e
				}
				return "ok", nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "ok", got)
		})
	}
}

func TestWithRetry_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := WithRetry(ctx, RetryPolicy{Attempts: 5, BaseDelay: time.Hour}, func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, NetworkError(errors.New("timeout"))
	})

	assert.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, 1, calls)
}

func TestDefaultRetryPolicy(t *testing.T) {
	p := DefaultRetryPolicy()
	assert.Equal(t, 3, p.Attempts)
	assert.Equal(t, time.Second, p.BaseDelay)
}
