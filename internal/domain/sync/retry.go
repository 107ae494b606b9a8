package sync

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryPolicy - экспоненциальный backoff для временных (сетевых) сбоев
type RetryPolicy struct {
	Attempts  int           // всего попыток, включая первую
	BaseDelay time.Duration // задержка перед второй попыткой, дальше удваивается
	MaxDelay  time.Duration // 0 - без ограничения
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:  3,
		BaseDelay: time.Second,
		MaxDelay:  8 * time.Second,
	}
}

func (p RetryPolicy) backoff() retry.Backoff {
	base := p.BaseDelay
	if base <= 0 {
		base = time.Millisecond
	}
	b := retry.NewExponential(base)
	if p.MaxDelay > 0 {
		b = retry.WithCappedDuration(p.MaxDelay, b)
	}
	retries := p.Attempts - 1
	if retries < 0 {
		retries = 0
	}
	return retry.WithMaxRetries(uint64(retries), b)
}

// WithRetry выполняет fn, повторяя только сетевые ошибки.
// Ошибка данных возвращается сразу, без повторов.
func WithRetry[T any](ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := retry.Do(ctx, policy.backoff(), func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			if IsNetwork(err) && ctx.Err() == nil {
				return retry.RetryableError(err)
			}
			return err
		}
		result = v
		return nil
	})
	return result, err
}
