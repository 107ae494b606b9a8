package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paintpro/internal/domain/order"
	"paintpro/internal/domain/sync"
)

func newOp(kind sync.OpKind, target string) sync.Operation {
	return sync.NewOperation(kind, "u1", order.Durable(target), 2, time.Now())
}

func TestQueue_DrainFIFOAbortsOnNetworkError(t *testing.T) {
	q := NewQueue(NewMemoryStorage(), testLogger())
	a, b, c := newOp(sync.OpUpdate, "A"), newOp(sync.OpUpdate, "B"), newOp(sync.OpDelete, "C")
	q.Enqueue(a)
	q.Enqueue(b)
	q.Enqueue(c)

	var seen []string
	res := q.Drain(context.Background(), "u1", func(_ context.Context, op sync.Operation) error {
		seen = append(seen, op.Target.Value())
		if op.ID == b.ID {
			return errDown
		}
		return nil
	})

	assert.Equal(t, []string{"A", "B"}, seen)
	assert.True(t, res.Aborted())
	assert.Equal(t, 1, res.Processed)
	assert.Equal(t, 2, res.Remaining)

	left := q.Snapshot()
	require.Len(t, left, 2)
	assert.Equal(t, b.ID, left[0].ID)
	assert.Equal(t, c.ID, left[1].ID)
	assert.Zero(t, left[0].Attempts)
	assert.Equal(t, sync.DrainAborted, q.State())

	// следующий проход начинает с B
	seen = nil
	res = q.Drain(context.Background(), "u1", func(_ context.Context, op sync.Operation) error {
		seen = append(seen, op.Target.Value())
		return nil
	})
	assert.Equal(t, []string{"B", "C"}, seen)
	assert.Equal(t, sync.DrainIdle, res.State)
	assert.Zero(t, q.Len())
}

func TestQueue_DrainIsNotReentrant(t *testing.T) {
	q := NewQueue(NewMemoryStorage(), testLogger())
	q.Enqueue(newOp(sync.OpUpdate, "A"))

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan sync.DrainResult)

	go func() {
		done <- q.Drain(context.Background(), "u1", func(context.Context, sync.Operation) error {
			close(entered)
			<-release
			return nil
		})
	}()

	<-entered
	assert.True(t, q.Draining())

	calls := 0
	second := q.Drain(context.Background(), "u1", func(context.Context, sync.Operation) error {
		calls++
		return nil
	})
	assert.True(t, second.Skipped)
	assert.Zero(t, calls)
	assert.Equal(t, sync.DrainDraining, second.State)

	close(release)
	first := <-done
	assert.False(t, first.Skipped)
	assert.Equal(t, 1, first.Processed)
	assert.False(t, q.Draining())
}

func TestQueue_OperationsEnqueuedDuringDrainWaitForNextPass(t *testing.T) {
	q := NewQueue(NewMemoryStorage(), testLogger())
	q.Enqueue(newOp(sync.OpUpdate, "A"))

	late := newOp(sync.OpUpdate, "late")
	var seen []string
	res := q.Drain(context.Background(), "u1", func(_ context.Context, op sync.Operation) error {
		seen = append(seen, op.Target.Value())
		q.Enqueue(late)
		return nil
	})

	assert.Equal(t, []string{"A"}, seen)
	assert.Equal(t, 1, res.Remaining)
	assert.Equal(t, late.ID, q.Snapshot()[0].ID)
}

func TestQueue_DataErrorsSpendAttempts(t *testing.T) {
	q := NewQueue(NewMemoryStorage(), testLogger())
	op := newOp(sync.OpUpdate, "A")
	q.Enqueue(op)
	reject := func(context.Context, sync.Operation) error {
		return sync.DataError(errors.New("constraint"))
	}

	res := q.Drain(context.Background(), "u1", reject)
	assert.Equal(t, 1, res.Failed)
	assert.Zero(t, res.DeadLettered)
	got, ok := q.Get(op.ID)
	require.True(t, ok)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, "constraint", got.LastError)

	res = q.Drain(context.Background(), "u1", reject)
	assert.Equal(t, 1, res.DeadLettered)
	assert.Zero(t, q.Len())

	dead := q.DeadLetters()
	require.Len(t, dead, 1)
	assert.Equal(t, op.ID, dead[0].Operation.ID)
	assert.Equal(t, "constraint", dead[0].Error)
}

func TestQueue_NeverDeduplicates(t *testing.T) {
	q := NewQueue(NewMemoryStorage(), testLogger())
	q.Enqueue(newOp(sync.OpUpdate, "A"))
	q.Enqueue(newOp(sync.OpUpdate, "A"))

	assert.Equal(t, 2, q.Len())
}

func TestQueue_Retarget(t *testing.T) {
	q := NewQueue(NewMemoryStorage(), testLogger())
	tmp := order.Temporary("tok")
	op := sync.NewOperation(sync.OpUpdate, "u1", tmp, 3, time.Now())
	q.Enqueue(op)
	q.Enqueue(newOp(sync.OpUpdate, "other"))

	n := q.Retarget(tmp, order.Durable("r1"))

	assert.Equal(t, 1, n)
	got, _ := q.Get(op.ID)
	assert.Equal(t, order.Durable("r1"), got.Target)
	assert.True(t, q.Pending(order.Durable("r1")))
	assert.False(t, q.Pending(tmp))
}

func TestQueue_PersistsAcrossRestarts(t *testing.T) {
	store := NewMemoryStorage()
	q := NewQueue(store, testLogger())

	rec := order.New("u1", order.Temporary("tok"), draft("1", 5000, 1000, 200, 0, 100), time.Now())
	op := sync.NewOperation(sync.OpCreate, "u1", rec.ID, 5, time.Now())
	op.Record = &rec
	q.Enqueue(op)

	restored := NewQueue(store, testLogger())

	got := restored.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, op.ID, got[0].ID)
	assert.Equal(t, order.Temporary("tok"), got[0].Target)
	require.NotNil(t, got[0].Record)
	assert.True(t, got[0].Record.Profit.Equal(decimalOf(3700)))
}

func TestQueue_StopsOnCancelledContext(t *testing.T) {
	q := NewQueue(NewMemoryStorage(), testLogger())
	q.Enqueue(newOp(sync.OpUpdate, "A"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := q.Drain(ctx, "u1", func(context.Context, sync.Operation) error {
		t.Fatal("apply must not be called")
		return nil
	})

	assert.True(t, res.Aborted())
	assert.Equal(t, 1, q.Len())
}

func TestQueue_DrainSkipsOtherOwners(t *testing.T) {
	q := NewQueue(NewMemoryStorage(), testLogger())
	mine := newOp(sync.OpUpdate, "A")
	foreign := sync.NewOperation(sync.OpUpdate, "u2", order.Durable("B"), 2, time.Now())
	last := newOp(sync.OpDelete, "C")
	q.Enqueue(mine)
	q.Enqueue(foreign)
	q.Enqueue(last)

	var seen []string
	res := q.Drain(context.Background(), "u1", func(_ context.Context, op sync.Operation) error {
		seen = append(seen, op.Target.Value())
		return nil
	})

	assert.Equal(t, []string{"A", "C"}, seen)
	assert.Equal(t, 2, res.Processed)
	assert.Equal(t, sync.DrainIdle, res.State)

	left := q.Snapshot()
	require.Len(t, left, 1)
	assert.Equal(t, foreign.ID, left[0].ID)
	assert.Zero(t, left[0].Attempts)
}

func TestQueue_AuthErrorAbortsWithoutSpendingAttempts(t *testing.T) {
	q := NewQueue(NewMemoryStorage(), testLogger())
	a, b := newOp(sync.OpUpdate, "A"), newOp(sync.OpUpdate, "B")
	q.Enqueue(a)
	q.Enqueue(b)
	denied := func(context.Context, sync.Operation) error {
		return sync.AuthError(errors.New("401"))
	}

	for range 3 {
		res := q.Drain(context.Background(), "u1", denied)
		assert.True(t, res.Aborted())
		assert.ErrorIs(t, res.Err, sync.ErrAuth)
		assert.Zero(t, res.Failed)
	}

	assert.Equal(t, 2, q.Len())
	assert.Empty(t, q.DeadLetters())
	got, ok := q.Get(a.ID)
	require.True(t, ok)
	assert.Zero(t, got.Attempts)
}
