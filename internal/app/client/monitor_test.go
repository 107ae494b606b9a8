package client

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"paintpro/internal/domain/sync"
)

func TestMonitor_TransitionsNotifyOnce(t *testing.T) {
	m := NewMonitor(false, 0, testLogger())
	var calls atomic.Int32
	m.OnOnline(func() { calls.Add(1) })

	m.SetOnline()
	m.SetOnline()

	assert.True(t, m.IsOnline())
	assert.Equal(t, int32(1), calls.Load())

	m.SetOffline(errors.New("cable"))
	assert.False(t, m.IsOnline())

	m.SetOnline()
	assert.Equal(t, int32(2), calls.Load())
}

func TestMonitor_DebouncedSecondAttempt(t *testing.T) {
	m := NewMonitor(false, 20*time.Millisecond, testLogger())
	var calls atomic.Int32
	m.OnOnline(func() { calls.Add(1) })

	m.SetOnline()
	assert.Equal(t, int32(1), calls.Load())

	assert.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestMonitor_OfflineCancelsDebounce(t *testing.T) {
	m := NewMonitor(false, 30*time.Millisecond, testLogger())
	var calls atomic.Int32
	m.OnOnline(func() { calls.Add(1) })

	m.SetOnline()
	m.SetOffline(errors.New("flap"))

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestMonitor_ReportError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantOnline bool
	}{
		{name: "network", err: errDown, wantOnline: false},
		{name: "timeout", err: context.DeadlineExceeded, wantOnline: false},
		{name: "data", err: sync.DataError(errors.New("bad")), wantOnline: true},
		{name: "cancelled by caller", err: context.Canceled, wantOnline: true},
		{name: "nil", err: nil, wantOnline: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMonitor(true, 0, testLogger())
			m.ReportError(tt.err)
			assert.Equal(t, tt.wantOnline, m.IsOnline())
		})
	}
}

func TestMonitor_RunProbes(t *testing.T) {
	gw := newFakeGateway()
	gw.failNext("ping", errDown)
	m := NewMonitor(false, 0, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, gw, 10*time.Millisecond, time.Second)
		close(done)
	}()

	// первая проверка падает, следующая восстанавливает связь
	assert.Eventually(t, m.IsOnline, time.Second, 5*time.Millisecond)
	cancel()
	<-done
}
