package player

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPlayer struct {
	mu    sync.Mutex
	calls int
	err   error
	block bool
}

func (p *stubPlayer) do(ctx context.Context) error {
	p.mu.Lock()
	p.calls++
	err, block := p.err, p.block
	p.mu.Unlock()
	if block {
		<-ctx.Done()
		return ctx.Err()
	}
	return err
}

func (p *stubPlayer) Play(ctx context.Context) error        { return p.do(ctx) }
func (p *stubPlayer) Pause(ctx context.Context) error       { return p.do(ctx) }
func (p *stubPlayer) Next(ctx context.Context) error        { return p.do(ctx) }
func (p *stubPlayer) Previous(ctx context.Context) error    { return p.do(ctx) }
func (p *stubPlayer) FastForward(ctx context.Context) error { return p.do(ctx) }
func (p *stubPlayer) Rewind(ctx context.Context) error      { return p.do(ctx) }
func (p *stubPlayer) FindPlayer(context.Context) (*Snapshot, error) {
	return &Snapshot{Path: "/org/bluez/hci0/dev_00/player0"}, nil
}

func (p *stubPlayer) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func newTestBreaker(threshold int, timeout time.Duration) (*CircuitBreaker, *time.Time) {
	cb := NewCircuitBreaker(threshold, timeout, 1)
	now := time.Unix(1000, 0)
	cb.now = func() time.Time { return now }
	return cb, &now
}

func TestCircuitBreaker_TripAndRecover(t *testing.T) {
	cb, now := newTestBreaker(2, 10*time.Second)
	boom := errors.New("dbus timeout")
	fail := func() error { return boom }
	ok := func() error { return nil }

	assert.ErrorIs(t, cb.Call(fail, nil), boom)
	assert.Equal(t, BreakerClosed, cb.State())
	assert.ErrorIs(t, cb.Call(fail, nil), boom)
	assert.Equal(t, BreakerOpen, cb.State())

	assert.ErrorIs(t, cb.Call(ok, nil), ErrCircuitOpen)

	*now = now.Add(11 * time.Second)
	assert.NoError(t, cb.Call(ok, nil))
	assert.Equal(t, BreakerClosed, cb.State())
	assert.Equal(t, int64(1), cb.Stats().TripCount)
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, now := newTestBreaker(1, time.Second)
	boom := errors.New("boom")

	_ = cb.Call(func() error { return boom }, nil)
	require.Equal(t, BreakerOpen, cb.State())

	*now = now.Add(2 * time.Second)
	assert.ErrorIs(t, cb.Call(func() error { return boom }, nil), boom)
	assert.Equal(t, BreakerOpen, cb.State())
	assert.Equal(t, int64(2), cb.Stats().TripCount)
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb, _ := newTestBreaker(2, time.Second)
	boom := errors.New("boom")

	_ = cb.Call(func() error { return boom }, nil)
	_ = cb.Call(func() error { return nil }, nil)
	_ = cb.Call(func() error { return boom }, nil)
	assert.Equal(t, BreakerClosed, cb.State())
	assert.Equal(t, 1, cb.Stats().Failures)
}

func TestCircuitBreaker_IgnoredErrors(t *testing.T) {
	cb, _ := newTestBreaker(1, time.Second)
	ignore := func(err error) bool { return errors.Is(err, ErrNoPlayer) }

	assert.ErrorIs(t, cb.Call(func() error { return ErrNoPlayer }, ignore), ErrNoPlayer)
	assert.Equal(t, BreakerClosed, cb.State())
}

func TestGuarded_Timeout(t *testing.T) {
	p := &stubPlayer{block: true}
	g := NewGuarded(p, nil, 20*time.Millisecond, nil)

	err := g.Play(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, p.Calls())
}

func TestGuarded_BreakerStopsCalls(t *testing.T) {
	p := &stubPlayer{err: errors.New("org.freedesktop.DBus.Error.NoReply")}
	cb, _ := newTestBreaker(2, time.Minute)
	g := NewGuarded(p, cb, time.Second, nil)
	ctx := context.Background()

	assert.Error(t, g.Next(ctx))
	assert.Error(t, g.Previous(ctx))
	assert.ErrorIs(t, g.Pause(ctx), ErrCircuitOpen)
	assert.Equal(t, 2, p.Calls())
	assert.Same(t, cb, g.Breaker())

	snap, err := g.FindPlayer(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, snap.Path)
}

func TestGuarded_NoPlayerDoesNotTrip(t *testing.T) {
	p := &stubPlayer{err: ErrNoPlayer}
	cb, _ := newTestBreaker(1, time.Minute)
	g := NewGuarded(p, cb, 0, nil)

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, g.FastForward(context.Background()), ErrNoPlayer)
	}
	assert.Equal(t, 3, p.Calls())
	assert.Equal(t, BreakerClosed, cb.State())
}
