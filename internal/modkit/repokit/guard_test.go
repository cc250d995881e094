package repokit

import (
	"context"
	"errors"
	"testing"
	"time"

	"piiquante/internal/platform/testkit"
)

// pinger records the ctx it saw and returns a preset error
type pinger struct {
	lastCtx context.Context
	err     error
}

func (p *pinger) Ping(ctx context.Context) error {
	p.lastCtx = ctx
	return p.err
}

type guardFake struct{ err error }

func (g guardFake) Guard(context.Context) error { return g.err }

func TestMustPingPanicsOnNilDependency(t *testing.T) {
	t.Parallel()
	testkit.MustPanic(t, func() { MustPing(context.Background(), "pg", nil) })
}

func TestMustPingAddsDefaultDeadline(t *testing.T) {
	t.Parallel()

	p := &pinger{}
	start := time.Now()
	testkit.MustNotPanic(t, func() { MustPing(context.Background(), "pg", p) })

	dl, ok := p.lastCtx.Deadline()
	if !ok {
		t.Fatalf("expected MustPing to set a deadline")
	}
	if d := dl.Sub(start); d < guardTimeout-time.Second || d > guardTimeout+time.Second {
		t.Fatalf("default deadline not ~%v out: got %v", guardTimeout, d)
	}
}

func TestMustPingHonorsCallerDeadline(t *testing.T) {
	t.Parallel()

	p := &pinger{}
	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	testkit.MustNotPanic(t, func() { MustPing(ctx, "pg", p) })

	want, _ := ctx.Deadline()
	got, ok := p.lastCtx.Deadline()
	if !ok || !got.Equal(want) {
		t.Fatalf("deadline = %v (set=%v), want caller's %v", got, ok, want)
	}
}

func TestMustPingPanicsOnPingError(t *testing.T) {
	t.Parallel()
	p := &pinger{err: errors.New("boom")}
	testkit.MustPanic(t, func() { MustPing(context.Background(), "pg", p) })
}

func TestMustGuard(t *testing.T) {
	t.Parallel()
	testkit.MustNotPanic(t, func() { MustGuard(context.Background(), guardFake{}) })
	testkit.MustPanic(t, func() { MustGuard(context.Background(), guardFake{err: errors.New("boom")}) })
}
