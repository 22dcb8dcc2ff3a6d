package main

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"
)

type appStub struct {
	startErr error
	stopErr  error
	done     chan os.Signal
	stopped  bool
}

func (a *appStub) Start(context.Context) error { return a.startErr }

func (a *appStub) Stop(context.Context) error {
	a.stopped = true
	return a.stopErr
}

func (a *appStub) Done() <-chan os.Signal { return a.done }

func TestRunStopsOnContextCancel(t *testing.T) {
	app := &appStub{done: make(chan os.Signal)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := run(ctx, app); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !app.stopped {
		t.Fatal("expected application to be stopped")
	}
}

func TestRunStopsOnShutdownSignal(t *testing.T) {
	app := &appStub{done: make(chan os.Signal, 1)}
	app.done <- syscall.SIGTERM
	if err := run(context.Background(), app); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !app.stopped {
		t.Fatal("expected application to be stopped")
	}
}

func TestRunReportsFailures(t *testing.T) {
	boom := errors.New("boom")
	app := &appStub{startErr: boom, done: make(chan os.Signal)}
	if err := run(context.Background(), app); !errors.Is(err, boom) {
		t.Fatalf("expected start error, got %v", err)
	}
	if app.stopped {
		t.Fatal("stop must not run after failed start")
	}

	app = &appStub{stopErr: boom, done: make(chan os.Signal, 1)}
	app.done <- syscall.SIGINT
	if err := run(context.Background(), app); !errors.Is(err, boom) {
		t.Fatalf("expected stop error, got %v", err)
	}
}
