package session

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vovakirdan/tui-lander/internal/config"
	"github.com/vovakirdan/tui-lander/internal/engine"
)

func TestPublishDropsOldest(t *testing.T) {
	s := New("test", config.DefaultLanderConfig(), 2)
	defer s.Close()

	for v := uint64(1); v <= 3; v++ {
		s.Publish(engine.Frame{Version: v})
	}

	first := <-s.Frames()
	second := <-s.Frames()
	if first.Version != 2 || second.Version != 3 {
		t.Errorf("got versions %d, %d; expected 2, 3", first.Version, second.Version)
	}
}

func TestPublishAfterClose(t *testing.T) {
	s := New("test", config.DefaultLanderConfig(), 1)
	s.Close()
	s.Close()

	s.Publish(engine.Frame{Version: 1})
	select {
	case f := <-s.Frames():
		t.Errorf("received frame %d after Close", f.Version)
	default:
	}

	select {
	case <-s.Engine().Done():
	default:
		t.Error("Close() should destroy the engine")
	}
}

func TestSessionDeliversEngineFrames(t *testing.T) {
	s := New(LocalID, config.DefaultLanderConfig(), 8)
	defer s.Close()
	s.Start(context.Background())

	s.Engine().Start()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case f := <-s.Frames():
			if f.Mode == engine.ModeRunning {
				return
			}
		case <-deadline:
			t.Fatal("no running frame delivered")
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	a := New("a", config.DefaultLanderConfig(), 1)
	b := New("b", config.DefaultLanderConfig(), 1)

	r.Register(a)
	r.Register(b)
	if r.Count() != 2 {
		t.Errorf("Count() = %d, expected 2", r.Count())
	}

	if got, ok := r.Get("a"); !ok || got != a {
		t.Error("Get(a) did not return the registered session")
	}

	r.Unregister("a")
	if _, ok := r.Get("a"); ok {
		t.Error("Get(a) should fail after Unregister")
	}

	r.CloseAll()
	if r.Count() != 0 {
		t.Errorf("Count() after CloseAll = %d, expected 0", r.Count())
	}
	select {
	case <-b.Done():
	default:
		t.Error("CloseAll() should close registered sessions")
	}
	a.Close()
}

func TestRegistryAddIsExclusive(t *testing.T) {
	r := NewRegistry()
	const racers = 16

	sessions := make([]*Session, racers)
	for i := range sessions {
		sessions[i] = New("ssh:pilot", config.DefaultLanderConfig(), 1)
		t.Cleanup(sessions[i].Close)
	}

	var added atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for _, s := range sessions {
		wg.Add(1)
		go func(s *Session) {
			defer wg.Done()
			<-start
			if r.Add(s) {
				added.Add(1)
			}
		}(s)
	}
	close(start)
	wg.Wait()

	if got := added.Load(); got != 1 {
		t.Errorf("Add() succeeded %d times, expected 1", got)
	}
	if r.Count() != 1 {
		t.Errorf("Count() = %d, expected 1", r.Count())
	}

	winner, _ := r.Get("ssh:pilot")
	for _, s := range sessions {
		if s != winner && r.Remove(s) {
			t.Error("Remove() should not drop a session registered by another caller")
		}
	}
	if !r.Remove(winner) {
		t.Error("Remove() of the registered session = false, expected true")
	}
	if r.Count() != 0 {
		t.Errorf("Count() after Remove = %d, expected 0", r.Count())
	}
}
