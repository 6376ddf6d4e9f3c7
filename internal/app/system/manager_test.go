package system

import (
	"context"
	"errors"
	"testing"
)

type recordingService struct {
	name     string
	startErr error
	events   *[]string
}

func (r recordingService) Name() string { return r.name }

func (r recordingService) Start(ctx context.Context) error {
	if r.startErr != nil {
		return r.startErr
	}
	*r.events = append(*r.events, "start "+r.name)
	return nil
}

func (r recordingService) Stop(ctx context.Context) error {
	*r.events = append(*r.events, "stop "+r.name)
	return nil
}

func TestManagerOrdering(t *testing.T) {
	var events []string
	m := NewManager()
	for _, name := range []string{"a", "b"} {
		if err := m.Register(recordingService{name: name, events: &events}); err != nil {
			t.Fatalf("register: %v", err)
		}
	}

	ctx := context.Background()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := m.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}

	want := []string{"start a", "start b", "stop b", "stop a"}
	if len(events) != len(want) {
		t.Fatalf("unexpected events %v", events)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("event %d = %q, want %q", i, events[i], want[i])
		}
	}
}

func TestManagerRollsBackOnStartFailure(t *testing.T) {
	var events []string
	m := NewManager()
	_ = m.Register(recordingService{name: "a", events: &events})
	_ = m.Register(recordingService{name: "b", events: &events, startErr: errors.New("boom")})

	if err := m.Start(context.Background()); err == nil {
		t.Fatalf("expected start failure")
	}
	if len(events) != 2 || events[1] != "stop a" {
		t.Fatalf("expected a to be stopped again, got %v", events)
	}
}

func TestManagerRejectsDuplicates(t *testing.T) {
	m := NewManager()
	if err := m.Register(NoopService{ServiceName: "x"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := m.Register(NoopService{ServiceName: "x"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
}

func TestCronServiceRunsJob(t *testing.T) {
	c := NewCronService(nil)
	ran := make(chan struct{}, 1)
	if err := c.Schedule("@every 1s", "tick", func() {
		select {
		case ran <- struct{}{}:
		default:
		}
	}); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := c.Schedule("not a spec", "bad", func() {}); err == nil {
		t.Fatalf("expected invalid spec error")
	}

	ctx := context.Background()
	_ = c.Start(ctx)
	defer c.Stop(ctx)

	<-ran
}
