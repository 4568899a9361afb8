package learning

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestSchedulerInitialDelayThenInterval(t *testing.T) {
	ticks := make(chan time.Time)
	runs := make(chan struct{}, 4)

	var mu sync.Mutex
	var waits []time.Duration
	s := &Scheduler{
		InitialDelay: 30 * time.Second,
		Interval:     time.Hour,
		Job:          func(context.Context) { runs <- struct{}{} },
		After: func(d time.Duration) <-chan time.Time {
			mu.Lock()
			waits = append(waits, d)
			mu.Unlock()
			return ticks
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- s.Start(ctx) }()

	ticks <- time.Now()
	<-runs
	ticks <- time.Now()
	<-runs
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Start returned %v", err)
	}

	if len(waits) < 2 || waits[0] != 30*time.Second || waits[1] != time.Hour {
		t.Fatalf("waits = %v", waits)
	}
}

func TestSchedulerStopsBeforeFirstRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := &Scheduler{InitialDelay: time.Hour, Job: func(context.Context) { t.Error("job ran") }}
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestVersion(t *testing.T) {
	v, err := ParseVersion("1.2.3")
	if err != nil {
		t.Fatal(err)
	}
	if got := v.BumpPatch().String(); got != "1.2.4" {
		t.Errorf("BumpPatch = %s", got)
	}
	for _, bad := range []string{"", "1.2", "1.x.3", "1.2.-1"} {
		if _, err := ParseVersion(bad); err == nil {
			t.Errorf("ParseVersion(%q) succeeded", bad)
		}
	}

	b, err := json.Marshal(struct{ V Version }{v})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"V":"1.2.3"}` {
		t.Errorf("json = %s", b)
	}
}
