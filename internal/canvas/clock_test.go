package canvas_test

import (
	"testing"
	"time"

	"scrapbook/internal/canvas"
)

func TestManualClock_FiresInOrder(t *testing.T) {
	c := &canvas.ManualClock{}
	var fired []string
	c.AfterFunc(200*time.Millisecond, func() { fired = append(fired, "late") })
	c.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "early") })

	c.Advance(50 * time.Millisecond)
	if len(fired) != 0 {
		t.Fatalf("expected nothing fired at 50ms, got %v", fired)
	}
	c.Advance(500 * time.Millisecond)
	if len(fired) != 2 || fired[0] != "early" || fired[1] != "late" {
		t.Errorf("expected [early late], got %v", fired)
	}
	if c.Pending() != 0 {
		t.Errorf("expected no pending timers, got %d", c.Pending())
	}
}

func TestManualClock_Stop(t *testing.T) {
	c := &canvas.ManualClock{}
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })
	if !timer.Stop() {
		t.Fatal("expected first Stop to report true")
	}
	if timer.Stop() {
		t.Error("expected second Stop to report false")
	}
	c.Advance(2 * time.Second)
	if fired {
		t.Error("expected stopped timer not to fire")
	}
}
