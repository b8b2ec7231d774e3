package editor

import "testing"

func TestScrollEdgeTriggeredSnapsOnlyWhenOffscreen(t *testing.T) {
	e := newTestEditor()
	e.screenRows = 5
	for i := 0; i < 20; i++ {
		e.rawInsertRowAt(i, []byte("line"))
	}

	e.cy = 2
	e.ScrollToCursor()
	if e.rowOffset != 0 {
		t.Errorf("expected no scroll while cursor is on screen, got rowOffset=%d", e.rowOffset)
	}

	e.cy = 10
	e.ScrollToCursor()
	if e.rowOffset != 6 {
		t.Errorf("expected rowOffset 6 once cursor scrolls past the bottom, got %d", e.rowOffset)
	}
}

func TestScrollCenteredKeepsCursorMidScreen(t *testing.T) {
	e := newTestEditor()
	e.screenRows = 10
	e.centeredScroll = true
	for i := 0; i < 50; i++ {
		e.rawInsertRowAt(i, []byte("line"))
	}

	e.cy = 30
	e.ScrollToCursor()
	want := 30 - e.screenRows/2
	if e.rowOffset != want {
		t.Errorf("expected rowOffset %d, got %d", want, e.rowOffset)
	}
}

func TestWheelTickRampsUpOnFastTicks(t *testing.T) {
	e := newTestEditor()
	t0 := baseTime()

	if steps := e.WheelTick(t0); steps != 1 {
		t.Errorf("expected first tick to be speed 1, got %d", steps)
	}
	if steps := e.WheelTick(t0.Add(30 * 1_000_000)); steps != 2 {
		t.Errorf("expected a fast second tick to ramp to speed 2, got %d", steps)
	}
}

func TestWheelTickResetsAfterPause(t *testing.T) {
	e := newTestEditor()
	t0 := baseTime()

	e.WheelTick(t0)
	e.WheelTick(t0.Add(30 * 1_000_000))
	steps := e.WheelTick(t0.Add(500 * 1_000_000))
	if steps != 1 {
		t.Errorf("expected a tick after a long pause to reset to speed 1, got %d", steps)
	}
}
