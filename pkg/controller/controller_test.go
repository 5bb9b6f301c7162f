package controller

import "testing"

func TestShiftSequenceMatchesLatchedSnapshot(t *testing.T) {
	c := NewController()

	// 0xA5 = 1,0,1,0,0,1,0,1 read LSB first.
	c.SetButton(ButtonA, true)
	c.SetButton(ButtonB, false)
	c.SetButton(ButtonSelect, true)
	c.SetButton(ButtonStart, false)
	c.SetButton(ButtonUp, false)
	c.SetButton(ButtonDown, true)
	c.SetButton(ButtonLeft, false)
	c.SetButton(ButtonRight, true)

	c.Write(1)
	c.Write(0)

	want := []uint8{1, 0, 1, 0, 0, 1, 0, 1, 1, 1}
	for i, w := range want {
		if got := c.Read(); got != w {
			t.Fatalf("read %d: got %d, want %d", i, got, w)
		}
	}
}

func TestStrobeHeldHighAlwaysReturnsButtonA(t *testing.T) {
	c := NewController()
	c.SetButton(ButtonA, true)
	c.Write(1)

	for i := 0; i < 5; i++ {
		if got := c.Read(); got != 1 {
			t.Fatalf("read %d while strobed: got %d, want 1", i, got)
		}
	}

	c.SetButton(ButtonA, false)
	if got := c.Read(); got != 0 {
		t.Fatalf("strobed read after release: got %d, want 0", got)
	}
}

func TestRisingEdgeReloadsLatch(t *testing.T) {
	c := NewController()
	c.SetButton(ButtonA, true)
	c.Write(1)
	c.Write(0)

	_ = c.Read()
	_ = c.Read()

	// Re-strobe mid-sequence should reset the index and relatch.
	c.SetButton(ButtonB, true)
	c.Write(1)
	c.Write(0)

	if got := c.Read(); got != 1 {
		t.Fatalf("first read after relatch: got %d, want 1 (A)", got)
	}
	if got := c.Read(); got != 1 {
		t.Fatalf("second read after relatch: got %d, want 1 (B)", got)
	}
}

func TestResetPreservesLiveButtons(t *testing.T) {
	c := NewController()
	c.SetButton(ButtonStart, true)
	c.Reset()

	if !c.IsPressed(ButtonStart) {
		t.Fatal("Reset cleared live button state, want it preserved")
	}
}
