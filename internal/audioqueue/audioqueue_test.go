package audioqueue

import "testing"

func TestPushDrainRoundTrip(t *testing.T) {
	q := New(4)
	q.Push(0.1)
	q.Push(0.2)
	got := q.Drain()
	if len(got) != 2 || got[0] != 0.1 || got[1] != 0.2 {
		t.Fatalf("unexpected drain result: %v", got)
	}
	if q.Len() != 0 {
		t.Fatal("expected queue empty after drain")
	}
}

func TestPushDropsOldestWhenFull(t *testing.T) {
	q := New(2)
	q.Push(1)
	q.Push(2)
	q.Push(3) // should drop 1
	got := q.Drain()
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("expected [2 3], got %v", got)
	}
}
