package spectrum

import "testing"

func TestHistoryIsBoundedAndMostRecentFirst(t *testing.T) {
	h := NewHistory(DefaultHistoryLength)
	for i := 0; i < 100; i++ {
		h.Push([]uint8{uint8(i), uint8(i)})
		if h.Len() > DefaultHistoryLength {
			t.Fatalf("history grew to %d", h.Len())
		}
	}
	if h.Len() != DefaultHistoryLength {
		t.Fatalf("expected full history, got %d", h.Len())
	}
	if got := h.At(0)[0]; got != 99 {
		t.Fatalf("expected most recent spectrum first, got %d", got)
	}
	if got := h.At(h.Len() - 1)[0]; got != 70 {
		t.Fatalf("expected oldest kept spectrum 70, got %d", got)
	}
}

func TestHistoryPushCopies(t *testing.T) {
	h := NewHistory(3)
	row := []uint8{1, 2, 3}
	h.Push(row)
	row[0] = 9
	if h.At(0)[0] != 1 {
		t.Fatal("expected history to keep its own copy")
	}
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(4)
	for i := 0; i < 6; i++ {
		h.Push([]uint8{uint8(i)})
	}
	h.Clear()
	if h.Len() != 0 {
		t.Fatalf("expected empty history, got %d", h.Len())
	}
	h.Push([]uint8{42})
	if h.Len() != 1 || h.At(0)[0] != 42 {
		t.Fatalf("unexpected history after clear and push: len=%d", h.Len())
	}
}
