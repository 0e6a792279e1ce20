package frontier

import "testing"

func TestPushPopFIFO(t *testing.T) {
	f := New()
	for _, name := range []string{"GamingLaptops", "laptops", "thinkpad"} {
		if !f.Push(name) {
			t.Fatalf("Expected %q to be queued", name)
		}
	}
	for _, want := range []string{"GamingLaptops", "laptops", "thinkpad"} {
		got, ok := f.Pop()
		if !ok || got != want {
			t.Fatalf("Expected Pop()=%q,true but got %q,%v", want, got, ok)
		}
	}
	if _, ok := f.Pop(); ok {
		t.Error("Expected empty frontier")
	}
}

func TestPushDeduplicatesCaseInsensitive(t *testing.T) {
	f := New()
	f.Push("Laptops")
	if f.Push("laptops") || f.Push("LAPTOPS") || f.Push(" laptops ") {
		t.Error("Expected case variants to be rejected")
	}
	if f.Len() != 1 || f.Visited() != 1 {
		t.Errorf("Expected 1 queued and 1 visited, got %d and %d", f.Len(), f.Visited())
	}
	if !f.Seen("LaPtOpS") {
		t.Error("Expected Seen to be case-insensitive")
	}
}

func TestVisitedSurvivesPop(t *testing.T) {
	f := New()
	f.Push("thinkpad")
	f.Pop()
	if f.Push("ThinkPad") {
		t.Error("Expected a processed name never to be queued again")
	}
	if f.Visited() != 1 {
		t.Errorf("Expected visited=1, got %d", f.Visited())
	}
}

func TestVisitedMonotonic(t *testing.T) {
	f := New()
	names := []string{"a", "b", "A", "c", "b", "d", "C"}
	last := 0
	for _, n := range names {
		f.Push(n)
		if f.Visited() < last {
			t.Fatalf("Visited shrank from %d to %d", last, f.Visited())
		}
		last = f.Visited()
		if n == "c" {
			f.Pop()
		}
	}
	if last != 4 {
		t.Errorf("Expected 4 distinct names, got %d", last)
	}
}

func TestPushEmpty(t *testing.T) {
	f := New()
	if f.Push("  ") {
		t.Error("Expected blank name to be ignored")
	}
}
