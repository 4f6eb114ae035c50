package roomcode

import "testing"

func TestNewRejectsEmptyAlphabet(t *testing.T) {
	if _, err := New("", 4, func() float64 { return 0 }); err == nil {
		t.Fatal("expected error for empty alphabet")
	}
}

func TestNewRejectsNonPositiveLength(t *testing.T) {
	if _, err := New("ABC", 0, func() float64 { return 0 }); err == nil {
		t.Fatal("expected error for zero length")
	}
	if _, err := New("ABC", -1, func() float64 { return 0 }); err == nil {
		t.Fatal("expected error for negative length")
	}
}

func TestGenerateUsesAlphabetIndices(t *testing.T) {
	calls := []float64{0, 0.5, 0.99}
	i := 0
	g, err := New("ABCD", 3, func() float64 {
		v := calls[i]
		i++
		return v
	})
	if err != nil {
		t.Fatal(err)
	}
	got := g.Generate()
	// floor(0*4)=0->'A', floor(0.5*4)=2->'C', floor(0.99*4)=3->'D'
	if got != "ACD" {
		t.Fatalf("got %q, want %q", got, "ACD")
	}
}

func TestGenerateClampsExactOne(t *testing.T) {
	g, err := New("ABCD", 1, func() float64 { return 1.0 })
	if err != nil {
		t.Fatal(err)
	}
	if got := g.Generate(); got != "A" {
		t.Fatalf("got %q, want %q", got, "A")
	}
}
