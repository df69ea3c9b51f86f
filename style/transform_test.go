package style

import "testing"

// --- Channel composition ---

// Regression: updating one transform channel must never erase siblings.
// Historically each property overwrote the whole composite descriptor.
func TestCombineKeepsSiblingChannels(t *testing.T) {
	d := Combine("", "translateX", "10px")
	d = Combine(d, "scaleX", "2")
	d = Combine(d, "translateX", "20px")

	want := "translateX(20px) scaleX(2)"
	if d != want {
		t.Errorf("descriptor = %q, want %q", d, want)
	}
}

// Channels serialize in canonical order regardless of the order they were
// animated in.
func TestCombineCanonicalOrder(t *testing.T) {
	d := Combine("", "rotate", "45deg")
	d = Combine(d, "skewX", "5deg")
	d = Combine(d, "translateY", "10px")
	d = Combine(d, "scaleY", "1.5")

	want := "translateY(10px) scaleY(1.5) rotate(45deg) skewX(5deg)"
	if d != want {
		t.Errorf("descriptor = %q, want %q", d, want)
	}
}

func TestCombineOverwritesOnlyNamedChannel(t *testing.T) {
	d := "translateX(1px) translateY(2px) rotate(3deg)"
	got := Combine(d, "translateY", "9px")
	want := "translateX(1px) translateY(9px) rotate(3deg)"
	if got != want {
		t.Errorf("descriptor = %q, want %q", got, want)
	}
}

// --- Authored base transforms ---

// An externally authored matrix is opaque: preserved verbatim and kept in
// front of the animated channels.
func TestCombinePreservesBaseMatrix(t *testing.T) {
	base := "matrix(1, 0, 0, 1, 10, 20)"
	d := Combine(base, "translateX", "5px")
	want := "matrix(1, 0, 0, 1, 10, 20) translateX(5px)"
	if d != want {
		t.Errorf("descriptor = %q, want %q", d, want)
	}

	d = Combine(d, "scaleX", "2")
	want = "matrix(1, 0, 0, 1, 10, 20) translateX(5px) scaleX(2)"
	if d != want {
		t.Errorf("descriptor = %q, want %q", d, want)
	}
}

// --- Channel lookup ---

func TestChannel(t *testing.T) {
	d := "matrix(1, 0, 0, 1, 10, 20) translateX(5px) rotate(45deg)"
	if v, ok := Channel(d, "translateX"); !ok || v != "5px" {
		t.Errorf("Channel(translateX) = %q, %v", v, ok)
	}
	if v, ok := Channel(d, "rotate"); !ok || v != "45deg" {
		t.Errorf("Channel(rotate) = %q, %v", v, ok)
	}
	if _, ok := Channel(d, "scaleX"); ok {
		t.Error("Channel(scaleX) reported present")
	}
	if _, ok := Channel("", "translateX"); ok {
		t.Error("Channel on empty descriptor reported present")
	}
}

func TestCombineEmptyDescriptor(t *testing.T) {
	if got := Combine("", "scaleX", "2"); got != "scaleX(2)" {
		t.Errorf("descriptor = %q, want scaleX(2)", got)
	}
}
