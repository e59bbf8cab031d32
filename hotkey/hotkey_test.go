package hotkey

import (
	"testing"

	hook "github.com/robotn/gohook"
)

func testChord() []Modifier {
	return []Modifier{
		{Name: "left_ctrl", Rawcodes: []uint16{100}},
		{Name: "left_alt", Rawcodes: []uint16{200, 201}},
	}
}

func newTestManager(t *testing.T) (*Manager, *int, *int) {
	t.Helper()

	var presses, releases int
	m, err := NewManager(testChord(),
		func() { presses++ },
		func() { releases++ },
	)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m, &presses, &releases
}

func down(rawcode uint16) hook.Event {
	return hook.Event{Kind: hook.KeyDown, Rawcode: rawcode}
}

func up(rawcode uint16) hook.Event {
	return hook.Event{Kind: hook.KeyUp, Rawcode: rawcode}
}

func TestChordFiresOnceWhenComplete(t *testing.T) {
	m, presses, releases := newTestManager(t)

	m.handleEvent(down(100))
	if *presses != 0 {
		t.Fatal("chord fired with one modifier held")
	}

	m.handleEvent(down(200))
	if *presses != 1 {
		t.Fatalf("presses = %d, want 1", *presses)
	}
	if *releases != 0 {
		t.Fatalf("releases = %d, want 0", *releases)
	}
}

func TestChordOrderIrrelevant(t *testing.T) {
	m, presses, _ := newTestManager(t)

	m.handleEvent(down(201)) // alt first, via alternate rawcode
	m.handleEvent(down(100))
	if *presses != 1 {
		t.Fatalf("presses = %d, want 1", *presses)
	}
}

func TestRepeatedKeyDownIdempotent(t *testing.T) {
	m, presses, _ := newTestManager(t)

	m.handleEvent(down(100))
	m.handleEvent(down(200))
	// OS key repeat delivers more downs and holds while engaged.
	m.handleEvent(down(100))
	m.handleEvent(hook.Event{Kind: hook.KeyHold, Rawcode: 200})

	if *presses != 1 {
		t.Fatalf("presses = %d, want 1", *presses)
	}
}

func TestEitherReleaseBreaksChord(t *testing.T) {
	tests := []struct {
		name    string
		release uint16
	}{
		{"ctrl_release", 100},
		{"alt_release", 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, releases := newTestManager(t)

			m.handleEvent(down(100))
			m.handleEvent(down(200))
			m.handleEvent(up(tt.release))

			if *releases != 1 {
				t.Fatalf("releases = %d, want 1", *releases)
			}

			// The second key's release must not fire again.
			other := uint16(300) - tt.release
			m.handleEvent(up(other))
			if *releases != 1 {
				t.Fatalf("releases = %d after full release, want 1", *releases)
			}
		})
	}
}

func TestReleaseWithoutChordIsNoop(t *testing.T) {
	m, _, releases := newTestManager(t)

	m.handleEvent(up(100))
	m.handleEvent(down(100))
	m.handleEvent(up(100))

	if *releases != 0 {
		t.Fatalf("releases = %d, want 0", *releases)
	}
}

func TestUnrelatedKeysIgnored(t *testing.T) {
	m, presses, releases := newTestManager(t)

	m.handleEvent(down(42))
	m.handleEvent(down(100))
	m.handleEvent(down(42))
	m.handleEvent(up(42))

	if *presses != 0 || *releases != 0 {
		t.Fatalf("presses = %d, releases = %d for unrelated keys", *presses, *releases)
	}
}

func TestChordReengagesAfterRelease(t *testing.T) {
	m, presses, releases := newTestManager(t)

	m.handleEvent(down(100))
	m.handleEvent(down(200))
	m.handleEvent(up(200))
	m.handleEvent(down(200))

	if *presses != 2 {
		t.Fatalf("presses = %d, want 2", *presses)
	}
	if *releases != 1 {
		t.Fatalf("releases = %d, want 1", *releases)
	}
}

func TestParseChord(t *testing.T) {
	chord, err := ParseChord([]string{"left_ctrl", "left_alt"})
	if err != nil {
		t.Fatalf("ParseChord: %v", err)
	}
	if len(chord) != 2 {
		t.Fatalf("chord length = %d, want 2", len(chord))
	}

	if _, err := ParseChord([]string{"hyper"}); err == nil {
		t.Error("expected error for unknown modifier name")
	}
}

func TestNewManagerEmptyChord(t *testing.T) {
	if _, err := NewManager(nil, nil, nil); err == nil {
		t.Error("expected error for empty chord")
	}
}
