package guide

import (
	"errors"
	"reflect"
	"testing"
)

func mustSelect(t *testing.T, s *Session, kind, value string) {
	t.Helper()
	sel, err := ParseSelection(kind, value)
	if err != nil {
		t.Fatalf("ParseSelection(%q, %q): %v", kind, value, err)
	}
	if err := s.Select(sel); err != nil {
		t.Fatalf("Select(%s=%s): %v", kind, value, err)
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		name  string
		state State
		prior []Selection
		sel   Selection
		want  State
	}{
		{"superficial", StateStart, nil, WoundTypeSelection{Superficial}, StateLocationSelection},
		{"cavity", StateStart, nil, WoundTypeSelection{Cavity}, StateLocationSelection},
		{"webspace", StateStart, nil, WoundTypeSelection{Webspace}, StateFinal},
		{"multiple toes", StateStart, nil, WoundTypeSelection{MultipleToes}, StateFinal},
		{"povidone", StateStart, nil, WoundTypeSelection{Povidone}, StateFinal},
		{"superficial location", StateLocationSelection, []Selection{WoundTypeSelection{Superficial}}, LocationSelection{Heel}, StatePrimaryDressing},
		{"cavity location", StateLocationSelection, []Selection{WoundTypeSelection{Cavity}}, LocationSelection{Toes}, StateCavityDressing},
		{"sheet", StatePrimaryDressing, []Selection{WoundTypeSelection{Superficial}, LocationSelection{MidFoot}}, DressingSelection{Sheet}, StateFinal},
		{"iodosorb", StatePrimaryDressing, []Selection{WoundTypeSelection{Superficial}, LocationSelection{MidFoot}}, DressingSelection{Iodosorb}, StateFinal},
		{"cavity primary", StateCavityDressing, []Selection{WoundTypeSelection{Cavity}, LocationSelection{Heel}}, DressingSelection{CavityPrimary}, StateFinal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.state, tt.prior, tt.sel)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Next = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNextRejectsInvalidEvents(t *testing.T) {
	tests := []struct {
		name  string
		state State
		prior []Selection
		sel   Selection
	}{
		{"location at start", StateStart, nil, LocationSelection{Heel}},
		{"dressing at start", StateStart, nil, DressingSelection{Sheet}},
		{"wound type at location", StateLocationSelection, []Selection{WoundTypeSelection{Cavity}}, WoundTypeSelection{Superficial}},
		{"cavity dressing for superficial", StatePrimaryDressing, []Selection{WoundTypeSelection{Superficial}, LocationSelection{Heel}}, DressingSelection{CavityPrimary}},
		{"sheet for cavity", StateCavityDressing, []Selection{WoundTypeSelection{Cavity}, LocationSelection{Heel}}, DressingSelection{Sheet}},
		{"anything at final", StateFinal, []Selection{WoundTypeSelection{Webspace}}, WoundTypeSelection{Cavity}},
		{"nil at start", StateStart, nil, nil},
		{"nil at location", StateLocationSelection, []Selection{WoundTypeSelection{Superficial}}, nil},
		{"nil at dressing", StateCavityDressing, []Selection{WoundTypeSelection{Cavity}, LocationSelection{Toes}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Next(tt.state, tt.prior, tt.sel)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("expected ErrInvalidTransition, got %v", err)
			}
			if got != tt.state {
				t.Errorf("state changed to %s on rejected event", got)
			}
		})
	}
}

func TestReplayRejectsNilSelection(t *testing.T) {
	state, err := Replay([]Selection{WoundTypeSelection{Superficial}, nil})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if state != StateLocationSelection {
		t.Errorf("state = %s, want %s", state, StateLocationSelection)
	}
}

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection("Dressing", " CAVITY_PRIMARY ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel != (DressingSelection{CavityPrimary}) {
		t.Errorf("got %#v", sel)
	}

	for _, in := range [][2]string{{"wound_type", "burn"}, {"location", "knee"}, {"dressing", "foam"}, {"colour", "red"}} {
		if _, err := ParseSelection(in[0], in[1]); !errors.Is(err, ErrUnknownValue) {
			t.Errorf("ParseSelection(%q, %q): expected ErrUnknownValue, got %v", in[0], in[1], err)
		}
	}
}

func TestSessionRejectsInvalidEventWithoutMutation(t *testing.T) {
	s := NewSession()
	mustSelect(t, s, "wound_type", "superficial")
	before := s.Selections()

	if err := s.Select(DressingSelection{Sheet}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if s.State() != StateLocationSelection {
		t.Errorf("state = %s, want %s", s.State(), StateLocationSelection)
	}
	if !reflect.DeepEqual(s.Selections(), before) {
		t.Errorf("selections changed: %v", s.Selections())
	}
	if err := s.Select(nil); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("nil selection: expected ErrInvalidTransition, got %v", err)
	}
}

func TestSessionBack(t *testing.T) {
	s := NewSession()
	if s.Back() {
		t.Error("Back at start should report false")
	}
	if s.State() != StateStart {
		t.Errorf("state = %s, want start", s.State())
	}

	mustSelect(t, s, "wound_type", "cavity")
	mustSelect(t, s, "location", "midfoot")
	if s.State() != StateCavityDressing {
		t.Fatalf("state = %s, want cavity_dressing", s.State())
	}

	if !s.Back() {
		t.Fatal("Back should report true")
	}
	if s.State() != StateLocationSelection {
		t.Errorf("after first back: state = %s, want location_selection", s.State())
	}
	if !s.Back() {
		t.Fatal("Back should report true")
	}
	if s.State() != StateStart || len(s.Selections()) != 0 {
		t.Errorf("after second back: state = %s, selections = %v", s.State(), s.Selections())
	}
}

func TestSessionBackFromDirectPath(t *testing.T) {
	s := NewSession()
	mustSelect(t, s, "wound_type", "povidone")
	if s.State() != StateFinal {
		t.Fatalf("state = %s, want final", s.State())
	}
	s.Back()
	if s.State() != StateStart {
		t.Errorf("state = %s, want start", s.State())
	}
}

func TestSessionBackThenRedoIsIdentical(t *testing.T) {
	paths := [][][2]string{
		{{"wound_type", "superficial"}, {"location", "heel"}, {"dressing", "sheet"}},
		{{"wound_type", "superficial"}, {"location", "toes"}, {"dressing", "iodosorb"}},
		{{"wound_type", "cavity"}, {"location", "midfoot"}, {"dressing", "cavity_primary"}},
		{{"wound_type", "webspace"}},
		{{"wound_type", "multiple_toes"}},
	}

	for _, path := range paths {
		t.Run(path[0][1]+"/"+path[len(path)-1][1], func(t *testing.T) {
			s := NewSession()
			for _, p := range path {
				mustSelect(t, s, p[0], p[1])
			}
			wantSel, wantState := s.Selections(), s.State()

			// Undo down to depth i, then redo the remaining steps.
			for i := len(path) - 1; i >= 0; i-- {
				for n := len(path) - i; n > 0; n-- {
					s.Back()
				}
				if got := len(s.Selections()); got != i {
					t.Fatalf("after undoing to depth %d: %d selections", i, got)
				}
				for _, p := range path[i:] {
					mustSelect(t, s, p[0], p[1])
				}
				if !reflect.DeepEqual(s.Selections(), wantSel) || s.State() != wantState {
					t.Fatalf("round trip at step %d: got %v/%s, want %v/%s", i, s.Selections(), s.State(), wantSel, wantState)
				}
			}
		})
	}
}

func TestSessionRestart(t *testing.T) {
	setups := map[string][][2]string{
		"start":    nil,
		"location": {{"wound_type", "cavity"}},
		"dressing": {{"wound_type", "superficial"}, {"location", "toes"}},
		"final":    {{"wound_type", "cavity"}, {"location", "heel"}, {"dressing", "cavity_primary"}},
		"direct":   {{"wound_type", "webspace"}},
	}

	for name, steps := range setups {
		t.Run(name, func(t *testing.T) {
			s := NewSession()
			for _, p := range steps {
				mustSelect(t, s, p[0], p[1])
			}
			s.Restart()
			if s.State() != StateStart {
				t.Errorf("state = %s, want start", s.State())
			}
			if len(s.Selections()) != 0 {
				t.Errorf("selections = %v, want empty", s.Selections())
			}
		})
	}
}

func TestStateAfterAgreesWithSessionBack(t *testing.T) {
	s := NewSession()
	mustSelect(t, s, "wound_type", "superficial")
	mustSelect(t, s, "location", "heel")
	mustSelect(t, s, "dressing", "iodosorb")

	for s.Back() {
		if got := StateAfter(s.Selections()); got != s.State() {
			t.Errorf("StateAfter(%v) = %s, Back restored %s", s.Selections(), got, s.State())
		}
	}
}

func TestReplay(t *testing.T) {
	state, err := Replay([]Selection{WoundTypeSelection{Cavity}, LocationSelection{Heel}, DressingSelection{CavityPrimary}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state != StateFinal {
		t.Errorf("state = %s, want final", state)
	}

	_, err = Replay([]Selection{LocationSelection{Heel}})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestOptions(t *testing.T) {
	s := NewSession()
	if got := len(s.Options()); got != 5 {
		t.Errorf("start options = %d, want 5", got)
	}
	mustSelect(t, s, "wound_type", "superficial")
	if got := len(s.Options()); got != 3 {
		t.Errorf("location options = %d, want 3", got)
	}
	mustSelect(t, s, "location", "heel")
	opts := s.Options()
	if len(opts) != 2 || opts[0].Value != "sheet" || opts[1].Value != "iodosorb" {
		t.Errorf("primary dressing options = %v", opts)
	}
	mustSelect(t, s, "dressing", "sheet")
	if got := s.Options(); len(got) != 0 {
		t.Errorf("final options = %v, want none", got)
	}
}

func TestSummary(t *testing.T) {
	s := NewSession()
	mustSelect(t, s, "wound_type", "cavity")
	mustSelect(t, s, "location", "midfoot")
	mustSelect(t, s, "dressing", "cavity_primary")

	want := []SummaryLine{
		{Label: "Type Of Wound", Value: "Cavity"},
		{Label: "Location", Value: "Midfoot"},
		{Label: "Dressing", Value: "Cavity Primary"},
	}
	if got := s.Summary(); !reflect.DeepEqual(got, want) {
		t.Errorf("Summary = %v, want %v", got, want)
	}
}
