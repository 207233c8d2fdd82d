package guide

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// ErrIncomplete is returned when the sequence is requested before StateFinal.
var ErrIncomplete = errors.New("guide not complete")

// step pairs a selection with the state it was made from, so undo restores
// exactly the prior state even where the selection kind is ambiguous.
type step struct {
	sel  Selection
	from State
}

// Session is the guide state of one user. It is not safe for concurrent use;
// each session is owned by a single caller.
type Session struct {
	state    State
	steps    []step
	sequence []Entry
}

// NewSession returns a session at StateStart with no selections.
func NewSession() *Session {
	return &Session{state: StateStart}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Selections returns a copy of the recorded selections in order.
func (s *Session) Selections() []Selection {
	out := make([]Selection, len(s.steps))
	for i, st := range s.steps {
		out[i] = st.sel
	}
	return out
}

// Select applies sel. An event not valid for the current state is rejected
// and the session is left unchanged.
func (s *Session) Select(sel Selection) error {
	next, err := Next(s.state, s.Selections(), sel)
	if err != nil {
		log.Warn().Err(err).Str("state", string(s.state)).Msg("Rejected guide selection")
		return err
	}
	log.Debug().
		Str("from", string(s.state)).
		Str("to", string(next)).
		Str("kind", string(sel.Kind())).
		Str("value", sel.Value()).
		Msg("Guide transition")
	s.steps = append(s.steps, step{sel: sel, from: s.state})
	s.state = next
	s.sequence = nil
	return nil
}

// Back removes the last selection and returns to the state it was made from.
// It reports false, doing nothing, when no selection is recorded.
func (s *Session) Back() bool {
	if len(s.steps) == 0 {
		s.state = StateStart
		return false
	}
	last := s.steps[len(s.steps)-1]
	s.steps = s.steps[:len(s.steps)-1]
	s.state = last.from
	s.sequence = nil
	return true
}

// Restart clears every selection and returns to StateStart.
func (s *Session) Restart() {
	s.state = StateStart
	s.steps = nil
	s.sequence = nil
}

// Options lists the selections offered in the current state.
func (s *Session) Options() []Option {
	return OptionsFor(s.state, s.Selections())
}

// Summary renders the recorded selections for display.
func (s *Session) Summary() []SummaryLine {
	return Summarize(s.Selections())
}

// Sequence materializes the video sequence of a completed guide. The result
// is kept until the selections change.
func (s *Session) Sequence() ([]Entry, error) {
	if s.state != StateFinal {
		return nil, fmt.Errorf("%w: state is %s", ErrIncomplete, s.state)
	}
	if s.sequence == nil {
		s.sequence = Materialize(s.Selections())
	}
	out := make([]Entry, len(s.sequence))
	copy(out, s.sequence)
	return out, nil
}
