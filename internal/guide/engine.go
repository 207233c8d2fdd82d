package guide

import (
	"fmt"
	"strings"
)

// Next computes the state reached by applying sel in state, given the
// selections recorded so far. It does not modify selections. An event not
// offered in state yields an error wrapping ErrInvalidTransition.
func Next(state State, selections []Selection, sel Selection) (State, error) {
	if sel == nil {
		return state, fmt.Errorf("%w: nil selection in state %s", ErrInvalidTransition, state)
	}
	switch state {
	case StateStart:
		ws, ok := sel.(WoundTypeSelection)
		if !ok {
			return state, invalid(state, sel)
		}
		if ws.Type.Direct() {
			return StateFinal, nil
		}
		return StateLocationSelection, nil

	case StateLocationSelection:
		if _, ok := sel.(LocationSelection); !ok {
			return state, invalid(state, sel)
		}
		wound, _ := WoundTypeOf(selections)
		switch wound {
		case Superficial:
			return StatePrimaryDressing, nil
		case Cavity:
			return StateCavityDressing, nil
		default:
			return state, fmt.Errorf("%w: no multi-step wound type recorded before location", ErrInvalidTransition)
		}

	case StatePrimaryDressing, StateCavityDressing:
		ds, ok := sel.(DressingSelection)
		if !ok {
			return state, invalid(state, sel)
		}
		wound, _ := WoundTypeOf(selections)
		for _, d := range DressingsFor(wound) {
			if d == ds.Dressing {
				return StateFinal, nil
			}
		}
		return state, invalid(state, sel)

	default:
		return state, invalid(state, sel)
	}
}

func invalid(state State, sel Selection) error {
	return fmt.Errorf("%w: %s %q in state %s", ErrInvalidTransition, sel.Kind(), sel.Value(), state)
}

// Replay validates an ordered list of selections from Start and returns the
// state it leads to.
func Replay(selections []Selection) (State, error) {
	state := StateStart
	for i, sel := range selections {
		next, err := Next(state, selections[:i], sel)
		if err != nil {
			return state, fmt.Errorf("selection %d: %w", i+1, err)
		}
		state = next
	}
	return state, nil
}

// StateAfter derives the state implied by the kind of the last selection.
// A wound type leads to location selection, a location to the dressing step
// of the recorded wound type. A dressing, or a direct-path wound type, is
// terminal.
func StateAfter(selections []Selection) State {
	if len(selections) == 0 {
		return StateStart
	}
	switch last := selections[len(selections)-1].(type) {
	case WoundTypeSelection:
		if last.Type.Direct() {
			return StateFinal
		}
		return StateLocationSelection
	case LocationSelection:
		if wound, _ := WoundTypeOf(selections); wound == Cavity {
			return StateCavityDressing
		}
		return StatePrimaryDressing
	default:
		return StateFinal
	}
}

// WoundTypeOf returns the first recorded wound type.
func WoundTypeOf(selections []Selection) (WoundType, bool) {
	for _, s := range selections {
		if ws, ok := s.(WoundTypeSelection); ok {
			return ws.Type, true
		}
	}
	return "", false
}

// Option is an event offered in a given state.
type Option struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// OptionsFor lists the selections valid in state.
func OptionsFor(state State, selections []Selection) []Option {
	var opts []Option
	switch state {
	case StateStart:
		for _, w := range WoundTypes {
			opts = append(opts, Option{Kind: KindWoundType, Value: string(w), Label: w.Label()})
		}
	case StateLocationSelection:
		for _, l := range Locations {
			opts = append(opts, Option{Kind: KindLocation, Value: string(l), Label: l.Label()})
		}
	case StatePrimaryDressing, StateCavityDressing:
		wound, _ := WoundTypeOf(selections)
		for _, d := range DressingsFor(wound) {
			opts = append(opts, Option{Kind: KindDressing, Value: string(d), Label: d.Label()})
		}
	}
	return opts
}

// SummaryLine is one row of the "Selected Options" list.
type SummaryLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summarize renders selections as label/value pairs such as
// "Type Of Wound: Multiple Toes" or "Location: Midfoot".
func Summarize(selections []Selection) []SummaryLine {
	lines := make([]SummaryLine, 0, len(selections))
	for _, s := range selections {
		var label string
		switch s.Kind() {
		case KindWoundType:
			label = "Type Of Wound"
		case KindLocation:
			label = "Location"
		case KindDressing:
			label = "Dressing"
		}
		lines = append(lines, SummaryLine{Label: label, Value: titleCase(s.Value())})
	}
	return lines
}

// titleCase turns "cavity_primary" into "Cavity Primary".
func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
