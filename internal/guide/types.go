// Package guide implements the wound care decision tree.
//
// A Session walks the user through wound type, location and dressing
// selections. Once the Final state is reached, Materialize turns the recorded
// selections into the ordered list of instructional videos to show.
//
// Flow:
//
//	start ──superficial|cavity──▶ location_selection ──(superficial)──▶ primary_dressing ──▶ final
//	  │                                       └────────(cavity)──────▶ cavity_dressing  ──▶ final
//	  └──webspace|multiple_toes|povidone──────────────────────────────────────────────────▶ final
package guide

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors returned by the engine. Callers match with errors.Is.
var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrUnknownValue      = errors.New("unknown selection value")
)

// State is a node of the decision tree.
type State string

const (
	StateStart             State = "start"
	StateLocationSelection State = "location_selection"
	StatePrimaryDressing   State = "primary_dressing"
	StateCavityDressing    State = "cavity_dressing"
	StateFinal             State = "final"
)

// Kind tags the variant of a Selection.
type Kind string

const (
	KindWoundType Kind = "wound_type"
	KindLocation  Kind = "location"
	KindDressing  Kind = "dressing"
)

// WoundType is the first choice of every path.
type WoundType string

const (
	Superficial  WoundType = "superficial"
	Cavity       WoundType = "cavity"
	Webspace     WoundType = "webspace"
	MultipleToes WoundType = "multiple_toes"
	Povidone     WoundType = "povidone"
)

// WoundTypes lists every wound type in display order.
var WoundTypes = []WoundType{Superficial, Cavity, Webspace, MultipleToes, Povidone}

// directRefs holds the video carried by the direct-path wound types.
var directRefs = map[WoundType]string{
	Webspace:     "2.3",
	MultipleToes: "2.4",
	Povidone:     "2.5",
}

var woundTypeLabels = map[WoundType]string{
	Superficial:  "Superficial Wound",
	Cavity:       "Cavity/Concave Wound",
	Webspace:     "Webspace Wound",
	MultipleToes: "Multiple toe wounds with inadine",
	Povidone:     "Wounds for povidone iodine soaked gauze",
}

// Direct reports whether selecting w skips the location and dressing steps.
func (w WoundType) Direct() bool {
	_, ok := directRefs[w]
	return ok
}

// Label is the button text for w.
func (w WoundType) Label() string { return woundTypeLabels[w] }

// Location is where the wound sits on the foot.
type Location string

const (
	Toes    Location = "toes"
	MidFoot Location = "midfoot"
	Heel    Location = "heel"
)

// Locations lists every location in display order.
var Locations = []Location{Toes, MidFoot, Heel}

var locationRefs = map[Location]string{
	Toes:    "3.1",
	MidFoot: "3.2",
	Heel:    "3.3",
}

var locationLabels = map[Location]string{
	Toes:    "Toes",
	MidFoot: "Mid foot/ankle",
	Heel:    "Heel",
}

// Label is the button text for l.
func (l Location) Label() string { return locationLabels[l] }

// Dressing is the primary dressing applied to the wound.
type Dressing string

const (
	Sheet         Dressing = "sheet"
	Iodosorb      Dressing = "iodosorb"
	CavityPrimary Dressing = "cavity_primary"
)

var dressingRefs = map[Dressing]string{
	Sheet:         "2.1.1",
	Iodosorb:      "2.1.2",
	CavityPrimary: "2.2.1",
}

var dressingLabels = map[Dressing]string{
	Sheet:         "Sheet dressing",
	Iodosorb:      "Iodosorb powder/Gels",
	CavityPrimary: "Primary Dressing for Cavity Wounds",
}

// Label is the button text for d.
func (d Dressing) Label() string { return dressingLabels[d] }

// DressingsFor returns the dressings offered for a multi-step wound type.
// Direct-path wound types have none.
func DressingsFor(w WoundType) []Dressing {
	switch w {
	case Superficial:
		return []Dressing{Sheet, Iodosorb}
	case Cavity:
		return []Dressing{CavityPrimary}
	default:
		return nil
	}
}

// Selection is one recorded choice. The set of implementations is closed:
// WoundTypeSelection, LocationSelection and DressingSelection.
type Selection interface {
	Kind() Kind
	// Value is the wire name of the chosen variant.
	Value() string
	// Ref is the video reference carried by the choice, or "".
	Ref() string

	selection()
}

// WoundTypeSelection records the wound type.
type WoundTypeSelection struct{ Type WoundType }

func (s WoundTypeSelection) Kind() Kind { return KindWoundType }
func (s WoundTypeSelection) Value() string { return string(s.Type) }
func (s WoundTypeSelection) Ref() string { return directRefs[s.Type] }
func (WoundTypeSelection) selection() {}

// LocationSelection records where the wound is.
type LocationSelection struct{ Location Location }

func (s LocationSelection) Kind() Kind { return KindLocation }
func (s LocationSelection) Value() string { return string(s.Location) }
func (s LocationSelection) Ref() string { return locationRefs[s.Location] }
func (LocationSelection) selection() {}

// DressingSelection records the primary dressing.
type DressingSelection struct{ Dressing Dressing }

func (s DressingSelection) Kind() Kind { return KindDressing }
func (s DressingSelection) Value() string { return string(s.Dressing) }
func (s DressingSelection) Ref() string { return dressingRefs[s.Dressing] }
func (DressingSelection) selection() {}

// ParseSelection builds a Selection from its wire form, e.g.
// ("wound_type", "superficial") or ("dressing", "cavity_primary").
func ParseSelection(kind, value string) (Selection, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch Kind(strings.ToLower(strings.TrimSpace(kind))) {
	case KindWoundType:
		w := WoundType(value)
		if _, ok := woundTypeLabels[w]; !ok {
			return nil, fmt.Errorf("%w: wound type %q", ErrUnknownValue, value)
		}
		return WoundTypeSelection{Type: w}, nil
	case KindLocation:
		l := Location(value)
		if _, ok := locationRefs[l]; !ok {
			return nil, fmt.Errorf("%w: location %q", ErrUnknownValue, value)
		}
		return LocationSelection{Location: l}, nil
	case KindDressing:
		d := Dressing(value)
		if _, ok := dressingRefs[d]; !ok {
			return nil, fmt.Errorf("%w: dressing %q", ErrUnknownValue, value)
		}
		return DressingSelection{Dressing: d}, nil
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrUnknownValue, kind)
	}
}
