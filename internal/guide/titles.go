package guide

// References appended to every completed path.
const (
	RefTubifast = "4.0"
	RefWatchOut = "5.0"
)

// videoTitles maps every known video reference to its display title.
var videoTitles = map[string]string{
	"2.1.1": "Sheet Dressing Application",
	"2.1.2": "Iodosorb Powder/Gels Application",
	"2.2.1": "Primary Dressing for Cavity Wounds",
	"2.3":   "Webspace Wound Treatment",
	"2.4":   "Multiple Toe Wounds with Inadine",
	"2.5":   "Wounds for Povidone Iodine Soaked Gauze",
	"3.1":   "Toes Location Treatment",
	"3.2":   "Mid Foot/Ankle Location Treatment",
	"3.3":   "Heel Location Treatment",
	"4.0":   "Tubifast to Secure",
	"5.0":   "Things to Watch Out For",
}

// knownRefs is videoTitles' key set in a stable order.
var knownRefs = []string{
	"2.1.1", "2.1.2", "2.2.1", "2.3", "2.4", "2.5",
	"3.1", "3.2", "3.3", "4.0", "5.0",
}

// Title returns the display title for ref. Unknown references get "Video <ref>".
func Title(ref string) string {
	if t, ok := videoTitles[ref]; ok {
		return t
	}
	return "Video " + ref
}

// KnownRefs returns every reference the guide can ask for.
func KnownRefs() []string {
	out := make([]string, len(knownRefs))
	copy(out, knownRefs)
	return out
}
