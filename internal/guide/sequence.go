package guide

// Entry is one video of a materialized sequence.
type Entry struct {
	Ref   string `json:"ref"`
	Title string `json:"title"`
}

func entry(ref string) Entry {
	return Entry{Ref: ref, Title: Title(ref)}
}

// Materialize returns the ordered videos implied by a completed list of
// selections. Direct-path wound types contribute their single video; other
// paths contribute the video of every selection that carries one. Every
// sequence ends with the Tubifast and things-to-watch-out-for videos.
//
// Materialize assumes the selections reached StateFinal and does not check it.
func Materialize(selections []Selection) []Entry {
	seq := make([]Entry, 0, 4)

	if wound, ok := WoundTypeOf(selections); ok && wound.Direct() {
		for _, s := range selections {
			if ref := s.Ref(); ref != "" {
				seq = append(seq, entry(ref))
				break
			}
		}
		return append(seq, entry(RefTubifast), entry(RefWatchOut))
	}

	for _, s := range selections {
		if ref := s.Ref(); ref != "" {
			seq = append(seq, entry(ref))
		}
	}
	return append(seq, entry(RefTubifast), entry(RefWatchOut))
}
