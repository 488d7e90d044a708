package tracks

// License describes usage terms carried with an externally sourced track.
type License struct {
	Type                string `json:"type"`
	AttributionRequired bool   `json:"attributionRequired"`
	SourceURL           string `json:"sourceUrl,omitempty"`
}

// Track is an externally supplied audio asset. Immutable once fetched.
// Energy and Tempo are metadata hints estimated from tags, not derived from
// the audio signal.
type Track struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Artist   string   `json:"artist"`
	Duration int      `json:"duration"` // seconds
	URL      string   `json:"url"`
	Tags     []string `json:"tags"`
	Energy   int      `json:"energy,omitempty"` // 1-5, 0 when unknown
	Tempo    string   `json:"tempo,omitempty"`
	License  License  `json:"license"`
}

// Dedupe drops tracks whose id was already seen, preserving first-seen order.
func Dedupe(pool []Track) []Track {
	seen := make(map[string]struct{}, len(pool))
	out := make([]Track, 0, len(pool))
	for _, t := range pool {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
