package mood

// Mood is one tag from the closed vocabulary describing a scene's tone.
// The set and its declaration order are fixed at process start; the order is
// the tie-break rule everywhere ranked scores can collide.
type Mood string

const (
	Dark      Mood = "dark"
	Mysterious Mood = "mysterious"
	Romantic  Mood = "romantic"
	Sad       Mood = "sad"
	Epic      Mood = "epic"
	Peaceful  Mood = "peaceful"
	Tense     Mood = "tense"
	Joyful    Mood = "joyful"
	Adventure Mood = "adventure"
	Magical   Mood = "magical"
)

// Order lists every mood in declaration order.
var Order = []Mood{Dark, Mysterious, Romantic, Sad, Epic, Peaceful, Tense, Joyful, Adventure, Magical}

// Tempo classes for music profiles.
const (
	TempoSlow     = "slow"
	TempoModerate = "moderate"
	TempoUpbeat   = "upbeat"
)

// Profile is the static music-attribute record attached to a mood.
type Profile struct {
	Tags   []string
	Energy int // 1-5
	Tempo  string
}

var profiles = map[Mood]Profile{
	Dark:      {Tags: []string{"dark", "atmospheric", "tense", "ominous"}, Energy: 4, Tempo: TempoSlow},
	Mysterious: {Tags: []string{"mysterious", "ambient", "ethereal", "enigmatic"}, Energy: 3, Tempo: TempoModerate},
	Romantic:  {Tags: []string{"romantic", "gentle", "piano", "strings"}, Energy: 2, Tempo: TempoSlow},
	Sad:       {Tags: []string{"melancholy", "piano", "emotional", "somber"}, Energy: 2, Tempo: TempoSlow},
	Epic:      {Tags: []string{"epic", "orchestral", "dramatic", "powerful"}, Energy: 5, Tempo: TempoUpbeat},
	Peaceful:  {Tags: []string{"calm", "peaceful", "ambient", "nature"}, Energy: 1, Tempo: TempoSlow},
	Tense:     {Tags: []string{"suspenseful", "intense", "dramatic", "tense"}, Energy: 4, Tempo: TempoModerate},
	Joyful:    {Tags: []string{"uplifting", "cheerful", "bright", "happy"}, Energy: 4, Tempo: TempoUpbeat},
	Adventure: {Tags: []string{"adventurous", "energetic", "inspiring", "cinematic"}, Energy: 4, Tempo: TempoUpbeat},
	Magical:   {Tags: []string{"mystical", "ethereal", "ambient", "fantasy"}, Energy: 3, Tempo: TempoModerate},
}

var genres = map[Mood][]string{
	Dark:      {"dark ambient", "atmospheric", "drone"},
	Mysterious: {"ambient", "electronic", "minimal"},
	Romantic:  {"classical", "piano", "strings"},
	Sad:       {"piano", "classical", "acoustic"},
	Epic:      {"orchestral", "cinematic", "epic"},
	Peaceful:  {"ambient", "nature sounds", "meditation"},
	Tense:     {"suspense", "electronic", "minimal"},
	Joyful:    {"uplifting", "indie", "folk"},
	Adventure: {"orchestral", "world music", "energetic"},
	Magical:   {"fantasy", "ambient", "ethereal"},
}

// GetProfile returns the music profile for a mood, falling back to the
// peaceful profile for anything outside the closed set.
func GetProfile(m Mood) Profile {
	if p, ok := profiles[m]; ok {
		return p
	}
	return profiles[Peaceful]
}

// Genres returns the recommended genre list for a mood.
func Genres(m Mood) []string {
	if g, ok := genres[m]; ok {
		return g
	}
	return []string{"instrumental", "ambient"}
}

// Valid reports whether m belongs to the closed mood set.
func Valid(m Mood) bool {
	_, ok := profiles[m]
	return ok
}
