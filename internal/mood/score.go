package mood

import (
	"regexp"
	"sort"
)

const sceneWeight = 3

// keywordPatterns holds one compiled matcher per keyword stem, shared by both
// lexicons. Built once at process start; lexicons never change afterwards.
var keywordPatterns = map[string]*regexp.Regexp{}

func init() {
	for _, lex := range []Lexicon{SceneLexicon, EmotionLexicon} {
		for _, m := range Order {
			for _, kw := range lex[m] {
				if _, ok := keywordPatterns[kw]; ok {
					continue
				}
				keywordPatterns[kw] = regexp.MustCompile(`(?i)\b` + kw + `\w*\b`)
			}
		}
	}
}

// Score counts keyword occurrences of each mood's list in text and multiplies
// by weight. Pure function of text and lexicon.
func Score(text string, lex Lexicon, weight int) map[Mood]int {
	scores := make(map[Mood]int, len(Order))
	for _, m := range Order {
		total := 0
		for _, kw := range lex[m] {
			total += len(keywordPatterns[kw].FindAllStringIndex(text, -1)) * weight
		}
		scores[m] = total
	}
	return scores
}

// MoodScore pairs a mood with its combined score.
type MoodScore struct {
	Mood  Mood
	Score int
}

// CombinedRanking scores text against the scene lexicon (weight 3) and the
// emotion lexicon (weight 1), sums per mood, drops zero scores, and sorts
// descending. Equal scores keep lexicon declaration order so results are
// reproducible.
func CombinedRanking(text string) []MoodScore {
	return Ranking(Score(text, SceneLexicon, sceneWeight), Score(text, EmotionLexicon, 1))
}

// Ranking sums per-mood scene and emotion scores, drops zero totals, and
// sorts descending with declaration-order tie-breaks.
func Ranking(scene, emotion map[Mood]int) []MoodScore {
	ranked := make([]MoodScore, 0, len(Order))
	for _, m := range Order {
		combined := scene[m] + emotion[m]
		if combined > 0 {
			ranked = append(ranked, MoodScore{Mood: m, Score: combined})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}
