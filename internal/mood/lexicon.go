package mood

// Lexicon maps moods to keyword stems. Matching is case-insensitive,
// word-boundary anchored, and prefix-permissive: "storm" also counts
// "storms" and "stormy".
type Lexicon map[Mood][]string

// SceneLexicon holds location and setting terms. Scene keywords carry triple
// weight in the combined ranking because the environment dictates the music
// more reliably than scattered emotional vocabulary does.
var SceneLexicon = Lexicon{
	Dark:      {"dungeon", "cave", "underground", "basement", "crypt", "tomb", "cemetery", "graveyard", "ruins", "abandoned", "desolate", "wasteland", "swamp", "marsh", "fog", "mist", "storm", "thunder", "rain", "night", "midnight", "darkness", "shadow"},
	Mysterious: {"library", "archive", "laboratory", "chamber", "corridor", "hallway", "passage", "tunnel", "maze", "labyrinth", "mansion", "castle", "tower", "ancient", "secret room", "hidden door", "vault", "temple", "shrine"},
	Romantic:  {"garden", "rose", "flower", "meadow", "sunset", "starlight", "moonlight", "beach", "candlelight", "fireplace", "balcony", "terrace", "vineyard", "lakeside", "riverside"},
	Sad:       {"grave", "funeral", "hospital", "bedside", "empty room", "deserted", "ruins", "ashes", "wreckage"},
	Epic:      {"battlefield", "arena", "throne room", "war", "army", "legion", "fortress", "citadel", "siege", "mountain peak", "chasm", "volcano", "cliffside"},
	Peaceful:  {"meadow", "garden", "brook", "stream", "clearing", "glade", "cottage", "village", "sunrise", "dawn", "morning", "spring", "blossom", "birdsong"},
	Tense:     {"edge", "cliff", "precipice", "narrow", "tight space", "chase", "pursuit", "alley", "rooftop", "ledge", "bridge", "crossing"},
	Joyful:    {"festival", "celebration", "marketplace", "fair", "tavern", "inn", "plaza", "square", "dancing", "feast", "banquet"},
	Adventure: {"wilderness", "frontier", "jungle", "desert", "mountain", "ocean", "sea", "ship", "voyage", "expedition", "trail", "path", "forest", "woods"},
	Magical:   {"enchanted", "spellbound", "crystal", "portal", "realm", "dimension", "ethereal plane", "floating", "glowing", "shimmering", "aurora", "celestial"},
}

// EmotionLexicon holds feeling and affect terms, weighted 1x.
var EmotionLexicon = Lexicon{
	Dark:      {"death", "fear", "terror", "horror", "nightmare", "evil", "sinister", "grim", "haunted", "ominous", "doom", "dread", "foreboding", "menace", "wicked", "malevolent"},
	Mysterious: {"mystery", "secret", "hidden", "unknown", "enigma", "puzzle", "strange", "curious", "cryptic", "riddle", "clue", "investigate"},
	Romantic:  {"love", "heart", "kiss", "romance", "passion", "desire", "affection", "tender", "embrace", "caress", "intimate", "adore", "cherish", "devoted", "beloved", "longing"},
	Sad:       {"sad", "tear", "cry", "grief", "sorrow", "loss", "melancholy", "lonely", "despair", "mourn", "weep", "anguish", "heartbreak", "misery"},
	Epic:      {"battle", "fight", "hero", "victory", "triumph", "glory", "legend", "conquest", "valor", "courage", "brave", "warrior", "champion"},
	Peaceful:  {"peace", "calm", "quiet", "gentle", "soft", "serene", "tranquil", "rest", "still", "soothing", "harmonious", "relaxed", "content"},
	Tense:     {"danger", "threat", "tension", "suspense", "anxiety", "worry", "nervous", "alert", "urgent", "panic", "alarm", "warning", "crisis", "peril"},
	Joyful:    {"happy", "joy", "laugh", "smile", "cheer", "delight", "merry", "celebration", "jubilant", "ecstatic", "gleeful", "festive", "thrilled"},
	Adventure: {"journey", "quest", "explore", "discover", "travel", "adventure", "expedition", "voyage", "trek", "wander", "pioneer", "seek"},
	Magical:   {"magic", "spell", "wizard", "witch", "enchant", "mystical", "supernatural", "sorcery", "conjure", "incantation", "potion", "charm"},
}
