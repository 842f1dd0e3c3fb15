package stoplist

// koreanStops covers particles, copulas and light verbs that survive
// POS filtering.
var koreanStops = []string{
	// Demonstratives and dependent nouns
	"이", "그", "저", "것", "수",
	// Light verbs (dictionary form)
	"하다", "되다", "있다",
	// Particles
	"을", "를", "은", "는", "가", "고", "의",
}

// Korean returns a manager seeded with the built-in Korean list
func Korean() *Manager {
	return NewManager(koreanStops)
}
