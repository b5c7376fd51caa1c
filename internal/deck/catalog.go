package deck

import (
	"fmt"
	"sync"

	"github.com/lunaryss/tarot-ai/internal/domain"
)

// majorArcana lists the 22 trumps in order.
var majorArcana = []domain.Card{
	{ID: "fool", Name: "The Fool", Number: 0,
		UprightMeaning:  "New beginnings, innocence, spontaneity, free spirit, adventure",
		ReversedMeaning: "Recklessness, foolishness, lack of direction, fear of the unknown",
		Keywords:        []string{"beginnings", "adventure", "innocence", "freedom", "potential"},
		Description:     "The Fool stands for fresh starts and boundless possibility, a leap into the unknown taken with an open heart."},
	{ID: "magician", Name: "The Magician", Number: 1,
		UprightMeaning:  "Willpower, creativity, skill, focus, manifestation",
		ReversedMeaning: "Lack of focus, misused talent, deception, manipulation",
		Keywords:        []string{"willpower", "creation", "skill", "focus", "action"},
		Description:     "The Magician is the power to turn intention into reality through focused will and practiced skill."},
	{ID: "high-priestess", Name: "The High Priestess", Number: 2,
		UprightMeaning:  "Intuition, the subconscious, mystery, inner wisdom, stillness",
		ReversedMeaning: "Ignored intuition, surface knowledge, secrets coming to light",
		Keywords:        []string{"intuition", "wisdom", "mystery", "subconscious", "stillness"},
		Description:     "The High Priestess guards the inner world, inviting trust in intuition and hidden knowledge."},
	{ID: "empress", Name: "The Empress", Number: 3,
		UprightMeaning:  "Abundance, nurturing, creativity, nature, sensuality",
		ReversedMeaning: "Dependence, emptiness, stifled growth, creative block",
		Keywords:        []string{"abundance", "nurturing", "creation", "nature", "comfort"},
		Description:     "The Empress embodies fertile ground, the care that lets things grow and flourish."},
	{ID: "emperor", Name: "The Emperor", Number: 4,
		UprightMeaning:  "Authority, structure, control, stability, fatherhood",
		ReversedMeaning: "Tyranny, rigidity, lack of discipline, misuse of power",
		Keywords:        []string{"authority", "structure", "control", "stability", "leadership"},
		Description:     "The Emperor represents order and command, the steady framework that supports ambition."},
	{ID: "hierophant", Name: "The Hierophant", Number: 5,
		UprightMeaning:  "Tradition, spiritual guidance, institutions, education, morality",
		ReversedMeaning: "Rebellion, unconventional paths, personal belief, innovation",
		Keywords:        []string{"tradition", "guidance", "belief", "education", "morality"},
		Description:     "The Hierophant carries inherited wisdom and the comfort and weight of tradition."},
	{ID: "lovers", Name: "The Lovers", Number: 6,
		UprightMeaning:  "Love, partnership, choices, harmony, shared values",
		ReversedMeaning: "Disharmony, poor choices, value conflicts, separation",
		Keywords:        []string{"love", "partnership", "choice", "harmony", "values"},
		Description:     "The Lovers speak of union and of the defining choices that reveal what we value."},
	{ID: "chariot", Name: "The Chariot", Number: 7,
		UprightMeaning:  "Victory, willpower, control, determination, success",
		ReversedMeaning: "Loss of control, lack of direction, defeat, self-doubt",
		Keywords:        []string{"victory", "will", "control", "determination", "success"},
		Description:     "The Chariot is triumph through discipline, opposing forces held on a single course."},
	{ID: "strength", Name: "Strength", Number: 8,
		UprightMeaning:  "Inner strength, courage, patience, self-control, compassion",
		ReversedMeaning: "Weakness, self-doubt, lack of confidence, cruelty",
		Keywords:        []string{"strength", "courage", "patience", "self-control", "compassion"},
		Description:     "Strength is gentle mastery, the quiet courage that tames what force cannot."},
	{ID: "hermit", Name: "The Hermit", Number: 9,
		UprightMeaning:  "Introspection, soul-searching, guidance, wisdom, solitude",
		ReversedMeaning: "Isolation, refusing help, losing one's way, stubbornness",
		Keywords:        []string{"introspection", "wisdom", "guidance", "solitude", "truth"},
		Description:     "The Hermit withdraws to seek truth, carrying a lantern for the path inward."},
	{ID: "wheel-of-fortune", Name: "Wheel of Fortune", Number: 10,
		UprightMeaning:  "Cycles, destiny, turning points, luck, change",
		ReversedMeaning: "Bad luck, resistance to change, broken cycles, setbacks",
		Keywords:        []string{"cycles", "destiny", "change", "luck", "turning point"},
		Description:     "The Wheel turns for everyone; fortunes rise and fall and nothing stays still."},
	{ID: "justice", Name: "Justice", Number: 11,
		UprightMeaning:  "Fairness, truth, cause and effect, accountability, law",
		ReversedMeaning: "Unfairness, dishonesty, avoided accountability, bias",
		Keywords:        []string{"justice", "truth", "fairness", "accountability", "balance"},
		Description:     "Justice weighs every act; what is set in motion returns in kind."},
	{ID: "hanged-man", Name: "The Hanged Man", Number: 12,
		UprightMeaning:  "Surrender, new perspective, pause, letting go, sacrifice",
		ReversedMeaning: "Stalling, resistance, indecision, needless sacrifice",
		Keywords:        []string{"surrender", "perspective", "pause", "release", "sacrifice"},
		Description:     "The Hanged Man gains wisdom by waiting, seeing the world anew from suspension."},
	{ID: "death", Name: "Death", Number: 13,
		UprightMeaning:  "Endings, transformation, transition, release, renewal",
		ReversedMeaning: "Resisting change, stagnation, clinging to the past, fear of endings",
		Keywords:        []string{"endings", "transformation", "transition", "release", "renewal"},
		Description:     "Death closes one chapter so another can begin; transformation, not finality."},
	{ID: "temperance", Name: "Temperance", Number: 14,
		UprightMeaning:  "Balance, moderation, patience, purpose, blending",
		ReversedMeaning: "Imbalance, excess, impatience, discord",
		Keywords:        []string{"balance", "moderation", "patience", "purpose", "harmony"},
		Description:     "Temperance mixes opposites into something finer, the art of the middle way."},
	{ID: "devil", Name: "The Devil", Number: 15,
		UprightMeaning:  "Attachment, addiction, restriction, materialism, shadow self",
		ReversedMeaning: "Release, breaking free, reclaimed power, facing the shadow",
		Keywords:        []string{"attachment", "restriction", "shadow", "materialism", "bondage"},
		Description:     "The Devil names the chains we forge ourselves, and hints they were never locked."},
	{ID: "tower", Name: "The Tower", Number: 16,
		UprightMeaning:  "Sudden upheaval, revelation, chaos, awakening, collapse",
		ReversedMeaning: "Averted disaster, fear of change, delayed collapse",
		Keywords:        []string{"upheaval", "revelation", "chaos", "awakening", "collapse"},
		Description:     "The Tower falls in a flash of truth; what was built on sand cannot stand."},
	{ID: "star", Name: "The Star", Number: 17,
		UprightMeaning:  "Hope, faith, renewal, inspiration, serenity",
		ReversedMeaning: "Despair, lost faith, discouragement, disconnection",
		Keywords:        []string{"hope", "faith", "renewal", "inspiration", "healing"},
		Description:     "The Star shines after the storm, quiet hope and the promise of healing."},
	{ID: "moon", Name: "The Moon", Number: 18,
		UprightMeaning:  "Illusion, intuition, uncertainty, dreams, the subconscious",
		ReversedMeaning: "Clarity, released fear, confusion lifting, repressed emotion",
		Keywords:        []string{"illusion", "intuition", "uncertainty", "dreams", "subconscious"},
		Description:     "The Moon lights an uncertain road where fears and dreams trade places."},
	{ID: "sun", Name: "The Sun", Number: 19,
		UprightMeaning:  "Joy, success, vitality, positivity, clarity",
		ReversedMeaning: "Temporary gloom, dimmed optimism, delayed success",
		Keywords:        []string{"joy", "success", "vitality", "positivity", "clarity"},
		Description:     "The Sun is warmth without shadow, plain happiness and well-earned success."},
	{ID: "judgement", Name: "Judgement", Number: 20,
		UprightMeaning:  "Rebirth, inner calling, reckoning, absolution, awakening",
		ReversedMeaning: "Self-doubt, ignored calling, harsh self-judgement",
		Keywords:        []string{"rebirth", "calling", "reckoning", "awakening", "renewal"},
		Description:     "Judgement sounds the call to rise, account for the past and answer a higher purpose."},
	{ID: "world", Name: "The World", Number: 21,
		UprightMeaning:  "Completion, achievement, integration, travel, fulfillment",
		ReversedMeaning: "Incompletion, loose ends, delayed success, stagnation",
		Keywords:        []string{"completion", "achievement", "integration", "fulfillment", "wholeness"},
		Description:     "The World closes the circle: the journey complete, every lesson in its place."},
}

// suitInfo drives composition of the 56 minor arcana.
type suitInfo struct {
	suit    domain.Suit
	name    string
	element string
	theme   string
}

var suits = []suitInfo{
	{domain.SuitWands, "Wands", "fire", "creativity, ambition and action"},
	{domain.SuitCups, "Cups", "water", "emotion, relationships and intuition"},
	{domain.SuitSwords, "Swords", "air", "intellect, conflict and truth"},
	{domain.SuitPentacles, "Pentacles", "earth", "work, material matters and the body"},
}

type rankInfo struct {
	slug     string
	name     string
	number   int
	upright  string
	reversed string
	keywords []string
}

var ranks = []rankInfo{
	{"ace", "Ace", 1,
		"A seed of %s; raw potential, a fresh opportunity",
		"A false start; blocked or wasted potential around %s",
		[]string{"potential", "opportunity", "beginning"}},
	{"two", "Two", 2,
		"A choice or balance to strike in %s; weighing paths",
		"Indecision or imbalance in %s; avoiding the choice",
		[]string{"choice", "balance", "duality"}},
	{"three", "Three", 3,
		"First results in %s; collaboration and growth",
		"Delayed results in %s; friction in collaboration",
		[]string{"growth", "collaboration", "progress"}},
	{"four", "Four", 4,
		"Stability and consolidation in %s; a pause to hold ground",
		"Stagnation in %s; clinging to what is settled",
		[]string{"stability", "rest", "consolidation"}},
	{"five", "Five", 5,
		"Conflict and loss touching %s; a test of resolve",
		"Recovery beginning in %s; conflict winding down",
		[]string{"conflict", "loss", "challenge"}},
	{"six", "Six", 6,
		"Harmony returning to %s; generosity and recognition",
		"Imbalance lingering in %s; strings attached to help",
		[]string{"harmony", "generosity", "recognition"}},
	{"seven", "Seven", 7,
		"Assessment and patience in %s; holding a long view",
		"Impatience or scattered effort in %s",
		[]string{"assessment", "patience", "perseverance"}},
	{"eight", "Eight", 8,
		"Movement and mastery in %s; dedicated effort",
		"Restlessness or trapped feeling around %s",
		[]string{"movement", "mastery", "effort"}},
	{"nine", "Nine", 9,
		"Near-completion in %s; resilience and self-sufficiency",
		"Weariness in %s; guarding gains too closely",
		[]string{"resilience", "attainment", "self-reliance"}},
	{"ten", "Ten", 10,
		"Culmination of %s; the cycle's full weight and reward",
		"An overdue ending in %s; burden carried too long",
		[]string{"culmination", "completion", "legacy"}},
	{"page", "Page", 11,
		"A student of %s; curiosity, news and eager first steps",
		"Immaturity around %s; unfocused enthusiasm",
		[]string{"curiosity", "learning", "messages"}},
	{"knight", "Knight", 12,
		"Pursuit of %s; momentum, drive and single-mindedness",
		"Haste or stalling in %s; drive without direction",
		[]string{"pursuit", "momentum", "drive"}},
	{"queen", "Queen", 13,
		"Nurturing mastery of %s; steady inward command",
		"Insecurity in %s; care turned smothering or cold",
		[]string{"nurture", "mastery", "maturity"}},
	{"king", "King", 14,
		"Outward command of %s; seasoned authority and vision",
		"Control misused in %s; authority turned rigid",
		[]string{"authority", "command", "vision"}},
}

var (
	catalogOnce sync.Once
	catalog     []domain.Card
	catalogByID map[string]domain.Card
)

func buildCatalog() {
	catalog = make([]domain.Card, 0, 78)
	for _, c := range majorArcana {
		c.Arcana = domain.ArcanaMajor
		catalog = append(catalog, c)
	}
	for _, s := range suits {
		for _, r := range ranks {
			catalog = append(catalog, domain.Card{
				ID:              fmt.Sprintf("%s-%s", r.slug, s.suit),
				Name:            fmt.Sprintf("%s of %s", r.name, s.name),
				Arcana:          domain.ArcanaMinor,
				Suit:            s.suit,
				Number:          r.number,
				UprightMeaning:  fmt.Sprintf(r.upright, s.theme),
				ReversedMeaning: fmt.Sprintf(r.reversed, s.theme),
				Keywords:        append([]string{string(s.suit), s.element}, r.keywords...),
				Description:     fmt.Sprintf("The %s of %s carries the %s energy of its suit: %s.", r.name, s.name, s.element, s.theme),
			})
		}
	}
	catalogByID = make(map[string]domain.Card, len(catalog))
	for _, c := range catalog {
		catalogByID[c.ID] = c
	}
}

// AllCards returns a copy of the full 78-card catalog.
func AllCards() []domain.Card {
	catalogOnce.Do(buildCatalog)
	out := make([]domain.Card, len(catalog))
	copy(out, catalog)
	return out
}

// CardByID looks up a single card.
func CardByID(id string) (domain.Card, bool) {
	catalogOnce.Do(buildCatalog)
	c, ok := catalogByID[id]
	return c, ok
}

// DeckSize is the number of cards in a full deck.
const DeckSize = 78
