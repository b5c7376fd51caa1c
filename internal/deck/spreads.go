package deck

import "github.com/lunaryss/tarot-ai/internal/domain"

// spreadCatalog holds the built-in layouts. Position coordinates are the
// 2D placement hints the original layouts shipped with.
var spreadCatalog = []domain.Spread{
	{
		ID:          "single-card",
		Name:        "Single Card",
		Description: "The simplest one-card pull, suited to daily guidance.",
		Difficulty:  domain.DifficultyBeginner,
		Category:    "basic",
		Positions: []domain.Position{
			{ID: "guidance", Name: "Guidance", Meaning: "Guidance and advice for today", X: 150, Y: 200},
		},
	},
	{
		ID:          "three-card",
		Name:        "Three Card Spread",
		Description: "Past, present and future in one simple line; a good first spread.",
		Difficulty:  domain.DifficultyBeginner,
		Category:    "basic",
		Positions: []domain.Position{
			{ID: "past", Name: "Past", Meaning: "Past influences shaping the current situation", X: 0, Y: 200},
			{ID: "present", Name: "Present", Meaning: "The situation and challenges as they stand", X: 150, Y: 200},
			{ID: "future", Name: "Future", Meaning: "Likely outcome and direction of travel", X: 300, Y: 200},
		},
	},
	{
		ID:          "love-triangle",
		Name:        "Love Triangle",
		Description: "Three cards focused on a relationship question.",
		Difficulty:  domain.DifficultyBeginner,
		Category:    "love",
		Positions: []domain.Position{
			{ID: "you", Name: "You", Meaning: "Your state and feelings within the relationship", X: 75, Y: 0},
			{ID: "partner", Name: "Partner", Meaning: "The other person's state and feelings", X: 225, Y: 0},
			{ID: "relationship", Name: "Relationship", Meaning: "Where the relationship is heading and what it needs", X: 150, Y: 200},
		},
	},
	{
		ID:          "career-cross",
		Name:        "Career Cross",
		Description: "Four cards dedicated to work and career development.",
		Difficulty:  domain.DifficultyIntermediate,
		Category:    "career",
		Positions: []domain.Position{
			{ID: "current-situation", Name: "Current Situation", Meaning: "Where your career stands right now", X: 150, Y: 200},
			{ID: "challenge", Name: "Challenge", Meaning: "The main obstacle in your professional path", X: 150, Y: 0},
			{ID: "opportunity", Name: "Opportunity", Meaning: "Openings and strengths you can lean on", X: 300, Y: 200},
			{ID: "advice", Name: "Advice", Meaning: "The action to take for your career to move", X: 150, Y: 400},
		},
	},
	{
		ID:          "horseshoe",
		Name:        "Horseshoe",
		Description: "A seven-card arc balancing depth against complexity.",
		Difficulty:  domain.DifficultyIntermediate,
		Category:    "classic",
		Positions: []domain.Position{
			{ID: "past", Name: "Past", Meaning: "Past influences on the matter", X: 0, Y: 200},
			{ID: "present", Name: "Present", Meaning: "The situation as it stands", X: 75, Y: 200},
			{ID: "hidden-influences", Name: "Hidden Influences", Meaning: "Factors at work that you may not see", X: 150, Y: 100},
			{ID: "obstacles", Name: "Obstacles", Meaning: "What stands in the way", X: 225, Y: 0},
			{ID: "external-influences", Name: "External Influences", Meaning: "Other people and circumstances around you", X: 300, Y: 100},
			{ID: "advice", Name: "Advice", Meaning: "The attitude or action the moment asks for", X: 375, Y: 200},
			{ID: "outcome", Name: "Outcome", Meaning: "Where things lead if the course holds", X: 450, Y: 200},
		},
	},
	{
		ID:          "celtic-cross",
		Name:        "Celtic Cross",
		Description: "The classic ten-card reading covering a question from every angle.",
		Difficulty:  domain.DifficultyAdvanced,
		Category:    "classic",
		Positions: []domain.Position{
			{ID: "present", Name: "Present", Meaning: "Your situation as it stands", X: 150, Y: 200},
			{ID: "challenge", Name: "Challenge", Meaning: "What crosses you, the immediate obstacle", X: 300, Y: 200},
			{ID: "distant-past", Name: "Distant Past", Meaning: "Deep roots feeding the present", X: 150, Y: 0},
			{ID: "recent-past", Name: "Recent Past", Meaning: "Events just behind you that still matter", X: 0, Y: 200},
			{ID: "possible-outcome", Name: "Possible Outcome", Meaning: "Where the current path could lead", X: 150, Y: 400},
			{ID: "near-future", Name: "Near Future", Meaning: "What is about to unfold", X: 450, Y: 200},
			{ID: "your-approach", Name: "Your Approach", Meaning: "How you are handling the situation", X: 600, Y: 600},
			{ID: "external-influences", Name: "External Influences", Meaning: "The environment and people around you", X: 600, Y: 400},
			{ID: "hopes-fears", Name: "Hopes and Fears", Meaning: "What you wish for and what you dread", X: 600, Y: 200},
			{ID: "final-outcome", Name: "Final Outcome", Meaning: "The likely resolution once everything is weighed", X: 600, Y: 0},
		},
	},
}

// AllSpreads returns a copy of the spread catalog.
func AllSpreads() []domain.Spread {
	out := make([]domain.Spread, len(spreadCatalog))
	copy(out, spreadCatalog)
	return out
}

// SpreadByID looks up a spread layout.
func SpreadByID(id string) (domain.Spread, bool) {
	for _, s := range spreadCatalog {
		if s.ID == id {
			return s, true
		}
	}
	return domain.Spread{}, false
}
