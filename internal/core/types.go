package core

import "strings"

const (
	TastyName          = "TastyBot"
	TastyUserAgent     = "TastyBot/0.1"
	TastyRepositoryURL = "https://github.com/sandevgo/tastybot"
	TastyVersion       = "0.1.0"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// DefaultTopK bounds result sets returned by search.
const DefaultTopK = 3

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Intent is the closed classification of what a turn is trying to accomplish.
// Every branching decision in the turn pipeline keys off exactly one of these.
type Intent string

const (
	IntentNewSearch     Intent = "new_search"
	IntentComparison    Intent = "comparison"
	IntentRecipeRequest Intent = "recipe_request"
	IntentGeneral       Intent = "general"
)

// ParseIntent maps free-form classifier output onto the closed intent set.
// Anything outside the set reports ok=false; callers fall back to general.
func ParseIntent(s string) (Intent, bool) {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentNewSearch:
		return IntentNewSearch, true
	case IntentComparison:
		return IntentComparison, true
	case IntentRecipeRequest:
		return IntentRecipeRequest, true
	case IntentGeneral:
		return IntentGeneral, true
	}
	return IntentGeneral, false
}

// Preferences is the structured record extracted from a new-search turn.
// Language is always populated; every other field is optional.
type Preferences struct {
	Language       string   `json:"language"`
	Cuisine        string   `json:"cuisine,omitempty"`
	Dietary        []string `json:"dietary_restrictions,omitempty"`
	Dish           string   `json:"specific_dish,omitempty"`
	Ingredients    []string `json:"desired_ingredients,omitempty"`
	Allergies      []string `json:"allergies,omitempty"`
	MealType       string   `json:"meal_type,omitempty"`
	MaxCookingTime int      `json:"max_cooking_time,omitempty"` // minutes, 0 = unspecified
}

func (p Preferences) IsZero() bool {
	return p.Cuisine == "" && len(p.Dietary) == 0 && p.Dish == "" &&
		len(p.Ingredients) == 0 && len(p.Allergies) == 0 &&
		p.MealType == "" && p.MaxCookingTime == 0
}

// RecipeMatch is a single ranked candidate returned by the search collaborator.
// Its identity for reference resolution is the title, case-insensitively;
// no stable numeric ID exists in the index.
type RecipeMatch struct {
	Title       string   `json:"title"`
	Link        string   `json:"link,omitempty"`
	Ingredients []string `json:"ingredients"`
	Directions  []string `json:"directions"`
	Source      string   `json:"source"`
	Score       float64  `json:"score,omitempty"`
}

// ResultSet is an ordered list of candidates, best match first.
type ResultSet []RecipeMatch

func (rs ResultSet) Titles() []string {
	titles := make([]string, 0, len(rs))
	for _, m := range rs {
		titles = append(titles, m.Title)
	}
	return titles
}

// FindByTitle returns the earliest-ranked match with the given title,
// compared case-insensitively and trimmed.
func (rs ResultSet) FindByTitle(title string) (RecipeMatch, bool) {
	want := strings.ToLower(strings.TrimSpace(title))
	for _, m := range rs {
		if strings.ToLower(strings.TrimSpace(m.Title)) == want {
			return m, true
		}
	}
	return RecipeMatch{}, false
}

// RequestKind is the RequestAnalyzer collaborator's classification of what a
// recipe-request turn is targeting.
type RequestKind string

const (
	// RequestSpecific means a named or ordinal recipe from the shown list.
	RequestSpecific RequestKind = "specific"
	// RequestDishType means a dish type the user was already shown recipes for.
	RequestDishType RequestKind = "dish_type"
	// RequestNewDish means a dish nothing has been shown for yet.
	RequestNewDish RequestKind = "new_dish"
)

// RequestTarget is the analyzer's structured verdict.
type RequestTarget struct {
	Kind  RequestKind
	Title string // referenced title, when Kind == RequestSpecific
	Dish  string // dish name, when Kind is dish_type or new_dish
}
