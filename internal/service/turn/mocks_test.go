package turn

import (
	"context"
	"errors"

	"github.com/sandevgo/tastybot/internal/core"
)

var errCollaboratorDown = errors.New("collaborator down")

type stubClassifier struct {
	intent core.Intent
	err    error
	calls  int
}

func (s *stubClassifier) Classify(_ context.Context, _ string, _ []core.Message) (core.Intent, error) {
	s.calls++
	return s.intent, s.err
}

type stubExtractor struct {
	prefs core.Preferences
	err   error
	calls int
}

func (s *stubExtractor) Extract(_ context.Context, _ string, _ []core.Message) (core.Preferences, error) {
	s.calls++
	return s.prefs, s.err
}

type stubSearcher struct {
	results   core.ResultSet
	err       error
	calls     int
	lastQuery string
	lastK     int
}

func (s *stubSearcher) Search(_ context.Context, query string, k int) (core.ResultSet, error) {
	s.calls++
	s.lastQuery = query
	s.lastK = k
	return s.results, s.err
}

type stubAnalyzer struct {
	target    core.RequestTarget
	err       error
	lastShown []string
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ string, shownTitles []string, _ []core.Message) (core.RequestTarget, error) {
	s.lastShown = shownTitles
	return s.target, s.err
}

type stubGenerator struct {
	response    string
	err         error
	lastIntent  core.Intent
	lastLang    string
	lastContext string
}

func (s *stubGenerator) Generate(_ context.Context, intent core.Intent, language string, promptContext string) (string, error) {
	s.lastIntent = intent
	s.lastLang = language
	s.lastContext = promptContext
	return s.response, s.err
}

type memMessages struct {
	msgs    map[string][]core.Message
	failAdd bool
}

func newMemMessages() *memMessages {
	return &memMessages{msgs: make(map[string][]core.Message)}
}

func (m *memMessages) AddMessage(_ context.Context, conversationID string, msg core.Message) error {
	if m.failAdd {
		return errors.New("disk full")
	}
	m.msgs[conversationID] = append(m.msgs[conversationID], msg)
	return nil
}

func (m *memMessages) GetMessages(_ context.Context, conversationID string, limit int) ([]core.Message, error) {
	all := m.msgs[conversationID]
	if len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

type memStates struct {
	states map[string]core.ConversationState
}

func newMemStates() *memStates {
	return &memStates{states: make(map[string]core.ConversationState)}
}

func (m *memStates) GetState(_ context.Context, conversationID string) (core.ConversationState, error) {
	return m.states[conversationID], nil
}

func (m *memStates) SaveState(_ context.Context, conversationID string, state core.ConversationState) error {
	m.states[conversationID] = state
	return nil
}

func sampleResults() core.ResultSet {
	return core.ResultSet{
		{
			Title:       "Pasta Carbonara",
			Ingredients: []string{"spaghetti", "eggs", "pecorino", "guanciale"},
			Directions:  []string{"Boil pasta.", "Fry guanciale.", "Toss with egg mixture."},
			Source:      "Gathered",
		},
		{
			Title:       "Margherita Pizza",
			Ingredients: []string{"dough", "tomato", "mozzarella", "basil"},
			Directions:  []string{"Stretch dough.", "Top and bake."},
			Source:      "Gathered",
		},
		{
			Title:       "Caprese Salad",
			Ingredients: []string{"tomato", "mozzarella", "basil"},
			Directions:  []string{"Slice and arrange."},
			Source:      "Gathered",
		},
	}
}
