package turn

import (
	"github.com/sandevgo/tastybot/internal/core"
)

// defaultLanguage is used until a turn detects the user's language.
const defaultLanguage = "English"

// Context is the single mutable aggregate threaded through one conversation
// turn. It is never shared across conversations; the orchestrator builds a
// fresh one per turn from persisted state.
type Context struct {
	ConversationID string
	Input          string
	History        []core.Message

	Language    string
	Intent      core.Intent
	Preferences core.Preferences

	// Current holds the most recent search's results, Previous the search
	// before that. A turn that runs no search leaves both untouched.
	Current  core.ResultSet
	Previous core.ResultSet

	// Resolved is set only when the turn is a recipe request and reference
	// resolution succeeded.
	Resolved *core.RecipeMatch

	// Searched records whether this turn ran a search, which drives the
	// Current/Previous rotation at persist time.
	Searched bool

	Response string
}

// Known returns the union of current and previous results, current first so
// earlier ranks win ties during reference resolution.
func (tc *Context) Known() core.ResultSet {
	if len(tc.Previous) == 0 {
		return tc.Current
	}
	known := make(core.ResultSet, 0, len(tc.Current)+len(tc.Previous))
	known = append(known, tc.Current...)
	known = append(known, tc.Previous...)
	return known
}

// Lang returns the best-known response language, never empty.
func (tc *Context) Lang() string {
	if tc.Language != "" {
		return tc.Language
	}
	return defaultLanguage
}

// LastAssistantMessage returns the most recent assistant turn in the loaded
// history, or "" when there is none.
func (tc *Context) LastAssistantMessage() string {
	for i := len(tc.History) - 1; i >= 0; i-- {
		if tc.History[i].Role == core.RoleAssistant {
			return tc.History[i].Content
		}
	}
	return ""
}
