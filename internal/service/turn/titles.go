package turn

import (
	"regexp"
	"strings"
)

// Assistant messages present recipes as numbered markdown lists, bold names
// or headings. These patterns reconstruct what the user was actually shown,
// independent of whatever result sets survived in persisted state.
var (
	numberedBoldRe = regexp.MustCompile(`(?m)^\s*\d+\.\s+\*\*(.+?)\*\*`)
	boldRe         = regexp.MustCompile(`\*\*([^*]+?)\*\*`)
	headingRe      = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	numberedRe     = regexp.MustCompile(`(?m)^\s*\d+\.\s+(.+)$`)
)

// Section labels that show up in the same markdown shapes as titles.
var excludedTitleWords = map[string]struct{}{
	"ingredients":  {},
	"directions":   {},
	"instructions": {},
	"steps":        {},
	"notes":        {},
	"tips":         {},
	"recipe":       {},
	"recipes":      {},
	"source":       {},
	"enjoy":        {},
}

// ExtractShownTitles pulls candidate recipe titles out of free-form assistant
// text. Deterministic on purpose: no collaborator call is involved, so tests
// can pin the exact behavior.
func ExtractShownTitles(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var titles []string
	seen := make(map[string]struct{})

	add := func(raw string) {
		title := cleanTitle(raw)
		if title == "" {
			return
		}
		key := strings.ToLower(title)
		if _, dup := seen[key]; dup {
			return
		}
		if _, excluded := excludedTitleWords[key]; excluded {
			return
		}
		if len(title) <= 3 {
			return
		}
		seen[key] = struct{}{}
		titles = append(titles, title)
	}

	for _, re := range []*regexp.Regexp{numberedBoldRe, boldRe, headingRe, numberedRe} {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			add(m[1])
		}
	}

	return titles
}

func cleanTitle(raw string) string {
	title := strings.TrimSpace(raw)
	title = strings.Trim(title, "*_#")
	title = strings.TrimRight(title, ":.!-– ")
	return strings.TrimSpace(title)
}
