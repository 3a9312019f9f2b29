package llm

import "strings"

// extractJSONObject pulls the first JSON object out of a model response,
// tolerating surrounding prose and markdown code fences.
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	if start == -1 {
		return ""
	}

	end := strings.LastIndex(content[start:], "}")
	if end == -1 {
		return ""
	}

	return content[start : start+end+1]
}
