package tokens

import (
	"github.com/pkoukk/tiktoken-go"
)

const encodingName = "cl100k_base"

// Counter estimates token counts for prompt budgeting. When the tiktoken
// encoding cannot be loaded it degrades to a bytes/4 approximation instead
// of failing, since bounding only needs to be roughly right.
type Counter struct {
	enc *tiktoken.Tiktoken
}

func NewCounter() *Counter {
	enc, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return &Counter{}
	}
	return &Counter{enc: enc}
}

func (c *Counter) Count(text string) int {
	if c.enc == nil {
		return len(text)/4 + 1
	}
	return len(c.enc.Encode(text, nil, nil))
}

// TailStart returns the index of the first element of the longest suffix of
// texts whose summed token count stays within budget. The last element is
// always kept, even if it alone exceeds the budget.
func (c *Counter) TailStart(texts []string, budget int) int {
	if len(texts) == 0 {
		return 0
	}

	total := 0
	for i := len(texts) - 1; i >= 0; i-- {
		total += c.Count(texts[i])
		if total > budget && i < len(texts)-1 {
			return i + 1
		}
	}
	return 0
}
