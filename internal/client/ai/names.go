package ai

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/moodkeeper/internal/client/memory"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
	"github.com/samber/lo"
)

const namesInstructions = `List all names of people mentioned in the text. Return only the names and ignore other entities.`

type namesResponse struct {
	Names []string `json:"names" jsonschema:"required"`
}

var namesSchema = GenerateSchema[namesResponse]()

var capitalizedWord = regexp.MustCompile(`\b[A-Z][a-z]+\b`)

var nameStopWords = map[string]struct{}{
	"I": {}, "Today": {}, "Yesterday": {},
	"Monday": {}, "Tuesday": {}, "Wednesday": {}, "Thursday": {},
	"Friday": {}, "Saturday": {}, "Sunday": {},
}

// NameExtractor finds people mentioned in journal text, used to suggest
// manual tags.
type NameExtractor struct {
	responder Responder
	logger    logging.Logger
}

func NewNameExtractor(r Responder, logger logging.Logger) *NameExtractor {
	return &NameExtractor{responder: r, logger: logger.With("module", "ai", "component", "names")}
}

func (n *NameExtractor) Extract(ctx context.Context, text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	out, err := n.responder.Respond(ctx, Request{
		Name:            "PeopleNames",
		Description:     "Names of people JSON",
		Instructions:    namesInstructions,
		Input:           text,
		Schema:          namesSchema,
		MaxOutputTokens: 300,
	})
	if err != nil {
		n.logger.Warn(ctx, "name extraction failed, using heuristic", "error", err)
		return FallbackNames(text)
	}

	names, ok := parseNames(out)
	if !ok {
		return FallbackNames(text)
	}
	return names
}

// parseNames accepts either {"names": [...]} or a bare array.
func parseNames(out string) ([]string, bool) {
	raw := []byte(memory.StripCodeFence(out))

	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		var wrapped struct {
			Names []any `json:"names"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil || wrapped.Names == nil {
			return nil, false
		}
		items = wrapped.Names
	}

	names := lo.FilterMap(items, func(v any, _ int) (string, bool) {
		s, ok := v.(string)
		s = strings.TrimSpace(s)
		return s, ok && s != ""
	})
	return lo.Uniq(names), true
}

// FallbackNames returns capitalized words that are not weekdays or other
// common sentence starters.
func FallbackNames(text string) []string {
	words := lo.Filter(capitalizedWord.FindAllString(text, -1), func(w string, _ int) bool {
		_, stop := nameStopWords[w]
		return !stop
	})
	return lo.Uniq(words)
}
