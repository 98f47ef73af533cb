package insights

import (
	"context"
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
)

const (
	minCircleMentions  = 2
	extractedNameScore = 0.85
	relationNameScore  = 0.6
	moodLabelThreshold = 0.2
)

// relationAliases maps relation words to their canonical label, in match
// order.
var relationAliases = []struct{ word, label string }{
	{"mom", "Mother"},
	{"mother", "Mother"},
	{"mummy", "Mother"},
	{"dad", "Father"},
	{"father", "Father"},
	{"papa", "Father"},
	{"boss", "Boss"},
	{"manager", "Manager"},
	{"wife", "Wife"},
	{"husband", "Husband"},
	{"partner", "Partner"},
	{"boyfriend", "Boyfriend"},
	{"girlfriend", "Girlfriend"},
	{"brother", "Brother"},
	{"sister", "Sister"},
	{"son", "Son"},
	{"daughter", "Daughter"},
	{"friend", "Friend"},
}

var relationLabels = func() map[string]string {
	m := make(map[string]string, len(relationAliases))
	for _, a := range relationAliases {
		m[a.word] = a.label
	}
	return m
}()

var relationPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(relationAliases))
	for i, a := range relationAliases {
		out[i] = regexp.MustCompile(`(?i)\b` + a.word + `\b`)
	}
	return out
}()

var nicknames = map[string]string{
	"alex":        "Alex",
	"alexander":   "Alex",
	"mike":        "Michael",
	"michael":     "Michael",
	"sam":         "Sam",
	"samantha":    "Sam",
	"dan":         "Daniel",
	"danny":       "Daniel",
	"daniel":      "Daniel",
	"chris":       "Chris",
	"christopher": "Chris",
}

// CirclePerson is one person the user mentions repeatedly, with the mood of
// the entries mentioning them.
type CirclePerson struct {
	Person          string    `json:"person"`
	MentionCount    int       `json:"mentionCount"`
	AvgMood         float64   `json:"avgMood"`
	MoodCorrelation string    `json:"moodCorrelation"`
	Confidence      float64   `json:"confidence"`
	Aliases         []string  `json:"aliases"`
	LastMentionDate time.Time `json:"lastMentionDate"`
}

// Circle groups people by how their mentions correlate with mood.
type Circle struct {
	People           []CirclePerson `json:"people"`
	PositiveEnergy   []CirclePerson `json:"positiveEnergy"`
	StressCorrelated []CirclePerson `json:"stressCorrelated"`
}

// ExtractFunc lists the people named in text.
type ExtractFunc func(ctx context.Context, text string) []string

type circleAcc struct {
	person     string
	moods      []float64
	confidence []float64
	aliases    []string
	last       time.Time
}

// BuildCircle collects the people named in entries, either by extract or by
// a relation word, and keeps those mentioned in at least two entries.
// People are ordered by mention count, then by average mood.
func BuildCircle(ctx context.Context, entries []models.JournalEntry, extract ExtractFunc) Circle {
	acc := make(map[string]*circleAcc)
	var order []string

	for _, e := range entries {
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}

		var extracted []string
		if extract != nil {
			for _, n := range extract(ctx, text) {
				if n = normalizeName(n); n != "" && !slices.Contains(extracted, n) {
					extracted = append(extracted, n)
				}
			}
		}
		relations := relationMentions(text)

		names := append([]string(nil), extracted...)
		for _, r := range relations {
			if !slices.Contains(names, r) {
				names = append(names, r)
			}
		}

		mood := circleMood(e.SentimentScore)
		seen := make(map[string]struct{}, len(names))
		for _, name := range names {
			key := canonicalKey(name)
			if key == "" {
				continue
			}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			confidence := extractedNameScore
			if slices.Contains(relations, name) && !slices.Contains(extracted, name) {
				confidence = relationNameScore
			}

			display := displayName(key, name)
			a, ok := acc[key]
			if !ok {
				a = &circleAcc{person: display, last: e.Date}
				acc[key] = a
				order = append(order, key)
			}
			if len(display) > len(a.person) {
				a.person = display
			}
			a.moods = append(a.moods, mood)
			a.confidence = append(a.confidence, confidence)
			if !slices.Contains(a.aliases, name) {
				a.aliases = append(a.aliases, name)
			}
			if e.Date.After(a.last) {
				a.last = e.Date
			}
		}
	}

	people := make([]CirclePerson, 0, len(order))
	for _, key := range order {
		a := acc[key]
		if len(a.moods) < minCircleMentions {
			continue
		}
		avg := models.Round2(models.Mean(a.moods))
		people = append(people, CirclePerson{
			Person:          a.person,
			MentionCount:    len(a.moods),
			AvgMood:         avg,
			MoodCorrelation: moodCorrelation(avg),
			Confidence:      models.Round2(models.Mean(a.confidence)),
			Aliases:         a.aliases,
			LastMentionDate: a.last,
		})
	}
	sort.SliceStable(people, func(i, j int) bool {
		if people[i].MentionCount != people[j].MentionCount {
			return people[i].MentionCount > people[j].MentionCount
		}
		return people[i].AvgMood > people[j].AvgMood
	})

	c := Circle{
		People:           people,
		PositiveEnergy:   []CirclePerson{},
		StressCorrelated: []CirclePerson{},
	}
	for _, p := range people {
		switch {
		case p.AvgMood >= moodLabelThreshold:
			c.PositiveEnergy = append(c.PositiveEnergy, p)
		case p.AvgMood <= -moodLabelThreshold:
			c.StressCorrelated = append(c.StressCorrelated, p)
		}
	}
	return c
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// canonicalKey folds relation words and nicknames onto one lower-case key.
func canonicalKey(name string) string {
	key := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
			return r
		}
		return -1
	}, strings.ToLower(normalizeName(name)))
	if key == "" {
		return ""
	}
	if label, ok := relationLabels[key]; ok {
		return strings.ToLower(label)
	}
	if canonical, ok := nicknames[key]; ok {
		return strings.ToLower(canonical)
	}
	return key
}

func displayName(key, fallback string) string {
	if key == "" {
		return normalizeName(fallback)
	}
	if label, ok := relationLabels[key]; ok {
		return label
	}
	if canonical, ok := nicknames[key]; ok {
		return canonical
	}
	r := []rune(key)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func relationMentions(text string) []string {
	var out []string
	for i, re := range relationPatterns {
		label := relationAliases[i].label
		if re.MatchString(text) && !slices.Contains(out, label) {
			out = append(out, label)
		}
	}
	return out
}

// circleMood maps a sentiment score, or a 1..5 mood, onto [-1, 1].
func circleMood(v float64) float64 {
	switch {
	case v >= -1 && v <= 1:
		return v
	case v > 1 && v <= 5:
		return models.Round2((v - 3) / 2)
	}
	return 0
}

func moodCorrelation(avg float64) string {
	switch {
	case avg >= moodLabelThreshold:
		return "positive"
	case avg <= -moodLabelThreshold:
		return "negative"
	}
	return "mixed"
}
