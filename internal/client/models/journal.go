package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the author of a journal message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MoodTrend describes the direction of mood across a session.
type MoodTrend string

const (
	TrendImproving MoodTrend = "improving"
	TrendDeclining MoodTrend = "declining"
	TrendStable    MoodTrend = "stable"
)

const (
	DefaultSessionTitle = "Untitled chat"
	NewSessionTitle     = "New reflection"
	maxSessionTags      = 6
)

// JournalMessage is immutable once created.
type JournalMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// JournalEntry is derived from one journal exchange.
type JournalEntry struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	Date           time.Time `json:"date"`
	SentimentScore float64   `json:"sentimentScore"`
	MoodTag        string    `json:"moodTag"`
	SessionID      string    `json:"sessionId"`
	SessionTitle   string    `json:"sessionTitle,omitempty"`
}

// JournalSession groups the messages and derived entries of one conversation.
type JournalSession struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	Summary     string           `json:"summary"`
	Tags        []string         `json:"tags"`
	MoodTrend   MoodTrend        `json:"moodTrend"`
	AverageMood float64          `json:"averageMood"`
	Messages    []JournalMessage `json:"messages"`
	Entries     []JournalEntry   `json:"entries"`
}

// NewID returns a random record id with a readable prefix.
func NewID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// NormalizeJournalMessage fills id, role and timestamp defaults.
func NormalizeJournalMessage(m JournalMessage, now time.Time) JournalMessage {
	if m.ID == "" {
		m.ID = NewID("msg")
	}
	if m.Role != RoleAssistant {
		m.Role = RoleUser
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	return m
}

// NormalizeJournalEntry fills id, date and mood tag defaults and clamps the
// sentiment score to [-1, 1].
func NormalizeJournalEntry(e JournalEntry, now time.Time) JournalEntry {
	if e.ID == "" {
		e.ID = NewID("entry")
	}
	if e.Date.IsZero() {
		e.Date = now
	}
	e.MoodTag = strings.ToLower(strings.TrimSpace(e.MoodTag))
	if e.MoodTag == "" {
		e.MoodTag = "neutral"
	}
	e.SentimentScore = clampUnit(e.SentimentScore)
	return e
}

// NormalizeJournalSession normalizes the session and everything it owns and
// recomputes the derived averageMood and moodTrend.
func NormalizeJournalSession(s JournalSession, now time.Time) JournalSession {
	if s.ID == "" {
		s.ID = NewID("session")
	}
	if s.Title == "" {
		s.Title = DefaultSessionTitle
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = now
	}

	messages := make([]JournalMessage, 0, len(s.Messages))
	for _, m := range s.Messages {
		messages = append(messages, NormalizeJournalMessage(m, now))
	}
	s.Messages = messages

	entries := make([]JournalEntry, 0, len(s.Entries))
	for _, e := range s.Entries {
		entries = append(entries, NormalizeJournalEntry(e, now))
	}
	s.Entries = entries

	s.Tags = normalizeTags(s.Tags)
	s.AverageMood, s.MoodTrend = sessionMood(s.Entries)

	return s
}

// SortJournalSessions orders sessions by most recent activity first.
func SortJournalSessions(sessions []JournalSession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].UpdatedAt.After(sessions[j].UpdatedAt)
	})
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == maxSessionTags {
			break
		}
	}
	return out
}

// sessionMood averages entry sentiment and compares the later half of the
// session against the earlier half.
func sessionMood(entries []JournalEntry) (float64, MoodTrend) {
	if len(entries) == 0 {
		return 0, TrendStable
	}

	scores := make([]float64, len(entries))
	for i, e := range entries {
		scores[i] = e.SentimentScore
	}

	avg := Round2(Mean(scores))
	if len(scores) < 2 {
		return avg, TrendStable
	}

	pivot := len(scores) / 2
	delta := Mean(scores[pivot:]) - Mean(scores[:pivot])
	switch {
	case delta >= TrendThreshold:
		return avg, TrendImproving
	case delta <= -TrendThreshold:
		return avg, TrendDeclining
	default:
		return avg, TrendStable
	}
}

// TrendThreshold is the minimum change in mean score that counts as a trend.
const TrendThreshold = 0.12

// Mean returns the arithmetic mean, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// Analysis is the assistant's read of one journal message.
type Analysis struct {
	Reflection         string   `json:"reflection"`
	MoodTag            string   `json:"moodTag"`
	Sentiment          float64  `json:"sentiment"`
	FollowUpQuestion   string   `json:"followUpQuestion"`
	SuggestedQuestions []string `json:"suggestedQuestions,omitempty"`
}

// Questions lists the questions shown under the reflection. Suggested
// questions take precedence over the single follow-up.
func (a Analysis) Questions() []string {
	if len(a.SuggestedQuestions) > 0 {
		return a.SuggestedQuestions
	}
	if q := strings.TrimSpace(a.FollowUpQuestion); q != "" {
		return []string{q}
	}
	return nil
}
