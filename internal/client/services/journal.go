package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/moodkeeper/internal/client/ai"
	"github.com/dmitrijs2005/moodkeeper/internal/client/memory"
	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
	"github.com/dmitrijs2005/moodkeeper/internal/timex"
)

const (
	titleFromTextLimit = 48
	historyForAnalysis = 8
)

// ErrEmptyMessage is returned by Reflect for blank input.
var ErrEmptyMessage = errors.New("empty journal message")

// Analyzer reads one journal message in context.
type Analyzer interface {
	Analyze(ctx context.Context, text string, history []models.JournalMessage, jc ai.JournalContext) models.Analysis
}

// ExchangeInput is one user message and the analysis answering it.
type ExchangeInput struct {
	SessionID string
	UserText  string
	Analysis  models.Analysis
}

// ExchangeResult is the state after an exchange was recorded.
type ExchangeResult struct {
	Sessions         []models.JournalSession
	SessionID        string
	AssistantMessage models.JournalMessage
	JournalEntry     models.JournalEntry
}

// JournalService manages journal sessions.
type JournalService interface {
	GetJournalSessions(ctx context.Context) []models.JournalSession
	CreateJournalSession(ctx context.Context, title string) (models.JournalSession, error)
	DeleteJournalSession(ctx context.Context, id string) ([]models.JournalSession, error)
	AddJournalExchange(ctx context.Context, in ExchangeInput) (ExchangeResult, error)
	Reflect(ctx context.Context, sessionID, text string) (ExchangeResult, error)
	GetAllJournalEntries(ctx context.Context) []models.JournalEntry
}

type journalService struct {
	cols       *Collections
	memory     MemoryService
	analyzer   Analyzer
	compressor *Compressor
	clock      timex.Clock
	logger     logging.Logger
}

// NewJournalService wires the journal. analyzer and compressor may be nil:
// Reflect then uses the keyword heuristic and no compression is scheduled.
func NewJournalService(cols *Collections, mem MemoryService, analyzer Analyzer, compressor *Compressor, clock timex.Clock, logger logging.Logger) JournalService {
	return &journalService{
		cols:       cols,
		memory:     mem,
		analyzer:   analyzer,
		compressor: compressor,
		clock:      clock,
		logger:     logger.With("module", "journal"),
	}
}

func (s *journalService) GetJournalSessions(ctx context.Context) []models.JournalSession {
	sessions, _ := s.cols.Journal.Reconcile(ctx)
	return sessions
}

func (s *journalService) CreateJournalSession(ctx context.Context, title string) (models.JournalSession, error) {
	if strings.TrimSpace(title) == "" {
		title = models.NewSessionTitle
	}
	now := s.clock()
	session := models.JournalSession{
		ID:        models.NewID("session"),
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}

	sessions := append([]models.JournalSession{session}, s.GetJournalSessions(ctx)...)
	saved, err := s.cols.Journal.Persist(ctx, sessions)
	if err != nil {
		return models.JournalSession{}, fmt.Errorf("error saving journal sessions: %w", err)
	}
	created, _ := findSession(saved, session.ID)
	return created, nil
}

func (s *journalService) DeleteJournalSession(ctx context.Context, id string) ([]models.JournalSession, error) {
	sessions := s.GetJournalSessions(ctx)
	kept := make([]models.JournalSession, 0, len(sessions))
	for _, session := range sessions {
		if session.ID != id {
			kept = append(kept, session)
		}
	}
	saved, err := s.cols.Journal.Persist(ctx, kept)
	if err != nil {
		return nil, fmt.Errorf("error saving journal sessions: %w", err)
	}
	return saved, nil
}

// AddJournalExchange appends the user message, the assistant reply and the
// derived entry to the session, creating the session when the id is
// unknown. The latest reflection becomes the session summary and the mood
// tag joins the session tags. The rolling context is refreshed afterwards and a compression
// is scheduled in the background.
func (s *journalService) AddJournalExchange(ctx context.Context, in ExchangeInput) (ExchangeResult, error) {
	sessions := s.GetJournalSessions(ctx)
	now := s.clock()

	idx, ok := sessionIndex(sessions, in.SessionID)
	if !ok {
		sessions = append([]models.JournalSession{{
			ID:        models.NewID("session"),
			Title:     models.NewSessionTitle,
			CreatedAt: now,
			UpdatedAt: now,
		}}, sessions...)
		idx = 0
	}
	session := sessions[idx]

	userMessage := models.NormalizeJournalMessage(models.JournalMessage{
		Role:      models.RoleUser,
		Text:      in.UserText,
		CreatedAt: now,
	}, now)
	assistantMessage := models.NormalizeJournalMessage(models.JournalMessage{
		Role:      models.RoleAssistant,
		Text:      AssistantText(in.Analysis),
		CreatedAt: now,
	}, now)
	entry := models.NormalizeJournalEntry(models.JournalEntry{
		Text:           in.UserText,
		Date:           now,
		SentimentScore: in.Analysis.Sentiment,
		MoodTag:        in.Analysis.MoodTag,
		SessionID:      session.ID,
	}, now)

	if len(session.Messages) == 0 {
		session.Title = titleFromText(in.UserText)
	}
	session.UpdatedAt = now
	if summary := memory.CompactText(in.Analysis.Reflection, memory.LongTextBudget); summary != "" {
		session.Summary = summary
	}
	session.Tags = append(append([]string(nil), session.Tags...), entry.MoodTag)
	session.Messages = append(append([]models.JournalMessage(nil), session.Messages...), userMessage, assistantMessage)
	session.Entries = append(append([]models.JournalEntry(nil), session.Entries...), entry)
	sessions[idx] = session

	saved, err := s.cols.Journal.Persist(ctx, sessions)
	if err != nil {
		return ExchangeResult{}, fmt.Errorf("error saving journal sessions: %w", err)
	}

	stored, _ := findSession(saved, session.ID)
	s.refreshRolling(ctx, stored, in.Analysis)
	if s.compressor != nil {
		s.compressor.AfterExchange(flattenEntries(saved))
	}

	return ExchangeResult{
		Sessions:         saved,
		SessionID:        session.ID,
		AssistantMessage: assistantMessage,
		JournalEntry:     entry,
	}, nil
}

// Reflect analyzes text against the user's context and records the
// exchange.
func (s *journalService) Reflect(ctx context.Context, sessionID, text string) (ExchangeResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ExchangeResult{}, ErrEmptyMessage
	}

	var history []models.JournalMessage
	if session, ok := findSession(s.GetJournalSessions(ctx), sessionID); ok {
		history = lastMessages(session.Messages, historyForAnalysis)
	}

	analysis := ai.FallbackAnalysis(text)
	if s.analyzer != nil {
		profile, _ := s.cols.Profile.Reconcile(ctx)
		moods, _ := s.cols.Moods.Reconcile(ctx)
		jc := ai.BuildJournalContext(profile, moods, s.memory.GetMemoryContext(ctx), history, s.clock())
		analysis = s.analyzer.Analyze(ctx, text, history, jc)
	}

	return s.AddJournalExchange(ctx, ExchangeInput{SessionID: sessionID, UserText: text, Analysis: analysis})
}

func (s *journalService) GetAllJournalEntries(ctx context.Context) []models.JournalEntry {
	return flattenEntries(s.GetJournalSessions(ctx))
}

func (s *journalService) refreshRolling(ctx context.Context, session models.JournalSession, analysis models.Analysis) {
	moods, _ := s.cols.Moods.Reconcile(ctx)
	trend, highlights := ai.MoodTrend(moods, s.clock())

	sessionSummary := memory.CompactText(fmt.Sprintf("%s: %d exchanges, mood %s (avg %.2f), latest feeling %s.",
		session.Title, len(session.Entries), session.MoodTrend, session.AverageMood, analysis.MoodTag), memory.LongTextBudget)
	focus := memory.CompactText(analysis.FollowUpQuestion, memory.ShortTextBudget)

	_, err := s.memory.SaveRollingContext(ctx, models.RollingPatch{
		RecentMoodTrend7d:    &trend,
		RecentEntriesSummary: &highlights,
		SessionSummary:       &sessionSummary,
		ActiveFocus:          &focus,
	})
	if err != nil {
		s.logger.Warn(ctx, "rolling context not refreshed", "error", err)
	}
}

// AssistantText renders the reflection followed by numbered questions.
func AssistantText(a models.Analysis) string {
	var b strings.Builder
	b.WriteString(a.Reflection)
	b.WriteString("\n\n")
	for i, q := range a.Questions() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strconv.Itoa(i+1) + ". " + q)
	}
	return strings.TrimSpace(b.String())
}

func titleFromText(text string) string {
	if text == "" {
		return models.NewSessionTitle
	}
	r := []rune(text)
	if len(r) > titleFromTextLimit {
		r = r[:titleFromTextLimit]
	}
	return string(r)
}

// flattenEntries lists the entries of every session, newest first, tagged
// with their session.
func flattenEntries(sessions []models.JournalSession) []models.JournalEntry {
	var all []models.JournalEntry
	for _, session := range sessions {
		for _, e := range session.Entries {
			e.SessionID = session.ID
			e.SessionTitle = session.Title
			all = append(all, e)
		}
	}
	if all == nil {
		all = []models.JournalEntry{}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return all
}

func sessionIndex(sessions []models.JournalSession, id string) (int, bool) {
	if id == "" {
		return -1, false
	}
	for i, s := range sessions {
		if s.ID == id {
			return i, true
		}
	}
	return -1, false
}

func findSession(sessions []models.JournalSession, id string) (models.JournalSession, bool) {
	if i, ok := sessionIndex(sessions, id); ok {
		return sessions[i], true
	}
	return models.JournalSession{}, false
}

func lastMessages(msgs []models.JournalMessage, n int) []models.JournalMessage {
	if len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}
