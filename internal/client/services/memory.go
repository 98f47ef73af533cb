package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/memory"
	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/client/remote"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
	"github.com/dmitrijs2005/moodkeeper/internal/timex"
	"github.com/samber/lo"
)

// NameExtractor finds people mentioned in free text.
type NameExtractor interface {
	Extract(ctx context.Context, text string) []string
}

// MemoryService manages the long-term summary and the rolling context.
type MemoryService interface {
	GetMemoryContext(ctx context.Context) models.MemoryContext
	SaveLongTermSummary(ctx context.Context, patch models.LongTermPatch, source models.Source) (models.LongTermSummary, error)
	ClearOverride(ctx context.Context, f models.Field) (models.LongTermSummary, error)
	SaveRollingContext(ctx context.Context, patch models.RollingPatch) (models.RollingContext, error)
	MaybeRefreshLongTermSummary(ctx context.Context, in RefreshInput) bool
	EnsureMemoryScaffold(ctx context.Context)
	SuggestManualTags(ctx context.Context, text string) []string
}

type memoryService struct {
	cols       *Collections
	rs         remote.Store
	compressor *Compressor
	names      NameExtractor
	clock      timex.Clock
	logger     logging.Logger
}

func NewMemoryService(cols *Collections, rs remote.Store, compressor *Compressor, names NameExtractor, clock timex.Clock, logger logging.Logger) MemoryService {
	return &memoryService{
		cols:       cols,
		rs:         rs,
		compressor: compressor,
		names:      names,
		clock:      clock,
		logger:     logger.With("module", "memory"),
	}
}

func (s *memoryService) GetMemoryContext(ctx context.Context) models.MemoryContext {
	lt, _ := s.cols.LongTerm.Reconcile(ctx)
	rc, _ := s.cols.Rolling.Reconcile(ctx)
	return models.MemoryContext{LongTermSummary: lt, RollingContext: rc}
}

func (s *memoryService) SaveLongTermSummary(ctx context.Context, patch models.LongTermPatch, source models.Source) (models.LongTermSummary, error) {
	return saveLongTerm(ctx, s.cols, patch, source, s.clock())
}

// ClearOverride hands a field back to the summarizer.
func (s *memoryService) ClearOverride(ctx context.Context, f models.Field) (models.LongTermSummary, error) {
	current, _ := s.cols.LongTerm.Reconcile(ctx)
	saved, err := s.cols.LongTerm.Persist(ctx, memory.ClearOverride(current, f, s.clock()))
	if err != nil {
		return models.LongTermSummary{}, fmt.Errorf("error saving long-term summary: %w", err)
	}
	return saved, nil
}

func (s *memoryService) SaveRollingContext(ctx context.Context, patch models.RollingPatch) (models.RollingContext, error) {
	current, _ := s.cols.Rolling.Reconcile(ctx)
	saved, err := s.cols.Rolling.Persist(ctx, memory.MergeRolling(current, patch, s.clock()))
	if err != nil {
		return models.RollingContext{}, fmt.Errorf("error saving rolling context: %w", err)
	}
	return saved, nil
}

func (s *memoryService) MaybeRefreshLongTermSummary(ctx context.Context, in RefreshInput) bool {
	if s.compressor == nil {
		return false
	}
	return s.compressor.MaybeRefresh(ctx, in)
}

// EnsureMemoryScaffold creates default memory documents remotely when they
// are missing. It never fails; problems are logged.
func (s *memoryService) EnsureMemoryScaffold(ctx context.Context) {
	ns, ok := s.rs.Namespace()
	if !ok {
		return
	}
	now := s.clock().UTC()

	lt := memory.DefaultLongTermSummary()
	lt.UpdatedAt = &now
	rc := memory.DefaultRollingContext()
	rc.UpdatedAt = &now

	scaffold := []struct {
		doc   string
		value any
	}{
		{remote.DocLongTermSummary, lt},
		{remote.DocRollingContext, rc},
	}
	for _, d := range scaffold {
		path := remote.DocPath(ns, d.doc)
		doc, err := s.rs.GetDoc(ctx, path)
		if err != nil {
			s.logger.Warn(ctx, "memory scaffold check failed", "path", path, "error", err)
			return
		}
		if doc.Exists {
			continue
		}
		data, err := json.Marshal(d.value)
		if err != nil {
			s.logger.Warn(ctx, "memory scaffold encode failed", "path", path, "error", err)
			continue
		}
		if err := s.rs.SetDoc(ctx, path, data, true); err != nil {
			s.logger.Warn(ctx, "memory scaffold write failed", "path", path, "error", err)
		}
	}
}

// SuggestManualTags returns people mentioned in text that no manual tag
// names yet.
func (s *memoryService) SuggestManualTags(ctx context.Context, text string) []string {
	if s.names == nil {
		return []string{}
	}
	lt, _ := s.cols.LongTerm.Reconcile(ctx)
	tagged := lo.Map(lt.ManualTags, func(t models.ManualTag, _ int) string {
		return strings.ToLower(t.Name)
	})
	return lo.Filter(s.names.Extract(ctx, text), func(name string, _ int) bool {
		return !lo.Contains(tagged, strings.ToLower(name))
	})
}

func saveLongTerm(ctx context.Context, cols *Collections, patch models.LongTermPatch, source models.Source, now time.Time) (models.LongTermSummary, error) {
	current, _ := cols.LongTerm.Reconcile(ctx)
	saved, err := cols.LongTerm.Persist(ctx, memory.MergeUpdate(current, patch, source, now))
	if err != nil {
		return models.LongTermSummary{}, fmt.Errorf("error saving long-term summary: %w", err)
	}
	return saved, nil
}
