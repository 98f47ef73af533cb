package synced

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/client/remote/remotetest"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

const (
	testKey = "@test_items_v1"
	testDoc = "appData/items"
	docPath = "users/u1/appData/items"
)

func stringCodec() *ListCodec[string] {
	return NewListCodec("items", fixedClock,
		func(raw json.RawMessage, _ time.Time) (string, error) {
			var s string
			err := json.Unmarshal(raw, &s)
			return s, err
		},
		func(s string, _ time.Time) string { return s },
		nil,
	)
}

func items(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%s%d", prefix, i)
	}
	return out
}

func remoteDoc(t *testing.T, v []string) string {
	t.Helper()
	b, err := json.Marshal(map[string]any{"items": v})
	require.NoError(t, err)
	return string(b)
}

func localRaw(t *testing.T, v []string) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func newCollection(local *remotetest.LocalStore, rs *remotetest.Store) *Collection[[]string] {
	return New[[]string](testKey, testDoc, local, rs, stringCodec(), logging.Nop())
}

func TestReconcile_NoNamespaceUsesLocal(t *testing.T) {
	ctx := context.Background()
	local := remotetest.NewLocal()
	require.NoError(t, local.Set(ctx, testKey, localRaw(t, []string{"a"})))
	rs := remotetest.New("")

	got, src := newCollection(local, rs).Reconcile(ctx)

	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, SourceLocal, src)
	assert.Zero(t, rs.Gets)
}

func TestReconcile_BootstrapsMissingRemote(t *testing.T) {
	ctx := context.Background()
	local := remotetest.NewLocal()
	require.NoError(t, local.Set(ctx, testKey, localRaw(t, []string{"a", "b"})))
	rs := remotetest.New("u1")

	got, src := newCollection(local, rs).Reconcile(ctx)

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, SourceLocal, src)
	doc, ok := rs.Doc(docPath)
	require.True(t, ok)
	assert.JSONEq(t, `{"items":["a","b"],"updatedAt":"2024-03-10T15:30:00Z"}`, string(doc))
}

func TestReconcile_BothEmpty(t *testing.T) {
	rs := remotetest.New("u1")

	got, src := newCollection(remotetest.NewLocal(), rs).Reconcile(context.Background())

	assert.Empty(t, got)
	assert.NotNil(t, got)
	assert.Equal(t, SourceLocal, src)
	assert.Zero(t, rs.Sets)
}

func TestReconcile_ConflictRule(t *testing.T) {
	tests := []struct {
		n, m      int
		wantLocal bool
	}{
		{n: 3, m: 2, wantLocal: true},
		{n: 1, m: 0, wantLocal: true},
		{n: 2, m: 2, wantLocal: false},
		{n: 1, m: 4, wantLocal: false},
		{n: 0, m: 0, wantLocal: false},
		{n: 0, m: 3, wantLocal: false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("local=%d remote=%d", tt.n, tt.m), func(t *testing.T) {
			ctx := context.Background()
			local := remotetest.NewLocal()
			require.NoError(t, local.Set(ctx, testKey, localRaw(t, items("l", tt.n))))
			rs := remotetest.New("u1")
			rs.Put(docPath, remoteDoc(t, items("r", tt.m)))

			got, src := newCollection(local, rs).Reconcile(ctx)

			if tt.wantLocal {
				assert.Equal(t, items("l", tt.n), got)
				assert.Equal(t, SourceLocal, src)
				doc, _ := rs.Doc(docPath)
				assert.Contains(t, string(doc), `"l0"`)
				return
			}
			assert.Equal(t, items("r", tt.m), got)
			assert.Equal(t, SourceRemote, src)

			mirrored, err := local.Get(ctx, testKey)
			require.NoError(t, err)
			assert.JSONEq(t, string(localRaw(t, items("r", tt.m))), string(mirrored))
		})
	}
}

func TestReconcile_RemoteReadFailureReturnsLocal(t *testing.T) {
	ctx := context.Background()
	local := remotetest.NewLocal()
	require.NoError(t, local.Set(ctx, testKey, localRaw(t, []string{"a"})))
	rs := remotetest.New("u1")
	rs.Put(docPath, remoteDoc(t, items("r", 5)))
	rs.GetErr = errors.New("offline")

	got, src := newCollection(local, rs).Reconcile(ctx)

	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, SourceLocal, src)
}

func TestReconcile_RemoteWriteFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	local := remotetest.NewLocal()
	require.NoError(t, local.Set(ctx, testKey, localRaw(t, []string{"a", "b"})))
	rs := remotetest.New("u1")
	rs.SetErr = errors.New("offline")

	got, src := newCollection(local, rs).Reconcile(ctx)

	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, SourceLocal, src)
	assert.Equal(t, 1, rs.Sets)
}

func TestReconcile_MalformedLocalIsEmpty(t *testing.T) {
	ctx := context.Background()
	local := remotetest.NewLocal()
	require.NoError(t, local.Set(ctx, testKey, []byte(`{not json`)))

	got, src := newCollection(local, remotetest.New("")).Reconcile(ctx)

	assert.Empty(t, got)
	assert.Equal(t, SourceLocal, src)
}

func TestReconcile_LocalReadErrorIsEmpty(t *testing.T) {
	local := remotetest.NewLocal()
	local.GetErr = errors.New("disk")

	got, _ := newCollection(local, remotetest.New("")).Reconcile(context.Background())

	assert.Empty(t, got)
}

func TestReconcile_MalformedRemoteCountsAsEmpty(t *testing.T) {
	ctx := context.Background()
	local := remotetest.NewLocal()
	require.NoError(t, local.Set(ctx, testKey, localRaw(t, []string{"a"})))
	rs := remotetest.New("u1")
	rs.Put(docPath, `{"items":"oops"}`)

	got, src := newCollection(local, rs).Reconcile(ctx)

	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, SourceLocal, src)
}

func TestReconcile_Idempotent(t *testing.T) {
	ctx := context.Background()
	local := remotetest.NewLocal()
	require.NoError(t, local.Set(ctx, testKey, localRaw(t, []string{"a"})))
	rs := remotetest.New("u1")
	rs.Put(docPath, remoteDoc(t, []string{"x", "y"}))
	c := newCollection(local, rs)

	first, _ := c.Reconcile(ctx)
	second, _ := c.Reconcile(ctx)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"x", "y"}, second)
}

func TestPersist_WritesLocalThenRemote(t *testing.T) {
	ctx := context.Background()
	local := remotetest.NewLocal()
	rs := remotetest.New("u1")
	c := newCollection(local, rs)

	saved, err := c.Persist(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, saved)

	got, _ := c.Reconcile(ctx)
	assert.Equal(t, saved, got)

	doc, ok := rs.Doc(docPath)
	require.True(t, ok)
	assert.Contains(t, string(doc), `"items":["a","b"]`)
}

func TestPersist_RemoteMergeKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	rs := remotetest.New("u1")
	rs.Put(docPath, `{"items":["old"],"owner":"someone"}`)

	_, err := newCollection(remotetest.NewLocal(), rs).Persist(ctx, []string{"new"})
	require.NoError(t, err)

	doc, _ := rs.Doc(docPath)
	assert.Contains(t, string(doc), `"owner":"someone"`)
	assert.Contains(t, string(doc), `"new"`)
}

func TestPersist_RemoteFailureNotReturned(t *testing.T) {
	ctx := context.Background()
	local := remotetest.NewLocal()
	rs := remotetest.New("u1")
	rs.SetErr = errors.New("offline")

	_, err := newCollection(local, rs).Persist(ctx, []string{"a"})
	require.NoError(t, err)

	raw, err := local.Get(ctx, testKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["a"]`, string(raw))
}

func TestPersist_LocalFailureReturned(t *testing.T) {
	local := remotetest.NewLocal()
	local.SetErr = errors.New("disk full")
	rs := remotetest.New("u1")

	_, err := newCollection(local, rs).Persist(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Zero(t, rs.Sets)
}

type localAlwaysWins struct{}

func (localAlwaysWins) LocalWins(int, int) bool { return true }

func TestWithPolicy(t *testing.T) {
	ctx := context.Background()
	local := remotetest.NewLocal()
	require.NoError(t, local.Set(ctx, testKey, localRaw(t, []string{"a"})))
	rs := remotetest.New("u1")
	rs.Put(docPath, remoteDoc(t, items("r", 4)))

	c := New[[]string](testKey, testDoc, local, rs, stringCodec(), logging.Nop(), WithPolicy[[]string](localAlwaysWins{}))
	got, src := c.Reconcile(ctx)

	assert.Equal(t, []string{"a"}, got)
	assert.Equal(t, SourceLocal, src)
}

func TestLongerListWins(t *testing.T) {
	p := LongerListWins{}
	assert.True(t, p.LocalWins(2, 1))
	assert.True(t, p.LocalWins(1, 0))
	assert.False(t, p.LocalWins(1, 1))
	assert.False(t, p.LocalWins(0, 0))
	assert.False(t, p.LocalWins(1, 2))
}

func TestMoodCollection_RoundTrip(t *testing.T) {
	ctx := context.Background()
	local := remotetest.NewLocal()
	rs := remotetest.New("u1")
	c := New[[]models.MoodEntry]("@happy_state_entries_v1", "appData/moodEntries", local, rs, MoodCodec(fixedClock), logging.Nop())

	mood := 4.0
	date := "2024-03-09"
	slot := models.SlotMorning
	in := []models.MoodEntry{
		models.NormalizeMoodEntry(models.MoodInput{Mood: &mood, Date: &date, Slot: &slot}, testNow),
		models.NormalizeMoodEntry(models.MoodInput{Mood: &mood}, testNow),
	}

	saved, err := c.Persist(ctx, in)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "2024-03-10", saved[0].Date)

	got, _ := c.Reconcile(ctx)
	assert.Equal(t, saved, got)

	doc, ok := rs.Doc("users/u1/appData/moodEntries")
	require.True(t, ok)
	assert.Contains(t, string(doc), `"entries":[`)
}

func TestMoodCodec_FillsScoreFromRawLocal(t *testing.T) {
	ctx := context.Background()
	local := remotetest.NewLocal()
	require.NoError(t, local.Set(ctx, "@happy_state_entries_v1", []byte(`[{"mood":3,"date":"2024-03-01","slot":"night"},"garbage"]`)))
	c := New[[]models.MoodEntry]("@happy_state_entries_v1", "appData/moodEntries", local, remotetest.New(""), MoodCodec(fixedClock), logging.Nop())

	got, _ := c.Reconcile(ctx)

	require.Len(t, got, 1)
	assert.Equal(t, 0.0, got[0].Score)
	assert.Equal(t, "2024-03-01_night", got[0].ID)
}

func TestLongTermCollection_RemoteDocumentWins(t *testing.T) {
	ctx := context.Background()
	local := remotetest.NewLocal()
	rs := remotetest.New("u1")
	c := New[models.LongTermSummary]("@happy_state_memory_long_term_v1", "memory/longTermSummary", local, rs, LongTermCodec(), logging.Nop())

	stamp := testNow
	_, err := c.Persist(ctx, models.LongTermSummary{ProfileSummary: "local", UpdatedAt: &stamp})
	require.NoError(t, err)
	rs.Put("users/u1/memory/longTermSummary", `{"profileSummary":"remote","updatedAt":"2024-03-11T00:00:00Z"}`)

	got, src := c.Reconcile(ctx)

	assert.Equal(t, SourceRemote, src)
	assert.Equal(t, "remote", got.ProfileSummary)
	assert.Len(t, got.UserOverrides, len(models.EditableFields))
}

func TestLongTermCollection_DefaultWhenNothingStored(t *testing.T) {
	c := New[models.LongTermSummary]("@happy_state_memory_long_term_v1", "memory/longTermSummary", remotetest.NewLocal(), remotetest.New("u1"), LongTermCodec(), logging.Nop())

	got, _ := c.Reconcile(context.Background())

	assert.Nil(t, got.UpdatedAt)
	assert.Equal(t, 0, LongTermCodec().Count(got))
}
