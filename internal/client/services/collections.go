// Package services contains the application services of the moodkeeper
// client: mood log, journal, profile, long-term memory and insights. Every
// service reads through the synced collections, so it works offline and
// converges with the remote store when a session is active.
package services

import (
	"github.com/dmitrijs2005/moodkeeper/internal/client/localstore"
	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/client/remote"
	"github.com/dmitrijs2005/moodkeeper/internal/client/synced"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
	"github.com/dmitrijs2005/moodkeeper/internal/timex"
)

// Collections holds the five synced collections of the active user.
type Collections struct {
	Moods    *synced.Collection[[]models.MoodEntry]
	Journal  *synced.Collection[[]models.JournalSession]
	Profile  *synced.Collection[models.Profile]
	LongTerm *synced.Collection[models.LongTermSummary]
	Rolling  *synced.Collection[models.RollingContext]
}

// NewCollections wires every collection to the same local and remote stores.
func NewCollections(local synced.LocalStore, rs remote.Store, clock timex.Clock, logger logging.Logger) *Collections {
	return &Collections{
		Moods: synced.New[[]models.MoodEntry](localstore.KeyMoodEntries, remote.DocMoodEntries,
			local, rs, synced.MoodCodec(clock), logger),
		Journal: synced.New[[]models.JournalSession](localstore.KeyJournalSessions, remote.DocJournalSessions,
			local, rs, synced.JournalCodec(clock), logger),
		Profile: synced.New[models.Profile](localstore.KeyProfile, remote.DocProfile,
			local, rs, synced.ProfileCodec(), logger),
		LongTerm: synced.New[models.LongTermSummary](localstore.KeyLongTermSummary, remote.DocLongTermSummary,
			local, rs, synced.LongTermCodec(), logger),
		Rolling: synced.New[models.RollingContext](localstore.KeyRollingContext, remote.DocRollingContext,
			local, rs, synced.RollingCodec(), logger),
	}
}
