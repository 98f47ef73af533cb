package synced

// ConflictPolicy decides which side of a Local/Remote disagreement becomes
// canonical, given only the item counts of each side.
type ConflictPolicy interface {
	LocalWins(local, remote int) bool
}

// LongerListWins keeps Local when it holds more items than Remote, or when
// Remote is empty and Local is not. Ties go to Remote.
//
// The policy is blind to edit time: a shorter list that is newer (after a
// delete on another device) loses to a longer stale one, and the delete is
// undone on the next sync.
type LongerListWins struct{}

func (LongerListWins) LocalWins(local, remote int) bool {
	return local > remote || (remote == 0 && local > 0)
}
