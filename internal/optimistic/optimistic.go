// Package optimistic implements the update-then-revert pattern used by the
// role assignment screens: show the tentative state immediately, persist in
// the background, and restore the snapshot if the server rejects it.
package optimistic

import "context"

// Commit persists the tentative state.
type Commit func(ctx context.Context) error

// Update replaces *state with tentative, runs commit, and rolls *state back
// to its prior snapshot when commit fails. Returns commit's error.
func Update[T any](ctx context.Context, state *T, tentative T, commit Commit) error {
	snapshot := *state
	*state = tentative
	if err := commit(ctx); err != nil {
		*state = snapshot
		return err
	}
	return nil
}

// UpdateWith is Update for state held behind accessors rather than a
// pointer (e.g. view-model fields with change hooks).
func UpdateWith[T any](ctx context.Context, get func() T, set func(T), tentative T, commit Commit) error {
	snapshot := get()
	set(tentative)
	if err := commit(ctx); err != nil {
		set(snapshot)
		return err
	}
	return nil
}
