package users

import "context"

// Repo is the user store accessor. Records are addressed by email only.
type Repo interface {
	// FindByEmail returns the record for email or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (User, error)
	// UpsertByEmail applies a partial update to an existing record and returns
	// the record as stored afterwards. It never creates; ErrNotFound otherwise.
	UpsertByEmail(ctx context.Context, email string, update Update) (User, error)
	// Insert creates a record, assigning ID and timestamps when unset.
	Insert(ctx context.Context, user User) (User, error)
}
