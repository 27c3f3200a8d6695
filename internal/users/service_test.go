package users

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateOrUpdateInsertsThenUpdates(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	user, created, err := svc.CreateOrUpdate(ctx, CreateInput{
		Name:       "Ada",
		Email:      "ada@example.com",
		ResumeName: strPtr("cv.pdf"),
		ResumeData: strPtr("Engineer"),
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Engineer", user.ResumeData)

	updated, created, err := svc.CreateOrUpdate(ctx, CreateInput{
		Name:       "Ada Lovelace",
		Email:      "ada@example.com",
		ResumeData: strPtr("ignored on update"),
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, updated.ID)
	assert.Equal(t, "Ada Lovelace", updated.Name)
	assert.Equal(t, "cv.pdf", updated.ResumeName, "resumeName untouched when omitted")
	assert.Equal(t, "Engineer", updated.ResumeData, "create-user never rewrites resume text")
	assert.Equal(t, 1, repo.Len())
}

func TestCreateOrUpdateValidatesLengths(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	_, _, err := svc.CreateOrUpdate(context.Background(), CreateInput{
		Name:  strings.Repeat("x", maxNameLength+1),
		Email: "ada@example.com",
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = svc.CreateOrUpdate(context.Background(), CreateInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Username: strings.Repeat("y", maxUsernameLength+1),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	// Multi-byte names are measured in characters, not bytes.
	_, created, err := svc.CreateOrUpdate(context.Background(), CreateInput{
		Name:  strings.Repeat("é", maxNameLength),
		Email: "ada@example.com",
	})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestAddResumeRequiresExistingRecord(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	_, err := svc.AddResume(context.Background(), "ghost@example.com", nil, "resume text")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAddResumeOverwritesResumeFields(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()
	_, err := repo.Insert(ctx, User{Name: "Ada", Email: "ada@example.com", ResumeName: "old.pdf", ResumeData: "old"})
	require.NoError(t, err)

	user, err := svc.AddResume(ctx, "ada@example.com", strPtr("new.pdf"), "new text")
	require.NoError(t, err)
	assert.Equal(t, "new.pdf", user.ResumeName)
	assert.Equal(t, "new text", user.ResumeData)
	assert.Equal(t, "Ada", user.Name)
}

func TestEnsureExists(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	user, err := svc.EnsureExists(ctx, "grace@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, "grace", user.Name)

	again, err := svc.EnsureExists(ctx, "grace@example.com", "Grace Hopper")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Equal(t, 1, repo.Len())
}

type racingRepo struct {
	*MemoryRepo
	finds int
}

// FindByEmail hides the record on the first lookup to simulate a concurrent insert.
func (r *racingRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	r.finds++
	if r.finds == 1 {
		return User{}, ErrNotFound
	}
	return r.MemoryRepo.FindByEmail(ctx, email)
}

func TestCreateOrUpdateFallsBackToUpdateOnDuplicate(t *testing.T) {
	repo := &racingRepo{MemoryRepo: NewMemoryRepo()}
	_, err := repo.MemoryRepo.Insert(context.Background(), User{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, err)

	svc := NewService(repo)
	user, created, err := svc.CreateOrUpdate(context.Background(), CreateInput{Name: "Ada 2", Email: "ada@example.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Ada 2", user.Name)
}

func TestServiceNotConfigured(t *testing.T) {
	var svc *Service
	_, err := svc.Get(context.Background(), "ada@example.com")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
