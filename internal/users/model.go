package users

import "time"

const (
	maxNameLength     = 50
	maxUsernameLength = 50
)

// User is the single persisted entity: a profile plus the resume text used
// as source material for generation prompts.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Username   string    `json:"username,omitempty"`
	ResumeName string    `json:"resumeName,omitempty"`
	ResumeData string    `json:"resumeData,omitempty"`
	Password   string    `json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// HasResume reports whether the record carries resume text.
func (u User) HasResume() bool {
	return u.ResumeData != ""
}

// Update is a partial change applied by UpsertByEmail. Nil fields are left untouched.
type Update struct {
	Name       *string
	ResumeName *string
	ResumeData *string
}

func (u Update) apply(user *User) {
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.ResumeName != nil {
		user.ResumeName = *u.ResumeName
	}
	if u.ResumeData != nil {
		user.ResumeData = *u.ResumeData
	}
}

func (u Update) empty() bool {
	return u.Name == nil && u.ResumeName == nil && u.ResumeData == nil
}
