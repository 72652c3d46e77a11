package domain

import "time"

// UserProblem is a free-text support request owned by a User.
type UserProblem struct {
	ID          int64
	Description string
	UserID      int64
	CreatedAt   time.Time
}

// ProblemReview is an administrator response attached to a UserProblem.
type ProblemReview struct {
	ID        int64
	ProblemID int64
	Response  string
	CreatedAt time.Time
}
