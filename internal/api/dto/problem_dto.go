package dto

import (
	"time"

	"github.com/spec-kit/account-registry/internal/domain"
)

// SubmitProblemRequest payload for problem submission.
type SubmitProblemRequest struct {
	Description string `json:"description"`
	UserID      ID     `json:"user_id"`
}

// ReviewProblemRequest payload for an admin review.
type ReviewProblemRequest struct {
	ProblemID ID     `json:"problem_id"`
	Response  string `json:"response"`
}

// ProblemSummary is the admin listing entry.
type ProblemSummary struct {
	ProblemID   int64  `json:"problem_id"`
	Description string `json:"description"`
}

// ReviewResponse represents one stored review.
type ReviewResponse struct {
	ReviewID  int64     `json:"review_id"`
	ProblemID int64     `json:"problem_id"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}

// NewProblemSummaries maps domain problems to the admin listing.
func NewProblemSummaries(problems []domain.UserProblem) []ProblemSummary {
	out := make([]ProblemSummary, 0, len(problems))
	for _, p := range problems {
		out = append(out, ProblemSummary{ProblemID: p.ID, Description: p.Description})
	}
	return out
}

// NewReviewResponses maps domain reviews.
func NewReviewResponses(reviews []domain.ProblemReview) []ReviewResponse {
	out := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, ReviewResponse{
			ReviewID:  r.ID,
			ProblemID: r.ProblemID,
			Response:  r.Response,
			CreatedAt: r.CreatedAt,
		})
	}
	return out
}
