package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCompanyRegistered EventType = "company.registered"
	EventCompanyApproved   EventType = "company.approved"
	EventCompanyRejected   EventType = "company.rejected"
	EventProblemSubmitted  EventType = "problem.submitted"
	EventProblemReviewed   EventType = "problem.reviewed"
)

// AllTypes lists every event type, in declaration order.
var AllTypes = []EventType{
	EventCompanyRegistered,
	EventCompanyApproved,
	EventCompanyRejected,
	EventProblemSubmitted,
	EventProblemReviewed,
}

// Subject identifies the record an event is about.
type Subject struct {
	Kind string `json:"kind"`
	ID   int64  `json:"id"`
}

// Event represents a domain event emitted by services after commit.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Subject   Subject   `json:"subject"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// CompanyPayload accompanies company events.
type CompanyPayload struct {
	Name string `json:"name,omitempty"`
}

// ProblemSubmittedPayload accompanies problem.submitted.
type ProblemSubmittedPayload struct {
	UserID             int64  `json:"user_id"`
	DescriptionPreview string `json:"description_preview"`
}

// ProblemReviewedPayload accompanies problem.reviewed.
type ProblemReviewedPayload struct {
	ReviewID        int64  `json:"review_id"`
	ResponsePreview string `json:"response_preview"`
}

// SubjectCompany builds a Subject for a company id.
func SubjectCompany(id int64) Subject {
	return Subject{Kind: "COMPANY", ID: id}
}

// SubjectProblem builds a Subject for a problem id.
func SubjectProblem(id int64) Subject {
	return Subject{Kind: "PROBLEM", ID: id}
}

// Preview truncates s to at most n runes for event payloads.
func Preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
