package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Well-known subjects. Subject is free text; only Math and Physics
// carry a question-type restriction.
const (
	SubjectMath            = "Math"
	SubjectPhysics         = "Physics"
	SubjectComputerScience = "ComputerScience"
)

// Visibility values for a contest.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// ErrSubjectTypeConflict is returned when a Math or Physics contest
// contains a programming question.
var ErrSubjectTypeConflict = errors.New("Math and Physics contests cannot have programming questions")

// Contest is a named collection of questions with a visibility and
// time window. CreatedBy is set from the authenticated identity at
// creation and never altered afterwards.
type Contest struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Subject    string     `json:"subject"`
	Visibility string     `json:"visibility"`
	CreatedBy  string     `json:"created_by"`
	Questions  []Question `json:"questions"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    time.Time  `json:"end_time"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ContestRequest is the payload for creating or updating a contest.
type ContestRequest struct {
	Title      string            `json:"title" binding:"required,min=1,max=255"`
	Subject    string            `json:"subject" binding:"required,min=1,max=100"`
	Visibility string            `json:"visibility" binding:"required,oneof=public private"`
	Questions  []QuestionRequest `json:"questions" binding:"required,dive"`
	StartTime  time.Time         `json:"start_time" binding:"required"`
	EndTime    time.Time         `json:"end_time" binding:"required"`
}

// Validate enforces the subject/question-type compatibility rule:
// Math and Physics contests must not contain programming questions.
// Unrecognized subjects pass without restriction.
func (r ContestRequest) Validate() error {
	restricted := strings.EqualFold(r.Subject, SubjectMath) ||
		strings.EqualFold(r.Subject, SubjectPhysics)
	if restricted {
		for _, q := range r.Questions {
			if q.IsProgramming() {
				return ErrSubjectTypeConflict
			}
		}
	}
	return nil
}
