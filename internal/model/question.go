package model

import (
	"errors"
	"fmt"
	"strings"
)

// QuestionType enumerates the supported question variants.
type QuestionType string

const (
	QuestionTypeMCQ         QuestionType = "MCQ"
	QuestionTypeShortAnswer QuestionType = "SHORT_ANSWER"
	QuestionTypeProgramming QuestionType = "PROGRAMMING"
)

// ErrMalformedQuestion is returned when a question's populated payload
// does not match its declared type.
var ErrMalformedQuestion = errors.New("question fields do not match the declared question type")

// MCQPayload carries the fields specific to multiple-choice questions.
type MCQPayload struct {
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// ShortAnswerPayload carries the fields specific to short-answer questions.
type ShortAnswerPayload struct {
	ExpectedAnswer string `json:"expected_answer"`
}

// ProgrammingPayload carries the fields specific to programming questions.
// The two URLs point at documents stored by the blob service.
type ProgrammingPayload struct {
	StatementURL string   `json:"statement_url"`
	TestCaseURL  string   `json:"test_case_url"`
	Languages    []string `json:"languages"`
}

// Question is a single contest question. Exactly one of the payload
// pointers is populated, matching Type.
type Question struct {
	Type        QuestionType        `json:"type"`
	Prompt      string              `json:"prompt"`
	MCQ         *MCQPayload         `json:"mcq,omitempty"`
	ShortAnswer *ShortAnswerPayload `json:"short_answer,omitempty"`
	Programming *ProgrammingPayload `json:"programming,omitempty"`
}

// IsProgramming reports whether the question's declared type is
// PROGRAMMING, compared case-insensitively.
func (q Question) IsProgramming() bool {
	return strings.EqualFold(string(q.Type), string(QuestionTypeProgramming))
}

// Validate checks that exactly the payload matching the declared type
// is populated. Questions that fail this check are rejected at the
// boundary instead of being persisted with stray fields.
func (q Question) Validate() error {
	switch {
	case strings.EqualFold(string(q.Type), string(QuestionTypeMCQ)):
		if q.MCQ == nil || q.ShortAnswer != nil || q.Programming != nil {
			return fmt.Errorf("%w: type %s", ErrMalformedQuestion, q.Type)
		}
	case strings.EqualFold(string(q.Type), string(QuestionTypeShortAnswer)):
		if q.ShortAnswer == nil || q.MCQ != nil || q.Programming != nil {
			return fmt.Errorf("%w: type %s", ErrMalformedQuestion, q.Type)
		}
	case strings.EqualFold(string(q.Type), string(QuestionTypeProgramming)):
		if q.Programming == nil || q.MCQ != nil || q.ShortAnswer != nil {
			return fmt.Errorf("%w: type %s", ErrMalformedQuestion, q.Type)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrMalformedQuestion, q.Type)
	}
	return nil
}

// QuestionRequest is the submission shape for a single question.
// Programming attachments travel base64-encoded in the JSON body and
// are pushed to the blob service before persistence.
type QuestionRequest struct {
	// Type is matched case-insensitively in Validate; unknown values
	// are rejected there rather than at binding.
	Type   string `json:"type" binding:"required"`
	Prompt string `json:"prompt" binding:"required,min=1,max=5000"`

	// MCQ only
	Options []string `json:"options" binding:"omitempty,dive,min=1"`
	Answer  string   `json:"answer" binding:"omitempty"`

	// Short answer only
	ExpectedAnswer string `json:"expected_answer" binding:"omitempty"`

	// Programming only
	StatementData []byte   `json:"statement_data" binding:"omitempty"`
	TestCaseData  []byte   `json:"test_case_data" binding:"omitempty"`
	Languages     []string `json:"languages" binding:"omitempty,dive,min=1"`
}

// Validate checks that the submission carries the fields required by
// its declared type and none belonging to another variant.
func (r QuestionRequest) Validate() error {
	switch {
	case strings.EqualFold(r.Type, string(QuestionTypeMCQ)):
		if len(r.Options) == 0 || r.Answer == "" {
			return fmt.Errorf("%w: MCQ requires options and answer", ErrMalformedQuestion)
		}
		if r.ExpectedAnswer != "" || len(r.StatementData) > 0 || len(r.TestCaseData) > 0 || len(r.Languages) > 0 {
			return fmt.Errorf("%w: MCQ carries fields of another type", ErrMalformedQuestion)
		}
	case strings.EqualFold(r.Type, string(QuestionTypeShortAnswer)):
		if r.ExpectedAnswer == "" {
			return fmt.Errorf("%w: SHORT_ANSWER requires expected_answer", ErrMalformedQuestion)
		}
		if len(r.Options) > 0 || r.Answer != "" || len(r.StatementData) > 0 || len(r.TestCaseData) > 0 || len(r.Languages) > 0 {
			return fmt.Errorf("%w: SHORT_ANSWER carries fields of another type", ErrMalformedQuestion)
		}
	case strings.EqualFold(r.Type, string(QuestionTypeProgramming)):
		if len(r.StatementData) == 0 || len(r.TestCaseData) == 0 {
			return fmt.Errorf("%w: PROGRAMMING requires statement_data and test_case_data", ErrMalformedQuestion)
		}
		if len(r.Options) > 0 || r.Answer != "" || r.ExpectedAnswer != "" {
			return fmt.Errorf("%w: PROGRAMMING carries fields of another type", ErrMalformedQuestion)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrMalformedQuestion, r.Type)
	}
	return nil
}

// IsProgramming reports whether the submission declares a PROGRAMMING
// question, compared case-insensitively.
func (r QuestionRequest) IsProgramming() bool {
	return strings.EqualFold(r.Type, string(QuestionTypeProgramming))
}
