package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcqRequest() QuestionRequest {
	return QuestionRequest{
		Type:    "MCQ",
		Prompt:  "What is 2+2?",
		Options: []string{"3", "4"},
		Answer:  "4",
	}
}

func shortAnswerRequest() QuestionRequest {
	return QuestionRequest{
		Type:           "SHORT_ANSWER",
		Prompt:         "Name the SI unit of force.",
		ExpectedAnswer: "Newton",
	}
}

func programmingRequest() QuestionRequest {
	return QuestionRequest{
		Type:          "PROGRAMMING",
		Prompt:        "Implement FizzBuzz.",
		StatementData: []byte("statement pdf bytes"),
		TestCaseData:  []byte("1\n2\n3\n"),
		Languages:     []string{"go", "python"},
	}
}

func TestContestRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		subject   string
		questions []QuestionRequest
		wantErr   error
	}{
		{
			name:      "math with programming rejected",
			subject:   "Math",
			questions: []QuestionRequest{mcqRequest(), programmingRequest()},
			wantErr:   ErrSubjectTypeConflict,
		},
		{
			name:      "physics with programming rejected",
			subject:   "Physics",
			questions: []QuestionRequest{programmingRequest()},
			wantErr:   ErrSubjectTypeConflict,
		},
		{
			name:      "subject comparison is case-insensitive",
			subject:   "mAtH",
			questions: []QuestionRequest{programmingRequest()},
			wantErr:   ErrSubjectTypeConflict,
		},
		{
			name:    "type comparison is case-insensitive",
			subject: "Physics",
			questions: []QuestionRequest{{
				Type:          "programming",
				Prompt:        "p",
				StatementData: []byte("s"),
				TestCaseData:  []byte("t"),
			}},
			wantErr: ErrSubjectTypeConflict,
		},
		{
			name:      "math without programming accepted",
			subject:   "Math",
			questions: []QuestionRequest{mcqRequest(), shortAnswerRequest()},
		},
		{
			name:      "computer science allows any mix",
			subject:   "ComputerScience",
			questions: []QuestionRequest{mcqRequest(), shortAnswerRequest(), programmingRequest()},
		},
		{
			name:      "unknown subject is permissive",
			subject:   "Underwater Basket Weaving",
			questions: []QuestionRequest{programmingRequest()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := ContestRequest{
				Title:      "t",
				Subject:    tt.subject,
				Visibility: VisibilityPublic,
				Questions:  tt.questions,
			}
			err := req.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Contains(t, err.Error(), "Math and Physics contests cannot have programming questions")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestQuestionRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*QuestionRequest)
		base    QuestionRequest
		wantErr bool
	}{
		{name: "valid mcq", base: mcqRequest()},
		{name: "valid short answer", base: shortAnswerRequest()},
		{name: "valid programming", base: programmingRequest()},
		{
			name: "mcq missing answer",
			base: mcqRequest(),
			mutate: func(q *QuestionRequest) {
				q.Answer = ""
			},
			wantErr: true,
		},
		{
			name: "mcq with stray expected answer",
			base: mcqRequest(),
			mutate: func(q *QuestionRequest) {
				q.ExpectedAnswer = "stray"
			},
			wantErr: true,
		},
		{
			name: "short answer with stray options",
			base: shortAnswerRequest(),
			mutate: func(q *QuestionRequest) {
				q.Options = []string{"a"}
			},
			wantErr: true,
		},
		{
			name: "programming missing test cases",
			base: programmingRequest(),
			mutate: func(q *QuestionRequest) {
				q.TestCaseData = nil
			},
			wantErr: true,
		},
		{
			name: "unknown type",
			base: QuestionRequest{Type: "ESSAY", Prompt: "p"},
			wantErr: true,
		},
		{
			name: "lowercase type accepted",
			base: QuestionRequest{
				Type:           "short_answer",
				Prompt:         "p",
				ExpectedAnswer: "a",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := tt.base
			if tt.mutate != nil {
				tt.mutate(&q)
			}
			err := q.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrMalformedQuestion)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestQuestionValidateExactlyOnePayload(t *testing.T) {
	valid := Question{
		Type: QuestionTypeMCQ,
		MCQ:  &MCQPayload{Options: []string{"a", "b"}, Answer: "a"},
	}
	require.NoError(t, valid.Validate())

	mismatched := Question{
		Type:        QuestionTypeMCQ,
		ShortAnswer: &ShortAnswerPayload{ExpectedAnswer: "a"},
	}
	require.ErrorIs(t, mismatched.Validate(), ErrMalformedQuestion)

	twoPayloads := valid
	twoPayloads.Programming = &ProgrammingPayload{StatementURL: "u", TestCaseURL: "v"}
	require.ErrorIs(t, twoPayloads.Validate(), ErrMalformedQuestion)
}
