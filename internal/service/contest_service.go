package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/competa-arena/contest-service/internal/client"
	"github.com/competa-arena/contest-service/internal/model"
)

// programmingFolder is the fixed destination for programming-question
// artifacts in blob storage.
const programmingFolder = "contests/programming"

// ErrUploadFailed wraps blob service failures so handlers can map them
// to a distinct status.
var ErrUploadFailed = errors.New("attachment upload failed")

// ContestStore is the persistence contract the service depends on.
// DeleteByID must be idempotent.
type ContestStore interface {
	Insert(ctx context.Context, contest *model.Contest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contest, error)
	FindAll(ctx context.Context) ([]model.Contest, error)
	FindBySubject(ctx context.Context, subject string) ([]model.Contest, error)
	FindByCreator(ctx context.Context, userID string) ([]model.Contest, error)
	FindByVisibility(ctx context.Context, visibility string) ([]model.Contest, error)
	Update(ctx context.Context, contest *model.Contest) error
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// ContestService composes validation, attachment upload and persistence
// into the contest CRUD operations.
type ContestService struct {
	store ContestStore
	blobs client.BlobUploader
	log   zerolog.Logger
}

// NewContestService creates a new ContestService.
func NewContestService(store ContestStore, blobs client.BlobUploader, log zerolog.Logger) *ContestService {
	return &ContestService{
		store: store,
		blobs: blobs,
		log:   log.With().Str("component", "contest_service").Logger(),
	}
}

// Create validates the submission, maps and uploads its questions, and
// persists a new contest owned by createdBy.
func (s *ContestService) Create(ctx context.Context, req *model.ContestRequest, createdBy string) (*model.Contest, error) {
	if err := validateSubmission(req); err != nil {
		return nil, err
	}

	questions, err := s.mapQuestions(ctx, req.Questions)
	if err != nil {
		return nil, err
	}

	contest := &model.Contest{
		Title:      req.Title,
		Subject:    req.Subject,
		Visibility: req.Visibility,
		CreatedBy:  createdBy,
		Questions:  questions,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	}

	if err := s.store.Insert(ctx, contest); err != nil {
		// Attachments uploaded above are not rolled back.
		s.log.Error().Err(err).Msg("Contest insert failed")
		return nil, fmt.Errorf("insert contest: %w", err)
	}

	s.log.Info().Str("contest_id", contest.ID.String()).Str("created_by", createdBy).
		Msg("Contest created")
	return contest, nil
}

// GetAll returns every persisted contest.
func (s *ContestService) GetAll(ctx context.Context) ([]model.Contest, error) {
	contests, err := s.store.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if contests == nil {
		contests = []model.Contest{}
	}
	return contests, nil
}

// GetBySubject returns all contests for a subject.
func (s *ContestService) GetBySubject(ctx context.Context, subject string) ([]model.Contest, error) {
	contests, err := s.store.FindBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	if contests == nil {
		contests = []model.Contest{}
	}
	return contests, nil
}

// GetByCreator returns all contests created by a user.
func (s *ContestService) GetByCreator(ctx context.Context, userID string) ([]model.Contest, error) {
	contests, err := s.store.FindByCreator(ctx, userID)
	if err != nil {
		return nil, err
	}
	if contests == nil {
		contests = []model.Contest{}
	}
	return contests, nil
}

// GetByVisibility returns all contests with the given visibility.
func (s *ContestService) GetByVisibility(ctx context.Context, visibility string) ([]model.Contest, error) {
	contests, err := s.store.FindByVisibility(ctx, visibility)
	if err != nil {
		return nil, err
	}
	if contests == nil {
		contests = []model.Contest{}
	}
	return contests, nil
}

// GetByID returns the contest with the given identifier.
func (s *ContestService) GetByID(ctx context.Context, id uuid.UUID) (*model.Contest, error) {
	return s.store.FindByID(ctx, id)
}

// Update replaces an existing contest's title, subject, visibility,
// questions and time window wholesale. The creator is never altered.
func (s *ContestService) Update(ctx context.Context, id uuid.UUID, req *model.ContestRequest) (*model.Contest, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateSubmission(req); err != nil {
		return nil, err
	}

	questions, err := s.mapQuestions(ctx, req.Questions)
	if err != nil {
		return nil, err
	}

	existing.Title = req.Title
	existing.Subject = req.Subject
	existing.Visibility = req.Visibility
	existing.Questions = questions
	existing.StartTime = req.StartTime
	existing.EndTime = req.EndTime

	if err := s.store.Update(ctx, existing); err != nil {
		// Attachments uploaded above are not rolled back.
		s.log.Error().Err(err).Str("contest_id", id.String()).Msg("Contest update failed")
		return nil, err
	}

	s.log.Info().Str("contest_id", id.String()).Msg("Contest updated")
	return existing, nil
}

// Delete removes a contest. Deleting an unknown identifier is not an
// error, per the store's idempotent delete semantics.
func (s *ContestService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("contest_id", id.String()).Msg("Contest deleted")
	return nil
}

// validateSubmission runs all checks that must pass before any upload
// or persistence side effect: per-question variant well-formedness and
// the subject/question-type compatibility rule.
func validateSubmission(req *model.ContestRequest) error {
	for i, q := range req.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return req.Validate()
}

// mapQuestions converts submissions into persisted questions. For
// programming questions the statement payload is uploaded first, then
// the test-case payload, before the question joins the sequence. Any
// upload failure aborts the whole operation.
func (s *ContestService) mapQuestions(ctx context.Context, reqs []model.QuestionRequest) ([]model.Question, error) {
	questions := make([]model.Question, 0, len(reqs))

	for i, req := range reqs {
		q := model.Question{
			Prompt: req.Prompt,
		}

		switch {
		case req.IsProgramming():
			q.Type = model.QuestionTypeProgramming

			statementURL, err := s.blobs.Upload(ctx, req.StatementData, uuid.New().String()+".pdf", programmingFolder)
			if err != nil {
				return nil, fmt.Errorf("%w: question %d statement: %v", ErrUploadFailed, i, err)
			}
			testCaseURL, err := s.blobs.Upload(ctx, req.TestCaseData, uuid.New().String()+".txt", programmingFolder)
			if err != nil {
				return nil, fmt.Errorf("%w: question %d test cases: %v", ErrUploadFailed, i, err)
			}

			q.Programming = &model.ProgrammingPayload{
				StatementURL: statementURL,
				TestCaseURL:  testCaseURL,
				Languages:    req.Languages,
			}
		case strings.EqualFold(req.Type, string(model.QuestionTypeMCQ)):
			q.Type = model.QuestionTypeMCQ
			q.MCQ = &model.MCQPayload{
				Options: req.Options,
				Answer:  req.Answer,
			}
		default:
			// SHORT_ANSWER; guaranteed by validateSubmission.
			q.Type = model.QuestionTypeShortAnswer
			q.ShortAnswer = &model.ShortAnswerPayload{
				ExpectedAnswer: req.ExpectedAnswer,
			}
		}

		questions = append(questions, q)
	}

	return questions, nil
}
