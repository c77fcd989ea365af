package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/competa-arena/contest-service/internal/model"
	"github.com/competa-arena/contest-service/internal/repository"
)

// fakeStore is an in-memory ContestStore.
type fakeStore struct {
	contests   map[uuid.UUID]model.Contest
	insertErr  error
	insertions int
}

func newFakeStore() *fakeStore {
	return &fakeStore{contests: make(map[uuid.UUID]model.Contest)}
}

func (f *fakeStore) Insert(_ context.Context, c *model.Contest) error {
	f.insertions++
	if f.insertErr != nil {
		return f.insertErr
	}
	c.ID = uuid.New()
	f.contests[c.ID] = *c
	return nil
}

func (f *fakeStore) FindByID(_ context.Context, id uuid.UUID) (*model.Contest, error) {
	c, ok := f.contests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := c
	return &copied, nil
}

func (f *fakeStore) FindAll(_ context.Context) ([]model.Contest, error) {
	var out []model.Contest
	for _, c := range f.contests {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeStore) FindBySubject(_ context.Context, subject string) ([]model.Contest, error) {
	var out []model.Contest
	for _, c := range f.contests {
		if c.Subject == subject {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByCreator(_ context.Context, userID string) ([]model.Contest, error) {
	var out []model.Contest
	for _, c := range f.contests {
		if c.CreatedBy == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) FindByVisibility(_ context.Context, visibility string) ([]model.Contest, error) {
	var out []model.Contest
	for _, c := range f.contests {
		if c.Visibility == visibility {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, c *model.Contest) error {
	if _, ok := f.contests[c.ID]; !ok {
		return repository.ErrNotFound
	}
	f.contests[c.ID] = *c
	return nil
}

func (f *fakeStore) DeleteByID(_ context.Context, id uuid.UUID) error {
	delete(f.contests, id)
	return nil
}

// fakeBlob records uploads and returns deterministic URLs.
type fakeBlob struct {
	uploads []string // folder of each upload, in call order
	err     error
}

func (f *fakeBlob) Upload(_ context.Context, data []byte, filename, folder string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads = append(f.uploads, folder)
	return fmt.Sprintf("https://files.example.com/%s/%d", folder, len(f.uploads)), nil
}

func newTestService(store *fakeStore, blobs *fakeBlob) *ContestService {
	return NewContestService(store, blobs, zerolog.Nop())
}

func contestRequest(subject string, questions ...model.QuestionRequest) *model.ContestRequest {
	return &model.ContestRequest{
		Title:      "Weekly Challenge",
		Subject:    subject,
		Visibility: model.VisibilityPublic,
		Questions:  questions,
	}
}

func mcqRequest() model.QuestionRequest {
	return model.QuestionRequest{
		Type:    "MCQ",
		Prompt:  "What is 2+2?",
		Options: []string{"A", "B"},
		Answer:  "A",
	}
}

func programmingRequest() model.QuestionRequest {
	return model.QuestionRequest{
		Type:          "PROGRAMMING",
		Prompt:        "Implement FizzBuzz.",
		StatementData: []byte("statement"),
		TestCaseData:  []byte("cases"),
		Languages:     []string{"go"},
	}
}

func TestCreateMapsMCQQuestion(t *testing.T) {
	store := newFakeStore()
	blobs := &fakeBlob{}
	svc := newTestService(store, blobs)

	created, err := svc.Create(context.Background(), contestRequest("ComputerScience", mcqRequest()), "user-1")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "user-1", created.CreatedBy)

	require.Len(t, created.Questions, 1)
	q := created.Questions[0]
	assert.Equal(t, model.QuestionTypeMCQ, q.Type)
	require.NotNil(t, q.MCQ)
	assert.Equal(t, []string{"A", "B"}, q.MCQ.Options)
	assert.Equal(t, "A", q.MCQ.Answer)
	assert.Nil(t, q.ShortAnswer)
	assert.Nil(t, q.Programming)
	assert.Empty(t, blobs.uploads)
}

func TestCreateUploadsProgrammingAttachments(t *testing.T) {
	store := newFakeStore()
	blobs := &fakeBlob{}
	svc := newTestService(store, blobs)

	created, err := svc.Create(context.Background(), contestRequest("ComputerScience", programmingRequest()), "user-1")
	require.NoError(t, err)

	require.Len(t, created.Questions, 1)
	q := created.Questions[0]
	require.NotNil(t, q.Programming)
	assert.Equal(t, "https://files.example.com/contests/programming/1", q.Programming.StatementURL)
	assert.Equal(t, "https://files.example.com/contests/programming/2", q.Programming.TestCaseURL)
	assert.Equal(t, []string{"go"}, q.Programming.Languages)

	// statement uploaded before test cases, both to the fixed folder
	assert.Equal(t, []string{"contests/programming", "contests/programming"}, blobs.uploads)
}

func TestCreateRejectsMathProgrammingBeforeSideEffects(t *testing.T) {
	store := newFakeStore()
	blobs := &fakeBlob{}
	svc := newTestService(store, blobs)

	_, err := svc.Create(context.Background(), contestRequest("Math", programmingRequest()), "user-1")
	require.ErrorIs(t, err, model.ErrSubjectTypeConflict)

	assert.Empty(t, blobs.uploads, "no upload may happen on validation failure")
	assert.Zero(t, store.insertions, "no persistence may happen on validation failure")
}

func TestCreateRejectsMalformedQuestion(t *testing.T) {
	store := newFakeStore()
	blobs := &fakeBlob{}
	svc := newTestService(store, blobs)

	bad := mcqRequest()
	bad.ExpectedAnswer = "stray short-answer field"

	_, err := svc.Create(context.Background(), contestRequest("ComputerScience", bad), "user-1")
	require.ErrorIs(t, err, model.ErrMalformedQuestion)
	assert.Empty(t, blobs.uploads)
	assert.Zero(t, store.insertions)
}

func TestCreateAbortsWhenUploadFails(t *testing.T) {
	store := newFakeStore()
	blobs := &fakeBlob{err: errors.New("blob service down")}
	svc := newTestService(store, blobs)

	_, err := svc.Create(context.Background(), contestRequest("ComputerScience", programmingRequest()), "user-1")
	require.ErrorIs(t, err, ErrUploadFailed)
	assert.Zero(t, store.insertions, "upload failure must abort before persistence")
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeBlob{})

	created, err := svc.Create(context.Background(), contestRequest("Math", mcqRequest()), "user-1")
	require.NoError(t, err)

	fetched, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, fetched)
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeBlob{})

	_, err := svc.GetByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateReplacesFieldsAndKeepsCreator(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeBlob{})

	created, err := svc.Create(context.Background(), contestRequest("Math", mcqRequest()), "original-creator")
	require.NoError(t, err)

	update := contestRequest("ComputerScience", programmingRequest())
	update.Title = "Renamed"
	update.Visibility = model.VisibilityPrivate

	updated, err := svc.Update(context.Background(), created.ID, update)
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "ComputerScience", updated.Subject)
	assert.Equal(t, model.VisibilityPrivate, updated.Visibility)
	assert.Equal(t, "original-creator", updated.CreatedBy, "creator is immutable")
	require.Len(t, updated.Questions, 1)
	assert.Equal(t, model.QuestionTypeProgramming, updated.Questions[0].Type)
}

func TestUpdateUnknownContest(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeBlob{})

	_, err := svc.Update(context.Background(), uuid.New(), contestRequest("Math", mcqRequest()))
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateValidatesBeforeUpload(t *testing.T) {
	store := newFakeStore()
	blobs := &fakeBlob{}
	svc := newTestService(store, blobs)

	created, err := svc.Create(context.Background(), contestRequest("ComputerScience", mcqRequest()), "user-1")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), created.ID, contestRequest("Physics", programmingRequest()))
	require.ErrorIs(t, err, model.ErrSubjectTypeConflict)
	assert.Empty(t, blobs.uploads)

	// stored contest unchanged
	fetched, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ComputerScience", fetched.Subject)
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeBlob{})

	created, err := svc.Create(context.Background(), contestRequest("Math", mcqRequest()), "user-1")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	require.NoError(t, svc.Delete(context.Background(), created.ID), "deleting an absent contest is not an error")
	require.NoError(t, svc.Delete(context.Background(), uuid.New()))
}

func TestGetAllEmptyIsNotNil(t *testing.T) {
	svc := newTestService(newFakeStore(), &fakeBlob{})

	contests, err := svc.GetAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, contests)
	assert.Empty(t, contests)
}

func TestSecondaryLookups(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, &fakeBlob{})

	_, err := svc.Create(context.Background(), contestRequest("Math", mcqRequest()), "alice")
	require.NoError(t, err)

	private := contestRequest("Physics", mcqRequest())
	private.Visibility = model.VisibilityPrivate
	_, err = svc.Create(context.Background(), private, "bob")
	require.NoError(t, err)

	bySubject, err := svc.GetBySubject(context.Background(), "Math")
	require.NoError(t, err)
	require.Len(t, bySubject, 1)
	assert.Equal(t, "alice", bySubject[0].CreatedBy)

	byCreator, err := svc.GetByCreator(context.Background(), "bob")
	require.NoError(t, err)
	require.Len(t, byCreator, 1)
	assert.Equal(t, "Physics", byCreator[0].Subject)

	byVisibility, err := svc.GetByVisibility(context.Background(), model.VisibilityPrivate)
	require.NoError(t, err)
	require.Len(t, byVisibility, 1)
}
