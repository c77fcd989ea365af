package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/competa-arena/contest-service/internal/model"
)

// ErrNotFound is returned when no contest exists for the given identifier.
var ErrNotFound = errors.New("contest not found")

const contestColumns = `id, title, subject, visibility, created_by, questions, start_time, end_time, created_at, updated_at`

// ContestRepository persists contests in PostgreSQL. The question
// sequence is stored as a JSONB document alongside the contest row.
type ContestRepository struct {
	pool *pgxpool.Pool
}

// NewContestRepository creates a new ContestRepository.
func NewContestRepository(pool *pgxpool.Pool) *ContestRepository {
	return &ContestRepository{pool: pool}
}

// Insert stores a new contest and assigns its identifier and timestamps.
func (r *ContestRepository) Insert(ctx context.Context, contest *model.Contest) error {
	questions, err := json.Marshal(contest.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO contests (title, subject, visibility, created_by, questions, start_time, end_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at, updated_at`,
		contest.Title, contest.Subject, contest.Visibility, contest.CreatedBy,
		questions, contest.StartTime, contest.EndTime,
	).Scan(&contest.ID, &contest.CreatedAt, &contest.UpdatedAt)
}

// FindByID retrieves a contest by its identifier.
func (r *ContestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Contest, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+contestColumns+` FROM contests WHERE id = $1`, id)

	contest, err := scanContest(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return contest, nil
}

// FindAll retrieves every contest, newest first.
func (r *ContestRepository) FindAll(ctx context.Context) ([]model.Contest, error) {
	return r.query(ctx, `SELECT `+contestColumns+` FROM contests ORDER BY created_at DESC`)
}

// FindBySubject retrieves all contests for a specific subject.
func (r *ContestRepository) FindBySubject(ctx context.Context, subject string) ([]model.Contest, error) {
	return r.query(ctx,
		`SELECT `+contestColumns+` FROM contests WHERE subject = $1 ORDER BY created_at DESC`, subject)
}

// FindByCreator retrieves all contests created by a specific user.
func (r *ContestRepository) FindByCreator(ctx context.Context, userID string) ([]model.Contest, error) {
	return r.query(ctx,
		`SELECT `+contestColumns+` FROM contests WHERE created_by = $1 ORDER BY created_at DESC`, userID)
}

// FindByVisibility retrieves all contests with the given visibility.
func (r *ContestRepository) FindByVisibility(ctx context.Context, visibility string) ([]model.Contest, error) {
	return r.query(ctx,
		`SELECT `+contestColumns+` FROM contests WHERE visibility = $1 ORDER BY created_at DESC`, visibility)
}

// Update replaces a contest's mutable fields. The creator column is
// never written after insertion.
func (r *ContestRepository) Update(ctx context.Context, contest *model.Contest) error {
	questions, err := json.Marshal(contest.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE contests
		 SET title = $1, subject = $2, visibility = $3, questions = $4,
		     start_time = $5, end_time = $6, updated_at = NOW()
		 WHERE id = $7`,
		contest.Title, contest.Subject, contest.Visibility, questions,
		contest.StartTime, contest.EndTime, contest.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes a contest. Deleting an absent contest is not an
// error, matching the underlying store's idempotent delete semantics.
func (r *ContestRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM contests WHERE id = $1`, id)
	return err
}

func (r *ContestRepository) query(ctx context.Context, sql string, args ...interface{}) ([]model.Contest, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contests []model.Contest
	for rows.Next() {
		contest, err := scanContest(rows)
		if err != nil {
			return nil, err
		}
		contests = append(contests, *contest)
	}
	return contests, rows.Err()
}

func scanContest(row pgx.Row) (*model.Contest, error) {
	c := &model.Contest{}
	var questions []byte

	if err := row.Scan(&c.ID, &c.Title, &c.Subject, &c.Visibility, &c.CreatedBy,
		&questions, &c.StartTime, &c.EndTime, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &c.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return c, nil
}
