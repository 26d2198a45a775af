package repository

import (
	"context"
	"fmt"

	"github.com/aeroprep/questionbank/internal/domain/entities"
	"github.com/aeroprep/questionbank/internal/infra/postgres"
)

// QuestionRepository provides access to the question bank table.
type QuestionRepository struct {
	db postgres.DBTX
}

// NewQuestionRepository creates a new QuestionRepository over the
// provided pool or transaction.
func NewQuestionRepository(db postgres.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// GetActive returns every active question, oldest first.
func (r *QuestionRepository) GetActive(ctx context.Context) ([]entities.Question, error) {
	query := `
		SELECT id, question, options, correct_answer,
		       COALESCE(explanation, ''), aircraft_type, category,
		       difficulty, is_active, creation_time, COALESCE(reference, '')
		FROM questions
		WHERE is_active = true
		ORDER BY creation_time
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get active questions: %w", err)
	}
	defer rows.Close()

	var questions []entities.Question
	for rows.Next() {
		var q entities.Question
		if err := rows.Scan(
			&q.ID,
			&q.Question,
			&q.Options,
			&q.CorrectAnswer,
			&q.Explanation,
			&q.AircraftType,
			&q.Category,
			&q.Difficulty,
			&q.IsActive,
			&q.CreationTime,
			&q.Reference,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}

	return questions, nil
}

// CountByAircraft returns the number of questions per aircraft tag.
func (r *QuestionRepository) CountByAircraft(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT aircraft_type, COUNT(*)
		FROM questions
		GROUP BY aircraft_type
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count by aircraft: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var tag string
		var n int
		if err := rows.Scan(&tag, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[tag] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}

	return counts, nil
}

// DeleteAll empties the question bank table. Meant to run inside a
// transaction together with InsertMany when replacing the pool.
func (r *QuestionRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM questions`); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}

// InsertMany inserts the given questions.
func (r *QuestionRepository) InsertMany(ctx context.Context, questions []entities.Question) error {
	query := `
		INSERT INTO questions (
			id, question, options, correct_answer, explanation,
			aircraft_type, category, difficulty, is_active,
			creation_time, reference
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for _, q := range questions {
		if _, err := r.db.Exec(
			ctx,
			query,
			q.ID,
			q.Question,
			q.Options,
			q.CorrectAnswer,
			q.Explanation,
			q.AircraftType,
			q.Category,
			q.Difficulty,
			q.IsActive,
			q.CreationTime,
			q.Reference,
		); err != nil {
			return fmt.Errorf("insert question %s: %w", q.ID, err)
		}
	}

	return nil
}
