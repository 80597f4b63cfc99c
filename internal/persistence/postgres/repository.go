// Package postgres provides pgx-backed persistence for users, exercises, and
// outbox events.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/tracker/internal/domain"
	"example.com/tracker/internal/events"
	"example.com/tracker/internal/observability"
)

// UserRepository persists user records.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs a UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create persists the user and records a user.registered outbox event inside
// a single transaction.
func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO users (user_id, username) VALUES ($1, $2)`,
		user.ID, user.Username,
	)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err = insertOutbox(ctx, tx, outboxEntry{
		AggregateType: "user",
		AggregateID:   user.ID,
		EventType:     "user.registered",
		PartitionKey:  user.ID,
		Payload: events.UserRegistered{
			UserID:     user.ID,
			Username:   user.Username,
			OccurredAt: now,
		},
	}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}
	observability.RecordUserRegistered(now)
	return nil
}

// Get retrieves a user by id. A missing row yields (nil, nil).
func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT user_id, username FROM users WHERE user_id = $1`, id)

	var user domain.User
	if err := row.Scan(&user.ID, &user.Username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// List returns all users in insertion order.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, username FROM users ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.Username); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// ExerciseRepository persists exercise records.
type ExerciseRepository struct {
	pool *pgxpool.Pool
}

// NewExerciseRepository constructs an ExerciseRepository.
func NewExerciseRepository(pool *pgxpool.Pool) *ExerciseRepository {
	return &ExerciseRepository{pool: pool}
}

// Create persists the exercise and records an exercise.logged outbox event
// inside a single transaction.
func (r *ExerciseRepository) Create(ctx context.Context, exercise domain.Exercise) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO exercises (exercise_id, user_id, description, duration_min, logged_on)
		VALUES ($1, $2, $3, $4, $5)`,
		exercise.ID, exercise.UserID, exercise.Description, exercise.DurationMin, exercise.Date,
	)
	if err != nil {
		return err
	}

	if err = insertOutbox(ctx, tx, outboxEntry{
		AggregateType: "exercise",
		AggregateID:   exercise.ID,
		EventType:     "exercise.logged",
		PartitionKey:  exercise.UserID,
		Payload: events.ExerciseLogged{
			ExerciseID:  exercise.ID,
			UserID:      exercise.UserID,
			Description: exercise.Description,
			DurationMin: exercise.DurationMin,
			Date:        exercise.Date,
		},
	}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}
	observability.RecordExerciseLogged(time.Now().UTC())
	return nil
}

// ListByUser returns the user's exercises in insertion order, restricted by
// the filter's inclusive date bounds and capped by its limit when positive.
func (r *ExerciseRepository) ListByUser(ctx context.Context, userID string, filter domain.LogFilter) ([]domain.Exercise, error) {
	query := `SELECT exercise_id, user_id, description, duration_min, logged_on
		FROM exercises WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(` AND logged_on >= $%d`, len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(` AND logged_on <= $%d`, len(args))
	}

	query += ` ORDER BY seq`

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := make([]domain.Exercise, 0)
	for rows.Next() {
		var exercise domain.Exercise
		if err := rows.Scan(&exercise.ID, &exercise.UserID, &exercise.Description, &exercise.DurationMin, &exercise.Date); err != nil {
			return nil, err
		}
		// DATE columns can scan with a driver-local zone attached;
		// normalise to midnight UTC so bounds and formatting stay stable.
		y, m, d := exercise.Date.Date()
		exercise.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		exercises = append(exercises, exercise)
	}
	return exercises, rows.Err()
}

type outboxEntry struct {
	AggregateType string
	AggregateID   string
	EventType     string
	PartitionKey  string
	Payload       interface{}
}

var eventTopics = map[string]string{
	"user.registered": "tracker_user_events",
	"exercise.logged": "tracker_exercise_events",
}

func insertOutbox(ctx context.Context, tx pgx.Tx, entry outboxEntry) error {
	body, err := json.Marshal(entry.Payload)
	if err != nil {
		return err
	}

	topic, ok := eventTopics[entry.EventType]
	if !ok {
		return fmt.Errorf("unknown event type: %s", entry.EventType)
	}

	dedupeKey := fmt.Sprintf("%s:%s", entry.AggregateID, entry.EventType)

	const stmt = `INSERT INTO outbox (aggregate_type, aggregate_id, event_type, topic, partition_key, payload, dedupe_key)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`

	_, err = tx.Exec(ctx, stmt,
		entry.AggregateType,
		entry.AggregateID,
		entry.EventType,
		topic,
		entry.PartitionKey,
		body,
		dedupeKey,
	)
	return err
}
