package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository captures persistence operations for user records.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	Get(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
}

// ExerciseRepository captures persistence operations for exercise records.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise Exercise) error
	ListByUser(ctx context.Context, userID string, filter LogFilter) ([]Exercise, error)
}

// Service orchestrates user registration and exercise logging.
type Service struct {
	users     UserRepository
	exercises ExerciseRepository
}

// NewService constructs a Service.
func NewService(users UserRepository, exercises ExerciseRepository) *Service {
	return &Service{users: users, exercises: exercises}
}

// CreateUser registers a new user. Any username is accepted, including an
// empty one; uniqueness is not enforced.
func (s *Service) CreateUser(ctx context.Context, username string) (*User, error) {
	user := User{
		ID:       uuid.NewString(),
		Username: username,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListUsers returns all users in insertion order.
func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.users.List(ctx)
}

// AddExerciseInput captures the payload from the API layer. A zero Date means
// "today".
type AddExerciseInput struct {
	UserID      string
	Description string
	DurationMin int
	Date        time.Time
}

// AddExercise verifies the referenced user exists, then persists a new
// exercise linked to it. The owning user is returned alongside the exercise
// so callers can build the composite response view.
func (s *Service) AddExercise(ctx context.Context, input AddExerciseInput) (*User, *Exercise, error) {
	user, err := s.users.Get(ctx, input.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	date := input.Date
	if date.IsZero() {
		now := time.Now().UTC()
		date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	exercise := Exercise{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		Description: input.Description,
		DurationMin: input.DurationMin,
		Date:        date,
	}
	if err := s.exercises.Create(ctx, exercise); err != nil {
		return nil, nil, err
	}
	return user, &exercise, nil
}

// GetLog returns the user's exercises filtered by the supplied bounds and
// limit, in insertion order.
func (s *Service) GetLog(ctx context.Context, userID string, filter LogFilter) (*User, []Exercise, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}

	exercises, err := s.exercises.ListByUser(ctx, user.ID, filter)
	if err != nil {
		return nil, nil, err
	}
	return user, exercises, nil
}
