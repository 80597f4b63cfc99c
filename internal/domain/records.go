// Package domain defines the business logic for the exercise tracker.
package domain

import (
	"errors"
	"time"
)

// ErrUserNotFound is returned when the referenced user id does not exist.
var ErrUserNotFound = errors.New("user not found")

// User is an identity record with a generated id and a display username.
type User struct {
	ID       string
	Username string
}

// Exercise is a timed activity entry owned by exactly one user.
type Exercise struct {
	ID          string
	UserID      string
	Description string
	DurationMin int
	Date        time.Time
}

// LogFilter restricts a log query. From and To are inclusive calendar-date
// bounds, each optional. Limit caps the result set when positive; zero or
// negative means unlimited.
type LogFilter struct {
	From  *time.Time
	To    *time.Time
	Limit int
}
