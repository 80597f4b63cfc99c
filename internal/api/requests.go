package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"example.com/tracker/internal/domain"
)

// dateLayout is the wire format for caller-supplied dates. RFC 3339
// timestamps are accepted as a fallback; only the calendar date is kept.
const dateLayout = "2006-01-02"

// displayLayout renders dates as day-name month day year, e.g. "Mon Jan 01 2024".
const displayLayout = "Mon Jan 02 2006"

// field is a request value that may arrive as a JSON string, a JSON number,
// or URL-encoded form text. Forms always deliver text, so coercion to typed
// values happens in validate, not during decoding.
type field string

func (f *field) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = field(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = field(n.String())
	return nil
}

type formDecodable interface {
	fromForm(url.Values)
}

// decodeBody fills dst from a JSON body or an URL-encoded form, depending on
// the request's Content-Type.
func decodeBody(r *http.Request, dst formDecodable) error {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		return json.NewDecoder(r.Body).Decode(dst)
	}
	if err := r.ParseForm(); err != nil {
		return err
	}
	dst.fromForm(r.PostForm)
	return nil
}

// createUserRequest is the payload for POST /api/users. Any username is
// accepted, including an empty one.
type createUserRequest struct {
	Username field `json:"username"`
}

func (r *createUserRequest) fromForm(values url.Values) {
	r.Username = field(values.Get("username"))
}

// addExerciseRequest is the payload for POST /api/users/{_id}/exercises.
type addExerciseRequest struct {
	Description field `json:"description"`
	Duration    field `json:"duration"`
	Date        field `json:"date"`
}

func (r *addExerciseRequest) fromForm(values url.Values) {
	r.Description = field(values.Get("description"))
	r.Duration = field(values.Get("duration"))
	r.Date = field(values.Get("date"))
}

// validate coerces the raw fields into typed values. The user id is filled in
// by the caller from the URL path.
func (r addExerciseRequest) validate() (domain.AddExerciseInput, error) {
	var input domain.AddExerciseInput

	description := strings.TrimSpace(string(r.Description))
	if description == "" {
		return input, errors.New("description is required")
	}

	duration, err := strconv.Atoi(strings.TrimSpace(string(r.Duration)))
	if err != nil || duration < 1 {
		return input, errors.New("duration must be a positive integer")
	}

	if raw := strings.TrimSpace(string(r.Date)); raw != "" {
		date, err := parseDate(raw)
		if err != nil {
			return input, errors.New("invalid date")
		}
		input.Date = date
	}

	input.Description = description
	input.DurationMin = duration
	return input, nil
}

// parseDate interprets caller-supplied text as a UTC calendar date.
func parseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, err
		}
	}
	parsed = parsed.UTC()
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}

// formatDate renders a stored date for responses.
func formatDate(t time.Time) string {
	return t.UTC().Format(displayLayout)
}
