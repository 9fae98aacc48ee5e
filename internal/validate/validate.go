// Package validate holds the synchronous form validation rules. Validation
// is field-scoped and runs before anything touches the network; a payload
// that fails here never reaches the API layer.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of validating one field. All unmet rules for the
// field are collected in Messages, not short-circuited on the first failure.
type Result struct {
	Valid    bool
	Messages []string
}

func invalid(messages ...string) Result {
	return Result{Valid: false, Messages: messages}
}

var valid = Result{Valid: true}

var emailPattern = regexp.MustCompile(`^[\w.-]+@([\w-]+\.)+[\w-]{2,4}$`)

// Email requires a non-empty address in conventional local@domain.tld form.
func Email(email string) Result {
	if strings.TrimSpace(email) == "" {
		return invalid("Email is required.")
	}
	if !emailPattern.MatchString(email) {
		return invalid("Email does not respect the correct format.")
	}
	return valid
}

var (
	hasUpperCase = regexp.MustCompile(`[A-Z]`)
	hasLowerCase = regexp.MustCompile(`[a-z]`)
	hasNumber    = regexp.MustCompile(`\d`)
	hasSpecial   = regexp.MustCompile(`[@$!%*?&]`)
)

// Password enforces the five password rules and reports every unmet one.
// A password is valid exactly when zero rules are violated.
func Password(password string) Result {
	var errs []string

	if len(strings.TrimSpace(password)) < 8 {
		errs = append(errs, "Password must be at least 8 characters long.")
	}
	if !hasUpperCase.MatchString(password) {
		errs = append(errs, "Password must contain at least one uppercase letter.")
	}
	if !hasLowerCase.MatchString(password) {
		errs = append(errs, "Password must have at least one lowercase letter.")
	}
	if !hasNumber.MatchString(password) {
		errs = append(errs, "Password must have at least one number.")
	}
	if !hasSpecial.MatchString(password) {
		errs = append(errs, "Password must have at least one special character.")
	}

	if len(errs) > 0 {
		return Result{Valid: false, Messages: errs}
	}
	return valid
}

// Name requires a non-empty name after trimming.
func Name(name string) Result {
	if strings.TrimSpace(name) == "" {
		return invalid("Name is required.")
	}
	return valid
}

// PlateNumber requires a non-empty plate number after trimming.
func PlateNumber(plateNumber string) Result {
	if strings.TrimSpace(plateNumber) == "" {
		return invalid("Plate number is required.")
	}
	return valid
}

// Make requires a non-empty manufacturer after trimming.
func Make(make string) Result {
	if strings.TrimSpace(make) == "" {
		return invalid("Make (manufacturer) is required.")
	}
	return valid
}

// Model requires a non-empty model after trimming.
func Model(model string) Result {
	if strings.TrimSpace(model) == "" {
		return invalid("Model is required.")
	}
	return valid
}

// Year requires an integer between 1900 and next year inclusive.
func Year(year string) Result {
	raw := strings.TrimSpace(year)
	if raw == "" {
		return invalid("Year is required.")
	}
	y, err := strconv.Atoi(raw)
	if err != nil {
		return invalid("Year must be a number.")
	}
	maxYear := time.Now().Year() + 1
	if y < 1900 || y > maxYear {
		return invalid("Year must be between 1900 and " + strconv.Itoa(maxYear) + ".")
	}
	return valid
}

// Capacity requires a positive integer.
func Capacity(capacity string) Result {
	raw := strings.TrimSpace(capacity)
	if raw == "" {
		return invalid("Capacity is required.")
	}
	c, err := strconv.Atoi(raw)
	if err != nil {
		return invalid("Capacity must be a number.")
	}
	if c <= 0 {
		return invalid("Capacity must be greater than 0.")
	}
	return valid
}

// FieldErrors maps field name to the messages of every unmet rule.
// Empty means the form passed.
type FieldErrors map[string][]string

// Add records a field's result if it failed.
func (f FieldErrors) Add(field string, r Result) {
	if !r.Valid {
		f[field] = append(f[field], r.Messages...)
	}
}

// Error renders the collected messages, one field per line.
func (f FieldErrors) Error() string {
	var b strings.Builder
	for field, msgs := range f {
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(strings.Join(msgs, " "))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
