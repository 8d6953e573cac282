// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the wire format for record timestamps.
const TimestampLayout = "2006-01-02 15:04:05"

// Familiarity is the self-reported familiarity with similar tools.
type Familiarity string

// Familiarity levels offered on the demographic form.
const (
	FamiliarityNot      Familiarity = "Not Familiar"
	FamiliaritySomewhat Familiarity = "Somewhat Familiar"
	FamiliarityVery     Familiarity = "Very Familiar"
)

// Familiarities returns all levels in display order.
func Familiarities() []Familiarity {
	return []Familiarity{FamiliarityNot, FamiliaritySomewhat, FamiliarityVery}
}

// ParseFamiliarity validates a stored or entered familiarity value.
func ParseFamiliarity(s string) (Familiarity, error) {
	for _, f := range Familiarities() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown familiarity %q", s)
}

// Outcome records whether a task attempt succeeded.
type Outcome string

// Task outcomes offered on the task form.
const (
	OutcomeNo      Outcome = "No"
	OutcomeYes     Outcome = "Yes"
	OutcomePartial Outcome = "Partial"
)

// Outcomes returns all outcomes in display order.
func Outcomes() []Outcome {
	return []Outcome{OutcomeNo, OutcomeYes, OutcomePartial}
}

// ParseOutcome validates a stored or entered outcome value.
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range Outcomes() {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown outcome %q", s)
}

// TaskNames returns the fixed set of tasks offered to participants.
func TaskNames() []string {
	return []string{
		"Task 1: Wait for User Input",
		"Task 2: Process Data",
		"Task 3: Save to Database",
		"Task 4: Fetch Data from API",
		"Task 5: Execute a Scheduled Task",
		"Task 6: Log System Events",
		"Task 7: Retry on Failure",
		"Task 8: Trigger Alert on Timeout",
		"Task 9: Cache Expiry",
		"Task 10: Generate Report",
	}
}

// ConsentRecord stores one consent-form submission.
type ConsentRecord struct {
	Timestamp    time.Time
	ConsentGiven bool
}

// Validate rejects submissions without agreement.
func (r ConsentRecord) Validate() error {
	if !r.ConsentGiven {
		return fmt.Errorf("you must agree to the consent terms before proceeding")
	}
	return nil
}

// DemographicRecord stores one demographic-questionnaire submission.
type DemographicRecord struct {
	Timestamp   time.Time
	Name        string
	Age         int
	Occupation  string
	Familiarity Familiarity
}

// Validate checks field ranges. Name is optional.
func (r DemographicRecord) Validate() error {
	if r.Age < 0 || r.Age > 100 {
		return fmt.Errorf("age must be between 0 and 100")
	}
	if strings.TrimSpace(r.Occupation) == "" {
		return fmt.Errorf("occupation must not be empty")
	}
	if _, err := ParseFamiliarity(string(r.Familiarity)); err != nil {
		return fmt.Errorf("familiarity must be selected")
	}
	return nil
}

// TaskRecord stores one task attempt. DurationSeconds is nil when the
// timer was never run for the attempt.
type TaskRecord struct {
	Timestamp       time.Time
	TaskName        string
	Outcome         Outcome
	DurationSeconds *float64
	Notes           string
}

// Validate checks that a task and an outcome were selected.
func (r TaskRecord) Validate() error {
	if strings.TrimSpace(r.TaskName) == "" {
		return fmt.Errorf("a task must be selected")
	}
	if _, err := ParseOutcome(string(r.Outcome)); err != nil {
		return fmt.Errorf("a success status must be selected before saving")
	}
	return nil
}

// ExitRecord stores one exit-questionnaire submission.
type ExitRecord struct {
	Timestamp    time.Time
	Satisfaction int
	Difficulty   int
	OpenFeedback string
}

// Validate checks the 1-5 rating scales.
func (r ExitRecord) Validate() error {
	if r.Satisfaction < 1 || r.Satisfaction > 5 {
		return fmt.Errorf("satisfaction must be between 1 and 5")
	}
	if r.Difficulty < 1 || r.Difficulty > 5 {
		return fmt.Errorf("difficulty must be between 1 and 5")
	}
	return nil
}
