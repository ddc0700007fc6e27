// Package grading converts raw marks into percentages and letter grades.
package grading

import (
	appErrors "github.com/campushub/college-api/pkg/errors"
)

// Score is the outcome of grading one test.
type Score struct {
	Percentage float64
	Grade      string
}

// thresholds are evaluated highest-first; the lower bound is inclusive.
var thresholds = []struct {
	min   float64
	grade string
}{
	{90, "A+"},
	{80, "A"},
	{70, "B+"},
	{60, "B"},
	{50, "C"},
	{40, "D"},
}

// Grade derives the percentage and letter grade for marks out of total.
// total must be positive; zero or negative totals are a caller contract
// violation and never reach the division.
func Grade(marks, total float64) (Score, error) {
	if total <= 0 {
		return Score{}, appErrors.Clone(appErrors.ErrValidation, "total marks must be positive")
	}
	if marks < 0 {
		return Score{}, appErrors.Clone(appErrors.ErrValidation, "marks obtained must not be negative")
	}
	pct := marks / total * 100
	return Score{Percentage: pct, Grade: Letter(pct)}, nil
}

// Letter maps a percentage to its letter grade.
func Letter(pct float64) string {
	for _, t := range thresholds {
		if pct >= t.min {
			return t.grade
		}
	}
	return "F"
}

// CGPA converts a percentage to a 10-point grade average. Standard
// university conversion: percentage divided by 9.5, capped at 10.
func CGPA(pct float64) float64 {
	cgpa := pct / 9.5
	if cgpa > 10 {
		cgpa = 10
	}
	if cgpa < 0 {
		cgpa = 0
	}
	return cgpa
}
