package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/campushub/college-api/pkg/errors"
)

func TestGradeThresholds(t *testing.T) {
	cases := []struct {
		marks float64
		total float64
		pct   float64
		grade string
	}{
		{95, 100, 95, "A+"},
		{90, 100, 90, "A+"},
		{85, 100, 85, "A"},
		{80, 100, 80, "A"},
		{75, 100, 75, "B+"},
		{70, 100, 70, "B+"},
		{65, 100, 65, "B"},
		{60, 100, 60, "B"},
		{55, 100, 55, "C"},
		{50, 100, 50, "C"},
		{45, 100, 45, "D"},
		{40, 100, 40, "D"},
		{39.999, 100, 39.999, "F"},
		{0, 100, 0, "F"},
		{17, 20, 85, "A"},
		{100, 100, 100, "A+"},
	}
	for _, tc := range cases {
		score, err := Grade(tc.marks, tc.total)
		require.NoError(t, err)
		assert.InDelta(t, tc.pct, score.Percentage, 1e-9, "marks %v/%v", tc.marks, tc.total)
		assert.Equal(t, tc.grade, score.Grade, "marks %v/%v", tc.marks, tc.total)
	}
}

func TestGradeBucketsAreExclusive(t *testing.T) {
	// every percentage lands in exactly one bucket, boundaries included
	for pct := 0.0; pct <= 100.0; pct += 0.5 {
		letter := Letter(pct)
		assert.Contains(t, []string{"A+", "A", "B+", "B", "C", "D", "F"}, letter)
	}
	assert.Equal(t, "A+", Letter(90))
	assert.Equal(t, "A", Letter(89.999))
}

func TestGradeInvalidTotal(t *testing.T) {
	for _, total := range []float64{0, -1, -100} {
		_, err := Grade(50, total)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestGradeNegativeMarks(t *testing.T) {
	_, err := Grade(-1, 100)
	require.Error(t, err)
}

func TestCGPA(t *testing.T) {
	assert.InDelta(t, 10, CGPA(95), 1e-9)
	assert.InDelta(t, 8.947368421052632, CGPA(85), 1e-9)
	assert.Zero(t, CGPA(-5))
}
