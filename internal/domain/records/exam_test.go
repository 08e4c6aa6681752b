package records

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExamType(t *testing.T) {
	et, err := ParseExamType("exam")
	require.NoError(t, err)
	assert.Equal(t, ExamTypeExam, et)

	et, err = ParseExamType(" Credit ")
	require.NoError(t, err)
	assert.Equal(t, ExamTypeCredit, et)

	_, err = ParseExamType("quiz")
	assert.ErrorIs(t, err, ErrUnknownExamType)
}

func TestExamType_DisplayRu(t *testing.T) {
	assert.Equal(t, "Экзамен", ExamTypeExam.DisplayRu())
	assert.Equal(t, "Зачёт", ExamTypeCredit.DisplayRu())
}

func TestExam_Date(t *testing.T) {
	exam := Exam{HoldingDate: "2026-01-15"}
	date, err := exam.Date()
	require.NoError(t, err)
	assert.Equal(t, 2026, date.Year())
	assert.Equal(t, time.January, date.Month())
	assert.Equal(t, 15, date.Day())

	exam.HoldingDate = "15.01.2026"
	_, err = exam.Date()
	assert.Error(t, err)
}
