package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roy42022p/Backend/internal/domain/records"
	"github.com/Roy42022p/Backend/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// FAKES
// ══════════════════════════════════════════════════════════════════════════════

type markKey struct {
	studentID int64
	examID    int64
}

type fakeMarkRepo struct {
	marks   map[markKey]*records.Mark
	upserts int
}

func newFakeMarkRepo() *fakeMarkRepo {
	return &fakeMarkRepo{marks: make(map[markKey]*records.Mark)}
}

func (r *fakeMarkRepo) Get(_ context.Context, studentID, examID int64) (*records.Mark, error) {
	m, ok := r.marks[markKey{studentID, examID}]
	if !ok {
		return nil, records.ErrMarkNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *fakeMarkRepo) Upsert(_ context.Context, m *records.Mark) error {
	r.upserts++
	copied := *m
	r.marks[markKey{m.StudentID, m.ExamID}] = &copied
	return nil
}

type fakeExamDetailsRepo struct {
	records.ExamRepository

	exams map[int64]*records.ExamDetails
}

func (r *fakeExamDetailsRepo) GetDetails(_ context.Context, id int64) (*records.ExamDetails, error) {
	e, ok := r.exams[id]
	if !ok {
		return nil, records.ErrExamNotFound
	}
	return e, nil
}

type fakeShortNameRepo struct {
	records.StudentRepository

	byShortName map[string]*records.Student
}

func (r *fakeShortNameRepo) GetByShortName(_ context.Context, lastName, firstName string) (*records.Student, error) {
	s, ok := r.byShortName[lastName+" "+firstName]
	if !ok {
		return nil, records.ErrStudentNotFound
	}
	return s, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func newTestMarkService(marks *fakeMarkRepo, students records.StudentRepository) *MarkService {
	exams := &fakeExamDetailsRepo{exams: map[int64]*records.ExamDetails{
		1: {Exam: records.Exam{ID: 1, Discipline: "Математика"}},
	}}
	// Очередь с nil-зависимостями безопасна, пока воркер не запущен:
	// Enqueue только кладёт задачу в канал.
	return NewMarkService(marks, exams, students, newTestQueue(), nil)
}

// ══════════════════════════════════════════════════════════════════════════════
// TESTS
// ══════════════════════════════════════════════════════════════════════════════

func TestMarkService_BatchUpdateCountsOnlyChanges(t *testing.T) {
	ctx := context.Background()
	marks := newFakeMarkRepo()
	svc := newTestMarkService(marks, nil)

	batch := []MarkUpdateItem{
		{StudentID: 10, ExamID: 1, RawMark: "5"},
		{StudentID: 11, ExamID: 1, RawMark: "н/а"},
	}

	updated, err := svc.BatchUpdate(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	// Повторная отправка того же пакета ничего не меняет.
	updated, err = svc.BatchUpdate(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
	assert.Equal(t, 2, marks.upserts)

	// Изменение одной оценки учитывает только её.
	batch[0].RawMark = "4"
	updated, err = svc.BatchUpdate(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
}

func TestMarkService_BatchUpdateRejectsBadMark(t *testing.T) {
	ctx := context.Background()
	svc := newTestMarkService(newFakeMarkRepo(), nil)

	_, err := svc.BatchUpdate(ctx, []MarkUpdateItem{
		{StudentID: 10, ExamID: 1, RawMark: "7"},
	})
	assert.ErrorIs(t, err, records.ErrMarkOutOfRange)

	_, err = svc.BatchUpdate(ctx, []MarkUpdateItem{
		{StudentID: 0, ExamID: 1, RawMark: "5"},
	})
	assert.True(t, shared.IsValidation(err))
}

func TestMarkService_BatchUpdateUnknownExam(t *testing.T) {
	ctx := context.Background()
	svc := newTestMarkService(newFakeMarkRepo(), nil)

	_, err := svc.BatchUpdate(ctx, []MarkUpdateItem{
		{StudentID: 10, ExamID: 99, RawMark: "5"},
	})
	assert.ErrorIs(t, err, records.ErrExamNotFound)
}

func TestMarkService_Import(t *testing.T) {
	ctx := context.Background()
	marks := newFakeMarkRepo()
	students := &fakeShortNameRepo{byShortName: map[string]*records.Student{
		"Сидоров Семён": {ID: 10},
	}}
	svc := newTestMarkService(marks, students)

	five := "5"
	bad := "7"
	imported, errs := svc.Import(ctx, []MarkImportEntry{
		{ExamID: 1, LastFirstName: "Сидоров Семён", RawMark: &five},
		{ExamID: 1, LastFirstName: "Неизвестный Никто", RawMark: &five},
		{ExamID: 1, LastFirstName: "Сидоров Семён", RawMark: &bad},
		{ExamID: 1, LastFirstName: "Сидоров"},
	})

	// Ошибочные строки не мешают остальным.
	assert.Equal(t, 1, imported)
	assert.Len(t, errs, 3)

	m, err := marks.Get(ctx, 10, 1)
	require.NoError(t, err)
	require.NotNil(t, m.Value)
	assert.Equal(t, int16(5), *m.Value)
}
