// Package notify implements the outbound notification pipeline: recipient
// resolution, rate-limited delivery, and the background task queue that
// decouples event-triggered notifications from the HTTP request cycle.
package notify

import (
	"context"

	"github.com/Roy42022p/Backend/internal/domain/records"
)

// Resolver maps domain entities to externally-addressable chat identifiers.
// Resolution has no side effects and silently excludes principals without a
// bound chat handle; only a missing exam propagates as an error.
type Resolver struct {
	exams    records.ExamRepository
	students records.StudentRepository
}

// NewResolver creates a Resolver over the given repositories.
func NewResolver(exams records.ExamRepository, students records.StudentRepository) *Resolver {
	return &Resolver{exams: exams, students: students}
}

// ExamRecipients returns chat IDs of all students in the exam's group that
// have a linked handle. Unknown exam → records.ErrExamNotFound. A group with
// no linked students yields an empty slice, not an error.
func (r *Resolver) ExamRecipients(ctx context.Context, examID int64) ([]int64, error) {
	return r.exams.RecipientChatIDs(ctx, examID)
}

// StudentRecipient returns the chat ID of a single student, or
// records.ErrHandleNotFound when the student has no bound handle.
func (r *Resolver) StudentRecipient(ctx context.Context, studentID int64) (int64, error) {
	return r.students.ChatID(ctx, studentID)
}
