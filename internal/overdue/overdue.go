// Package overdue derives the isOverdue flag and decides which tasks must be
// escalated to urgent priority.
package overdue

import (
	"sort"
	"time"

	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/pkg/dates"
)

// IsOverdue reports whether due falls before the start of now's day. Empty or
// unreadable dates are never overdue.
func IsOverdue(due string, now time.Time) bool {
	if due == "" {
		return false
	}
	t, ok := dates.Parse(due, now.Location())
	if !ok {
		return false
	}
	return t.Before(dates.StartOfDay(now))
}

func TransactionOverdue(tx models.Transaction, now time.Time) bool {
	return !tx.Settled() && IsOverdue(tx.Date, now)
}

func TaskOverdue(task models.Task, now time.Time) bool {
	return !task.Done() && IsOverdue(task.DueDate, now)
}

// TagTransactions returns a copy with IsOverdue set, ordered overdue first and
// then by date, newest first.
func TagTransactions(txs []models.Transaction, now time.Time) []models.Transaction {
	out := make([]models.Transaction, len(txs))
	for i, tx := range txs {
		tx.IsOverdue = TransactionOverdue(tx, now)
		out[i] = tx
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsOverdue != out[j].IsOverdue {
			return out[i].IsOverdue
		}
		return dates.Safe(out[i].Date, now).After(dates.Safe(out[j].Date, now))
	})
	return out
}

// TagTasks returns a copy with IsOverdue set. Order is preserved.
func TagTasks(tasks []models.Task, now time.Time) []models.Task {
	out := make([]models.Task, len(tasks))
	for i, task := range tasks {
		task.IsOverdue = TaskOverdue(task, now)
		out[i] = task
	}
	return out
}

// PlanEscalations returns the ids of tagged tasks that are overdue and not yet
// urgent. Re-running it on the result of ApplyEscalations yields nothing.
func PlanEscalations(tasks []models.Task) []string {
	var ids []string
	for _, task := range tasks {
		if task.IsOverdue && task.Priority != models.PriorityUrgente {
			ids = append(ids, task.ID)
		}
	}
	return ids
}

// ApplyEscalations raises the listed tasks to urgent in place, so the local
// view reflects the escalation before the write lands.
func ApplyEscalations(tasks []models.Task, ids []string) {
	if len(ids) == 0 {
		return
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	for i := range tasks {
		if _, ok := set[tasks[i].ID]; ok {
			tasks[i].Priority = models.PriorityUrgente
		}
	}
}
