package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/GregMSThompson/ascend-backend/internal/access"
	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/overdue"
	"github.com/GregMSThompson/ascend-backend/pkg/currency"
	"github.com/GregMSThompson/ascend-backend/pkg/dates"
)

const (
	domainWarningDays = 5
	recentLimit       = 5
)

// DateField selects which timestamp a date filter reads.
type DateField string

const (
	FieldDate      DateField = "date"
	FieldCreatedAt DateField = "createdAt"
)

// Summarize totals income and expenses across every status.
func Summarize(txs []models.Transaction) dto.Summary {
	var income, expense []float64
	for _, tx := range txs {
		switch tx.Type {
		case models.Receita:
			income = append(income, tx.Amount)
		case models.Despesa:
			expense = append(expense, tx.Amount)
		}
	}
	rec := currency.Sum(income...)
	desp := currency.Sum(expense...)
	saldo := currency.Sum(rec, -desp)
	return dto.Summary{
		Income:       rec,
		Expense:      desp,
		Balance:      saldo,
		IncomeLabel:  currency.Format(rec),
		ExpenseLabel: currency.Format(desp),
		BalanceLabel: currency.Format(saldo),
	}
}

// FilterTransactions keeps the transactions whose chosen date falls inside r.
// Unreadable dates count as now.
func FilterTransactions(txs []models.Transaction, r dates.Range, field DateField, now time.Time) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		raw := tx.Date
		if field == FieldCreatedAt {
			raw = tx.CreatedAt
		}
		if r.Contains(dates.Safe(raw, now)) {
			out = append(out, tx)
		}
	}
	return out
}

func taskCounts(clientID string, tasks []models.Task) (total, done int) {
	for _, t := range tasks {
		if t.ClientID != clientID {
			continue
		}
		total++
		if t.Done() {
			done++
		}
	}
	return total, done
}

func ratio(done, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(done) / float64(total)
}

// CompletionRatio is the share of a client's tasks that are concluded, or 0
// when it has none.
func CompletionRatio(clientID string, tasks []models.Task) float64 {
	total, done := taskCounts(clientID, tasks)
	return ratio(done, total)
}

func SummarizeTasks(tasks []models.Task, now time.Time) dto.TaskSummary {
	s := dto.TaskSummary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskConcluida:
			s.Completed++
		case models.TaskEmAndamento:
			s.InProgress++
		case models.TaskPendente:
			s.Pending++
		}
		if overdue.TaskOverdue(t, now) {
			s.Overdue++
		}
	}
	return s
}

// Alerts flags domains that expired or expire within five days, plus a
// single alert counting overdue tasks.
func Alerts(clients []models.Client, tasks []models.Task, now time.Time) []dto.Alert {
	alerts := []dto.Alert{}
	for _, c := range clients {
		if c.Type != models.ClientDominio {
			continue
		}
		exp, ok := dates.Parse(c.DomainExpiresAt, now.Location())
		if !ok {
			continue
		}
		days := dates.DaysBetween(now, exp)
		switch {
		case days < 0:
			alerts = append(alerts, dto.Alert{
				Kind: dto.AlertDomainExpired, ClientID: c.ID, ClientName: c.ProjectName, DaysLeft: days,
				Message: fmt.Sprintf("Domínio de %s venceu há %d dia(s)", c.ProjectName, -days),
			})
		case days <= domainWarningDays:
			alerts = append(alerts, dto.Alert{
				Kind: dto.AlertDomainWarning, ClientID: c.ID, ClientName: c.ProjectName, DaysLeft: days,
				Message: fmt.Sprintf("Domínio de %s vence em %d dia(s)", c.ProjectName, days),
			})
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool { return alerts[i].DaysLeft < alerts[j].DaysLeft })

	late := 0
	for _, t := range tasks {
		if overdue.TaskOverdue(t, now) {
			late++
		}
	}
	if late > 0 {
		alerts = append(alerts, dto.Alert{
			Kind:    dto.AlertOverdueTasks,
			Count:   late,
			Message: fmt.Sprintf("%d tarefas atrasadas", late),
		})
	}
	return alerts
}

// DashboardInput is what a session can see at the moment of the request.
type DashboardInput struct {
	Grant        access.Grant
	Transactions []models.Transaction
	Clients      []models.Client
	Tasks        []models.Task
	Window       dates.Range
	Field        DateField
}

// BuildDashboard derives every dashboard figure from the given state. Parts
// the grant does not cover stay empty.
func BuildDashboard(in DashboardInput, now time.Time) dto.Dashboard {
	d := dto.Dashboard{
		Window: dto.DateWindow{End: dates.Day(in.Window.End.In(now.Location()))},
		Alerts: []dto.Alert{},
		Recent: []models.Transaction{},
	}
	if !in.Window.Start.IsZero() {
		d.Window.Start = dates.Day(in.Window.Start.In(now.Location()))
	}

	if in.Grant.Transactions {
		d.Transactions = true
		visible := overdue.TagTransactions(FilterTransactions(in.Transactions, in.Window, in.Field, now), now)
		d.Summary = Summarize(visible)
		if len(visible) > recentLimit {
			visible = visible[:recentLimit]
		}
		d.Recent = visible
	} else {
		d.Summary = Summarize(nil)
	}

	var tasks []models.Task
	if in.Grant.Tasks {
		tasks = in.Tasks
		d.Tasks = SummarizeTasks(tasks, now)
	}
	var clients []models.Client
	if in.Grant.Clients {
		clients = in.Clients
	}
	d.Alerts = Alerts(clients, tasks, now)
	return d
}
