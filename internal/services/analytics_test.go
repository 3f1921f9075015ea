package services

import (
	"testing"
	"time"

	"github.com/GregMSThompson/ascend-backend/internal/access"
	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/pkg/dates"
)

func TestSummarize(t *testing.T) {
	txs := []models.Transaction{
		{Type: models.Receita, Amount: 1500.10, Status: models.TransactionRecebido},
		{Type: models.Receita, Amount: 0.20, Status: models.TransactionPendente},
		{Type: models.Despesa, Amount: 300.05, Status: models.TransactionPago},
	}
	got := Summarize(txs)
	if got.Income != 1500.30 || got.Expense != 300.05 || got.Balance != 1200.25 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got.BalanceLabel != "R$ 1.200,25" {
		t.Errorf("balance label: got %q", got.BalanceLabel)
	}
}

func TestFilterTransactions_ByField(t *testing.T) {
	now := time.Date(2024, time.July, 15, 12, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		{ID: "june", Date: "2024-06-30", Audit: models.Audit{CreatedAt: "2024-07-02T10:00:00.000Z"}},
		{ID: "july", Date: "2024-07-01", Audit: models.Audit{CreatedAt: "2024-06-28T10:00:00.000Z"}},
	}
	r := dates.PresetRange(dates.ThisMonth, now)

	byDate := FilterTransactions(txs, r, FieldDate, now)
	if len(byDate) != 1 || byDate[0].ID != "july" {
		t.Fatalf("by date: %+v", byDate)
	}
	byCreated := FilterTransactions(txs, r, FieldCreatedAt, now)
	if len(byCreated) != 1 || byCreated[0].ID != "june" {
		t.Fatalf("by createdAt: %+v", byCreated)
	}
}

func TestCompletionRatio_NoTasks(t *testing.T) {
	if got := CompletionRatio("c1", nil); got != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestSummarizeTasks(t *testing.T) {
	tasks := []models.Task{
		{Status: models.TaskConcluida, DueDate: "2024-06-01"},
		{Status: models.TaskPendente, DueDate: "2024-06-01"},
		{Status: models.TaskEmAndamento, DueDate: "2024-07-10"},
		{Status: models.TaskPendente},
	}
	got := SummarizeTasks(tasks, fixedNow)
	want := dto.TaskSummary{Total: 4, Completed: 1, Pending: 2, InProgress: 1, Overdue: 1}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAlerts(t *testing.T) {
	clients := []models.Client{
		{ID: "a", ProjectName: "Expirado", Type: models.ClientDominio, DomainExpiresAt: "2024-06-29"},
		{ID: "b", ProjectName: "Quase", Type: models.ClientDominio, DomainExpiresAt: "2024-07-04"},
		{ID: "c", ProjectName: "Longe", Type: models.ClientDominio, DomainExpiresAt: "2024-09-01"},
		{ID: "d", ProjectName: "Trafego", Type: models.ClientTrafego, DomainExpiresAt: "2024-06-01"},
		{ID: "e", ProjectName: "SemData", Type: models.ClientDominio},
	}
	tasks := []models.Task{
		{Status: models.TaskPendente, DueDate: "2024-06-20"},
		{Status: models.TaskEmAndamento, DueDate: "2024-06-25"},
		{Status: models.TaskConcluida, DueDate: "2024-06-25"},
	}

	got := Alerts(clients, tasks, fixedNow)
	if len(got) != 3 {
		t.Fatalf("expected 3 alerts, got %+v", got)
	}
	if got[0].Kind != dto.AlertDomainExpired || got[0].ClientID != "a" || got[0].DaysLeft != -2 {
		t.Errorf("first alert: %+v", got[0])
	}
	if got[1].Kind != dto.AlertDomainWarning || got[1].ClientID != "b" || got[1].DaysLeft != 3 {
		t.Errorf("second alert: %+v", got[1])
	}
	if got[2].Kind != dto.AlertOverdueTasks || got[2].Count != 2 || got[2].Message != "2 tarefas atrasadas" {
		t.Errorf("overdue alert: %+v", got[2])
	}
}

func TestBuildDashboard_RespectsGrant(t *testing.T) {
	in := DashboardInput{
		Grant:        access.Resolve(models.RoleGestor, models.Permissions{Tarefas: true}),
		Transactions: []models.Transaction{{Type: models.Receita, Amount: 10, Date: "2024-07-01"}},
		Tasks:        []models.Task{{Status: models.TaskPendente, DueDate: "2024-06-01"}},
		Window:       dates.PresetRange(dates.ThisMonth, fixedNow),
		Field:        FieldDate,
	}
	d := BuildDashboard(in, fixedNow)
	if d.Transactions || d.Summary.Income != 0 || len(d.Recent) != 0 {
		t.Fatalf("transactions must stay hidden: %+v", d)
	}
	if d.Tasks.Total != 1 || d.Tasks.Overdue != 1 {
		t.Fatalf("task summary: %+v", d.Tasks)
	}
	if d.Window.Start != "2024-07-01" || d.Window.End != "2024-07-31" {
		t.Errorf("window: %+v", d.Window)
	}
}

func TestBuildDashboard_RecentSortedOverdueFirst(t *testing.T) {
	in := DashboardInput{
		Grant: access.Resolve(models.RoleAdmin, models.Permissions{}),
		Transactions: []models.Transaction{
			{ID: "paid", Type: models.Despesa, Amount: 5, Date: "2024-06-10", Status: models.TransactionPago},
			{ID: "late", Type: models.Despesa, Amount: 5, Date: "2024-06-05", Status: models.TransactionPendente},
			{ID: "new", Type: models.Receita, Amount: 5, Date: "2024-06-30", Status: models.TransactionPendente},
		},
		Window: dates.PresetRange(dates.ThisYear, fixedNow),
		Field:  FieldDate,
	}
	d := BuildDashboard(in, fixedNow)
	if len(d.Recent) != 3 {
		t.Fatalf("expected 3 recent, got %d", len(d.Recent))
	}
	if d.Recent[0].ID != "new" || d.Recent[1].ID != "late" || d.Recent[2].ID != "paid" {
		t.Fatalf("unexpected order: %+v", d.Recent)
	}
	if !d.Recent[0].IsOverdue || !d.Recent[1].IsOverdue || d.Recent[2].IsOverdue {
		t.Fatalf("unexpected overdue flags: %+v", d.Recent)
	}
}
