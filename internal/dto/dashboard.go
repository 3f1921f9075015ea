package dto

import "github.com/GregMSThompson/ascend-backend/internal/models"

type Summary struct {
	Income       float64 `json:"rec"`
	Expense      float64 `json:"desp"`
	Balance      float64 `json:"saldo"`
	IncomeLabel  string  `json:"recLabel"`
	ExpenseLabel string  `json:"despLabel"`
	BalanceLabel string  `json:"saldoLabel"`
}

type TaskSummary struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Overdue    int `json:"overdue"`
}

type AlertKind string

const (
	AlertDomainExpired AlertKind = "domain_expired"
	AlertDomainWarning AlertKind = "domain_warning"
	AlertOverdueTasks  AlertKind = "overdue_tasks"
)

type Alert struct {
	Kind       AlertKind `json:"kind"`
	ClientID   string    `json:"clientId,omitempty"`
	ClientName string    `json:"clientName,omitempty"`
	DaysLeft   int       `json:"daysLeft,omitempty"`
	Count      int       `json:"count,omitempty"`
	Message    string    `json:"message"`
}

type DateWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type Dashboard struct {
	Window       DateWindow           `json:"window"`
	Summary      Summary              `json:"summary"`
	Tasks        TaskSummary          `json:"tasks"`
	Alerts       []Alert              `json:"alerts"`
	Recent       []models.Transaction `json:"recentTransactions"`
	Transactions bool                 `json:"transactionsVisible"`
}

// ClientView adds the share of the client's tasks already concluded.
type ClientView struct {
	models.Client
	TaskCount  int     `json:"taskCount"`
	Completion float64 `json:"completion"`
}
