package models

type Priority string

const (
	PriorityBaixa   Priority = "baixa"
	PriorityMedia   Priority = "media"
	PriorityAlta    Priority = "alta"
	PriorityUrgente Priority = "urgente"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityBaixa, PriorityMedia, PriorityAlta, PriorityUrgente:
		return true
	}
	return false
}

type TaskStatus string

const (
	TaskPendente    TaskStatus = "pendente"
	TaskEmAndamento TaskStatus = "em_andamento"
	TaskConcluida   TaskStatus = "concluida"
)

func (s TaskStatus) Valid() bool {
	return s == TaskPendente || s == TaskEmAndamento || s == TaskConcluida
}

type Task struct {
	ID            string     `firestore:"-" json:"id"`
	Title         string     `firestore:"titulo" json:"titulo"`
	Status        TaskStatus `firestore:"status" json:"status"`
	Priority      Priority   `firestore:"prioridade" json:"prioridade"`
	DueDate       string     `firestore:"data_entrega" json:"data_entrega"`
	ClientID      string     `firestore:"cliente_id,omitempty" json:"cliente_id,omitempty"`
	ClientName    string     `firestore:"cliente_nome,omitempty" json:"cliente_nome,omitempty"`
	ContractValue float64    `firestore:"valor_contrato" json:"valor_contrato"`
	Signature     string     `firestore:"assinatura,omitempty" json:"assinatura,omitempty"`
	Updates       []Update   `firestore:"updates,omitempty" json:"updates,omitempty"`
	LegacyReport  string     `firestore:"relatorio,omitempty" json:"relatorio,omitempty"`
	LastUpdate    string     `firestore:"lastUpdate,omitempty" json:"lastUpdate,omitempty"`
	Audit
	IsOverdue bool `firestore:"-" json:"isOverdue"`
}

func (t Task) Done() bool { return t.Status == TaskConcluida }

// Update is one entry of a task's progress feed, stored newest first.
type Update struct {
	ID        string `firestore:"id" json:"id"`
	Text      string `firestore:"text" json:"text"`
	Author    string `firestore:"author" json:"author"`
	Timestamp string `firestore:"timestamp" json:"timestamp"`
}

// Report is either the legacy free-text field or the update feed. A task
// with any feed entries always reports through the feed.
type Report interface {
	isReport()
}

type LegacyReport struct {
	Text string
}

type UpdateFeed struct {
	Entries []Update
}

func (LegacyReport) isReport() {}
func (UpdateFeed) isReport()   {}

func (t Task) Report() Report {
	if len(t.Updates) == 0 && t.LegacyReport != "" {
		return LegacyReport{Text: t.LegacyReport}
	}
	return UpdateFeed{Entries: t.Updates}
}
