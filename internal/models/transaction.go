package models

type TransactionType string

const (
	Receita TransactionType = "receita"
	Despesa TransactionType = "despesa"
)

func (t TransactionType) Valid() bool { return t == Receita || t == Despesa }

type TransactionStatus string

const (
	TransactionPendente  TransactionStatus = "pendente"
	TransactionPago      TransactionStatus = "pago"
	TransactionRecebido  TransactionStatus = "recebido"
	TransactionCancelado TransactionStatus = "cancelado"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionPendente, TransactionPago, TransactionRecebido, TransactionCancelado:
		return true
	}
	return false
}

type Transaction struct {
	ID          string            `firestore:"-" json:"id"`
	Type        TransactionType   `firestore:"type" json:"type"`
	Amount      float64           `firestore:"amount" json:"amount"`
	Description string            `firestore:"description" json:"description"`
	Category    string            `firestore:"category" json:"category"`
	Date        string            `firestore:"date" json:"date"`
	Status      TransactionStatus `firestore:"status" json:"status"`
	ClientID    string            `firestore:"clientId,omitempty" json:"clientId,omitempty"`
	ClientName  string            `firestore:"clientName,omitempty" json:"clientName,omitempty"`
	Audit
	IsOverdue bool `firestore:"-" json:"isOverdue"`
}

// Settled transactions never count as overdue.
func (t Transaction) Settled() bool {
	switch t.Status {
	case TransactionPago, TransactionRecebido, TransactionCancelado:
		return true
	}
	return false
}
