package models

type ClientType string

const (
	ClientTrafego ClientType = "trafego"
	ClientDominio ClientType = "dominio"
)

type ClientStatus string

const (
	ClientAtivo   ClientStatus = "ativo"
	ClientInativo ClientStatus = "inativo"
)

type Client struct {
	ID              string       `firestore:"-" json:"id"`
	ProjectName     string       `firestore:"nome_projeto" json:"nome_projeto"`
	Type            ClientType   `firestore:"tipo" json:"tipo"`
	Status          ClientStatus `firestore:"status" json:"status"`
	Priority        Priority     `firestore:"prioridade" json:"prioridade"`
	Manager         string       `firestore:"gestor,omitempty" json:"gestor,omitempty"`
	Niche           string       `firestore:"nicho,omitempty" json:"nicho,omitempty"`
	ContractValue   float64      `firestore:"valor_contrato" json:"valor_contrato"`
	FacebookBudget  float64      `firestore:"orcamento_facebook,omitempty" json:"orcamento_facebook,omitempty"`
	GoogleBudget    float64      `firestore:"orcamento_google,omitempty" json:"orcamento_google,omitempty"`
	MetaAdsLink     string       `firestore:"link_meta_ads,omitempty" json:"link_meta_ads,omitempty"`
	GoogleAdsLink   string       `firestore:"link_google_ads,omitempty" json:"link_google_ads,omitempty"`
	DomainExpiresAt string       `firestore:"data_vencimento_dominio,omitempty" json:"data_vencimento_dominio,omitempty"`
	Temperature     string       `firestore:"temperatura,omitempty" json:"temperatura,omitempty"`
	Optimization    string       `firestore:"otimizacao,omitempty" json:"otimizacao,omitempty"`
	OptimizedAt     string       `firestore:"data_otimizacao,omitempty" json:"data_otimizacao,omitempty"`
	Feedback        string       `firestore:"feedback,omitempty" json:"feedback,omitempty"`
	Audit
}

// InlineClientFields lists the fields the client table edits in place.
var InlineClientFields = map[string]bool{
	"status":          true,
	"prioridade":      true,
	"temperatura":     true,
	"otimizacao":      true,
	"data_otimizacao": true,
	"feedback":        true,
	"gestor":          true,
}
