package dto

import (
	"github.com/GregMSThompson/ascend-backend/internal/errs"
	"github.com/GregMSThompson/ascend-backend/internal/models"
)

type ClientInput struct {
	ProjectName     string              `json:"nome_projeto"`
	Type            models.ClientType   `json:"tipo"`
	Status          models.ClientStatus `json:"status"`
	Priority        models.Priority     `json:"prioridade"`
	Manager         string              `json:"gestor,omitempty"`
	Niche           string              `json:"nicho,omitempty"`
	ContractValue   Amount              `json:"valor_contrato"`
	FacebookBudget  Amount              `json:"orcamento_facebook,omitempty"`
	GoogleBudget    Amount              `json:"orcamento_google,omitempty"`
	MetaAdsLink     string              `json:"link_meta_ads,omitempty"`
	GoogleAdsLink   string              `json:"link_google_ads,omitempty"`
	DomainExpiresAt string              `json:"data_vencimento_dominio,omitempty"`
	Temperature     string              `json:"temperatura,omitempty"`
	Feedback        string              `json:"feedback,omitempty"`
}

func validClientType(t models.ClientType) bool {
	return t == models.ClientTrafego || t == models.ClientDominio
}

func validClientStatus(s models.ClientStatus) bool {
	return s == models.ClientAtivo || s == models.ClientInativo
}

func (in ClientInput) Validate() error {
	if err := required("nome_projeto", in.ProjectName); err != nil {
		return err
	}
	if in.Type != "" && !validClientType(in.Type) {
		return errs.NewValidationError("tipo must be trafego or dominio")
	}
	if in.Status != "" && !validClientStatus(in.Status) {
		return errs.NewValidationError("invalid client status")
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return errs.NewValidationError("invalid priority")
	}
	for name, v := range map[string]Amount{
		"valor_contrato":     in.ContractValue,
		"orcamento_facebook": in.FacebookBudget,
		"orcamento_google":   in.GoogleBudget,
	} {
		if err := nonNegative(name, v); err != nil {
			return err
		}
	}
	return nil
}

func (in ClientInput) Fields() map[string]any {
	f := fieldSet{
		"tipo":               string(orDefault(in.Type, models.ClientTrafego)),
		"status":             string(orDefault(in.Status, models.ClientAtivo)),
		"prioridade":         string(orDefault(in.Priority, models.PriorityMedia)),
		"valor_contrato":     in.ContractValue.Float(),
		"orcamento_facebook": in.FacebookBudget.Float(),
		"orcamento_google":   in.GoogleBudget.Float(),
	}
	f.str("nome_projeto", &in.ProjectName)
	for key, v := range map[string]string{
		"gestor":                  in.Manager,
		"nicho":                   in.Niche,
		"link_meta_ads":           in.MetaAdsLink,
		"link_google_ads":         in.GoogleAdsLink,
		"data_vencimento_dominio": in.DomainExpiresAt,
		"temperatura":             in.Temperature,
		"feedback":                in.Feedback,
	} {
		if v != "" {
			f.str(key, &v)
		}
	}
	return f
}

type ClientPatch struct {
	ProjectName     *string              `json:"nome_projeto,omitempty"`
	Type            *models.ClientType   `json:"tipo,omitempty"`
	Status          *models.ClientStatus `json:"status,omitempty"`
	Priority        *models.Priority     `json:"prioridade,omitempty"`
	Manager         *string              `json:"gestor,omitempty"`
	Niche           *string              `json:"nicho,omitempty"`
	ContractValue   *Amount              `json:"valor_contrato,omitempty"`
	FacebookBudget  *Amount              `json:"orcamento_facebook,omitempty"`
	GoogleBudget    *Amount              `json:"orcamento_google,omitempty"`
	MetaAdsLink     *string              `json:"link_meta_ads,omitempty"`
	GoogleAdsLink   *string              `json:"link_google_ads,omitempty"`
	DomainExpiresAt *string              `json:"data_vencimento_dominio,omitempty"`
	Temperature     *string              `json:"temperatura,omitempty"`
	Optimization    *string              `json:"otimizacao,omitempty"`
	OptimizedAt     *string              `json:"data_otimizacao,omitempty"`
	Feedback        *string              `json:"feedback,omitempty"`
}

func (p ClientPatch) Validate() error {
	if p.ProjectName != nil {
		if err := required("nome_projeto", *p.ProjectName); err != nil {
			return err
		}
	}
	if p.Type != nil && !validClientType(*p.Type) {
		return errs.NewValidationError("tipo must be trafego or dominio")
	}
	if p.Status != nil && !validClientStatus(*p.Status) {
		return errs.NewValidationError("invalid client status")
	}
	if p.Priority != nil && !p.Priority.Valid() {
		return errs.NewValidationError("invalid priority")
	}
	for name, v := range map[string]*Amount{
		"valor_contrato":     p.ContractValue,
		"orcamento_facebook": p.FacebookBudget,
		"orcamento_google":   p.GoogleBudget,
	} {
		if err := nonNegativePtr(name, v); err != nil {
			return err
		}
	}
	return nil
}

func (p ClientPatch) Fields() map[string]any {
	f := fieldSet{}
	if p.Type != nil {
		f["tipo"] = string(*p.Type)
	}
	if p.Status != nil {
		f["status"] = string(*p.Status)
	}
	if p.Priority != nil {
		f["prioridade"] = string(*p.Priority)
	}
	f.str("nome_projeto", p.ProjectName)
	f.str("gestor", p.Manager)
	f.str("nicho", p.Niche)
	f.amount("valor_contrato", p.ContractValue)
	f.amount("orcamento_facebook", p.FacebookBudget)
	f.amount("orcamento_google", p.GoogleBudget)
	f.str("link_meta_ads", p.MetaAdsLink)
	f.str("link_google_ads", p.GoogleAdsLink)
	f.str("data_vencimento_dominio", p.DomainExpiresAt)
	f.str("temperatura", p.Temperature)
	f.str("otimizacao", p.Optimization)
	f.str("data_otimizacao", p.OptimizedAt)
	f.str("feedback", p.Feedback)
	return f
}

// FieldUpdate edits a single client field from the table view.
type FieldUpdate struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (u FieldUpdate) Validate() error {
	if !models.InlineClientFields[u.Field] {
		return errs.NewValidationError("field cannot be edited inline: " + u.Field)
	}
	switch u.Field {
	case "status":
		if !validClientStatus(models.ClientStatus(u.Value)) {
			return errs.NewValidationError("invalid client status")
		}
	case "prioridade":
		if !models.Priority(u.Value).Valid() {
			return errs.NewValidationError("invalid priority")
		}
	}
	return nil
}

func (u FieldUpdate) Fields() map[string]any {
	return map[string]any{u.Field: u.Value}
}

func orDefault[T ~string](v, fallback T) T {
	if v == "" {
		return fallback
	}
	return v
}
