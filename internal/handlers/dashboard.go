package handlers

import (
	"net/http"
	"time"

	"github.com/GregMSThompson/ascend-backend/internal/errs"
	"github.com/GregMSThompson/ascend-backend/internal/response"
	"github.com/GregMSThompson/ascend-backend/internal/services"
	"github.com/GregMSThompson/ascend-backend/pkg/dates"
)

type dashboardHandlers struct {
	ResponseHandler response.ResponseHandler
	Clock           func() time.Time
}

func NewDashboardHandlers(deps *Deps) *dashboardHandlers {
	return &dashboardHandlers{ResponseHandler: deps.ResponseHandler, Clock: deps.now}
}

// GetDashboard accepts ?preset=thisMonth|thisYear|last30Days or ?start=&end=,
// and ?field=date|createdAt for the date the window applies to.
func (h *dashboardHandlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	s, err := currentSession(r)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	now := h.Clock()
	window, field, err := dateWindow(r, now)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	in := services.DashboardInput{Grant: s.Grant(), Window: window, Field: field}
	if in.Grant.Transactions {
		in.Transactions = s.Transactions()
	}
	if in.Grant.Clients {
		in.Clients = s.Clients()
	}
	if in.Grant.Tasks {
		in.Tasks = s.Tasks()
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, services.BuildDashboard(in, now))
}

func dateWindow(r *http.Request, now time.Time) (dates.Range, services.DateField, error) {
	q := r.URL.Query()

	field := services.DateField(q.Get("field"))
	switch field {
	case "":
		field = services.FieldDate
	case services.FieldDate, services.FieldCreatedAt:
	default:
		return dates.Range{}, "", errs.NewValidationError("field must be date or createdAt")
	}

	if q.Get("start") != "" || q.Get("end") != "" {
		return dates.CustomRange(q.Get("start"), q.Get("end"), now), field, nil
	}
	preset := dates.Preset(q.Get("preset"))
	switch preset {
	case "", dates.ThisMonth, dates.ThisYear, dates.Last30Days:
	default:
		return dates.Range{}, "", errs.NewValidationError("unknown preset " + string(preset))
	}
	return dates.PresetRange(preset, now), field, nil
}
