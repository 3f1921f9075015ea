package handlers

import (
	"log/slog"
	"time"

	"github.com/GregMSThompson/ascend-backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	RecordSvc       RecordService
	AuthSvc         AuthService
	MaintenanceSvc  MaintenanceService
	Sessions        SessionManager
	Clock           func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock()
}
