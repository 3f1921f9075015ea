package handlers

import (
	"context"

	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/internal/services"
	"github.com/GregMSThompson/ascend-backend/internal/session"
)

type RecordService interface {
	CreateTransaction(ctx context.Context, actor services.Actor, in dto.TransactionInput) (string, error)
	UpdateTransaction(ctx context.Context, actor services.Actor, id string, p dto.TransactionPatch) error
	ToggleTransaction(ctx context.Context, actor services.Actor, id string) (models.TransactionStatus, error)

	CreateClient(ctx context.Context, actor services.Actor, in dto.ClientInput) (string, error)
	UpdateClient(ctx context.Context, actor services.Actor, id string, p dto.ClientPatch) error
	UpdateClientField(ctx context.Context, actor services.Actor, id string, u dto.FieldUpdate) error

	CreateTask(ctx context.Context, actor services.Actor, in dto.TaskInput) (string, error)
	UpdateTask(ctx context.Context, actor services.Actor, id string, p dto.TaskPatch) error
	Feed(ctx context.Context, actor services.Actor, taskID string) (dto.FeedView, error)
	AppendUpdate(ctx context.Context, actor services.Actor, taskID string, in dto.UpdateText) (models.Update, error)
	EditUpdate(ctx context.Context, actor services.Actor, taskID, updateID string, in dto.UpdateText) error
	RemoveUpdate(ctx context.Context, actor services.Actor, taskID, updateID string) error

	CreateMember(ctx context.Context, actor services.Actor, in dto.MemberInput) (string, error)
	UpdateMember(ctx context.Context, actor services.Actor, id string, p dto.MemberPatch) error

	Delete(ctx context.Context, actor services.Actor, kind models.Kind, id string) error
}

type AuthService interface {
	Login(ctx context.Context, c dto.Credentials) (dto.AuthResult, error)
	Register(ctx context.Context, c dto.Credentials) (dto.AuthResult, error)
	RequestPasswordReset(ctx context.Context, req dto.PasswordResetRequest) error
	ResetMemberPassword(ctx context.Context, actor services.Actor, memberID string, confirm bool) error
	Logout(ctx context.Context, uid string) error
}

type MaintenanceService interface {
	DevSync(ctx context.Context, actor services.Actor, confirm bool) (int, error)
	ClearAll(ctx context.Context, actor services.Actor, confirm bool) (map[models.Kind]int, error)
}

type SessionManager interface {
	SignIn(ctx context.Context, uid, email string) (*session.Session, error)
	Close(uid string)
}
