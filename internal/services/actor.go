package services

import (
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"github.com/GregMSThompson/ascend-backend/internal/access"
	"github.com/GregMSThompson/ascend-backend/internal/models"
)

var tracer = otel.Tracer("ascend/services")

// Actor is whoever is performing a write: a signed-in member, or the system
// for automatic writes and maintenance jobs.
type Actor struct {
	UID   string
	Email string
	Grant access.Grant
}

func MemberActor(uid string, profile models.TeamMember) Actor {
	email := profile.Email
	if email == "" {
		email = profile.Name
	}
	return Actor{UID: uid, Email: email, Grant: access.ForMember(profile)}
}

func SystemActor() Actor {
	return Actor{Email: models.SystemActor, Grant: access.Resolve(models.RoleDev, models.Permissions{})}
}

// is reports whether the actor owns the given document key or author email.
func (a Actor) is(key string) bool {
	key = models.NormalizeEmail(key)
	return key != "" && (key == strings.ToLower(a.UID) || key == models.NormalizeEmail(a.Email))
}

func newID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
