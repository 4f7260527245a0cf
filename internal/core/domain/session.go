package domain

import "time"

// Session is the signed-in user's state: the API token and who it belongs
// to. It is passed explicitly with each request instead of living in a
// process-wide facade.
type Session struct {
	Token     string    `json:"token"`
	UserID    int       `json:"user_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

func (s *Session) FullName() string {
	if s == nil {
		return ""
	}
	return Person{FirstName: s.FirstName, LastName: s.LastName}.FullName()
}

type AuditAction string

const (
	AuditCreated AuditAction = "created"
	AuditUpdated AuditAction = "updated"
	AuditDeleted AuditAction = "deleted"
)

// AuditEvent records one successful write issued from the console.
type AuditEvent struct {
	ID       string      `json:"id"`
	ActorID  int         `json:"actor_id"`
	Actor    string      `json:"actor"`
	Role     Role        `json:"role"`
	Action   AuditAction `json:"action"`
	Entity   EntityType  `json:"entity"`
	TargetID int         `json:"target_id"`
	At       time.Time   `json:"at"`
}
