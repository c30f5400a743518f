package audit

import "time"

// Event is an immutable, append-only audit record of a privileged action.
//
// Invariants:
// - Events are never updated or deleted.
// - Actor and ip capture are best-effort; admin flows never fail on audit errors.
type Event struct {
	ID string `json:"id" db:"id"`

	// Action names the admin operation, e.g. "place.delete".
	Action string `json:"action" db:"action"`

	ActorUserID int    `json:"actor_user_id" db:"actor_user_id"`
	ActorRole   string `json:"actor_role,omitempty" db:"actor_role"`

	// IPAddress is the resolved client address of the request.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// TargetID identifies the affected record when the route carries one.
	TargetID string `json:"target_id,omitempty" db:"target_id"`

	// Path is the request path, kept for forensics alongside Action.
	Path string `json:"path,omitempty" db:"path"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
