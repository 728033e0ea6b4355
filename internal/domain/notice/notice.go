package notice

// Package notice contains domain-level types for server-originated notices
// and the ordered, deduplicated local feed built from them.

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/campuskit/campus-client/internal/domain/auth"
)

// Target describes the audience a notice is addressed to.
type Target string

const (
	TargetAll      Target = "all"
	TargetStudents Target = "students"
	TargetFaculty  Target = "faculty"
	TargetSpecific Target = "specific"
)

// ParseTarget converts a wire string into a Target, rejecting unknown values.
func ParseTarget(s string) (Target, error) {
	switch Target(s) {
	case TargetAll, TargetStudents, TargetFaculty, TargetSpecific:
		return Target(s), nil
	default:
		return "", fmt.Errorf("invalid notice target: %q", s)
	}
}

// Notice is a server-originated announcement. SpecificIDs is meaningful only
// when Target is TargetSpecific.
type Notice struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	Target      Target    `json:"target"`
	SpecificIDs []string  `json:"specificIds,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// VisibleTo reports whether the notice may be shown to the given user:
// target all, target matching the user's role, or an explicit id listing.
func (n Notice) VisibleTo(user domainauth.User) bool {
	switch n.Target {
	case TargetAll:
		return true
	case TargetStudents:
		return user.Role == domainauth.RoleStudent || user.Role == domainauth.RoleParent
	case TargetFaculty:
		return user.Role == domainauth.RoleFaculty
	case TargetSpecific:
		for _, id := range n.SpecificIDs {
			if id == user.ID {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Before defines the feed ordering: CreatedAt descending, ties broken by
// ID ascending so merge output is deterministic.
func (n Notice) Before(other Notice) bool {
	if !n.CreatedAt.Equal(other.CreatedAt) {
		return n.CreatedAt.After(other.CreatedAt)
	}
	return n.ID < other.ID
}

// idNamespace scopes derived notice ids; value is fixed so derivation is
// stable across processes.
var idNamespace = uuid.MustParse("8f3c9e64-1f2b-4c57-9a0d-2b1de83f5a11")

// Normalize fills fields the server may omit on pushed events. A missing
// CreatedAt becomes the supplied receipt time and a missing ID is derived
// deterministically from content and timestamp so the same event received
// via fetch and push deduplicates to one entry.
func (n Notice) Normalize(receivedAt time.Time) Notice {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = receivedAt.UTC()
	}
	if n.ID == "" {
		seed := fmt.Sprintf("%s|%s|%s|%d", n.Title, n.Message, n.Target, n.CreatedAt.UnixNano())
		n.ID = uuid.NewSHA1(idNamespace, []byte(seed)).String()
	}
	return n
}
