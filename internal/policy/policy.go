// Package policy holds the authorization and quota decisions for the service.
// Functions here are pure: they evaluate already-loaded records and report a
// denial, never touching the database or the transport layer.
package policy

import "notes-service/internal/model"

// Kind classifies a denial so the handler can map it to an HTTP status.
type Kind int

const (
	KindForbidden Kind = iota
	KindNotFound
	KindBadRequest
	KindQuotaExceeded
)

// CodeMaxNotesReached is the machine-readable code attached to quota denials.
const CodeMaxNotesReached = "MAX_NOTES_REACHED"

// Denial describes why an action was refused. A nil *Denial means allowed.
type Denial struct {
	Kind    Kind
	Message string
	Code    string
}

// CanInviteUser reports whether actor may invite a new user into its tenant.
func CanInviteUser(actor *model.User) *Denial {
	if actor.Role != model.RoleManager {
		return &Denial{Kind: KindForbidden, Message: "You are not authorized to perform this action"}
	}
	return nil
}

// CanUpdateRole reports whether actor may set newRole on a user of its
// tenant. freshActor is the actor's own record re-resolved by email at
// decision time; a missing or tenant-mismatched record denies with NotFound
// so cross-tenant existence is never leaked.
func CanUpdateRole(actor *model.User, freshActor *model.User, newRole string) *Denial {
	if actor.Role != model.RoleManager {
		return &Denial{Kind: KindForbidden, Message: "You are not authorized to perform this action"}
	}
	if !model.ValidRole(newRole) {
		return &Denial{Kind: KindBadRequest, Message: "Invalid role. Role must be either MEMBER or MANAGER"}
	}
	if freshActor == nil || freshActor.TenantID != actor.TenantID {
		return &Denial{Kind: KindNotFound, Message: "User not found"}
	}
	return nil
}

// CanUpgradePlan reports whether actor may upgrade tenant to the PRO plan.
// tenant is the record resolved by slug and may be nil. The ownership check
// runs before the existence check; a nil tenant therefore reads as a
// cross-tenant attempt rather than a missing one.
func CanUpgradePlan(actor *model.User, tenant *model.Tenant) *Denial {
	if tenant == nil || tenant.ID != actor.TenantID {
		return &Denial{Kind: KindForbidden, Message: "Unauthorized action"}
	}
	if actor.Role == model.RoleMember {
		return &Denial{Kind: KindForbidden, Message: "You are not authorized to perform this action"}
	}
	if tenant.Plan == model.PlanPro {
		return &Denial{Kind: KindBadRequest, Message: "Tenant is already on PRO plan"}
	}
	return nil
}

// CanCreateNote reports whether tenant may hold one more note given its
// current note count. FREE tenants at or above the limit are denied; PRO
// tenants never are.
func CanCreateNote(tenant *model.Tenant, noteCount int64) *Denial {
	if tenant.Plan == model.PlanFree && noteCount >= model.FreePlanNoteLimit {
		return &Denial{
			Kind:    KindQuotaExceeded,
			Message: "Tenant has reached the maximum number of notes",
			Code:    CodeMaxNotesReached,
		}
	}
	return nil
}
