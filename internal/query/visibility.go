package query

import "estatehub-backend/internal/model"

// Visibility resolves the caller's base predicate. It is ANDed in front of
// every caller-supplied filter, for the count query as well as the fetch, and
// is never bypassed.
//
//   - anonymous: only non-deleted, available listings
//   - agent:     only the agent's own non-deleted listings
//   - admin:     unconstrained (nil)
func Visibility(ident *model.Identity) Expr {
	if ident == nil {
		return And(
			Eq("p.is_deleted", false),
			Eq("p.sold_status", model.SoldAvailable),
		)
	}
	if ident.Role == model.RoleAdmin {
		return nil
	}
	return And(
		Eq("p.user_id", ident.UserID),
		Eq("p.is_deleted", false),
	)
}
