package api

import (
	"net/http"

	"github.com/adboard/adboard-api/internal/api/shared"
	"github.com/adboard/adboard-api/internal/authz"
)

// authorize checks the policy for the request's principal and writes the
// appropriate error response on denial. An anonymous caller gets 401 so
// clients know credentials would help; an authenticated caller gets 403.
// Returns true if the action is allowed.
func authorize(w http.ResponseWriter, r *http.Request, p authz.Principal, action authz.Action, resource authz.Resource) bool {
	if authz.Decide(p, action, resource) == authz.Allow {
		return true
	}

	if !p.Authenticated {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
	} else {
		shared.RespondWithError(w, r, http.StatusForbidden, "Not allowed to perform this action")
	}
	return false
}
