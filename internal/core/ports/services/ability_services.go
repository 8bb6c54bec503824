package services

import (
	"context"

	"github.com/avstream/media_access_app/internal/core/domain"
)

// Action is the capability being evaluated against a resource.
type Action string

const (
	ActionRead               Action = "read"
	ActionFullRead           Action = "full_read"
	ActionStream             Action = "stream"
	ActionMasterFileDownload Action = "master_file_download"
	ActionCreateToken        Action = "create_token"
	ActionUpdateToken        Action = "update_token"
	ActionListAllTokens      Action = "list_all_tokens"
)

// AccessContext carries the per-request signals the ability engine composes
// into a group set. All fields are optional: a zero value describes an
// anonymous request with no extra signals.
type AccessContext struct {
	// User is the session principal, nil for anonymous requests.
	User *domain.User
	// FullLogin is true for interactive sessions, false for e.g. LTI-scoped
	// logins that only carry course access.
	FullLogin bool
	// APILogin is true when the request authenticated with an API bearer
	// token rather than an interactive session.
	APILogin bool
	// PresentedToken is the access token string supplied with the request,
	// if any. Garbage values contribute nothing.
	PresentedToken string
	// ClientIP is the requesting network address, used for IP-derived
	// virtual groups.
	ClientIP string
	// ExternalGroups are request-scoped memberships supplied by an outside
	// integration (LTI/course groups).
	ExternalGroups []string
}

// Decision is the outcome of a single ability rule.
type Decision int

const (
	// DecisionAbstain means the rule has no opinion on the query.
	DecisionAbstain Decision = iota
	// DecisionAllow grants the action unless a later rule denies it.
	DecisionAllow
	// DecisionDeny forbids the action regardless of any allow.
	DecisionDeny
)

// AbilitySvc answers capability queries for a request context. Token state is
// re-validated on every evaluation; nothing about a presented token is cached
// across requests.
type AbilitySvc interface {
	// UserGroups resolves the full group-membership set for the request:
	// baseline groups, the principal's stored groups, external groups,
	// IP-derived groups and the token-derived download group. The result is
	// duplicate-free and order-independent.
	UserGroups(ctx context.Context, actx AccessContext) []string

	// Can evaluates whether the request context may perform action on the
	// resource. Supported resource types are *domain.MediaObject,
	// *domain.MasterFile, *domain.AccessToken and nil (for class-level
	// queries such as list_all_tokens).
	Can(ctx context.Context, actx AccessContext, action Action, resource any) bool
}
