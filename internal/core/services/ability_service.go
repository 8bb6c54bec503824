package services

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sort"

	"github.com/avstream/media_access_app/internal/apperrors"
	"github.com/avstream/media_access_app/internal/core/domain"
	portsrepo "github.com/avstream/media_access_app/internal/core/ports/repositories"
	portssvc "github.com/avstream/media_access_app/internal/core/ports/services"
)

// abilityService implements the AbilitySvc interface. Capability queries are
// answered by an ordered list of independent rules, each returning allow,
// deny or abstain; an explicit deny overrides any allow. Token state is
// re-resolved on every evaluation, never cached across requests: a token can
// expire or be revoked between requests.
type abilityService struct {
	tokenSvc       portssvc.AccessTokenSvc
	mediaRepo      portsrepo.MediaObjectRepository
	collectionRepo portsrepo.CollectionRepository
	ipResolver     *IPGroupResolver
	logger         *slog.Logger
	rules          []abilityRule
}

// evaluation carries the resolved state for a single Can query.
type evaluation struct {
	actx     portssvc.AccessContext
	groups   []string
	action   portssvc.Action
	resource any
}

// abilityRule inspects one aspect of the query. Rules must not mutate the
// evaluation.
type abilityRule func(ctx context.Context, e *evaluation) portssvc.Decision

// NewAbilityService creates a new instance of abilityService.
func NewAbilityService(
	tokenSvc portssvc.AccessTokenSvc,
	mediaRepo portsrepo.MediaObjectRepository,
	collectionRepo portsrepo.CollectionRepository,
	ipResolver *IPGroupResolver,
	logger *slog.Logger,
) portssvc.AbilitySvc {
	s := &abilityService{
		tokenSvc:       tokenSvc,
		mediaRepo:      mediaRepo,
		collectionRepo: collectionRepo,
		ipResolver:     ipResolver,
		logger:         logger,
	}
	// Fixed priority order. sessionScopeRule carries the only explicit
	// denies and is evaluated first, but ordering is not load-bearing:
	// denies collected anywhere in the pass override allows.
	s.rules = []abilityRule{
		s.sessionScopeRule,
		s.administratorRule,
		s.mediaObjectReadRule,
		s.streamRule,
		s.masterFileDownloadRule,
		s.accessTokenManageRule,
	}
	return s
}

// UserGroups resolves the group-membership set for the request context. The
// result is sorted and duplicate-free; composition is order-independent.
func (s *abilityService) UserGroups(ctx context.Context, actx portssvc.AccessContext) []string {
	set := map[string]struct{}{domain.GroupPublic: {}}

	if actx.User != nil {
		set[domain.GroupRegistered] = struct{}{}
		for _, g := range actx.User.Groups {
			set[g] = struct{}{}
		}
	}
	for _, g := range actx.ExternalGroups {
		set[g] = struct{}{}
	}
	if actx.ClientIP != "" {
		// The raw address itself acts as a group name so media objects can
		// allow-list individual addresses, alongside the configured ranges.
		set[actx.ClientIP] = struct{}{}
		for _, g := range s.ipResolver.GroupsForIP(actx.ClientIP) {
			set[g] = struct{}{}
		}
	}
	for _, g := range s.tokenGroups(ctx, actx.PresentedToken) {
		set[g] = struct{}{}
	}

	groups := make([]string, 0, len(set))
	for g := range set {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}

// tokenGroups resolves the download group contributed by a presented access
// token. A blank, unknown or inactive token contributes nothing; resolution
// failures are logged and swallowed so a garbage token can never block the
// rest of the request's evaluation.
func (s *abilityService) tokenGroups(ctx context.Context, tokenString string) []string {
	if tokenString == "" {
		return nil
	}
	token, err := s.tokenSvc.FindByTokenString(ctx, tokenString)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("failed to resolve presented access token",
				slog.String("error", err.Error()))
		}
		return nil
	}
	if !token.IsActive() || !token.AllowDownload {
		return nil
	}
	return []string{domain.TokenDownloadGroupName(token.MediaObjectID)}
}

// Can evaluates whether the request context may perform action on resource.
func (s *abilityService) Can(ctx context.Context, actx portssvc.AccessContext, action portssvc.Action, resource any) bool {
	e := &evaluation{
		actx:     actx,
		groups:   s.UserGroups(ctx, actx),
		action:   action,
		resource: resource,
	}

	allowed := false
	for _, rule := range s.rules {
		switch rule(ctx, e) {
		case portssvc.DecisionAllow:
			allowed = true
		case portssvc.DecisionDeny:
			return false
		}
	}
	return allowed
}

func (e *evaluation) inGroup(group string) bool {
	return slices.Contains(e.groups, group)
}

func (e *evaluation) fullSession() bool {
	return e.actx.FullLogin || e.actx.APILogin
}

// sessionScopeRule denies token management and listing to sessions that are
// neither full interactive logins nor API logins (e.g. LTI-scoped sessions).
func (s *abilityService) sessionScopeRule(ctx context.Context, e *evaluation) portssvc.Decision {
	switch e.action {
	case portssvc.ActionCreateToken, portssvc.ActionUpdateToken, portssvc.ActionListAllTokens:
		if !e.fullSession() {
			return portssvc.DecisionDeny
		}
	}
	return portssvc.DecisionAbstain
}

// administratorRule grants administrators everything, including list_all.
func (s *abilityService) administratorRule(ctx context.Context, e *evaluation) portssvc.Decision {
	if e.fullSession() && e.inGroup(domain.GroupAdministrator) {
		return portssvc.DecisionAllow
	}
	return portssvc.DecisionAbstain
}

// mediaObjectReadRule covers read and full_read of media objects. read is
// satisfied by publication or edit access; full_read additionally requires a
// read grant (role, read group or collection membership) on unpublished
// material.
func (s *abilityService) mediaObjectReadRule(ctx context.Context, e *evaluation) portssvc.Decision {
	mediaObject, ok := e.resource.(*domain.MediaObject)
	if !ok {
		return portssvc.DecisionAbstain
	}
	switch e.action {
	case portssvc.ActionRead:
		if mediaObject.Published || s.testEdit(ctx, e, mediaObject) {
			return portssvc.DecisionAllow
		}
	case portssvc.ActionFullRead:
		if s.testFullRead(ctx, e, mediaObject) {
			return portssvc.DecisionAllow
		}
	}
	return portssvc.DecisionAbstain
}

// streamRule allows streaming to anyone with full_read, and otherwise to
// holders of an active streaming token for this exact published object. The
// token is strictly additive: it can only grant, never revoke.
func (s *abilityService) streamRule(ctx context.Context, e *evaluation) portssvc.Decision {
	mediaObject, ok := e.resource.(*domain.MediaObject)
	if !ok || e.action != portssvc.ActionStream {
		return portssvc.DecisionAbstain
	}
	if s.testFullRead(ctx, e, mediaObject) {
		return portssvc.DecisionAllow
	}
	if e.actx.PresentedToken != "" && mediaObject.Published &&
		s.tokenSvc.AllowStreamingOf(ctx, e.actx.PresentedToken, mediaObject.MediaObjectID) {
		return portssvc.DecisionAllow
	}
	return portssvc.DecisionAbstain
}

// masterFileDownloadRule allows download of a master file to members of the
// owning collection and to holders of the synthetic download group for the
// file's parent media object.
func (s *abilityService) masterFileDownloadRule(ctx context.Context, e *evaluation) portssvc.Decision {
	masterFile, ok := e.resource.(*domain.MasterFile)
	if !ok || e.action != portssvc.ActionMasterFileDownload {
		return portssvc.DecisionAbstain
	}
	mediaObject, err := s.mediaRepo.FindMediaObjectByID(ctx, masterFile.MediaObjectID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("failed to load media object for download check",
				slog.String("master_file_id", masterFile.MasterFileID),
				slog.String("error", err.Error()))
		}
		return portssvc.DecisionAbstain
	}
	if s.isMemberOfCollection(ctx, e, mediaObject.CollectionID) {
		return portssvc.DecisionAllow
	}
	if e.inGroup(domain.TokenDownloadGroupName(mediaObject.MediaObjectID)) {
		return portssvc.DecisionAllow
	}
	return portssvc.DecisionAbstain
}

// accessTokenManageRule allows create/update of a token to members of the
// collection owning the token's target media object.
func (s *abilityService) accessTokenManageRule(ctx context.Context, e *evaluation) portssvc.Decision {
	token, ok := e.resource.(*domain.AccessToken)
	if !ok {
		return portssvc.DecisionAbstain
	}
	switch e.action {
	case portssvc.ActionCreateToken, portssvc.ActionUpdateToken:
	default:
		return portssvc.DecisionAbstain
	}
	mediaObject, err := s.mediaRepo.FindMediaObjectByID(ctx, token.MediaObjectID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("failed to load media object for token manage check",
				slog.String("access_token_id", token.AccessTokenID),
				slog.String("error", err.Error()))
		}
		return portssvc.DecisionAbstain
	}
	if s.isMemberOfCollection(ctx, e, mediaObject.CollectionID) {
		return portssvc.DecisionAllow
	}
	return portssvc.DecisionAbstain
}

// testFullRead reports whether the context has full read access: a read
// grant on a published object, or edit access regardless of publication.
func (s *abilityService) testFullRead(ctx context.Context, e *evaluation, mediaObject *domain.MediaObject) bool {
	if s.testEdit(ctx, e, mediaObject) {
		return true
	}
	return mediaObject.Published && s.testRead(e, mediaObject)
}

// testRead reports whether any of the context's groups appears in the
// object's read-group list.
func (s *abilityService) testRead(e *evaluation, mediaObject *domain.MediaObject) bool {
	for _, group := range e.groups {
		if mediaObject.HasReadGroup(group) {
			return true
		}
	}
	return false
}

// testEdit reports whether the principal holds any role on the owning
// collection.
func (s *abilityService) testEdit(ctx context.Context, e *evaluation, mediaObject *domain.MediaObject) bool {
	return s.isMemberOfCollection(ctx, e, mediaObject.CollectionID)
}

// isMemberOfCollection resolves the collection's role lists and checks the
// session principal. Administrators are members of everything. Lookup
// failures are logged and treated as "not a member" so a persistence blip
// fails safe.
func (s *abilityService) isMemberOfCollection(ctx context.Context, e *evaluation, collectionID string) bool {
	if e.inGroup(domain.GroupAdministrator) {
		return true
	}
	if e.actx.User == nil {
		return false
	}
	collection, err := s.collectionRepo.FindCollectionByID(ctx, collectionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("failed to load collection for membership check",
				slog.String("collection_id", collectionID),
				slog.String("error", err.Error()))
		}
		return false
	}
	return collection.IsMember(e.actx.User.UserID)
}
