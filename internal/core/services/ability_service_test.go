package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/avstream/media_access_app/internal/apperrors"
	"github.com/avstream/media_access_app/internal/core/domain"
	portssvc "github.com/avstream/media_access_app/internal/core/ports/services"
	"github.com/avstream/media_access_app/internal/core/services"
	"github.com/avstream/media_access_app/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccessTokenSvc is a mock type for the AccessTokenSvc interface
type MockAccessTokenSvc struct {
	mock.Mock
}

func (m *MockAccessTokenSvc) CreateAccessToken(ctx context.Context, req dto.CreateAccessTokenRequest, creator *domain.User) (*domain.AccessToken, error) {
	args := m.Called(ctx, req, creator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessToken), args.Error(1)
}

func (m *MockAccessTokenSvc) GetAccessTokenByID(ctx context.Context, accessTokenID string, requester *domain.User) (*domain.AccessToken, error) {
	args := m.Called(ctx, accessTokenID, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessToken), args.Error(1)
}

func (m *MockAccessTokenSvc) FindByTokenString(ctx context.Context, tokenString string) (*domain.AccessToken, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessToken), args.Error(1)
}

func (m *MockAccessTokenSvc) ListAccessTokens(ctx context.Context, req dto.ListAccessTokensRequest, requester *domain.User) (*dto.ListAccessTokensResponse, error) {
	args := m.Called(ctx, req, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAccessTokensResponse), args.Error(1)
}

func (m *MockAccessTokenSvc) UpdateAccessToken(ctx context.Context, accessTokenID string, req dto.UpdateAccessTokenRequest, requester *domain.User) (*domain.AccessToken, error) {
	args := m.Called(ctx, accessTokenID, req, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessToken), args.Error(1)
}

func (m *MockAccessTokenSvc) RevokeAccessToken(ctx context.Context, accessTokenID string, requester *domain.User) (*domain.AccessToken, error) {
	args := m.Called(ctx, accessTokenID, requester)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessToken), args.Error(1)
}

func (m *MockAccessTokenSvc) ExpireAccessToken(ctx context.Context, token *domain.AccessToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAccessTokenSvc) AllowStreamingOf(ctx context.Context, tokenString, mediaObjectID string) bool {
	args := m.Called(ctx, tokenString, mediaObjectID)
	return args.Bool(0)
}

// --- Test Suite Setup ---

type AbilityServiceTestSuite struct {
	suite.Suite
	mockTokenSvc       *MockAccessTokenSvc
	mockMediaRepo      *MockMediaObjectRepository
	mockCollectionRepo *MockCollectionRepository
	service            portssvc.AbilitySvc
}

func (suite *AbilityServiceTestSuite) SetupTest() {
	suite.mockTokenSvc = new(MockAccessTokenSvc)
	suite.mockMediaRepo = new(MockMediaObjectRepository)
	suite.mockCollectionRepo = new(MockCollectionRepository)
	resolver, err := services.NewIPGroupResolver("campus=10.0.0.0/8;library=192.168.10.0/24")
	suite.Require().NoError(err)
	suite.service = services.NewAbilityService(
		suite.mockTokenSvc,
		suite.mockMediaRepo,
		suite.mockCollectionRepo,
		resolver,
		testLogger(),
	)
}

// --- UserGroups ---

func (suite *AbilityServiceTestSuite) TestUserGroups_Anonymous() {
	groups := suite.service.UserGroups(context.Background(), portssvc.AccessContext{})
	suite.Equal([]string{domain.GroupPublic}, groups)
}

func (suite *AbilityServiceTestSuite) TestUserGroups_Composition() {
	ctx := context.Background()
	mediaObjectID := uuid.NewString()
	token := &domain.AccessToken{
		AccessTokenID: uuid.NewString(),
		Token:         "dltoken",
		MediaObjectID: mediaObjectID,
		Expiration:    time.Now().Add(time.Hour),
		AllowDownload: true,
	}
	suite.mockTokenSvc.On("FindByTokenString", ctx, "dltoken").Return(token, nil).Once()

	actx := portssvc.AccessContext{
		User:           &domain.User{UserID: uuid.NewString(), Groups: []string{domain.GroupAdministrator}},
		PresentedToken: "dltoken",
		ClientIP:       "10.1.2.3",
		ExternalGroups: []string{"course:mus101"},
	}
	groups := suite.service.UserGroups(ctx, actx)

	suite.Contains(groups, domain.GroupPublic)
	suite.Contains(groups, domain.GroupRegistered)
	suite.Contains(groups, domain.GroupAdministrator)
	suite.Contains(groups, "course:mus101")
	suite.Contains(groups, "10.1.2.3")
	suite.Contains(groups, "ip_manager:campus")
	suite.NotContains(groups, "ip_manager:library")
	suite.Contains(groups, domain.TokenDownloadGroupName(mediaObjectID))
	suite.IsIncreasing(groups)
}

func (suite *AbilityServiceTestSuite) TestUserGroups_InactiveTokenContributesNothing() {
	ctx := context.Background()
	token := &domain.AccessToken{
		Token:         "stale",
		MediaObjectID: uuid.NewString(),
		Expiration:    time.Now().Add(-time.Hour),
		AllowDownload: true,
	}
	suite.mockTokenSvc.On("FindByTokenString", ctx, "stale").Return(token, nil).Once()

	groups := suite.service.UserGroups(ctx, portssvc.AccessContext{PresentedToken: "stale"})

	suite.NotContains(groups, domain.TokenDownloadGroupName(token.MediaObjectID))
}

func (suite *AbilityServiceTestSuite) TestUserGroups_StreamingOnlyTokenGrantsNoDownloadGroup() {
	ctx := context.Background()
	token := &domain.AccessToken{
		Token:          "streamonly",
		MediaObjectID:  uuid.NewString(),
		Expiration:     time.Now().Add(time.Hour),
		AllowStreaming: true,
	}
	suite.mockTokenSvc.On("FindByTokenString", ctx, "streamonly").Return(token, nil).Once()

	groups := suite.service.UserGroups(ctx, portssvc.AccessContext{PresentedToken: "streamonly"})

	suite.NotContains(groups, domain.TokenDownloadGroupName(token.MediaObjectID))
}

func (suite *AbilityServiceTestSuite) TestUserGroups_GarbageTokenHarmless() {
	ctx := context.Background()
	suite.mockTokenSvc.On("FindByTokenString", ctx, "garbage").Return(nil, apperrors.ErrNotFound).Once()

	groups := suite.service.UserGroups(ctx, portssvc.AccessContext{PresentedToken: "garbage"})

	suite.Equal([]string{domain.GroupPublic}, groups)
}

// --- Can ---

func (suite *AbilityServiceTestSuite) TestCan_AdministratorListAll() {
	actx := portssvc.AccessContext{
		User:      &domain.User{UserID: uuid.NewString(), Groups: []string{domain.GroupAdministrator}},
		FullLogin: true,
	}
	suite.True(suite.service.Can(context.Background(), actx, portssvc.ActionListAllTokens, nil))
}

func (suite *AbilityServiceTestSuite) TestCan_ScopedSessionDeniedDespiteAdministrator() {
	// An LTI-scoped session is neither a full login nor an API login; the
	// deny wins even though the administrator rule would allow.
	actx := portssvc.AccessContext{
		User: &domain.User{UserID: uuid.NewString(), Groups: []string{domain.GroupAdministrator}},
	}
	suite.False(suite.service.Can(context.Background(), actx, portssvc.ActionListAllTokens, nil))
	suite.False(suite.service.Can(context.Background(), actx, portssvc.ActionCreateToken, nil))
}

func (suite *AbilityServiceTestSuite) TestCan_ReadPublishedMediaObject() {
	mediaObject := &domain.MediaObject{MediaObjectID: uuid.NewString(), Published: true}
	suite.True(suite.service.Can(context.Background(), portssvc.AccessContext{}, portssvc.ActionRead, mediaObject))
}

func (suite *AbilityServiceTestSuite) TestCan_ReadUnpublishedDeniedToAnonymous() {
	mediaObject := &domain.MediaObject{MediaObjectID: uuid.NewString(), Published: false}
	suite.False(suite.service.Can(context.Background(), portssvc.AccessContext{}, portssvc.ActionRead, mediaObject))
}

func (suite *AbilityServiceTestSuite) TestCan_FullReadViaExternalGroup() {
	mediaObject := &domain.MediaObject{
		MediaObjectID: uuid.NewString(),
		Published:     true,
		ReadGroups:    []string{"course:mus101"},
	}
	actx := portssvc.AccessContext{ExternalGroups: []string{"course:mus101"}}
	suite.True(suite.service.Can(context.Background(), actx, portssvc.ActionFullRead, mediaObject))
}

func (suite *AbilityServiceTestSuite) TestCan_FullReadDeniedOnUnpublishedDespiteReadGroup() {
	mediaObject := &domain.MediaObject{
		MediaObjectID: uuid.NewString(),
		Published:     false,
		ReadGroups:    []string{"course:mus101"},
	}
	actx := portssvc.AccessContext{ExternalGroups: []string{"course:mus101"}}
	suite.False(suite.service.Can(context.Background(), actx, portssvc.ActionFullRead, mediaObject))
}

func (suite *AbilityServiceTestSuite) TestCan_FullReadViaIPGroup() {
	mediaObject := &domain.MediaObject{
		MediaObjectID: uuid.NewString(),
		Published:     true,
		ReadGroups:    []string{"ip_manager:library"},
	}
	actx := portssvc.AccessContext{ClientIP: "192.168.10.44"}
	suite.True(suite.service.Can(context.Background(), actx, portssvc.ActionFullRead, mediaObject))
}

func (suite *AbilityServiceTestSuite) TestCan_StreamWithActiveToken() {
	ctx := context.Background()
	mediaObject := &domain.MediaObject{MediaObjectID: uuid.NewString(), Published: true}
	token := &domain.AccessToken{
		Token:          "streamer",
		MediaObjectID:  mediaObject.MediaObjectID,
		Expiration:     time.Now().Add(time.Hour),
		AllowStreaming: true,
	}
	suite.mockTokenSvc.On("FindByTokenString", ctx, "streamer").Return(token, nil)
	suite.mockTokenSvc.On("AllowStreamingOf", ctx, "streamer", mediaObject.MediaObjectID).Return(true).Once()

	actx := portssvc.AccessContext{PresentedToken: "streamer"}
	suite.True(suite.service.Can(ctx, actx, portssvc.ActionStream, mediaObject))
}

func (suite *AbilityServiceTestSuite) TestCan_StreamTokenUselessOnUnpublishedObject() {
	ctx := context.Background()
	mediaObject := &domain.MediaObject{MediaObjectID: uuid.NewString(), Published: false}
	token := &domain.AccessToken{
		Token:          "streamer",
		MediaObjectID:  mediaObject.MediaObjectID,
		Expiration:     time.Now().Add(time.Hour),
		AllowStreaming: true,
	}
	suite.mockTokenSvc.On("FindByTokenString", ctx, "streamer").Return(token, nil)

	actx := portssvc.AccessContext{PresentedToken: "streamer"}
	suite.False(suite.service.Can(ctx, actx, portssvc.ActionStream, mediaObject))
	suite.mockTokenSvc.AssertNotCalled(suite.T(), "AllowStreamingOf", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AbilityServiceTestSuite) TestCan_StreamDeniedWithoutSignals() {
	mediaObject := &domain.MediaObject{MediaObjectID: uuid.NewString(), Published: true}
	suite.False(suite.service.Can(context.Background(), portssvc.AccessContext{}, portssvc.ActionStream, mediaObject))
}

func (suite *AbilityServiceTestSuite) TestCan_DownloadViaTokenGroup() {
	ctx := context.Background()
	mediaObjectID := uuid.NewString()
	masterFile := &domain.MasterFile{MasterFileID: uuid.NewString(), MediaObjectID: mediaObjectID}
	token := &domain.AccessToken{
		Token:         "dltoken",
		MediaObjectID: mediaObjectID,
		Expiration:    time.Now().Add(time.Hour),
		AllowDownload: true,
	}
	suite.mockTokenSvc.On("FindByTokenString", ctx, "dltoken").Return(token, nil)
	suite.mockMediaRepo.On("FindMediaObjectByID", ctx, mediaObjectID).
		Return(&domain.MediaObject{MediaObjectID: mediaObjectID, CollectionID: uuid.NewString(), Published: true}, nil)

	actx := portssvc.AccessContext{PresentedToken: "dltoken"}
	suite.True(suite.service.Can(ctx, actx, portssvc.ActionMasterFileDownload, masterFile))
}

func (suite *AbilityServiceTestSuite) TestCan_DownloadDeniedForStranger() {
	ctx := context.Background()
	mediaObjectID := uuid.NewString()
	collectionID := uuid.NewString()
	masterFile := &domain.MasterFile{MasterFileID: uuid.NewString(), MediaObjectID: mediaObjectID}

	suite.mockMediaRepo.On("FindMediaObjectByID", ctx, mediaObjectID).
		Return(&domain.MediaObject{MediaObjectID: mediaObjectID, CollectionID: collectionID, Published: true}, nil)
	suite.mockCollectionRepo.On("FindCollectionByID", ctx, collectionID).
		Return(&domain.Collection{CollectionID: collectionID}, nil)

	actx := portssvc.AccessContext{User: &domain.User{UserID: uuid.NewString()}, FullLogin: true}
	suite.False(suite.service.Can(ctx, actx, portssvc.ActionMasterFileDownload, masterFile))
}

func (suite *AbilityServiceTestSuite) TestCan_DownloadViaCollectionMembership() {
	ctx := context.Background()
	userID := uuid.NewString()
	mediaObjectID := uuid.NewString()
	collectionID := uuid.NewString()
	masterFile := &domain.MasterFile{MasterFileID: uuid.NewString(), MediaObjectID: mediaObjectID}

	suite.mockMediaRepo.On("FindMediaObjectByID", ctx, mediaObjectID).
		Return(&domain.MediaObject{MediaObjectID: mediaObjectID, CollectionID: collectionID}, nil)
	suite.mockCollectionRepo.On("FindCollectionByID", ctx, collectionID).
		Return(&domain.Collection{CollectionID: collectionID, Managers: []string{userID}}, nil)

	actx := portssvc.AccessContext{User: &domain.User{UserID: userID}, FullLogin: true}
	suite.True(suite.service.Can(ctx, actx, portssvc.ActionMasterFileDownload, masterFile))
}

func (suite *AbilityServiceTestSuite) TestCan_CreateTokenByCollectionDepositor() {
	ctx := context.Background()
	userID := uuid.NewString()
	mediaObjectID := uuid.NewString()
	collectionID := uuid.NewString()
	prototype := &domain.AccessToken{MediaObjectID: mediaObjectID}

	suite.mockMediaRepo.On("FindMediaObjectByID", ctx, mediaObjectID).
		Return(&domain.MediaObject{MediaObjectID: mediaObjectID, CollectionID: collectionID}, nil)
	suite.mockCollectionRepo.On("FindCollectionByID", ctx, collectionID).
		Return(&domain.Collection{CollectionID: collectionID, Depositors: []string{userID}}, nil)

	actx := portssvc.AccessContext{User: &domain.User{UserID: userID}, FullLogin: true}
	suite.True(suite.service.Can(ctx, actx, portssvc.ActionCreateToken, prototype))
}

func (suite *AbilityServiceTestSuite) TestCan_UpdateTokenDeniedToNonMember() {
	ctx := context.Background()
	mediaObjectID := uuid.NewString()
	collectionID := uuid.NewString()
	token := &domain.AccessToken{AccessTokenID: uuid.NewString(), MediaObjectID: mediaObjectID}

	suite.mockMediaRepo.On("FindMediaObjectByID", ctx, mediaObjectID).
		Return(&domain.MediaObject{MediaObjectID: mediaObjectID, CollectionID: collectionID}, nil)
	suite.mockCollectionRepo.On("FindCollectionByID", ctx, collectionID).
		Return(&domain.Collection{CollectionID: collectionID}, nil)

	actx := portssvc.AccessContext{User: &domain.User{UserID: uuid.NewString()}, FullLogin: true}
	suite.False(suite.service.Can(ctx, actx, portssvc.ActionUpdateToken, token))
}

func TestAbilityServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AbilityServiceTestSuite))
}
