package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/avstream/media_access_app/internal/apperrors"
	"github.com/avstream/media_access_app/internal/core/domain"
	portssvc "github.com/avstream/media_access_app/internal/core/ports/services"
	"github.com/avstream/media_access_app/internal/core/services"
	"github.com/avstream/media_access_app/internal/dto"
	"github.com/avstream/media_access_app/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockAccessTokenRepository is a mock type for the AccessTokenRepository interface
type MockAccessTokenRepository struct {
	mock.Mock
}

func (m *MockAccessTokenRepository) CreateAccessToken(ctx context.Context, token domain.AccessToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAccessTokenRepository) FindAccessTokenByID(ctx context.Context, accessTokenID string) (*domain.AccessToken, error) {
	args := m.Called(ctx, accessTokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessToken), args.Error(1)
}

func (m *MockAccessTokenRepository) FindAccessTokenByToken(ctx context.Context, tokenString string) (*domain.AccessToken, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccessToken), args.Error(1)
}

func (m *MockAccessTokenRepository) ListAccessTokens(ctx context.Context, status domain.TokenStatus, limit int, afterExpiration *time.Time, afterID string) ([]domain.AccessToken, error) {
	args := m.Called(ctx, status, limit, afterExpiration, afterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccessToken), args.Error(1)
}

func (m *MockAccessTokenRepository) FindUnexpiredAccessTokens(ctx context.Context) ([]domain.AccessToken, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccessToken), args.Error(1)
}

func (m *MockAccessTokenRepository) UpdateAccessToken(ctx context.Context, token domain.AccessToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockMediaObjectRepository is a mock type for the MediaObjectRepository interface
type MockMediaObjectRepository struct {
	mock.Mock
}

func (m *MockMediaObjectRepository) CreateMediaObject(ctx context.Context, mediaObject domain.MediaObject) error {
	args := m.Called(ctx, mediaObject)
	return args.Error(0)
}

func (m *MockMediaObjectRepository) MediaObjectExists(ctx context.Context, mediaObjectID string) (bool, error) {
	args := m.Called(ctx, mediaObjectID)
	return args.Bool(0), args.Error(1)
}

func (m *MockMediaObjectRepository) FindMediaObjectByID(ctx context.Context, mediaObjectID string) (*domain.MediaObject, error) {
	args := m.Called(ctx, mediaObjectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MediaObject), args.Error(1)
}

func (m *MockMediaObjectRepository) SetPublished(ctx context.Context, mediaObjectID string, published bool) error {
	args := m.Called(ctx, mediaObjectID, published)
	return args.Error(0)
}

func (m *MockMediaObjectRepository) AddReadGroup(ctx context.Context, mediaObjectID, group string) error {
	args := m.Called(ctx, mediaObjectID, group)
	return args.Error(0)
}

func (m *MockMediaObjectRepository) RemoveReadGroup(ctx context.Context, mediaObjectID, group string) error {
	args := m.Called(ctx, mediaObjectID, group)
	return args.Error(0)
}

func (m *MockMediaObjectRepository) CreateMasterFile(ctx context.Context, masterFile domain.MasterFile) error {
	args := m.Called(ctx, masterFile)
	return args.Error(0)
}

func (m *MockMediaObjectRepository) FindMasterFileByID(ctx context.Context, masterFileID string) (*domain.MasterFile, error) {
	args := m.Called(ctx, masterFileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MasterFile), args.Error(1)
}

// MockCollectionRepository is a mock type for the CollectionRepository interface
type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) CreateCollection(ctx context.Context, collection domain.Collection) error {
	args := m.Called(ctx, collection)
	return args.Error(0)
}

func (m *MockCollectionRepository) FindCollectionByID(ctx context.Context, collectionID string) (*domain.Collection, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Collection), args.Error(1)
}

func (m *MockCollectionRepository) UserIsMemberOfAnyCollection(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// --- Test Suite Setup ---

type AccessTokenServiceTestSuite struct {
	suite.Suite
	mockTokenRepo      *MockAccessTokenRepository
	mockMediaRepo      *MockMediaObjectRepository
	mockCollectionRepo *MockCollectionRepository
	service            portssvc.AccessTokenSvc

	admin         *domain.User
	mediaObjectID string
	collectionID  string
}

func (suite *AccessTokenServiceTestSuite) SetupTest() {
	suite.mockTokenRepo = new(MockAccessTokenRepository)
	suite.mockMediaRepo = new(MockMediaObjectRepository)
	suite.mockCollectionRepo = new(MockCollectionRepository)
	suite.service = services.NewAccessTokenService(
		suite.mockTokenRepo,
		suite.mockMediaRepo,
		suite.mockCollectionRepo,
		testLogger(),
	)
	suite.admin = &domain.User{
		UserID: uuid.NewString(),
		Groups: []string{domain.GroupAdministrator},
	}
	suite.mediaObjectID = uuid.NewString()
	suite.collectionID = uuid.NewString()
}

func (suite *AccessTokenServiceTestSuite) activeToken() *domain.AccessToken {
	return &domain.AccessToken{
		AccessTokenID:  uuid.NewString(),
		Token:          "abcDEF123456xyz0",
		MediaObjectID:  suite.mediaObjectID,
		UserID:         suite.admin.UserID,
		Expiration:     time.Now().Add(24 * time.Hour),
		AllowStreaming: true,
	}
}

// --- Test Cases ---

func (suite *AccessTokenServiceTestSuite) TestCreateAccessToken_Success() {
	ctx := context.Background()
	req := dto.CreateAccessTokenRequest{
		MediaObjectID: suite.mediaObjectID,
		Expiration:    time.Now().Add(48 * time.Hour),
		AccessMode:    "streaming_and_download",
		Description:   "screening link for MUS 101",
	}

	suite.mockMediaRepo.On("MediaObjectExists", ctx, suite.mediaObjectID).Return(true, nil).Once()
	suite.mockTokenRepo.On("CreateAccessToken", ctx, mock.AnythingOfType("domain.AccessToken")).Return(nil).Once()
	suite.mockMediaRepo.On("AddReadGroup", ctx, suite.mediaObjectID, mock.AnythingOfType("string")).Return(nil).Once()

	token, err := suite.service.CreateAccessToken(ctx, req, suite.admin)

	suite.Require().NoError(err)
	suite.Require().NotNil(token)
	suite.NotEmpty(token.AccessTokenID)
	suite.Len(token.Token, 16)
	suite.Equal(suite.mediaObjectID, token.MediaObjectID)
	suite.Equal(suite.admin.UserID, token.UserID)
	suite.Equal(req.Description, token.Description)
	suite.True(token.AllowStreaming)
	suite.True(token.AllowDownload)
	suite.Equal(domain.TokenStatusActive, token.Status())
	suite.Equal(suite.admin.UserID, token.CreatedBy)
	suite.WithinDuration(time.Now(), token.CreatedAt, time.Second)

	suite.mockTokenRepo.AssertExpectations(suite.T())
	suite.mockMediaRepo.AssertExpectations(suite.T())
}

func (suite *AccessTokenServiceTestSuite) TestCreateAccessToken_ReadGroupFailureDoesNotFailCreation() {
	ctx := context.Background()
	req := dto.CreateAccessTokenRequest{
		MediaObjectID: suite.mediaObjectID,
		Expiration:    time.Now().Add(time.Hour),
		AccessMode:    "streaming_only",
	}

	suite.mockMediaRepo.On("MediaObjectExists", ctx, suite.mediaObjectID).Return(true, nil).Once()
	suite.mockTokenRepo.On("CreateAccessToken", ctx, mock.AnythingOfType("domain.AccessToken")).Return(nil).Once()
	suite.mockMediaRepo.On("AddReadGroup", ctx, suite.mediaObjectID, mock.AnythingOfType("string")).
		Return(errors.New("connection reset")).Once()

	token, err := suite.service.CreateAccessToken(ctx, req, suite.admin)

	suite.Require().NoError(err)
	suite.Require().NotNil(token)
	suite.mockMediaRepo.AssertExpectations(suite.T())
}

func (suite *AccessTokenServiceTestSuite) TestCreateAccessToken_PastExpiration() {
	ctx := context.Background()
	req := dto.CreateAccessTokenRequest{
		MediaObjectID: suite.mediaObjectID,
		Expiration:    time.Now().Add(-time.Hour),
	}

	suite.mockMediaRepo.On("MediaObjectExists", ctx, suite.mediaObjectID).Return(true, nil).Once()

	token, err := suite.service.CreateAccessToken(ctx, req, suite.admin)

	suite.Require().Error(err)
	suite.Nil(token)
	suite.ErrorIs(err, apperrors.ErrValidation)
	var ve apperrors.ValidationErrors
	suite.Require().ErrorAs(err, &ve)
	suite.Contains(ve["expiration"], "is in the past")
	suite.mockTokenRepo.AssertNotCalled(suite.T(), "CreateAccessToken", mock.Anything, mock.Anything)
}

func (suite *AccessTokenServiceTestSuite) TestCreateAccessToken_BlankExpiration() {
	ctx := context.Background()
	req := dto.CreateAccessTokenRequest{
		MediaObjectID: suite.mediaObjectID,
	}

	suite.mockMediaRepo.On("MediaObjectExists", ctx, suite.mediaObjectID).Return(true, nil).Once()

	_, err := suite.service.CreateAccessToken(ctx, req, suite.admin)

	suite.Require().Error(err)
	var ve apperrors.ValidationErrors
	suite.Require().ErrorAs(err, &ve)
	suite.Contains(ve["expiration"], "can't be blank")
}

func (suite *AccessTokenServiceTestSuite) TestCreateAccessToken_UnknownMediaObject() {
	ctx := context.Background()
	req := dto.CreateAccessTokenRequest{
		MediaObjectID: suite.mediaObjectID,
		Expiration:    time.Now().Add(time.Hour),
	}

	suite.mockMediaRepo.On("MediaObjectExists", ctx, suite.mediaObjectID).Return(false, nil).Once()

	_, err := suite.service.CreateAccessToken(ctx, req, suite.admin)

	suite.Require().Error(err)
	var ve apperrors.ValidationErrors
	suite.Require().ErrorAs(err, &ve)
	suite.Contains(ve["mediaObjectID"], "not found")
}

func (suite *AccessTokenServiceTestSuite) TestCreateAccessToken_CreatorWithoutRoleSeesNotFound() {
	ctx := context.Background()
	outsider := &domain.User{UserID: uuid.NewString()}
	req := dto.CreateAccessTokenRequest{
		MediaObjectID: suite.mediaObjectID,
		Expiration:    time.Now().Add(time.Hour),
	}

	suite.mockMediaRepo.On("MediaObjectExists", ctx, suite.mediaObjectID).Return(true, nil).Once()
	suite.mockMediaRepo.On("FindMediaObjectByID", ctx, suite.mediaObjectID).
		Return(&domain.MediaObject{MediaObjectID: suite.mediaObjectID, CollectionID: suite.collectionID}, nil).Once()
	suite.mockCollectionRepo.On("FindCollectionByID", ctx, suite.collectionID).
		Return(&domain.Collection{CollectionID: suite.collectionID, Managers: []string{"someone-else"}}, nil).Once()

	_, err := suite.service.CreateAccessToken(ctx, req, outsider)

	suite.Require().Error(err)
	var ve apperrors.ValidationErrors
	suite.Require().ErrorAs(err, &ve)
	// Indistinguishable from a nonexistent media object.
	suite.Contains(ve["mediaObjectID"], "not found")
	suite.mockTokenRepo.AssertNotCalled(suite.T(), "CreateAccessToken", mock.Anything, mock.Anything)
}

func (suite *AccessTokenServiceTestSuite) TestCreateAccessToken_NilCreator() {
	_, err := suite.service.CreateAccessToken(context.Background(), dto.CreateAccessTokenRequest{}, nil)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AccessTokenServiceTestSuite) TestGetAccessTokenByID_ForbiddenForOutsider() {
	ctx := context.Background()
	outsider := &domain.User{UserID: uuid.NewString()}
	token := suite.activeToken()

	suite.mockTokenRepo.On("FindAccessTokenByID", ctx, token.AccessTokenID).Return(token, nil).Once()
	suite.mockMediaRepo.On("FindMediaObjectByID", ctx, suite.mediaObjectID).
		Return(&domain.MediaObject{MediaObjectID: suite.mediaObjectID, CollectionID: suite.collectionID}, nil).Once()
	suite.mockCollectionRepo.On("FindCollectionByID", ctx, suite.collectionID).
		Return(&domain.Collection{CollectionID: suite.collectionID}, nil).Once()

	_, err := suite.service.GetAccessTokenByID(ctx, token.AccessTokenID, outsider)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *AccessTokenServiceTestSuite) TestGetAccessTokenByID_CollectionMember() {
	ctx := context.Background()
	depositor := &domain.User{UserID: uuid.NewString()}
	token := suite.activeToken()

	suite.mockTokenRepo.On("FindAccessTokenByID", ctx, token.AccessTokenID).Return(token, nil).Once()
	suite.mockMediaRepo.On("FindMediaObjectByID", ctx, suite.mediaObjectID).
		Return(&domain.MediaObject{MediaObjectID: suite.mediaObjectID, CollectionID: suite.collectionID}, nil).Once()
	suite.mockCollectionRepo.On("FindCollectionByID", ctx, suite.collectionID).
		Return(&domain.Collection{CollectionID: suite.collectionID, Depositors: []string{depositor.UserID}}, nil).Once()

	got, err := suite.service.GetAccessTokenByID(ctx, token.AccessTokenID, depositor)

	suite.Require().NoError(err)
	suite.Equal(token.AccessTokenID, got.AccessTokenID)
}

func (suite *AccessTokenServiceTestSuite) TestUpdateAccessToken_ExpirationChangeIgnored() {
	ctx := context.Background()
	token := suite.activeToken()
	originalExpiration := token.Expiration
	newDescription := "updated description"
	newExpiration := originalExpiration.Add(72 * time.Hour)
	req := dto.UpdateAccessTokenRequest{
		Description: &newDescription,
		Expiration:  &newExpiration,
	}

	suite.mockTokenRepo.On("FindAccessTokenByID", ctx, token.AccessTokenID).Return(token, nil).Once()
	suite.mockTokenRepo.On("UpdateAccessToken", ctx, mock.MatchedBy(func(t domain.AccessToken) bool {
		return t.Expiration.Equal(originalExpiration) && t.Description == newDescription
	})).Return(nil).Once()

	updated, err := suite.service.UpdateAccessToken(ctx, token.AccessTokenID, req, suite.admin)

	suite.Require().NoError(err)
	suite.True(updated.Expiration.Equal(originalExpiration))
	suite.Equal(newDescription, updated.Description)
	suite.mockTokenRepo.AssertExpectations(suite.T())
}

func (suite *AccessTokenServiceTestSuite) TestUpdateAccessToken_AccessModeChange() {
	ctx := context.Background()
	token := suite.activeToken()
	newMode := "download_only"
	req := dto.UpdateAccessTokenRequest{AccessMode: &newMode}

	suite.mockTokenRepo.On("FindAccessTokenByID", ctx, token.AccessTokenID).Return(token, nil).Once()
	suite.mockTokenRepo.On("UpdateAccessToken", ctx, mock.AnythingOfType("domain.AccessToken")).Return(nil).Once()

	updated, err := suite.service.UpdateAccessToken(ctx, token.AccessTokenID, req, suite.admin)

	suite.Require().NoError(err)
	suite.False(updated.AllowStreaming)
	suite.True(updated.AllowDownload)
}

func (suite *AccessTokenServiceTestSuite) TestUpdateAccessToken_LapsedTokenExpiresAndDropsReadGroup() {
	ctx := context.Background()
	token := suite.activeToken()
	token.Expiration = time.Now().Add(-time.Minute)
	newDescription := "tidied up after the fact"
	req := dto.UpdateAccessTokenRequest{Description: &newDescription}

	suite.mockTokenRepo.On("FindAccessTokenByID", ctx, token.AccessTokenID).Return(token, nil).Once()
	suite.mockTokenRepo.On("UpdateAccessToken", ctx, mock.MatchedBy(func(t domain.AccessToken) bool {
		return t.Expired && !t.Revoked
	})).Return(nil).Once()
	suite.mockMediaRepo.On("RemoveReadGroup", ctx, token.MediaObjectID, token.Token).Return(nil).Once()

	updated, err := suite.service.UpdateAccessToken(ctx, token.AccessTokenID, req, suite.admin)

	suite.Require().NoError(err)
	suite.True(updated.Expired)
	suite.Equal(domain.TokenStatusExpired, updated.Status())
	suite.mockTokenRepo.AssertExpectations(suite.T())
	suite.mockMediaRepo.AssertExpectations(suite.T())
}

func (suite *AccessTokenServiceTestSuite) TestUpdateAccessToken_AlreadyExpiredTokenLeavesReadGroupsAlone() {
	ctx := context.Background()
	token := suite.activeToken()
	token.Expiration = time.Now().Add(-time.Hour)
	token.Expired = true
	newDescription := "metadata touch-up"
	req := dto.UpdateAccessTokenRequest{Description: &newDescription}

	suite.mockTokenRepo.On("FindAccessTokenByID", ctx, token.AccessTokenID).Return(token, nil).Once()
	suite.mockTokenRepo.On("UpdateAccessToken", ctx, mock.AnythingOfType("domain.AccessToken")).Return(nil).Once()

	_, err := suite.service.UpdateAccessToken(ctx, token.AccessTokenID, req, suite.admin)

	suite.Require().NoError(err)
	suite.mockMediaRepo.AssertNotCalled(suite.T(), "RemoveReadGroup", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccessTokenServiceTestSuite) TestUpdateAccessToken_UnrevokeForbidden() {
	ctx := context.Background()
	token := suite.activeToken()
	token.Revoked = true
	unrevoke := false
	req := dto.UpdateAccessTokenRequest{Revoked: &unrevoke}

	suite.mockTokenRepo.On("FindAccessTokenByID", ctx, token.AccessTokenID).Return(token, nil).Once()

	_, err := suite.service.UpdateAccessToken(ctx, token.AccessTokenID, req, suite.admin)

	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockTokenRepo.AssertNotCalled(suite.T(), "UpdateAccessToken", mock.Anything, mock.Anything)
}

func (suite *AccessTokenServiceTestSuite) TestRevokeAccessToken_RemovesReadGroup() {
	ctx := context.Background()
	token := suite.activeToken()

	suite.mockTokenRepo.On("FindAccessTokenByID", ctx, token.AccessTokenID).Return(token, nil).Once()
	suite.mockTokenRepo.On("UpdateAccessToken", ctx, mock.MatchedBy(func(t domain.AccessToken) bool {
		return t.Revoked
	})).Return(nil).Once()
	suite.mockMediaRepo.On("RemoveReadGroup", ctx, token.MediaObjectID, token.Token).Return(nil).Once()

	revoked, err := suite.service.RevokeAccessToken(ctx, token.AccessTokenID, suite.admin)

	suite.Require().NoError(err)
	suite.True(revoked.Revoked)
	suite.Equal(domain.TokenStatusRevoked, revoked.Status())
	suite.mockTokenRepo.AssertExpectations(suite.T())
	suite.mockMediaRepo.AssertExpectations(suite.T())
}

func (suite *AccessTokenServiceTestSuite) TestExpireAccessToken_DueToken() {
	ctx := context.Background()
	token := suite.activeToken()
	token.Expiration = time.Now().Add(-time.Minute)

	suite.mockTokenRepo.On("UpdateAccessToken", ctx, mock.MatchedBy(func(t domain.AccessToken) bool {
		return t.Expired
	})).Return(nil).Once()
	suite.mockMediaRepo.On("RemoveReadGroup", ctx, token.MediaObjectID, token.Token).Return(nil).Once()

	err := suite.service.ExpireAccessToken(ctx, token)

	suite.Require().NoError(err)
	suite.True(token.Expired)
	suite.mockTokenRepo.AssertExpectations(suite.T())
	suite.mockMediaRepo.AssertExpectations(suite.T())
}

func (suite *AccessTokenServiceTestSuite) TestExpireAccessToken_NotYetDue() {
	token := suite.activeToken()

	err := suite.service.ExpireAccessToken(context.Background(), token)

	suite.Require().NoError(err)
	suite.False(token.Expired)
	suite.mockTokenRepo.AssertNotCalled(suite.T(), "UpdateAccessToken", mock.Anything, mock.Anything)
}

func (suite *AccessTokenServiceTestSuite) TestListAccessTokens_AdminPagination() {
	ctx := context.Background()
	base := time.Now().Add(time.Hour).Truncate(time.Second)
	tokens := make([]domain.AccessToken, 3)
	for i := range tokens {
		t := suite.activeToken()
		t.Expiration = base.Add(time.Duration(i) * time.Hour)
		tokens[i] = *t
	}
	req := dto.ListAccessTokensRequest{Status: "active", PageSize: 2}

	suite.mockTokenRepo.On("ListAccessTokens", ctx, domain.TokenStatusActive, 2, (*time.Time)(nil), "").
		Return(tokens, nil).Once()
	suite.mockTokenRepo.On("ListAccessTokens", ctx, domain.TokenStatusActive, 2, mock.AnythingOfType("*time.Time"), tokens[1].AccessTokenID).
		Return(tokens[2:], nil).Once()

	resp, err := suite.service.ListAccessTokens(ctx, req, suite.admin)

	suite.Require().NoError(err)
	suite.Require().Len(resp.AccessTokens, 2)
	suite.Equal(tokens[0].AccessTokenID, resp.AccessTokens[0].AccessTokenID)
	suite.Equal(tokens[1].AccessTokenID, resp.AccessTokens[1].AccessTokenID)
	suite.Require().NotEmpty(resp.NextPageToken)

	expiration, id, err := pagination.DecodeToken(resp.NextPageToken)
	suite.Require().NoError(err)
	suite.True(expiration.Equal(tokens[1].Expiration))
	suite.Equal(tokens[1].AccessTokenID, id)
	suite.mockTokenRepo.AssertExpectations(suite.T())
}

func (suite *AccessTokenServiceTestSuite) TestListAccessTokens_InvalidStatusDefaultsToActive() {
	ctx := context.Background()
	req := dto.ListAccessTokensRequest{Status: "bogus"}

	suite.mockTokenRepo.On("ListAccessTokens", ctx, domain.TokenStatusActive, 20, (*time.Time)(nil), "").
		Return([]domain.AccessToken{}, nil).Once()

	resp, err := suite.service.ListAccessTokens(ctx, req, suite.admin)

	suite.Require().NoError(err)
	suite.Empty(resp.AccessTokens)
	suite.Empty(resp.NextPageToken)
	suite.mockTokenRepo.AssertExpectations(suite.T())
}

func (suite *AccessTokenServiceTestSuite) TestListAccessTokens_InvalidPageToken() {
	req := dto.ListAccessTokensRequest{Status: "active", PageToken: "not-base64!!!"}

	_, err := suite.service.ListAccessTokens(context.Background(), req, suite.admin)

	suite.Require().Error(err)
	var ve apperrors.ValidationErrors
	suite.Require().ErrorAs(err, &ve)
	suite.Contains(ve["pageToken"], "is invalid")
}

func (suite *AccessTokenServiceTestSuite) TestListAccessTokens_FiltersForNonAdmin() {
	ctx := context.Background()
	editor := &domain.User{UserID: uuid.NewString()}

	mine := *suite.activeToken()
	other := *suite.activeToken()
	other.MediaObjectID = uuid.NewString()
	otherCollectionID := uuid.NewString()

	suite.mockTokenRepo.On("ListAccessTokens", ctx, domain.TokenStatusActive, 20, (*time.Time)(nil), "").
		Return([]domain.AccessToken{mine, other}, nil).Once()
	suite.mockMediaRepo.On("FindMediaObjectByID", ctx, mine.MediaObjectID).
		Return(&domain.MediaObject{MediaObjectID: mine.MediaObjectID, CollectionID: suite.collectionID}, nil).Once()
	suite.mockMediaRepo.On("FindMediaObjectByID", ctx, other.MediaObjectID).
		Return(&domain.MediaObject{MediaObjectID: other.MediaObjectID, CollectionID: otherCollectionID}, nil).Once()
	suite.mockCollectionRepo.On("FindCollectionByID", ctx, suite.collectionID).
		Return(&domain.Collection{CollectionID: suite.collectionID, Editors: []string{editor.UserID}}, nil).Once()
	suite.mockCollectionRepo.On("FindCollectionByID", ctx, otherCollectionID).
		Return(&domain.Collection{CollectionID: otherCollectionID}, nil).Once()

	resp, err := suite.service.ListAccessTokens(ctx, dto.ListAccessTokensRequest{Status: "active"}, editor)

	suite.Require().NoError(err)
	suite.Require().Len(resp.AccessTokens, 1)
	suite.Equal(mine.AccessTokenID, resp.AccessTokens[0].AccessTokenID)
	suite.Empty(resp.NextPageToken)
}

func (suite *AccessTokenServiceTestSuite) TestListAccessTokens_NilRequester() {
	_, err := suite.service.ListAccessTokens(context.Background(), dto.ListAccessTokensRequest{}, nil)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AccessTokenServiceTestSuite) TestFindByTokenString_Blank() {
	_, err := suite.service.FindByTokenString(context.Background(), "")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccessTokenServiceTestSuite) TestAllowStreamingOf() {
	ctx := context.Background()
	token := suite.activeToken()

	suite.mockTokenRepo.On("FindAccessTokenByToken", ctx, token.Token).Return(token, nil)
	suite.mockTokenRepo.On("FindAccessTokenByToken", ctx, "unknown").Return(nil, apperrors.ErrNotFound)

	suite.True(suite.service.AllowStreamingOf(ctx, token.Token, token.MediaObjectID))
	suite.False(suite.service.AllowStreamingOf(ctx, token.Token, "some-other-object"))
	suite.False(suite.service.AllowStreamingOf(ctx, "unknown", token.MediaObjectID))
	suite.False(suite.service.AllowStreamingOf(ctx, "", token.MediaObjectID))
}

func (suite *AccessTokenServiceTestSuite) TestAllowStreamingOf_RevokedToken() {
	ctx := context.Background()
	token := suite.activeToken()
	token.Revoked = true

	suite.mockTokenRepo.On("FindAccessTokenByToken", ctx, token.Token).Return(token, nil)

	suite.False(suite.service.AllowStreamingOf(ctx, token.Token, token.MediaObjectID))
}

func TestAccessTokenServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccessTokenServiceTestSuite))
}
