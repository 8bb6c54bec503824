package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avstream/media_access_app/internal/apperrors"
	"github.com/avstream/media_access_app/internal/core/domain"
	portssvc "github.com/avstream/media_access_app/internal/core/ports/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserReader struct {
	mock.Mock
}

func (m *mockUserReader) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserReader) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// captureAccessContext runs the middleware chain against a request and hands
// back the context the handler observed.
func captureAccessContext(t *testing.T, userSvc portssvc.UserReaderSvc, pre gin.HandlerFunc, req *http.Request) portssvc.AccessContext {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var captured portssvc.AccessContext
	r := gin.New()
	if pre != nil {
		r.Use(pre)
	}
	r.Use(AccessContextMiddleware(userSvc))
	r.GET("/probe", func(c *gin.Context) {
		captured = GetAccessContext(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	return captured
}

func TestAccessContextMiddleware_Anonymous(t *testing.T) {
	userSvc := new(mockUserReader)
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)

	actx := captureAccessContext(t, userSvc, nil, req)

	assert.Nil(t, actx.User)
	assert.False(t, actx.FullLogin)
	assert.Empty(t, actx.PresentedToken)
	assert.NotEmpty(t, actx.ClientIP)
	userSvc.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
}

func TestAccessContextMiddleware_QueryTokenWinsOverHeader(t *testing.T) {
	userSvc := new(mockUserReader)
	req := httptest.NewRequest(http.MethodGet, "/probe?access_token=fromquery", nil)
	req.Header.Set(AccessTokenHeader, "fromheader")

	actx := captureAccessContext(t, userSvc, nil, req)

	assert.Equal(t, "fromquery", actx.PresentedToken)
}

func TestAccessContextMiddleware_HeaderToken(t *testing.T) {
	userSvc := new(mockUserReader)
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(AccessTokenHeader, "fromheader")

	actx := captureAccessContext(t, userSvc, nil, req)

	assert.Equal(t, "fromheader", actx.PresentedToken)
}

func TestAccessContextMiddleware_ExternalGroups(t *testing.T) {
	userSvc := new(mockUserReader)
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set(ExternalGroupsHeader, "course:mus101, course:hist200,, ")

	actx := captureAccessContext(t, userSvc, nil, req)

	assert.Equal(t, []string{"course:mus101", "course:hist200"}, actx.ExternalGroups)
}

func TestAccessContextMiddleware_AuthenticatedFullLogin(t *testing.T) {
	user := &domain.User{UserID: "u-1", Username: "archivist"}
	userSvc := new(mockUserReader)
	userSvc.On("GetUserByID", mock.Anything, "u-1").Return(user, nil).Once()

	pre := func(c *gin.Context) {
		c.Set(string(userIDKey), "u-1")
		c.Set(authMethodKey, AuthMethodJWT)
		c.Next()
	}
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)

	actx := captureAccessContext(t, userSvc, pre, req)

	require.NotNil(t, actx.User)
	assert.Equal(t, "u-1", actx.User.UserID)
	assert.True(t, actx.FullLogin)
	userSvc.AssertExpectations(t)
}

func TestAccessContextMiddleware_UnresolvableUserTreatedAsAnonymous(t *testing.T) {
	userSvc := new(mockUserReader)
	userSvc.On("GetUserByID", mock.Anything, "gone").Return(nil, apperrors.ErrNotFound).Once()

	pre := func(c *gin.Context) {
		c.Set(string(userIDKey), "gone")
		c.Set(authMethodKey, AuthMethodJWT)
		c.Next()
	}
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)

	actx := captureAccessContext(t, userSvc, pre, req)

	assert.Nil(t, actx.User)
	assert.False(t, actx.FullLogin)
}

func TestGetAccessContext_WithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/probe", nil)

	actx := GetAccessContext(c)

	assert.Nil(t, actx.User)
	assert.NotEmpty(t, actx.ClientIP)
}
