package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/skyfare/ticketdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return "", nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*domain.User), args.Error(2)
}

func (m *MockAuthUseCase) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthUseCase) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func authRouter(authSvc *MockAuthUseCase, roles ...domain.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/", RequireAuth(authSvc))
	if len(roles) > 0 {
		group = group.Group("", RequireRole(roles...))
	}
	group.GET("/probe", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": currentUser(c).ID})
	})
	return r
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	r := authRouter(&MockAuthUseCase{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/probe", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_BadToken(t *testing.T) {
	mockAuth := &MockAuthUseCase{}
	r := authRouter(mockAuth)

	mockAuth.On("Authenticate", mock.Anything, "bogus").
		Return(nil, fmt.Errorf("invalid or expired token: %w", domain.ErrUnauthorized))

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer bogus")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_Success(t *testing.T) {
	mockAuth := &MockAuthUseCase{}
	r := authRouter(mockAuth)

	mockAuth.On("Authenticate", mock.Anything, "valid").Return(staffUser(), nil)

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer valid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestRequireRole_Forbidden(t *testing.T) {
	mockAuth := &MockAuthUseCase{}
	r := authRouter(mockAuth, domain.UserRoleAdmin, domain.UserRoleManager)

	mockAuth.On("Authenticate", mock.Anything, "valid").Return(staffUser(), nil)

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer valid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRole_ManagerAllowed(t *testing.T) {
	mockAuth := &MockAuthUseCase{}
	r := authRouter(mockAuth, domain.UserRoleAdmin, domain.UserRoleManager)

	mockAuth.On("Authenticate", mock.Anything, "valid").Return(managerUser(), nil)

	req := httptest.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer valid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
