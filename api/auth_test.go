package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skyfare/ticketdesk/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestAuthHandler_login(t *testing.T) {
	mockAuth := &MockAuthUseCase{}
	handler := NewAuthHandler(mockAuth)

	c, w := testContext(t, nil)
	body, _ := json.Marshal(loginRequest{Email: "staff@example.com", Password: "secret"})
	c.Request = httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockAuth.On("Login", c.Request.Context(), "staff@example.com", "secret").
		Return("token-abc", staffUser(), nil)

	handler.login(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response loginResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "token-abc", response.Token)
	assert.Equal(t, "staff", response.User.Role)
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_login_InvalidCredentials(t *testing.T) {
	mockAuth := &MockAuthUseCase{}
	handler := NewAuthHandler(mockAuth)

	c, w := testContext(t, nil)
	body, _ := json.Marshal(loginRequest{Email: "staff@example.com", Password: "wrong"})
	c.Request = httptest.NewRequest("POST", "/auth/login", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockAuth.On("Login", c.Request.Context(), "staff@example.com", "wrong").
		Return("", nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized))

	handler.login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_logout(t *testing.T) {
	mockAuth := &MockAuthUseCase{}
	handler := NewAuthHandler(mockAuth)

	c, w := testContext(t, nil)
	c.Request = httptest.NewRequest("POST", "/auth/logout", nil)
	c.Request.Header.Set("Authorization", "Bearer token-abc")

	mockAuth.On("Logout", c.Request.Context(), "token-abc").Return(nil)

	handler.logout(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockAuth.AssertExpectations(t)
}

func TestAuthHandler_logout_MissingToken(t *testing.T) {
	handler := NewAuthHandler(&MockAuthUseCase{})

	c, w := testContext(t, nil)
	c.Request = httptest.NewRequest("POST", "/auth/logout", nil)

	handler.logout(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
