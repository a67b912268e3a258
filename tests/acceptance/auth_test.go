package acceptance

import (
	"encoding/json"
	"net/http"

	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/dto"
)

func (s *Suite) TestRegister_Success() {
	cookie, authResp := s.register("test@example.com", "password123")

	s.Equal("test@example.com", authResp.User.Email)
	s.NotEmpty(authResp.User.ID)
	s.Equal(domain.PlanFree, authResp.User.Plan)
	s.Equal(domain.RoleUser, authResp.User.Role)
	s.NotZero(authResp.ExpiresIn)

	s.True(cookie.HttpOnly, "session cookie should be HTTP-only")
}

func (s *Suite) TestRegister_DuplicateEmail() {
	s.register("duplicate@example.com", "password123")

	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Email:    "duplicate@example.com",
		Password: "password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("user_exists", decodeError(s, resp).Error)
}

func (s *Suite) TestRegister_InvalidEmail() {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Email:    "invalid-email",
		Password: "password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestRegister_WeakPassword() {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{
		Email:    "weak@example.com",
		Password: "12345678",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_Success() {
	s.register("login@example.com", "password123")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))
	s.Equal("login@example.com", authResp.User.Email)
	s.NotNil(sessionCookie(resp), "login should set the session cookie")
}

func (s *Suite) TestLogin_WrongPassword() {
	s.register("wrongpass@example.com", "password123")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "wrongpass@example.com",
		Password: "password456",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal("unauthenticated", decodeError(s, resp).Error)
}

func (s *Suite) TestLogin_UnknownEmail() {
	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "nonexistent@example.com",
		Password: "password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe_Success() {
	cookie, _ := s.register("getme@example.com", "password123")

	resp := s.getJSON("/api/v1/auth/me", cookie)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var me dto.MeResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&me))
	s.Equal("getme@example.com", me.Email)
	s.Equal(domain.PlanFree, me.Plan)
	s.False(me.IsEmailVerified)
	s.Zero(me.SignalsViewed)
	s.Zero(me.InsightsUsed)
	s.Zero(me.InsightsLimit, "FREE plan has no insight capacity")
}

func (s *Suite) TestGetMe_NoSession() {
	resp := s.getJSON("/api/v1/auth/me")
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestGetMe_GarbageCookie() {
	resp := s.getJSON("/api/v1/auth/me", &http.Cookie{Name: "em_session", Value: "not-a-signed-token"})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogout_RevokesSession() {
	cookie, _ := s.register("logout@example.com", "password123")

	resp := s.postJSON("/api/v1/auth/logout", struct{}{}, cookie)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	// The signed token is still well-formed but the session id is now
	// revoked, so it must stop working.
	meResp := s.getJSON("/api/v1/auth/me", cookie)
	defer meResp.Body.Close()
	s.Equal(http.StatusUnauthorized, meResp.StatusCode)
}

func (s *Suite) TestLogout_NoSession() {
	resp := s.postJSON("/api/v1/auth/logout", struct{}{})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
