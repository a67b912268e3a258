package acceptance

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/service"
	"github.com/signalforge/zairix-api/internal/utils"
)

func (s *Suite) passwordResetFixture() (service.PasswordResetService, *captureMailer) {
	mailer := &captureMailer{}
	manager := utils.NewSessionManager(testSessionSecret, 30*24*time.Hour)
	revoked := service.NewRevokedSessions(s.Redis)
	sessions := service.NewSessionService(s.Repos.Session, manager, revoked, 30*24*time.Hour)

	svc := service.NewPasswordResetService(
		s.Repos,
		sessions,
		manager,
		mailer,
		testTokenPepper,
		30*time.Minute,
		30*24*time.Hour,
		4,
		s.BaseURL,
	)
	return svc, mailer
}

// resetToken extracts the raw token from a captured reset link.
func (s *Suite) resetToken(mail capturedMail) string {
	parsed, err := url.Parse(mail.Link)
	s.Require().NoError(err)
	token := parsed.Query().Get("token")
	s.Require().NotEmpty(token)
	return token
}

func (s *Suite) TestPasswordReset_RequestNotConfigured() {
	resp := s.postJSON("/api/v1/auth/password-reset", dto.PasswordResetRequest{Email: "someone@example.com"})
	defer resp.Body.Close()

	s.Equal(http.StatusServiceUnavailable, resp.StatusCode)
	s.Equal("not_configured", decodeError(s, resp).Error)
}

func (s *Suite) TestPasswordReset_Flow() {
	s.register("reset@example.com", "oldpassword1")
	svc, mailer := s.passwordResetFixture()

	s.Require().NoError(svc.Request(context.Background(), "reset@example.com"))
	s.Require().Len(mailer.sent, 1)

	resp := s.postJSON("/api/v1/auth/password-reset/confirm", dto.PasswordResetConfirm{
		Email:    "reset@example.com",
		Token:    s.resetToken(mailer.sent[0]),
		Password: "newpassword1",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotNil(sessionCookie(resp), "confirmation should establish a session")

	oldLogin := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "reset@example.com",
		Password: "oldpassword1",
	})
	oldLogin.Body.Close()
	s.Equal(http.StatusUnauthorized, oldLogin.StatusCode)

	newLogin := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "reset@example.com",
		Password: "newpassword1",
	})
	newLogin.Body.Close()
	s.Equal(http.StatusOK, newLogin.StatusCode)
}

func (s *Suite) TestPasswordReset_TokenSingleUse() {
	s.register("resetonce@example.com", "oldpassword1")
	svc, mailer := s.passwordResetFixture()

	s.Require().NoError(svc.Request(context.Background(), "resetonce@example.com"))
	token := s.resetToken(mailer.sent[0])

	first := s.postJSON("/api/v1/auth/password-reset/confirm", dto.PasswordResetConfirm{
		Email:    "resetonce@example.com",
		Token:    token,
		Password: "newpassword1",
	})
	first.Body.Close()
	s.Equal(http.StatusOK, first.StatusCode)

	second := s.postJSON("/api/v1/auth/password-reset/confirm", dto.PasswordResetConfirm{
		Email:    "resetonce@example.com",
		Token:    token,
		Password: "anotherpassword1",
	})
	defer second.Body.Close()
	s.Equal(http.StatusBadRequest, second.StatusCode)
	s.Equal("expired_or_invalid", decodeError(s, second).Error)
}

func (s *Suite) TestPasswordReset_BogusToken() {
	s.register("bogus@example.com", "oldpassword1")

	resp := s.postJSON("/api/v1/auth/password-reset/confirm", dto.PasswordResetConfirm{
		Email:    "bogus@example.com",
		Token:    "definitely-not-issued",
		Password: "newpassword1",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("expired_or_invalid", decodeError(s, resp).Error)
}
