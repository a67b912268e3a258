package acceptance

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/service"
	"github.com/signalforge/zairix-api/internal/utils"
)

var linkPattern = regexp.MustCompile(`href="([^"]+)"`)

// captureMailer records outgoing mail instead of sending it.
type captureMailer struct {
	sent []capturedMail
}

type capturedMail struct {
	To   string
	Link string
}

func (m *captureMailer) Send(to, subject, htmlBody string) error {
	link := ""
	if match := linkPattern.FindStringSubmatch(htmlBody); match != nil {
		link = match[1]
	}
	m.sent = append(m.sent, capturedMail{To: to, Link: link})
	return nil
}

// magicLinkFixture wires the magic link service against the suite's
// database with a capturing mail transport, so tests can obtain the
// raw emailed token and present it to the running server.
func (s *Suite) magicLinkFixture() (service.MagicLinkService, *captureMailer) {
	mailer := &captureMailer{}
	manager := utils.NewSessionManager(testSessionSecret, 30*24*time.Hour)
	revoked := service.NewRevokedSessions(s.Redis)
	sessions := service.NewSessionService(s.Repos.Session, manager, revoked, 30*24*time.Hour)

	svc := service.NewMagicLinkService(
		s.Repos.User,
		s.Repos.AuthToken,
		sessions,
		mailer,
		testTokenPepper,
		15*time.Minute,
		s.BaseURL,
	)
	return svc, mailer
}

func (s *Suite) verifyLink(link string) *http.Response {
	req, err := http.NewRequest(http.MethodGet, link, nil)
	s.Require().NoError(err)

	resp, err := noRedirectClient().Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) TestMagicLink_RequestNotConfigured() {
	// The server under test has no SMTP transport configured.
	resp := s.postJSON("/api/v1/auth/magic-link", dto.MagicLinkRequest{Email: "someone@example.com"})
	defer resp.Body.Close()

	s.Equal(http.StatusServiceUnavailable, resp.StatusCode)
	s.Equal("not_configured", decodeError(s, resp).Error)
}

func (s *Suite) TestMagicLink_UnknownEmailStaysSilent() {
	svc, mailer := s.magicLinkFixture()

	err := svc.Request(context.Background(), "nobody@example.com", "")
	s.NoError(err, "an unknown address must not be distinguishable from a known one")
	s.Empty(mailer.sent, "no mail should go out for unknown addresses")
}

func (s *Suite) TestMagicLink_VerifyFlow() {
	s.register("magic@example.com", "password123")
	svc, mailer := s.magicLinkFixture()

	s.Require().NoError(svc.Request(context.Background(), "magic@example.com", "/signals"))
	s.Require().Len(mailer.sent, 1)
	s.Equal("magic@example.com", mailer.sent[0].To)

	resp := s.verifyLink(mailer.sent[0].Link)
	defer resp.Body.Close()

	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/signals", resp.Header.Get("Location"))

	cookie := sessionCookie(resp)
	s.Require().NotNil(cookie, "verification should set the session cookie")

	// The emailed round trip proves mailbox ownership.
	meResp := s.getJSON("/api/v1/auth/me", cookie)
	defer meResp.Body.Close()
	s.Equal(http.StatusOK, meResp.StatusCode)

	var me dto.MeResponse
	s.Require().NoError(json.NewDecoder(meResp.Body).Decode(&me))
	s.True(me.IsEmailVerified)
}

func (s *Suite) TestMagicLink_SingleUse() {
	s.register("once@example.com", "password123")
	svc, mailer := s.magicLinkFixture()

	s.Require().NoError(svc.Request(context.Background(), "once@example.com", ""))
	s.Require().Len(mailer.sent, 1)

	first := s.verifyLink(mailer.sent[0].Link)
	first.Body.Close()
	s.Equal(http.StatusFound, first.StatusCode)
	s.Equal("/dashboard", first.Header.Get("Location"))

	second := s.verifyLink(mailer.sent[0].Link)
	defer second.Body.Close()
	s.Equal(http.StatusFound, second.StatusCode)
	s.Equal("/login?error=expired_or_invalid", second.Header.Get("Location"))
	s.Nil(sessionCookie(second))
}

func (s *Suite) TestMagicLink_NewestTokenWins() {
	s.register("newest@example.com", "password123")
	svc, mailer := s.magicLinkFixture()

	s.Require().NoError(svc.Request(context.Background(), "newest@example.com", ""))
	s.Require().NoError(svc.Request(context.Background(), "newest@example.com", ""))
	s.Require().Len(mailer.sent, 2)

	stale := s.verifyLink(mailer.sent[0].Link)
	defer stale.Body.Close()
	s.Equal("/login?error=expired_or_invalid", stale.Header.Get("Location"))

	fresh := s.verifyLink(mailer.sent[1].Link)
	defer fresh.Body.Close()
	s.Equal("/dashboard", fresh.Header.Get("Location"))
	s.NotNil(sessionCookie(fresh))
}

func (s *Suite) TestMagicLink_ExpiredToken() {
	s.register("expired@example.com", "password123")

	raw, err := utils.RandomToken(32)
	s.Require().NoError(err)

	token := &domain.AuthToken{
		ID:         uuid.New().String(),
		Identifier: "expired@example.com",
		Type:       domain.TokenTypeMagicLink,
		TokenHash:  utils.HashToken(raw, testTokenPepper),
		ExpiresAt:  time.Now().Add(-time.Minute),
	}
	s.Require().NoError(s.Repos.AuthToken.Create(context.Background(), token))

	link := s.BaseURL + "/api/auth/verify?token=" + url.QueryEscape(raw) + "&email=expired%40example.com"
	resp := s.verifyLink(link)
	defer resp.Body.Close()

	s.Equal("/login?error=expired_or_invalid", resp.Header.Get("Location"))
	s.Nil(sessionCookie(resp))
}

func (s *Suite) TestMagicLink_HostileNextFallsBack() {
	s.register("hostile@example.com", "password123")
	svc, mailer := s.magicLinkFixture()

	s.Require().NoError(svc.Request(context.Background(), "hostile@example.com", "//evil.example.com"))
	s.Require().Len(mailer.sent, 1)

	resp := s.verifyLink(mailer.sent[0].Link)
	defer resp.Body.Close()

	s.Equal("/dashboard", resp.Header.Get("Location"))
}
