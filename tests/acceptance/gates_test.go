package acceptance

import (
	"encoding/json"
	"net/http"

	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/handler"
)

func (s *Suite) TestDashboard_RequiresSession() {
	resp := s.getJSON("/dashboard")
	defer resp.Body.Close()

	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/login?next=%2Fdashboard", resp.Header.Get("Location"))
}

func (s *Suite) TestDashboard_RequiresConsent() {
	cookie, _ := s.register("gated@example.com", "password123")

	resp := s.getJSON("/dashboard", cookie)
	defer resp.Body.Close()

	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/welcome?next=%2Fdashboard", resp.Header.Get("Location"))
}

func (s *Suite) TestDashboard_WithSessionAndConsent() {
	cookie, _ := s.register("welcomed@example.com", "password123")

	resp := s.getJSON("/dashboard", cookie, consentCookie())
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestConsentAccept_SetsCookies() {
	req, err := http.NewRequest(http.MethodPost, s.BaseURL+"/welcome/accept?next=/signals", nil)
	s.Require().NoError(err)

	resp, err := noRedirectClient().Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/signals", resp.Header.Get("Location"))

	names := map[string]string{}
	for _, cookie := range resp.Cookies() {
		names[cookie.Name] = cookie.Value
	}
	s.Equal("true", names[handler.ConsentCookie])
	s.Equal("true", names[handler.CookieConsent])
	s.NotEmpty(names[handler.AcceptanceIDCookie])
	s.NotEmpty(names[handler.LegalVersionCookie])
}

func (s *Suite) TestConsentStatus() {
	resp := s.getJSON("/api/v1/consent")
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var status dto.ConsentStatus
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&status))
	s.False(status.Accepted)

	accepted := s.getJSON("/api/v1/consent", consentCookie())
	defer accepted.Body.Close()

	s.Require().NoError(json.NewDecoder(accepted.Body).Decode(&status))
	s.True(status.Accepted)
}

func (s *Suite) TestAdminPage_NonAdminRedirected() {
	cookie, _ := s.register("plainuser@example.com", "password123")

	resp := s.getJSON("/admin", cookie, consentCookie())
	defer resp.Body.Close()

	s.Equal(http.StatusFound, resp.StatusCode)
	s.Equal("/dashboard", resp.Header.Get("Location"))
}

func (s *Suite) TestAdminAPI_NonAdminForbidden() {
	cookie, _ := s.register("notadmin@example.com", "password123")

	resp := s.postJSON("/api/v1/admin/signals", map[string]interface{}{
		"symbol": "BTCUSDT", "title": "Test", "direction": "LONG", "confidence": 50,
	}, cookie)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
	s.Equal("forbidden", decodeError(s, resp).Error)
}

func (s *Suite) TestAdminAPI_CreateSignal() {
	cookie, _ := s.register("realadmin@example.com", "password123")
	s.setRole("realadmin@example.com", "ADMIN")

	resp := s.postJSON("/api/v1/admin/signals", map[string]interface{}{
		"symbol":     "ETHUSDT",
		"title":      "Desk call",
		"direction":  "SHORT",
		"confidence": 65,
		"min_plan":   "PRO",
	}, cookie)
	defer resp.Body.Close()

	s.Equal(http.StatusCreated, resp.StatusCode)

	listed := s.listSignals(cookie)
	s.Len(listed.Signals, 1)
	s.Equal("ETHUSDT", listed.Signals[0].Symbol)
}

func (s *Suite) TestLoginPage_CarriesErrorCode() {
	resp := s.getJSON("/login?error=expired_or_invalid")
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var page map[string]interface{}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&page))
	s.Equal("expired_or_invalid", page["error"])
}
