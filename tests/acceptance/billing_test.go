package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/dto"
)

func (s *Suite) postWebhook(secret string, payload dto.BillingWebhook) *http.Response {
	raw, err := json.Marshal(payload)
	s.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPost, s.BaseURL+"/api/v1/billing/webhook", bytes.NewReader(raw))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Webhook-Secret", secret)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) userPlan(cookie *http.Cookie) domain.Plan {
	resp := s.getJSON("/api/v1/auth/me", cookie)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var me dto.MeResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&me))
	return me.Plan
}

func (s *Suite) TestWebhook_MissingSecret() {
	resp := s.postWebhook("", dto.BillingWebhook{
		ExternalRef: "sub-1", Email: "a@example.com", Plan: "PRO", Status: "active",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestWebhook_WrongSecret() {
	resp := s.postWebhook("wrong-secret", dto.BillingWebhook{
		ExternalRef: "sub-1", Email: "a@example.com", Plan: "PRO", Status: "active",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
	s.Equal("forbidden", decodeError(s, resp).Error)
}

func (s *Suite) TestWebhook_UnknownUser() {
	resp := s.postWebhook(testWebhookSecret, dto.BillingWebhook{
		ExternalRef: "sub-unknown", Email: "nobody@example.com", Plan: "PRO", Status: "active",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal("not_found", decodeError(s, resp).Error)
}

func (s *Suite) TestWebhook_InvalidPlan() {
	s.register("badplan@example.com", "password123")

	resp := s.postWebhook(testWebhookSecret, dto.BillingWebhook{
		ExternalRef: "sub-bad", Email: "badplan@example.com", Plan: "PLATINUM", Status: "active",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestWebhook_UpgradeIsIdempotent() {
	cookie, _ := s.register("billing@example.com", "password123")
	s.Equal(domain.PlanFree, s.userPlan(cookie))

	payload := dto.BillingWebhook{
		ExternalRef: "sub-42", Email: "billing@example.com", Plan: "PRO", Status: "active",
	}

	first := s.postWebhook(testWebhookSecret, payload)
	first.Body.Close()
	s.Equal(http.StatusOK, first.StatusCode)
	s.Equal(domain.PlanPro, s.userPlan(cookie))

	// A provider retry delivers the same payload again.
	replay := s.postWebhook(testWebhookSecret, payload)
	replay.Body.Close()
	s.Equal(http.StatusOK, replay.StatusCode)
	s.Equal(domain.PlanPro, s.userPlan(cookie))
}

func (s *Suite) TestWebhook_CancellationDowngrades() {
	cookie, _ := s.register("churn@example.com", "password123")

	activate := s.postWebhook(testWebhookSecret, dto.BillingWebhook{
		ExternalRef: "sub-churn", Email: "churn@example.com", Plan: "ELITE", Status: "active",
	})
	activate.Body.Close()
	s.Require().Equal(http.StatusOK, activate.StatusCode)
	s.Equal(domain.PlanElite, s.userPlan(cookie))

	cancel := s.postWebhook(testWebhookSecret, dto.BillingWebhook{
		ExternalRef: "sub-churn", Email: "churn@example.com", Plan: "ELITE", Status: "cancelled",
	})
	cancel.Body.Close()
	s.Require().Equal(http.StatusOK, cancel.StatusCode)
	s.Equal(domain.PlanFree, s.userPlan(cookie))
}
