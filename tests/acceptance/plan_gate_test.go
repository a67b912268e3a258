package acceptance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/signalforge/zairix-api/internal/domain"
	"github.com/signalforge/zairix-api/internal/dto"
)

func (s *Suite) seedSignals() {
	ctx := context.Background()
	signals := []*domain.Signal{
		{Symbol: "BTCUSDT", Title: "Breakout above resistance", Direction: "LONG", Confidence: 70, MinPlan: domain.PlanFree},
		{Symbol: "ETHUSDT", Title: "Funding rate divergence", Direction: "SHORT", Confidence: 60, MinPlan: domain.PlanPro},
		{Symbol: "SOLUSDT", Title: "Accumulation range", Direction: "LONG", Confidence: 80, MinPlan: domain.PlanElite},
	}
	for _, sig := range signals {
		s.Require().NoError(s.Repos.Signal.Create(ctx, sig))
	}
}

func (s *Suite) listSignals(cookie *http.Cookie) dto.SignalsResponse {
	resp := s.getJSON("/api/v1/signals", cookie)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var out dto.SignalsResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *Suite) TestSignals_VisibilityFollowsPlanRank() {
	s.seedSignals()

	cookie, auth := s.register("viewer@example.com", "password123")

	free := s.listSignals(cookie)
	s.Len(free.Signals, 1)
	s.Equal("BTCUSDT", free.Signals[0].Symbol)

	s.Require().NoError(s.Repos.User.UpdatePlan(context.Background(), auth.User.ID, domain.PlanPro))
	pro := s.listSignals(cookie)
	s.Len(pro.Signals, 2)

	s.Require().NoError(s.Repos.User.UpdatePlan(context.Background(), auth.User.ID, domain.PlanElite))
	elite := s.listSignals(cookie)
	s.Len(elite.Signals, 3)
}

func (s *Suite) TestSignals_AdminSeesEverything() {
	s.seedSignals()

	cookie, _ := s.register("signaladmin@example.com", "password123")
	s.setRole("signaladmin@example.com", "ADMIN")

	all := s.listSignals(cookie)
	s.Len(all.Signals, 3, "admins see every signal regardless of plan")
}

func (s *Suite) TestSignals_ViewBumpsUsage() {
	s.seedSignals()
	cookie, _ := s.register("usage@example.com", "password123")

	s.listSignals(cookie)
	s.listSignals(cookie)

	resp := s.getJSON("/api/v1/auth/me", cookie)
	defer resp.Body.Close()

	var me dto.MeResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&me))
	s.Equal(2, me.SignalsViewed)
}

func (s *Suite) TestInsights_FreePlanRejected() {
	cookie, _ := s.register("freeinsight@example.com", "password123")

	resp := s.postJSON("/api/v1/insights", dto.InsightRequest{Prompt: "What about BTC?"}, cookie)
	defer resp.Body.Close()

	s.Equal(http.StatusPaymentRequired, resp.StatusCode)
	s.Equal("upgrade_required", decodeError(s, resp).Error)
}

func (s *Suite) TestInsights_ProGenerates() {
	cookie, auth := s.register("proinsight@example.com", "password123")
	s.Require().NoError(s.Repos.User.UpdatePlan(context.Background(), auth.User.ID, domain.PlanPro))

	resp := s.postJSON("/api/v1/insights", dto.InsightRequest{Prompt: "What about BTC?"}, cookie)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var insight dto.InsightResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&insight))
	s.NotEmpty(insight.ID)
	s.Equal("Momentum favors a staged entry.", insight.Content)
	s.Equal(9, insight.Remaining)
}

func (s *Suite) TestInsights_DailyCapReached() {
	cookie, auth := s.register("capped@example.com", "password123")
	s.Require().NoError(s.Repos.User.UpdatePlan(context.Background(), auth.User.ID, domain.PlanPro))

	for i := 0; i < domain.InsightsPerDay[domain.PlanPro]; i++ {
		resp := s.postJSON("/api/v1/insights", dto.InsightRequest{Prompt: fmt.Sprintf("Prompt %d", i)}, cookie)
		resp.Body.Close()
		s.Require().Equal(http.StatusOK, resp.StatusCode)
	}

	over := s.postJSON("/api/v1/insights", dto.InsightRequest{Prompt: "One more"}, cookie)
	defer over.Body.Close()

	s.Equal(http.StatusTooManyRequests, over.StatusCode)
	s.Equal("daily_limit_reached", decodeError(s, over).Error)
}

func (s *Suite) TestInsights_ProviderDown() {
	cookie, auth := s.register("outage@example.com", "password123")
	s.Require().NoError(s.Repos.User.UpdatePlan(context.Background(), auth.User.ID, domain.PlanPro))

	s.providerDown.Store(true)

	resp := s.postJSON("/api/v1/insights", dto.InsightRequest{Prompt: "What about BTC?"}, cookie)
	defer resp.Body.Close()

	s.Equal(http.StatusServiceUnavailable, resp.StatusCode)
	s.Equal("ai_unavailable", decodeError(s, resp).Error)

	// Capacity is consumed before the provider call and not refunded.
	me := s.getJSON("/api/v1/auth/me", cookie)
	defer me.Body.Close()

	var info dto.MeResponse
	s.Require().NoError(json.NewDecoder(me.Body).Decode(&info))
	s.Equal(1, info.InsightsUsed)
}

func (s *Suite) TestInsights_AdminBypassesPlanAndCap() {
	cookie, _ := s.register("admininsight@example.com", "password123")
	s.setRole("admininsight@example.com", "ADMIN")

	resp := s.postJSON("/api/v1/insights", dto.InsightRequest{Prompt: "Still FREE plan"}, cookie)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var insight dto.InsightResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&insight))
	s.Equal(-1, insight.Remaining, "admin capacity is unlimited")
}

func (s *Suite) TestInsights_Unauthenticated() {
	resp := s.postJSON("/api/v1/insights", dto.InsightRequest{Prompt: "Who am I?"})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
