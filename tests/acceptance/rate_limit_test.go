package acceptance

import (
	"net/http"

	"github.com/signalforge/zairix-api/internal/dto"
)

func (s *Suite) TestRateLimit_LoginBurst() {
	limit := s.Config.Security.RateLimitRequests

	for i := 0; i < limit; i++ {
		resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
			Email:    "burst@example.com",
			Password: "wrongpassword1",
		})
		resp.Body.Close()
		s.Require().Equal(http.StatusUnauthorized, resp.StatusCode, "attempts within the window pass the limiter")
	}

	over := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "burst@example.com",
		Password: "wrongpassword1",
	})
	defer over.Body.Close()

	s.Equal(http.StatusTooManyRequests, over.StatusCode)
	s.Equal("rate_limited", decodeError(s, over).Error)
	s.NotEmpty(over.Header.Get("X-RateLimit-Retry-After"))
}

func (s *Suite) TestRateLimit_WindowResets() {
	limit := s.Config.Security.RateLimitRequests

	for i := 0; i < limit; i++ {
		resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
			Email:    "resetwindow@example.com",
			Password: "wrongpassword1",
		})
		resp.Body.Close()
	}

	over := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "resetwindow@example.com",
		Password: "wrongpassword1",
	})
	over.Body.Close()
	s.Require().Equal(http.StatusTooManyRequests, over.StatusCode)

	// Dropping the recorded attempts models the window elapsing
	// without a minute-long sleep in the suite.
	s.Require().NoError(s.Redis.Client.FlushDB(s.ctx).Err())

	after := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "resetwindow@example.com",
		Password: "wrongpassword1",
	})
	defer after.Body.Close()
	s.Equal(http.StatusUnauthorized, after.StatusCode)
}

func (s *Suite) TestRateLimit_HeadersExposed() {
	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "headers@example.com",
		Password: "wrongpassword1",
	})
	defer resp.Body.Close()

	s.NotEmpty(resp.Header.Get("X-RateLimit-Limit"))
	s.NotEmpty(resp.Header.Get("X-RateLimit-Remaining"))
}
