package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/signalforge/zairix-api/internal/dto"
	"github.com/signalforge/zairix-api/internal/handler"
)

// noRedirectClient returns the last response instead of following
// redirects, so tests can assert Location headers.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (s *Suite) postJSON(path string, body interface{}, cookies ...*http.Cookie) *http.Response {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPost, s.BaseURL+path, bytes.NewReader(raw))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) getJSON(path string, cookies ...*http.Cookie) *http.Response {
	req, err := http.NewRequest(http.MethodGet, s.BaseURL+path, nil)
	s.Require().NoError(err)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := noRedirectClient().Do(req)
	s.Require().NoError(err)
	return resp
}

// register creates an account over HTTP and returns the session
// cookie plus the decoded response.
func (s *Suite) register(email, password string) (*http.Cookie, dto.AuthResponse) {
	resp := s.postJSON("/api/v1/auth/register", dto.RegisterRequest{Email: email, Password: password})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode, "registration should succeed")

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))

	cookie := sessionCookie(resp)
	s.Require().NotNil(cookie, "registration should set the session cookie")

	return cookie, authResp
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == handler.SessionCookie && cookie.Value != "" {
			return cookie
		}
	}
	return nil
}

func consentCookie() *http.Cookie {
	return &http.Cookie{Name: handler.ConsentCookie, Value: "true"}
}

func (s *Suite) setRole(email, role string) {
	_, err := s.Postgres.DB.Exec(`UPDATE users SET role = $1 WHERE email = $2`, role, email)
	s.Require().NoError(err)
}

func decodeError(s *Suite, resp *http.Response) dto.ErrorResponse {
	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	return errResp
}
