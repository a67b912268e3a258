package handler

import "testing"

func TestSafeNextPath(t *testing.T) {
	cases := []struct {
		next string
		want string
	}{
		{"/signals", "/signals"},
		{"/dashboard", "/dashboard"},
		{"/account?tab=billing", "/account?tab=billing"},
		{"", "/dashboard"},
		{"dashboard", "/dashboard"},
		{"//evil.example.com", "/dashboard"},
		{"https://evil.example.com/", "/dashboard"},
		{"/\\evil.example.com", "/dashboard"},
		{"/redirect?to=https://evil.example.com", "/dashboard"},
	}

	for _, tc := range cases {
		if got := SafeNextPath(tc.next); got != tc.want {
			t.Errorf("SafeNextPath(%q) = %q, want %q", tc.next, got, tc.want)
		}
	}
}
