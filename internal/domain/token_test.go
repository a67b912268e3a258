package domain

import (
	"testing"
	"time"
)

func TestAuthTokenLive(t *testing.T) {
	now := time.Now()
	consumed := now.Add(-time.Minute)

	tests := []struct {
		name  string
		token AuthToken
		want  bool
	}{
		{
			name:  "unconsumed and unexpired",
			token: AuthToken{ExpiresAt: now.Add(15 * time.Minute)},
			want:  true,
		},
		{
			name:  "consumed",
			token: AuthToken{ExpiresAt: now.Add(15 * time.Minute), ConsumedAt: &consumed},
			want:  false,
		},
		{
			name:  "expired",
			token: AuthToken{ExpiresAt: now.Add(-time.Second)},
			want:  false,
		},
		{
			name:  "expired and consumed",
			token: AuthToken{ExpiresAt: now.Add(-time.Second), ConsumedAt: &consumed},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.Live(now); got != tt.want {
				t.Errorf("Live() = %v, want %v", got, tt.want)
			}
		})
	}
}
