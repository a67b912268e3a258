package utils

import "testing"

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last@example.co.uk",
		"user+tag@sub.example.com",
	}
	for _, email := range valid {
		if !ValidateEmail(email) {
			t.Errorf("Expected '%s' to be valid", email)
		}
	}

	invalid := []string{
		"",
		"plainaddress",
		"@example.com",
		"user@",
		"user@example",
		"user @example.com",
	}
	for _, email := range invalid {
		if ValidateEmail(email) {
			t.Errorf("Expected '%s' to be invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	valid := []string{
		"longenough1",
		"Password123",
		"1234abcd",
	}
	for _, password := range valid {
		if !ValidatePassword(password) {
			t.Errorf("Expected '%s' to be valid", password)
		}
	}

	invalid := []string{
		"",
		"short1",
		"onlyletters",
		"12345678",
	}
	for _, password := range invalid {
		if ValidatePassword(password) {
			t.Errorf("Expected '%s' to be invalid", password)
		}
	}
}

func TestSanitizeEmail(t *testing.T) {
	if got := SanitizeEmail("  User@Example.COM  "); got != "user@example.com" {
		t.Errorf("Expected 'user@example.com', got '%s'", got)
	}
}
