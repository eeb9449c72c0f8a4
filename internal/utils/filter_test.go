package utils

import "testing"

func TestIsValidInput(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"hello", true},
		{"word2vec", true},
		{"user-name", true},
		{"under_score", true},
		{"", false},
		{"12345", false},
		{"aaaa", false},
		{"www", false},
		{"he!lo", false},
		{"email@example", false},
		{"ab", true},
		{"aa", true}, // too short to count as repetitive
	}
	for _, tc := range cases {
		if got := IsValidInput(tc.input); got != tc.want {
			t.Errorf("IsValidInput(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestIsRepetitive(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"aaa", true},
		{"dddd", true},
		{"aa", false},
		{"aab", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsRepetitive(tc.input); got != tc.want {
			t.Errorf("IsRepetitive(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestIsOnlyNumbers(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"123", true},
		{"0", true},
		{"12a", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsOnlyNumbers(tc.input); got != tc.want {
			t.Errorf("IsOnlyNumbers(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestFormatWithCommas(t *testing.T) {
	cases := []struct {
		input int
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}
	for _, tc := range cases {
		if got := FormatWithCommas(tc.input); got != tc.want {
			t.Errorf("FormatWithCommas(%d) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
