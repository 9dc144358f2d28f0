package service

import (
	"testing"
	"time"
)

func TestOTPMatches(t *testing.T) {
	future := time.Now().UTC().Add(5 * time.Minute)
	past := time.Now().UTC().Add(-1 * time.Second)

	cases := []struct {
		name    string
		stored  string
		expires *time.Time
		got     string
		want    bool
	}{
		{"match", "483920", &future, "483920", true},
		{"match no expiry", "483920", nil, "483920", true},
		{"mismatch", "483920", &future, "483921", false},
		{"length mismatch", "483920", &future, "4839", false},
		{"nothing stored", "", &future, "", false},
		{"expired", "483920", &past, "483920", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := otpMatches(tc.stored, tc.expires, tc.got); got != tc.want {
				t.Fatalf("otpMatches(%q, _, %q) = %v, want %v", tc.stored, tc.got, got, tc.want)
			}
		})
	}
}
