package models

import (
	"testing"
	"time"
)

func TestSessionIsExpired(t *testing.T) {
	live := Session{ExpiresAt: time.Now().Add(time.Hour)}
	if live.IsExpired() {
		t.Error("session expiring in an hour reported expired")
	}
	dead := Session{ExpiresAt: time.Now().Add(-time.Minute)}
	if !dead.IsExpired() {
		t.Error("session past expiry reported live")
	}
}

func TestSessionNeedsTokenRefresh(t *testing.T) {
	tests := []struct {
		name   string
		expiry time.Time
		want   bool
	}{
		{"zero expiry", time.Time{}, true},
		{"already expired", time.Now().Add(-time.Minute), true},
		{"inside refresh window", time.Now().Add(2 * time.Minute), true},
		{"plenty of time left", time.Now().Add(time.Hour), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Session{TokenExpiry: tt.expiry}
			if got := s.NeedsTokenRefresh(); got != tt.want {
				t.Errorf("NeedsTokenRefresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSessionHasActiveUser(t *testing.T) {
	if (&Session{}).HasActiveUser() {
		t.Error("session without username reported active user")
	}
	if !(&Session{Username: "owner1"}).HasActiveUser() {
		t.Error("session with username reported no active user")
	}
}
