package models

import "testing"

func TestReminderStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status ReminderStatus
		want   bool
	}{
		{ReminderPending, false},
		{ReminderSent, true},
		{ReminderCanceled, true},
		{ReminderFailed, true},
		{ReminderStatus(""), false},
	}
	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.want {
			t.Errorf("IsTerminal(%q) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
