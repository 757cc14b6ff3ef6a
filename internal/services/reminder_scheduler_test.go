package services

import (
	"errors"
	"testing"
	"time"

	"reviewloop/internal/models"
)

func intPtr(v int) *int { return &v }

func newTestScheduler(store *fakeStore, now time.Time) *ReminderScheduler {
	s := NewReminderScheduler(store, store)
	s.now = func() time.Time { return now }
	return s
}

func TestScheduleCreatesPendingReminder(t *testing.T) {
	store := newFakeStore()
	store.addWheel("wheel-1", "biz-1", "en", false)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	scheduler := newTestScheduler(store, now)

	result, err := scheduler.Schedule(ScheduleRequest{
		WheelID:    "wheel-1",
		BusinessID: "biz-1",
		UserEmail:  "guest@example.com",
	})
	if err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	if result.Skipped != "" {
		t.Fatalf("expected no skip, got %q", result.Skipped)
	}
	if result.ID == "" {
		t.Fatal("expected a reminder ID")
	}

	wantDue := now.AddDate(0, 0, DefaultReminderDelayDays)
	if !result.DueAt.Equal(wantDue) {
		t.Errorf("due_at = %v, want %v", result.DueAt, wantDue)
	}

	stored := store.get(result.ID)
	if stored == nil {
		t.Fatal("reminder not persisted")
	}
	if stored.Status != models.ReminderPending {
		t.Errorf("status = %q, want %q", stored.Status, models.ReminderPending)
	}
	if stored.UserEmail != "guest@example.com" {
		t.Errorf("user_email = %q", stored.UserEmail)
	}
}

func TestScheduleDelayDaysOverride(t *testing.T) {
	store := newFakeStore()
	store.addWheel("wheel-1", "biz-1", "en", false)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	scheduler := newTestScheduler(store, now)

	result, err := scheduler.Schedule(ScheduleRequest{
		WheelID:    "wheel-1",
		BusinessID: "biz-1",
		UserEmail:  "guest@example.com",
		DelayDays:  intPtr(5),
	})
	if err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	if want := now.AddDate(0, 0, 5); !result.DueAt.Equal(want) {
		t.Errorf("due_at = %v, want %v", result.DueAt, want)
	}
}

func TestScheduleExplicitDueAtWins(t *testing.T) {
	store := newFakeStore()
	store.addWheel("wheel-1", "biz-1", "en", false)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	scheduler := newTestScheduler(store, now)

	result, err := scheduler.Schedule(ScheduleRequest{
		WheelID:    "wheel-1",
		BusinessID: "biz-1",
		UserEmail:  "guest@example.com",
		DelayDays:  intPtr(5),
		DueAt:      "2026-04-01T09:00:00Z",
	})
	if err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	want := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	if !result.DueAt.Equal(want) {
		t.Errorf("due_at = %v, want %v", result.DueAt, want)
	}
}

func TestScheduleIsIdempotentPerWheelAndEmail(t *testing.T) {
	store := newFakeStore()
	store.addWheel("wheel-1", "biz-1", "en", false)
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	scheduler := newTestScheduler(store, now)

	req := ScheduleRequest{WheelID: "wheel-1", BusinessID: "biz-1", UserEmail: "guest@example.com"}

	first, err := scheduler.Schedule(req)
	if err != nil {
		t.Fatalf("first Schedule: %v", err)
	}

	req.DueAt = "2026-05-01T08:00:00Z"
	second, err := scheduler.Schedule(req)
	if err != nil {
		t.Fatalf("second Schedule: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second call created a new reminder: %q vs %q", second.ID, first.ID)
	}
	if got := store.pendingCount("wheel-1", "guest@example.com"); got != 1 {
		t.Errorf("pending rows = %d, want 1", got)
	}

	want := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	if stored := store.get(first.ID); !stored.DueAt.Equal(want) {
		t.Errorf("due_at after reschedule = %v, want %v", stored.DueAt, want)
	}
}

func TestScheduleSkipsOptedOutWheel(t *testing.T) {
	store := newFakeStore()
	store.addWheel("wheel-1", "biz-1", "en", true)
	scheduler := newTestScheduler(store, time.Now())

	result, err := scheduler.Schedule(ScheduleRequest{
		WheelID:    "wheel-1",
		BusinessID: "biz-1",
		UserEmail:  "guest@example.com",
	})
	if err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	if result.Skipped != models.CancelReasonOptOut {
		t.Errorf("skipped = %q, want %q", result.Skipped, models.CancelReasonOptOut)
	}
	if result.ID != "" {
		t.Errorf("expected no reminder, got ID %q", result.ID)
	}
	if got := store.pendingCount("wheel-1", "guest@example.com"); got != 0 {
		t.Errorf("pending rows = %d, want 0", got)
	}
}

func TestScheduleSkipsMissingWheel(t *testing.T) {
	store := newFakeStore()
	scheduler := newTestScheduler(store, time.Now())

	result, err := scheduler.Schedule(ScheduleRequest{
		WheelID:    "gone",
		BusinessID: "biz-1",
		UserEmail:  "guest@example.com",
	})
	if err != nil {
		t.Fatalf("Schedule returned error: %v", err)
	}
	if result.Skipped != models.CancelReasonOptOut {
		t.Errorf("skipped = %q, want %q", result.Skipped, models.CancelReasonOptOut)
	}
}

func TestScheduleValidation(t *testing.T) {
	store := newFakeStore()
	store.addWheel("wheel-1", "biz-1", "en", false)
	scheduler := newTestScheduler(store, time.Now())

	tests := []struct {
		name string
		req  ScheduleRequest
	}{
		{"missing wheel_id", ScheduleRequest{BusinessID: "biz-1", UserEmail: "a@b.co"}},
		{"missing business_id", ScheduleRequest{WheelID: "wheel-1", UserEmail: "a@b.co"}},
		{"missing email", ScheduleRequest{WheelID: "wheel-1", BusinessID: "biz-1"}},
		{"malformed email", ScheduleRequest{WheelID: "wheel-1", BusinessID: "biz-1", UserEmail: "not-an-email"}},
		{"bad due_at", ScheduleRequest{WheelID: "wheel-1", BusinessID: "biz-1", UserEmail: "a@b.co", DueAt: "tomorrow"}},
		{"negative delay", ScheduleRequest{WheelID: "wheel-1", BusinessID: "biz-1", UserEmail: "a@b.co", DelayDays: intPtr(-1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scheduler.Schedule(tt.req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestScheduleSurfacesStoreError(t *testing.T) {
	store := newFakeStore()
	store.addWheel("wheel-1", "biz-1", "en", false)
	store.insertErr = errors.New("connection refused")
	scheduler := newTestScheduler(store, time.Now())

	_, err := scheduler.Schedule(ScheduleRequest{
		WheelID:    "wheel-1",
		BusinessID: "biz-1",
		UserEmail:  "guest@example.com",
	})
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("storage failure must not look like caller error")
	}
}
