package services

import (
	"errors"
	"sort"
	"sync"
	"time"

	"reviewloop/internal/models"
)

// fakeStore is an in-memory ReminderStore + CampaignStore used to exercise
// the pipeline without Postgres. ClaimDue is atomic under the mutex, which
// mirrors the transactional claim the real store performs.
type fakeStore struct {
	mu         sync.Mutex
	reminders  map[string]*models.ReviewReminder
	wheels     map[string]*models.WheelProject
	businesses map[string]*models.BusinessProfile
	clicks     map[string]bool

	now func() time.Time

	insertErr error
	findErr   error
	markErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		reminders:  make(map[string]*models.ReviewReminder),
		wheels:     make(map[string]*models.WheelProject),
		businesses: make(map[string]*models.BusinessProfile),
		clicks:     make(map[string]bool),
		now:        time.Now,
	}
}

func clickKey(wheelID, email string) string { return wheelID + "|" + email }

func (f *fakeStore) FindPending(wheelID, userEmail string) (*models.ReviewReminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, r := range f.reminders {
		if r.WheelID == wheelID && r.UserEmail == userEmail && r.Status == models.ReminderPending {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Insert(reminder *models.ReviewReminder) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	copied := *reminder
	f.reminders[reminder.ID] = &copied
	return nil
}

func (f *fakeStore) RescheduleDue(id string, dueAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reminders[id]
	if !ok {
		return errors.New("reminder not found")
	}
	r.DueAt = dueAt
	return nil
}

func (f *fakeStore) ClaimDue(limit int, lockFor time.Duration, workerID string) ([]models.ClaimedReminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.now()
	var due []*models.ReviewReminder
	for _, r := range f.reminders {
		if r.Status != models.ReminderPending {
			continue
		}
		if r.DueAt.After(now) {
			continue
		}
		if r.LockedAt != nil && r.LockedAt.After(now.Add(-lockFor)) {
			continue
		}
		due = append(due, r)
	}
	sort.Slice(due, func(i, j int) bool { return due[i].DueAt.Before(due[j].DueAt) })
	if len(due) > limit {
		due = due[:limit]
	}

	claimed := make([]models.ClaimedReminder, 0, len(due))
	for _, r := range due {
		lockedAt := now
		r.LockedBy = workerID
		r.LockedAt = &lockedAt
		claimed = append(claimed, models.ClaimedReminder{
			ID:         r.ID,
			WheelID:    r.WheelID,
			BusinessID: r.BusinessID,
			UserEmail:  r.UserEmail,
		})
	}
	return claimed, nil
}

func (f *fakeStore) MarkSent(id string, sentAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	r, ok := f.reminders[id]
	if !ok {
		return errors.New("reminder not found")
	}
	if r.Status.IsTerminal() {
		return errors.New("reminder already in a terminal status")
	}
	r.Status = models.ReminderSent
	r.SentAt = &sentAt
	r.Attempts++
	r.LockedBy = ""
	r.LockedAt = nil
	return nil
}

func (f *fakeStore) MarkCanceled(id string, canceledAt time.Time, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	r, ok := f.reminders[id]
	if !ok {
		return errors.New("reminder not found")
	}
	if r.Status.IsTerminal() {
		return errors.New("reminder already in a terminal status")
	}
	r.Status = models.ReminderCanceled
	r.CanceledAt = &canceledAt
	r.CancelReason = reason
	r.LockedBy = ""
	r.LockedAt = nil
	return nil
}

func (f *fakeStore) MarkFailed(id string, lastError string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	r, ok := f.reminders[id]
	if !ok {
		return errors.New("reminder not found")
	}
	if r.Status.IsTerminal() {
		return errors.New("reminder already in a terminal status")
	}
	r.Status = models.ReminderFailed
	r.LastError = lastError
	r.Attempts++
	r.LockedBy = ""
	r.LockedAt = nil
	return nil
}

func (f *fakeStore) GetWheel(id string) (*models.WheelProject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.wheels[id]
	if !ok {
		return nil, nil
	}
	copied := *w
	return &copied, nil
}

func (f *fakeStore) GetBusiness(id string) (*models.BusinessProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.businesses[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (f *fakeStore) HasClickThrough(wheelID, userEmail string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clicks[clickKey(wheelID, userEmail)], nil
}

// helpers

func (f *fakeStore) addWheel(id, businessID, language string, optOut bool) {
	f.wheels[id] = &models.WheelProject{
		ID:             id,
		BusinessID:     businessID,
		Name:           "Wheel " + id,
		Language:       language,
		NoGoogleReview: optOut,
	}
}

func (f *fakeStore) addBusiness(id, name, reviewLink string) {
	f.businesses[id] = &models.BusinessProfile{
		ID:          id,
		DisplayName: name,
		ReviewLink:  reviewLink,
	}
}

func (f *fakeStore) get(id string) *models.ReviewReminder {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.reminders[id]
	if r == nil {
		return nil
	}
	copied := *r
	return &copied
}

func (f *fakeStore) pendingCount(wheelID, email string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, r := range f.reminders {
		if r.WheelID == wheelID && r.UserEmail == email && r.Status == models.ReminderPending {
			count++
		}
	}
	return count
}

// fakeSender records dispatched reminder emails
type fakeSender struct {
	mu      sync.Mutex
	sent    []string // recipient emails in send order
	emails  []RenderedEmail
	sendErr error
}

func (f *fakeSender) SendReviewReminder(toEmail string, email RenderedEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, toEmail)
	f.emails = append(f.emails, email)
	return nil
}

func (f *fakeSender) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func stubUnsubLink(wheelID, userEmail string) (string, error) {
	return "https://app.example.com/unsubscribe?token=stub", nil
}
