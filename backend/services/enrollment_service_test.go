package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillpath/backend/models"
	"skillpath/backend/store"
)

func newEnrollmentService(t *testing.T) (*EnrollmentService, store.Store, *fakeClock) {
	t.Helper()
	st := newTestStore(t)
	clock := newFakeClock("2026-03-01T10:00:00Z")
	gam := NewGamificationService(st, clock)
	return NewEnrollmentService(st, gam, clock), st, clock
}

func TestEnrollLiveClasses(t *testing.T) {
	svc, st, clock := newEnrollmentService(t)
	ctx := context.Background()

	enrolled, err := svc.IsEnrolledLiveClasses(ctx, "learner-1")
	require.NoError(t, err)
	assert.False(t, enrolled)

	id, err := svc.EnrollLiveClasses(ctx, "learner-1", EnrollLiveClassesInput{
		PaymentID: "pay_123",
		Amount:    10199,
		StartDate: "2026-03-10",
	})
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("learner-1_liveClasses_%d", clock.Now().UTC().UnixMilli()), id)

	enrolled, err = svc.IsEnrolledLiveClasses(ctx, "learner-1")
	require.NoError(t, err)
	assert.True(t, enrolled)

	// enrollment record carries the initial module/week position
	record, err := st.Get(ctx, store.EnrollmentsCollection, id)
	require.NoError(t, err)
	var progress models.EnrollmentProgress
	require.NoError(t, store.Decode(record["progress"], &progress))
	assert.Equal(t, 1, progress.CurrentModule)
	assert.Equal(t, 1, progress.CurrentWeek)
	assert.Empty(t, progress.CompletedWeeks)

	// plan defaults to solo
	doc, err := st.Get(ctx, store.UsersCollection, "learner-1")
	require.NoError(t, err)
	sub := store.Sub(doc, "enrollments.liveClasses")
	require.NotNil(t, sub)
	assert.Equal(t, models.PlanSolo, sub["plan"])
	assert.Equal(t, "pay_123", sub["paymentId"])
}

func TestEnrollSeedsGamification(t *testing.T) {
	svc, _, _ := newEnrollmentService(t)
	ctx := context.Background()

	_, err := svc.EnrollLiveClasses(ctx, "learner-1", EnrollLiveClassesInput{PaymentID: "pay_1"})
	require.NoError(t, err)

	profile, err := svc.Gamification.GetProfile(ctx, "learner-1")
	require.NoError(t, err)
	assert.Equal(t, 0, profile.XP)
	assert.Equal(t, 1, profile.Level)
	assert.NotNil(t, profile.LastActiveDate)
}

func TestEnrollKeepsExistingLedger(t *testing.T) {
	svc, _, clock := newEnrollmentService(t)
	ctx := context.Background()

	_, err := svc.Gamification.AwardXP(ctx, "learner-1", 600, "earlier activity")
	require.NoError(t, err)

	clock.Advance(1)
	_, err = svc.EnrollLiveClasses(ctx, "learner-1", EnrollLiveClassesInput{PaymentID: "pay_2"})
	require.NoError(t, err)

	profile, err := svc.Gamification.GetProfile(ctx, "learner-1")
	require.NoError(t, err)
	assert.Equal(t, 600, profile.XP)
	assert.Equal(t, 2, profile.Level)
}
