package services

import (
	"context"
	"errors"
	"fmt"

	"skillpath/backend/models"
	"skillpath/backend/store"
)

// EnrollmentService handles live-class enrollment. Payment verification is
// external; the payment ID arrives here as an opaque label.
type EnrollmentService struct {
	Store        store.Store
	Gamification *GamificationService
	Clock        Clock
}

func NewEnrollmentService(st store.Store, gam *GamificationService, clock Clock) *EnrollmentService {
	return &EnrollmentService{Store: st, Gamification: gam, Clock: clock}
}

// EnrollLiveClassesInput carries the already-settled payment details.
type EnrollLiveClassesInput struct {
	PaymentID string
	Plan      string
	Amount    int
	StartDate string
}

// EnrollLiveClasses marks the learner as enrolled on the user document,
// creates the enrollment record with its initial module/week position, and
// seeds the gamification ledger for first-time learners.
func (s *EnrollmentService) EnrollLiveClasses(ctx context.Context, learnerID string, in EnrollLiveClassesInput) (string, error) {
	now := s.Clock.Now().UTC()
	plan := in.Plan
	if plan == "" {
		plan = models.PlanSolo
	}

	err := s.Store.MergeSet(ctx, store.UsersCollection, learnerID, store.Document{
		"enrollments.liveClasses": store.Document{
			"enrolled":   true,
			"enrolledAt": now,
			"paymentId":  in.PaymentID,
			"startDate":  in.StartDate,
			"status":     "active",
			"plan":       plan,
			"amount":     in.Amount,
		},
		"subscription": store.Document{
			"type":       "premium",
			"validUntil": now.AddDate(1, 0, 0),
		},
	})
	if err != nil {
		return "", err
	}

	enrollmentID := fmt.Sprintf("%s_liveClasses_%d", learnerID, now.UnixMilli())
	err = s.Store.MergeSet(ctx, store.EnrollmentsCollection, enrollmentID, store.Document{
		"userId":     learnerID,
		"courseType": "liveClasses",
		"enrolledAt": now,
		"paymentId":  in.PaymentID,
		"plan":       plan,
		"progress": models.EnrollmentProgress{
			CurrentModule:  1,
			CurrentWeek:    1,
			CompletedWeeks: []string{},
		},
	})
	if err != nil {
		return "", err
	}

	// first-time learners get their ledger seeded; Initialize leaves
	// existing profiles alone
	if err := s.Gamification.Initialize(ctx, learnerID); err != nil {
		return "", err
	}
	return enrollmentID, nil
}

// IsEnrolledLiveClasses reports the enrollments.liveClasses.enrolled flag.
// Missing documents or fields read as not enrolled.
func (s *EnrollmentService) IsEnrolledLiveClasses(ctx context.Context, learnerID string) (bool, error) {
	doc, err := s.Store.Get(ctx, store.UsersCollection, learnerID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	sub := store.Sub(doc, "enrollments.liveClasses")
	if sub == nil {
		return false, nil
	}
	var enrollment models.LiveClassEnrollment
	if err := store.Decode(sub, &enrollment); err != nil {
		return false, err
	}
	return enrollment.Enrolled, nil
}
