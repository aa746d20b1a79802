package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"skillpath/backend/models"
	"skillpath/backend/store"
)

// ErrInvalidAmount rejects non-positive XP awards.
var ErrInvalidAmount = errors.New("gamification: xp amount must be positive")

// GamificationService maintains the per-learner XP/level/streak/achievement
// ledger on the users/{learnerId} document.
type GamificationService struct {
	Store store.Store
	Clock Clock
}

func NewGamificationService(st store.Store, clock Clock) *GamificationService {
	return &GamificationService{Store: st, Clock: clock}
}

// XPAward reports the outcome of one award.
type XPAward struct {
	LeveledUp bool                   `json:"leveledUp"`
	NewLevel  models.LevelDefinition `json:"newLevel"`
	XPEarned  int                    `json:"xpEarned"`
	Reason    string                 `json:"reason,omitempty"`
}

// StreakUpdate reports the streak state after an activity ping. Updated is
// false for the same-day no-op.
type StreakUpdate struct {
	Streak     int  `json:"streak"`
	BestStreak int  `json:"bestStreak"`
	Updated    bool `json:"updated"`
}

// GetProfile reads the learner's ledger. A learner with no document yet gets
// the default profile (xp 0, level 1, streak 0), never an error.
func (s *GamificationService) GetProfile(ctx context.Context, learnerID string) (models.GamificationProfile, error) {
	doc, err := s.Store.Get(ctx, store.UsersCollection, learnerID)
	if errors.Is(err, store.ErrNotFound) {
		return models.DefaultProfile(learnerID), nil
	}
	if err != nil {
		return models.GamificationProfile{}, err
	}

	sub := store.Sub(doc, "gamification")
	if sub == nil {
		return models.DefaultProfile(learnerID), nil
	}
	profile := models.DefaultProfile(learnerID)
	if err := store.Decode(sub, &profile); err != nil {
		return models.GamificationProfile{}, err
	}
	if profile.Level == 0 {
		profile.Level = 1
	}
	if profile.Achievements == nil {
		profile.Achievements = []string{}
	}
	profile.LearnerID = learnerID
	return profile, nil
}

// Initialize seeds the default ledger state for a learner who has none yet.
// Learners that already have a gamification document are left untouched.
func (s *GamificationService) Initialize(ctx context.Context, learnerID string) error {
	doc, err := s.Store.Get(ctx, store.UsersCollection, learnerID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if err == nil && store.Sub(doc, "gamification") != nil {
		return nil
	}

	now := s.Clock.Now().UTC()
	return s.Store.MergeSet(ctx, store.UsersCollection, learnerID, store.Document{
		"gamification": store.Document{
			"xp":             0,
			"level":          1,
			"streak":         0,
			"bestStreak":     0,
			"achievements":   []string{},
			"studyTime":      0,
			"lastActiveDate": now,
		},
	})
}

// AwardXP adds XP and recomputes the level from the static table. The level
// is always derived, never trusted from the stored document alone. reason is
// an audit label recorded with the event; it does not affect control flow.
func (s *GamificationService) AwardXP(ctx context.Context, learnerID string, amount int, reason string) (XPAward, error) {
	if amount <= 0 {
		return XPAward{}, ErrInvalidAmount
	}

	profile, err := s.GetProfile(ctx, learnerID)
	if err != nil {
		return XPAward{}, err
	}

	newXP := profile.XP + amount
	newLevel := models.DeriveLevel(newXP)
	err = s.Store.MergeSet(ctx, store.UsersCollection, learnerID, store.Document{
		"gamification.xp":    newXP,
		"gamification.level": newLevel.Level,
	})
	if err != nil {
		return XPAward{}, err
	}

	if err := s.recordXPEvent(ctx, learnerID, amount, reason); err != nil {
		return XPAward{}, err
	}

	return XPAward{
		LeveledUp: newLevel.Level > profile.Level,
		NewLevel:  newLevel,
		XPEarned:  amount,
		Reason:    reason,
	}, nil
}

func (s *GamificationService) recordXPEvent(ctx context.Context, learnerID string, amount int, reason string) error {
	return s.Store.MergeSet(ctx, store.XPEventsCollection, uuid.NewString(), store.Document{
		"learnerId": learnerID,
		"amount":    amount,
		"reason":    reason,
		"awardedAt": s.Clock.Now().UTC(),
	})
}

// UpdateStreak registers activity for today, on UTC calendar days. Same day
// is a no-op; the next day extends the streak; any gap resets it to 1. The
// best streak only ratchets upward. A counted day triggers the fixed daily
// streak XP bonus.
func (s *GamificationService) UpdateStreak(ctx context.Context, learnerID string) (StreakUpdate, error) {
	profile, err := s.GetProfile(ctx, learnerID)
	if err != nil {
		return StreakUpdate{}, err
	}

	today := dayOf(s.Clock.Now())
	newStreak := 1
	if profile.LastActiveDate != nil {
		switch days := int(today.Sub(dayOf(*profile.LastActiveDate)) / (24 * time.Hour)); {
		case days == 0:
			return StreakUpdate{Streak: profile.Streak, BestStreak: profile.BestStreak}, nil
		case days == 1:
			newStreak = profile.Streak + 1
		}
	}

	best := profile.BestStreak
	if newStreak > best {
		best = newStreak
	}

	err = s.Store.MergeSet(ctx, store.UsersCollection, learnerID, store.Document{
		"gamification.streak":         newStreak,
		"gamification.bestStreak":     best,
		"gamification.lastActiveDate": s.Clock.Now().UTC(),
	})
	if err != nil {
		return StreakUpdate{}, err
	}

	if _, err := s.AwardXP(ctx, learnerID, models.XPDailyStreak, "Daily streak bonus"); err != nil {
		return StreakUpdate{}, err
	}

	return StreakUpdate{Streak: newStreak, BestStreak: best, Updated: true}, nil
}

// UnlockAchievement appends the achievement once. The first unlock awards the
// fixed achievement bonus and returns true; repeats return false untouched.
func (s *GamificationService) UnlockAchievement(ctx context.Context, learnerID, achievementID string) (bool, error) {
	profile, err := s.GetProfile(ctx, learnerID)
	if err != nil {
		return false, err
	}
	if profile.HasAchievement(achievementID) {
		return false, nil
	}

	err = s.Store.MergeSet(ctx, store.UsersCollection, learnerID, store.Document{
		"gamification.achievements": append(profile.Achievements, achievementID),
	})
	if err != nil {
		return false, err
	}

	if _, err := s.AwardXP(ctx, learnerID, models.XPAchievementUnlocked, "Achievement unlocked: "+achievementID); err != nil {
		return false, err
	}
	return true, nil
}

// AddStudyTime accumulates study duration on the profile.
func (s *GamificationService) AddStudyTime(ctx context.Context, learnerID string, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	profile, err := s.GetProfile(ctx, learnerID)
	if err != nil {
		return err
	}
	return s.Store.MergeSet(ctx, store.UsersCollection, learnerID, store.Document{
		"gamification.studyTime": profile.StudyTimeMillis + d.Milliseconds(),
	})
}
