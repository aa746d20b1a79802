package models

import "time"

// LevelDefinition is one row of the static level table.
type LevelDefinition struct {
	Level      int    `json:"level"`
	XPRequired int    `json:"xpRequired"`
	Title      string `json:"title"`
}

// Levels is ordered ascending by XPRequired. It is loaded once and never
// mutated at runtime.
var Levels = []LevelDefinition{
	{Level: 1, XPRequired: 0, Title: "Beginner"},
	{Level: 2, XPRequired: 500, Title: "Novice"},
	{Level: 3, XPRequired: 1500, Title: "Intermediate"},
	{Level: 4, XPRequired: 3000, Title: "Advanced"},
	{Level: 5, XPRequired: 5000, Title: "Expert"},
	{Level: 6, XPRequired: 8000, Title: "Master"},
	{Level: 7, XPRequired: 12000, Title: "Guru"},
	{Level: 8, XPRequired: 17000, Title: "Legend"},
	{Level: 9, XPRequired: 23000, Title: "Elite"},
	{Level: 10, XPRequired: 30000, Title: "God Mode"},
}

// XP awarded for learner activity.
const (
	XPCompletedLesson     = 50
	XPCompletedModule     = 200
	XPCompletedCourse     = 1000
	XPPerfectQuiz         = 100
	XPDailyStreak         = 25
	XPProjectSubmitted    = 300
	XPHelpedPeer          = 50
	XPAttendedLiveClass   = 150
	XPAchievementUnlocked = 100
)

// DeriveLevel returns the highest level whose threshold the given XP meets.
// The level-1 entry has XPRequired 0, so any non-negative XP maps to a level.
func DeriveLevel(xp int) LevelDefinition {
	for i := len(Levels) - 1; i >= 0; i-- {
		if xp >= Levels[i].XPRequired {
			return Levels[i]
		}
	}
	return Levels[0]
}

// GamificationProfile is the per-learner ledger state, stored as the
// "gamification" sub-document of users/{learnerId}.
type GamificationProfile struct {
	LearnerID       string     `json:"-"`
	XP              int        `json:"xp"`
	Level           int        `json:"level"`
	Streak          int        `json:"streak"`
	BestStreak      int        `json:"bestStreak"`
	LastActiveDate  *time.Time `json:"lastActiveDate,omitempty"`
	Achievements    []string   `json:"achievements"`
	StudyTimeMillis int64      `json:"studyTime"`
}

// DefaultProfile is the state a learner starts from. Absent documents read
// back as this, so a missing profile is never an error.
func DefaultProfile(learnerID string) GamificationProfile {
	return GamificationProfile{
		LearnerID:    learnerID,
		Level:        1,
		Achievements: []string{},
	}
}

// HasAchievement reports whether the achievement is already unlocked.
func (p GamificationProfile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}
