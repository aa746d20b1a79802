package models

import "time"

// LearnerProgress tracks which content units a learner has completed in a
// course. Stored at userProgress/{learnerId}_{courseId}. The completed set is
// append-only; units are never un-completed by normal operation.
type LearnerProgress struct {
	LearnerID            string     `json:"learnerId"`
	CourseID             string     `json:"courseId"`
	CompletedSections    []string   `json:"completedSections"`
	LastVisitedContentID string     `json:"lastVisitedContentId,omitempty"`
	LastAccessed         *time.Time `json:"lastAccessed,omitempty"`
}

// EmptyProgress is what a learner who has never opened the course reads back.
func EmptyProgress(learnerID, courseID string) LearnerProgress {
	return LearnerProgress{
		LearnerID:         learnerID,
		CourseID:          courseID,
		CompletedSections: []string{},
	}
}

// IsCompleted reports whether the unit is in the completed set.
func (p LearnerProgress) IsCompleted(unitID string) bool {
	for _, id := range p.CompletedSections {
		if id == unitID {
			return true
		}
	}
	return false
}

// ProgressSnapshot is returned after a completion write.
type ProgressSnapshot struct {
	CompletedCount int `json:"completedCount"`
	Percent        int `json:"percent"`
}
