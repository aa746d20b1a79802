package services

import (
	"context"
	"errors"
	"math"

	"skillpath/backend/models"
	"skillpath/backend/store"
)

// ProgressService records per-course content completion and powers the
// "continue where you left off" pointer.
type ProgressService struct {
	Store store.Store
	Clock Clock
}

func NewProgressService(st store.Store, clock Clock) *ProgressService {
	return &ProgressService{Store: st, Clock: clock}
}

// ProgressKey is the document key for a learner's progress in a course.
func ProgressKey(learnerID, courseID string) string {
	return learnerID + "_" + courseID
}

// GetProgress reads the learner's progress document. An absent document is
// the empty state, not an error.
func (s *ProgressService) GetProgress(ctx context.Context, learnerID, courseID string) (models.LearnerProgress, error) {
	doc, err := s.Store.Get(ctx, store.ProgressCollection, ProgressKey(learnerID, courseID))
	if errors.Is(err, store.ErrNotFound) {
		return models.EmptyProgress(learnerID, courseID), nil
	}
	if err != nil {
		return models.LearnerProgress{}, err
	}

	progress := models.EmptyProgress(learnerID, courseID)
	if err := store.Decode(doc, &progress); err != nil {
		return models.LearnerProgress{}, err
	}
	if progress.CompletedSections == nil {
		progress.CompletedSections = []string{}
	}
	progress.LearnerID = learnerID
	progress.CourseID = courseID
	return progress, nil
}

// MarkCompleted adds the unit to the completed set. Re-marking an already
// completed unit leaves the set unchanged; the write still refreshes
// lastAccessed. totalUnits comes from the caller, the course catalog is not
// consulted here.
func (s *ProgressService) MarkCompleted(ctx context.Context, learnerID, courseID, unitID string, totalUnits int) (models.ProgressSnapshot, error) {
	progress, err := s.GetProgress(ctx, learnerID, courseID)
	if err != nil {
		return models.ProgressSnapshot{}, err
	}

	completed := progress.CompletedSections
	if !progress.IsCompleted(unitID) {
		completed = append(completed, unitID)
	}

	now := s.Clock.Now().UTC()
	err = s.Store.MergeSet(ctx, store.ProgressCollection, ProgressKey(learnerID, courseID), store.Document{
		"learnerId":         learnerID,
		"courseId":          courseID,
		"completedSections": completed,
		"lastAccessed":      now,
	})
	if err != nil {
		return models.ProgressSnapshot{}, err
	}

	return models.ProgressSnapshot{
		CompletedCount: len(completed),
		Percent:        percentage(len(completed), totalUnits),
	}, nil
}

// RecordVisit moves the resume pointer. It runs on every navigation,
// regardless of completion state.
func (s *ProgressService) RecordVisit(ctx context.Context, learnerID, courseID, unitID string) error {
	now := s.Clock.Now().UTC()
	return s.Store.MergeSet(ctx, store.ProgressCollection, ProgressKey(learnerID, courseID), store.Document{
		"learnerId":            learnerID,
		"courseId":             courseID,
		"lastVisitedContentId": unitID,
		"lastAccessed":         now,
	})
}

// ComputeModuleProgress is the completed share of one module's units, as a
// rounded percentage. An empty module is 0%, never a division by zero.
func ComputeModuleProgress(progress models.LearnerProgress, moduleUnitIDs []string) int {
	if len(moduleUnitIDs) == 0 {
		return 0
	}
	done := 0
	for _, id := range moduleUnitIDs {
		if progress.IsCompleted(id) {
			done++
		}
	}
	return percentage(done, len(moduleUnitIDs))
}

// ComputeCourseProgress counts only completed IDs that still exist in the
// course, so stale completions for removed content cannot push the result
// past 100%.
func ComputeCourseProgress(progress models.LearnerProgress, allUnitIDs []string) int {
	if len(allUnitIDs) == 0 {
		return 0
	}
	valid := make(map[string]struct{}, len(allUnitIDs))
	for _, id := range allUnitIDs {
		valid[id] = struct{}{}
	}
	done := 0
	for _, id := range progress.CompletedSections {
		if _, ok := valid[id]; ok {
			done++
		}
	}
	return percentage(done, len(allUnitIDs))
}

func percentage(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}
