package controllers

import (
	"github.com/gofiber/fiber/v2"

	"skillpath/backend/middleware"
	"skillpath/backend/services"
	"skillpath/backend/utils"
)

type ProgressController struct {
	Svc *services.ProgressService
}

func NewProgressController(svc *services.ProgressService) *ProgressController {
	return &ProgressController{Svc: svc}
}

type markCompletedRequest struct {
	ContentID  string `json:"content_id" validate:"required"`
	TotalUnits int    `json:"total_units" validate:"gte=0"`
}

type recordVisitRequest struct {
	ContentID string `json:"content_id" validate:"required"`
}

// moduleBreakdownRequest carries module membership from the course catalog.
// The caller supplies it; this service never fetches the catalog itself.
type moduleBreakdownRequest struct {
	Modules []struct {
		ID      string   `json:"id" validate:"required"`
		UnitIDs []string `json:"unit_ids"`
	} `json:"modules" validate:"required,dive"`
}

// GetProgress returns the learner's progress for a course. Learners who never
// opened the course get the empty state.
func (pc *ProgressController) GetProgress(c *fiber.Ctx) error {
	learnerID := middleware.LearnerID(c)
	courseID := c.Params("courseId")

	progress, err := pc.Svc.GetProgress(c.Context(), learnerID, courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not load progress")
	}
	return utils.Success(c, fiber.StatusOK, progress)
}

// MarkCompleted records one completed content unit.
func (pc *ProgressController) MarkCompleted(c *fiber.Ctx) error {
	learnerID := middleware.LearnerID(c)
	courseID := c.Params("courseId")

	var input markCompletedRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	snapshot, err := pc.Svc.MarkCompleted(c.Context(), learnerID, courseID, input.ContentID, input.TotalUnits)
	if err != nil {
		return utils.InternalServerError(c, "Could not save progress")
	}
	return utils.Success(c, fiber.StatusOK, snapshot)
}

// RecordVisit moves the resume pointer.
func (pc *ProgressController) RecordVisit(c *fiber.Ctx) error {
	learnerID := middleware.LearnerID(c)
	courseID := c.Params("courseId")

	var input recordVisitRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	if err := pc.Svc.RecordVisit(c.Context(), learnerID, courseID, input.ContentID); err != nil {
		return utils.InternalServerError(c, "Could not save progress")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "Visit recorded"})
}

// ModuleBreakdown returns per-module completion percentages plus the course
// total for the supplied module membership.
func (pc *ProgressController) ModuleBreakdown(c *fiber.Ctx) error {
	learnerID := middleware.LearnerID(c)
	courseID := c.Params("courseId")

	var input moduleBreakdownRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	progress, err := pc.Svc.GetProgress(c.Context(), learnerID, courseID)
	if err != nil {
		return utils.InternalServerError(c, "Could not load progress")
	}

	var allUnits []string
	byModule := make(map[string]int, len(input.Modules))
	for _, m := range input.Modules {
		byModule[m.ID] = services.ComputeModuleProgress(progress, m.UnitIDs)
		allUnits = append(allUnits, m.UnitIDs...)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"modules": byModule,
		"course":  services.ComputeCourseProgress(progress, allUnits),
	})
}
