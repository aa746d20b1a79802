package controllers

import (
	"github.com/gofiber/fiber/v2"

	"skillpath/backend/middleware"
	"skillpath/backend/services"
	"skillpath/backend/utils"
)

type EnrollmentController struct {
	Svc *services.EnrollmentService
}

func NewEnrollmentController(svc *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{Svc: svc}
}

type enrollLiveClassesRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
	Plan      string `json:"plan" validate:"omitempty,oneof=solo squad"`
	Amount    int    `json:"amount" validate:"gte=0"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// Enroll marks the learner as enrolled in live classes. The payment has
// already been settled elsewhere; its ID is recorded as-is.
func (ec *EnrollmentController) Enroll(c *fiber.Ctx) error {
	var input enrollLiveClassesRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	enrollmentID, err := ec.Svc.EnrollLiveClasses(c.Context(), middleware.LearnerID(c), services.EnrollLiveClassesInput{
		PaymentID: input.PaymentID,
		Plan:      input.Plan,
		Amount:    input.Amount,
		StartDate: input.StartDate,
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not enroll")
	}
	return utils.Success(c, fiber.StatusCreated, fiber.Map{"enrollment_id": enrollmentID})
}

// Status reports whether the learner is enrolled in live classes.
func (ec *EnrollmentController) Status(c *fiber.Ctx) error {
	enrolled, err := ec.Svc.IsEnrolledLiveClasses(c.Context(), middleware.LearnerID(c))
	if err != nil {
		return utils.InternalServerError(c, "Could not check enrollment")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"enrolled": enrolled})
}
