package controllers

import (
	"bufio"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"skillpath/backend/middleware"
	"skillpath/backend/models"
	"skillpath/backend/services"
	"skillpath/backend/store"
	"skillpath/backend/utils"
)

type GamificationController struct {
	Svc   *services.GamificationService
	Store store.Store
}

func NewGamificationController(svc *services.GamificationService, st store.Store) *GamificationController {
	return &GamificationController{Svc: svc, Store: st}
}

type awardXPRequest struct {
	Amount int    `json:"amount" validate:"required"`
	Reason string `json:"reason" validate:"required,max=200"`
}

type unlockAchievementRequest struct {
	AchievementID string `json:"achievement_id" validate:"required,max=100"`
}

type studyTimeRequest struct {
	Millis int64 `json:"millis" validate:"required,gt=0"`
}

// GetProfile returns the learner's ledger, defaulting for new learners.
func (gc *GamificationController) GetProfile(c *fiber.Ctx) error {
	profile, err := gc.Svc.GetProfile(c.Context(), middleware.LearnerID(c))
	if err != nil {
		return utils.InternalServerError(c, "Could not load profile")
	}
	return utils.Success(c, fiber.StatusOK, profile)
}

// GetLevels returns the static level table for the UI.
func (gc *GamificationController) GetLevels(c *fiber.Ctx) error {
	return utils.Success(c, fiber.StatusOK, models.Levels)
}

// AwardXP adds XP for an activity and reports level-up transitions.
func (gc *GamificationController) AwardXP(c *fiber.Ctx) error {
	var input awardXPRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	award, err := gc.Svc.AwardXP(c.Context(), middleware.LearnerID(c), input.Amount, input.Reason)
	if errors.Is(err, services.ErrInvalidAmount) {
		return utils.BadRequest(c, err.Error())
	}
	if err != nil {
		return utils.InternalServerError(c, "Could not award XP")
	}
	return utils.Success(c, fiber.StatusOK, award)
}

// UpdateStreak registers today's activity.
func (gc *GamificationController) UpdateStreak(c *fiber.Ctx) error {
	update, err := gc.Svc.UpdateStreak(c.Context(), middleware.LearnerID(c))
	if err != nil {
		return utils.InternalServerError(c, "Could not update streak")
	}
	return utils.Success(c, fiber.StatusOK, update)
}

// UnlockAchievement records a first-time unlock; repeats report unlocked=false.
func (gc *GamificationController) UnlockAchievement(c *fiber.Ctx) error {
	var input unlockAchievementRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	unlocked, err := gc.Svc.UnlockAchievement(c.Context(), middleware.LearnerID(c), input.AchievementID)
	if err != nil {
		return utils.InternalServerError(c, "Could not unlock achievement")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"unlocked": unlocked})
}

// AddStudyTime accumulates study duration.
func (gc *GamificationController) AddStudyTime(c *fiber.Ctx) error {
	var input studyTimeRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	err := gc.Svc.AddStudyTime(c.Context(), middleware.LearnerID(c), time.Duration(input.Millis)*time.Millisecond)
	if err != nil {
		return utils.InternalServerError(c, "Could not record study time")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "Study time recorded"})
}

// Watch streams user-document changes as server-sent events so open tabs can
// refresh XP and streak widgets live.
func (gc *GamificationController) Watch(c *fiber.Ctx) error {
	learnerID := middleware.LearnerID(c)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		changes := make(chan store.Document, 8)
		cancel := gc.Store.Subscribe(store.UsersCollection, learnerID, func(doc store.Document) {
			select {
			case changes <- doc:
			default: // drop when the client is not keeping up
			}
		})
		defer cancel()

		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case doc := <-changes:
				payload, err := json.Marshal(doc["gamification"])
				if err != nil {
					return
				}
				if _, err := w.WriteString("data: " + string(payload) + "\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": keepalive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
	return nil
}
