package creditController

import (
	"errors"
	"fmt"
	"log"

	"udoy/middleware"
	"udoy/models"
	"udoy/services"
	creditValidator "udoy/validators/credits"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var errPoolExhausted = errors.New("sponsor pool exhausted")

type CreditController struct {
	DB *gorm.DB
}

func NewCreditController(db *gorm.DB) *CreditController {
	return &CreditController{DB: db}
}

// Donate adds a sponsor donation to the credit pool. The donation keeps
// its own undrawn remainder so later awards draw down oldest money first.
func (ctrl *CreditController) Donate(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedDonation").(*creditValidator.DonateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var donation *models.SponsorDonation
	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		created, err := services.Donate(tx, user, reqData.Amount, reqData.Note)
		if err != nil {
			return err
		}
		donation = created

		msg := fmt.Sprintf("Thank you for donating %d credits to the learning pool!", reqData.Amount)
		if err := services.NotifyUser(tx, user.ID, msg); err != nil {
			return err
		}
		id := donation.ID
		return services.RecordActivity(tx, &user.ID, "donation_received", "donation", &id, reqData.Note)
	})
	if err != nil {
		log.Printf("Error recording donation: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record donation!", nil)
	}

	poolRemaining, err := services.PoolRemaining(ctrl.DB)
	if err != nil {
		log.Printf("Error reading pool remaining: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Donation received successfully!", fiber.Map{
		"donation":       donation,
		"pool_remaining": poolRemaining,
	})
}

// CoachAward grants pool-backed credits to a student. The award fails
// when the pool has nothing left to draw.
func (ctrl *CreditController) CoachAward(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedAward").(*creditValidator.CoachAwardRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var student models.User
	if err := ctrl.DB.First(&student, reqData.StudentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Student not found!", nil)
	}

	if student.Role != models.RoleStudent {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Credits can only be awarded to students!", nil)
	}

	granted := 0
	err := ctrl.DB.Transaction(func(tx *gorm.DB) error {
		note := reqData.Note
		if note == "" {
			note = fmt.Sprintf("Coach award from %s", user.FullName)
		}

		got, err := services.AwardCredits(tx, &student, reqData.Amount, models.CreditSourceCoach, note)
		if err != nil {
			return err
		}
		if got == 0 {
			return errPoolExhausted
		}
		granted = got

		msg := fmt.Sprintf("You received %d credits from your coach.", granted)
		if err := services.NotifyUser(tx, student.ID, msg); err != nil {
			return err
		}
		id := student.ID
		return services.RecordActivity(tx, &user.ID, "credits_awarded", "user", &id, note)
	})
	if err != nil {
		if errors.Is(err, errPoolExhausted) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No credits available in the sponsor pool!", nil)
		}
		log.Printf("Error awarding credits to student %d: %v", reqData.StudentID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to award credits!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Credits awarded successfully!", fiber.Map{
		"student_id": student.ID,
		"granted":    granted,
		"balance":    student.Credits,
	})
}

// MyTransactions returns the caller's ledger entries newest first along
// with their current balance. Sponsors also see the pool remainder.
func (ctrl *CreditController) MyTransactions(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedTransactionList").(*struct {
		Page  *int `json:"page"`
		Limit *int `json:"limit"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	page := *reqData.Page
	limit := *reqData.Limit
	offset := (page - 1) * limit

	db := ctrl.DB.Model(&models.CreditTransaction{}).Where("user_id = ?", user.ID)

	var total int64
	db.Count(&total)

	var transactions []models.CreditTransaction
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	response := fiber.Map{
		"transactions": transactions,
		"balance":      user.Credits,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	if user.Role == models.RoleSponsor || user.Role == models.RoleAdmin {
		if poolRemaining, err := services.PoolRemaining(ctrl.DB); err == nil {
			response["pool_remaining"] = poolRemaining
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched successfully!", response)
}
