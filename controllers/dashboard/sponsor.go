package dashboardController

import (
	"log"

	"udoy/middleware"
	"udoy/models"
	"udoy/services"

	"github.com/gofiber/fiber/v2"
)

// SponsorReports shows a sponsor where their money went: their own
// donations with undrawn remainders, plus how much the pool has paid
// out by source.
func (ctrl *DashboardController) SponsorReports(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var donations []models.SponsorDonation
	if err := ctrl.DB.Where("sponsor_id = ?", user.ID).
		Order("created_at desc").Find(&donations).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch donations!", nil)
	}

	totalDonated := 0
	totalRemaining := 0
	for _, donation := range donations {
		totalDonated += donation.Amount
		totalRemaining += donation.Remaining
	}

	// Pool-backed payouts split by what triggered them.
	var disbursed []struct {
		Source string `json:"source"`
		Total  int64  `json:"total"`
	}
	if err := ctrl.DB.Model(&models.CreditTransaction{}).
		Select("source, COALESCE(SUM(amount), 0) AS total").
		Where("source IN ?", []models.CreditSource{models.CreditSourceCompletion, models.CreditSourceCoach}).
		Group("source").
		Scan(&disbursed).Error; err != nil {
		log.Printf("Error summing disbursements: %v", err)
	}

	disbursedBySource := make(map[string]int64, len(disbursed))
	for _, d := range disbursed {
		disbursedBySource[d.Source] = d.Total
	}

	poolRemaining, err := services.PoolRemaining(ctrl.DB)
	if err != nil {
		log.Printf("Error reading pool remaining: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sponsor report fetched successfully!", fiber.Map{
		"donations":           donations,
		"total_donated":       totalDonated,
		"total_remaining":     totalRemaining,
		"disbursed_by_source": disbursedBySource,
		"pool_remaining":      poolRemaining,
	})
}
