package creditValidator

import (
	"udoy/middleware"

	"github.com/gofiber/fiber/v2"
)

// DonateRequest is the sponsor's pool contribution payload.
type DonateRequest struct {
	Amount int    `json:"amount"`
	Note   string `json:"note"`
}

// CoachAwardRequest grants pool-backed credits to a student.
type CoachAwardRequest struct {
	StudentID uint   `json:"studentId"`
	Amount    int    `json:"amount"`
	Note      string `json:"note"`
}

// Donate validates a sponsor donation request
func Donate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DonateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Amount
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDonation", reqData)
		return c.Next()
	}
}

// CoachAward validates a coach credit award request
func CoachAward() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CoachAwardRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Student ID
		if reqData.StudentID == 0 {
			errors["studentId"] = "Student ID is required!"
		}

		// Validate Amount
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAward", reqData)
		return c.Next()
	}
}

// TransactionList validates the credit history listing request
func TransactionList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		// Validate Page
		if reqData.Page == nil || *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		// Validate Limit
		if reqData.Limit == nil || *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTransactionList", reqData)
		return c.Next()
	}
}
