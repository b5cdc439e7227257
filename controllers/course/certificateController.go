package controllers

import (
	"strings"

	"udoy/middleware"
	"udoy/models"

	"github.com/gofiber/fiber/v2"
)

// MyCertificates lists the student's earned certificates with their
// course details, newest first.
func (ctrl *EnrollmentController) MyCertificates(c *fiber.Ctx) error {
	user, ok := c.Locals("authUser").(*models.User)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var certificates []models.Certificate
	if err := ctrl.DB.Where("student_id = ?", user.ID).Preload("Course").
		Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"certificates": certificates,
		"total":        len(certificates),
	})
}

// VerifyCertificate resolves a certificate by its serial number. The
// route is public so employers can check a certificate without a login.
func (ctrl *EnrollmentController) VerifyCertificate(c *fiber.Ctx) error {
	serial := strings.TrimSpace(c.Params("serial"))
	if serial == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Serial number is required!", nil)
	}

	var certificate models.Certificate
	if err := ctrl.DB.Where("serial_number = ?", serial).Preload("Course").First(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	var student models.User
	studentName := ""
	if err := ctrl.DB.First(&student, certificate.StudentID).Error; err == nil {
		studentName = student.FullName
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified successfully!", fiber.Map{
		"serial_number": certificate.SerialNumber,
		"student_name":  studentName,
		"course_title":  certificate.Course.Title,
		"issued_at":     certificate.IssuedAt,
	})
}
