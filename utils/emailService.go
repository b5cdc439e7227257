package utils

import (
	"fmt"
	"log"

	"udoy/config"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Generic Send Email
func SendEmail(toEmail, toName, subject, textBody, htmlBody string) error {
	if config.AppConfig.SendgridAPIKey == "" {
		log.Printf("SendGrid key not set, skipping email to %s: %s", toEmail, subject)
		return nil
	}

	from := mail.NewEmail("Udoy Learning", config.AppConfig.EmailSender)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, textBody, htmlBody)

	client := sendgrid.NewSendClient(config.AppConfig.SendgridAPIKey)
	response, err := client.Send(message)
	if err != nil {
		log.Println("Error sending email:", err)
		return err
	}
	if response.StatusCode >= 400 {
		log.Printf("Failed to send email to %s, response code: %d", toEmail, response.StatusCode)
		return fmt.Errorf("failed to send email, code: %d", response.StatusCode)
	}

	log.Println("Email sent successfully to", toEmail)
	return nil
}

// HTML Wrapper for a consistent look across all platform emails
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #1B3C53; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B3C53; line-height: 1.6; }
			.content h2 { color: #1B3C53; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #52AB98; margin: 20px 0; }
			.serial { color: #2196F3; text-align: center; margin: 10px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>UDOY LEARNING</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; 2026 Udoy Learning. All rights reserved.<br>
				Learn at your own pace. Certificates are issued on course completion.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// --- Triggers ---

// 1. Welcome / Signup
func SendWelcomeEmail(email, name string) {
	subject := "Welcome to Udoy Learning"
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>Udoy Learning</strong>! Your account has been created successfully.</p>
		<p>Browse the course catalog, enroll, and start earning badges and certificates.</p>
	`, name)

	go SendEmail(email, name, subject, "Welcome to Udoy Learning! Your account has been created.", getEmailTemplate("Welcome Onboard!", body))
}

// 2. Enrollment Confirmation
func SendEnrollmentEmail(email, name, courseName string) {
	subject := "Enrollment Confirmed: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully enrolled in <strong>%s</strong>.</p>
		<div class="info-box">
			<strong>Next Steps:</strong> Work through the lessons and pass each quiz to move your progress forward.
		</div>
		<p>Complete the whole course to earn your certificate.</p>
	`, name, courseName)

	go SendEmail(email, name, subject, fmt.Sprintf("You have enrolled in %s.", courseName), getEmailTemplate("Enrollment Successful", body))
}

// 3. Course Published (To Creator)
func SendCoursePublishedEmail(email, name, courseName string) {
	subject := "Course Published: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Great news! Your course <strong>%s</strong> has been published.</p>
		<p>It is now live in the catalog and open for student enrollment.</p>
	`, name, courseName)

	go SendEmail(email, name, subject, fmt.Sprintf("Your course %s has been published.", courseName), getEmailTemplate("Course Published", body))
}

// 4. Completion Certificate
func SendCertificateEmail(email, name, courseName, serialNumber string) {
	subject := "Course Completion Certificate: " + courseName
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<div class="info-box">
			<p style="margin: 0 0 5px 0;">Your certificate serial number:</p>
			<h2 class="serial">%s</h2>
		</div>
		<p>Keep this serial number for verification purposes.</p>
	`, name, courseName, serialNumber)

	go SendEmail(email, name, subject, fmt.Sprintf("You completed %s. Certificate serial: %s.", courseName, serialNumber), getEmailTemplate("Certificate of Completion", body))
}
