package services

import (
	"fmt"
	"os"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type EmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewEmailService() *EmailService {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("SENDGRID_NOTIFICATIONS_FROM_EMAIL")
	fromName := os.Getenv("SENDGRID_FROM_NAME")

	client := sendgrid.NewSendClient(apiKey)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// send dispatches one email and turns provider-level rejections into errors
func (s *EmailService) send(toName, toEmail, subject, plainContent, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainContent, htmlContent)

	response, err := s.client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email to %s: %d %s", toEmail, response.StatusCode, response.Body)
	}
	return nil
}

// SendReviewReminder delivers a composed review reminder to the recipient
func (s *EmailService) SendReviewReminder(toEmail string, email RenderedEmail) error {
	return s.send("", toEmail, email.Subject, email.PlainText, email.HTML)
}

// SendRewardCode delivers a freshly won reward code after a wheel spin
func (s *EmailService) SendRewardCode(toEmail, businessName, prize, code string) error {
	subject := fmt.Sprintf("Your reward from %s", businessName)
	plainContent := fmt.Sprintf("Congratulations! You won %s at %s. Your reward code is %s. Show it on your next visit.",
		prize, businessName, code)
	htmlContent := fmt.Sprintf("<p>Congratulations! You won <strong>%s</strong> at %s.</p><p>Your reward code is <strong>%s</strong>.</p><p>Show it on your next visit.</p>",
		prize, businessName, code)

	return s.send("", toEmail, subject, plainContent, htmlContent)
}

// SendContactNotification forwards a contact-form submission to support
func (s *EmailService) SendContactNotification(supportEmail, senderName, senderEmail, subject, message string) error {
	if subject == "" {
		subject = "New contact form message"
	}
	mailSubject := fmt.Sprintf("[Contact] %s", subject)
	plainContent := fmt.Sprintf("From: %s <%s>\n\n%s", senderName, senderEmail, message)
	htmlContent := fmt.Sprintf("<p>From: %s &lt;%s&gt;</p><p>%s</p>", senderName, senderEmail, message)

	return s.send("Support", supportEmail, mailSubject, plainContent, htmlContent)
}

// SendTrialEnding warns an account owner their trial expires soon
func (s *EmailService) SendTrialEnding(toName, toEmail string, endsAt time.Time) error {
	subject := "Your Review to Revenue trial is ending soon"
	plainContent := fmt.Sprintf("Hello %s, your free trial ends on %s. Upgrade to keep collecting reviews without interruption.",
		toName, endsAt.Format("Mon Jan 2"))
	htmlContent := fmt.Sprintf("<p>Hello %s,</p><p>Your free trial ends on <strong>%s</strong>.</p><p>Upgrade to keep collecting reviews without interruption.</p>",
		toName, endsAt.Format("Mon Jan 2"))

	return s.send(toName, toEmail, subject, plainContent, htmlContent)
}
