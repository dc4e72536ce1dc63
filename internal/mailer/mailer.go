package mailer

import (
	"fmt"
	"log"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer sends outbound HTML email. Every send is fire-and-forget: the
// message goes out on its own goroutine and a failure is logged, never
// returned to the caller.
type Mailer struct {
	dialer      *gomail.Dialer
	from        string
	frontendURL string
	enabled     bool
}

// New creates a Mailer. With no SMTP user configured the mailer is
// disabled and sends become log lines, which keeps local development
// working without credentials.
func New(host, port, user, pass, frontendURL string) *Mailer {
	p, err := strconv.Atoi(port)
	if err != nil {
		p = 587
	}
	return &Mailer{
		dialer:      gomail.NewDialer(host, p, user, pass),
		from:        fmt.Sprintf("\"Swophere\" <%s>", user),
		frontendURL: frontendURL,
		enabled:     user != "",
	}
}

func (m *Mailer) send(to, subject, htmlBody string) {
	if !m.enabled {
		log.Printf("mailer disabled, skipping email to %s: %s", to, subject)
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	go func() {
		if err := m.dialer.DialAndSend(msg); err != nil {
			log.Printf("Failed to send email to %s: %v", to, err)
		}
	}()
}

// SendVerificationEmail sends the account verification link after signup.
func (m *Mailer) SendVerificationEmail(to, token string) {
	verificationURL := fmt.Sprintf("%s/verify?token=%s", m.frontendURL, token)
	body := fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
        <h2 style="color: #6b21a8;">Welcome to LetSwap!</h2>
        <p>Thank you for signing up. Please verify your email address to activate your account.</p>
        <a href="%s"
           style="display: inline-block; padding: 12px 24px; background-color: #6b21a8; color: white; text-decoration: none; border-radius: 4px;">
          Verify Email Address
        </a>
        <p>Or copy and paste this link in your browser:</p>
        <p>%s</p>
        <p>This link will expire in 24 hours.</p>
      </div>
    `, verificationURL, verificationURL)
	m.send(to, "Verify Your LetSwap Account", body)
}

// SendInterestEmail notifies a listing owner of a new interest expression.
func (m *Mailer) SendInterestEmail(to, interestedUser, swapTitle, message string) {
	messageBlock := ""
	if message != "" {
		messageBlock = fmt.Sprintf("<p><strong>Message:</strong> %s</p>", message)
	}
	body := fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
          <h2 style="color: #6b21a8;">New Swap Interest!</h2>
          <p><strong>%s</strong> is interested in your swap: <strong>%s</strong></p>
          %s
          <p>Log in to your account to view and manage interests.</p>
          <a href="%s/dashboard"
             style="display: inline-block; padding: 12px 24px; background-color: #6b21a8; color: white; text-decoration: none; border-radius: 4px;">
            View Dashboard
          </a>
        </div>
      `, interestedUser, swapTitle, messageBlock, m.frontendURL)
	m.send(to, fmt.Sprintf("New Interest in Your Swap: %s", swapTitle), body)
}

// SendStatusUpdateEmail notifies a listing owner of a status transition.
func (m *Mailer) SendStatusUpdateEmail(to, swapTitle, listingID, newStatus, reason string) {
	var subject, message string
	reasonSuffix := ""
	if reason != "" {
		reasonSuffix = fmt.Sprintf(" Reason: %s", reason)
	}

	switch newStatus {
	case "ACCEPTED":
		subject = fmt.Sprintf("Your Swap %q Has Been Approved", swapTitle)
		message = fmt.Sprintf("Great news! Your swap listing %q has been approved and is now live on the platform.", swapTitle)
	case "REJECTED":
		subject = fmt.Sprintf("Your Swap %q Was Not Approved", swapTitle)
		message = fmt.Sprintf("Your swap listing %q was not approved.%s", swapTitle, reasonSuffix)
	case "CANCELLED":
		subject = fmt.Sprintf("Swap %q Has Been Cancelled", swapTitle)
		message = fmt.Sprintf("Your swap listing %q has been cancelled.%s", swapTitle, reasonSuffix)
	default:
		subject = fmt.Sprintf("Update on Your Swap %q", swapTitle)
		message = fmt.Sprintf("The status of your swap listing %q has been updated to %s.", swapTitle, newStatus)
	}

	body := fmt.Sprintf(`
        <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
          <h2 style="color: #6b21a8;">Swap Status Update</h2>
          <p>%s</p>
          <a href="%s/swaps/%s"
             style="display: inline-block; padding: 12px 24px; background-color: #6b21a8; color: white; text-decoration: none; border-radius: 4px;">
            View Swap
          </a>
        </div>
      `, message, m.frontendURL, listingID)
	m.send(to, subject, body)
}
