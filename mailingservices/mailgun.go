package mailingservices

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// Mailgun wraps the mailgun client used for transactional mail
type Mailgun struct {
	Client *mailgun.MailgunImpl
}

func (m *Mailgun) Init() {
	domain := os.Getenv("MG_DOMAIN")
	apiKey := os.Getenv("MG_PUBLIC_API_KEY")
	m.Client = mailgun.NewMailgun(domain, apiKey)
	log.Println("Mailgun client initialized")
}

func (m *Mailgun) send(recipient, subject, body string) (string, error) {
	sender := os.Getenv("EMAIL_FROM")
	message := m.Client.NewMessage(sender, subject, body, recipient)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*30)
	defer cancel()

	_, id, err := m.Client.Send(ctx, message)
	if err != nil {
		return "", err
	}
	return id, nil
}

// SendResetPassword mails the password reset link to the user
func (m *Mailgun) SendResetPassword(recipient, resetLink string) (string, error) {
	subject := "Reset your FinCoach password"
	body := fmt.Sprintf("We received a request to reset your password.\n\nFollow this link to choose a new one: %s\n\nIf you didn't request this, you can ignore this email.", resetLink)
	return m.send(recipient, subject, body)
}

// SendWelcomeMessage mails a short welcome note after signup
func (m *Mailgun) SendWelcomeMessage(recipient, subject string) (string, error) {
	body := "Welcome to FinCoach! Your personal financial coach is ready whenever you are."
	return m.send(recipient, subject, body)
}
