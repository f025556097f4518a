package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendWelcome(toEmail, fullName string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendWelcome(toEmail, fullName string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Welcome to StudyTrack")

	name := fullName
	if name == "" {
		name = "there"
	}

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Welcome to StudyTrack, %s!</h2>
			<p>Your account is ready. Add your first study goal and keep your progress moving.</p>
			<p>Small progress is still progress.</p>
		</div>
	`, name)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email to %s: %w", toEmail, err)
	}

	return nil
}
