package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/Dan9191/wellness-service/internal/config"
	"github.com/Dan9191/wellness-service/internal/models"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// DigestBody renders the plain-text summary of a user's scenarios
func DigestBody(username string, scenarios []*models.Scenario) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", username)
	b.WriteString("Here is where your saved scenarios stand this week:\n\n")
	for _, s := range scenarios {
		name := s.Name
		if name == "" {
			name = string(s.Type)
		}
		fmt.Fprintf(&b,
			"%s\n  Monthly savings: %d\n  Health index: %d/100\n  Goal achievement: %d%%\n  Time to goal: %d months\n  Change vs. baseline: %+.1f%%\n\n",
			name, s.MonthlySavings, s.OverallHealthIndex, s.GoalAchievement, s.TimeToGoal, s.Improvement,
		)
	}
	b.WriteString("Best regards,\nWellness Service")
	return b.String()
}

// SendScenarioDigest emails a summary of the given scenarios
func (s *Sender) SendScenarioDigest(to, username string, scenarios []*models.Scenario) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Your Weekly Scenario Digest"
	e.Text = []byte(DigestBody(username, scenarios))

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send digest to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
