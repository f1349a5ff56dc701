package service

import (
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/gomail.v2"

	"github.com/ecochef/ecochef/backend/internal/models"
)

type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	From         string
	AdminEmail   string
}

// EmailService sends admin notifications over SMTP. Without an SMTP host it
// only logs what it would have sent.
type EmailService struct {
	cfg    EmailConfig
	dialer *gomail.Dialer
	logger *zap.Logger
}

func NewEmailService(cfg EmailConfig, logger *zap.Logger) *EmailService {
	s := &EmailService{cfg: cfg, logger: logger.Named("email")}
	if cfg.SMTPHost != "" {
		s.dialer = gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	}
	return s
}

func (s *EmailService) SendFeedbackNotification(recipe *models.Recipe, feedback *models.Feedback) error {
	to := s.cfg.AdminEmail
	if to == "" {
		to = s.cfg.From
	}
	if to == "" {
		s.logger.Debug("no admin address configured, skipping feedback notification")
		return nil
	}

	caser := cases.Title(language.English)
	subject := fmt.Sprintf("[EcoChef] %d-star feedback on %s", feedback.Rating, caser.String(recipe.Name))
	return s.SendEmail(to, subject, buildFeedbackEmailBody(recipe, feedback))
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	if s.dialer == nil {
		s.logger.Info("SMTP not configured, logging email",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", s.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func buildFeedbackEmailBody(recipe *models.Recipe, feedback *models.Feedback) string {
	comment := "<em>No comment</em>"
	if feedback.Comment != "" {
		comment = strings.ReplaceAll(html.EscapeString(feedback.Comment), "\n", "<br>")
	}
	stars := strings.Repeat("&#9733;", feedback.Rating) + strings.Repeat("&#9734;", 5-feedback.Rating)

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>New Feedback - EcoChef</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
	<h2>New feedback on %s</h2>

	<div style="background-color: #f9f9f9; padding: 15px; border-left: 4px solid #4CAF50; margin: 20px 0;">
		<p><strong>Rating:</strong> %s (%d/5)</p>
		<p><strong>From:</strong> %s</p>
		<p><strong>Submitted:</strong> %s</p>
	</div>

	<div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px;">
		%s
	</div>

	<p style="font-size: 12px; color: #666;">Recipe ID: %s<br>Feedback ID: %s</p>
</body>
</html>
	`,
		html.EscapeString(recipe.Name),
		stars, feedback.Rating,
		html.EscapeString(feedback.UserName),
		feedback.CreatedAt.Format("2006-01-02 15:04:05 MST"),
		comment,
		recipe.ID, feedback.ID,
	)
}
