package mail

import (
	"github.com/sharein/backend/internal/config"
	"github.com/sharein/backend/internal/models"
	"github.com/sharein/backend/pkg/logger"
	gomail "gopkg.in/gomail.v2"
)

// Mailer sends share notifications. Satisfied by SMTPMailer in production and
// by fakes in tests.
type Mailer interface {
	SendShareNotification(to string, sharer *models.User, file *models.File, shareURL string) error
}

type SMTPMailer struct {
	cfg config.MailConfig
}

func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendShareNotification(to string, sharer *models.User, file *models.File, shareURL string) error {
	html, text, err := RenderShareEmail(sharer, file, shareURL)
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.From, "ShareIn")
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", sharer.DisplayName()+" shared a file with you")
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", html)

	dialer := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		logger.Error("share_mail_failed", err, map[string]interface{}{
			"to":      to,
			"file_id": file.ID.String(),
		})
		return err
	}

	logger.Info("share_mail_sent", map[string]interface{}{
		"to":      to,
		"file_id": file.ID.String(),
	})
	return nil
}
