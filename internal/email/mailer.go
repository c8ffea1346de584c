package email

import (
	"rentpro_backend/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer отправляет одно письмо. Транспорт обязан иметь send-once семантику;
// дедупликация на уровне транспорта не выполняется.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// GomailSender - SMTP реализация Mailer поверх gomail
type GomailSender struct {
	cfg *config.Config
}

func NewGomailSender(cfg *config.Config) *GomailSender {
	return &GomailSender{cfg: cfg}
}

func (s *GomailSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.Email.FromEmail, s.cfg.Email.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(
		s.cfg.Email.SMTPHost,
		s.cfg.Email.SMTPPort,
		s.cfg.Email.SMTPUsername,
		s.cfg.Email.SMTPPassword,
	)

	return d.DialAndSend(m)
}
