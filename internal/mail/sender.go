package mail

import (
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/xplorhq/asset-service/internal/config"
	"github.com/xplorhq/asset-service/internal/log"
)

// Sender delivers account emails (verification and reset codes).
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender delivers through a configured SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTP(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

// ConsoleSender stands in when SMTP is unconfigured: the message is logged
// instead of delivered, so local registration flows stay usable.
type ConsoleSender struct{}

func (ConsoleSender) Send(to, subject, body string) error {
	log.L.Info("mock email",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

// FromConfig picks the SMTP sender when credentials are present, otherwise
// the console fallback.
func FromConfig(cfg config.SMTPConfig) Sender {
	if cfg.Enabled() {
		return NewSMTP(cfg)
	}
	return ConsoleSender{}
}
