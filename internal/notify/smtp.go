package notify

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/BruksfildServices01/restaurant-app/internal/config"
)

type SMTPNotifier struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
}

func NewSMTPNotifier(cfg config.MailConfig) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Server, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (n *SMTPNotifier) SendOTP(ctx context.Context, toEmail, code string) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("empty recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.cfg.Sender, n.cfg.SenderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", otpSubject)
	m.SetBody("text/plain", otpText(code))
	m.AddAlternative("text/html", otpHTML(code))

	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}
