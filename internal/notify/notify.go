package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/BruksfildServices01/restaurant-app/internal/config"
)

// Notifier delivers one-time codes to users.
type Notifier interface {
	SendOTP(ctx context.Context, toEmail, code string) error
}

const otpSubject = "Your OTP Code - Restaurant App"

func otpText(code string) string {
	return fmt.Sprintf("Your OTP code is %s. It will expire soon.", code)
}

func otpHTML(code string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <div style="max-width: 520px; margin: 0 auto; padding: 16px;">
    <h2>Restaurant App login</h2>
    <p>Your one-time code is:</p>
    <div style="font-size: 28px; font-weight: bold; letter-spacing: 3px;">%s</div>
    <p>It will expire soon. If you did not ask for it, ignore this email.</p>
  </div>
</body>
</html>`, code)
}

// New picks MailerSend when an API key is configured, then SMTP, and
// finally a notifier that only writes codes to the log.
func New(cfg config.MailConfig, log *slog.Logger) Notifier {
	switch {
	case cfg.MailerSendAPIKey != "":
		return NewMailerSendNotifier(cfg.MailerSendAPIKey, cfg.SenderName, cfg.Sender)
	case cfg.Username != "":
		return NewSMTPNotifier(cfg)
	default:
		return NewLogNotifier(log)
	}
}

// ================================
// Log-only notifier
// ================================

type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(log *slog.Logger) *LogNotifier {
	if log == nil {
		log = slog.Default()
	}
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendOTP(_ context.Context, toEmail, code string) error {
	n.log.Info("otp issued", slog.String("email", toEmail), slog.String("code", code))
	return nil
}
