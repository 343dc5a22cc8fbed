package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

const mailerSendTimeout = 10 * time.Second

type MailerSendNotifier struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewMailerSendNotifier(apiKey, fromName, fromEmail string) *MailerSendNotifier {
	return &MailerSendNotifier{
		client: mailersend.NewMailersend(apiKey),
		from:   mailersend.From{Name: fromName, Email: fromEmail},
	}
}

func (n *MailerSendNotifier) SendOTP(ctx context.Context, toEmail, code string) error {
	ctx, cancel := context.WithTimeout(ctx, mailerSendTimeout)
	defer cancel()

	msg := n.client.Email.NewMessage()
	msg.SetFrom(n.from)
	msg.SetRecipients([]mailersend.Recipient{{Email: toEmail}})
	msg.SetSubject(otpSubject)
	msg.SetText(otpText(code))
	msg.SetHTML(otpHTML(code))

	res, err := n.client.Email.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("mailersend: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
