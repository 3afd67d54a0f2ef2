package notifier

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/palko-app/rentmanager/internal/common/config"

	"go.uber.org/zap"
)

// SMTPNotifier sends mail through a plain SMTP relay
type SMTPNotifier struct {
	cfg    config.MailConfig
	logger *zap.Logger
}

// NewSMTPNotifier creates a new SMTPNotifier
func NewSMTPNotifier(cfg config.MailConfig, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, logger: logger}
}

// Send delivers the message via SMTP. The context is consulted before
// dialing; net/smtp itself does not support cancellation mid-send.
func (n *SMTPNotifier) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(msg.Recipients) == 0 {
		return fmt.Errorf("no recipients")
	}

	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}

	body := strings.Join([]string{
		fmt.Sprintf("From: %s", n.cfg.From),
		fmt.Sprintf("To: %s", strings.Join(msg.Recipients, ", ")),
		fmt.Sprintf("Subject: %s", msg.Subject),
		"",
		msg.Body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, n.cfg.From, msg.Recipients, []byte(body)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	n.logger.Debug("notification sent",
		zap.String("subject", msg.Subject),
		zap.Strings("recipients", msg.Recipients))
	return nil
}
