// Package mailer delivers activation messages over SMTP.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/identigo/backend/internal/config"
)

const activationSubject = "Account activation"

// Mailer sends the activation message. One attempt per registration; any
// error (including a timeout) is reported to the caller, which compensates.
type Mailer struct {
	client *mail.Client
	from   string
	logger *zap.Logger
}

func New(cfg config.SMTPConfig, logger *zap.Logger) (*Mailer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}

	return &Mailer{
		client: client,
		from:   cfg.From,
		logger: logger,
	}, nil
}

// SendActivation delivers the raw activation token to the registered email.
func (m *Mailer) SendActivation(ctx context.Context, email, token string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return err
	}
	if err := msg.To(email); err != nil {
		return err
	}
	msg.Subject(activationSubject)
	msg.SetBodyString(mail.TypeTextHTML, fmt.Sprintf(
		`<div>Your account is almost ready.</div><div>Token is %s</div>`, token))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		m.logger.Warn("activation mail delivery failed", zap.Error(err))
		return err
	}
	return nil
}
