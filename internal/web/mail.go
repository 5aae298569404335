package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/smtp"
	"time"

	"github.com/Zachkp/devfolio/internal/config"
	"github.com/Zachkp/devfolio/internal/store"
)

// Notifier is told about every stored message.
type Notifier interface {
	Notify(ctx context.Context, msg store.Message) error
}

// ErrSMTPNotConfigured is returned when SMTP credentials are missing.
var ErrSMTPNotConfigured = errors.New("SMTP credentials not configured")

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier emails each message to the site owner.
type SMTPNotifier struct {
	cfg      config.SMTP
	to       string
	sendMail sendMailFunc
}

func NewSMTPNotifier(cfg config.SMTP, to string) *SMTPNotifier {
	if to == "" {
		to = cfg.User
	}
	return &SMTPNotifier{cfg: cfg, to: to, sendMail: smtp.SendMail}
}

func (n *SMTPNotifier) Notify(ctx context.Context, msg store.Message) error {
	if !n.cfg.Enabled() {
		return ErrSMTPNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body := fmt.Sprintf(`
New message from the portfolio terminal:

%s

Received: %s
---
Sent from your portfolio contact form
`, msg.Message, msg.Timestamp.Format(time.RFC1123))

	raw := []byte("To: " + n.to + "\r\n" +
		"Subject: Portfolio Message\r\n" +
		"From: " + n.cfg.User + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Pass, n.cfg.Host)
	addr := net.JoinHostPort(n.cfg.Host, n.cfg.Port)
	if err := n.sendMail(addr, auth, n.cfg.User, []string{n.to}, raw); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// Inbox stores messages and notifies in the background. It serves both the
// `message` terminal command and POST /api/send-message.
type Inbox struct {
	log      *store.MessageLog
	notifier Notifier
}

// NewInbox returns an inbox. notifier may be nil.
func NewInbox(messages *store.MessageLog, notifier Notifier) *Inbox {
	return &Inbox{log: messages, notifier: notifier}
}

func (i *Inbox) Append(ctx context.Context, text, ip string) (store.Message, error) {
	msg, err := i.log.Append(ctx, text, ip)
	if err != nil {
		return msg, err
	}
	if i.notifier != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := i.notifier.Notify(ctx, msg); err != nil {
				log.Printf("Error sending message notification: %v", err)
				return
			}
			log.Printf("Message notification sent")
		}()
	}
	return msg, nil
}

// All returns stored messages, oldest first.
func (i *Inbox) All() ([]store.Message, error) {
	return i.log.All()
}
