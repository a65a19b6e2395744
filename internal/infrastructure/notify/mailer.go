// Package notify delivers order-confirmation mail over SMTP.
package notify

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/ecomarket/storefront-api/internal/core/ports"
)

// Config captures the SMTP settings for outbound mail.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Mailer sends order confirmations. Delivery is best-effort: a failed send
// never fails the checkout that triggered it.
type Mailer struct {
	cfg    Config
	dialer *gomail.Dialer
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// SendOrderConfirmation mails the buyer a receipt for a paid order.
func (m *Mailer) SendOrderConfirmation(n ports.OrderNotification) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", n.Email)
	msg.SetHeader("Subject", "Order confirmation")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Dear %s,</p><p>Thank you for your purchase. Your order <strong>%s</strong> has been placed.</p><p>Total: <strong>$%s</strong></p>",
		n.Name, n.OrderID, n.Total.StringFixed(2),
	))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send order confirmation: %w", err)
	}
	return nil
}
