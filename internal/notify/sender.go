package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"
)

// Alert describes a detected price drop for one tracked product.
type Alert struct {
	ProductName string
	ProductURL  string
	OldPrice    float64
	NewPrice    float64
}

// Drop returns the absolute price decrease.
func (a Alert) Drop() float64 {
	return a.OldPrice - a.NewPrice
}

// DropPercent returns the decrease as a percentage of the old price.
func (a Alert) DropPercent() float64 {
	if a.OldPrice <= 0 {
		return 0
	}
	return a.Drop() / a.OldPrice * 100
}

func (a Alert) subject() string {
	return fmt.Sprintf("Price drop: %s is now $%.2f", a.ProductName, a.NewPrice)
}

func (a Alert) body() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s dropped from $%.2f to $%.2f (%.1f%% off).\n",
		a.ProductName, a.OldPrice, a.NewPrice, a.DropPercent())
	if a.ProductURL != "" {
		fmt.Fprintf(&b, "\n%s\n", a.ProductURL)
	}
	return b.String()
}

// Sender delivers a price-drop alert to one subscription's contact.
type Sender interface {
	Send(sub Subscription, alert Alert) error
}

// SMTPSender sends alert emails over plain SMTP with optional auth.
type SMTPSender struct {
	Addr     string // host:port
	From     string
	Username string
	Password string
}

func (s *SMTPSender) Send(sub Subscription, alert Alert) error {
	if sub.Email == "" {
		return nil
	}
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.From, sub.Email, alert.subject(), alert.body())

	var auth smtp.Auth
	if s.Username != "" {
		host := s.Addr
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", s.Username, s.Password, host)
	}
	if err := smtp.SendMail(s.Addr, auth, s.From, []string{sub.Email}, []byte(msg)); err != nil {
		return fmt.Errorf("send alert email to %s: %w", sub.Email, err)
	}
	return nil
}

// LogSender writes alerts to the structured log instead of delivering them.
// It is the default when no SMTP server is configured.
type LogSender struct{}

func (LogSender) Send(sub Subscription, alert Alert) error {
	log.Info().
		Str("product", alert.ProductName).
		Float64("oldPrice", alert.OldPrice).
		Float64("newPrice", alert.NewPrice).
		Str("email", sub.Email).
		Str("phone", sub.Phone).
		Msg("price drop alert")
	return nil
}
