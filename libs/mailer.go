package libs

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"food-order/models"

	"gopkg.in/gomail.v2"
)

type MailConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Mailer sends order confirmation emails over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg MailConfig) (*Mailer, error) {
	if cfg.Host == "" || cfg.User == "" || cfg.Pass == "" {
		return nil, errors.New("SMTP configuration missing")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		from:   from,
	}, nil
}

func (m *Mailer) OrderPlaced(ctx context.Context, customer models.Identity, order models.Order) error {
	if customer.Email == "" {
		return nil
	}

	msg, err := buildConfirmation(m.from, customer.Email, order)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to send email: %w", ctx.Err())
	}
}

var confirmationTemplate = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
  <div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px;">
    <h2 style="color: #ea580c;">Order Confirmation</h2>
    <p>Thank you for your order!</p>
    <p><strong>Order Number:</strong> {{.OrderID}}</p>
    <table style="width: 100%; border-collapse: collapse;">
      {{range .Items}}
      <tr>
        <td>{{.Name}} x {{.Quantity}}</td>
        <td style="text-align: right;">{{.Subtotal.StringFixed 2}}</td>
      </tr>
      {{end}}
    </table>
    <p><strong>Total Amount:</strong> {{.Total.StringFixed 2}}</p>
    <p><strong>Delivering to:</strong> {{.Address}}</p>
    <p style="color: #666; font-size: 12px;">This is an automated email. Please do not reply.</p>
  </div>
</body>
</html>`))

func renderConfirmation(order models.Order) (string, error) {
	var body strings.Builder
	if err := confirmationTemplate.Execute(&body, order); err != nil {
		return "", fmt.Errorf("render confirmation: %w", err)
	}
	return body.String(), nil
}

func buildConfirmation(from, to string, order models.Order) (*gomail.Message, error) {
	body, err := renderConfirmation(order)
	if err != nil {
		return nil, err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Order Confirmation #%s", order.OrderID))
	m.SetBody("text/html", body)
	return m, nil
}
