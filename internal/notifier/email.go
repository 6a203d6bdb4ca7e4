package notifier

import (
	"fmt"
	"net/smtp"
	"strings"
)

// EmailSender delivers the weekly HTML report over SMTP with STARTTLS.
type EmailSender struct {
	Host      string
	Port      int
	Sender    string
	Password  string
	Recipient string
}

// NewEmailSender creates an SMTP sender.
func NewEmailSender(host string, port int, sender, password, recipient string) *EmailSender {
	return &EmailSender{
		Host:      host,
		Port:      port,
		Sender:    sender,
		Password:  password,
		Recipient: recipient,
	}
}

// SendHTML sends one HTML email with the given subject and body.
func (e *EmailSender) SendHTML(subject, htmlBody string) error {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", e.Sender))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", e.Recipient))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", e.Host, e.Port)
	auth := smtp.PlainAuth("", e.Sender, e.Password, e.Host)
	if err := smtp.SendMail(addr, auth, e.Sender, []string{e.Recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("send report email: %w", err)
	}
	return nil
}
