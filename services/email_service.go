package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/Dosada05/padel-club/config"
	"github.com/Dosada05/padel-club/models"
)

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		InsecureSkipVerify: true,
		ServerName:         s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Прямое TLS-соединение (обычно порт 465)
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("ошибка TLS соединения: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("ошибка создания SMTP клиента: %w", err)
		}
	} else {
		// STARTTLS (обычно порт 587)
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("ошибка соединения SMTP: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("ошибка команды STARTTLS: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("ошибка аутентификации SMTP: %w", err)
	}

	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("ошибка MAIL FROM: %w", err)
	}
	for _, recipient := range to {
		if err := client.Rcpt(recipient); err != nil {
			return fmt.Errorf("ошибка RCPT TO: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("ошибка команды DATA: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("ошибка записи сообщения: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия DATA: %w", err)
	}

	return nil
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<p>Добро пожаловать в падел-клуб!</p>
<p>Подтвердите свою почту: <a href="{{.ConfirmationLink}}">{{.ConfirmationLink}}</a></p>
`))

var passwordResetTemplate = template.Must(template.New("reset").Parse(`
<p>Сброс пароля: <a href="{{.ResetLink}}">{{.ResetLink}}</a></p>
<p>Если вы не запрашивали сброс, проигнорируйте письмо.</p>
`))

var bookingConfirmationTemplate = template.Must(template.New("booking").Parse(`
<p>Бронирование подтверждено.</p>
<p>Корт: {{.CourtName}}<br>
Дата: {{.Date}}<br>
Время: {{.Start}} – {{.End}}<br>
Номер брони: {{.Reference}}</p>
`))

func renderTemplate(t *template.Template, data interface{}) (string, error) {
	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		return "", fmt.Errorf("ошибка выполнения шаблона %s: %w", t.Name(), err)
	}
	return body.String(), nil
}

func (s *EmailService) SendWelcomeEmail(userEmail string, confirmationToken string) error {
	subject := "Добро пожаловать в падел-клуб!"
	body, err := renderTemplate(welcomeTemplate, struct {
		ConfirmationLink string
	}{
		ConfirmationLink: fmt.Sprintf("%s/auth/confirm?token=%s", s.cfg.PublicURL, confirmationToken),
	})
	if err != nil {
		return err
	}
	return s.SendEmail([]string{userEmail}, subject, body)
}

func (s *EmailService) SendPasswordResetEmail(userEmail string, resetToken string) error {
	subject := "Сброс пароля"
	body, err := renderTemplate(passwordResetTemplate, struct {
		ResetLink string
	}{
		ResetLink: fmt.Sprintf("%s/reset-password?token=%s", s.cfg.PublicURL, resetToken),
	})
	if err != nil {
		return err
	}
	return s.SendEmail([]string{userEmail}, subject, body)
}

func (s *EmailService) SendBookingConfirmation(userEmail string, booking *models.Booking, courtName string) error {
	subject := fmt.Sprintf("Бронирование корта %s на %s", courtName, booking.BookingDate)
	body, err := renderTemplate(bookingConfirmationTemplate, struct {
		CourtName, Date, Start, End, Reference string
	}{
		CourtName: courtName,
		Date:      booking.BookingDate,
		Start:     booking.StartTime,
		End:       booking.EndTime,
		Reference: booking.Reference,
	})
	if err != nil {
		return err
	}
	return s.SendEmail([]string{userEmail}, subject, body)
}
