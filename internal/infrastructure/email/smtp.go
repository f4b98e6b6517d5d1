package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPEmailService{
		config: config,
		dialer: dialer,
	}
}

// SendTemporaryPassword delivers a freshly generated temporary
// password during account recovery. The message is in Portuguese like
// the rest of the portal.
func (s *SMTPEmailService) SendTemporaryPassword(to, name, login, tempPassword string) error {
	subject := "Recuperação de Senha - Portal CTRC"

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>Recuperação de Senha</h2>
			<p>Olá, %s!</p>
			<p>Recebemos uma solicitação de recuperação de senha para o login <strong>%s</strong>.</p>
			<p>Sua senha temporária é: <strong>%s</strong></p>
			<p>Use esta senha para acessar o portal e altere-a em seguida no seu perfil.</p>
			<p>Se você não solicitou a recuperação, entre em contato com o administrador.</p>
		</body>
		</html>
	`, name, login, tempPassword)

	plainBody := fmt.Sprintf(`
Recuperação de Senha

Olá, %s!

Recebemos uma solicitação de recuperação de senha para o login %s.

Sua senha temporária é: %s

Use esta senha para acessar o portal e altere-a em seguida no seu perfil.

Se você não solicitou a recuperação, entre em contato com o administrador.
	`, name, login, tempPassword)

	return s.sendEmail(to, subject, htmlBody, plainBody)
}

func (s *SMTPEmailService) sendEmail(to, subject, htmlBody, plainBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromAddress, s.config.FromName))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
