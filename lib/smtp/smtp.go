package smtp

import (
	"fmt"
	"strings"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var Instance Provider

type Provider interface {
	IsConfigured() bool
	SendEMail(to, subject, message string) error
}

func Connect(user, password, host, port, from string, tlsEnabled bool) error {
	Instance = &impl{
		user:       user,
		password:   password,
		host:       host,
		port:       port,
		from:       from,
		tlsEnabled: tlsEnabled,
	}
	return nil
}

type impl struct {
	user       string
	password   string
	host       string
	port       string
	from       string
	tlsEnabled bool
}

func (i impl) IsConfigured() bool {
	return i.user != "" && i.host != "" && i.port != ""
}

func buildMessage(from, sender, to, subject, message string) string {
	headers := []string{
		fmt.Sprintf("From: %s <%s>", from, sender),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
	}
	return strings.Join(headers, "\r\n") + "\r\n\r\n" + message + "\r\n"
}

func (i impl) SendEMail(to, subject, message string) (err error) {
	logger := log.WithField("recipient", to)
	if !i.IsConfigured() {
		logger.Warn("Письмо не отправлено, тк не настроен smtp клиент")
		return nil
	}
	auth := sasl.NewPlainClient("", i.user, i.password)
	body := strings.NewReader(buildMessage(i.from, i.user, to, subject, message))
	addr := i.host + ":" + i.port
	if i.tlsEnabled {
		err = smtp.SendMailTLS(addr, auth, i.user, []string{to}, body)
	} else {
		err = smtp.SendMail(addr, auth, i.user, []string{to}, body)
	}
	if err != nil {
		return errors.Wrap(err, "ошибка отправки письма")
	}
	logger.Info("письмо отправлено")
	return nil
}
