package mailer

import (
	"context"

	"github.com/kelseyhightower/envconfig"
	mail "github.com/wneessen/go-mail"

	"github.com/devops-noc/jira-report-app/pkg/errors"
	"github.com/devops-noc/jira-report-app/pkg/logger"
)

type Config struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"SMTP_FROM"`
	UseTLS   bool   `envconfig:"SMTP_USE_TLS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, errors.WrapFail(err, "read smtp settings from environment")
	}
	return cfg, nil
}

type Message struct {
	To      string
	Subject string
	Body    string

	AttachmentPath string
	AttachmentName string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

func New(cfg Config, log logger.Logger) Mailer {
	return &smtpMailer{cfg: cfg, log: log.With("mailer")}
}

type smtpMailer struct {
	cfg Config
	log logger.Logger
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if m.cfg.Host == "" {
		return errors.Error("smtp is not configured")
	}

	letter := mail.NewMsg()

	err := letter.From(m.cfg.From)
	if err != nil {
		return errors.WrapFail(err, "set sender address")
	}

	err = letter.To(msg.To)
	if err != nil {
		return errors.WrapFail(err, "set recipient address")
	}

	letter.Subject(msg.Subject)
	letter.SetBodyString(mail.TypeTextPlain, msg.Body)

	if msg.AttachmentPath != "" {
		letter.AttachFile(msg.AttachmentPath, mail.WithFileName(msg.AttachmentName))
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
	}

	if m.cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if m.cfg.Username != "" && m.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return errors.WrapFail(err, "build smtp client")
	}

	err = client.DialAndSendWithContext(ctx, letter)
	if err != nil {
		return errors.WrapFail(err, "send mail")
	}

	m.log.Infof("sent report mail to %s", msg.To)
	return nil
}
