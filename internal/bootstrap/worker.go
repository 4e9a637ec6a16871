package bootstrap

import (
	"time"

	"github.com/9778060/socialapi/internal/application/notify"
	"github.com/9778060/socialapi/internal/config"
	"github.com/9778060/socialapi/internal/infrastructure/email"
	"github.com/9778060/socialapi/internal/infrastructure/messaging/rabbitmq"
	"github.com/9778060/socialapi/internal/logger"
)

// NewWorker wires the email worker: broker consumer feeding the notification
// service, which delivers over SMTP.
func NewWorker() (*rabbitmq.Consumer, error) {
	cfg, err := config.LoadWorker()
	if err != nil {
		return nil, err
	}

	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.SMTPFrom,
		Timeout:  10 * time.Second,
		Insecure: cfg.Env == "dev",
	}, logger.Logger)

	svc := notify.NewService(sender, logger.Logger)

	consumer := rabbitmq.NewConsumer(rabbitmq.ConsumerConfig{
		RabbitURL: cfg.RabbitURL,
		Exchange:  cfg.RabbitExchange,
		Queue:     cfg.RabbitQueue,
	}, svc, logger.Logger)

	return consumer, nil
}
