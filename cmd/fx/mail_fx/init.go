package mail_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"fitfunnel/internal/config"
	"fitfunnel/internal/services"
)

var Module = fx.Provide(provideLeadMailer, provideNotificationService)

func provideLeadMailer(cfg config.Config, logger *zap.Logger) services.LeadMailer {
	var mailer services.LeadMailer
	switch cfg.Mail.Provider {
	case "smtp":
		mailer = services.NewSMTPLeadMailer(cfg.Mail.SMTP, cfg.Mail.Timeout)
	default:
		mailer = services.NewEmailJSMailer(cfg.Mail.EmailJS, cfg.Mail.Timeout)
	}

	if !mailer.Configured() {
		logger.Warn("lead mailer not configured, lead emails are disabled", zap.String("provider", mailer.Name()))
	}
	return mailer
}

func provideNotificationService(mailer services.LeadMailer, logger *zap.Logger) services.NotificationServiceInterface {
	return services.NewNotificationService(mailer, logger.Named("notification"))
}
