package services

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/upkeephq/upkeep/internal/config"
	"github.com/upkeephq/upkeep/internal/dtos"
	"github.com/upkeephq/upkeep/internal/models"
	"github.com/upkeephq/upkeep/internal/utils"
)

// Notifier delivers SLA breach alerts to the ops team. Either channel may
// be nil when its credentials are absent; delivery failures are logged and
// never bubble up to the sweep.
type Notifier struct {
	cfg            *config.Config
	twilioClient   *twilio.RestClient
	sendgridClient *sendgrid.Client
}

func NewNotifier(cfg *config.Config) *Notifier {
	n := &Notifier{cfg: cfg}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		n.twilioClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	if cfg.SendGridAPIKey != "" {
		n.sendgridClient = sendgrid.NewSendClient(cfg.SendGridAPIKey)
	}
	return n
}

func (n *Notifier) Enabled() bool {
	return n.twilioClient != nil || n.sendgridClient != nil
}

// NotifySLABreach emails the ops address for every breach and additionally
// sends an SMS when the request is Emergency priority.
func (n *Notifier) NotifySLABreach(event dtos.SLABreachEvent) {
	subject := fmt.Sprintf("[SLA Breach] %s request %s", event.Priority, event.RequestID)
	body := fmt.Sprintf(
		"Maintenance request %s (%s, priority %s) has exceeded its %d hour SLA.\n\nStatus: %s\nOpened: %s\nAge: %.1f hours",
		event.RequestID, event.IssueType, event.Priority, event.TargetSLAHours,
		event.Status, event.CreatedAt.Format("2006-01-02 15:04 MST"), event.AgeHours,
	)

	if n.sendgridClient != nil && n.cfg.OpsAlertEmail != "" {
		from := mail.NewEmail(n.cfg.AppName, n.cfg.SendGridFromEmail)
		to := mail.NewEmail("Operations Team", n.cfg.OpsAlertEmail)
		msg := mail.NewSingleEmail(from, subject, to, body, "")
		if _, err := n.sendgridClient.Send(msg); err != nil {
			utils.Logger.WithError(err).Warnf("Failed to send SLA breach email for request %s", event.RequestID)
		}
	}

	if event.Priority != string(models.PriorityEmergency) {
		return
	}
	if n.twilioClient != nil && n.cfg.OpsAlertPhone != "" {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(n.cfg.OpsAlertPhone)
		params.SetFrom(n.cfg.TwilioFromPhone)
		params.SetBody(subject + " :: " + body)
		if _, err := n.twilioClient.Api.CreateMessage(params); err != nil {
			utils.Logger.WithError(err).Warnf("Failed to send SLA breach SMS for request %s", event.RequestID)
		}
	}
}
