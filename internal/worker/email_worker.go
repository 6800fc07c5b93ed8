package worker

// email_worker.go
// Processes email jobs from QueueEmail: expiry alerts with their PDF report.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// EmailJobPayload is the job envelope sent to QueueEmail.
type EmailJobPayload struct {
	To             []string `json:"to"`
	Subject        string   `json:"subject"`
	Body           string   `json:"body"`
	AttachmentPath string   `json:"attachment_path"`
}

// AlertMailer is implemented by infra.Mailer.
type AlertMailer interface {
	SendAlert(to []string, subject, body, attachmentPath string) error
}

type EmailWorker struct {
	mailer AlertMailer
}

func NewEmailWorker(mailer AlertMailer) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload EmailJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid payload")
		return nil
	}
	if len(payload.To) == 0 {
		log.Warn().Msg("email_worker: no recipients, skipping")
		return nil
	}
	if err := w.mailer.SendAlert(payload.To, payload.Subject, payload.Body, payload.AttachmentPath); err != nil {
		return fmt.Errorf("email_worker: send to %v: %w", payload.To, err)
	}
	log.Info().Strs("to", payload.To).Str("subject", payload.Subject).Msg("email_worker: alert sent")
	return nil
}
