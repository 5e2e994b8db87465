// Package worker drains the Redis job queue and delivers email.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/campus-awards/backend/internal/emaillog"
	"github.com/campus-awards/backend/internal/models"
	"github.com/campus-awards/backend/pkg/mailer"
	"github.com/campus-awards/backend/pkg/queue"
)

// MailProcessor consumes email jobs, sends them over SMTP and records
// every attempt in the email log. Failed sends are retried and land in
// the DLQ after MaxRetries attempts.
type MailProcessor struct {
	queue  *queue.Queue
	mailer *mailer.Mailer
	logs   *emaillog.Repository
	logger *zap.Logger
}

// NewMailProcessor creates a mail processor.
func NewMailProcessor(q *queue.Queue, m *mailer.Mailer, logs *emaillog.Repository, logger *zap.Logger) *MailProcessor {
	return &MailProcessor{queue: q, mailer: m, logs: logs, logger: logger}
}

// Run blocks processing jobs until ctx is cancelled.
func (p *MailProcessor) Run(ctx context.Context) {
	p.logger.Info("mail worker started", zap.Bool("smtp_enabled", p.mailer.Enabled()))
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("mail worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.logger.Error("dequeue failed", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}
		if job == nil {
			continue
		}
		p.process(ctx, job)
	}
}

func (p *MailProcessor) process(ctx context.Context, job *queue.Job) {
	if job.Type != queue.JobTypeEmail {
		p.logger.Warn("unknown job type", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		return
	}
	var payload queue.EmailPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		p.logger.Warn("invalid email payload", zap.String("job_id", job.ID), zap.Error(err))
		return
	}

	sendErr := p.send(payload)
	p.record(ctx, payload, sendErr)

	if sendErr != nil {
		p.logger.Error("email send failed",
			zap.String("job_id", job.ID),
			zap.String("recipient", payload.RecipientEmail),
			zap.Int("attempt", job.Attempt),
			zap.Error(sendErr))
		time.Sleep(queue.RetryBackoff)
		if err := p.queue.Retry(ctx, job); err != nil {
			p.logger.Error("retry enqueue failed", zap.String("job_id", job.ID), zap.Error(err))
		}
		return
	}
	p.logger.Info("email delivered",
		zap.String("job_id", job.ID),
		zap.String("email_type", payload.EmailType),
		zap.String("recipient", payload.RecipientEmail))
}

func (p *MailProcessor) send(payload queue.EmailPayload) error {
	if !p.mailer.Enabled() {
		// No SMTP relay configured. Log the body so sign-in codes are
		// still usable in local development.
		p.logger.Info("smtp disabled, logging email instead",
			zap.String("recipient", payload.RecipientEmail),
			zap.String("subject", payload.Subject),
			zap.String("body", payload.Body))
		return nil
	}
	return p.mailer.Send(payload.RecipientEmail, payload.Subject, payload.Body)
}

func (p *MailProcessor) record(ctx context.Context, payload queue.EmailPayload, sendErr error) {
	log := &models.EmailLog{
		RecipientEmail: payload.RecipientEmail,
		EmailType:      payload.EmailType,
		Status:         models.EmailStatusSent,
	}
	if sendErr != nil {
		log.Status = models.EmailStatusFailed
		log.ErrorMessage = sendErr.Error()
	}
	if err := p.logs.Record(ctx, log); err != nil {
		p.logger.Error("record email log", zap.Error(err))
	}
}
