package consumerWorker

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"reunion/internal/dto"
	"reunion/internal/mailer"
	"reunion/internal/rabbit"
	"reunion/internal/repo"
)

// Reader consumes payment notifications and sends the matching status
// email. Mail is strictly fire-and-forget: a failed send is logged and
// the message acked, so a broken SMTP server can never wedge the queue
// or undo a status change.
type Reader struct {
	RMQ    *rabbit.Client
	repo   repo.Repository
	mail   mailer.Config
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, repository repo.Repository, mail mailer.Config) *Reader {
	return &Reader{
		RMQ:  rmq,
		repo: repository,
		mail: mail,
		done: make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("notification worker started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.PaymentNotification
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("failed to unmarshal notification: %s", string(body))
				return err
			}

			zlog.Logger.Info().
				Int64("registration_id", msg.RegistrationID).
				Int("status", msg.Status).
				Msg("received payment notification")

			reg, err := r.repo.GetRegistrationByID(cctx, msg.RegistrationID)
			if err != nil {
				// The record may have been deleted by an admin in the
				// meantime; nothing left to notify.
				zlog.Logger.Error().
					Err(err).
					Int64("registration_id", msg.RegistrationID).
					Msg("failed to load registration for notification")
				return nil
			}

			if err := mailer.SendPaymentEmail(
				&zlog.Logger,
				r.mail,
				reg.Personal.Name,
				reg.Contact.Email,
				msg.Status,
			); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Str("email", reg.Contact.Email).
					Msg("failed to send payment status email")
			} else {
				zlog.Logger.Info().
					Str("email", reg.Contact.Email).
					Int64("registration_id", msg.RegistrationID).
					Msg("payment status email sent")
			}

			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("notification worker stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
