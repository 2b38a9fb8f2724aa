package order

import (
	"context"

	"storefront/internal/catalog"
	"storefront/internal/logger"
	"storefront/internal/metrics"

	"go.uber.org/zap"
)

// Mailer hands a composed mail to whatever opens the buyer's mail client.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// LogMailer records the mailto link instead of opening anything. Used by
// headless runs and the reference server.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, m Mail) error {
	logger.FromCtx(ctx).Info("order mail composed",
		zap.String("to", m.To),
		zap.String("subject", m.Subject),
		zap.String("mailto", m.MailtoURL()),
	)
	return nil
}

type Service interface {
	Submit(ctx context.Context, it catalog.Item, f Form) (Intent, Mail, error)
	Contact(ctx context.Context, f ContactForm) (Mail, error)
	Subscribe(ctx context.Context, email string) (Mail, error)
}

type service struct {
	to      string
	mailer  Mailer
	metrics *metrics.Registry
}

func NewService(orderEmail string, mailer Mailer, m *metrics.Registry) Service {
	if mailer == nil {
		mailer = LogMailer{}
	}
	if m == nil {
		m = metrics.NewRegistry()
	}
	return &service{to: orderEmail, mailer: mailer, metrics: m}
}

// Submit validates the form, composes the mail and passes it on. Nothing is
// kept once the mailer returns.
func (s *service) Submit(ctx context.Context, it catalog.Item, f Form) (Intent, Mail, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Submit"),
		zap.String("kind", string(it.Kind)),
		zap.String("item_id", it.ID),
	)

	in, err := NewIntent(it, f)
	if err != nil {
		return Intent{}, Mail{}, err
	}

	mail := Compose(in, s.to)
	if err := s.mailer.Send(ctx, mail); err != nil {
		log.Error("failed to hand off order mail", zap.Error(err))
		return Intent{}, Mail{}, err
	}

	s.metrics.OrdersComposed.Inc()
	log.Info("order intent submitted", zap.Float64("total", in.Breakdown.Total))
	return in, mail, nil
}

// Contact validates a "Get in touch" message and hands it to the mailer.
func (s *service) Contact(ctx context.Context, f ContactForm) (Mail, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Contact"),
	)

	if err := ValidateContact(f); err != nil {
		return Mail{}, err
	}

	mail := ComposeContact(f, s.to)
	if err := s.mailer.Send(ctx, mail); err != nil {
		log.Error("failed to hand off contact mail", zap.Error(err))
		return Mail{}, err
	}

	log.Info("contact message composed")
	return mail, nil
}

func (s *service) Subscribe(ctx context.Context, email string) (Mail, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Subscribe"),
	)

	if err := ValidateSubscriber(email); err != nil {
		return Mail{}, err
	}

	mail := ComposeSubscription(email, s.to)
	if err := s.mailer.Send(ctx, mail); err != nil {
		log.Error("failed to hand off subscription mail", zap.Error(err))
		return Mail{}, err
	}

	log.Info("newsletter subscription composed")
	return mail, nil
}
