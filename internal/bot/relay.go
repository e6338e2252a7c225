package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wb-parser-bot/internal/logger"
	"wb-parser-bot/internal/model"
	"wb-parser-bot/internal/monitoring"
	"wb-parser-bot/internal/scrapers"
)

// ParseModeMarkdownV2 marks a reply that must be rendered as Telegram MarkdownV2.
const ParseModeMarkdownV2 = "MarkdownV2"

const (
	// WarningText is sent back for links outside the allowed domains.
	WarningText = "⚠️ Пожалуйста, отправьте корректную ссылку на товар Wildberries"

	errorPrefix = "❌ Ошибка: "
)

// ErrDomainRejected is returned for input that does not mention an allowed domain.
var ErrDomainRejected = errors.New("domain is not allowed")

// Reply is a single outbound chat message. An empty ParseMode means plain text.
type Reply struct {
	Text      string
	ParseMode string
}

// Publisher receives the outcome of every extraction attempt.
type Publisher interface {
	Send(result model.FetchResult) error
}

type RelayConfig struct {
	AllowedDomains []string
	PreviewLength  int
}

// Relay turns an inbound chat message into the replies to send back.
type Relay struct {
	cfg       RelayConfig
	scraper   scrapers.Scraper
	publisher Publisher
	metrics   *monitoring.Metrics
	logger    logger.Logger
}

// NewRelay constructs a Relay. publisher may be nil.
func NewRelay(cfg RelayConfig, scraper scrapers.Scraper, publisher Publisher, metrics *monitoring.Metrics, logger logger.Logger) *Relay {
	return &Relay{
		cfg:       cfg,
		scraper:   scraper,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// CheckDomain returns ErrDomainRejected unless text contains one of the allowed domains.
func (r *Relay) CheckDomain(text string) error {
	for _, domain := range r.cfg.AllowedDomains {
		if strings.Contains(text, domain) {
			return nil
		}
	}
	return ErrDomainRejected
}

// Handle processes one inbound message. It never fails: every problem is
// reported to the user as a reply.
func (r *Relay) Handle(ctx context.Context, text string) (replies []Reply) {
	url := strings.TrimSpace(text)

	if err := r.CheckDomain(url); err != nil {
		r.logger.Infof("Rejected message: %v", err)
		r.metrics.IncMessages(monitoring.OutcomeRejected)
		return []Reply{{Text: WarningText}}
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Errorf("Panic while handling %s: %v", url, rec)
			replies = r.failure(url, fmt.Errorf("internal error: %v", rec))
		}
	}()

	r.logger.Infof("Processing request: %s", url)

	start := time.Now()
	product, err := r.scraper.ParseProduct(ctx, url)
	r.metrics.ObserveParse(time.Since(start))

	r.publish(model.NewFetchResult(url, product, err))

	if err != nil {
		return r.failure(url, err)
	}

	r.metrics.IncMessages(monitoring.OutcomeSucceeded)
	return []Reply{
		{Text: FormatReport(product), ParseMode: ParseModeMarkdownV2},
		{Text: FormatPreview(product.RawHTML, r.cfg.PreviewLength), ParseMode: ParseModeMarkdownV2},
	}
}

func (r *Relay) failure(url string, err error) []Reply {
	msg := errorPrefix + err.Error()
	r.logger.Errorf("%s (%s)", msg, url)
	r.metrics.IncMessages(monitoring.OutcomeFailed)
	r.metrics.IncErrors(errorKind(err))
	return []Reply{{Text: msg}}
}

func (r *Relay) publish(result model.FetchResult) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Send(result); err != nil {
		r.logger.Warnf("Failed to publish result for %s: %v", result.URL, err)
	}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, scrapers.ErrNetwork):
		return "network"
	case errors.Is(err, scrapers.ErrInvalidPage):
		return "invalid_page"
	case errors.Is(err, scrapers.ErrFieldNotFound):
		return "field_not_found"
	default:
		return "other"
	}
}
