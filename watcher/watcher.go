// Package watcher runs the polling loop that drives one new qualifying
// email per cycle through extraction, parsing, routing and reporting.
package watcher

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mvcarvalho/fretebot/freight"
	"github.com/mvcarvalho/fretebot/gmail"
	"github.com/mvcarvalho/fretebot/qualp"
	"github.com/mvcarvalho/fretebot/report"
)

// MailService lists and fetches qualifying messages.
type MailService interface {
	ListQuoteRequests(ctx context.Context) ([]string, error)
	FetchHeaders(ctx context.Context, id string) (gmail.Headers, error)
	FetchBody(ctx context.Context, id string) (string, error)
}

// QuoteExtractor turns a raw email body into the key/value response text.
type QuoteExtractor interface {
	ExtractQuote(ctx context.Context, emailContent string) (string, error)
}

// RouteCalculator prices a validated freight request.
type RouteCalculator interface {
	CalculateRoute(ctx context.Context, req *freight.Request) (*qualp.Response, error)
}

// ReportSink receives finished quote reports.
type ReportSink interface {
	Publish(quote string) error
}

// Memory is the single-slot store of the last processed message identity.
type Memory interface {
	Last() (string, error)
	Mark(id string) error
}

// Options wires a Watcher's collaborators. Ticks is optional; when nil the
// watcher paces itself with a ticker at Interval.
type Options struct {
	Mail      MailService
	Extractor QuoteExtractor
	Routes    RouteCalculator
	Sink      ReportSink
	Memory    Memory
	Interval  time.Duration
	Ticks     <-chan time.Time
	Logger    *zap.Logger
}

type Watcher struct {
	mail      MailService
	extractor QuoteExtractor
	routes    RouteCalculator
	sink      ReportSink
	memory    Memory
	parser    *freight.Parser
	interval  time.Duration
	ticks     <-chan time.Time
	log       *zap.Logger
}

func New(opts Options) *Watcher {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Interval == 0 {
		opts.Interval = time.Minute
	}
	return &Watcher{
		mail:      opts.Mail,
		extractor: opts.Extractor,
		routes:    opts.Routes,
		sink:      opts.Sink,
		memory:    opts.Memory,
		parser:    freight.NewParser(log),
		interval:  opts.Interval,
		ticks:     opts.Ticks,
		log:       log,
	}
}

// Run executes one cycle immediately and then one per tick until ctx is
// cancelled. Every cycle is isolated: no per-message failure, including a
// panic, stops the loop.
func (w *Watcher) Run(ctx context.Context) {
	ticks := w.ticks
	if ticks == nil {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	w.log.Info("watcher started", zap.Duration("interval", w.interval))
	for {
		w.cycle(ctx)
		select {
		case <-ctx.Done():
			w.log.Info("watcher stopping")
			return
		case <-ticks:
		}
	}
}

func (w *Watcher) cycle(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("cycle panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	ids, err := w.mail.ListQuoteRequests(ctx)
	if err != nil {
		w.log.Error("failed to list messages", zap.Error(err))
		return
	}
	if len(ids) == 0 {
		w.log.Debug("no qualifying messages")
		return
	}

	// Only the newest qualifying message matters; ids arrive newest first.
	latest := ids[0]
	last, err := w.memory.Last()
	if err != nil {
		w.log.Error("failed to read last processed id", zap.Error(err))
		return
	}
	if latest == last {
		w.log.Debug("newest message already processed", zap.String("id", latest))
		return
	}

	w.processMessage(ctx, latest)
}

// processMessage runs the per-message stage chain. A fetch failure returns
// before the message is marked processed, so the next cycle retries it;
// every failure after the content is in hand marks the message processed
// and is final.
func (w *Watcher) processMessage(ctx context.Context, id string) {
	headers, err := w.mail.FetchHeaders(ctx, id)
	if err != nil {
		w.log.Error("failed to fetch headers", zap.String("id", id), zap.Error(err))
		return
	}
	w.log.Info("new quote request",
		zap.String("id", id), zap.String("subject", headers.Subject), zap.String("from", headers.From))

	body, err := w.mail.FetchBody(ctx, id)
	if err != nil {
		w.log.Error("failed to fetch content", zap.String("id", id), zap.Error(err))
		return
	}

	// Content is in hand: the message counts as seen from here on, even if
	// extraction or routing fails, so it is never reprocessed.
	if err := w.memory.Mark(id); err != nil {
		w.log.Error("failed to mark message processed", zap.String("id", id), zap.Error(err))
		return
	}

	if body == "" {
		w.log.Error("message has no extractable text content", zap.String("id", id))
		return
	}

	response, err := w.extractor.ExtractQuote(ctx, body)
	if err != nil {
		w.log.Error("extraction failed", zap.String("id", id), zap.Error(err))
		return
	}
	w.log.Debug("extraction response", zap.String("response", response))

	req, err := w.parser.Parse(response)
	if err != nil {
		var perr *freight.ParseError
		if errors.As(err, &perr) {
			w.log.Error("response missing required fields",
				zap.String("id", id), zap.Strings("missing", perr.Missing))
		} else {
			w.log.Error("failed to parse response", zap.String("id", id), zap.Error(err))
		}
		return
	}

	route, err := w.routes.CalculateRoute(ctx, req)
	if err != nil {
		w.log.Error("route calculation failed", zap.String("id", id), zap.Error(err))
		return
	}

	quote, err := report.Format(req, route)
	if err != nil {
		w.log.Error("failed to format quote report", zap.String("id", id), zap.Error(err))
		return
	}
	if err := w.sink.Publish(quote); err != nil {
		w.log.Error("failed to publish quote report", zap.String("id", id), zap.Error(err))
		return
	}

	w.log.Info("quote produced",
		zap.String("id", id),
		zap.String("origin", req.Origin.City+","+req.Origin.State),
		zap.String("destination", req.Destination.City+","+req.Destination.State),
		zap.Int("axles", req.AxleCount))
}
