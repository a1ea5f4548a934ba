package watcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvcarvalho/fretebot/freight"
	"github.com/mvcarvalho/fretebot/gmail"
	"github.com/mvcarvalho/fretebot/qualp"
)

const llmResponse = `Origem: SAO PAULO SP
Destino/Estufagem: SANTOS SP
Espécie: 40'HC
Peso: 18000 kg
Volume: n/a
Valor da mercadoria: n/a
Eixos: 6`

type fakeMail struct {
	ids       []string
	listErr   error
	bodyErr   error
	body      string
	listCalls int
	bodyCalls int
}

func (m *fakeMail) ListQuoteRequests(ctx context.Context) ([]string, error) {
	m.listCalls++
	return m.ids, m.listErr
}

func (m *fakeMail) FetchHeaders(ctx context.Context, id string) (gmail.Headers, error) {
	return gmail.Headers{Subject: "COTA 123", From: "ops@br-asgroup.com"}, nil
}

func (m *fakeMail) FetchBody(ctx context.Context, id string) (string, error) {
	m.bodyCalls++
	if m.bodyErr != nil {
		return "", m.bodyErr
	}
	return m.body, nil
}

type fakeExtractor struct {
	response string
	err      error
	calls    int
}

func (e *fakeExtractor) ExtractQuote(ctx context.Context, emailContent string) (string, error) {
	e.calls++
	return e.response, e.err
}

type fakeRoutes struct {
	err   error
	calls int
}

func (r *fakeRoutes) CalculateRoute(ctx context.Context, req *freight.Request) (*qualp.Response, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &qualp.Response{
		Distancia: qualp.TextValue{Texto: "154 km"},
		Duracao:   qualp.TextValue{Texto: "2h 10min"},
		TabelaFrete: qualp.FreightTable{
			Dados: map[string]map[string]map[string]float64{
				"D": {"6": {"conteineirizada": 2845.3}},
			},
		},
		Pedagios: []qualp.Toll{{Tarifa: map[string]float64{"6": 51.6}}},
	}, nil
}

type fakeSink struct {
	mu     sync.Mutex
	quotes []string
}

func (s *fakeSink) Publish(quote string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes = append(s.quotes, quote)
	return nil
}

func (s *fakeSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.quotes)
}

func newTestWatcher(mail *fakeMail, extractor *fakeExtractor, routes *fakeRoutes, sink *fakeSink) *Watcher {
	return New(Options{
		Mail:      mail,
		Extractor: extractor,
		Routes:    routes,
		Sink:      sink,
		Memory:    NewSlotMemory(),
	})
}

func TestCycleProducesQuote(t *testing.T) {
	mail := &fakeMail{ids: []string{"msg-2", "msg-1"}, body: "Favor cotar frete"}
	extractor := &fakeExtractor{response: llmResponse}
	routes := &fakeRoutes{}
	sink := &fakeSink{}
	w := newTestWatcher(mail, extractor, routes, sink)

	w.cycle(context.Background())

	assert.Equal(t, 1, extractor.calls)
	assert.Equal(t, 1, routes.calls)
	require.Equal(t, 1, sink.count())
	assert.Contains(t, sink.quotes[0], "COTAÇÃO DE FRETE (IDA E VOLTA)")
	assert.Contains(t, sink.quotes[0], "Valor do frete (ida e volta): R$ 2845.30")

	last, err := w.memory.Last()
	require.NoError(t, err)
	assert.Equal(t, "msg-2", last)
}

func TestCycleDedupSkipsProcessedMessage(t *testing.T) {
	mail := &fakeMail{ids: []string{"msg-2"}, body: "corpo"}
	extractor := &fakeExtractor{response: llmResponse}
	routes := &fakeRoutes{}
	w := newTestWatcher(mail, extractor, routes, &fakeSink{})

	w.cycle(context.Background())
	w.cycle(context.Background())

	// The second cycle sees the same newest id and performs no work.
	assert.Equal(t, 2, mail.listCalls)
	assert.Equal(t, 1, mail.bodyCalls)
	assert.Equal(t, 1, extractor.calls)
	assert.Equal(t, 1, routes.calls)
}

func TestCycleFetchFailureIsRetriedNextCycle(t *testing.T) {
	mail := &fakeMail{ids: []string{"msg-2"}, body: "corpo", bodyErr: errors.New("timeout")}
	extractor := &fakeExtractor{response: llmResponse}
	w := newTestWatcher(mail, extractor, &fakeRoutes{}, &fakeSink{})

	w.cycle(context.Background())
	last, _ := w.memory.Last()
	assert.Empty(t, last, "a message whose content fetch failed must not be marked processed")

	mail.bodyErr = nil
	w.cycle(context.Background())
	assert.Equal(t, 1, extractor.calls)
	last, _ = w.memory.Last()
	assert.Equal(t, "msg-2", last)
}

func TestCycleExtractionFailureStillMarksProcessed(t *testing.T) {
	mail := &fakeMail{ids: []string{"msg-2"}, body: "corpo"}
	extractor := &fakeExtractor{err: errors.New("service unavailable")}
	routes := &fakeRoutes{}
	w := newTestWatcher(mail, extractor, routes, &fakeSink{})

	w.cycle(context.Background())

	assert.Zero(t, routes.calls)
	last, _ := w.memory.Last()
	assert.Equal(t, "msg-2", last)

	// Not retried: the failure after content fetch is final.
	w.cycle(context.Background())
	assert.Equal(t, 1, extractor.calls)
}

func TestCycleParseFailureShortCircuitsRouting(t *testing.T) {
	mail := &fakeMail{ids: []string{"msg-2"}, body: "corpo"}
	extractor := &fakeExtractor{response: "Quantidade de Containers: 1"}
	routes := &fakeRoutes{}
	sink := &fakeSink{}
	w := newTestWatcher(mail, extractor, routes, sink)

	w.cycle(context.Background())

	assert.Zero(t, routes.calls)
	assert.Zero(t, sink.count())
	last, _ := w.memory.Last()
	assert.Equal(t, "msg-2", last)
}

func TestCycleRoutingFailureSkipsReport(t *testing.T) {
	mail := &fakeMail{ids: []string{"msg-2"}, body: "corpo"}
	extractor := &fakeExtractor{response: llmResponse}
	routes := &fakeRoutes{err: errors.New("upstream 500")}
	sink := &fakeSink{}
	w := newTestWatcher(mail, extractor, routes, sink)

	w.cycle(context.Background())

	assert.Equal(t, 1, routes.calls)
	assert.Zero(t, sink.count())
	last, _ := w.memory.Last()
	assert.Equal(t, "msg-2", last)
}

func TestCycleEmptyContentMarksProcessed(t *testing.T) {
	mail := &fakeMail{ids: []string{"msg-2"}, body: ""}
	extractor := &fakeExtractor{response: llmResponse}
	w := newTestWatcher(mail, extractor, &fakeRoutes{}, &fakeSink{})

	w.cycle(context.Background())

	assert.Zero(t, extractor.calls)
	last, _ := w.memory.Last()
	assert.Equal(t, "msg-2", last)
}

func TestCycleEmptyListingIsQuiet(t *testing.T) {
	mail := &fakeMail{}
	extractor := &fakeExtractor{}
	w := newTestWatcher(mail, extractor, &fakeRoutes{}, &fakeSink{})

	w.cycle(context.Background())
	assert.Zero(t, extractor.calls)
}

type panickyMail struct {
	fakeMail
	panics int
}

func (m *panickyMail) ListQuoteRequests(ctx context.Context) ([]string, error) {
	if m.panics > 0 {
		m.panics--
		panic("boom")
	}
	return m.fakeMail.ListQuoteRequests(ctx)
}

func TestCyclePanicIsRecovered(t *testing.T) {
	mail := &panickyMail{fakeMail: fakeMail{ids: []string{"msg-2"}, body: "corpo"}, panics: 1}
	extractor := &fakeExtractor{response: llmResponse}
	sink := &fakeSink{}
	w := New(Options{
		Mail:      mail,
		Extractor: extractor,
		Routes:    &fakeRoutes{},
		Sink:      sink,
		Memory:    NewSlotMemory(),
	})

	assert.NotPanics(t, func() { w.cycle(context.Background()) })

	// The loop survives and the next cycle works normally.
	w.cycle(context.Background())
	assert.Equal(t, 1, sink.count())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	mail := &fakeMail{ids: []string{"msg-2"}, body: "corpo"}
	extractor := &fakeExtractor{response: llmResponse}
	ticks := make(chan time.Time)
	w := New(Options{
		Mail:      mail,
		Extractor: extractor,
		Routes:    &fakeRoutes{},
		Sink:      &fakeSink{},
		Memory:    NewSlotMemory(),
		Ticks:     ticks,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	ticks <- time.Time{}
	ticks <- time.Time{}
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after context cancellation")
	}
	assert.GreaterOrEqual(t, mail.listCalls, 3)
}
