package conversation

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	apierrors "github.com/diogo/mongomentor/internal/errors"
)

// Placeholder answers used when the endpoint does not produce one
const (
	NoAnswerText   = "No answer returned."
	FetchErrorText = "Error fetching response."
)

// Failure classifies which placeholder, if any, replaced the answer
type Failure int

const (
	FailureNone Failure = iota
	FailureNoAnswer
	FailureFetch
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "ok"
	case FailureNoAnswer:
		return "no_answer"
	case FailureFetch:
		return "fetch_error"
	default:
		return "unknown"
	}
}

// Answerer is the outbound question-answering call
type Answerer interface {
	Answer(ctx context.Context, requestID, question string) (string, error)
}

// Exchange is the settled result of one Ask
type Exchange struct {
	ID       string
	Question string
	Answer   string
	Failure  Failure
	Elapsed  time.Duration
	// Err is the underlying retrieval error, kept for diagnostics only.
	Err error
}

// Dispatcher sends questions and records each question/answer pair in a Store.
// It does not serialize calls: overlapping Asks each append their own pair
// in completion order.
type Dispatcher struct {
	client   Answerer
	store    *Store
	logger   *slog.Logger
	newID    func() string
	inFlight atomic.Int32

	mu      sync.Mutex
	settled []func(Exchange)
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used for exchange records
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithIDGenerator replaces the request id generator
func WithIDGenerator(fn func() string) DispatcherOption {
	return func(d *Dispatcher) {
		if fn != nil {
			d.newID = fn
		}
	}
}

// NewDispatcher creates a Dispatcher writing into store
func NewDispatcher(client Answerer, store *Store, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		client: client,
		store:  store,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Store returns the store the dispatcher appends to
func (d *Dispatcher) Store() *Store {
	return d.store
}

// Loading reports whether any Ask is in flight
func (d *Dispatcher) Loading() bool {
	return d.inFlight.Load() > 0
}

// OnSettled registers fn to run after every exchange has been appended
func (d *Dispatcher) OnSettled(fn func(Exchange)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.settled = append(d.settled, fn)
}

// Ask issues exactly one outbound call for question and appends the question
// and its answer (or a placeholder) to the store. Failures never escape: they
// become FetchErrorText or NoAnswerText.
func (d *Dispatcher) Ask(ctx context.Context, question string) Exchange {
	d.inFlight.Add(1)

	ex := Exchange{ID: d.newID(), Question: question}
	start := time.Now()

	answer, err := d.client.Answer(ctx, ex.ID, question)
	ex.Elapsed = time.Since(start)
	ex.Err = err

	switch {
	case err == nil:
		ex.Answer = answer
	case apierrors.IsNoAnswer(err):
		ex.Answer = NoAnswerText
		ex.Failure = FailureNoAnswer
	default:
		ex.Answer = FetchErrorText
		ex.Failure = FailureFetch
	}

	d.store.AppendExchange(ex.Question, ex.Answer)
	d.inFlight.Add(-1)

	d.log(ctx, ex)
	d.notify(ex)

	return ex
}

func (d *Dispatcher) log(ctx context.Context, ex Exchange) {
	attrs := []slog.Attr{
		slog.String("request_id", ex.ID),
		slog.String("outcome", ex.Failure.String()),
		slog.Duration("elapsed", ex.Elapsed),
		slog.Int("question_len", len(ex.Question)),
	}
	if ex.Err != nil {
		attrs = append(attrs, slog.Any("err", ex.Err))
		d.logger.LogAttrs(ctx, slog.LevelWarn, "answer retrieval failed", attrs...)
		return
	}
	d.logger.LogAttrs(ctx, slog.LevelInfo, "answer received", attrs...)
}

func (d *Dispatcher) notify(ex Exchange) {
	d.mu.Lock()
	hooks := make([]func(Exchange), len(d.settled))
	copy(hooks, d.settled)
	d.mu.Unlock()

	for _, fn := range hooks {
		fn(ex)
	}
}
