package chat

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/rina/ai"
	"github.com/poiesic/rina/core"
	"github.com/poiesic/rina/intent"
	"github.com/poiesic/rina/ratelimit"
	"github.com/poiesic/rina/storage"
	"github.com/poiesic/rina/trace"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultCallTimeout bounds every outbound call.
	DefaultCallTimeout = 15 * time.Second

	// DefaultTopK is the retrieval and rerank depth of a search.
	DefaultTopK = 5

	// DisplayLimit is the number of listings shown in a search reply.
	DisplayLimit = 3

	// AnonymousIdentity is used when a message has no sender.
	// Exchanges from it are not logged.
	AnonymousIdentity = "anon"

	// EmptyTextConfidence is the intent confidence reported for blank messages,
	// which are answered without classification.
	EmptyTextConfidence = 1.0

	// TraceTask is the task name recorded on traced requests.
	TraceTask = "rent_search_or_portfolio"

	// DefaultMaxPendingWrites bounds how many replies may wait for a free
	// persistence worker before writes are dropped.
	DefaultMaxPendingWrites = 1024

	releaseTimeout = 5 * time.Second
)

// Outcome classifies how a branch went.
type Outcome string

const (
	OutcomeOK        Outcome = "ok"
	OutcomeDegraded  Outcome = "degraded"
	OutcomeFailed    Outcome = "failed"
	OutcomeThrottled Outcome = "throttled"
)

// Reply is the orchestrator's answer to one message.
type Reply struct {
	Text        string
	Language    core.LanguageTag
	Intent      core.Intent
	Branch      core.IntentLabel
	Outcome     Outcome
	RateLimited bool
	RetryAfter  time.Duration
}

// LanguageDetector tags message text with a language.
type LanguageDetector interface {
	Detect(text string) core.LanguageTag
}

// IntentRouter picks the branch for message text.
type IntentRouter interface {
	Route(ctx context.Context, text string) intent.Decision
}

// Retriever finds listings similar to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]core.RetrievalResult, error)
}

// RateLimiter admits messages per identity.
type RateLimiter interface {
	Check(ctx context.Context, identity string) ratelimit.Decision
	TimeUntilReset(ctx context.Context, identity string) time.Duration
}

// Orchestrator handles inbound messages end to end. It is safe for concurrent use.
type Orchestrator struct {
	detector  LanguageDetector
	router    IntentRouter
	retriever Retriever
	completer ai.Completer
	limiter   RateLimiter

	chats     storage.ChatRepository
	favorites storage.FavoriteRepository
	inquiries storage.InquiryRepository

	recorder   *trace.Recorder
	traceSinks []trace.Sink

	pool        *ants.Pool
	poolSize    int
	maxPending  int
	callTimeout time.Duration
	topK        int
	logger      *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithRateLimiter gates messages through limiter. Default admits everything.
func WithRateLimiter(limiter RateLimiter) Option {
	return func(o *Orchestrator) error {
		o.limiter = limiter
		return nil
	}
}

// WithChatRepository logs every exchange to repo.
func WithChatRepository(repo storage.ChatRepository) Option {
	return func(o *Orchestrator) error {
		o.chats = repo
		return nil
	}
}

// WithFavoriteRepository enables the save_listing branch.
func WithFavoriteRepository(repo storage.FavoriteRepository) Option {
	return func(o *Orchestrator) error {
		o.favorites = repo
		return nil
	}
}

// WithInquiryRepository enables the create_inquiry branch.
func WithInquiryRepository(repo storage.InquiryRepository) Option {
	return func(o *Orchestrator) error {
		o.inquiries = repo
		return nil
	}
}

// WithTraceSink adds a sink for traces finished by HandleTraced.
func WithTraceSink(sink trace.Sink) Option {
	return func(o *Orchestrator) error {
		if sink == nil {
			return trace.ErrSinkRequired
		}
		o.traceSinks = append(o.traceSinks, sink)
		return nil
	}
}

// WithCallTimeout bounds each outbound call. Default is DefaultCallTimeout.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) error {
		if d <= 0 {
			return ErrInvalidCallTimeout
		}
		o.callTimeout = d
		return nil
	}
}

// WithTopK sets the retrieval and rerank depth. Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(o *Orchestrator) error {
		if k <= 0 {
			return ErrInvalidTopK
		}
		o.topK = k
		return nil
	}
}

// WithPoolSize sets the number of background persistence workers.
// Default is runtime.NumCPU(), with a minimum of 2.
func WithPoolSize(size int) Option {
	return func(o *Orchestrator) error {
		o.poolSize = max(1, size)
		return nil
	}
}

// WithMaxPendingWrites sets how many callers may wait for a free persistence
// worker. Beyond that, writes are dropped and counted. Default is DefaultMaxPendingWrites.
func WithMaxPendingWrites(n int) Option {
	return func(o *Orchestrator) error {
		o.maxPending = max(1, n)
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// New creates an Orchestrator. Call Close to drain background writes.
func New(detector LanguageDetector, router IntentRouter, retriever Retriever, completer ai.Completer, opts ...Option) (*Orchestrator, error) {
	if detector == nil {
		return nil, ErrDetectorRequired
	}
	if router == nil {
		return nil, ErrRouterRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if completer == nil {
		return nil, ErrCompleterRequired
	}

	o := &Orchestrator{
		detector:    detector,
		router:      router,
		retriever:   retriever,
		completer:   completer,
		poolSize:    max(2, runtime.NumCPU()),
		maxPending:  DefaultMaxPendingWrites,
		callTimeout: DefaultCallTimeout,
		topK:        DefaultTopK,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	o.logger = o.logger.With("component", "orchestrator")

	pool, err := ants.NewPool(o.poolSize, ants.WithMaxBlockingTasks(o.maxPending))
	if err != nil {
		return nil, err
	}
	o.pool = pool

	recorderOpts := []trace.Option{
		trace.WithDispatcher(o.dispatch),
		trace.WithLogger(o.logger),
	}
	for _, s := range o.traceSinks {
		recorderOpts = append(recorderOpts, trace.WithSink(s))
	}
	if o.recorder, err = trace.NewRecorder(recorderOpts...); err != nil {
		pool.Release()
		return nil, err
	}
	return o, nil
}

// Close waits for background writes to finish and stops the worker pool.
func (o *Orchestrator) Close() error {
	return o.pool.ReleaseTimeout(releaseTimeout)
}

// Handle answers msg.
func (o *Orchestrator) Handle(ctx context.Context, msg core.Message) Reply {
	identity := identityOf(msg)
	if reply, ok := o.admit(ctx, identity); !ok {
		return reply
	}
	return o.respond(ctx, identity, msg.Text)
}

// HandleTraced answers msg and records a plan, act, critique, decision trace.
// Rate-limited messages get no trace.
func (o *Orchestrator) HandleTraced(ctx context.Context, msg core.Message) (Reply, *core.Trace) {
	identity := identityOf(msg)
	if reply, ok := o.admit(ctx, identity); !ok {
		return reply, nil
	}

	t := o.recorder.Start(identity, TraceTask, map[string]any{"user_message": msg.Text})
	o.record(t, core.StepPlan, map[string]any{
		"restated_goal": msg.Text,
		"substeps": []string{
			"Classify intent (search/save/inquiry/fallback)",
			"Call agent service to get response",
			"Persist chat and trace",
		},
	}, true)
	o.record(t, core.StepAct, map[string]any{
		"tool": "chat.Orchestrator.Handle",
		"args": map[string]any{
			"user_id":         identity,
			"message_excerpt": trace.Excerpt(msg.Text, 120),
			"len":             len([]rune(msg.Text)),
		},
	}, true)

	reply := o.respond(ctx, identity, msg.Text)

	critique := trace.CritiqueReply(reply.Text)
	o.record(t, core.StepCritique, map[string]any{
		"observation": trace.Excerpt(reply.Text, 200),
		"meets_goal":  critique.MeetsGoal,
		"note":        critique.Note,
		"branch":      string(reply.Branch),
		"outcome":     string(reply.Outcome),
	}, critique.MeetsGoal)

	decision := "stop"
	if !critique.MeetsGoal {
		decision = "revise"
	}
	o.record(t, core.StepDecision, map[string]any{
		"decision": decision,
		"tradeoff": "Stop when response satisfies query; otherwise suggest broader search",
	}, true)

	finished, err := o.recorder.Finish(context.WithoutCancel(ctx), t, map[string]any{"reply_preview": trace.Excerpt(reply.Text, 200)})
	if err != nil {
		o.logger.Warn("trace finish failed", "trace_id", t.TraceID, "err", err)
	}
	return reply, finished
}

func (o *Orchestrator) record(t *core.Trace, stepType core.StepType, content map[string]any, success bool) {
	if _, err := o.recorder.Record(t, stepType, content, success); err != nil {
		o.logger.Warn("trace step rejected", "trace_id", t.TraceID, "step_type", stepType, "err", err)
	}
}

// admit applies the rate limiter. It returns false with the throttle reply on denial.
func (o *Orchestrator) admit(ctx context.Context, identity string) (Reply, bool) {
	if o.limiter == nil {
		return Reply{}, true
	}

	callCtx, cancel := o.callContext(ctx)
	defer cancel()

	decision := o.limiter.Check(callCtx, identity)
	if decision.FailOpen {
		rateLimitFailOpenTotal.Inc()
	}
	if decision.Allowed {
		return Reply{}, true
	}

	rateLimitedTotal.Inc()
	retryAfter := o.limiter.TimeUntilReset(callCtx, identity)
	seconds := max(1, int(math.Ceil(retryAfter.Seconds())))
	o.logger.Info("message throttled", "identity", identity, "count", decision.Count, "retry_after", retryAfter)

	return Reply{
		Text:        throttleReply(seconds),
		Language:    core.LanguageOther,
		Branch:      core.IntentFallback,
		Outcome:     OutcomeThrottled,
		RateLimited: true,
		RetryAfter:  retryAfter,
	}, false
}

// respond runs detection, routing and the selected branch for admitted text.
func (o *Orchestrator) respond(ctx context.Context, identity, text string) Reply {
	start := time.Now()

	if strings.TrimSpace(text) == "" {
		reply := Reply{
			Text:     EmptyTextReply,
			Language: core.LanguageOther,
			Intent:   core.Intent{Label: core.IntentGreeting, Confidence: EmptyTextConfidence},
			Branch:   core.IntentGreeting,
			Outcome:  OutcomeOK,
		}
		o.logger.Debug("handled empty message", "identity", identity)
		messagesTotal.WithLabelValues(string(reply.Branch), string(reply.Outcome)).Inc()
		o.saveChat(ctx, identity, text, reply)
		return reply
	}

	var (
		lang     core.LanguageTag
		decision intent.Decision
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lang = o.detector.Detect(text)
		return nil
	})
	g.Go(func() error {
		callCtx, cancel := o.callContext(gctx)
		defer cancel()
		decision = o.router.Route(callCtx, text)
		return nil
	})
	_ = g.Wait()

	if decision.Err != nil {
		o.logger.Warn("intent classification failed", "identity", identity, "err", decision.Err)
	}

	res := o.runBranch(ctx, identity, text, lang, decision.Branch)
	if res.err != nil {
		o.logger.Warn("branch did not complete normally",
			"identity", identity,
			"branch", decision.Branch,
			"outcome", res.outcome,
			"err", res.err)
	}

	reply := Reply{
		Text:     res.text,
		Language: lang,
		Intent:   decision.Classified,
		Branch:   decision.Branch,
		Outcome:  res.outcome,
	}

	o.logger.Debug("handled message",
		"identity", identity,
		"lang", lang,
		"classified", decision.Classified.Label,
		"confidence", decision.Classified.Confidence,
		"branch", decision.Branch,
		"rule", decision.Rule,
		"outcome", res.outcome)
	messagesTotal.WithLabelValues(string(reply.Branch), string(reply.Outcome)).Inc()
	handleDuration.WithLabelValues(string(reply.Branch)).Observe(time.Since(start).Seconds())

	o.saveChat(ctx, identity, text, reply)
	return reply
}

// saveChat logs the exchange in the background.
func (o *Orchestrator) saveChat(ctx context.Context, identity, text string, reply Reply) {
	if o.chats == nil || identity == AnonymousIdentity {
		return
	}
	exchange := &core.ChatExchange{
		Identity:    identity,
		UserMessage: text,
		BotResponse: reply.Text,
		Language:    reply.Language,
		Intent:      reply.Branch,
	}
	detached := context.WithoutCancel(ctx)
	err := o.dispatch(func() {
		callCtx, cancel := o.callContext(detached)
		defer cancel()
		if err := o.chats.SaveChat(callCtx, exchange); err != nil {
			persistenceFailures.WithLabelValues("chat").Inc()
			o.logger.Warn("save chat failed", "identity", identity, "err", err)
		}
	})
	if err != nil {
		persistenceFailures.WithLabelValues("chat_dropped").Inc()
		o.logger.Warn("save chat not scheduled", "identity", identity, "err", err)
	}
}

// dispatch runs task on the persistence pool. It waits for a free worker
// when all are busy and fails only once the wait queue is full.
func (o *Orchestrator) dispatch(task func()) error {
	return o.pool.Submit(task)
}

func (o *Orchestrator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, o.callTimeout)
}

func identityOf(msg core.Message) string {
	if id := strings.TrimSpace(msg.SenderID); id != "" {
		return id
	}
	return AnonymousIdentity
}
