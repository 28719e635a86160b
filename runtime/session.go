package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"affinity-engine/contract"
	"affinity-engine/domain"
	"affinity-engine/domain/event"
	apperrors "affinity-engine/errors"
)

// SendState is the observable phase of the send pipeline.
type SendState int32

const (
	StateIdle SendState = iota
	StateSending
	StateAwaitingReply
	StateScoringInFlight
	StateFailed
)

func (s SendState) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateSending:
		return "Sending"
	case StateAwaitingReply:
		return "AwaitingReply"
	case StateScoringInFlight:
		return "ScoringInFlight"
	case StateFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Session is the explicitly owned handle of one active conversation.
// Its lifetime bounds every in-flight operation of the coordinator.
type Session struct {
	Conversation domain.Conversation
	Profile      domain.Profile
}

// Ready reports whether the session carries everything a send needs.
func (s Session) Ready() bool {
	return s.Conversation.ID != "" && s.Profile.UserID != ""
}

// SessionCoordinator drives the full send pipeline: append the user
// message, infer, conditionally persist the score, append the AI reply.
// Sends are serialized: a second Send queues on the pipeline mutex so
// append order always matches call-completion order.
type SessionCoordinator struct {
	mu       sync.Mutex
	log      *slog.Logger
	store    *Store
	chat     contract.IChatService
	bridge   contract.IScoringBridge
	updater  contract.IScoreUpdater
	notifier contract.INotifier
	route    domain.RouteFunc
	events   chan<- event.DomainEvent
	session  Session

	ctx    context.Context
	cancel context.CancelFunc

	state   atomic.Int32
	lastErr atomic.Value // holds errHolder

	draftMu sync.Mutex
	draft   string
}

func NewSessionCoordinator(
	ctx context.Context,
	log *slog.Logger,
	store *Store,
	chat contract.IChatService,
	bridge contract.IScoringBridge,
	updater contract.IScoreUpdater,
	notifier contract.INotifier,
	route domain.RouteFunc,
	events chan<- event.DomainEvent,
	session Session,
) *SessionCoordinator {
	sessionCtx, cancel := context.WithCancel(ctx)
	c := &SessionCoordinator{
		log:      log,
		store:    store,
		chat:     chat,
		bridge:   bridge,
		updater:  updater,
		notifier: notifier,
		route:    route,
		events:   events,
		session:  session,
		ctx:      sessionCtx,
		cancel:   cancel,
	}
	store.RegisterConversation(session.Conversation)
	return c
}

func (c *SessionCoordinator) State() SendState {
	return SendState(c.state.Load())
}

// Err returns the error of the last failed send, or nil.
func (c *SessionCoordinator) Err() error {
	if held, ok := c.lastErr.Load().(errHolder); ok {
		return held.err
	}
	return nil
}

// SetDraft stores the pending input; a completed send clears it.
func (c *SessionCoordinator) SetDraft(text string) {
	c.draftMu.Lock()
	defer c.draftMu.Unlock()
	c.draft = text
}

func (c *SessionCoordinator) Draft() string {
	c.draftMu.Lock()
	defer c.draftMu.Unlock()
	return c.draft
}

// Close ends the session. In-flight sends will not append their reply
// once the session context is canceled.
func (c *SessionCoordinator) Close() {
	c.cancel()
}

// Send runs one user-initiated send through the pipeline and returns
// the destination selected by the routing policy, if a score was
// persisted this turn. Partial progress is accepted: the user message
// stays recorded even when the AI never replies.
func (c *SessionCoordinator) Send(ctx context.Context, text string) (domain.Destination, error) {
	if domain.IsBlank(text) || !c.session.Ready() {
		return "", apperrors.ErrNotReady
	}
	if c.ctx.Err() != nil {
		return "", apperrors.ErrSessionClosed
	}

	cmd := domain.SendMessageCommand{
		ConversationID: c.session.Conversation.ID,
		SenderID:       c.session.Profile.UserID,
		Text:           text,
	}
	if err := cmd.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrNotReady, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Store(int32(StateSending))
	if err := c.appendUserMessage(ctx, cmd); err != nil {
		return "", c.fail(err)
	}

	c.state.Store(int32(StateAwaitingReply))
	reply, err := c.bridge.Infer(ctx, cmd.SenderID, cmd.Text)
	if err != nil {
		return "", c.fail(err)
	}

	var destination domain.Destination
	if reply.Scored() {
		c.state.Store(int32(StateScoringInFlight))
		destination = c.persistScore(ctx, *reply.Compatibility)
	}

	// Always record the reply, whatever the scoring outcome, unless
	// the user has navigated away from this session in the meantime.
	if c.ctx.Err() != nil {
		return "", c.fail(apperrors.ErrSessionClosed)
	}
	if err := c.appendBotReply(ctx, reply.Text); err != nil {
		return "", c.fail(err)
	}

	c.SetDraft("")
	c.state.Store(int32(StateIdle))
	c.lastErr.Store(errHolder{})
	return destination, nil
}

func (c *SessionCoordinator) appendUserMessage(ctx context.Context, cmd domain.SendMessageCommand) error {
	stored, err := c.chat.PostMessage(ctx, cmd.ConversationID, cmd.SenderID, cmd.Text)
	if err != nil {
		return err
	}
	if err := c.store.Append(ctx, stored); err != nil {
		return err
	}
	if c.notifier != nil {
		go func() {
			_ = c.notifier.Play()
		}()
	}
	return nil
}

// persistScore forwards the compatibility value and resolves routing.
// A rejected update is logged and reported as an event, never fatal:
// the conversation goes on.
func (c *SessionCoordinator) persistScore(ctx context.Context, value float64) domain.Destination {
	score := domain.NewCompatibilityScore(c.session.Conversation.ID, c.session.Profile.UserID, value)
	c.emit(event.ScoreComputed{Score: score})

	if err := c.updater.Update(ctx, c.session.Profile.Email, score.Percent()); err != nil {
		c.log.Warn("Score update not persisted", "error", err)
		c.emit(event.ScoreRejected{Score: score, Reason: err.Error()})
		return ""
	}

	var destination domain.Destination
	if c.route != nil {
		destination = c.route(c.session.Profile)
	}
	c.emit(event.ScorePersisted{Score: score, Destination: destination})
	return destination
}

func (c *SessionCoordinator) appendBotReply(ctx context.Context, text string) error {
	stored, err := c.chat.PostMessage(ctx, c.session.Conversation.ID, domain.AIBotSenderID, text)
	if err != nil {
		return err
	}
	return c.store.Append(ctx, stored)
}

func (c *SessionCoordinator) fail(err error) error {
	c.state.Store(int32(StateFailed))
	c.lastErr.Store(errHolder{err: err})
	c.log.Error("Send pipeline halted", "conversation", c.session.Conversation.ID, "error", err)
	c.emit(event.SendFailed{Conversation: c.session.Conversation.ID, Reason: err.Error()})
	return err
}

// emit is best-effort: a full event channel drops the event with a
// warning, matching the fanout contract.
func (c *SessionCoordinator) emit(e event.DomainEvent) {
	if c.events == nil {
		return
	}
	select {
	case c.events <- e:
	default:
		c.log.Warn(fmt.Sprintf("Event channel full for conversation %s, dropping event", e.ConversationID()))
	}
}

// errHolder keeps the atomic.Value slot consistently typed; a zero
// holder clears the last error.
type errHolder struct {
	err error
}
