// Package chat implements the session controller: it accepts user input,
// picks between the remote completion service and the offline table, and
// keeps the conversation log.
package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/diogo/groqchat/internal/config"
	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/models"
)

// ApologyText is shown when the submission path itself fails
const ApologyText = "Sorry, I encountered an error. Please try again."

var (
	// ErrEmptyInput is returned for blank submissions; nothing is recorded
	ErrEmptyInput = errors.New("empty input")
	// ErrBusy is returned while a reply is pending; nothing is recorded
	ErrBusy = errors.New("a reply is already pending")
)

// State is the controller's position in the ready/awaiting cycle
type State int

const (
	StateReady State = iota
	StateAwaiting
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateAwaiting:
		return "awaiting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Mode tells whether replies come from the remote service
type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

// Completer performs one remote completion
type Completer interface {
	Complete(ctx context.Context, credential, message string) (string, error)
}

// Controller owns the conversation. It is safe for concurrent use; at most
// one reply is pending at any time.
type Controller struct {
	mu     sync.Mutex
	state  State
	log    *Log
	store  config.CredentialStore
	remote Completer
	canned *CannedTable
	logger *zap.Logger
}

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the logger for fallback diagnostics
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithCannedResponses replaces the offline table
func WithCannedResponses(entries []CannedResponse) Option {
	return func(c *Controller) {
		c.canned = NewCannedTable(entries)
	}
}

// NewController creates a controller. remote may be nil, in which case
// every reply is offline.
func NewController(store config.CredentialStore, remote Completer, opts ...Option) *Controller {
	c := &Controller{
		state:  StateReady,
		log:    NewLog(),
		store:  store,
		remote: remote,
		canned: NewCannedTable(DefaultCannedResponses()),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Messages returns a copy of the conversation log
func (c *Controller) Messages() []models.Message {
	return c.log.Messages()
}

// Mode reports online when a credential is stored
func (c *Controller) Mode() Mode {
	if c.store == nil {
		return ModeOffline
	}
	cred, err := c.store.Get()
	if err != nil || strings.TrimSpace(cred) == "" {
		return ModeOffline
	}
	return ModeOnline
}

// Turn is a submission whose user message is already logged and whose
// reply is still pending.
type Turn struct {
	c    *Controller
	once sync.Once
	User models.Message
}

// Begin validates input, logs the user message and enters awaiting.
func (c *Controller) Begin(rawText string) (*Turn, error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return nil, ErrEmptyInput
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateAwaiting {
		return nil, ErrBusy
	}

	user := models.NewUserMessage(text)
	c.log.Append(user)
	c.state = StateAwaiting

	return &Turn{c: c, User: user}, nil
}

// Complete resolves the reply, logs it and returns the controller to ready.
// Cancelling ctx does not abort it. Calling Complete again returns the zero
// Message and has no effect.
func (t *Turn) Complete(ctx context.Context) models.Message {
	var reply models.Message
	t.once.Do(func() {
		reply = t.c.complete(context.WithoutCancel(ctx), t.User.Text)
	})
	return reply
}

func (c *Controller) complete(ctx context.Context, text string) models.Message {
	var reply models.Message

	resolved, err := c.safeResolve(ctx, text)
	if err != nil {
		c.logger.Error("reply failed", zap.Error(err))
		reply = models.NewErrorMessage(ApologyText)
	} else {
		reply = models.NewAssistantMessage(resolved)
	}

	c.mu.Lock()
	c.log.Append(reply)
	c.state = StateReady
	c.mu.Unlock()

	return reply
}

// safeResolve turns a panic while resolving into an error
func (c *Controller) safeResolve(ctx context.Context, text string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while resolving reply: %v", r)
		}
	}()
	return c.ResolveReply(ctx, text)
}

// Submit runs a full turn and returns the assistant message.
func (c *Controller) Submit(ctx context.Context, rawText string) (*models.Message, error) {
	turn, err := c.Begin(rawText)
	if err != nil {
		return nil, err
	}
	reply := turn.Complete(ctx)
	return &reply, nil
}

// ResolveReply picks the reply for message. Without a credential it answers
// offline with no network I/O. With one it makes exactly one remote call and
// falls back to the offline answer on any failure. The only error returned
// is a credential read failure.
func (c *Controller) ResolveReply(ctx context.Context, message string) (string, error) {
	if c.store == nil {
		return c.OfflineReply(message), nil
	}

	cred, err := c.store.Get()
	if errors.Is(err, apierrors.ErrNoCredential) {
		return c.OfflineReply(message), nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read credential: %w", err)
	}
	cred = strings.TrimSpace(cred)
	if cred == "" || c.remote == nil {
		return c.OfflineReply(message), nil
	}

	reply, err := c.remote.Complete(ctx, cred, message)
	if err != nil {
		c.logger.Warn("completion failed, using offline reply",
			zap.Error(err),
			zap.Int("status", apierrors.GetHTTPStatus(err)),
			zap.Bool("network", apierrors.IsNetworkError(err)),
			zap.Bool("auth", apierrors.IsAuthError(err)),
		)
		return c.OfflineReply(message), nil
	}
	return reply, nil
}

// OfflineReply answers from the canned table
func (c *Controller) OfflineReply(message string) string {
	return c.canned.Lookup(message)
}
