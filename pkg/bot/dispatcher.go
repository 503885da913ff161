// Package bot ties the engine together: it reacts to inbound transport
// notifications, resolves commands against the catalog, and posts replies.
package bot

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/forumbot/statsbot/pkg/catalog"
	"github.com/forumbot/statsbot/pkg/command"
	"github.com/forumbot/statsbot/pkg/database"
	"github.com/forumbot/statsbot/pkg/logging"
	"github.com/forumbot/statsbot/pkg/models"
	"github.com/forumbot/statsbot/pkg/render"
	sqlcheck "github.com/forumbot/statsbot/pkg/sql"
)

// FailureReply is the only error text ever shown to callers. Driver and
// service detail stays in the logs.
const FailureReply = "An error occured making stats"

// DefaultInvocationTimeout bounds one invocation's database round trip and
// chart submission.
const DefaultInvocationTimeout = 2 * time.Minute

// replyTimeout bounds posting the reply itself. It is separate from the
// invocation deadline: a timed-out invocation must still deliver the failure
// reply, which a spent context would prevent.
const replyTimeout = 30 * time.Second

// Transport is the external chat collaborator. Replies bind to the
// originating topic and post so interleaved invocations stay correlated.
type Transport interface {
	CreatePost(ctx context.Context, topicID, postNumber int, body string) error
}

// Notification is one inbound transport event.
type Notification struct {
	Type       models.NotificationType
	TopicID    int
	PostNumber int
	Post       *models.Post
}

// Dispatcher handles notifications end to end. Each matched invocation runs
// in its own goroutine with its own deadline; the only shared state is the
// catalog snapshot, which is immutable.
type Dispatcher struct {
	parser    *command.Parser
	resolver  *command.Resolver
	catalogs  *catalog.Store
	querier   database.Querier
	renderer  *render.Renderer
	transport Transport
	timeout   time.Duration
	logger    *zap.Logger

	wg sync.WaitGroup
}

// NewDispatcher wires a dispatcher from its collaborators.
func NewDispatcher(parser *command.Parser, resolver *command.Resolver, catalogs *catalog.Store, querier database.Querier, renderer *render.Renderer, transport Transport, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultInvocationTimeout
	}
	return &Dispatcher{
		parser:    parser,
		resolver:  resolver,
		catalogs:  catalogs,
		querier:   querier,
		renderer:  renderer,
		transport: transport,
		timeout:   timeout,
		logger:    logger.Named("dispatcher"),
	}
}

// HandleNotification processes one inbound event. It returns true when the
// notification was acknowledged — either a help listing was posted or a
// matched invocation was accepted for asynchronous execution — so the
// transport can suppress duplicate delivery. Unmatched invocations are a
// silent no-op.
func (d *Dispatcher) HandleNotification(ctx context.Context, n *Notification) bool {
	if !n.Type.IsActionable() || n.Post == nil {
		return false
	}

	inv := d.match(n.Post)
	if inv == nil {
		if d.parser.MatchesHelp(n.Post.Cleaned) {
			d.postListing(ctx, n)
			return true
		}
		return false
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.execute(n, inv)
	}()
	return true
}

// Wait blocks until all in-flight invocations have finished, for graceful
// shutdown.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// match parses the post and resolves it against the current catalog
// snapshot. Trust gating precedes resolution: a caller below the query's
// required trust level gets the same nil as an unknown query name.
func (d *Dispatcher) match(post *models.Post) *models.ResolvedInvocation {
	cmd := d.parser.Parse(post.Cleaned)
	if cmd == nil {
		return nil
	}

	snap := d.catalogs.Snapshot()
	if snap == nil {
		return nil
	}
	def, ok := snap.Lookup(cmd.Name)
	if !ok {
		return nil
	}
	if post.TrustLevel < def.TrustLevel {
		return nil
	}

	args := d.resolver.Resolve(cmd, def, post)
	if post.TrustLevel >= d.resolver.OverrideTrustLevel && cmd.RawArgs != "" {
		d.screenOverrides(post, def.Name, args)
	}

	return &models.ResolvedInvocation{
		Output: cmd.Output,
		Query:  def,
		Args:   args,
	}
}

// screenOverrides logs caller-supplied arguments that look like injection
// probes. Advisory only: bound parameters make them inert, but operators
// want to know who is poking.
func (d *Dispatcher) screenOverrides(post *models.Post, queryName string, args []string) {
	for _, finding := range sqlcheck.CheckArguments(args) {
		d.logger.Warn("Suspicious override argument",
			zap.String("query", queryName),
			zap.String("username", post.Username),
			zap.Int("position", finding.Position),
			zap.String("fingerprint", finding.Fingerprint))
	}
}

// execute runs one matched invocation to completion. The notification's
// context is already released by the ack, so execution gets its own deadline.
// Every failure collapses into the fixed failure reply; nothing propagates.
func (d *Dispatcher) execute(n *Notification, inv *models.ResolvedInvocation) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)

	log := d.logger.With(
		zap.String("invocation_id", uuid.NewString()),
		zap.String("query", inv.Query.Name),
		zap.String("username", n.Post.Username))

	body, err := d.produce(ctx, inv, n.Post)
	cancel()
	if err != nil {
		log.Error("Invocation failed", zap.String("error", logging.SanitizeError(err)))
		body = FailureReply
	}

	// Posting gets a fresh deadline; the invocation context may already be
	// expired when the body is the failure reply.
	postCtx, cancelPost := context.WithTimeout(context.Background(), replyTimeout)
	defer cancelPost()
	if err := d.transport.CreatePost(postCtx, n.TopicID, n.PostNumber, body); err != nil {
		log.Error("Failed to post reply", zap.Error(err))
	}
}

func (d *Dispatcher) produce(ctx context.Context, inv *models.ResolvedInvocation, post *models.Post) (string, error) {
	asOf, err := d.querier.BackupDate(ctx)
	if err != nil {
		return "", err
	}

	rs, err := d.querier.Run(ctx, inv.Query.SQL, inv.Args)
	if err != nil {
		return "", err
	}

	return d.renderer.Reply(ctx, inv, post, rs, asOf)
}

func (d *Dispatcher) postListing(ctx context.Context, n *Notification) {
	snap := d.catalogs.Snapshot()
	if snap == nil {
		return
	}
	body := render.Listing(snap.List())
	if err := d.transport.CreatePost(ctx, n.TopicID, n.PostNumber, body); err != nil {
		d.logger.Error("Failed to post query listing", zap.Error(err))
	}
}
