package bot

import (
	"context"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/Lenagitpus/hostcheckbot/internal/domain"
	"github.com/Lenagitpus/hostcheckbot/internal/intel"
	"github.com/Lenagitpus/hostcheckbot/internal/probe"
)

// Prober runs the network checks. *probe.Prober satisfies this.
type Prober interface {
	MethodCheck(ctx context.Context, host string) []probe.Result
	PayloadCheck(ctx context.Context, host string) []probe.TranscriptEntry
	Resolve(ctx context.Context, host string) probe.ResolveResult
}

// Intel looks up related-domain intelligence. *intel.Client satisfies this.
type Intel interface {
	Related(ctx context.Context, host string) ([]string, error)
	Detail(ctx context.Context, host string) (intel.Record, error)
}

// Updater is the inbound side of the chat transport.
type Updater interface {
	GetUpdates(ctx context.Context, offset int64, pollSeconds int) ([]Update, error)
}

// Sender is the outbound side of the chat transport.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
}

// Transport is what the runner needs from a chat backend. *Telegram
// satisfies this.
type Transport interface {
	Updater
	Sender
}

type Config struct {
	PollSeconds  int           // getUpdates long-poll window
	Workers      int           // update dispatch pool size
	CheckTimeout time.Duration // budget for one whole check cycle
}

// Runner drives the chat front-end: poll, dispatch, run the selected check,
// reply with a readable outcome.
type Runner struct {
	logger   *zap.Logger
	tg       Transport
	sessions *SessionStore
	prober   Prober
	intel    Intel
	cfg      Config
}

func NewRunner(logger *zap.Logger, tg Transport, sessions *SessionStore, prober Prober, intelc Intel, cfg Config) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.PollSeconds <= 0 {
		cfg.PollSeconds = 25
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.CheckTimeout <= 0 {
		cfg.CheckTimeout = 30 * time.Second
	}
	return &Runner{
		logger:   logger,
		tg:       tg,
		sessions: sessions,
		prober:   prober,
		intel:    intelc,
		cfg:      cfg,
	}
}

// Run long-polls for updates and dispatches them onto a bounded worker pool
// until ctx ends. Poll errors back off and retry; they never kill the loop.
func (r *Runner) Run(ctx context.Context) error {
	pool, err := ants.NewPoolWithFunc(r.cfg.Workers, func(v interface{}) {
		u, ok := v.(Update)
		if !ok {
			return
		}
		r.handleUpdate(ctx, u)
	})
	if err != nil {
		return err
	}
	defer pool.Release()

	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := r.tg.GetUpdates(ctx, offset, r.cfg.PollSeconds)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Warn("bot_poll_error", zap.Error(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(2 * time.Second):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			if err := pool.Invoke(u); err != nil {
				r.logger.Warn("bot_dispatch_error", zap.Error(err))
			}
		}
	}
}

func (r *Runner) handleUpdate(ctx context.Context, u Update) {
	msg := u.Message
	if msg == nil || msg.From == nil {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID

	ctx, cancel := context.WithTimeout(ctx, r.cfg.CheckTimeout)
	defer cancel()

	r.sessions.Touch(userID)

	// /start wipes the whole session; /help and /menu only clear the mode.
	if text == "/start" {
		r.sessions.Reset(userID)
		r.reply(ctx, chatID, menuText)
		return
	}
	if text == "/help" || text == "/menu" {
		r.sessions.SetMode(userID, domain.ModeNone)
		r.reply(ctx, chatID, menuText)
		return
	}

	// Menu numbers and /mode commands switch the mode; any other text is a
	// target for the current one, even when it spells a mode name.
	if isModeSwitch(text) {
		if mode, err := domain.ParseMode(strings.TrimPrefix(text, "/")); err == nil && mode != domain.ModeNone {
			r.sessions.SetMode(userID, mode)
			r.reply(ctx, chatID, modePrompt(mode))
			return
		}
	}

	mode := r.sessions.Mode(userID)
	if mode == domain.ModeNone {
		r.reply(ctx, chatID, "Pick a mode first.\n\n"+menuText)
		return
	}
	r.runCheck(ctx, chatID, userID, mode, text)
}

// isModeSwitch reports whether text addresses the menu itself: a slash
// command or a bare menu digit. Everything else is a check target.
func isModeSwitch(text string) bool {
	if strings.HasPrefix(text, "/") {
		return true
	}
	return len(text) == 1 && text[0] >= '1' && text[0] <= '4'
}

func (r *Runner) runCheck(ctx context.Context, chatID, userID int64, mode domain.Mode, target string) {
	id := xid.New().String()
	start := time.Now()
	r.logger.Info("check_start",
		zap.String("check_id", id),
		zap.Int64("user_id", userID),
		zap.String("mode", mode.String()),
		zap.String("target", target))

	_ = r.tg.SendChatAction(ctx, chatID, "typing")

	var reply string
	switch mode {
	case domain.ModeMethod:
		reply = formatMethodReport(target, r.prober.MethodCheck(ctx, target))
	case domain.ModeActive:
		reply = formatResolve(r.prober.Resolve(ctx, target))
	case domain.ModePayload:
		reply = formatTranscript(target, r.prober.PayloadCheck(ctx, target))
	case domain.ModeRelated:
		reply = r.relatedReply(ctx, target)
	default:
		reply = menuText
	}

	r.reply(ctx, chatID, reply)
	r.logger.Info("check_done",
		zap.String("check_id", id),
		zap.String("mode", mode.String()),
		zap.Float64("elapsed_ms", time.Since(start).Seconds()*1000))
}

// relatedReply runs both intelligence calls: the detail card first, then the
// subdomain list.
func (r *Runner) relatedReply(ctx context.Context, target string) string {
	if r.intel == nil {
		return "Related-domain lookup is not configured on this bot."
	}
	rec, err := r.intel.Detail(ctx, target)
	if err != nil {
		r.logger.Warn("intel_error", zap.String("target", target), zap.Error(err))
		return "Could not reach the domain intelligence service. Try again later."
	}
	subs, err := r.intel.Related(ctx, target)
	if err != nil {
		r.logger.Warn("intel_error", zap.String("target", target), zap.Error(err))
		return "Could not reach the domain intelligence service. Try again later."
	}
	return formatRelated(target, rec, subs)
}

func (r *Runner) reply(ctx context.Context, chatID int64, text string) {
	if err := r.tg.SendMessage(ctx, chatID, text); err != nil {
		r.logger.Warn("bot_send_error", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
