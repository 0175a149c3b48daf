package bot

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"tinderbot/pkg/config"
	"tinderbot/pkg/errors"
	"tinderbot/pkg/logger"
	"tinderbot/pkg/models"
	"tinderbot/pkg/store"
	"tinderbot/pkg/tinder"
)

// DefaultHiMessage is used when no greeting is configured
const DefaultHiMessage = "Hi {name}! How are you?"

// Options configures a Bot. Every field is optional.
type Options struct {
	HiMessage string
	Notifier  MatchNotifier
	Progress  Progress
	Logger    logger.Logger
}

// Bot holds one authenticated session and the local store it mirrors into
type Bot struct {
	api      API
	store    *store.Store
	self     models.Profile
	session  models.Session
	hi       string
	notifier MatchNotifier
	progress Progress
	logger   logger.Logger

	mu             sync.Mutex
	matches        []models.Match
	blocks         []string
	matchedPeople  map[string]models.Profile
	likesRemaining int
}

// New creates a Bot over an authenticated API and a loaded store
func New(api API, st *store.Store, self models.Profile, opts Options) *Bot {
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}
	if opts.Progress == nil {
		opts.Progress = nopProgress{}
	}
	if opts.HiMessage == "" {
		opts.HiMessage = DefaultHiMessage
	}

	return &Bot{
		api:            api,
		store:          st,
		self:           self,
		hi:             opts.HiMessage,
		notifier:       opts.Notifier,
		progress:       opts.Progress,
		logger:         opts.Logger,
		matchedPeople:  make(map[string]models.Profile),
		likesRemaining: -1,
	}
}

// StoreRoot returns "{base}/{name}_{id}_store" for the given user
func StoreRoot(base string, self *models.Profile) string {
	return filepath.Join(base, self.DirName()+"_store")
}

// Start authenticates with the configured Facebook credentials, fetches the
// user's own profile, loads the store derived from it and requests the
// current updates.
func Start(ctx context.Context, cfg *config.Config, opts Options) (*Bot, error) {
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}
	if opts.HiMessage == "" {
		opts.HiMessage = cfg.Bot.HiMessage
	}
	log := opts.Logger

	client := tinder.NewClient(cfg.API, log)
	log.Info("Authenticating")
	session, err := client.Authenticate(ctx, cfg.Credentials.FacebookToken, cfg.Credentials.FacebookID)
	if err != nil {
		return nil, err
	}
	api := client.WithSession(session)

	self, err := api.FetchProfile(ctx)
	if err != nil {
		return nil, err
	}

	root := StoreRoot(cfg.Store.BaseDirectory, self)
	st, err := store.Open(root, api, log)
	if err != nil {
		return nil, err
	}
	if _, err := st.Load(ctx); err != nil {
		return nil, err
	}

	b := New(api, st, *self, opts)
	b.session = session
	if err := b.RequestUpdates(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Self returns the authenticated user's own profile
func (b *Bot) Self() models.Profile { return b.self }

// Session returns the API session, empty when the Bot was built with New
func (b *Bot) Session() models.Session { return b.session }

// Store returns the local store
func (b *Bot) Store() *store.Store { return b.store }

// Matches returns the matches from the last update
func (b *Bot) Matches() []models.Match {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.Match(nil), b.matches...)
}

// Blocks returns the ids that blocked the user, from the last update
func (b *Bot) Blocks() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.blocks...)
}

// MatchedPeople returns the profiles matched by likes in this session
func (b *Bot) MatchedPeople() map[string]models.Profile {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]models.Profile, len(b.matchedPeople))
	for k, v := range b.matchedPeople {
		out[k] = v
	}
	return out
}

// LikesRemaining returns the quota reported by the last like, or -1 if no
// like was sent yet
func (b *Bot) LikesRemaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.likesRemaining
}

// RequestUpdates replaces the cached matches and blocks with the server's
func (b *Bot) RequestUpdates(ctx context.Context) error {
	updates, err := b.api.FetchUpdates(ctx, "")
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.matches = updates.Matches
	b.blocks = updates.Blocks
	b.mu.Unlock()

	b.logger.InfoWithFields("Updates received", map[string]interface{}{
		"matches": len(updates.Matches),
		"blocks":  len(updates.Blocks),
	})
	return nil
}

// RequestRecommendations fetches the current recommendations and upserts
// each into the store. Running out of likes is reported as a rate limited
// error before anything is stored.
func (b *Bot) RequestRecommendations(ctx context.Context) (Summary, error) {
	recs, err := b.api.FetchRecommendations(ctx)
	if err != nil {
		if errors.IsRateLimited(err) {
			return Summary{Operation: "Storing recommendations", RateLimited: true}, err
		}
		return Summary{}, err
	}
	return b.upsertAll(ctx, "Storing recommendations", recs)
}

// UpdateStore fetches the current version of every stored profile and
// upserts it. Profiles whose fetch fails are skipped.
func (b *Bot) UpdateStore(ctx context.Context) (Summary, error) {
	profiles := b.store.Profiles()
	summary := Summary{Operation: "Updating store", Total: len(profiles)}

	b.progress.Start(summary.Operation, summary.Total)
	defer b.progress.Finish()

	for _, known := range profiles {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		fresh, err := b.api.FetchUser(ctx, known.ID)
		if err != nil {
			if errors.IsAuth(err) || ctx.Err() != nil {
				summary.Cancelled = ctx.Err() != nil
				return summary, err
			}
			b.logger.WithError(err).WarnWithFields("Skipping profile", map[string]interface{}{
				"profile_id": known.ID,
				"name":       known.Name,
			})
			summary.Failed++
			b.progress.Step(known.Name, "failed")
			continue
		}

		outcome, err := b.store.Upsert(ctx, *fresh)
		if err != nil {
			return summary, err
		}
		summary.Processed++
		if outcome.Changed() {
			summary.Changed++
		}
		b.progress.Step(known.Name, outcome.String())
	}

	logger.LogBatch(b.logger, summary.Operation, summary.Processed, summary.Total, summary.Cancelled)
	return summary, nil
}

// UpdateMatches upserts every cached match's person and links its primary
// photo under the matches directory
func (b *Bot) UpdateMatches(ctx context.Context) (Summary, error) {
	matches := b.Matches()
	summary := Summary{Operation: "Updating matches", Total: len(matches)}

	b.progress.Start(summary.Operation, summary.Total)
	defer b.progress.Finish()

	for _, match := range matches {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		outcome, err := b.store.Upsert(ctx, match.Person)
		if err != nil {
			if errors.IsRemote(err) && ctx.Err() == nil {
				b.logger.WithError(err).WarnWithFields("Skipping match", map[string]interface{}{
					"match_id": match.ID,
					"name":     match.Person.Name,
				})
				summary.Failed++
				b.progress.Step(match.Person.Name, "failed")
				continue
			}
			summary.Cancelled = ctx.Err() != nil
			return summary, err
		}
		stored, _ := b.store.Profile(match.Person.ID)
		if err := b.store.RefreshIndex(&stored, b.store.MatchesDir()); err != nil {
			return summary, err
		}

		summary.Processed++
		if outcome.Changed() {
			summary.Changed++
		}
		b.progress.Step(match.Person.Name, outcome.String())
	}

	logger.LogBatch(b.logger, summary.Operation, summary.Processed, summary.Total, summary.Cancelled)
	return summary, nil
}

func (b *Bot) upsertAll(ctx context.Context, operation string, profiles []models.Profile) (Summary, error) {
	summary := Summary{Operation: operation, Total: len(profiles)}

	b.progress.Start(operation, summary.Total)
	defer b.progress.Finish()

	for _, p := range profiles {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		outcome, err := b.store.Upsert(ctx, p)
		if err != nil {
			if errors.IsRemote(err) && ctx.Err() == nil {
				b.logger.WithError(err).WarnWithFields("Skipping profile", map[string]interface{}{
					"profile_id": p.ID,
					"name":       p.Name,
				})
				summary.Failed++
				b.progress.Step(p.Name, "failed")
				continue
			}
			summary.Cancelled = ctx.Err() != nil
			return summary, err
		}

		summary.Processed++
		if outcome.Changed() {
			summary.Changed++
		}
		b.progress.Step(p.Name, outcome.String())
	}

	logger.LogBatch(b.logger, operation, summary.Processed, summary.Total, summary.Cancelled)
	return summary, nil
}

// helloFor renders the greeting for name
func (b *Bot) helloFor(name string) string {
	return strings.ReplaceAll(b.hi, "{name}", name)
}

// BroadcastHi sends the greeting to every cached match without messages,
// then refreshes the updates
func (b *Bot) BroadcastHi(ctx context.Context) (Summary, error) {
	var pending []models.Match
	for _, m := range b.Matches() {
		if len(m.Messages) == 0 {
			pending = append(pending, m)
		}
	}
	summary := Summary{Operation: "Saying hi", Total: len(pending)}

	b.progress.Start(summary.Operation, summary.Total)
	for _, m := range pending {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		name := m.Person.Name
		if err := b.api.SendMessage(ctx, m.ID, b.helloFor(name)); err != nil {
			if errors.IsAuth(err) || ctx.Err() != nil {
				b.progress.Finish()
				summary.Cancelled = ctx.Err() != nil
				return summary, err
			}
			b.logger.WithError(err).WarnWithFields("Failed to say hi", map[string]interface{}{
				"match_id": m.ID,
				"name":     name,
			})
			summary.Failed++
			b.progress.Step(name, "failed")
			continue
		}

		summary.Processed++
		summary.Changed++
		b.progress.Step(name, "sent")
	}
	b.progress.Finish()
	logger.LogBatch(b.logger, summary.Operation, summary.Processed, summary.Total, summary.Cancelled)

	if summary.Cancelled {
		return summary, nil
	}
	return summary, b.RequestUpdates(ctx)
}

// describe is used in log lines for a profile id that may not be stored
func (b *Bot) describe(id string) string {
	if p, ok := b.store.Profile(id); ok {
		return p.Name
	}
	return fmt.Sprintf("unknown (%s)", id)
}
