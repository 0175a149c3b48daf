package bot

import (
	"context"

	"tinderbot/pkg/errors"
	"tinderbot/pkg/logger"
)

// LikeResult is the outcome of one like
type LikeResult struct {
	Liked          bool
	Match          bool
	LikesRemaining int
}

// Like likes a stored profile. Unknown ids are ignored without contacting
// the API. A rate limited response is returned as an error and the like is
// not recorded.
func (b *Bot) Like(ctx context.Context, id string) (LikeResult, error) {
	person, ok := b.store.Profile(id)
	if !ok {
		b.logger.WithField("profile_id", id).Warn("Don't know about this profile, not liking")
		return LikeResult{}, nil
	}
	log := b.logger.WithFields(map[string]interface{}{
		"profile_id": id,
		"name":       person.Name,
	})

	res, err := b.api.Like(ctx, id)
	if err != nil {
		if errors.IsRateLimited(err) {
			log.Warn("Out of likes")
		}
		return LikeResult{}, err
	}

	if err := b.store.RecordLike(id); err != nil {
		return LikeResult{}, err
	}

	b.mu.Lock()
	b.likesRemaining = res.LikesRemaining
	if res.Match {
		b.matchedPeople[id] = person
	}
	b.mu.Unlock()

	if res.Match {
		log.Info("It's a match")
		if b.notifier != nil {
			b.notifier.NotifyMatch(person.Name)
		}
	}
	log.WithField("likes_remaining", res.LikesRemaining).Info("Liked")

	return LikeResult{Liked: true, Match: bool(res.Match), LikesRemaining: res.LikesRemaining}, nil
}

// MassiveLike likes every stored profile that has not been liked yet. It
// stops when the like quota runs out and refreshes the updates afterwards
// unless it was cancelled.
func (b *Bot) MassiveLike(ctx context.Context) (Summary, error) {
	ids := b.store.Unliked()
	summary := Summary{Operation: "Liking profiles", Total: len(ids)}

	b.progress.Start(summary.Operation, summary.Total)
	for _, id := range ids {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}

		res, err := b.Like(ctx, id)
		if err != nil {
			if errors.IsRateLimited(err) {
				summary.RateLimited = true
				b.progress.Step(b.describe(id), "rate limited")
				break
			}
			if errors.IsAuth(err) || errors.IsLocalStore(err) || ctx.Err() != nil {
				b.progress.Finish()
				summary.Cancelled = ctx.Err() != nil
				return summary, err
			}
			b.logger.WithError(err).WithField("profile_id", id).Warn("Like failed")
			summary.Failed++
			b.progress.Step(b.describe(id), "failed")
			continue
		}

		summary.Processed++
		if res.Liked {
			summary.Changed++
		}
		outcome := "liked"
		if res.Match {
			summary.Matches++
			outcome = "match"
		}
		b.progress.Step(b.describe(id), outcome)
	}
	b.progress.Finish()
	logger.LogBatch(b.logger, summary.Operation, summary.Processed, summary.Total, summary.Cancelled)

	if summary.Cancelled {
		return summary, nil
	}
	return summary, b.RequestUpdates(ctx)
}
