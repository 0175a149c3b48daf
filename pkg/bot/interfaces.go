package bot

import (
	"context"

	"tinderbot/pkg/models"
)

// API defines the remote operations the bot needs. *tinder.Client with a
// session satisfies it.
type API interface {
	FetchProfile(ctx context.Context) (*models.Profile, error)
	FetchRecommendations(ctx context.Context) ([]models.Profile, error)
	FetchUser(ctx context.Context, id string) (*models.Profile, error)
	FetchUpdates(ctx context.Context, lastActivity string) (*models.Updates, error)
	Like(ctx context.Context, id string) (*models.LikeResponse, error)
	SendMessage(ctx context.Context, matchID, text string) error
	DownloadPhoto(ctx context.Context, url string) ([]byte, error)
}

// MatchNotifier is told about every new match. *ui.Notifier satisfies it.
type MatchNotifier interface {
	NotifyMatch(name string)
}

// Progress receives per-item progress of batch operations
type Progress interface {
	Start(operation string, total int)
	Step(label, outcome string)
	Finish()
}

type nopProgress struct{}

func (nopProgress) Start(string, int)   {}
func (nopProgress) Step(string, string) {}
func (nopProgress) Finish()             {}
