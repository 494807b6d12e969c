package usecase_replay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/humanbelnik/columns/core/internal/model"
)

var (
	ErrInternal       = errors.New("internal error")
	ErrReplayNotFound = errors.New("replay not found")
)

//go:generate mockery --name=ReplayRepository --output=./mocks --filename=replay_repository.go
type ReplayRepository interface {
	SaveGameReplay(ctx context.Context, r model.Replay) (model.ReplayID, error)
	GetReplaysList(ctx context.Context) ([]model.ReplaySummary, error)
	GetReplayData(ctx context.Context, id model.ReplayID) (model.Replay, error)
}

//go:generate mockery --name=Archive --output=./mocks --filename=archive.go
type Archive interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Load(ctx context.Context, key string) ([]byte, error)
}

//go:generate mockery --name=Cache --output=./mocks --filename=cache.go
type Cache interface {
	Get(id model.ReplayID) (model.Replay, bool, error)
	Set(r model.Replay) error
}

type Usecase struct {
	repo    ReplayRepository
	archive Archive
	cache   Cache
	now     func() time.Time
	logger  *slog.Logger
}

type Option func(*Usecase)

func WithLogger(logger *slog.Logger) Option {
	return func(u *Usecase) {
		u.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(u *Usecase) {
		u.now = now
	}
}

func New(repo ReplayRepository, archive Archive, cache Cache, opts ...Option) *Usecase {
	u := &Usecase{
		repo:    repo,
		archive: archive,
		cache:   cache,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Save archives the event log and records the replay. A failed upload only
// loses the archive copy.
func (u *Usecase) Save(ctx context.Context, r model.Replay) (model.ReplayID, error) {
	name := fmt.Sprintf("room-%d-%d.json", r.RoomID, u.now().UnixMilli())
	key, err := u.archive.Save(ctx, name, r.GameplayData)
	if err != nil {
		u.logger.Warn("failed to archive replay", "room_id", r.RoomID, "error", err)
	} else {
		r.ArchiveKey = key
	}

	id, err := u.repo.SaveGameReplay(ctx, r)
	if err != nil {
		return 0, errors.Join(ErrInternal, err)
	}
	return id, nil
}

func (u *Usecase) List(ctx context.Context) ([]model.ReplaySummary, error) {
	replays, err := u.repo.GetReplaysList(ctx)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return replays, nil
}

func (u *Usecase) Get(ctx context.Context, id model.ReplayID) (model.Replay, error) {
	if r, ok, err := u.cache.Get(id); err != nil {
		u.logger.Warn("replay cache read failed", "replay_id", id, "error", err)
	} else if ok {
		return r, nil
	}

	r, err := u.repo.GetReplayData(ctx, id)
	if err != nil {
		if errors.Is(err, ErrReplayNotFound) {
			return model.Replay{}, ErrReplayNotFound
		}
		return model.Replay{}, errors.Join(ErrInternal, err)
	}

	if len(r.GameplayData) == 0 && r.ArchiveKey != "" {
		data, err := u.archive.Load(ctx, r.ArchiveKey)
		if err != nil {
			return model.Replay{}, errors.Join(ErrInternal, err)
		}
		r.GameplayData = data
	}

	if err := u.cache.Set(r); err != nil {
		u.logger.Warn("replay cache write failed", "replay_id", id, "error", err)
	}
	return r, nil
}
