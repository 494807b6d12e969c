package usecase_replay

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/humanbelnik/columns/core/internal/model"
	"github.com/humanbelnik/columns/core/internal/usecase/replay/mocks"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type UsecaseReplaySuite struct {
	suite.Suite
}

type resources struct {
	usecase *Usecase
	repo    *mocks.ReplayRepository
	archive *mocks.Archive
	cache   *mocks.Cache
	ctx     context.Context
}

func initResources(t provider.T) *resources {
	repo := mocks.NewReplayRepository(t)
	archive := mocks.NewArchive(t)
	cache := mocks.NewCache(t)
	fixed := time.UnixMilli(1700000000000)

	return &resources{
		usecase: New(repo, archive, cache, WithClock(func() time.Time { return fixed })),
		repo:    repo,
		archive: archive,
		cache:   cache,
		ctx:     context.Background(),
	}
}

func validReplay() model.Replay {
	return model.Replay{
		RoomID:          10,
		Player1ID:       1,
		Player2ID:       2,
		WinnerID:        2,
		GameplayData:    json.RawMessage(`{"history":[],"finalScores":{"1":0,"2":15},"duration":42000}`),
		DurationSeconds: 42,
	}
}

func (s *UsecaseReplaySuite) TestSave(t provider.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		setupMocks    func(r *resources)
		expectedID    model.ReplayID
		expectedError error
	}{
		{
			name: "Should archive then record replay with archive key",
			setupMocks: func(r *resources) {
				replay := validReplay()
				r.archive.On("Save", r.ctx, "room-10-1700000000000.json", []byte(replay.GameplayData)).
					Return("replays/room-10-1700000000000.json", nil).Once()
				r.repo.On("SaveGameReplay", r.ctx, mock.MatchedBy(func(got model.Replay) bool {
					return got.ArchiveKey == "replays/room-10-1700000000000.json" && got.WinnerID == 2
				})).Return(int64(3), nil).Once()
			},
			expectedID: 3,
		},
		{
			name: "Should still record replay when archive fails",
			setupMocks: func(r *resources) {
				r.archive.On("Save", r.ctx, mock.Anything, mock.Anything).Return("", errors.New("s3 down")).Once()
				r.repo.On("SaveGameReplay", r.ctx, mock.MatchedBy(func(got model.Replay) bool {
					return got.ArchiveKey == ""
				})).Return(int64(4), nil).Once()
			},
			expectedID: 4,
		},
		{
			name: "Should wrap repository failure",
			setupMocks: func(r *resources) {
				r.archive.On("Save", r.ctx, mock.Anything, mock.Anything).Return("key", nil).Once()
				r.repo.On("SaveGameReplay", r.ctx, mock.Anything).Return(int64(0), errors.New("db down")).Once()
			},
			expectedError: ErrInternal,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t provider.T) {
			t.Parallel()
			r := initResources(t)
			tc.setupMocks(r)

			id, err := r.usecase.Save(r.ctx, validReplay())

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expectedID, id)
		})
	}
}

func (s *UsecaseReplaySuite) TestList(t provider.T) {
	t.Run("Should return repository list", func(t provider.T) {
		r := initResources(t)
		list := []model.ReplaySummary{{ID: 1, Player1Name: "alice", Player2Name: "bob", WinnerName: "bob"}}
		r.repo.On("GetReplaysList", r.ctx).Return(list, nil).Once()

		got, err := r.usecase.List(r.ctx)

		assert.NoError(t, err)
		assert.Equal(t, list, got)
	})

	t.Run("Should wrap repository failure", func(t provider.T) {
		r := initResources(t)
		r.repo.On("GetReplaysList", r.ctx).Return(nil, errors.New("db down")).Once()

		_, err := r.usecase.List(r.ctx)

		assert.ErrorIs(t, err, ErrInternal)
	})
}

func (s *UsecaseReplaySuite) TestGet(t provider.T) {
	t.Run("Should serve cached replay", func(t provider.T) {
		r := initResources(t)
		cached := validReplay()
		cached.ID = 3
		r.cache.On("Get", int64(3)).Return(cached, true, nil).Once()

		got, err := r.usecase.Get(r.ctx, 3)

		assert.NoError(t, err)
		assert.Equal(t, cached, got)
	})

	t.Run("Should load from repository and fill cache", func(t provider.T) {
		r := initResources(t)
		stored := validReplay()
		stored.ID = 3
		r.cache.On("Get", int64(3)).Return(model.Replay{}, false, nil).Once()
		r.repo.On("GetReplayData", r.ctx, int64(3)).Return(stored, nil).Once()
		r.cache.On("Set", stored).Return(nil).Once()

		got, err := r.usecase.Get(r.ctx, 3)

		assert.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("Should fall back to archive when event log is missing", func(t provider.T) {
		r := initResources(t)
		stored := validReplay()
		data := stored.GameplayData
		stored.GameplayData = nil
		stored.ArchiveKey = "replays/room-10.json"
		r.cache.On("Get", int64(3)).Return(model.Replay{}, false, errors.New("redis down")).Once()
		r.repo.On("GetReplayData", r.ctx, int64(3)).Return(stored, nil).Once()
		r.archive.On("Load", r.ctx, "replays/room-10.json").Return([]byte(data), nil).Once()
		r.cache.On("Set", mock.AnythingOfType("model.Replay")).Return(errors.New("redis down")).Once()

		got, err := r.usecase.Get(r.ctx, 3)

		assert.NoError(t, err)
		assert.JSONEq(t, string(data), string(got.GameplayData))
	})

	t.Run("Should report missing replay", func(t provider.T) {
		r := initResources(t)
		r.cache.On("Get", int64(9)).Return(model.Replay{}, false, nil).Once()
		r.repo.On("GetReplayData", r.ctx, int64(9)).Return(model.Replay{}, ErrReplayNotFound).Once()

		_, err := r.usecase.Get(r.ctx, 9)

		assert.ErrorIs(t, err, ErrReplayNotFound)
	})
}

func TestReplaySuite(t *testing.T) {
	suite.RunSuite(t, new(UsecaseReplaySuite))
}
