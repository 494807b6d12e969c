package app

import (
	"context"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"github.com/humanbelnik/columns/core/internal/config"
	http_account "github.com/humanbelnik/columns/core/internal/delivery/http/account"
	http_init "github.com/humanbelnik/columns/core/internal/delivery/http/init"
	http_ready_middleware "github.com/humanbelnik/columns/core/internal/delivery/http/middleware/ready"
	http_replay "github.com/humanbelnik/columns/core/internal/delivery/http/replay"
	http_room "github.com/humanbelnik/columns/core/internal/delivery/http/room"
	ws_room "github.com/humanbelnik/columns/core/internal/delivery/ws/room"
	infra_pg_init "github.com/humanbelnik/columns/core/internal/infra/postgres/init"
	infra_postgres_replay "github.com/humanbelnik/columns/core/internal/infra/postgres/replay"
	infra_postgres_room "github.com/humanbelnik/columns/core/internal/infra/postgres/room"
	infra_postgres_user "github.com/humanbelnik/columns/core/internal/infra/postgres/user"
	infra_redis_init "github.com/humanbelnik/columns/core/internal/infra/redis/init"
	infra_redis_replay_cache "github.com/humanbelnik/columns/core/internal/infra/redis/replay_cache"
	infra_session_cache "github.com/humanbelnik/columns/core/internal/infra/redis/session"
	infra_s3 "github.com/humanbelnik/columns/core/internal/infra/s3"
	infra_s3mock "github.com/humanbelnik/columns/core/internal/infra/s3mock"
	"github.com/humanbelnik/columns/core/internal/model"
	usecase_account "github.com/humanbelnik/columns/core/internal/usecase/account"
	usecase_game "github.com/humanbelnik/columns/core/internal/usecase/game"
	usecase_replay "github.com/humanbelnik/columns/core/internal/usecase/replay"
	usecase_room "github.com/humanbelnik/columns/core/internal/usecase/room"
)

// Go wires every component and serves until ctx is cancelled. The HTTP
// server starts before the database answers; room features stay refused
// until the first successful ping.
func Go(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	redisConn := infra_redis_init.Connect(cfg.Redis, logger)
	defer redisConn.Close()

	pgConn, err := infra_pg_init.Open(cfg.Postgres)
	if err != nil {
		return err
	}
	defer pgConn.Close()

	archive := newArchive(ctx, cfg.S3, logger)

	userRepository := infra_postgres_user.New(pgConn)
	roomRepository := infra_postgres_room.New(pgConn)
	replayRepository := infra_postgres_replay.New(pgConn)
	sessionCache := infra_session_cache.New(redisConn, "session_cache")
	replayCache := infra_redis_replay_cache.New(redisConn, "replay_cache", cfg.Cache.ReplayCacheTTL)

	accountUC := usecase_account.New(userRepository, sessionCache, &cfg.Cache.SessionTTL)
	lobbyUC := usecase_room.NewLobby(roomRepository)
	replayUC := usecase_replay.New(replayRepository, archive, replayCache,
		usecase_replay.WithLogger(logger.With("component", "replay")))

	hub := ws_room.NewHub(ws_room.WithHubLogger(logger.With("component", "hub")))
	dispatcher := ws_room.NewDispatcher(hub, accountUC,
		ws_room.WithLogger(logger.With("component", "dispatcher")))

	var (
		ready   atomic.Bool
		manager atomic.Pointer[usecase_room.Manager]
	)
	go func() {
		if err := infra_pg_init.WaitReady(ctx, pgConn, cfg.Game.DBRetryDelay, logger); err != nil {
			logger.Warn("gave up waiting for database", "error", err)
			return
		}

		m := usecase_room.New(roomRepository, hub,
			GameFactory(hub, replayUC, cfg.Game.ReplaySaveTimeout, logger),
			usecase_room.WithLogger(logger.With("component", "rooms")),
			usecase_room.WithReconnectGrace(cfg.Game.ReconnectGrace),
		)
		manager.Store(m)
		dispatcher.SetManager(m)
		ready.Store(true)
		logger.Info("room manager ready")
	}()

	requireReady := http_ready_middleware.Required(ready.Load)

	controllerPool := http_init.NewControllerPool(logger)
	controllerPool.Add(ws_room.NewController(hub, dispatcher,
		ws_room.WithControllerLogger(logger.With("component", "ws"))))
	controllerPool.Add(http_account.New(accountUC, http_account.WithLogger(logger)), requireReady)
	controllerPool.Add(http_room.New(lobbyUC, http_room.WithLogger(logger)), requireReady)
	controllerPool.Add(http_replay.New(replayUC, http_replay.WithLogger(logger)), requireReady)

	controllerPool.Register()
	err = controllerPool.RunAll(ctx, net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port))

	if m := manager.Load(); m != nil {
		m.Shutdown()
	}
	return err
}

// GameFactory builds controllers that report to the room group and persist
// their replay when the game ends.
func GameFactory(
	emitter usecase_game.Emitter,
	replays usecase_game.ReplaySaver,
	saveTimeout time.Duration,
	logger *slog.Logger,
) usecase_room.GameFactory {
	return func(roomID model.RoomID, p1, p2 usecase_game.Player, onGameOver func(usecase_game.Result)) usecase_room.GameController {
		return usecase_game.New(roomID, p1, p2, emitter,
			usecase_game.WithReplaySaver(replays),
			usecase_game.WithGameOverHandler(onGameOver),
			usecase_game.WithSaveTimeout(saveTimeout),
			usecase_game.WithLogger(logger.With("component", "game")),
		)
	}
}

// newArchive picks S3 when credentials are configured and falls back to the
// in-process archive otherwise or when the bucket cannot be used.
func newArchive(ctx context.Context, cfg config.S3, logger *slog.Logger) usecase_replay.Archive {
	if !cfg.Enabled {
		logger.Info("S3 not configured, archiving replays in memory")
		return infra_s3mock.New(cfg.Prefix)
	}

	client, err := infra_s3.NewClient(ctx, cfg)
	if err == nil {
		var storage *infra_s3.Storage
		storage, err = infra_s3.New(ctx, client, cfg.Bucket, cfg.Prefix,
			infra_s3.WithLogger(logger.With("component", "s3")))
		if err == nil {
			return storage
		}
	}
	logger.Warn("S3 unavailable, archiving replays in memory", "bucket", cfg.Bucket, "error", err)
	return infra_s3mock.New(cfg.Prefix)
}
