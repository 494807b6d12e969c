package infra_postgres_replay

import (
	"context"
	"database/sql"
	"errors"

	"github.com/humanbelnik/columns/core/internal/model"
	usecase_replay "github.com/humanbelnik/columns/core/internal/usecase/replay"
	"github.com/jmoiron/sqlx"
)

type Driver struct {
	db *sqlx.DB
}

func New(
	db *sqlx.DB,
) *Driver {
	return &Driver{db: db}
}

func (d *Driver) SaveGameReplay(ctx context.Context, r model.Replay) (model.ReplayID, error) {
	var id model.ReplayID

	query := `SELECT save_game_replay($1, $2, $3, $4, $5, $6, $7)`

	if err := d.db.GetContext(ctx, &id, query,
		r.RoomID,
		r.Player1ID,
		r.Player2ID,
		r.WinnerID,
		string(r.GameplayData),
		r.DurationSeconds,
		r.ArchiveKey,
	); err != nil {
		return 0, err
	}
	return id, nil
}

func (d *Driver) GetReplaysList(ctx context.Context) ([]model.ReplaySummary, error) {
	replays := make([]model.ReplaySummary, 0)

	query := `
		SELECT id, room_id, player1_name, player2_name, winner_name, duration_seconds, created_at
		FROM get_replays_list()
	`

	if err := d.db.SelectContext(ctx, &replays, query); err != nil {
		return nil, err
	}
	return replays, nil
}

func (d *Driver) GetReplayData(ctx context.Context, id model.ReplayID) (model.Replay, error) {
	var replay model.Replay

	query := `
		SELECT id, room_id, player1_id, player2_id, winner_id, gameplay_data,
		       duration_seconds, archive_key, created_at
		FROM get_replay_data($1)
	`

	if err := d.db.GetContext(ctx, &replay, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Replay{}, usecase_replay.ErrReplayNotFound
		}
		return model.Replay{}, err
	}
	return replay, nil
}
