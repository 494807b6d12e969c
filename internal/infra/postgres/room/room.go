package infra_postgres_room

import (
	"context"

	"github.com/humanbelnik/columns/core/internal/model"
	usecase_room "github.com/humanbelnik/columns/core/internal/usecase/room"
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

func (d *Driver) CreateGameRoom(ctx context.Context, name string, ownerID model.UserID) (model.RoomID, error) {
	var id model.RoomID

	query := `SELECT create_game_room($1, $2)`

	if err := d.db.GetContext(ctx, &id, query, name, ownerID); err != nil {
		return model.EmptyRoomID, err
	}
	return id, nil
}

// JoinGameRoom records the second player. The function answers false when
// the room is gone or already has two players.
func (d *Driver) JoinGameRoom(ctx context.Context, roomID model.RoomID, userID model.UserID) error {
	var joined bool

	query := `SELECT join_game_room($1, $2)`

	if err := d.db.GetContext(ctx, &joined, query, roomID, userID); err != nil {
		return err
	}
	if !joined {
		return usecase_room.ErrRoomNotAvailable
	}
	return nil
}

func (d *Driver) AvailableRooms(ctx context.Context) ([]model.StoredRoom, error) {
	rooms := make([]model.StoredRoom, 0)

	query := `
		SELECT id, name, status, player1_id, player2_id, player1_name
		FROM get_available_rooms()
	`

	if err := d.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, err
	}
	return rooms, nil
}
