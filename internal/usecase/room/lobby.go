package usecase_room

import (
	"context"
	"errors"

	"github.com/humanbelnik/columns/core/internal/model"
)

//go:generate mockery --name=LobbyRepository --output=./mocks --filename=lobby_repository.go
type LobbyRepository interface {
	AvailableRooms(ctx context.Context) ([]model.StoredRoom, error)
}

// Lobby serves the persisted room catalog to the REST layer.
type Lobby struct {
	repo LobbyRepository
}

func NewLobby(repo LobbyRepository) *Lobby {
	return &Lobby{repo: repo}
}

func (l *Lobby) Available(ctx context.Context) ([]model.StoredRoom, error) {
	rooms, err := l.repo.AvailableRooms(ctx)
	if err != nil {
		return nil, errors.Join(ErrInternal, err)
	}
	return rooms, nil
}
