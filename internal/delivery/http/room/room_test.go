package http_room

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/humanbelnik/columns/core/internal/model"
	usecase_room "github.com/humanbelnik/columns/core/internal/usecase/room"
	"github.com/humanbelnik/columns/core/internal/usecase/room/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setup(t *testing.T) (*gin.Engine, *mocks.LobbyRepository) {
	gin.SetMode(gin.TestMode)
	repo := mocks.NewLobbyRepository(t)
	engine := gin.New()
	New(usecase_room.NewLobby(repo)).RegisterRoutes(engine.Group("/api/v1"))
	return engine, repo
}

func TestListRooms(t *testing.T) {
	engine, repo := setup(t)
	repo.On("AvailableRooms", mock.Anything).Return([]model.StoredRoom{
		{ID: 10, Name: "arena", Status: "waiting", Player1ID: 1, Player1: "alice"},
	}, nil).Once()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":10,"name":"arena","status":"waiting","player1Id":1,"player1":"alice"}]`, w.Body.String())
}

func TestListRoomsEmpty(t *testing.T) {
	engine, repo := setup(t)
	repo.On("AvailableRooms", mock.Anything).Return([]model.StoredRoom{}, nil).Once()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListRoomsFailure(t *testing.T) {
	engine, repo := setup(t)
	repo.On("AvailableRooms", mock.Anything).Return(nil, errors.New("db down")).Once()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
