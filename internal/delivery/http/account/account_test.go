package http_account

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/humanbelnik/columns/core/internal/model"
	usecase_account "github.com/humanbelnik/columns/core/internal/usecase/account"
	"github.com/humanbelnik/columns/core/internal/usecase/account/mocks"
	"github.com/ozontech/allure-go/pkg/framework/provider"
	"github.com/ozontech/allure-go/pkg/framework/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type AccountControllerSuite struct {
	suite.Suite
}

type resources struct {
	users    *mocks.UserRepository
	sessions *mocks.SessionCache
	engine   *gin.Engine
}

func initResources(t provider.T) *resources {
	gin.SetMode(gin.TestMode)
	r := &resources{
		users:    mocks.NewUserRepository(t),
		sessions: mocks.NewSessionCache(t),
		engine:   gin.New(),
	}
	New(usecase_account.New(r.users, r.sessions, nil)).RegisterRoutes(r.engine.Group("/api/v1"))
	return r
}

func (r *resources) post(path string, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1"+path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.engine.ServeHTTP(w, req)
	return w
}

func (s *AccountControllerSuite) TestRegister(t provider.T) {
	t.Run("Should create user", func(t provider.T) {
		r := initResources(t)
		r.users.On("CreateUser", mock.Anything, "alice", mock.AnythingOfType("[]uint8")).Return(model.UserID(1), nil).Once()

		w := r.post("/register", `{"username":"alice","password":"secret"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"status":"success","userId":1,"username":"alice"}`, w.Body.String())
	})

	t.Run("Should reject malformed body", func(t provider.T) {
		r := initResources(t)

		w := r.post("/register", `{"username":"alice"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Should reject short username", func(t provider.T) {
		r := initResources(t)

		w := r.post("/register", `{"username":"al","password":"secret"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_PAYLOAD")
	})

	t.Run("Should report taken username", func(t provider.T) {
		r := initResources(t)
		r.users.On("CreateUser", mock.Anything, "alice", mock.Anything).Return(model.UserID(0), usecase_account.ErrUserExists).Once()

		w := r.post("/register", `{"username":"alice","password":"secret"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Should hide store failures", func(t provider.T) {
		r := initResources(t)
		r.users.On("CreateUser", mock.Anything, "alice", mock.Anything).Return(model.UserID(0), errors.New("db down")).Once()

		w := r.post("/register", `{"username":"alice","password":"secret"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "db down")
	})
}

func (s *AccountControllerSuite) TestLogin(t provider.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	assert.NoError(t, err)
	alice := model.User{ID: 1, Username: "alice", PasswordHash: hash}

	t.Run("Should return token", func(t provider.T) {
		r := initResources(t)
		r.users.On("LoginUser", mock.Anything, "alice").Return(alice, nil).Once()
		r.sessions.On("Set", mock.AnythingOfType("string"), `{"userId":1,"username":"alice"}`, mock.Anything).Return(nil).Once()

		w := r.post("/login", `{"username":"alice","password":"secret"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"token":"`)
	})

	t.Run("Should reject wrong password", func(t provider.T) {
		r := initResources(t)
		r.users.On("LoginUser", mock.Anything, "alice").Return(alice, nil).Once()

		w := r.post("/login", `{"username":"alice","password":"guess"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Should not reveal unknown users", func(t provider.T) {
		r := initResources(t)
		r.users.On("LoginUser", mock.Anything, "mallory").Return(model.User{}, usecase_account.ErrUserNotFound).Once()

		w := r.post("/login", `{"username":"mallory","password":"guess"}`)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAccountControllerSuite(t *testing.T) {
	suite.RunSuite(t, new(AccountControllerSuite))
}
