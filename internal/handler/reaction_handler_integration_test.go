package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ayberk/groupora/internal/handler"
	"github.com/ayberk/groupora/internal/middleware"
	"github.com/ayberk/groupora/internal/models"
	"github.com/ayberk/groupora/internal/repository"
	"github.com/ayberk/groupora/internal/service"
	"github.com/ayberk/groupora/internal/testutil"
	"github.com/ayberk/groupora/internal/utils"
	"github.com/ayberk/groupora/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// ReactionHandlerIntegrationTestSuite exercises the like/dislike routes
// end to end: bearer token in, transition + counter out.
type ReactionHandlerIntegrationTestSuite struct {
	suite.Suite
	testDB  *testutil.TestDatabase
	router  *gin.Engine
	user    *models.User
	token   string
	message *models.Message
}

// SetupSuite runs before all tests
func (s *ReactionHandlerIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	logger.Init(false)

	s.testDB = testutil.SetupTestDatabase(s.T())

	userRepo := repository.NewUserRepository(s.testDB.DB)
	messageRepo := repository.NewMessageRepository(s.testDB.DB)
	reactionRepo := repository.NewReactionRepository(s.testDB.DB)
	counter := service.NewCounterMaintainer(messageRepo)
	reactionService := service.NewReactionService(
		s.testDB.DB, messageRepo, userRepo, reactionRepo, counter, nil, nil,
	)
	reactionHandler := handler.NewReactionHandler(reactionService)

	s.router = gin.New()
	api := s.router.Group("/api")
	api.Use(middleware.Identity(testJWTSecret))
	api.POST("/messages/:messageId/like", reactionHandler.Like)
	api.POST("/messages/:messageId/dislike", reactionHandler.Dislike)
}

// TearDownSuite runs after all tests
func (s *ReactionHandlerIntegrationTestSuite) TearDownSuite() {
	s.testDB.Teardown(s.T())
}

// SetupTest runs before each test: fresh user, token and message
func (s *ReactionHandlerIntegrationTestSuite) SetupTest() {
	testutil.CleanDatabase(s.T(), s.testDB.DB)

	user, err := testutil.CreateTestUser("reactor", "reactor@example.com", "test123", false)
	assert.NoError(s.T(), err)
	assert.NoError(s.T(), s.testDB.DB.Create(user).Error)
	s.user = user

	token, err := utils.GenerateToken(user, testJWTSecret, time.Hour)
	assert.NoError(s.T(), err)
	s.token = token

	message := testutil.CreateTestMessage(user.ID, "A title", "Some content here")
	assert.NoError(s.T(), s.testDB.DB.Create(message).Error)
	s.message = message
}

func (s *ReactionHandlerIntegrationTestSuite) react(path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ReactionHandlerIntegrationTestSuite) likePath() string {
	return fmt.Sprintf("/api/messages/%d/like", s.message.ID)
}

func (s *ReactionHandlerIntegrationTestSuite) dislikePath() string {
	return fmt.Sprintf("/api/messages/%d/dislike", s.message.ID)
}

func (s *ReactionHandlerIntegrationTestSuite) TestLikeReturnsUpdatedMessage() {
	w := s.react(s.likePath(), s.token)
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	var msg models.Message
	assert.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &msg))
	assert.Equal(s.T(), 1, msg.Likes)
}

func (s *ReactionHandlerIntegrationTestSuite) TestRelikeConflicts() {
	s.react(s.likePath(), s.token)

	w := s.react(s.likePath(), s.token)
	assert.Equal(s.T(), http.StatusConflict, w.Code)

	var resp map[string]string
	assert.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "message already liked", resp["error"])
}

func (s *ReactionHandlerIntegrationTestSuite) TestDislikeAfterLikeDropsCounter() {
	s.react(s.likePath(), s.token)

	w := s.react(s.dislikePath(), s.token)
	assert.Equal(s.T(), http.StatusCreated, w.Code)

	var msg models.Message
	assert.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &msg))
	assert.Equal(s.T(), 0, msg.Likes)
}

func (s *ReactionHandlerIntegrationTestSuite) TestRedislikeConflicts() {
	s.react(s.dislikePath(), s.token)

	w := s.react(s.dislikePath(), s.token)
	assert.Equal(s.T(), http.StatusConflict, w.Code)

	var resp map[string]string
	assert.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "message already disliked", resp["error"])
}

func (s *ReactionHandlerIntegrationTestSuite) TestInvalidMessageIDIsBadRequest() {
	w := s.react("/api/messages/abc/like", s.token)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)

	w = s.react("/api/messages/0/like", s.token)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *ReactionHandlerIntegrationTestSuite) TestUnknownMessageIsNotFound() {
	w := s.react("/api/messages/99999/like", s.token)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *ReactionHandlerIntegrationTestSuite) TestMissingBearerResolvesToUnknownUser() {
	w := s.react(s.likePath(), "")
	assert.Equal(s.T(), http.StatusNotFound, w.Code)

	var resp map[string]string
	assert.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(s.T(), "user not found", resp["error"])
}

func TestReactionHandlerIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(ReactionHandlerIntegrationTestSuite))
}
