package handlers

import (
	"context"
	"net/http"
	"time"

	"todohub/internal/models"
	"todohub/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerRes service.AuthResult
	registerErr error
	loginRes    service.AuthResult
	loginErr    error
	parseID     int
	parseName   string
	parseErr    error
	profileUser models.User
	profileErr  error

	lastRegister      service.RegisterInput
	lastLoginEmail    string
	lastLoginPassword string
	lastParseToken    string
	lastProfileID     int
}

func (m *mockAuth) Register(_ context.Context, in service.RegisterInput) (service.AuthResult, error) {
	m.lastRegister = in
	return m.registerRes, m.registerErr
}
func (m *mockAuth) Login(_ context.Context, email, password string) (service.AuthResult, error) {
	m.lastLoginEmail = email
	m.lastLoginPassword = password
	return m.loginRes, m.loginErr
}
func (m *mockAuth) ParseToken(token string) (service.Identity, error) {
	m.lastParseToken = token
	if m.parseErr != nil {
		return service.Identity{}, m.parseErr
	}
	return service.Identity{ID: m.parseID, Username: m.parseName}, nil
}
func (m *mockAuth) GetProfile(_ context.Context, userID int) (models.User, error) {
	m.lastProfileID = userID
	return m.profileUser, m.profileErr
}

type mockTodos struct {
	createRes models.Todo
	createErr error
	listRes   []models.Todo
	listErr   error
	getRes    models.Todo
	getErr    error
	updateRes models.Todo
	updateErr error
	toggleRes models.Todo
	toggleErr error
	deleteRes models.Todo
	deleteErr error

	lastOwnerID int
	lastID      int
	lastCreate  service.CreateTodoInput
	lastUpdate  service.UpdateTodoInput
	lastFilter  service.TodoFilter
}

func (m *mockTodos) Create(_ context.Context, ownerID int, in service.CreateTodoInput) (models.Todo, error) {
	m.lastOwnerID = ownerID
	m.lastCreate = in
	return m.createRes, m.createErr
}
func (m *mockTodos) List(_ context.Context, ownerID int, f service.TodoFilter) ([]models.Todo, error) {
	m.lastOwnerID = ownerID
	m.lastFilter = f
	return m.listRes, m.listErr
}
func (m *mockTodos) Get(_ context.Context, ownerID, id int) (models.Todo, error) {
	m.lastOwnerID = ownerID
	m.lastID = id
	return m.getRes, m.getErr
}
func (m *mockTodos) Update(_ context.Context, ownerID, id int, in service.UpdateTodoInput) (models.Todo, error) {
	m.lastOwnerID = ownerID
	m.lastID = id
	m.lastUpdate = in
	return m.updateRes, m.updateErr
}
func (m *mockTodos) Toggle(_ context.Context, ownerID, id int) (models.Todo, error) {
	m.lastOwnerID = ownerID
	m.lastID = id
	return m.toggleRes, m.toggleErr
}
func (m *mockTodos) Delete(_ context.Context, ownerID, id int) (models.Todo, error) {
	m.lastOwnerID = ownerID
	m.lastID = id
	return m.deleteRes, m.deleteErr
}

type mockActivity struct {
	listRes      []models.ActivityEvent
	listErr      error
	listAfterRes []models.ActivityEvent
	listAfterErr error
	latestSeq    int64
	latestSeqErr error

	lastOwnerID  int
	lastFilter   service.ActivityFilter
	lastAfterSeq int64
}

func (m *mockActivity) List(_ context.Context, ownerID int, f service.ActivityFilter) ([]models.ActivityEvent, error) {
	m.lastOwnerID = ownerID
	m.lastFilter = f
	return m.listRes, m.listErr
}
func (m *mockActivity) ListAfter(_ context.Context, ownerID int, afterSeq int64) ([]models.ActivityEvent, error) {
	m.lastOwnerID = ownerID
	m.lastAfterSeq = afterSeq
	return m.listAfterRes, m.listAfterErr
}
func (m *mockActivity) LatestSeq(_ context.Context, ownerID int) (int64, error) {
	m.lastOwnerID = ownerID
	return m.latestSeq, m.latestSeqErr
}

type mockStats struct {
	res models.TodoStats
	err error

	lastOwnerID int
}

func (m *mockStats) TodoStats(_ context.Context, ownerID int) (models.TodoStats, error) {
	m.lastOwnerID = ownerID
	return m.res, m.err
}

type mockReminder struct{}

func (m *mockReminder) Run(ctx context.Context, tick time.Duration) { <-ctx.Done() }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
