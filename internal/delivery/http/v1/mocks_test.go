package v1

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/docker-task-list/api/internal/models"
	"github.com/docker-task-list/api/internal/services"
)

// Stateful in-memory stand-ins for the pgx-backed services,
// honoring the same sentinel-error contract.

type mockAuthService struct {
	mu         sync.Mutex
	usersByID  map[string]*models.User
	idsByEmail map[string]string
	passwords  map[string]string // user id -> plaintext
	tokens     map[string]string // token -> user id
	nextID     int
}

func newMockAuthService() *mockAuthService {
	return &mockAuthService{
		usersByID:  make(map[string]*models.User),
		idsByEmail: make(map[string]string),
		passwords:  make(map[string]string),
		tokens:     make(map[string]string),
	}
}

func (m *mockAuthService) Register(_ context.Context, params services.RegisterParams) (*services.AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(params.Email))
	if _, exists := m.idsByEmail[email]; exists {
		return nil, services.ErrUserAlreadyExists
	}

	m.nextID++
	now := time.Now()
	user := &models.User{
		ID:        fmt.Sprintf("user-%d", m.nextID),
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.usersByID[user.ID] = user
	m.idsByEmail[email] = user.ID
	m.passwords[user.ID] = params.Password

	token := fmt.Sprintf("token-%d", m.nextID)
	m.tokens[token] = user.ID
	return &services.AuthResult{
		User:           user,
		Token:          token,
		TokenExpiresAt: now.Add(7 * 24 * time.Hour),
	}, nil
}

func (m *mockAuthService) Login(_ context.Context, params services.LoginParams) (*services.AuthResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	email := strings.ToLower(strings.TrimSpace(params.Email))
	userID, exists := m.idsByEmail[email]
	if !exists {
		return nil, services.ErrInvalidCredentials
	}
	if m.passwords[userID] != params.Password {
		return nil, services.ErrInvalidCredentials
	}

	user := m.usersByID[userID]
	ttl := 7 * 24 * time.Hour
	if params.RememberMe {
		ttl = 30 * 24 * time.Hour
	}

	m.nextID++
	token := fmt.Sprintf("token-%d", m.nextID)
	m.tokens[token] = user.ID
	return &services.AuthResult{
		User:           user,
		Token:          token,
		TokenExpiresAt: time.Now().Add(ttl),
	}, nil
}

func (m *mockAuthService) Authenticate(_ context.Context, token string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	userID, exists := m.tokens[token]
	if !exists {
		return nil, services.ErrInvalidToken
	}
	user, exists := m.usersByID[userID]
	if !exists {
		return nil, services.ErrInvalidToken
	}
	return user, nil
}

func (m *mockAuthService) deleteUser(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, exists := m.usersByID[userID]; exists {
		delete(m.idsByEmail, user.Email)
	}
	delete(m.usersByID, userID)
}

type mockTask struct {
	task *models.Task
	seq  int
}

type mockTaskService struct {
	mu     sync.Mutex
	tasks  map[string]*mockTask
	nextID int
}

func newMockTaskService() *mockTaskService {
	return &mockTaskService{tasks: make(map[string]*mockTask)}
}

func (m *mockTaskService) ListTasks(_ context.Context, userID string) ([]*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listLocked(userID), nil
}

func (m *mockTaskService) listLocked(userID string) []*models.Task {
	owned := make([]*mockTask, 0)
	for _, mt := range m.tasks {
		if mt.task.UserID == userID {
			owned = append(owned, mt)
		}
	}
	// Manual position first, newest-first for the rest.
	sort.SliceStable(owned, func(i, j int) bool {
		pi, pj := owned[i].task.Position, owned[j].task.Position
		switch {
		case pi != nil && pj != nil:
			return *pi < *pj
		case pi != nil:
			return true
		case pj != nil:
			return false
		default:
			return owned[i].seq > owned[j].seq
		}
	})

	tasks := make([]*models.Task, len(owned))
	for i, mt := range owned {
		taskCopy := *mt.task
		tasks[i] = &taskCopy
	}
	return tasks
}

func (m *mockTaskService) CreateTask(_ context.Context, params services.CreateTaskParams) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	now := time.Now()
	task := &models.Task{
		ID:        fmt.Sprintf("task-%d", m.nextID),
		UserID:    params.UserID,
		Text:      params.Text,
		Completed: false,
		DueDate:   params.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.tasks[task.ID] = &mockTask{task: task, seq: m.nextID}

	taskCopy := *task
	return &taskCopy, nil
}

func (m *mockTaskService) ToggleTask(_ context.Context, taskID, userID string) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt, exists := m.tasks[taskID]
	if !exists || mt.task.UserID != userID {
		return nil, services.ErrTaskNotFound
	}
	mt.task.Completed = !mt.task.Completed
	mt.task.UpdatedAt = time.Now()

	taskCopy := *mt.task
	return &taskCopy, nil
}

func (m *mockTaskService) EditTask(_ context.Context, params services.EditTaskParams) (*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt, exists := m.tasks[params.ID]
	if !exists || mt.task.UserID != params.UserID {
		return nil, services.ErrTaskNotFound
	}
	mt.task.Text = params.Text
	if params.DueDate != nil {
		mt.task.DueDate = params.DueDate
	}
	mt.task.UpdatedAt = time.Now()

	taskCopy := *mt.task
	return &taskCopy, nil
}

func (m *mockTaskService) DeleteTask(_ context.Context, taskID, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt, exists := m.tasks[taskID]
	if !exists || mt.task.UserID != userID {
		return services.ErrTaskNotFound
	}
	delete(m.tasks, taskID)
	return nil
}

func (m *mockTaskService) ReorderTasks(_ context.Context, userID string, items []services.ReorderItem) ([]*models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range items {
		mt, exists := m.tasks[item.ID]
		if !exists || mt.task.UserID != userID {
			continue
		}
		position := item.Position
		mt.task.Position = &position
		mt.task.UpdatedAt = time.Now()
	}
	return m.listLocked(userID), nil
}

func (m *mockTaskService) TaskStats(_ context.Context, userID string) (*services.TaskStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := &services.TaskStats{}
	for _, mt := range m.tasks {
		if mt.task.UserID != userID {
			continue
		}
		stats.Total++
		if mt.task.Completed {
			stats.Completed++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	return stats, nil
}

func setupRouter(auth services.AuthService, tasks services.TaskService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := New(zerolog.Nop(), auth, tasks)
	router := gin.New()

	authRouter := router.Group("/auth")
	authRouter.POST("/register", handler.HandleRegister)
	authRouter.POST("/login", handler.HandleLogin)
	authRouter.GET("/me", handler.HandleAuthMiddleware, handler.HandleMe)

	todosRouter := router.Group("/todos", handler.HandleAuthMiddleware)
	todosRouter.GET("", handler.HandleListTasks)
	todosRouter.POST("", handler.HandleCreateTask)
	todosRouter.GET("/stats", handler.HandleTaskStats)
	todosRouter.PUT("/reorder", handler.HandleReorderTasks)
	todosRouter.PUT("/:id", handler.HandleToggleTask)
	todosRouter.PATCH("/:id", handler.HandleEditTask)
	todosRouter.DELETE("/:id", handler.HandleDeleteTask)

	return router
}
