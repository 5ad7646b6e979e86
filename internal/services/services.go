package services

import (
	"context"
	"errors"
	"time"

	"github.com/docker-task-list/api/internal/models"
)

var (
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTaskNotFound       = errors.New("task not found")
)

type AuthService interface {
	// Register creates a user with the given email and password.
	//
	// The email is trimmed and lower-cased before storage, the
	// password is stored as an argon2id hash. On success it issues
	// a signed bearer token with the standard TTL.
	//
	// It returns ErrUserAlreadyExists if a user with the
	// given email already exists.
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)

	// Login authenticates the user by email and password and
	// issues a bearer token. The token lives for the standard TTL,
	// or the remember-me TTL when params.RememberMe is set.
	//
	// It returns ErrInvalidCredentials for both an unknown email
	// and a wrong password, so callers cannot probe which
	// addresses are registered.
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)

	// Authenticate verifies a bearer token and resolves the user
	// it was issued to.
	//
	// It returns ErrInvalidToken when the token is malformed,
	// has a bad signature, is expired, or references a user that
	// no longer exists.
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type RegisterParams struct {
	Email    string
	Password string
}

type LoginParams struct {
	Email      string
	Password   string
	RememberMe bool
}

type AuthResult struct {
	User           *models.User
	Token          string
	TokenExpiresAt time.Time
}

type TaskService interface {
	// ListTasks returns the user's tasks ordered by manual
	// position when set, newest-first otherwise.
	ListTasks(ctx context.Context, userID string) ([]*models.Task, error)

	// CreateTask persists a new task for the user
	// with completed set to false.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// ToggleTask flips the completed flag of the user's task.
	// Toggling twice restores the original value.
	//
	// It returns ErrTaskNotFound if no task with the given
	// ID belongs to the user.
	ToggleTask(ctx context.Context, taskID, userID string) (*models.Task, error)

	// EditTask replaces the text of the user's task and,
	// when provided, its due date. Completed and ownership
	// are left untouched.
	//
	// It returns ErrTaskNotFound under the
	// same conditions as ToggleTask.
	EditTask(ctx context.Context, params EditTaskParams) (*models.Task, error)

	// DeleteTask removes the user's task.
	//
	// It returns ErrTaskNotFound if no task with the given
	// ID belongs to the user.
	DeleteTask(ctx context.Context, taskID, userID string) error

	// ReorderTasks assigns manual positions to the user's tasks in
	// a single transaction and returns the reordered list. Items
	// that don't match an owned task are ignored.
	ReorderTasks(ctx context.Context, userID string, items []ReorderItem) ([]*models.Task, error)

	// TaskStats counts the user's total, completed and pending tasks.
	TaskStats(ctx context.Context, userID string) (*TaskStats, error)
}

type CreateTaskParams struct {
	UserID  string
	Text    string
	DueDate *time.Time
}

type EditTaskParams struct {
	ID      string
	UserID  string
	Text    string
	DueDate *time.Time
}

type ReorderItem struct {
	ID       string
	Position int32
}

type TaskStats struct {
	Total     int64
	Completed int64
	Pending   int64
}
