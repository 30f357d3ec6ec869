package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskdeck/internal/models"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionExpired       = errors.New("session expired")
	ErrTaskNotFound         = errors.New("task not found")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrEmptyTaskTitle       = errors.New("task title must not be empty")
	ErrEmptyCategoryName    = errors.New("category name must not be empty")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
	ErrInvalidTaskPriority  = errors.New("invalid task priority")
)

type AuthService interface {
	// Login authenticates the user by email and password.
	//
	// It deletes all sessions with the same user ID and creates
	// a new session and generates a new JWT token pair.
	//
	// It returns ErrUserNotFound if the user with the given
	// email doesn't exist or ErrUserPasswordMismatch if the
	// given password doesn't match the user's password.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Refresh updates the session with the given refresh token.
	//
	// It returns ErrSessionNotFound if the session with the
	// given refresh token doesn't exist or ErrSessionExpired
	// if the session is expired.
	Refresh(ctx context.Context, params RefreshParams) (*LoginResult, error)

	// Register a user with the given email, password and name.
	//
	// It hashes the password, generates a unique ID and creates a
	// session with the given fingerprint and a fresh JWT token pair.
	//
	// It returns ErrUserAlreadyExists if the user
	// with the given email already exists.
	Register(ctx context.Context, params RegisterParams) (*LoginResult, error)

	// Logout invalidates all sessions with the given user ID.
	Logout(ctx context.Context, userID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)
}

type UserService interface {
	// GetUserByID returns the user's profile or ErrUserNotFound.
	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateProfile updates the user's display name and/or
	// avatar image. Nil fields are left untouched.
	UpdateProfile(ctx context.Context, params UpdateProfileParams) (*models.User, error)
}

type TaskService interface {
	// CreateTask creates a task owned by params.UserID. Status defaults
	// to "todo" and priority to "medium" when unspecified. A category
	// reference must point to a category owned by the same user,
	// otherwise ErrCategoryNotFound is returned.
	CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error)

	// GetTaskByID returns the task with its category summary or
	// ErrTaskNotFound if it doesn't exist or belongs to another user.
	GetTaskByID(ctx context.Context, userID, taskID string) (*models.Task, error)

	// ListTasks returns the user's tasks matching the given query
	// specification, each enriched with its category summary.
	//
	// Unrecognized filter and sort values degrade to "no constraint"
	// and the default order respectively, they are never an error.
	ListTasks(ctx context.Context, userID string, spec TaskQuerySpec) ([]*models.Task, error)

	// UpdateTask applies a partial update to the task. Nil fields are
	// left untouched. A status transition to "done" stamps the
	// completion time, a transition away from "done" clears it.
	UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error)

	// DeleteTask removes the task permanently. It returns
	// ErrTaskNotFound if the task doesn't exist or belongs
	// to another user.
	DeleteTask(ctx context.Context, params DeleteTaskParams) error
}

type CategoryService interface {
	// ListCategories returns the user's categories, newest first,
	// each annotated with its task count.
	ListCategories(ctx context.Context, userID string) ([]*models.Category, error)

	// CreateCategory creates a category owned by params.UserID.
	// The color defaults to "blue" when unspecified.
	CreateCategory(ctx context.Context, params CreateCategoryParams) (*models.Category, error)

	// DeleteCategory removes the category and detaches all tasks
	// referencing it in the same transaction, so they show up as
	// "Uncategorized" in analytics from then on.
	DeleteCategory(ctx context.Context, params DeleteCategoryParams) error
}

type AnalyticsService interface {
	// GetSnapshot computes the analytics snapshot over the user's
	// tasks. The sub-aggregates are independent queries issued
	// concurrently; any failure aborts the whole snapshot.
	GetSnapshot(ctx context.Context, userID string) (*AnalyticsSnapshot, error)
}

type LoginParams struct {
	Email       string
	Password    string
	Fingerprint string
}

type RegisterParams struct {
	Email       string
	Password    string
	Name        string
	Fingerprint string
}

type LoginResult struct {
	UserID                string
	SessionID             string
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
}

type RefreshParams struct {
	RefreshToken string
	Fingerprint  string
}

type UpdateProfileParams struct {
	UserID string
	Name   *string
	Image  *string
}

type CreateTaskParams struct {
	UserID      string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	CategoryID  *string
}

type UpdateTaskParams struct {
	ID          string
	UserID      string
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	CategoryID  *string

	// ClearDueDate and ClearCategory distinguish "leave untouched"
	// from "set to absent", which a nil pointer alone cannot.
	ClearDueDate  bool
	ClearCategory bool
}

type DeleteTaskParams struct {
	ID     string
	UserID string
}

type CreateCategoryParams struct {
	UserID string
	Name   string
	Color  string
}

type DeleteCategoryParams struct {
	ID     string
	UserID string
}

type AnalyticsSnapshot struct {
	Counts TaskCounts      `json:"counts"`
	Charts AnalyticsCharts `json:"charts"`
}

type TaskCounts struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Active    int64 `json:"active"`
	Overdue   int64 `json:"overdue"`
}

type AnalyticsCharts struct {
	Category []CategoryChartEntry `json:"category"`
	Priority []PriorityChartEntry `json:"priority"`
}

type CategoryChartEntry struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Color string `json:"color"`
}

type PriorityChartEntry struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Fill  string `json:"fill"`
}
