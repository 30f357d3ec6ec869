package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"taskdeck/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleGetCategories(c *gin.Context)
	HandleCreateCategory(c *gin.Context)
	HandleDeleteCategory(c *gin.Context)

	HandleGetAnalytics(c *gin.Context)

	HandleGetProfile(c *gin.Context)
	HandleUpdateProfile(c *gin.Context)
}

type handlerImpl struct {
	logger     zerolog.Logger
	auth       services.AuthService
	sessions   services.SessionService
	users      services.UserService
	tasks      services.TaskService
	categories services.CategoryService
	analytics  services.AnalyticsService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	userService services.UserService,
	taskService services.TaskService,
	categoryService services.CategoryService,
	analyticsService services.AnalyticsService,
) Handler {
	return &handlerImpl{
		logger:     logger,
		auth:       authService,
		sessions:   sessionService,
		users:      userService,
		tasks:      taskService,
		categories: categoryService,
		analytics:  analyticsService,
	}
}
