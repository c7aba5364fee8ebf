package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"task-tracker/internal/domain"
	"task-tracker/internal/service"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	users  service.UserService
	tasks  service.TaskService
	tokens TokenVerifier
	logger *logrus.Logger
}

// TokenVerifier validates a bearer token and returns the authenticated
// user id.
type TokenVerifier interface {
	Verify(token string) (uuid.UUID, error)
}

func NewHandler(users service.UserService, tasks service.TaskService, tokens TokenVerifier, logger *logrus.Logger) *Handler {
	return &Handler{
		users:  users,
		tasks:  tasks,
		tokens: tokens,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		tasks := api.Group("/tasks", h.requireAuth)
		{
			tasks.POST("", h.createTask)
			tasks.GET("", h.listTasks)
			tasks.GET("/:id", h.getTask)
			tasks.PUT("/:id", h.updateTask)
			tasks.DELETE("/:id", h.deleteTask)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

const userIDKey = "userID"

// requireAuth rejects requests without a valid bearer token before they
// reach any task handler.
func (h *Handler) requireAuth(c *gin.Context) {
	const prefix = "Bearer "

	header := c.GetHeader("Authorization")
	if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
		h.logger.WithField("op", "auth").Warn("missing or malformed authorization header")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}

	userID, err := h.tokens.Verify(header[len(prefix):])
	if err != nil {
		h.logger.WithField("op", "auth").Warn("token rejected")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	c.Set(userIDKey, userID)
	c.Next()
}

func ownerID(c *gin.Context) uuid.UUID {
	return c.MustGet(userIDKey).(uuid.UUID)
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

// updateTaskRequest distinguishes "absent" from "set to zero value" by
// decoding every field into a pointer: nil means leave unchanged.
type updateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	IsComplete  *bool      `json:"isComplete"`
}

type AuthResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Token    string `json:"token"`
}

type TaskResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"dueDate,omitempty"`
	IsComplete  bool    `json:"isComplete"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   string  `json:"updatedAt"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, token, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.writeAuthError(c, "register", err)
		return
	}

	h.logger.WithFields(logrus.Fields{"op": "register", "user_id": user.ID}).Info("user registered")
	c.JSON(http.StatusOK, authToResponse(user, token))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, token, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAuthError(c, "login", err)
		return
	}

	h.logger.WithFields(logrus.Fields{"op": "login", "user_id": user.ID}).Info("user logged in")
	c.JSON(http.StatusOK, authToResponse(user, token))
}

func (h *Handler) createTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	owner := ownerID(c)
	task, err := h.tasks.CreateTask(c.Request.Context(), owner, req.Title, req.Description, req.DueDate)
	if err != nil {
		h.writeTaskError(c, "create_task", owner, err)
		return
	}

	h.logger.WithFields(logrus.Fields{"op": "create_task", "user_id": owner, "task_id": task.ID}).Info("task created")
	c.JSON(http.StatusCreated, taskToResponse(*task))
}

func (h *Handler) listTasks(c *gin.Context) {
	owner := ownerID(c)

	var isComplete *bool
	if raw, ok := c.GetQuery("isComplete"); ok {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid flag isComplete"})
			return
		}
		isComplete = &parsed
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), owner, isComplete)
	if err != nil {
		h.writeTaskError(c, "list_tasks", owner, err)
		return
	}

	resp := make([]TaskResponse, len(tasks))
	for i := range tasks {
		resp[i] = taskToResponse(tasks[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	owner := ownerID(c)
	task, err := h.tasks.GetTask(c.Request.Context(), id, owner)
	if err != nil {
		h.writeTaskError(c, "get_task", owner, err)
		return
	}

	c.JSON(http.StatusOK, taskToResponse(*task))
}

func (h *Handler) updateTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	owner := ownerID(c)
	task, err := h.tasks.UpdateTask(c.Request.Context(), id, owner, domain.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		IsComplete:  req.IsComplete,
	})
	if err != nil {
		h.writeTaskError(c, "update_task", owner, err)
		return
	}

	h.logger.WithFields(logrus.Fields{"op": "update_task", "user_id": owner, "task_id": task.ID}).Info("task updated")
	c.JSON(http.StatusOK, taskToResponse(*task))
}

func (h *Handler) deleteTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	owner := ownerID(c)
	if err := h.tasks.DeleteTask(c.Request.Context(), id, owner); err != nil {
		h.writeTaskError(c, "delete_task", owner, err)
		return
	}

	h.logger.WithFields(logrus.Fields{"op": "delete_task", "user_id": owner, "task_id": id}).Info("task deleted")
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeAuthError(c *gin.Context, op string, err error) {
	log := h.logger.WithField("op", op)
	switch {
	case errors.Is(err, service.ErrValidation):
		log.WithField("reason", err.Error()).Info("request rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserExists):
		log.Info("duplicate registration")
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrUserExists.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		log.Info("login rejected")
		c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
	default:
		log.WithError(err).Error("internal failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) writeTaskError(c *gin.Context, op string, owner uuid.UUID, err error) {
	log := h.logger.WithFields(logrus.Fields{"op": op, "user_id": owner})
	switch {
	case errors.Is(err, service.ErrValidation):
		log.WithField("reason", err.Error()).Info("request rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrTaskNotFound):
		log.Info("task not found")
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrTaskNotFound.Error()})
	default:
		log.WithError(err).Error("internal failure")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func authToResponse(user *domain.User, token string) AuthResponse {
	return AuthResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		Token:    token,
	}
}

func taskToResponse(task domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		IsComplete:  task.IsComplete,
		CreatedAt:   task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   task.UpdatedAt.Format(time.RFC3339),
	}
	if task.DueDate != nil {
		v := task.DueDate.Format(time.RFC3339)
		resp.DueDate = &v
	}
	return resp
}
