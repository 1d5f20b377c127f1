package handler

import (
	"github.com/gin-gonic/gin"
	appidentity "github.com/optica/backend/internal/application/identity"
)

// UserHandler handles staff account administration
type UserHandler struct {
	BaseHandler
	userService *appidentity.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *appidentity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns a page of users
// GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	items := make([]appidentity.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, appidentity.ToUserResponse(&users[i]))
	}
	h.Success(c, items)
}

// Get returns one record
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appidentity.ToUserResponse(user))
}

// Register creates a user with a role
// POST /api/v1/users
func (h *UserHandler) Register(c *gin.Context) {
	var req appidentity.RegisterUserRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, appidentity.ToUserResponse(user))
}

// Update applies a partial update
// PATCH /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	var req appidentity.UpdateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.userService.Update(c.Request.Context(), id, req.ToPatch())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, appidentity.ToUserResponse(user))
}

// Delete deletes or deactivates a record
// DELETE /api/v1/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}
	outcome, err := h.userService.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"usuario_id": id, "resultado": outcome.String()})
}
