package handlers

import (
	"net/http"

	"github.com/s20467/Forum-Backend/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

type userDto struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
}

type usernameDto struct {
	Username string `json:"username" binding:"required,min=3"`
}

type passwordDto struct {
	Password string `json:"password" binding:"required,min=6"`
}

func authorizeAccountOwner(c *gin.Context, username string) bool {
	user, ok := requireCurrentUser(c)
	if !ok {
		return false
	}
	if !services.CanModifyAccount(user, username) {
		forbid(c)
		return false
	}
	return true
}

// Register handles POST /api/users/create, one of the open entry points.
func (h *UserHandler) Register(c *gin.Context) {
	var dto userDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := services.CreateUser(dto.Username, dto.Password)
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := services.GetUsers()
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	user, err := services.GetUserByUsername(c.Param("username"))
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) CheckUsernameAvailability(c *gin.Context) {
	available, err := services.CheckUsernameAvailability(c.Param("username"))
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, available)
}

func (h *UserHandler) Update(c *gin.Context) {
	username := c.Param("username")
	if !authorizeAccountOwner(c, username) {
		return
	}
	var dto usernameDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := services.UpdateUsername(username, dto.Username)
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	username := c.Param("username")
	if !authorizeAccountOwner(c, username) {
		return
	}
	var dto passwordDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := services.ChangePassword(username, dto.Password); err != nil {
		JSONError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Delete(c *gin.Context) {
	username := c.Param("username")
	if !authorizeAccountOwner(c, username) {
		return
	}
	if err := services.DeleteUser(username); err != nil {
		JSONError(c, err)
		return
	}
	invalidateQuestionCache()
	c.Status(http.StatusNoContent)
}
