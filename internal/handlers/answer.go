package handlers

import (
	"net/http"

	"github.com/s20467/Forum-Backend/internal/models"
	"github.com/s20467/Forum-Backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AnswerHandler struct{}

func NewAnswerHandler() *AnswerHandler {
	return &AnswerHandler{}
}

type answerDto struct {
	Content string `json:"content" binding:"required"`
}

type answerDtoAdmin struct {
	Content   string `json:"content" binding:"required"`
	Author    string `json:"author" binding:"required"`
	CreatedAt string `json:"created_at"` // yyyy-mm-dd
}

func authorizeAnswerOwner(c *gin.Context, answerID uint) bool {
	user, ok := requireCurrentUser(c)
	if !ok {
		return false
	}
	allowed, err := services.CanModifyAnswer(user, answerID)
	if err != nil {
		JSONError(c, err)
		return false
	}
	if !allowed {
		forbid(c)
		return false
	}
	return true
}

func (h *AnswerHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "answerId")
	if !ok {
		return
	}
	answer, err := services.GetAnswerByID(id)
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

func (h *AnswerHandler) List(c *gin.Context) {
	page, limit, sortBy, paginated := pageParams(c)
	if paginated {
		result, err := services.GetAnswersPage(page, limit, sortBy)
		if err != nil {
			JSONError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}
	answers, err := services.GetAnswers()
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

func (h *AnswerHandler) ListByQuestion(c *gin.Context) {
	questionID, ok := idParam(c, "questionId")
	if !ok {
		return
	}
	page, limit, sortBy, paginated := pageParams(c)
	if paginated {
		result, err := services.GetAnswersByQuestionPage(questionID, page, limit, sortBy)
		if err != nil {
			JSONError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}
	answers, err := services.GetAnswersByQuestion(questionID)
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

func (h *AnswerHandler) ListByAuthor(c *gin.Context) {
	answers, err := services.GetAnswersByAuthor(c.Param("username"))
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

// Create handles POST /api/questions/:questionId/give-answer.
func (h *AnswerHandler) Create(c *gin.Context) {
	questionID, ok := idParam(c, "questionId")
	if !ok {
		return
	}
	user, ok := requireCurrentUser(c)
	if !ok {
		return
	}
	var dto answerDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	answer, err := services.CreateAnswer(questionID, user.Username, dto.Content)
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusCreated, answer)
}

func (h *AnswerHandler) CreateAdmin(c *gin.Context) {
	questionID, ok := idParam(c, "questionId")
	if !ok {
		return
	}
	var dto answerDtoAdmin
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	createdAt, ok := parseDate(c, dto.CreatedAt)
	if !ok {
		return
	}
	answer, err := services.CreateAnswerAdmin(questionID, dto.Author, dto.Content, createdAt)
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusCreated, answer)
}

func (h *AnswerHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "answerId")
	if !ok {
		return
	}
	if !authorizeAnswerOwner(c, id) {
		return
	}
	var dto answerDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	answer, err := services.UpdateAnswer(id, dto.Content)
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

func (h *AnswerHandler) UpdateAdmin(c *gin.Context) {
	id, ok := idParam(c, "answerId")
	if !ok {
		return
	}
	var dto answerDtoAdmin
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	createdAt, ok := parseDate(c, dto.CreatedAt)
	if !ok {
		return
	}
	answer, err := services.UpdateAnswerAdmin(id, dto.Author, dto.Content, createdAt)
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

func (h *AnswerHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "answerId")
	if !ok {
		return
	}
	if !authorizeAnswerOwner(c, id) {
		return
	}
	if err := services.DeleteAnswer(id); err != nil {
		JSONError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AnswerHandler) vote(c *gin.Context, fn func(uint, string) (*models.Answer, error)) {
	id, ok := idParam(c, "answerId")
	if !ok {
		return
	}
	user, ok := requireCurrentUser(c)
	if !ok {
		return
	}
	answer, err := fn(id, user.Username)
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

func (h *AnswerHandler) UpVote(c *gin.Context)     { h.vote(c, services.UpVoteAnswer) }
func (h *AnswerHandler) DownVote(c *gin.Context)   { h.vote(c, services.DownVoteAnswer) }
func (h *AnswerHandler) UnUpVote(c *gin.Context)   { h.vote(c, services.UnUpVoteAnswer) }
func (h *AnswerHandler) UnDownVote(c *gin.Context) { h.vote(c, services.UnDownVoteAnswer) }
