package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/s20467/Forum-Backend/internal/models"
	"github.com/s20467/Forum-Backend/internal/services"
	"github.com/s20467/Forum-Backend/internal/utils"

	"github.com/gin-gonic/gin"
)

const questionListTTL = time.Minute

type QuestionHandler struct{}

func NewQuestionHandler() *QuestionHandler {
	return &QuestionHandler{}
}

type questionDto struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content"`
}

type questionDtoAdmin struct {
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content"`
	Author    string `json:"author" binding:"required"`
	CreatedAt string `json:"created_at"` // yyyy-mm-dd
	ClosedAt  string `json:"closed_at"`  // yyyy-mm-dd
}

func parseDate(c *gin.Context, value string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		JSONError(c, fmt.Errorf("%w: invalid date %q, expected yyyy-mm-dd", models.ErrValidation, value))
		return nil, false
	}
	return &t, true
}

func invalidateQuestionCache() {
	utils.GetCache().Purge()
}

// authorizeQuestionOwner enforces the admin-or-owner rule, writing the
// response itself on failure.
func authorizeQuestionOwner(c *gin.Context, questionID uint) bool {
	user, ok := requireCurrentUser(c)
	if !ok {
		return false
	}
	allowed, err := services.CanModifyQuestion(user, questionID)
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

func (h *QuestionHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "questionId")
	if !ok {
		return
	}
	question, err := services.GetQuestionByID(id)
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

// List serves both the plain listing and the paginated variant, with a
// short-lived cache in front since this is the hottest read path.
func (h *QuestionHandler) List(c *gin.Context) {
	page, limit, sortBy, paginated := pageParams(c)

	cacheKey := "questions:all"
	if paginated {
		cacheKey = fmt.Sprintf("questions:page:%d:%d:%s", page, limit, sortBy)
	}
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	var result interface{}
	var err error
	if paginated {
		result, err = services.GetQuestionsPage(page, limit, sortBy)
	} else {
		result, err = services.GetQuestions()
	}
	if err != nil {
		JSONError(c, err)
		return
	}

	utils.GetCache().Set(cacheKey, result, questionListTTL)
	c.JSON(http.StatusOK, result)
}

func (h *QuestionHandler) ListNotClosed(c *gin.Context) {
	questions, err := services.GetNotClosedQuestions()
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) ListWithoutBestAnswer(c *gin.Context) {
	questions, err := services.GetQuestionsWithoutBestAnswer()
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) ListByAuthor(c *gin.Context) {
	questions, err := services.GetQuestionsByAuthor(c.Param("username"))
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) ListAnsweredBy(c *gin.Context) {
	questions, err := services.GetQuestionsAnsweredBy(c.Param("username"))
	if err != nil {
		JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) Create(c *gin.Context) {
	user, ok := requireCurrentUser(c)
	if !ok {
		return
	}
	var dto questionDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	question, err := services.CreateQuestion(user.Username, dto.Title, dto.Content)
	if err != nil {
		JSONError(c, err)
		return
	}
	invalidateQuestionCache()
	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) CreateAdmin(c *gin.Context) {
	var dto questionDtoAdmin
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	createdAt, ok := parseDate(c, dto.CreatedAt)
	if !ok {
		return
	}
	closedAt, ok := parseDate(c, dto.ClosedAt)
	if !ok {
		return
	}
	question, err := services.CreateQuestionAdmin(dto.Author, dto.Title, dto.Content, createdAt, closedAt)
	if err != nil {
		JSONError(c, err)
		return
	}
	invalidateQuestionCache()
	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "questionId")
	if !ok {
		return
	}
	if !authorizeQuestionOwner(c, id) {
		return
	}
	var dto questionDto
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	question, err := services.UpdateQuestion(id, dto.Title, dto.Content)
	if err != nil {
		JSONError(c, err)
		return
	}
	invalidateQuestionCache()
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) UpdateAdmin(c *gin.Context) {
	id, ok := idParam(c, "questionId")
	if !ok {
		return
	}
	var dto questionDtoAdmin
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	createdAt, ok := parseDate(c, dto.CreatedAt)
	if !ok {
		return
	}
	closedAt, ok := parseDate(c, dto.ClosedAt)
	if !ok {
		return
	}
	question, err := services.UpdateQuestionAdmin(id, dto.Author, dto.Title, dto.Content, createdAt, closedAt)
	if err != nil {
		JSONError(c, err)
		return
	}
	invalidateQuestionCache()
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "questionId")
	if !ok {
		return
	}
	if !authorizeQuestionOwner(c, id) {
		return
	}
	if err := services.DeleteQuestion(id); err != nil {
		JSONError(c, err)
		return
	}
	invalidateQuestionCache()
	c.Status(http.StatusNoContent)
}

func (h *QuestionHandler) Close(c *gin.Context) {
	id, ok := idParam(c, "questionId")
	if !ok {
		return
	}
	if !authorizeQuestionOwner(c, id) {
		return
	}
	question, err := services.CloseQuestion(id)
	if err != nil {
		JSONError(c, err)
		return
	}
	invalidateQuestionCache()
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) Open(c *gin.Context) {
	id, ok := idParam(c, "questionId")
	if !ok {
		return
	}
	if !authorizeQuestionOwner(c, id) {
		return
	}
	question, err := services.OpenQuestion(id)
	if err != nil {
		JSONError(c, err)
		return
	}
	invalidateQuestionCache()
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) vote(c *gin.Context, fn func(uint, string) (*models.Question, error)) {
	id, ok := idParam(c, "questionId")
	if !ok {
		return
	}
	user, ok := requireCurrentUser(c)
	if !ok {
		return
	}
	question, err := fn(id, user.Username)
	if err != nil {
		JSONError(c, err)
		return
	}
	invalidateQuestionCache()
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) UpVote(c *gin.Context)     { h.vote(c, services.UpVoteQuestion) }
func (h *QuestionHandler) DownVote(c *gin.Context)   { h.vote(c, services.DownVoteQuestion) }
func (h *QuestionHandler) UnUpVote(c *gin.Context)   { h.vote(c, services.UnUpVoteQuestion) }
func (h *QuestionHandler) UnDownVote(c *gin.Context) { h.vote(c, services.UnDownVoteQuestion) }

func (h *QuestionHandler) SetBestAnswer(c *gin.Context) {
	questionID, ok := idParam(c, "questionId")
	if !ok {
		return
	}
	answerID, ok := idParam(c, "answerId")
	if !ok {
		return
	}
	if !authorizeQuestionOwner(c, questionID) {
		return
	}
	question, err := services.SetBestAnswer(questionID, answerID)
	if err != nil {
		JSONError(c, err)
		return
	}
	invalidateQuestionCache()
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) UnsetBestAnswer(c *gin.Context) {
	questionID, ok := idParam(c, "questionId")
	if !ok {
		return
	}
	if !authorizeQuestionOwner(c, questionID) {
		return
	}
	question, err := services.UnsetBestAnswer(questionID)
	if err != nil {
		JSONError(c, err)
		return
	}
	invalidateQuestionCache()
	c.JSON(http.StatusOK, question)
}
