package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/s20467/Forum-Backend/internal/db"
	"github.com/s20467/Forum-Backend/internal/models"
	"github.com/s20467/Forum-Backend/internal/utils"

	"gorm.io/gorm"
)

func findQuestion(questionID uint) (*models.Question, error) {
	var question models.Question
	err := db.DB.Preload("Author").First(&question, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question with id %d", models.ErrNotFound, questionID)
		}
		return nil, err
	}
	return &question, nil
}

// GetQuestionByID returns a question with its answers, voter lists and
// rendered content.
func GetQuestionByID(questionID uint) (*models.Question, error) {
	var question models.Question
	err := db.DB.
		Preload("Author").
		Preload("Answers").
		Preload("Answers.Author").
		First(&question, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: question with id %d", models.ErrNotFound, questionID)
		}
		return nil, err
	}

	if err := fillQuestionVotes([]*models.Question{&question}); err != nil {
		return nil, err
	}
	answers := make([]*models.Answer, len(question.Answers))
	for i := range question.Answers {
		answers[i] = &question.Answers[i]
	}
	if err := fillAnswerVotes(answers); err != nil {
		return nil, err
	}

	question.ContentHTML = utils.RenderMarkdown(question.Content)
	return &question, nil
}

// GetQuestions returns all questions with voter lists filled.
func GetQuestions() ([]*models.Question, error) {
	var questions []*models.Question
	if err := db.DB.Preload("Author").Find(&questions).Error; err != nil {
		return nil, err
	}
	if err := fillQuestionVotes(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// GetQuestionsPage returns one page of questions sorted by an allowed field.
func GetQuestionsPage(page, limit int, sortBy string) (*Page[*models.Question], error) {
	result, err := paginate[*models.Question](func() *gorm.DB {
		return db.DB.Model(&models.Question{}).Preload("Author")
	}, page, limit, sortBy, questionSortFields)
	if err != nil {
		return nil, err
	}
	if err := fillQuestionVotes(result.Items); err != nil {
		return nil, err
	}
	return result, nil
}

func CreateQuestion(username, title, content string) (*models.Question, error) {
	author, err := GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	question := models.Question{
		Title:    title,
		Content:  content,
		AuthorID: &author.ID,
	}
	if err := db.DB.Create(&question).Error; err != nil {
		return nil, err
	}
	return GetQuestionByID(question.ID)
}

// CreateQuestionAdmin creates a question on behalf of a named author,
// optionally with explicit creation/closing dates.
func CreateQuestionAdmin(authorUsername, title, content string, createdAt, closedAt *time.Time) (*models.Question, error) {
	author, err := GetUserByUsername(authorUsername)
	if err != nil {
		return nil, err
	}
	question := models.Question{
		Title:    title,
		Content:  content,
		AuthorID: &author.ID,
		ClosedAt: closedAt,
	}
	if createdAt != nil {
		question.CreatedAt = *createdAt
	}
	if err := validateQuestionDates(&question); err != nil {
		return nil, err
	}
	if err := db.DB.Create(&question).Error; err != nil {
		return nil, err
	}
	return GetQuestionByID(question.ID)
}

func validateQuestionDates(question *models.Question) error {
	if question.ClosedAt != nil && !question.CreatedAt.IsZero() && question.CreatedAt.After(*question.ClosedAt) {
		return fmt.Errorf("%w: question closing date cannot be before question creation date", models.ErrValidation)
	}
	return nil
}

func UpdateQuestion(questionID uint, title, content string) (*models.Question, error) {
	question, err := findQuestion(questionID)
	if err != nil {
		return nil, err
	}
	question.Title = title
	question.Content = content
	if err := db.DB.Save(question).Error; err != nil {
		return nil, err
	}
	return GetQuestionByID(questionID)
}

// UpdateQuestionAdmin also rewrites authorship and dates.
func UpdateQuestionAdmin(questionID uint, authorUsername, title, content string, createdAt, closedAt *time.Time) (*models.Question, error) {
	question, err := findQuestion(questionID)
	if err != nil {
		return nil, err
	}
	author, err := GetUserByUsername(authorUsername)
	if err != nil {
		return nil, err
	}
	question.Title = title
	question.Content = content
	question.AuthorID = &author.ID
	question.Author = nil
	if createdAt != nil {
		question.CreatedAt = *createdAt
	}
	question.ClosedAt = closedAt
	if err := validateQuestionDates(question); err != nil {
		return nil, err
	}
	if err := db.DB.Save(question).Error; err != nil {
		return nil, err
	}
	return GetQuestionByID(questionID)
}

// DeleteQuestion removes the question, its answers and every vote cast on
// any of them, all-or-nothing.
func DeleteQuestion(questionID uint) error {
	if _, err := findQuestion(questionID); err != nil {
		return err
	}
	return db.DB.Transaction(func(tx *gorm.DB) error {
		// Best-answer pointer goes first so the answer rows can be removed.
		if err := tx.Model(&models.Question{}).Where("id = ?", questionID).
			Update("best_answer_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("answer_id IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).Model(&models.Answer{}).Select("id").Where("question_id = ?", questionID),
		).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", questionID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Question{}, questionID).Error
	})
}

func CloseQuestion(questionID uint) (*models.Question, error) {
	question, err := findQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if question.ClosedAt != nil {
		return nil, fmt.Errorf("%w: question %d was closed at %s",
			models.ErrAlreadyClosed, questionID, question.ClosedAt.Format(time.RFC3339))
	}
	now := time.Now()
	question.ClosedAt = &now
	if err := db.DB.Save(question).Error; err != nil {
		return nil, err
	}
	return GetQuestionByID(questionID)
}

func OpenQuestion(questionID uint) (*models.Question, error) {
	question, err := findQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if question.ClosedAt == nil {
		return nil, fmt.Errorf("%w: question %d is open", models.ErrNotClosed, questionID)
	}
	if err := db.DB.Model(question).Update("closed_at", nil).Error; err != nil {
		return nil, err
	}
	return GetQuestionByID(questionID)
}

// SetBestAnswer marks the answer as the question's accepted one. A previous
// best answer, when present, is demoted in the same transaction. The answer
// must actually target the question.
func SetBestAnswer(questionID, answerID uint) (*models.Question, error) {
	question, err := findQuestion(questionID)
	if err != nil {
		return nil, err
	}
	answer, err := findAnswer(answerID)
	if err != nil {
		return nil, err
	}
	if answer.QuestionID != question.ID {
		return nil, fmt.Errorf("%w: answer %d does not belong to question %d",
			models.ErrValidation, answerID, questionID)
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if question.BestAnswerID != nil && *question.BestAnswerID != answerID {
			if err := tx.Model(&models.Answer{}).Where("id = ?", *question.BestAnswerID).
				Update("is_best_answer", false).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.Answer{}).Where("id = ?", answerID).
			Update("is_best_answer", true).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).Where("id = ?", questionID).
			Update("best_answer_id", answerID).Error
	})
	if err != nil {
		return nil, err
	}
	return GetQuestionByID(questionID)
}

// UnsetBestAnswer clears the accepted answer. A question without one is a
// valid starting state: the call is an idempotent no-op then.
func UnsetBestAnswer(questionID uint) (*models.Question, error) {
	question, err := findQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if question.BestAnswerID == nil {
		return GetQuestionByID(questionID)
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Answer{}).Where("id = ?", *question.BestAnswerID).
			Update("is_best_answer", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Question{}).Where("id = ?", questionID).
			Update("best_answer_id", nil).Error
	})
	if err != nil {
		return nil, err
	}
	return GetQuestionByID(questionID)
}

func GetQuestionsByAuthor(username string) ([]*models.Question, error) {
	author, err := GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	var questions []*models.Question
	if err := db.DB.Preload("Author").Where("author_id = ?", author.ID).Find(&questions).Error; err != nil {
		return nil, err
	}
	if err := fillQuestionVotes(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// GetQuestionsAnsweredBy returns the distinct questions the user has
// answered.
func GetQuestionsAnsweredBy(username string) ([]*models.Question, error) {
	author, err := GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	var questions []*models.Question
	err = db.DB.Preload("Author").
		Where("id IN (?)", db.DB.Model(&models.Answer{}).Select("question_id").Where("author_id = ?", author.ID)).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	if err := fillQuestionVotes(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func GetQuestionsWithoutBestAnswer() ([]*models.Question, error) {
	var questions []*models.Question
	if err := db.DB.Preload("Author").Where("best_answer_id IS NULL").Find(&questions).Error; err != nil {
		return nil, err
	}
	if err := fillQuestionVotes(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func GetNotClosedQuestions() ([]*models.Question, error) {
	var questions []*models.Question
	if err := db.DB.Preload("Author").Where("closed_at IS NULL").Find(&questions).Error; err != nil {
		return nil, err
	}
	if err := fillQuestionVotes(questions); err != nil {
		return nil, err
	}
	return questions, nil
}
