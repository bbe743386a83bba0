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

func findAnswer(answerID uint) (*models.Answer, error) {
	var answer models.Answer
	err := db.DB.Preload("Author").First(&answer, answerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: answer with id %d", models.ErrNotFound, answerID)
		}
		return nil, err
	}
	return &answer, nil
}

// GetAnswerByID returns an answer with voter lists and rendered content.
func GetAnswerByID(answerID uint) (*models.Answer, error) {
	answer, err := findAnswer(answerID)
	if err != nil {
		return nil, err
	}
	if err := fillAnswerVotes([]*models.Answer{answer}); err != nil {
		return nil, err
	}
	answer.ContentHTML = utils.RenderMarkdown(answer.Content)
	return answer, nil
}

func GetAnswers() ([]*models.Answer, error) {
	var answers []*models.Answer
	if err := db.DB.Preload("Author").Find(&answers).Error; err != nil {
		return nil, err
	}
	if err := fillAnswerVotes(answers); err != nil {
		return nil, err
	}
	return answers, nil
}

func GetAnswersPage(page, limit int, sortBy string) (*Page[*models.Answer], error) {
	result, err := paginate[*models.Answer](func() *gorm.DB {
		return db.DB.Model(&models.Answer{}).Preload("Author")
	}, page, limit, sortBy, answerSortFields)
	if err != nil {
		return nil, err
	}
	if err := fillAnswerVotes(result.Items); err != nil {
		return nil, err
	}
	return result, nil
}

func GetAnswersByQuestion(questionID uint) ([]*models.Answer, error) {
	if _, err := findQuestion(questionID); err != nil {
		return nil, err
	}
	var answers []*models.Answer
	if err := db.DB.Preload("Author").Where("question_id = ?", questionID).Find(&answers).Error; err != nil {
		return nil, err
	}
	if err := fillAnswerVotes(answers); err != nil {
		return nil, err
	}
	return answers, nil
}

func GetAnswersByQuestionPage(questionID uint, page, limit int, sortBy string) (*Page[*models.Answer], error) {
	if _, err := findQuestion(questionID); err != nil {
		return nil, err
	}
	result, err := paginate[*models.Answer](func() *gorm.DB {
		return db.DB.Model(&models.Answer{}).Preload("Author").Where("question_id = ?", questionID)
	}, page, limit, sortBy, answerSortFields)
	if err != nil {
		return nil, err
	}
	if err := fillAnswerVotes(result.Items); err != nil {
		return nil, err
	}
	return result, nil
}

func GetAnswersByAuthor(username string) ([]*models.Answer, error) {
	author, err := GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	var answers []*models.Answer
	if err := db.DB.Preload("Author").Where("author_id = ?", author.ID).Find(&answers).Error; err != nil {
		return nil, err
	}
	if err := fillAnswerVotes(answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// CreateAnswer attaches a new answer to the question. The target question is
// fixed here and never reassigned afterwards.
func CreateAnswer(questionID uint, username, content string) (*models.Answer, error) {
	author, err := GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	question, err := findQuestion(questionID)
	if err != nil {
		return nil, err
	}
	answer := models.Answer{
		Content:    content,
		AuthorID:   &author.ID,
		QuestionID: question.ID,
	}
	if err := db.DB.Create(&answer).Error; err != nil {
		return nil, err
	}
	return GetAnswerByID(answer.ID)
}

// CreateAnswerAdmin creates an answer on behalf of a named author.
func CreateAnswerAdmin(questionID uint, authorUsername, content string, createdAt *time.Time) (*models.Answer, error) {
	author, err := GetUserByUsername(authorUsername)
	if err != nil {
		return nil, err
	}
	question, err := findQuestion(questionID)
	if err != nil {
		return nil, err
	}
	answer := models.Answer{
		Content:    content,
		AuthorID:   &author.ID,
		QuestionID: question.ID,
	}
	if createdAt != nil {
		answer.CreatedAt = *createdAt
	}
	if err := db.DB.Create(&answer).Error; err != nil {
		return nil, err
	}
	return GetAnswerByID(answer.ID)
}

func UpdateAnswer(answerID uint, content string) (*models.Answer, error) {
	answer, err := findAnswer(answerID)
	if err != nil {
		return nil, err
	}
	answer.Content = content
	if err := db.DB.Save(answer).Error; err != nil {
		return nil, err
	}
	return GetAnswerByID(answerID)
}

// UpdateAnswerAdmin also rewrites authorship and the creation date.
func UpdateAnswerAdmin(answerID uint, authorUsername, content string, createdAt *time.Time) (*models.Answer, error) {
	answer, err := findAnswer(answerID)
	if err != nil {
		return nil, err
	}
	author, err := GetUserByUsername(authorUsername)
	if err != nil {
		return nil, err
	}
	answer.Content = content
	answer.AuthorID = &author.ID
	answer.Author = nil
	if createdAt != nil {
		answer.CreatedAt = *createdAt
	}
	if err := db.DB.Save(answer).Error; err != nil {
		return nil, err
	}
	return GetAnswerByID(answerID)
}

// DeleteAnswer removes the answer and its votes. When the answer is the
// question's accepted one, the question's pointer is cleared first so no
// dangling reference survives.
func DeleteAnswer(answerID uint) error {
	answer, err := findAnswer(answerID)
	if err != nil {
		return err
	}
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if answer.IsBestAnswer {
			if err := tx.Model(&models.Question{}).Where("id = ?", answer.QuestionID).
				Update("best_answer_id", nil).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("answer_id = ?", answerID).Delete(&models.Vote{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Answer{}, answerID).Error
	})
}
