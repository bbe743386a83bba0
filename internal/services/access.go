package services

import (
	"github.com/s20467/Forum-Backend/internal/models"
)

// Ownership policy. The identity passed in comes from the authorization
// filter: a transient user carrying username + authorities rebuilt from the
// access token, so none of these checks needs the identity itself fetched.

func IsQuestionOwner(identity *models.User, questionID uint) (bool, error) {
	question, err := findQuestion(questionID)
	if err != nil {
		return false, err
	}
	return question.Author != nil && question.Author.Username == identity.Username, nil
}

func IsAnswerOwner(identity *models.User, answerID uint) (bool, error) {
	answer, err := findAnswer(answerID)
	if err != nil {
		return false, err
	}
	return answer.Author != nil && answer.Author.Username == identity.Username, nil
}

func IsAccountOwner(identity *models.User, username string) bool {
	return identity.Username == username
}

// CanModifyQuestion implements the layered access rule: admins may always,
// regular users only for their own questions.
func CanModifyQuestion(identity *models.User, questionID uint) (bool, error) {
	if identity.HasAuthority(models.RoleAdmin) {
		return true, nil
	}
	if !identity.HasAuthority(models.RoleUser) {
		return false, nil
	}
	return IsQuestionOwner(identity, questionID)
}

func CanModifyAnswer(identity *models.User, answerID uint) (bool, error) {
	if identity.HasAuthority(models.RoleAdmin) {
		return true, nil
	}
	if !identity.HasAuthority(models.RoleUser) {
		return false, nil
	}
	return IsAnswerOwner(identity, answerID)
}

func CanModifyAccount(identity *models.User, username string) bool {
	if identity.HasAuthority(models.RoleAdmin) {
		return true
	}
	return identity.HasAuthority(models.RoleUser) && IsAccountOwner(identity, username)
}
