package services

import (
	"errors"
	"fmt"

	"github.com/s20467/Forum-Backend/internal/db"
	"github.com/s20467/Forum-Backend/internal/models"

	"gorm.io/gorm"
)

// Voting engine. Each (voter, target) pair is in one of three states:
// none, upvoted, downvoted. The state lives in a single votes row, so an
// up vote and a down vote for the same pair cannot coexist: switching
// direction deletes the old row and inserts the new one inside one
// transaction, and a unique index on (user_id, target_id) backs the
// check-then-act against concurrent requests.

const (
	upVote   = 1
	downVote = -1
)

func voteScope(tx *gorm.DB, vote models.Vote) *gorm.DB {
	scope := tx.Where("user_id = ?", vote.UserID)
	if vote.QuestionID != nil {
		return scope.Where("question_id = ?", *vote.QuestionID)
	}
	return scope.Where("answer_id = ?", *vote.AnswerID)
}

func voteTargetLabel(vote models.Vote) string {
	if vote.QuestionID != nil {
		return fmt.Sprintf("question %d", *vote.QuestionID)
	}
	return fmt.Sprintf("answer %d", *vote.AnswerID)
}

func voteDirectionLabel(value int) string {
	if value == upVote {
		return "upvoted"
	}
	return "downvoted"
}

func castVote(tx *gorm.DB, vote models.Vote) error {
	var existing models.Vote
	err := voteScope(tx, vote).First(&existing).Error
	switch {
	case err == nil:
		if existing.Value == vote.Value {
			return fmt.Errorf("%w: user %d already %s %s",
				models.ErrAlreadyVoted, vote.UserID, voteDirectionLabel(vote.Value), voteTargetLabel(vote))
		}
		// Switching direction: the opposite vote goes away first.
		if err := tx.Delete(&existing).Error; err != nil {
			return err
		}
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}
	return tx.Create(&vote).Error
}

func retractVote(tx *gorm.DB, vote models.Vote) error {
	var existing models.Vote
	err := voteScope(tx, vote).Where("value = ?", vote.Value).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user %d hasn't %s %s",
				models.ErrNotVoted, vote.UserID, voteDirectionLabel(vote.Value), voteTargetLabel(vote))
		}
		return err
	}
	return tx.Delete(&existing).Error
}

func voteOnQuestion(questionID uint, username string, value int, retract bool) (*models.Question, error) {
	voter, err := GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if _, err := findQuestion(questionID); err != nil {
		return nil, err
	}
	vote := models.Vote{UserID: voter.ID, QuestionID: &questionID, Value: value}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if retract {
			return retractVote(tx, vote)
		}
		return castVote(tx, vote)
	})
	if err != nil {
		return nil, err
	}
	return GetQuestionByID(questionID)
}

func voteOnAnswer(answerID uint, username string, value int, retract bool) (*models.Answer, error) {
	voter, err := GetUserByUsername(username)
	if err != nil {
		return nil, err
	}
	if _, err := findAnswer(answerID); err != nil {
		return nil, err
	}
	vote := models.Vote{UserID: voter.ID, AnswerID: &answerID, Value: value}
	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if retract {
			return retractVote(tx, vote)
		}
		return castVote(tx, vote)
	})
	if err != nil {
		return nil, err
	}
	return GetAnswerByID(answerID)
}

func UpVoteQuestion(questionID uint, username string) (*models.Question, error) {
	return voteOnQuestion(questionID, username, upVote, false)
}

func DownVoteQuestion(questionID uint, username string) (*models.Question, error) {
	return voteOnQuestion(questionID, username, downVote, false)
}

func UnUpVoteQuestion(questionID uint, username string) (*models.Question, error) {
	return voteOnQuestion(questionID, username, upVote, true)
}

func UnDownVoteQuestion(questionID uint, username string) (*models.Question, error) {
	return voteOnQuestion(questionID, username, downVote, true)
}

func UpVoteAnswer(answerID uint, username string) (*models.Answer, error) {
	return voteOnAnswer(answerID, username, upVote, false)
}

func DownVoteAnswer(answerID uint, username string) (*models.Answer, error) {
	return voteOnAnswer(answerID, username, downVote, false)
}

func UnUpVoteAnswer(answerID uint, username string) (*models.Answer, error) {
	return voteOnAnswer(answerID, username, upVote, true)
}

func UnDownVoteAnswer(answerID uint, username string) (*models.Answer, error) {
	return voteOnAnswer(answerID, username, downVote, true)
}

type voterRow struct {
	TargetID uint
	Value    int
	Username string
}

// fillQuestionVotes populates the derived up/down voter lists for a batch of
// questions from the votes table.
func fillQuestionVotes(questions []*models.Question) error {
	if len(questions) == 0 {
		return nil
	}

	ids := make([]uint, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}

	var rows []voterRow
	err := db.DB.Table("votes").
		Select("votes.question_id AS target_id, votes.value, users.username").
		Joins("JOIN users ON users.id = votes.user_id").
		Where("votes.question_id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return err
	}

	up := make(map[uint][]string)
	down := make(map[uint][]string)
	for _, r := range rows {
		if r.Value == upVote {
			up[r.TargetID] = append(up[r.TargetID], r.Username)
		} else {
			down[r.TargetID] = append(down[r.TargetID], r.Username)
		}
	}

	for _, q := range questions {
		q.UpVotes = orEmpty(up[q.ID])
		q.DownVotes = orEmpty(down[q.ID])
	}
	return nil
}

// fillAnswerVotes is the answer-side counterpart of fillQuestionVotes.
func fillAnswerVotes(answers []*models.Answer) error {
	if len(answers) == 0 {
		return nil
	}

	ids := make([]uint, len(answers))
	for i, a := range answers {
		ids[i] = a.ID
	}

	var rows []voterRow
	err := db.DB.Table("votes").
		Select("votes.answer_id AS target_id, votes.value, users.username").
		Joins("JOIN users ON users.id = votes.user_id").
		Where("votes.answer_id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return err
	}

	up := make(map[uint][]string)
	down := make(map[uint][]string)
	for _, r := range rows {
		if r.Value == upVote {
			up[r.TargetID] = append(up[r.TargetID], r.Username)
		} else {
			down[r.TargetID] = append(down[r.TargetID], r.Username)
		}
	}

	for _, a := range answers {
		a.UpVotes = orEmpty(up[a.ID])
		a.DownVotes = orEmpty(down[a.ID])
	}
	return nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
