package services

import (
	"testing"
	"time"

	"github.com/s20467/Forum-Backend/internal/db"
	"github.com/s20467/Forum-Backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQuestionSetsAuthorAndRendersContent(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "asker")

	question, err := CreateQuestion("asker", "How do I frobnicate?", "**carefully**")
	require.NoError(t, err)
	require.NotNil(t, question.Author)
	assert.Equal(t, "asker", question.Author.Username)
	assert.Nil(t, question.ClosedAt)
	assert.Contains(t, question.ContentHTML, "<strong>carefully</strong>")
	assert.Empty(t, question.UpVotes)
	assert.Empty(t, question.DownVotes)
}

func TestCloseAndReopenQuestion(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "asker")
	q := createTestQuestion(t, "asker", "How do I frobnicate?")

	closed, err := CloseQuestion(q.ID)
	require.NoError(t, err)
	require.NotNil(t, closed.ClosedAt)
	assert.True(t, closed.Closed())

	_, err = CloseQuestion(q.ID)
	assert.ErrorIs(t, err, models.ErrAlreadyClosed)

	reopened, err := OpenQuestion(q.ID)
	require.NoError(t, err)
	assert.Nil(t, reopened.ClosedAt)

	_, err = OpenQuestion(q.ID)
	assert.ErrorIs(t, err, models.ErrNotClosed)
}

func TestSetBestAnswer(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "asker")
	createTestUser(t, "helper")
	q := createTestQuestion(t, "asker", "How do I frobnicate?")
	a1 := createTestAnswer(t, q.ID, "helper", "first try")
	a2 := createTestAnswer(t, q.ID, "helper", "better try")

	// First selection: no previous best answer to demote.
	question, err := SetBestAnswer(q.ID, a1.ID)
	require.NoError(t, err)
	require.NotNil(t, question.BestAnswerID)
	assert.Equal(t, a1.ID, *question.BestAnswerID)

	// Switching demotes the old one in the same step.
	question, err = SetBestAnswer(q.ID, a2.ID)
	require.NoError(t, err)
	require.NotNil(t, question.BestAnswerID)
	assert.Equal(t, a2.ID, *question.BestAnswerID)

	old, err := GetAnswerByID(a1.ID)
	require.NoError(t, err)
	assert.False(t, old.IsBestAnswer)

	current, err := GetAnswerByID(a2.ID)
	require.NoError(t, err)
	assert.True(t, current.IsBestAnswer)

	// At most one accepted answer per question, ever.
	var count int64
	require.NoError(t, db.DB.Model(&models.Answer{}).
		Where("question_id = ? AND is_best_answer", q.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestSetBestAnswerFromAnotherQuestion(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "asker")
	createTestUser(t, "helper")
	q1 := createTestQuestion(t, "asker", "first question")
	q2 := createTestQuestion(t, "asker", "second question")
	other := createTestAnswer(t, q2.ID, "helper", "answers the second one")

	_, err := SetBestAnswer(q1.ID, other.ID)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUnsetBestAnswerIsIdempotent(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "asker")
	createTestUser(t, "helper")
	q := createTestQuestion(t, "asker", "How do I frobnicate?")
	a := createTestAnswer(t, q.ID, "helper", "like this")

	// Unsetting before anything was chosen is a no-op, not an error.
	question, err := UnsetBestAnswer(q.ID)
	require.NoError(t, err)
	assert.Nil(t, question.BestAnswerID)

	_, err = SetBestAnswer(q.ID, a.ID)
	require.NoError(t, err)

	question, err = UnsetBestAnswer(q.ID)
	require.NoError(t, err)
	assert.Nil(t, question.BestAnswerID)

	demoted, err := GetAnswerByID(a.ID)
	require.NoError(t, err)
	assert.False(t, demoted.IsBestAnswer)
}

func TestDeleteQuestionRemovesAnswersAndVotes(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "asker")
	createTestUser(t, "helper")
	createTestUser(t, "voter")
	q := createTestQuestion(t, "asker", "How do I frobnicate?")
	a := createTestAnswer(t, q.ID, "helper", "like this")

	_, err := SetBestAnswer(q.ID, a.ID)
	require.NoError(t, err)
	_, err = UpVoteQuestion(q.ID, "voter")
	require.NoError(t, err)
	_, err = DownVoteAnswer(a.ID, "voter")
	require.NoError(t, err)

	require.NoError(t, DeleteQuestion(q.ID))

	_, err = GetQuestionByID(q.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = GetAnswerByID(a.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	var votes int64
	require.NoError(t, db.DB.Model(&models.Vote{}).Count(&votes).Error)
	assert.EqualValues(t, 0, votes)
}

func TestGetQuestionsPage(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "asker")
	createTestQuestion(t, "asker", "first")
	createTestQuestion(t, "asker", "second")
	createTestQuestion(t, "asker", "third")

	page, err := GetQuestionsPage(0, 2, "id")
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, "first", page.Items[0].Title)

	last, err := GetQuestionsPage(1, 2, "id")
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)
	assert.Equal(t, "third", last.Items[0].Title)
}

func TestGetQuestionsPageRejectsBadArguments(t *testing.T) {
	setupTestDB(t)

	_, err := GetQuestionsPage(0, 10, "password")
	assert.ErrorIs(t, err, models.ErrInvalidPagination)

	_, err = GetQuestionsPage(-1, 10, "id")
	assert.ErrorIs(t, err, models.ErrInvalidPagination)

	_, err = GetQuestionsPage(0, 0, "id")
	assert.ErrorIs(t, err, models.ErrInvalidPagination)
}

func TestCreateQuestionAdminValidatesDates(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "asker")

	created := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	closed := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	_, err := CreateQuestionAdmin("asker", "backdated", "content", &created, &closed)
	assert.ErrorIs(t, err, models.ErrValidation)

	closed = time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	question, err := CreateQuestionAdmin("asker", "backdated", "content", &created, &closed)
	require.NoError(t, err)
	assert.True(t, question.Closed())
	assert.True(t, created.Equal(question.CreatedAt))
}

func TestQuestionListings(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "asker")
	createTestUser(t, "helper")
	createTestQuestion(t, "asker", "open one")
	toClose := createTestQuestion(t, "asker", "closed one")
	answered := createTestQuestion(t, "asker", "answered one")

	a := createTestAnswer(t, answered.ID, "helper", "here you go")
	_, err := SetBestAnswer(answered.ID, a.ID)
	require.NoError(t, err)
	_, err = CloseQuestion(toClose.ID)
	require.NoError(t, err)

	notClosed, err := GetNotClosedQuestions()
	require.NoError(t, err)
	require.Len(t, notClosed, 2)

	unanswered, err := GetQuestionsWithoutBestAnswer()
	require.NoError(t, err)
	require.Len(t, unanswered, 2)
	for _, q := range unanswered {
		assert.NotEqual(t, answered.ID, q.ID)
	}

	byHelper, err := GetQuestionsAnsweredBy("helper")
	require.NoError(t, err)
	require.Len(t, byHelper, 1)
	assert.Equal(t, answered.ID, byHelper[0].ID)

	byAsker, err := GetQuestionsByAuthor("asker")
	require.NoError(t, err)
	assert.Len(t, byAsker, 3)
}

// Exercises a full question lifecycle across two accounts.
func TestQuestionLifecycleScenario(t *testing.T) {
	setupTestDB(t)
	createTestUser(t, "anna")
	createTestUser(t, "ben")

	q, err := CreateQuestion("anna", "Is this idiomatic?", "asking for a friend")
	require.NoError(t, err)

	_, err = DownVoteQuestion(q.ID, "ben")
	require.NoError(t, err)

	// Retracting an upvote ben never cast fails and leaves his downvote alone.
	_, err = UnUpVoteQuestion(q.ID, "ben")
	assert.ErrorIs(t, err, models.ErrNotVoted)

	switched, err := UpVoteQuestion(q.ID, "ben")
	require.NoError(t, err)
	assert.Equal(t, []string{"ben"}, switched.UpVotes)
	assert.Empty(t, switched.DownVotes)

	closed, err := CloseQuestion(q.ID)
	require.NoError(t, err)
	assert.True(t, closed.Closed())

	_, err = CloseQuestion(q.ID)
	assert.ErrorIs(t, err, models.ErrAlreadyClosed)
}
