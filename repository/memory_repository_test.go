package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xuexuelaila/qa-community/models"
)

func TestMemoryQARepository_SeedDataset(t *testing.T) {
	repo := NewMemoryQARepository(SeedQAs())

	t.Run("Seed records are retrievable", func(t *testing.T) {
		qa, err := repo.GetByID("1")
		assert.NoError(t, err)
		assert.NotNil(t, qa)
		assert.Equal(t, models.CategoryPractical, qa.Category)
		assert.NotEmpty(t, qa.Alternatives)
		assert.NotEmpty(t, qa.OriginalChat)
		assert.Len(t, qa.Comments, 2)
	})

	t.Run("Missing id yields nil without error", func(t *testing.T) {
		qa, err := repo.GetByID("ghost")
		assert.NoError(t, err)
		assert.Nil(t, qa)
	})

	t.Run("Search matches question, answer and tags", func(t *testing.T) {
		byTag, err := repo.Search("", []string{"MongoDB"}, 50)
		assert.NoError(t, err)
		assert.Len(t, byTag, 1)
		assert.Equal(t, "2", byTag[0].ID)

		byKeyword, err := repo.Search("useCallback", nil, 50)
		assert.NoError(t, err)
		assert.Len(t, byKeyword, 1)
		assert.Equal(t, "3", byKeyword[0].ID)
	})

	t.Run("Feedback increments survive subsequent reads", func(t *testing.T) {
		before, err := repo.GetByID("2")
		assert.NoError(t, err)

		updated, err := repo.IncrementFeedback("2", "useful")
		assert.NoError(t, err)
		assert.Equal(t, before.Feedback.Useful+1, updated.Feedback.Useful)

		after, err := repo.GetByID("2")
		assert.NoError(t, err)
		assert.Equal(t, updated.Feedback.Useful, after.Feedback.Useful)
	})

	t.Run("Comment likes toggle by likedUserIds membership", func(t *testing.T) {
		qa, err := repo.GetByID("1")
		assert.NoError(t, err)
		commentID := qa.Comments[1].ID

		result, err := repo.ToggleCommentLike("1", commentID, "u9")
		assert.NoError(t, err)
		assert.True(t, result.Liked)
		assert.Equal(t, 1, result.Likes)

		result, err = repo.ToggleCommentLike("1", commentID, "u9")
		assert.NoError(t, err)
		assert.False(t, result.Liked)
		assert.Equal(t, 0, result.Likes)
	})
}

func TestMemoryQARepository_DateQueries(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.Local) }
	repo := NewMemoryQARepository([]*models.QAKnowledge{
		{ID: "a", Date: day(1), CreatedAt: day(1)},
		{ID: "b", Date: day(1), CreatedAt: day(1).Add(time.Hour)},
		{ID: "c", Date: day(15), CreatedAt: day(15)},
		{ID: "d", Date: day(31), CreatedAt: day(31)},
	})

	t.Run("Date range is inclusive and newest first", func(t *testing.T) {
		qas, err := repo.FindByDateRange(day(1), day(15))
		assert.NoError(t, err)
		assert.Len(t, qas, 3)
		assert.Equal(t, "c", qas[0].ID)
		assert.Equal(t, "b", qas[1].ID)
	})

	t.Run("Distinct dates deduplicate and sort ascending", func(t *testing.T) {
		dates, err := repo.DistinctDates(day(1), day(31))
		assert.NoError(t, err)
		assert.Equal(t, []time.Time{day(1), day(15), day(31)}, dates)
	})
}

func TestMemoryPostRepository_SeedDataset(t *testing.T) {
	repo := NewMemoryPostRepository(SeedPosts())

	t.Run("Status filter and pagination", func(t *testing.T) {
		all, total, err := repo.List("all", 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, all, 2)
		// Newest first
		assert.Equal(t, "1", all[0].ID)

		pending, total, err := repo.List("pending", 1, 20)
		assert.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, models.PostStatusPending, pending[0].Status)

		empty, total, err := repo.List("all", 3, 20)
		assert.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Empty(t, empty)
	})

	t.Run("View counter increments on detail reads", func(t *testing.T) {
		first, err := repo.GetByIDIncrementView("1")
		assert.NoError(t, err)
		second, err := repo.GetByIDIncrementView("1")
		assert.NoError(t, err)
		assert.Equal(t, first.ViewCount+1, second.ViewCount)
	})

	t.Run("Adoption resolves the post", func(t *testing.T) {
		post, err := repo.AdoptReply("1", "r1")
		assert.NoError(t, err)
		assert.Equal(t, models.PostStatusResolved, post.Status)
		assert.True(t, post.FindReply("r1").IsAdopted)

		_, err = repo.AdoptReply("1", "missing")
		assert.Error(t, err)
	})

	t.Run("Reply like is a plain counter", func(t *testing.T) {
		before, err := repo.GetByID("2")
		assert.NoError(t, err)
		likes := before.FindReply("r2").Likes

		reply, err := repo.LikeReply("2", "r2")
		assert.NoError(t, err)
		assert.Equal(t, likes+1, reply.Likes)
	})
}

func TestMemoryUserRepository_SeedDataset(t *testing.T) {
	repo := NewMemoryUserRepository(SeedUsers())

	t.Run("Nickname search is case-insensitive substring", func(t *testing.T) {
		users, err := repo.SearchByNickname("张", 10)
		assert.NoError(t, err)
		assert.Len(t, users, 1)
		assert.Equal(t, "张三", users[0].Nickname)
	})

	t.Run("Stat counters increment independently", func(t *testing.T) {
		before, err := repo.GetByID("1")
		assert.NoError(t, err)

		assert.NoError(t, repo.IncrementStat("1", StatQuestions))
		assert.NoError(t, repo.IncrementStat("1", StatAdopted))

		after, err := repo.GetByID("1")
		assert.NoError(t, err)
		assert.Equal(t, before.Stats.QuestionsCount+1, after.Stats.QuestionsCount)
		assert.Equal(t, before.Stats.AnswersCount, after.Stats.AnswersCount)
		assert.Equal(t, before.Stats.AdoptedCount+1, after.Stats.AdoptedCount)
	})

	t.Run("Unknown user is tolerated", func(t *testing.T) {
		assert.NoError(t, repo.IncrementStat("ghost", StatAnswers))
	})
}
