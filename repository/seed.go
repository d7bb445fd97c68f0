package repository

import (
	"fmt"
	"time"

	"github.com/xuexuelaila/qa-community/models"
)

// Fixed fallback dataset served when the database is unreachable at startup.
// The extracted knowledge endpoints are unaffected (they stay file-backed).

// SeedUsers returns the fixed fallback users.
func SeedUsers() []*models.User {
	now := time.Now()
	return []*models.User{
		{
			ID:        "1",
			Nickname:  "张三",
			Role:      models.RoleMember,
			Stats:     models.UserStats{QuestionsCount: 5, AnswersCount: 12, AdoptedCount: 3},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "2",
			Nickname:  "李四",
			Role:      models.RoleAssistant,
			Stats:     models.UserStats{QuestionsCount: 2, AnswersCount: 45, AdoptedCount: 23},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:        "3",
			Nickname:  "王五",
			Role:      models.RoleCaptain,
			Stats:     models.UserStats{QuestionsCount: 1, AnswersCount: 89, AdoptedCount: 67},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// SeedQAs returns the fixed fallback knowledge records, comments included.
func SeedQAs() []*models.QAKnowledge {
	now := time.Now()

	qas := []*models.QAKnowledge{
		{
			ID:       "1",
			Date:     now,
			Question: "如何在Next.js 14中实现服务端渲染和客户端渲染的混合使用？",
			Answer: "在Next.js 14的App Router中，默认所有组件都是服务端组件。如果需要使用客户端特性（如useState、useEffect等），需要在文件顶部添加 \"use client\" 指令。\n\n" +
				"建议策略：\n1. 尽可能使用服务端组件，提升性能\n2. 只在需要交互的组件中使用 \"use client\"\n3. 将客户端组件拆分得更细粒度，减少客户端JavaScript体积",
			Category: models.CategoryPractical,
			Tags:     []string{"Next.js", "React", "SSR"},
			Alternatives: []models.Alternative{
				{Title: "性能优先方案", Content: "优先使用服务端组件，将所有数据获取逻辑放在服务端，客户端只负责交互。"},
				{Title: "开发效率方案", Content: "在开发阶段可以更多使用客户端组件，后期再优化为服务端组件。"},
			},
			OriginalChat: "用户: Next.js 14怎么用啊？\n助手: 你具体想实现什么功能？\n用户: 我想做一个既有SSR又有交互的页面\n助手: 那你需要了解App Router的使用方式...",
			Feedback:     models.Feedback{Useful: 15, Useless: 2},
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		{
			ID:       "2",
			Date:     now,
			Question: "MongoDB索引设计有哪些常见的坑？",
			Answer: "常见的坑包括：\n\n1. 过度索引：每个索引都会占用存储空间，并影响写入性能\n2. 索引顺序错误：复合索引的字段顺序很重要，应该把选择性高的字段放前面\n" +
				"3. 忽略覆盖索引：合理使用覆盖索引可以避免回表查询\n4. 不监控索引使用情况：定期检查未使用的索引并删除",
			Category:  models.CategoryPitfall,
			Tags:      []string{"MongoDB", "数据库", "索引优化"},
			Feedback:  models.Feedback{Useful: 23, Useless: 1},
			CreatedAt: now,
			UpdatedAt: now,
		},
		{
			ID:       "3",
			Date:     now,
			Question: "React中为什么要使用useCallback和useMemo？",
			Answer: "useCallback和useMemo是React性能优化的重要工具：\n\n**useCallback**: 缓存函数引用，避免子组件不必要的重渲染\n**useMemo**: 缓存计算结果，避免重复计算\n\n" +
				"使用场景：\n1. 传递给子组件的回调函数\n2. 依赖数组中的函数\n3. 昂贵的计算操作\n\n注意：不要过度优化，只在确实有性能问题时使用。",
			Category:  models.CategoryLogic,
			Tags:      []string{"React", "性能优化", "Hooks"},
			Feedback:  models.Feedback{Useful: 18, Useless: 0},
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	for index, qa := range qas {
		qa.Comments = seedComments(qa.ID, index, now)
	}
	return qas
}

func seedComments(qaID string, index int, now time.Time) []models.QAComment {
	likedUsers := []string{"u2"}
	if index%2 == 1 {
		likedUsers = []string{"u2", "u3"}
	}
	return []models.QAComment{
		{
			ID:           fmt.Sprintf("c_seed_%s_1", qaID),
			Author:       models.CommentAuthor{ID: "u1", Name: "学员A", Role: string(models.RoleMember)},
			Content:      "这个总结很实用，已经按步骤试了一遍。",
			Images:       []string{},
			Likes:        len(likedUsers),
			LikedUserIDs: likedUsers,
			Replies: []models.QAReply{
				{
					ID:           fmt.Sprintf("r_seed_%s_1", qaID),
					Author:       models.CommentAuthor{ID: "u2", Name: "助教小李", Role: string(models.RoleAssistant)},
					Content:      "如果遇到具体问题可以贴一下报错。",
					Images:       []string{},
					Likes:        1,
					LikedUserIDs: []string{"u1"},
					CreatedAt:    now,
				},
			},
			CreatedAt: now,
		},
		{
			ID:           fmt.Sprintf("c_seed_%s_2", qaID),
			Author:       models.CommentAuthor{ID: "u3", Name: "学员B", Role: string(models.RoleMember)},
			Content:      "有没有推荐的进一步学习资料？",
			Images:       []string{},
			Likes:        0,
			LikedUserIDs: []string{},
			Replies:      []models.QAReply{},
			CreatedAt:    now,
		},
	}
}

// SeedPosts returns the fixed fallback forum posts.
func SeedPosts() []*models.Post {
	now := time.Now()
	users := SeedUsers()

	return []*models.Post{
		{
			ID:       "1",
			AuthorID: "1",
			Author:   users[0].Snapshot(),
			Title:    "Next.js部署到Vercel后环境变量不生效",
			Content: models.PostContent{
				Stage:    "部署阶段",
				Problem:  "我在本地开发时环境变量都正常，但是部署到Vercel后发现环境变量读取不到，导致API调用失败。",
				Attempts: "已经在Vercel后台配置了环境变量，也重新部署了多次，但问题依然存在。",
			},
			Attachments: []models.Attachment{},
			Status:      models.PostStatusPending,
			Mentions:    []string{},
			Replies: []models.Reply{
				{
					ID:         "r1",
					AuthorID:   "2",
					Author:     users[1].Snapshot(),
					Content:    "你需要在环境变量前加上 NEXT_PUBLIC_ 前缀才能在客户端访问",
					IsAdopted:  false,
					Likes:      5,
					SubReplies: []models.SubReply{},
					CreatedAt:  now,
				},
			},
			ViewCount: 45,
			CreatedAt: now.Add(-2 * time.Hour),
			UpdatedAt: now,
		},
		{
			ID:       "2",
			AuthorID: "2",
			Author:   users[1].Snapshot(),
			Title:    "MongoDB聚合查询性能优化求助",
			Content: models.PostContent{
				Stage:    "开发阶段",
				Problem:  "需要对百万级数据进行聚合查询，但是查询速度很慢，经常超时。",
				Attempts: "已经添加了索引，但效果不明显。尝试过使用 $match 提前过滤，但还是很慢。",
			},
			Attachments: []models.Attachment{},
			Status:      models.PostStatusResolved,
			Mentions:    []string{},
			Replies: []models.Reply{
				{
					ID:         "r2",
					AuthorID:   "3",
					Author:     users[2].Snapshot(),
					Content:    "建议使用 $lookup 的时候限制返回字段，并且确保关联字段都有索引。另外可以考虑使用物化视图。",
					IsAdopted:  true,
					Likes:      12,
					SubReplies: []models.SubReply{},
					CreatedAt:  now,
				},
			},
			ViewCount: 128,
			CreatedAt: now.Add(-24 * time.Hour),
			UpdatedAt: now,
		},
	}
}
