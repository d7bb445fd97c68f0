package knowledge

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/xuexuelaila/qa-community/models"
)

const sampleDoc = `### Q1: 如何部署？
**标签:** #部署 #限流
**回答:**
先检查环境变量
再重新发布
---
`

func TestExtract_SingleBlock(t *testing.T) {
	qas := Extract(sampleDoc)

	assert.Len(t, qas, 1)
	qa := qas[0]
	assert.Equal(t, "extracted_1", qa.ID)
	assert.Equal(t, "如何部署？", qa.Question)
	assert.Equal(t, "先检查环境变量\n再重新发布", qa.Answer)
	assert.Equal(t, []string{"部署", "限流"}, qa.Tags)
	// 限流 是避坑类关键词
	assert.Equal(t, models.CategoryPitfall, qa.Category)
	assert.Equal(t, 0, qa.Feedback.Useful)
	assert.Equal(t, 0, qa.Feedback.Useless)
}

func TestExtract_EmptyInput(t *testing.T) {
	assert.Empty(t, Extract(""))
	assert.Empty(t, Extract("随便写点不是标题的内容\n也不会出记录"))
}

func TestExtract_Deterministic(t *testing.T) {
	doc := sampleDoc + "### Q2: 标题呢\n**回答:**\n内容\n"
	first := Extract(doc)
	second := Extract(doc)

	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Question, second[i].Question)
		assert.Equal(t, first[i].Answer, second[i].Answer)
		assert.Equal(t, first[i].Tags, second[i].Tags)
		assert.Equal(t, first[i].Category, second[i].Category)
	}
}

func TestExtract_MultiRecordOrdering(t *testing.T) {
	doc := `### Q1: 第一问
**回答:**
答一
### Q2: 第二问
**回答:**
答二
### Q3: 第三问
**回答:**
答三
`
	qas := Extract(doc)

	assert.Len(t, qas, 3)
	assert.Equal(t, "extracted_1", qas[0].ID)
	assert.Equal(t, "extracted_2", qas[1].ID)
	assert.Equal(t, "extracted_3", qas[2].ID)
	assert.Equal(t, "第一问", qas[0].Question)
	assert.Equal(t, "第三问", qas[2].Question)
	for _, qa := range qas {
		assert.NotEmpty(t, qa.Question)
	}
}

func TestExtract_TagLineOverwrites(t *testing.T) {
	doc := `### Q1: 标签覆盖
**标签:** #a #b
**标签:** #c
**回答:**
内容
`
	qas := Extract(doc)

	assert.Len(t, qas, 1)
	assert.Equal(t, []string{"c"}, qas[0].Tags)
}

func TestExtract_TagDuplicatesPreserved(t *testing.T) {
	doc := `### Q1: 重复标签
**标签:** #剪映 #素材 #剪映
**回答:**
内容
`
	qas := Extract(doc)

	assert.Equal(t, []string{"剪映", "素材", "剪映"}, qas[0].Tags)
}

func TestExtract_SourceLineNotInAnswer(t *testing.T) {
	doc := `### Q1: 来源测试
**回答:**
第一行
**来源:** 群聊 2024-05-11 教练解答
第二行
`
	qas := Extract(doc)

	assert.Len(t, qas, 1)
	assert.Equal(t, "第一行\n第二行", qas[0].Answer)
	assert.Contains(t, qas[0].OriginalChat, "群聊 2024-05-11 教练解答")
	assert.True(t, strings.HasPrefix(qas[0].OriginalChat, "来源："))
}

func TestExtract_BlankLinesDropped(t *testing.T) {
	doc := "### Q1: 空行\n**回答:**\n第一段\n\n\n第二段\n"
	qas := Extract(doc)

	// 空行不产生答案中的空段
	assert.Equal(t, "第一段\n第二段", qas[0].Answer)
}

func TestExtract_LinesBeforeAnswerMarkerIgnored(t *testing.T) {
	doc := `### Q1: 状态机
这一行在回答标记之前，应被丢弃
**回答:**
只有这行算数
`
	qas := Extract(doc)

	assert.Equal(t, "只有这行算数", qas[0].Answer)
}

func TestExtract_QuestionMarkerAlsoStartsAnswer(t *testing.T) {
	doc := `### Q1: 两种标记
**问题:**
这些行按回答收集
`
	qas := Extract(doc)

	assert.Equal(t, "这些行按回答收集", qas[0].Answer)
}

func TestExtract_EmptyAnswerRecordKept(t *testing.T) {
	doc := `### Q1: 有答案
**回答:**
内容
### Q2: 没有答案
**标签:** #素材
`
	qas := Extract(doc)

	assert.Len(t, qas, 2)
	assert.Equal(t, "", qas[1].Answer)
	assert.Equal(t, "没有答案", qas[1].Question)
}

func TestExtract_MalformedHeaderFallback(t *testing.T) {
	doc := `### Q: 没有序号
**回答:**
内容
`
	qas := Extract(doc)

	assert.Len(t, qas, 1)
	assert.Equal(t, "extracted_1", qas[0].ID)
	assert.Equal(t, "Q: 没有序号", qas[0].Question)
	assert.Equal(t, "内容", qas[0].Answer)
}

func TestClassify_Precedence(t *testing.T) {
	doc := `### Q1: 同时命中
**标签:** #避坑 #底层逻辑
**回答:**
内容
`
	qas := Extract(doc)

	// 避坑类优先于逻辑类
	assert.Equal(t, models.CategoryPitfall, qas[0].Category)
}

func TestClassify_Families(t *testing.T) {
	cases := []struct {
		name     string
		tag      string
		expected models.QACategory
	}{
		{"违规词命中避坑", "违规词", models.CategoryPitfall},
		{"限流命中避坑", "限流", models.CategoryPitfall},
		{"原理命中逻辑", "推荐原理", models.CategoryLogic},
		{"规则命中逻辑", "平台规则", models.CategoryLogic},
		{"普通标签默认实操", "剪映", models.CategoryPractical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := "### Q1: 分类\n**标签:** #" + tc.tag + "\n**回答:**\n内容\n"
			qas := Extract(doc)
			assert.Equal(t, tc.expected, qas[0].Category)
		})
	}
}

func TestClassify_NoTagsDefaultsPractical(t *testing.T) {
	doc := "### Q1: 无标签\n**回答:**\n内容\n"
	qas := Extract(doc)

	assert.Equal(t, models.CategoryPractical, qas[0].Category)
}

func TestExtract_MixedScriptTags(t *testing.T) {
	doc := "### Q1: 混合标签\n**标签:** #B站 #Next14 #视频号\n**回答:**\n内容\n"
	qas := Extract(doc)

	assert.Equal(t, []string{"B站", "Next14", "视频号"}, qas[0].Tags)
}

func TestTopTags(t *testing.T) {
	qas := []models.QAKnowledge{
		{Tags: []string{"剪映", "素材"}},
		{Tags: []string{"剪映", "限流"}},
		{Tags: []string{"剪映", "素材", "口令"}},
	}

	top := TopTags(qas, 2)
	assert.Equal(t, []string{"剪映", "素材"}, top)

	all := TopTags(qas, 10)
	assert.Equal(t, []string{"剪映", "素材", "限流", "口令"}, all)

	assert.Equal(t, []string{}, TopTags(nil, 5))
}

func TestBuildExtractedBrief(t *testing.T) {
	doc := `### Q1: 实操
**标签:** #剪映
**回答:**
内容
### Q2: 避坑
**标签:** #限流
**回答:**
内容
### Q3: 逻辑
**标签:** #推荐原理
**回答:**
内容
`
	qas := Extract(doc)
	now := time.Date(2024, 5, 11, 12, 0, 0, 0, time.UTC)
	brief := BuildExtractedBrief(qas, now)

	assert.Equal(t, now, brief.Date)
	assert.Equal(t, 3, brief.TotalQuestions)
	assert.Equal(t, 3, brief.TotalAnswers)
	assert.Contains(t, brief.Summary, "本次从群聊中提取了3条核心知识")
	assert.Contains(t, brief.Summary, "1个实操技巧")
	assert.Contains(t, brief.Summary, "1个避坑指南")
	assert.Contains(t, brief.Summary, "1个底层逻辑")
	assert.Equal(t, []string{"剪映", "限流", "推荐原理"}, brief.TopTags)
}
