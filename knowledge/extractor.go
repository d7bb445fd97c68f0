// Package knowledge turns the semi-structured Markdown knowledge base exported
// from the group chat into structured QAKnowledge records.
package knowledge

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/xuexuelaila/qa-community/models"
)

// Recognized line markers of the knowledge-base format.
const (
	headerPrefix       = "### Q"   // ### Q3: 如何xxx？
	tagLinePrefix      = "**标签:**" // **标签:** #剪映 #素材
	answerLinePrefix   = "**回答:**"
	questionLinePrefix = "**问题:**"
	sourceLinePrefix   = "**来源:**"
	separatorLine      = "---"
)

var (
	headerPattern = regexp.MustCompile(`^### Q(\d+):\s*(.+)`)
	// 标签token：# 后跟中文/字母/数字
	tagPattern = regexp.MustCompile(`#[\x{4e00}-\x{9fa5}a-zA-Z0-9]+`)
)

// Tag keyword families for the classification post-pass. Pitfall keywords are
// checked first; a record matching both families is pitfall.
var (
	pitfallKeywords = []string{"避坑", "违规", "限流"}
	logicKeywords   = []string{"逻辑", "原理", "规则"}
)

type section int

const (
	sectionNone section = iota
	sectionQuestion
	sectionAnswer
)

// Extract parses the Markdown knowledge base into ordered QAKnowledge records.
// It is pure and deterministic for a given input: no I/O, no shared state, no
// errors for malformed text (unrecognized lines are dropped). Records with an
// empty answer are kept; only a matched question header opens a record, so every
// emitted record has a non-empty question.
func Extract(markdown string) []models.QAKnowledge {
	qaList := make([]models.QAKnowledge, 0)
	var current *models.QAKnowledge
	state := sectionNone
	now := time.Now()

	for _, raw := range strings.Split(markdown, "\n") {
		line := strings.TrimSpace(raw)

		switch {
		// 问题标题 ### Q1: xxx
		case strings.HasPrefix(line, headerPrefix):
			if current != nil {
				qaList = append(qaList, *current)
			}
			current = openRecord(line, len(qaList)+1, now)
			state = sectionQuestion

		// 标签行，整行重新赋值（后写覆盖前写）
		case strings.HasPrefix(line, tagLinePrefix):
			if current != nil {
				if tokens := tagPattern.FindAllString(line, -1); tokens != nil {
					tags := make([]string, 0, len(tokens))
					for _, token := range tokens {
						tags = append(tags, token[1:])
					}
					current.Tags = tags
				}
			}

		// 回答部分开始
		case strings.HasPrefix(line, answerLinePrefix) || strings.HasPrefix(line, questionLinePrefix):
			state = sectionAnswer

		// 来源行：记入原始出处，绝不并入答案正文
		case strings.HasPrefix(line, sourceLinePrefix):
			if current != nil {
				source := strings.TrimSpace(strings.TrimPrefix(line, sourceLinePrefix))
				current.OriginalChat = fmt.Sprintf("来源：%s\n\n这是从群聊中提取的知识点，由以上教练/助教在群内解答。", source)
			}

		// 分隔线
		case line == separatorLine:
			// skip

		// 收集答案内容；空行与未进入回答状态的行被丢弃
		default:
			if state == sectionAnswer && line != "" && current != nil {
				if current.Answer != "" {
					current.Answer += "\n" + line
				} else {
					current.Answer = line
				}
			}
		}
	}

	// 最后一个QA没有下一个标题触发入列
	if current != nil {
		qaList = append(qaList, *current)
	}

	classify(qaList)
	return qaList
}

// openRecord starts a fresh record from a header line. When the full
// `Q<n>: <title>` pattern fails, the record still opens with a sequential
// ordinal and the header text after "### " as the question.
func openRecord(line string, fallbackOrdinal int, now time.Time) *models.QAKnowledge {
	id := fmt.Sprintf("extracted_%d", fallbackOrdinal)
	question := strings.TrimSpace(strings.TrimPrefix(line, "### "))
	if m := headerPattern.FindStringSubmatch(line); m != nil {
		id = "extracted_" + m[1]
		question = m[2]
	}
	return &models.QAKnowledge{
		ID:        id,
		Question:  question,
		Answer:    "",
		Tags:      []string{},
		Category:  models.CategoryPractical,
		Feedback:  models.Feedback{Useful: 0, Useless: 0},
		Comments:  []models.QAComment{},
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// classify runs once over the complete list, after parsing. Case-sensitive
// substring match against the keyword families, pitfall before logic.
func classify(qas []models.QAKnowledge) {
	for i := range qas {
		switch {
		case tagsContainAny(qas[i].Tags, pitfallKeywords):
			qas[i].Category = models.CategoryPitfall
		case tagsContainAny(qas[i].Tags, logicKeywords):
			qas[i].Category = models.CategoryLogic
		default:
			qas[i].Category = models.CategoryPractical
		}
	}
}

func tagsContainAny(tags []string, keywords []string) bool {
	for _, tag := range tags {
		for _, keyword := range keywords {
			if strings.Contains(tag, keyword) {
				return true
			}
		}
	}
	return false
}

// TopTags returns the n most frequent tags across the records, most frequent
// first, ties broken by first appearance.
func TopTags(qas []models.QAKnowledge, n int) []string {
	counts := make(map[string]int)
	order := make(map[string]int)
	var tags []string
	for _, qa := range qas {
		for _, tag := range qa.Tags {
			if _, seen := counts[tag]; !seen {
				order[tag] = len(tags)
				tags = append(tags, tag)
			}
			counts[tag]++
		}
	}
	sort.SliceStable(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return order[tags[i]] < order[tags[j]]
	})
	if len(tags) > n {
		tags = tags[:n]
	}
	if tags == nil {
		tags = []string{}
	}
	return tags
}

// BuildExtractedBrief aggregates extracted records into the overview payload:
// top tags, per-category counts and the summary sentence.
func BuildExtractedBrief(qas []models.QAKnowledge, now time.Time) models.DailyBrief {
	topTags := TopTags(qas, 5)

	counts := make(map[models.QACategory]int)
	for _, qa := range qas {
		counts[qa.Category]++
	}

	var categoryTexts []string
	if counts[models.CategoryPractical] > 0 {
		categoryTexts = append(categoryTexts, fmt.Sprintf("%d个实操技巧", counts[models.CategoryPractical]))
	}
	if counts[models.CategoryPitfall] > 0 {
		categoryTexts = append(categoryTexts, fmt.Sprintf("%d个避坑指南", counts[models.CategoryPitfall]))
	}
	if counts[models.CategoryLogic] > 0 {
		categoryTexts = append(categoryTexts, fmt.Sprintf("%d个底层逻辑", counts[models.CategoryLogic]))
	}

	head := topTags
	if len(head) > 3 {
		head = head[:3]
	}

	summary := fmt.Sprintf("本次从群聊中提取了%d条核心知识，包括%s，涵盖%s等多个领域的实战经验。",
		len(qas), strings.Join(categoryTexts, "、"), strings.Join(head, "、"))

	return models.DailyBrief{
		Date:           now,
		Summary:        summary,
		TotalQuestions: len(qas),
		TotalAnswers:   len(qas),
		TopTags:        topTags,
	}
}
