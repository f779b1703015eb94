// Package advisor derives task-creation suggestions from message text and
// performs the one-to-one message-to-task conversion. The text heuristics
// are pure functions: a failed match degrades to no suggestion, never to
// an error.
package advisor

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/s21platform/messenger-service/internal/model"
)

var imperativeOpeners = []string{
	"please",
	"pls",
	"can you",
	"could you",
	"would you",
	"kindly",
	"don't forget",
	"remember to",
}

// priorityTable is ordered: the first bucket with a match wins.
var priorityTable = []struct {
	priority string
	terms    []string
}{
	{model.PriorityUrgent, []string{"urgent", "asap", "immediately", "critical", "emergency", "right away"}},
	{model.PriorityHigh, []string{"important", "high priority", "by end of day", "eod", "quickly", "soon"}},
	{model.PriorityNormal, []string{"normal priority", "when you can"}},
	{model.PriorityLow, []string{"low priority", "no rush", "whenever", "eventually", "someday"}},
}

// Ordered so that a message naming several weekdays always resolves to
// the same one.
var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "her": {}, "was": {}, "one": {},
	"our": {}, "out": {}, "his": {}, "has": {}, "have": {}, "this": {},
	"that": {}, "with": {}, "they": {}, "from": {}, "will": {}, "would": {},
	"there": {}, "their": {}, "what": {}, "about": {}, "which": {},
	"when": {}, "make": {}, "like": {}, "time": {}, "just": {}, "know": {},
	"take": {}, "into": {}, "your": {}, "some": {}, "could": {}, "them": {},
	"than": {}, "then": {}, "also": {}, "please": {}, "need": {}, "should": {},
}

var (
	inDaysPattern   = regexp.MustCompile(`\bin (\d{1,3}) days?\b`)
	sentenceEnd     = regexp.MustCompile(`[.!?\n]`)
	wordPattern     = regexp.MustCompile(`[a-zA-Z][a-zA-Z'-]{2,}`)
	mentionStripper = regexp.MustCompile(`@[\w.+-]+@[\w-]+(?:\.[\w-]+)+`)
)

// SuggestTitle returns the first sentence when the message opens with an
// imperative phrase, and the first ten words otherwise.
func SuggestTitle(content string) string {
	content = strings.TrimSpace(content)
	lower := strings.ToLower(content)

	for _, opener := range imperativeOpeners {
		if strings.HasPrefix(lower, opener) {
			if loc := sentenceEnd.FindStringIndex(content); loc != nil {
				return strings.TrimSpace(content[:loc[0]])
			}
			return content
		}
	}

	words := strings.Fields(content)
	if len(words) > 10 {
		words = words[:10]
	}
	return strings.Join(words, " ")
}

// SuggestPriority picks the first matching bucket of the ordered keyword
// table and defaults to normal.
func SuggestPriority(content string) string {
	lower := strings.ToLower(content)
	for _, bucket := range priorityTable {
		for _, term := range bucket.terms {
			if strings.Contains(lower, term) {
				return bucket.priority
			}
		}
	}
	return model.PriorityNormal
}

// SuggestDueDate resolves relative date phrases against now. No match
// means no suggestion; the advisor never guesses a date.
func SuggestDueDate(content string, now time.Time) *time.Time {
	lower := strings.ToLower(content)
	day := func(offset int) *time.Time {
		due := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, offset)
		return &due
	}

	switch {
	case strings.Contains(lower, "today"):
		return day(0)
	case strings.Contains(lower, "tomorrow"):
		return day(1)
	case strings.Contains(lower, "next week"):
		return day(7)
	}

	if match := inDaysPattern.FindStringSubmatch(lower); match != nil {
		offset := 0
		for _, digit := range match[1] {
			offset = offset*10 + int(digit-'0')
		}
		return day(offset)
	}

	for _, weekday := range weekdays {
		if !strings.Contains(lower, weekday.name) {
			continue
		}
		offset := (int(weekday.day) - int(now.Weekday()) + 7) % 7
		if offset == 0 {
			offset = 7
		}
		return day(offset)
	}

	return nil
}

// SuggestKeywords returns the five most frequent content words after
// stop-word removal, ties broken by first occurrence.
func SuggestKeywords(content string) []string {
	content = mentionStripper.ReplaceAllString(content, "")

	counts := make(map[string]int)
	firstSeen := make(map[string]int)

	for i, word := range wordPattern.FindAllString(strings.ToLower(content), -1) {
		if _, skip := stopWords[word]; skip {
			continue
		}
		counts[word]++
		if _, seen := firstSeen[word]; !seen {
			firstSeen[word] = i
		}
	}

	keywords := make([]string, 0, len(counts))
	for word := range counts {
		keywords = append(keywords, word)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return firstSeen[keywords[i]] < firstSeen[keywords[j]]
	})

	if len(keywords) > 5 {
		keywords = keywords[:5]
	}
	return keywords
}
