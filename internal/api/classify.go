package api

import "strings"

// topicKeywords maps claim keywords to voting/resolution topics. First
// match per topic wins; a claim can carry several topics.
var topicKeywords = []struct {
	topic    string
	keywords []string
}{
	{"Technology", []string{"tech", "ai", "software", "app", "startup", "smartphone"}},
	{"Finance", []string{"market", "stock", "finance", "economy", "rbi", "rupee", "inflation"}},
	{"Sports", []string{"cricket", "sports", "ipl", "olympics", "football"}},
	{"India", []string{"mumbai", "india", "delhi", "bangalore", "chennai"}},
}

// ClassifyTopics assigns topics to a claim by keyword scan, falling back
// to General when nothing matches
func ClassifyTopics(prompt string) []string {
	lower := strings.ToLower(prompt)

	var topics []string
	for _, entry := range topicKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				topics = append(topics, entry.topic)
				break
			}
		}
	}
	if len(topics) == 0 {
		topics = []string{"General"}
	}
	return topics
}
