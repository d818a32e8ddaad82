package summarizer

import (
	"math"
	"sort"
	"strings"

	"wikichat/internal/domain"
)

// FrequencySummarizer ranks sentences by normalized token frequency.
type FrequencySummarizer struct {
	normalizer domain.Normalizer
}

var _ domain.Summarizer = (*FrequencySummarizer)(nil)

// NewFrequencySummarizer creates a frequency-based sentence ranker summarizer.
func NewFrequencySummarizer(normalizer domain.Normalizer) *FrequencySummarizer {
	return &FrequencySummarizer{normalizer: normalizer}
}

// Summarize picks the maxSentences highest scoring sentences and returns
// them in their original order.
func (s *FrequencySummarizer) Summarize(sentences []string, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = 5
	}
	if len(sentences) == 0 {
		return ""
	}
	tokens := make([][]string, len(sentences))
	// Compute word frequencies
	freq := map[string]float64{}
	for i, sent := range sentences {
		tokens[i] = s.normalizer.Normalize(sent)
		for _, tok := range tokens[i] {
			freq[tok]++
		}
	}
	// Normalize frequencies
	maxF := 0.0
	for _, v := range freq {
		if v > maxF {
			maxF = v
		}
	}
	if maxF > 0 {
		for k, v := range freq {
			freq[k] = v / maxF
		}
	}
	type pair struct {
		idx   int
		score float64
	}
	scores := make([]pair, len(sentences))
	for i := range sentences {
		sscore := 0.0
		for _, tok := range tokens[i] {
			sscore += freq[tok]
		}
		// Normalize by sentence length to avoid bias
		if l := float64(len(tokens[i])); l > 0 {
			sscore /= math.Sqrt(l)
		}
		scores[i] = pair{i, sscore}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].score > scores[j].score })
	if maxSentences > len(scores) {
		maxSentences = len(scores)
	}
	// Keep original order among selected
	selected := make([]int, maxSentences)
	for i := 0; i < maxSentences; i++ {
		selected[i] = scores[i].idx
	}
	sort.Ints(selected)
	out := make([]string, 0, len(selected))
	for _, idx := range selected {
		out = append(out, strings.TrimSpace(sentences[idx]))
	}
	return strings.Join(out, " ")
}
