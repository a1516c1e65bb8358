package sentiment

import "strings"

var negativeWords = []string{
	"angry", "frustrated", "disappointed", "terrible", "awful", "horrible",
	"worst", "hate", "broken", "useless", "unacceptable", "ridiculous",
	"annoyed", "upset", "furious",
}

var positiveWords = []string{
	"great", "excellent", "amazing", "love", "wonderful", "fantastic",
	"thank", "appreciate", "happy", "pleased", "perfect", "awesome",
}

// FallbackAnalysis classifies a ticket with a fixed keyword tally.
// It is deterministic and never fails.
func FallbackAnalysis(subject, description string) Analysis {
	text := strings.ToLower(subject + " " + description)
	negatives := matchWords(text, negativeWords)
	positives := matchWords(text, positiveWords)

	sentiment := Neutral
	score := 0.5
	switch {
	case len(negatives) > len(positives):
		sentiment = Negative
		score = 0.3
	case len(positives) > len(negatives):
		sentiment = Positive
		score = 0.7
	}

	urgency := UrgencyMedium
	if len(negatives) > 2 {
		urgency = UrgencyHigh
	}

	keyPhrases := make([]string, 0, len(negatives)+len(positives))
	keyPhrases = append(keyPhrases, negatives...)
	keyPhrases = append(keyPhrases, positives...)

	return Analysis{
		Sentiment:  sentiment,
		Score:      score,
		Confidence: 0.6,
		Emotions:   []string{emotionFor(sentiment)},
		Urgency:    urgency,
		KeyPhrases: keyPhrases,
	}
}

func matchWords(text string, words []string) []string {
	var out []string
	for _, w := range words {
		if strings.Contains(text, w) {
			out = append(out, w)
		}
	}
	return out
}

func emotionFor(s Sentiment) string {
	switch s {
	case Negative:
		return "frustrated"
	case Positive:
		return "satisfied"
	default:
		return "neutral"
	}
}
