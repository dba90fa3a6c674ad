package interview

import "strings"

// Policy sets the question-count thresholds that drive interview pacing and
// the phrases that count as a spoken request to stop.
type Policy struct {
	MinQuestions   int
	IdealQuestions int
	MaxQuestions   int
	StopPhrases    []string
}

func (p Policy) withDefaults() Policy {
	if p.MinQuestions <= 0 {
		p.MinQuestions = 4
	}
	if p.IdealQuestions <= 0 {
		p.IdealQuestions = 8
	}
	if p.MaxQuestions <= 0 {
		p.MaxQuestions = 10
	}
	if len(p.StopPhrases) == 0 {
		p.StopPhrases = DefaultStopPhrases()
	}
	return p
}

// DefaultStopPhrases returns the built-in stop-intent phrase list. Matching
// is case-insensitive substring containment.
func DefaultStopPhrases() []string {
	return []string{
		"stop the interview", "end the interview", "stop interview", "end interview",
		"finish interview", "conclude interview", "that's all", "i'm done", "no more questions",
	}
}

// HasStopIntent reports whether the utterance contains any stop phrase.
func HasStopIntent(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range phrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
