package interview

import "strings"

var (
	positiveTransitions = []string{"Excellent. ", "That's very good. ", "Well explained. ", "Good understanding. ", "Perfect. "}
	acceptedTransitions = []string{"I see. ", "Understood. ", "Alright. ", "Thank you. "}
	probingTransitions  = []string{"Let me ask about... ", "Could you clarify... ", "I'd like to understand... ", "Please explain... "}
	neutralTransitions  = []string{"Alright. ", "Thank you. ", "I understand. "}
)

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func transitionPool(evaluation string) []string {
	lower := strings.ToLower(evaluation)
	switch {
	case containsAny(lower, "excellent", "great", "good", "well", "correct", "strong", "impressive"):
		return positiveTransitions
	case containsAny(lower, "okay", "decent", "fair", "partial", "some", "adequate"):
		return acceptedTransitions
	case containsAny(lower, "unclear", "incomplete", "missing", "weak", "incorrect"):
		return probingTransitions
	default:
		return neutralTransitions
	}
}

// transition prefixes the next question with a short spoken phrase matching
// the tone of the evaluation. pick selects an index in [0, n).
func transition(evaluation, nextQuestion string, pick func(n int) int) string {
	pool := transitionPool(evaluation)
	return pool[pick(len(pool))] + nextQuestion
}
