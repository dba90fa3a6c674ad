package interview

import (
	"encoding/json"
	"strings"

	"github.com/Pavantej-HH/AI-Interview/internal/domain"
)

// stripFences removes a surrounding markdown code fence, if present. Models
// regularly wrap JSON payloads despite instructions not to.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// parseReply decodes a backend reply leniently. ok is false when the text is
// not valid JSON; callers then treat the raw text as the question itself.
// A missing should_continue field means continue.
func parseReply(raw string) (domain.DialogueReply, bool) {
	var aux struct {
		Evaluation     string       `json:"evaluation"`
		Score          int          `json:"score"`
		NextQuestion   string       `json:"next_question"`
		ShouldContinue *bool        `json:"should_continue"`
		InterviewStage domain.Stage `json:"interview_stage"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &aux); err != nil {
		return domain.DialogueReply{}, false
	}

	reply := domain.DialogueReply{
		Evaluation:     aux.Evaluation,
		Score:          aux.Score,
		NextQuestion:   aux.NextQuestion,
		ShouldContinue: aux.ShouldContinue == nil || *aux.ShouldContinue,
		InterviewStage: aux.InterviewStage,
	}
	if strings.TrimSpace(reply.NextQuestion) == "" {
		reply.NextQuestion = "Let's continue our discussion."
	}
	if reply.InterviewStage == "" {
		reply.InterviewStage = domain.StageMid
	}
	return reply, true
}
