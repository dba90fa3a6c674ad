package interview

import (
	"testing"

	"github.com/Pavantej-HH/AI-Interview/internal/domain"
)

func TestParseReplyPlainJSON(t *testing.T) {
	t.Parallel()

	reply, ok := parseReply(`{"evaluation":"Strong answer","score":8,"next_question":"What about indexing?","should_continue":true,"interview_stage":"mid"}`)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if reply.Score != 8 || reply.NextQuestion != "What about indexing?" || !reply.ShouldContinue {
		t.Fatalf("unexpected reply: %+v", reply)
	}
}

func TestParseReplyStripsCodeFences(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"evaluation\":\"ok\",\"score\":5,\"next_question\":\"Next?\",\"should_continue\":false,\"interview_stage\":\"late\"}\n```"
	reply, ok := parseReply(raw)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if reply.ShouldContinue {
		t.Fatalf("expected should_continue=false to survive")
	}
	if reply.InterviewStage != domain.StageLate {
		t.Fatalf("unexpected stage: %q", reply.InterviewStage)
	}
}

func TestParseReplyDefaults(t *testing.T) {
	t.Parallel()

	reply, ok := parseReply(`{"evaluation":"fine","score":6}`)
	if !ok {
		t.Fatalf("expected parse to succeed")
	}
	if !reply.ShouldContinue {
		t.Fatalf("missing should_continue must default to continue")
	}
	if reply.NextQuestion == "" || reply.InterviewStage != domain.StageMid {
		t.Fatalf("unexpected defaults: %+v", reply)
	}
}

func TestParseReplyRejectsProse(t *testing.T) {
	t.Parallel()

	if _, ok := parseReply("That was a great answer. Tell me about goroutines."); ok {
		t.Fatalf("prose must not parse as a structured reply")
	}
}

func TestHasStopIntent(t *testing.T) {
	t.Parallel()

	phrases := DefaultStopPhrases()
	cases := []struct {
		text string
		want bool
	}{
		{"I think we should STOP the Interview now", true},
		{"that's all from my side", true},
		{"no more questions please", true},
		{"I stopped using MongoDB last year", false},
		{"let me finish my thought", false},
	}
	for _, tc := range cases {
		if got := HasStopIntent(tc.text, phrases); got != tc.want {
			t.Errorf("HasStopIntent(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestTransitionPools(t *testing.T) {
	t.Parallel()

	first := func(n int) int { return 0 }
	cases := []struct {
		evaluation string
		want       string
	}{
		{"Excellent grasp of concurrency", "Excellent. Q"},
		{"A fair attempt with partial coverage", "I see. Q"},
		{"The answer was unclear and incomplete", "Let me ask about... Q"},
		{"", "Alright. Q"},
	}
	for _, tc := range cases {
		if got := transition(tc.evaluation, "Q", first); got != tc.want {
			t.Errorf("transition(%q) = %q, want %q", tc.evaluation, got, tc.want)
		}
	}
}
