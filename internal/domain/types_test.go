package domain

import "testing"

func TestHistoryQuestionsAskedExcludesMetadata(t *testing.T) {
	t.Parallel()

	hist := History{
		SessionMetadata{QuestionType: "technical"},
		InterviewerTurn{Question: "What is a goroutine?"},
		CandidateTurn{Text: "A lightweight thread managed by the runtime."},
		InterviewerTurn{Question: "How do channels differ from mutexes?", Evaluation: "Good answer", Score: 7},
	}

	if got := hist.QuestionsAsked(); got != 2 {
		t.Fatalf("QuestionsAsked() = %d, want 2", got)
	}
	if got := (History{}).QuestionsAsked(); got != 0 {
		t.Fatalf("QuestionsAsked() on empty history = %d, want 0", got)
	}
	if got := (History{SessionMetadata{}}).QuestionsAsked(); got != 0 {
		t.Fatalf("QuestionsAsked() with only metadata = %d, want 0", got)
	}
}

func TestHistoryQAPairsCarryNextTurnEvaluation(t *testing.T) {
	t.Parallel()

	hist := History{
		SessionMetadata{},
		InterviewerTurn{Question: "Q1"},
		CandidateTurn{Text: "A1"},
		InterviewerTurn{Question: "Q2", Evaluation: "Solid grasp of Q1", Score: 8},
		CandidateTurn{Text: "A2"},
	}

	pairs := hist.QAPairs()
	if len(pairs) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(pairs))
	}
	if pairs[0].Score != 8 || pairs[0].Evaluation != "Solid grasp of Q1" {
		t.Fatalf("Q1 pair must carry the score from the following turn: %+v", pairs[0])
	}
	if pairs[1].Score != 0 || pairs[1].Evaluation != "Response received and being evaluated" {
		t.Fatalf("last answer has no follow-up turn to score it: %+v", pairs[1])
	}
}
