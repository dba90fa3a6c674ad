package domain

// InterviewState models the lifecycle of one interview session.
type InterviewState string

const (
	InterviewStateIdle    InterviewState = "idle"
	InterviewStateRunning InterviewState = "running"
	InterviewStateEnding  InterviewState = "ending"
	InterviewStateClosed  InterviewState = "closed"
)

// Stage is the coarse interview progress tag the dialogue backend reports.
type Stage string

const (
	StageEarly Stage = "early"
	StageMid   Stage = "mid"
	StageLate  Stage = "late"
)

// ErrorCode identifies non-fatal backend errors surfaced on the event channel.
type ErrorCode string

const (
	ErrorCodeStartup       ErrorCode = "startup"
	ErrorCodeAlreadyActive ErrorCode = "already_active"
	ErrorCodeAudioStream   ErrorCode = "audio_stream"
	ErrorCodeTranscription ErrorCode = "transcription"
	ErrorCodeDialogue      ErrorCode = "dialogue"
	ErrorCodeSynthesis     ErrorCode = "synthesis"
)

// TranscriptKind identifies whether a stream event is partial or final text.
type TranscriptKind string

const (
	TranscriptKindPartial TranscriptKind = "partial"
	TranscriptKindFinal   TranscriptKind = "final"
)

// TranscriptEvent represents incremental recognition output from a provider.
type TranscriptEvent struct {
	Kind TranscriptKind `json:"kind"`
	Text string         `json:"text"`
}

// HistoryEntry is one record in a session's turn history. The variant set is
// closed: SessionMetadata, InterviewerTurn or CandidateTurn.
type HistoryEntry interface {
	historyEntry()
}

// SessionMetadata is always the first history entry, written once at start.
type SessionMetadata struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jd"`
	QuestionType   string `json:"question_type"`
}

// InterviewerTurn carries a question plus the evaluation and score of the
// candidate answer that preceded it. Score 0 means unscored.
type InterviewerTurn struct {
	Question   string `json:"question"`
	Evaluation string `json:"evaluation,omitempty"`
	Score      int    `json:"score,omitempty"`
}

// CandidateTurn is one transcribed candidate utterance.
type CandidateTurn struct {
	Text string `json:"text"`
}

func (SessionMetadata) historyEntry() {}
func (InterviewerTurn) historyEntry() {}
func (CandidateTurn) historyEntry()   {}

// History is an append-only sequence of turn entries. Entry 0 is always the
// SessionMetadata; the evaluation and score of answer N live on the
// InterviewerTurn at N+1, not N.
type History []HistoryEntry

// Metadata returns the leading SessionMetadata entry, if present.
func (h History) Metadata() (SessionMetadata, bool) {
	if len(h) == 0 {
		return SessionMetadata{}, false
	}
	meta, ok := h[0].(SessionMetadata)
	return meta, ok
}

// QuestionsAsked counts InterviewerTurn entries. The metadata entry never
// counts toward question thresholds.
func (h History) QuestionsAsked() int {
	count := 0
	for _, entry := range h {
		if _, ok := entry.(InterviewerTurn); ok {
			count++
		}
	}
	return count
}

// QAPair is one question/answer unit assembled for the report.
type QAPair struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Score      int    `json:"score"`
	Evaluation string `json:"evaluation"`
}

// QAPairs pairs each interviewer question with the candidate answer that
// follows it and the evaluation/score carried on the next interviewer turn
// after that answer. Questions without an answer are skipped.
func (h History) QAPairs() []QAPair {
	pairs := make([]QAPair, 0, len(h)/2)
	for i := 1; i < len(h); i++ {
		turn, ok := h[i].(InterviewerTurn)
		if !ok {
			continue
		}
		if i+1 >= len(h) {
			break
		}
		answer, ok := h[i+1].(CandidateTurn)
		if !ok {
			continue
		}

		pair := QAPair{
			Question:   turn.Question,
			Answer:     answer.Text,
			Evaluation: "Response received and being evaluated",
		}
		if i+2 < len(h) {
			if next, ok := h[i+2].(InterviewerTurn); ok {
				pair.Score = next.Score
				if next.Evaluation != "" {
					pair.Evaluation = next.Evaluation
				}
			}
		}
		pairs = append(pairs, pair)
	}
	return pairs
}

// DialogueReply is the structured payload expected from the dialogue backend
// after each candidate answer.
type DialogueReply struct {
	Evaluation     string `json:"evaluation"`
	Score          int    `json:"score"`
	NextQuestion   string `json:"next_question"`
	ShouldContinue bool   `json:"should_continue"`
	InterviewStage Stage  `json:"interview_stage"`
}

// AIMessage is the payload of an outbound ai_message event. Optional fields
// are pointers so each orchestrator branch controls exactly which fields
// appear on the wire.
type AIMessage struct {
	Text                 string  `json:"text"`
	Audio                string  `json:"audio"`
	Evaluation           *string `json:"evaluation,omitempty"`
	Score                *int    `json:"score,omitempty"`
	QuestionNumber       int     `json:"question_number,omitempty"`
	InterviewStage       Stage   `json:"interview_stage,omitempty"`
	ShouldContinue       *bool   `json:"should_continue,omitempty"`
	RequiresConfirmation bool    `json:"requires_confirmation,omitempty"`
	IsFinal              bool    `json:"is_final,omitempty"`
}
