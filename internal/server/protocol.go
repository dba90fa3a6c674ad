package server

import (
	"github.com/Pavantej-HH/AI-Interview/internal/domain"
)

// Inbound frame types accepted on the websocket.
const (
	frameStartInterview = "start_interview"
	frameAudioChunk     = "audio_chunk"
	frameAISpeechEnded  = "ai_speech_ended"
	frameStopInterview  = "stop_interview"
)

// Outbound frame types emitted on the websocket.
const (
	frameInfo                = "info"
	frameError               = "error"
	frameInterimTranscript   = "interim_transcript"
	frameFinalTranscriptPart = "final_transcript_part"
	frameUserTranscript      = "user_transcript"
	frameAIMessage           = "ai_message"
	frameInterviewComplete   = "interview_complete"
)

// inboundFrame is the union of all client payloads; Type selects which
// fields are meaningful.
type inboundFrame struct {
	Type         string `json:"type"`
	Resume       string `json:"resume,omitempty"`
	JobDesc      string `json:"jd,omitempty"`
	QuestionType string `json:"question_type,omitempty"`
	Audio        string `json:"audio,omitempty"`
}

type infoFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorFrame struct {
	Type    string           `json:"type"`
	Code    domain.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

type textFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type aiMessageFrame struct {
	Type string `json:"type"`
	domain.AIMessage
}

type reportFrame struct {
	Type   string        `json:"type"`
	Report domain.Report `json:"report"`
}
