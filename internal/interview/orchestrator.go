package interview

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"

	"github.com/Pavantej-HH/AI-Interview/internal/domain"
	"github.com/Pavantej-HH/AI-Interview/internal/ports"
)

// SpeechController is the slice of the transcription pipeline the
// orchestrator drives: lifecycle plus turn-taking mute control.
type SpeechController interface {
	Start(ctx context.Context)
	Stop()
	Mute()
	Unmute()
	IsRunning() bool
}

// Finisher runs the closing sequence: closing message, report assembly and
// deferred delivery. It receives a snapshot of the history at end time.
type Finisher interface {
	Finish(ctx context.Context, hist domain.History, questionsAsked int, userInitiated bool)
}

// Orchestrator is one session's dialogue state machine. It owns the turn
// history and decides, per candidate utterance, whether to ask the next
// question, confirm an early stop, or end the interview.
type Orchestrator struct {
	sessionID string
	policy    Policy
	speech    SpeechController
	backend   ports.DialogueBackend
	tts       ports.Synthesizer
	events    ports.EventSink
	finisher  Finisher
	clean     func(string) string
	pick      func(n int) int
	logger    *slog.Logger

	mu    sync.Mutex
	state domain.InterviewState
	hist  domain.History
}

// Options carries the optional orchestrator hooks. Zero values select the
// defaults: no transcript cleanup and uniformly random transition phrases.
type Options struct {
	Clean func(string) string
	Pick  func(n int) int
}

func NewOrchestrator(sessionID string, policy Policy, speech SpeechController, backend ports.DialogueBackend,
	tts ports.Synthesizer, events ports.EventSink, finisher Finisher, logger *slog.Logger, opts Options) *Orchestrator {
	if opts.Clean == nil {
		opts.Clean = func(s string) string { return s }
	}
	if opts.Pick == nil {
		opts.Pick = rand.Intn
	}
	return &Orchestrator{
		sessionID: sessionID,
		policy:    policy.withDefaults(),
		speech:    speech,
		backend:   backend,
		tts:       tts,
		events:    events,
		finisher:  finisher,
		clean:     opts.Clean,
		pick:      opts.Pick,
		logger:    logger,
		state:     domain.InterviewStateIdle,
	}
}

// State reports the current lifecycle state.
func (o *Orchestrator) State() domain.InterviewState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// History returns a snapshot of the turn history.
func (o *Orchestrator) History() domain.History {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append(domain.History(nil), o.hist...)
}

// StartInterview begins a new interview: it records the session metadata,
// asks the backend for an opening question and speaks it. Audio capture does
// not start until the client reports the opening speech has finished playing.
func (o *Orchestrator) StartInterview(ctx context.Context, meta domain.SessionMetadata) {
	o.mu.Lock()
	if o.state == domain.InterviewStateRunning {
		o.mu.Unlock()
		o.events.Error(domain.ErrorCodeAlreadyActive, "Interview already running")
		return
	}
	o.state = domain.InterviewStateRunning
	o.hist = domain.History{meta}
	o.mu.Unlock()

	question, err := o.backend.Generate(ctx, openingPrompt(meta))
	question = strings.TrimSpace(question)
	if err != nil || question == "" {
		if err != nil {
			o.logger.Warn("opening question fell back to default", "session_id", o.sessionID, "error", err)
		}
		question = defaultOpeningQuestion
	}

	o.append(domain.InterviewerTurn{Question: question})

	shouldContinue := true
	o.events.AIMessage(domain.AIMessage{
		Text:           question,
		Audio:          o.synthesize(ctx, question),
		QuestionNumber: 1,
		InterviewStage: domain.StageEarly,
		ShouldContinue: &shouldContinue,
	})
	o.logger.Info("interview started", "session_id", o.sessionID, "question_type", meta.QuestionType)
}

// AISpeechEnded is the client's signal that playback of the last message
// finished. The first one starts audio capture; later ones reopen the mic
// after a question was spoken.
func (o *Orchestrator) AISpeechEnded(ctx context.Context) {
	o.mu.Lock()
	running := o.state == domain.InterviewStateRunning
	o.mu.Unlock()
	if !running {
		return
	}
	if !o.speech.IsRunning() {
		o.speech.Start(ctx)
		return
	}
	o.speech.Unmute()
}

// StopInterview force-stops the session without the closing sequence.
func (o *Orchestrator) StopInterview() {
	o.mu.Lock()
	if o.state != domain.InterviewStateRunning {
		o.mu.Unlock()
		return
	}
	o.state = domain.InterviewStateClosed
	o.mu.Unlock()

	o.speech.Stop()
	o.events.Info("Interview ended")
	o.logger.Info("interview stopped", "session_id", o.sessionID)
}

// HandleUtterance processes one silence-segmented candidate utterance
// through the full turn: cleanup, stop-intent check, evaluation, and either
// the next question or the closing sequence.
func (o *Orchestrator) HandleUtterance(ctx context.Context, raw string) {
	o.mu.Lock()
	running := o.state == domain.InterviewStateRunning
	o.mu.Unlock()
	if !running {
		return
	}

	text := strings.TrimSpace(o.clean(raw))
	if len(text) < 3 {
		o.speech.Unmute()
		return
	}

	if HasStopIntent(text, o.policy.StopPhrases) {
		asked := o.questionsAsked()
		if asked >= o.policy.MinQuestions {
			o.end(ctx, asked, true)
			return
		}
		// Too early to stop; ask the candidate to confirm and keep the mic
		// closed until they answer the confirmation aloud.
		o.speech.Mute()
		msg := confirmationMessage(asked, o.policy.MinQuestions)
		o.events.AIMessage(domain.AIMessage{
			Text:                 msg,
			Audio:                o.synthesize(ctx, msg),
			RequiresConfirmation: true,
		})
		return
	}

	o.speech.Mute()
	o.append(domain.CandidateTurn{Text: text})
	o.events.UserTranscript(text)

	asked := o.questionsAsked()
	if asked >= o.policy.MaxQuestions {
		o.end(ctx, asked, false)
		return
	}

	rawReply, err := o.backend.Generate(ctx, nextTurnPrompt(o.History(), text, o.policy))
	if err != nil || strings.TrimSpace(rawReply) == "" {
		if err != nil {
			o.logger.Warn("dialogue backend failed, using fallback turn", "session_id", o.sessionID, "error", err)
		}
		o.speakTurn(ctx, fallbackReply(), asked)
		return
	}

	reply, ok := parseReply(rawReply)
	if !ok {
		// Unparseable reply: speak the raw text as the question, unscored.
		question := strings.TrimSpace(rawReply)
		o.logger.Warn("dialogue reply was not JSON", "session_id", o.sessionID, "preview", preview(question))
		o.append(domain.InterviewerTurn{Question: question})
		o.events.AIMessage(domain.AIMessage{
			Text:           question,
			Audio:          o.synthesize(ctx, question),
			QuestionNumber: asked + 1,
		})
		return
	}

	if !reply.ShouldContinue && asked >= o.policy.MinQuestions {
		o.append(domain.InterviewerTurn{Question: reply.NextQuestion, Evaluation: reply.Evaluation, Score: reply.Score})
		o.end(ctx, asked+1, false)
		return
	}
	o.speakTurn(ctx, reply, asked)
}

// speakTurn records the interviewer turn and emits it with a conversational
// transition phrase prefixed to the question.
func (o *Orchestrator) speakTurn(ctx context.Context, reply domain.DialogueReply, askedBefore int) {
	o.append(domain.InterviewerTurn{Question: reply.NextQuestion, Evaluation: reply.Evaluation, Score: reply.Score})

	spoken := transition(reply.Evaluation, reply.NextQuestion, o.pick)
	evaluation := reply.Evaluation
	score := reply.Score
	shouldContinue := reply.ShouldContinue
	o.events.AIMessage(domain.AIMessage{
		Text:           spoken,
		Audio:          o.synthesize(ctx, spoken),
		Evaluation:     &evaluation,
		Score:          &score,
		QuestionNumber: askedBefore + 1,
		InterviewStage: reply.InterviewStage,
		ShouldContinue: &shouldContinue,
	})
}

// end stops capture, marks the session ending and hands off to the closing
// sequence with a history snapshot.
func (o *Orchestrator) end(ctx context.Context, questionsAsked int, userInitiated bool) {
	o.speech.Stop()

	o.mu.Lock()
	o.state = domain.InterviewStateEnding
	snapshot := append(domain.History(nil), o.hist...)
	o.mu.Unlock()

	o.logger.Info("interview ending", "session_id", o.sessionID,
		"questions_asked", questionsAsked, "user_initiated", userInitiated)
	o.finisher.Finish(ctx, snapshot, questionsAsked, userInitiated)

	// Report assembly and delivery continue in the background; the dialogue
	// itself is over once the closing sequence is dispatched.
	o.mu.Lock()
	o.state = domain.InterviewStateClosed
	o.mu.Unlock()
}

func (o *Orchestrator) append(entry domain.HistoryEntry) {
	o.mu.Lock()
	o.hist = append(o.hist, entry)
	o.mu.Unlock()
}

func (o *Orchestrator) questionsAsked() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.hist.QuestionsAsked()
}

// synthesize returns base64 audio for the text, or empty audio on failure so
// the text message still reaches the client.
func (o *Orchestrator) synthesize(ctx context.Context, text string) string {
	audio, err := o.tts.Synthesize(ctx, text)
	if err != nil {
		o.logger.Warn("speech synthesis failed", "session_id", o.sessionID, "error", err)
		o.events.Error(domain.ErrorCodeSynthesis, "Speech synthesis unavailable")
		return ""
	}
	return audio
}

func preview(s string) string {
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}
