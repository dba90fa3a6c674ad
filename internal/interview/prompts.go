package interview

import (
	"fmt"
	"strings"

	"github.com/Pavantej-HH/AI-Interview/internal/domain"
)

const defaultOpeningQuestion = "Good morning. I'm Tara, Senior Technical Interviewer at Hiringhood. " +
	"Thank you for taking the time to speak with us today. I'll be conducting your technical interview " +
	"to assess your qualifications for this position. To begin, I'd like you to provide a comprehensive " +
	"introduction about yourself, covering your educational background, professional experience, and key technical skills."

func openingPrompt(meta domain.SessionMetadata) string {
	return fmt.Sprintf(`You are Tara, a senior technical interviewer at Hiringhood. Conduct a comprehensive, professional technical interview.

CANDIDATE RESUME:
%s

JOB REQUIREMENTS:
%s

INTERVIEW TYPE: %s

**OPENING GUIDELINES:**
Start with a warm, professional greeting based on time of day

Introduce yourself as Tara, Senior Technical Interviewer at Hiringhood

Express appreciation for the candidate's time

Clearly state the interview purpose: assessing qualifications for the position

Request a comprehensive self-introduction covering educational background, professional experience, and key technical skills

Maintain formal yet welcoming tone throughout

Do not disclose the number of questions or interview structure

Example tone: %q

Return ONLY the professional opening question.`,
		meta.Resume, meta.JobDescription, meta.QuestionType, defaultOpeningQuestion)
}

// stageGuidance maps question progress to pacing guidance for the backend
// and the should_continue default the prompt advertises.
func stageGuidance(asked int, p Policy) (string, bool) {
	switch {
	case asked < p.MinQuestions:
		return "Early stage - explore fundamentals and background thoroughly", true
	case asked < p.IdealQuestions:
		return "Mid stage - dive deeper into technical competencies and problem-solving", true
	default:
		return fmt.Sprintf("Late stage (%d questions asked) - prepare to conclude unless critical areas need coverage", asked), false
	}
}

// conversationTail renders the last n turns as alternating speaker lines.
// The metadata entry never appears in the rendered history.
func conversationTail(hist domain.History, n int) string {
	var lines []string
	for _, entry := range hist {
		switch turn := entry.(type) {
		case domain.InterviewerTurn:
			lines = append(lines, "Interviewer: "+turn.Question)
		case domain.CandidateTurn:
			lines = append(lines, "Candidate: "+turn.Text)
		}
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

func nextTurnPrompt(hist domain.History, userResponse string, p Policy) string {
	meta, _ := hist.Metadata()
	asked := hist.QuestionsAsked()
	guidance, continueDefault := stageGuidance(asked, p)

	return fmt.Sprintf(`You are Tara, a senior technical interviewer. Continue the professional interview conversation.

CONVERSATION HISTORY:
%s

CANDIDATE'S RESPONSE:
%q

INTERVIEW PROGRESS: %d questions asked
STAGE: %s

CANDIDATE RESUME:
%s

JOB REQUIREMENTS:
%s

INTERVIEW TYPE: %s

**YOUR ROLE:**
1. Provide detailed technical evaluation of the response
2. Ask probing follow-up questions for brief answers
3. Move to new technical areas when current topic is exhausted
4. Maintain professional, formal tone throughout
5. After %d questions, evaluate if more depth is needed
6. Maximum %d questions - conclude naturally when sufficient coverage achieved
7. Ask the Questions related to the JD , Resume provided , conversation history and User response.
8. Always ensure relevance to the job description and candidate's background

**INTERVIEW FLOW:**
- Questions 1-%d: Core fundamentals and experience
- Questions %d-%d: Advanced technical depth
- Questions %d-%d: Final clarifications only if needed

Return ONLY this JSON:

{
  "evaluation": "Comprehensive technical assessment with specific strengths and areas for improvement",
  "score": 7,
  "next_question": "Professional, probing follow-up question or new topic",
  "should_continue": %t,
  "interview_stage": "early/mid/late"
}

Scoring Guidelines:
- 1-3: Significant gaps in knowledge
- 4-6: Basic understanding with notable limitations
- 7-8: Strong competence with minor gaps
- 9-10: Exceptional expertise and articulation`,
		conversationTail(hist, 8), userResponse, asked, guidance,
		meta.Resume, meta.JobDescription, meta.QuestionType,
		p.MinQuestions, p.MaxQuestions,
		p.MinQuestions, p.MinQuestions+1, p.IdealQuestions, p.IdealQuestions+1, p.MaxQuestions,
		continueDefault)
}

func confirmationMessage(asked, min int) string {
	return fmt.Sprintf("I understand you'd like to conclude the interview. However, we've only covered %d questions. "+
		"To provide a comprehensive assessment, I'd recommend answering at least %d more question(s). "+
		"Would you like to continue, or shall we conclude with the current assessment?", asked, min-asked)
}

func fallbackReply() domain.DialogueReply {
	return domain.DialogueReply{
		Evaluation:     "Let's continue with our conversation",
		Score:          0,
		NextQuestion:   "Thank you for that response. Let's explore another technical area.",
		ShouldContinue: true,
		InterviewStage: domain.StageMid,
	}
}
