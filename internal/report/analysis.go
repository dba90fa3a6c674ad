package report

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Pavantej-HH/AI-Interview/internal/domain"
)

func analysisPrompt(meta domain.SessionMetadata, pairs []domain.QAPair, scores []int, avg float64) string {
	minScore, maxScore := 0, 0
	if len(scores) > 0 {
		minScore, maxScore = scores[0], scores[0]
		for _, s := range scores[1:] {
			if s < minScore {
				minScore = s
			}
			if s > maxScore {
				maxScore = s
			}
		}
	}

	return fmt.Sprintf(`You are an expert technical hiring manager analyzing a completed interview. Provide a comprehensive, professional assessment.

**CANDIDATE RESUME:**
%s

**JOB DESCRIPTION:**
%s

**INTERVIEW TYPE:** %s

**COMPLETE INTERVIEW TRANSCRIPT:**
%s

**STATISTICS:**
- Total Questions Asked: %d
- Average Score: %v/10
- Individual Scores: %v
- Score Range: %d to %d

**ANALYSIS REQUIREMENTS:**
Based on the complete interview transcript above, provide a detailed professional assessment. Be specific and reference actual responses from the interview.

Return ONLY valid JSON in this exact format:

{
  "overall_evaluation": "A comprehensive 4-5 sentence analysis of the candidate's performance, communication style, technical depth, and overall impression. Be honest and specific.",

  "recommendation": "Choose ONE: 'Strong Hire - [reason]', 'Hire - [reason]', 'Maybe - [reason]', or 'No Hire - [reason]'. Provide specific justification based on interview performance.",

  "key_strengths": [
    "Specific strength with example from their responses",
    "Another strength demonstrated during interview",
    "Third notable positive aspect"
  ],

  "areas_for_improvement": [
    "Specific area needing development with constructive feedback",
    "Another improvement area with actionable advice",
    "Third development opportunity"
  ],

  "technical_assessment": {
    "depth_of_knowledge": 7,
    "problem_solving": 6,
    "communication": 5,
    "experience_relevance": 6
  },

  "resume_alignment": "2-3 sentences analyzing if their interview responses match what's claimed in their resume. Be honest about any discrepancies.",

  "job_fit": "2-3 sentences on how well the candidate's demonstrated skills and experience fit the specific job requirements.",

  "next_steps": "Specific recommendation for next stage in hiring process"
}

CRITICAL RULES:
1. Be honest and specific - reference actual interview responses
2. If performance was weak, say so professionally
3. All scores in technical_assessment should be 1-10 integers
4. Keep strengths and improvements lists to exactly 3 items each
5. Make recommendation realistic based on actual performance
6. Return ONLY the JSON, no other text`,
		truncate(meta.Resume, 2000), truncate(meta.JobDescription, 2000), meta.QuestionType,
		transcript(pairs), len(pairs), avg, scores, minScore, maxScore)
}

// flexScore accepts both JSON numbers and quoted numbers; backends return
// either.
type flexScore int

func (f *flexScore) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexScore(int(n))
	return nil
}

func clampScore(v flexScore, fallback int) int {
	n := int(v)
	if n == 0 {
		n = fallback
	}
	if n < 1 {
		n = 1
	}
	if n > 10 {
		n = 10
	}
	return n
}

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

func parseAnalysis(raw string, avg float64) (domain.Analysis, error) {
	var aux struct {
		OverallEvaluation   string   `json:"overall_evaluation"`
		Recommendation      string   `json:"recommendation"`
		KeyStrengths        []string `json:"key_strengths"`
		AreasForImprovement []string `json:"areas_for_improvement"`
		TechnicalAssessment struct {
			DepthOfKnowledge    flexScore `json:"depth_of_knowledge"`
			ProblemSolving      flexScore `json:"problem_solving"`
			Communication       flexScore `json:"communication"`
			ExperienceRelevance flexScore `json:"experience_relevance"`
		} `json:"technical_assessment"`
		ResumeAlignment string `json:"resume_alignment"`
		JobFit          string `json:"job_fit"`
		NextSteps       string `json:"next_steps"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &aux); err != nil {
		return domain.Analysis{}, err
	}

	fallback := int(math.Round(avg))
	return domain.Analysis{
		OverallEvaluation:   aux.OverallEvaluation,
		Recommendation:      aux.Recommendation,
		KeyStrengths:        aux.KeyStrengths,
		AreasForImprovement: aux.AreasForImprovement,
		TechnicalAssessment: domain.TechnicalAssessment{
			DepthOfKnowledge:    clampScore(aux.TechnicalAssessment.DepthOfKnowledge, fallback),
			ProblemSolving:      clampScore(aux.TechnicalAssessment.ProblemSolving, fallback),
			Communication:       clampScore(aux.TechnicalAssessment.Communication, fallback),
			ExperienceRelevance: clampScore(aux.TechnicalAssessment.ExperienceRelevance, fallback),
		},
		ResumeAlignment: aux.ResumeAlignment,
		JobFit:          aux.JobFit,
		NextSteps:       aux.NextSteps,
	}, nil
}

// fallbackAnalysis derives a rule-based assessment from scores and answer
// quality when the backend cannot produce one.
func fallbackAnalysis(avg float64, pairs []domain.QAPair, idealQuestions int) domain.Analysis {
	qaCount := len(pairs)

	shortAnswers := 0
	unclearAnswers := 0
	for _, pair := range pairs {
		if len(strings.Fields(pair.Answer)) < 15 {
			shortAnswers++
		}
		lower := strings.ToLower(pair.Answer)
		if containsAny(lower, "don't remember", "don't know", "not sure", "maybe", "i think") {
			unclearAnswers++
		}
	}

	var recommendation, overall string
	switch {
	case avg >= 8.0 && unclearAnswers == 0:
		recommendation = "Strong Hire - Demonstrated excellent technical competence and clear communication"
		overall = fmt.Sprintf("Candidate performed exceptionally well across %d questions with an average score of %v/10. "+
			"Shows strong technical foundation, clear communication, and confidence in their expertise.", qaCount, avg)
	case avg >= 7.0 && unclearAnswers <= 1:
		recommendation = "Hire - Good technical foundation with clear potential"
		overall = fmt.Sprintf("Candidate showed solid performance across %d questions with an average score of %v/10. "+
			"Demonstrates good technical skills and adequate communication, with room for minor improvements.", qaCount, avg)
	case avg >= 6.0:
		recommendation = "Maybe - Some potential but notable gaps identified"
		overall = fmt.Sprintf("Candidate completed %d questions with an average score of %v/10. Shows basic understanding "+
			"but has gaps in technical depth and communication clarity. %d responses showed uncertainty.", qaCount, avg, unclearAnswers)
	case avg >= 5.0:
		recommendation = "Maybe - Needs significant development"
		overall = fmt.Sprintf("Candidate struggled with technical depth across %d questions (average: %v/10). Multiple "+
			"responses lacked clarity or detail. %d responses showed inability to recall or explain concepts.", qaCount, avg, unclearAnswers)
	default:
		recommendation = "No Hire - Significant skill gaps and communication issues"
		overall = fmt.Sprintf("Candidate demonstrated inadequate technical knowledge across %d questions (average: %v/10). "+
			"Frequent inability to provide detailed responses or recall project details. Not ready for this role.", qaCount, avg)
	}

	var strengths, improvements []string
	if qaCount >= idealQuestions {
		strengths = append(strengths, fmt.Sprintf("Completed comprehensive interview (%d questions)", qaCount))
	} else {
		improvements = append(improvements, fmt.Sprintf("Interview concluded early with only %d questions covered", qaCount))
	}
	if unclearAnswers == 0 {
		strengths = append(strengths, "Provided confident responses without hesitation")
	} else {
		improvements = append(improvements, fmt.Sprintf("Showed uncertainty in %d responses, indicating knowledge gaps", unclearAnswers))
	}
	if qaCount > 0 && shortAnswers < qaCount/2 {
		strengths = append(strengths, "Generally provided detailed explanations")
	} else {
		improvements = append(improvements, fmt.Sprintf("Many responses were brief (%d/%d), lacking technical depth", shortAnswers, qaCount))
	}
	if avg >= 7 {
		strengths = append(strengths, "Demonstrated solid technical foundation")
		improvements = append(improvements, "Could improve by providing more specific examples")
	} else {
		improvements = append(improvements, "Needs to strengthen core technical knowledge and practical experience")
		improvements = append(improvements, "Should work on articulating technical concepts more clearly")
	}
	for len(strengths) < 3 {
		strengths = append(strengths, "Maintained professional demeanor throughout interview")
	}
	for len(improvements) < 3 {
		improvements = append(improvements, "Requires more hands-on experience with technologies mentioned in resume")
	}

	communication := int(math.Round(avg))
	if unclearAnswers > 2 {
		communication = int(math.Round(avg * 0.8))
	}

	var alignment, fit, next string
	if avg >= 7 {
		alignment = fmt.Sprintf("Based on %d questions, candidate's responses align well with resume claims. "+
			"Strong correlation between stated and demonstrated skills.", qaCount)
	} else {
		alignment = fmt.Sprintf("Based on %d questions, candidate's responses show discrepancies from resume claims. "+
			"Some claimed experiences could not be adequately explained.", qaCount)
	}
	switch {
	case avg >= 7.5:
		fit = "Candidate demonstrates strong alignment with job requirements. Recommended for next round."
		next = "Proceed to technical round with senior engineer"
	case avg >= 6:
		fit = "Candidate demonstrates partial alignment with job requirements. Additional assessment recommended."
		next = "Consider additional screening"
	case avg >= 5.5:
		fit = "Candidate demonstrates limited alignment with job requirements. Additional assessment recommended."
		next = "Thank candidate for their time, not proceeding"
	default:
		fit = "Candidate demonstrates limited alignment with job requirements. Does not meet minimum requirements at this time."
		next = "Thank candidate for their time, not proceeding"
	}

	return domain.Analysis{
		OverallEvaluation:   overall,
		Recommendation:      recommendation,
		KeyStrengths:        strengths[:3],
		AreasForImprovement: improvements[:3],
		TechnicalAssessment: domain.TechnicalAssessment{
			DepthOfKnowledge:    int(math.Round(avg)),
			ProblemSolving:      int(math.Round(avg * 0.9)),
			Communication:       communication,
			ExperienceRelevance: int(math.Round(avg * 0.85)),
		},
		ResumeAlignment: alignment,
		JobFit:          fit,
		NextSteps:       next,
	}
}

// minimalAnalysis covers interviews that ended before any answer was scored.
func minimalAnalysis(qaCount int) domain.Analysis {
	return domain.Analysis{
		OverallEvaluation: fmt.Sprintf("Interview was initiated but not completed with scoreable responses. "+
			"%d questions were asked but responses were not evaluated with numerical scores.", qaCount),
		Recommendation: "Incomplete Interview - Unable to provide hiring recommendation without scored responses",
		KeyStrengths:   []string{"Interview participation", "Time commitment", "Professional engagement"},
		AreasForImprovement: []string{
			"Complete interview process",
			"Provide detailed technical responses",
			"Demonstrate technical knowledge clearly",
		},
		ResumeAlignment: "Unable to assess alignment due to incomplete interview",
		JobFit:          "Unable to determine fit without completed assessment",
		NextSteps:       "Re-schedule complete technical interview",
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
