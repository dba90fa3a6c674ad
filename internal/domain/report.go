package domain

// TechnicalAssessment scores four axes on a 1-10 scale.
type TechnicalAssessment struct {
	DepthOfKnowledge    int `json:"depth_of_knowledge"`
	ProblemSolving      int `json:"problem_solving"`
	Communication       int `json:"communication"`
	ExperienceRelevance int `json:"experience_relevance"`
}

// Analysis is the qualitative assessment section of a report, produced by the
// dialogue backend or by the rule-based fallback.
type Analysis struct {
	OverallEvaluation   string              `json:"overall_evaluation"`
	Recommendation      string              `json:"recommendation"`
	KeyStrengths        []string            `json:"key_strengths"`
	AreasForImprovement []string            `json:"areas_for_improvement"`
	TechnicalAssessment TechnicalAssessment `json:"technical_assessment"`
	ResumeAlignment     string              `json:"resume_alignment"`
	JobFit              string              `json:"job_fit"`
	NextSteps           string              `json:"next_steps"`
}

// ScoreDistribution buckets answer scores for the report statistics block.
type ScoreDistribution struct {
	Excellent    int `json:"excellent (9-10)"`
	Good         int `json:"good (7-8)"`
	Average      int `json:"average (5-6)"`
	BelowAverage int `json:"below_average (1-4)"`
}

// Statistics summarizes the interview numerically.
type Statistics struct {
	TotalQuestions    int               `json:"total_questions"`
	OverallScore      float64           `json:"overall_score"`
	ScoreDistribution ScoreDistribution `json:"score_distribution"`
}

// CandidateDetails echoes the session metadata back into the report.
type CandidateDetails struct {
	ResumeSummary  string `json:"resume_summary"`
	JobDescription string `json:"job_description"`
	InterviewType  string `json:"interview_type"`
}

// Report is the final evaluation delivered on interview_complete.
type Report struct {
	Timestamp        string           `json:"timestamp"`
	Interviewer      string           `json:"interviewer"`
	CandidateDetails CandidateDetails `json:"candidate_details"`
	Statistics       Statistics       `json:"interview_statistics"`
	Analysis         Analysis         `json:"ai_analysis"`
	DetailedQA       []QAPair         `json:"detailed_qa"`
}
