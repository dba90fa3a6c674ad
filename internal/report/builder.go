package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/Pavantej-HH/AI-Interview/internal/domain"
	"github.com/Pavantej-HH/AI-Interview/internal/ports"
)

const interviewerName = "Tara (Senior Technical Interviewer)"

// Builder assembles the final interview report from a history snapshot,
// asking the dialogue backend for the qualitative analysis and falling back
// to a rule-based one when that fails.
type Builder struct {
	backend        ports.DialogueBackend
	logger         *slog.Logger
	idealQuestions int
	now            func() time.Time
}

func NewBuilder(backend ports.DialogueBackend, idealQuestions int, logger *slog.Logger) *Builder {
	if idealQuestions <= 0 {
		idealQuestions = 8
	}
	return &Builder{backend: backend, logger: logger, idealQuestions: idealQuestions, now: time.Now}
}

// Build returns the report for a finished interview, or nil when the history
// holds nothing reportable.
func (b *Builder) Build(ctx context.Context, hist domain.History) *domain.Report {
	if len(hist) < 2 {
		return nil
	}
	meta, _ := hist.Metadata()
	pairs := hist.QAPairs()

	var scores []int
	for _, pair := range pairs {
		if pair.Score > 0 {
			scores = append(scores, pair.Score)
		}
	}
	avg := averageScore(scores)

	report := &domain.Report{
		Timestamp:   b.now().Format("2006-01-02 15:04:05"),
		Interviewer: interviewerName,
		CandidateDetails: domain.CandidateDetails{
			ResumeSummary:  truncate(meta.Resume, 400),
			JobDescription: truncate(meta.JobDescription, 400),
			InterviewType:  meta.QuestionType,
		},
		Statistics: domain.Statistics{
			TotalQuestions:    len(pairs),
			OverallScore:      avg,
			ScoreDistribution: distribute(scores),
		},
		DetailedQA: pairs,
	}

	if len(scores) == 0 {
		report.Analysis = minimalAnalysis(len(pairs))
		return report
	}

	report.Analysis = b.analyze(ctx, meta, pairs, scores, avg)
	return report
}

func (b *Builder) analyze(ctx context.Context, meta domain.SessionMetadata, pairs []domain.QAPair, scores []int, avg float64) domain.Analysis {
	raw, err := b.backend.Generate(ctx, analysisPrompt(meta, pairs, scores, avg))
	if err != nil {
		b.logger.Warn("report analysis request failed", "error", err)
		return fallbackAnalysis(avg, pairs, b.idealQuestions)
	}
	analysis, err := parseAnalysis(raw, avg)
	if err != nil {
		b.logger.Warn("report analysis was not parseable", "error", err)
		return fallbackAnalysis(avg, pairs, b.idealQuestions)
	}
	return analysis
}

func averageScore(scores []int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return math.Round(float64(sum)/float64(len(scores))*100) / 100
}

func distribute(scores []int) domain.ScoreDistribution {
	var dist domain.ScoreDistribution
	for _, s := range scores {
		switch {
		case s >= 9:
			dist.Excellent++
		case s >= 7:
			dist.Good++
		case s >= 5:
			dist.Average++
		default:
			dist.BelowAverage++
		}
	}
	return dist
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}

// transcript renders the interview for the analysis prompt.
func transcript(pairs []domain.QAPair) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 60)
	for idx, pair := range pairs {
		fmt.Fprintf(&sb, "\n%s\n", rule)
		fmt.Fprintf(&sb, "QUESTION %d:\n%s\n\n", idx+1, pair.Question)
		fmt.Fprintf(&sb, "CANDIDATE ANSWER:\n%s\n\n", pair.Answer)
		fmt.Fprintf(&sb, "INTERVIEWER EVALUATION:\n%s\n", pair.Evaluation)
		fmt.Fprintf(&sb, "SCORE: %d/10\n", pair.Score)
		fmt.Fprintf(&sb, "%s\n", rule)
	}
	return sb.String()
}
