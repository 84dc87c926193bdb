package exam

import (
	"context"
	"fmt"
)

// PracticeRequest drives the synchronous single-subject path. The budget is
// points; shortfalls are tolerated and reported alongside the result.
type PracticeRequest struct {
	SubjectID   string
	Program     string
	TotalPoints int
	Quota       map[Difficulty]int
	ChoiceCount int
}

// PrintableRequest drives the multi-subject path that feeds the render
// pipeline. The outer budget is items split across subjects; each subject's
// share is split again across difficulties. Any shortfall aborts with a full
// report.
type PrintableRequest struct {
	SubjectIDs  []string
	Program     string
	TotalItems  int
	SubjectPct  map[string]int
	Quota       map[Difficulty]int
	ChoiceCount int
}

type Composer struct {
	repo QuestionRepo
}

func NewComposer(repo QuestionRepo) *Composer {
	return &Composer{repo: repo}
}

// ComposePractice builds a single-subject exam against a point budget.
// Returned shortfalls are informational; the exam may be partially filled.
func (c *Composer) ComposePractice(ctx context.Context, req PracticeRequest) (*ComposedExam, []Shortfall, error) {
	if err := ValidateWeights(DifficultyBuckets(req.Quota)); err != nil {
		return nil, nil, err
	}
	pool, err := c.repo.FetchApproved(ctx, FetchOpts{SubjectID: req.SubjectID, Program: req.Program})
	if err != nil {
		return nil, nil, fmt.Errorf("fetch questions: %w", err)
	}

	allocs, err := AllocateQuota(req.TotalPoints, DifficultyBuckets(req.Quota))
	if err != nil {
		return nil, nil, err
	}
	buckets := bucketize(pool, allocs)

	sel := NewSelector(BudgetPoints, PartialFill)
	selected, shortfalls, err := sel.Select(buckets, nil)
	if err != nil {
		return nil, shortfalls, err
	}

	out := &ComposedExam{RequestedPoints: req.TotalPoints}
	for _, q := range selected {
		out.Entries = append(out.Entries, ExamEntry{
			Question: q,
			Choices:  ShuffleChoices(q, req.ChoiceCount),
		})
		out.AchievedPoints += q.Points
	}
	return out, shortfalls, nil
}

// ComposePrintable builds the multi-subject payload for a render job. Quota
// allocation runs twice: items across subjects, then each subject's item
// count across difficulties. Every shortfall across all subjects is
// aggregated before aborting.
func (c *Composer) ComposePrintable(ctx context.Context, req PrintableRequest) ([]SubjectSection, error) {
	subjBuckets := make([]WeightedBucket, 0, len(req.SubjectIDs))
	for _, id := range req.SubjectIDs {
		subjBuckets = append(subjBuckets, WeightedBucket{Name: id, Weight: req.SubjectPct[id]})
	}
	if err := ValidateWeights(subjBuckets); err != nil {
		return nil, err
	}
	if err := ValidateWeights(DifficultyBuckets(req.Quota)); err != nil {
		return nil, err
	}

	subjAllocs, err := AllocateQuota(req.TotalItems, subjBuckets)
	if err != nil {
		return nil, err
	}

	sel := NewSelector(BudgetItems, PartialFill)
	used := make(map[string]bool)
	var sections []SubjectSection
	var allShortfalls []Shortfall

	for _, sa := range subjAllocs {
		pool, err := c.repo.FetchApproved(ctx, FetchOpts{SubjectID: sa.Name, Program: req.Program})
		if err != nil {
			return nil, fmt.Errorf("fetch questions for %s: %w", sa.Name, err)
		}
		diffAllocs, err := AllocateQuota(sa.Quota, DifficultyBuckets(req.Quota))
		if err != nil {
			return nil, err
		}
		buckets := bucketizePrefixed(pool, diffAllocs, sa.Name)

		selected, shortfalls, err := sel.Select(buckets, used)
		if err != nil {
			return nil, err
		}
		allShortfalls = append(allShortfalls, shortfalls...)

		name, err := c.repo.SubjectName(ctx, sa.Name)
		if err != nil {
			name = sa.Name
		}
		section := SubjectSection{SubjectID: sa.Name, SubjectName: name}
		for _, q := range selected {
			section.Entries = append(section.Entries, ExamEntry{
				Question: q,
				Choices:  ShuffleChoices(q, req.ChoiceCount),
			})
		}
		sections = append(sections, section)
	}

	if len(allShortfalls) > 0 {
		return nil, &ShortfallError{Shortfalls: allShortfalls}
	}
	return sections, nil
}

func bucketize(pool []Question, allocs []Allocation) []BucketPool {
	return bucketizePrefixed(pool, allocs, "")
}

func bucketizePrefixed(pool []Question, allocs []Allocation, prefix string) []BucketPool {
	byDiff := map[Difficulty][]Question{}
	for _, q := range pool {
		byDiff[q.Difficulty] = append(byDiff[q.Difficulty], q)
	}
	out := make([]BucketPool, 0, len(allocs))
	for _, a := range allocs {
		name := a.Name
		if prefix != "" {
			name = prefix + "/" + a.Name
		}
		out = append(out, BucketPool{
			Name:      name,
			Quota:     a.Quota,
			Questions: byDiff[Difficulty(a.Name)],
		})
	}
	return out
}
