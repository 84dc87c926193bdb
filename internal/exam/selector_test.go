package exam

import (
	"fmt"
	"testing"
)

func mkQuestion(id string, points int, distractors int) Question {
	q := Question{
		ID:         id,
		SubjectID:  "math",
		Difficulty: DifficultyEasy,
		Points:     points,
		Approval:   ApprovalApproved,
	}
	q.Choices = append(q.Choices, Choice{ID: id + "-c0", QuestionID: id, Content: TextContent("right"), Correct: true})
	for i := 0; i < distractors; i++ {
		q.Choices = append(q.Choices, Choice{
			ID:         fmt.Sprintf("%s-d%d", id, i),
			QuestionID: id,
			Content:    TextContent(fmt.Sprintf("wrong %d", i)),
		})
	}
	return q
}

func mkPool(n, points int) []Question {
	out := make([]Question, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, mkQuestion(fmt.Sprintf("q%d", i), points, 3))
	}
	return out
}

func TestSelectNeverExceedsQuota(t *testing.T) {
	pool := []Question{
		mkQuestion("a", 5, 3),
		mkQuestion("b", 7, 3),
		mkQuestion("c", 3, 3),
		mkQuestion("d", 2, 3),
		mkQuestion("e", 11, 3),
	}
	for seed := int64(0); seed < 50; seed++ {
		sel := newSelectorSeeded(BudgetPoints, PartialFill, seed)
		selected, _, err := sel.Select([]BucketPool{{Name: "easy", Quota: 10, Questions: pool}}, nil)
		if err != nil {
			t.Fatal(err)
		}
		total := 0
		for _, q := range selected {
			total += q.Points
		}
		if total > 10 {
			t.Fatalf("seed=%d: selected %d points over quota 10", seed, total)
		}
	}
}

func TestSelectSkipsOversizedThenFitsSmaller(t *testing.T) {
	// A 9-point candidate cannot fit after a 5-point pick under quota 10, but
	// the scan must keep going and take the later 5-point one.
	pool := []Question{
		mkQuestion("big", 9, 3),
		mkQuestion("five1", 5, 3),
		mkQuestion("five2", 5, 3),
	}
	for seed := int64(0); seed < 50; seed++ {
		sel := newSelectorSeeded(BudgetPoints, PartialFill, seed)
		selected, shortfalls, err := sel.Select([]BucketPool{{Name: "easy", Quota: 10, Questions: pool}}, nil)
		if err != nil {
			t.Fatal(err)
		}
		total := 0
		for _, q := range selected {
			total += q.Points
		}
		// Either big(9) alone +none fits => 9 with shortfall 1, or 5+5=10.
		if total != 9 && total != 10 {
			t.Fatalf("seed=%d: total=%d", seed, total)
		}
		if total == 10 && len(shortfalls) != 0 {
			t.Fatalf("seed=%d: unexpected shortfall %+v", seed, shortfalls)
		}
	}
}

func TestSelectShortfallReport(t *testing.T) {
	pool := []Question{mkQuestion("a", 5, 3), mkQuestion("b", 10, 3)}
	sel := NewSelector(BudgetPoints, PartialFill)
	_, shortfalls, err := sel.Select([]BucketPool{{Name: "hard", Quota: 20, Questions: pool}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(shortfalls) != 1 {
		t.Fatalf("want one shortfall, got %+v", shortfalls)
	}
	sf := shortfalls[0]
	if sf.Bucket != "hard" || sf.Required != 20 || sf.Available != 15 || sf.Deficit != 5 {
		t.Fatalf("got %+v, want {hard 20 15 5}", sf)
	}
}

func TestSelectAbortPolicy(t *testing.T) {
	pool := []Question{mkQuestion("a", 5, 3)}
	sel := NewSelector(BudgetPoints, AbortOnShortfall)
	selected, _, err := sel.Select([]BucketPool{{Name: "hard", Quota: 20, Questions: pool}}, nil)
	if err == nil {
		t.Fatal("expected ShortfallError")
	}
	if _, ok := err.(*ShortfallError); !ok {
		t.Fatalf("err type %T", err)
	}
	if selected != nil {
		t.Fatal("selection must be nil on abort")
	}
}

func TestSelectNoDuplicateAcrossBuckets(t *testing.T) {
	shared := mkPool(20, 1)
	sel := NewSelector(BudgetItems, PartialFill)
	used := make(map[string]bool)
	a, _, err := sel.Select([]BucketPool{{Name: "s1/easy", Quota: 8, Questions: shared}}, used)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := sel.Select([]BucketPool{{Name: "s2/easy", Quota: 8, Questions: shared}}, used)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, q := range append(a, b...) {
		if seen[q.ID] {
			t.Fatalf("question %s selected twice", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestSelectRejectsIneligible(t *testing.T) {
	noCorrect := mkQuestion("nc", 5, 3)
	for i := range noCorrect.Choices {
		noCorrect.Choices[i].Correct = false
	}
	twoCorrect := mkQuestion("tc", 5, 3)
	twoCorrect.Choices[1].Correct = true
	thin := mkQuestion("thin", 5, 1) // only one distractor

	sel := NewSelector(BudgetPoints, PartialFill)
	selected, shortfalls, err := sel.Select([]BucketPool{
		{Name: "easy", Quota: 5, Questions: []Question{noCorrect, twoCorrect, thin}},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(selected) != 0 {
		t.Fatalf("ineligible questions selected: %+v", selected)
	}
	if len(shortfalls) != 1 || shortfalls[0].Available != 0 {
		t.Fatalf("want empty-pool shortfall, got %+v", shortfalls)
	}
}
