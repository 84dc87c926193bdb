package exam

// Answers maps question id to the learner's chosen index within that
// question's shuffled choice list.
type Answers map[string]int

type GradeResult struct {
	Score     int            `json:"score"`
	MaxScore  int            `json:"max_score"`
	Correct   int            `json:"correct"`
	Incorrect int            `json:"incorrect"`
	Skipped   int            `json:"skipped"`
	PerItem   map[string]int `json:"per_item"` // question id -> points awarded
}

// Grade scores a submitted practice attempt against the retained
// correctness flags. Unanswered or out-of-range indices count as skipped.
func Grade(ex *ComposedExam, answers Answers) GradeResult {
	res := GradeResult{PerItem: make(map[string]int, len(ex.Entries))}
	for _, e := range ex.Entries {
		res.MaxScore += e.Question.Points
		idx, ok := answers[e.Question.ID]
		if !ok || idx < 0 || idx >= len(e.Choices) {
			res.Skipped++
			res.PerItem[e.Question.ID] = 0
			continue
		}
		if e.Choices[idx].Correct {
			res.Correct++
			res.Score += e.Question.Points
			res.PerItem[e.Question.ID] = e.Question.Points
		} else {
			res.Incorrect++
			res.PerItem[e.Question.ID] = 0
		}
	}
	return res
}
