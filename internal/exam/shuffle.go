package exam

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultChoiceCount is the target visible choice-set size: the correct
// choice plus up to three distractors.
const DefaultChoiceCount = 4

var (
	shuffleMu  sync.Mutex
	shuffleRng = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// ShuffleChoices assembles the visible choice set for one question: the
// single correct choice plus up to n-1 distractors (fewer when the question
// has fewer, never padded), freshly permuted on every call. Choice ids and
// source ordering are stripped from the result; correctness flags survive
// for server-side grading.
//
// The caller is expected to have vetted the question with Eligible; a
// question without exactly one correct choice yields nil.
func ShuffleChoices(q Question, n int) []RenderedChoice {
	if n <= 0 {
		n = DefaultChoiceCount
	}
	var correct *Choice
	distractors := make([]Choice, 0, len(q.Choices))
	for i := range q.Choices {
		c := q.Choices[i]
		if c.Correct {
			if correct != nil {
				return nil
			}
			correct = &c
		} else {
			distractors = append(distractors, c)
		}
	}
	if correct == nil {
		return nil
	}

	shuffleMu.Lock()
	defer shuffleMu.Unlock()

	shuffleRng.Shuffle(len(distractors), func(i, j int) {
		distractors[i], distractors[j] = distractors[j], distractors[i]
	})
	if len(distractors) > n-1 {
		distractors = distractors[:n-1]
	}

	out := make([]RenderedChoice, 0, len(distractors)+1)
	out = append(out, RenderedChoice{Content: correct.Content, Correct: true})
	for _, d := range distractors {
		out = append(out, RenderedChoice{Content: d.Content})
	}
	shuffleRng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
