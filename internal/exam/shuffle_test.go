package exam

import "testing"

func TestShuffleChoicesSingleCorrect(t *testing.T) {
	q := mkQuestion("q1", 5, 5)
	for i := 0; i < 100; i++ {
		out := ShuffleChoices(q, 4)
		if len(out) != 4 {
			t.Fatalf("len=%d, want 4", len(out))
		}
		correct := 0
		for _, c := range out {
			if c.Correct {
				correct++
			}
		}
		if correct != 1 {
			t.Fatalf("correct=%d, want exactly 1", correct)
		}
	}
}

func TestShuffleChoicesNeverPads(t *testing.T) {
	q := mkQuestion("q1", 5, 2) // 1 correct + 2 distractors
	out := ShuffleChoices(q, 6)
	if len(out) != 3 {
		t.Fatalf("len=%d, want 3 (never padded)", len(out))
	}
}

func TestShuffleChoicesVariesAcrossCalls(t *testing.T) {
	q := mkQuestion("q1", 5, 7)
	first := ShuffleChoices(q, 8)
	varied := false
	for i := 0; i < 50 && !varied; i++ {
		next := ShuffleChoices(q, 8)
		for j := range next {
			if next[j].Content != first[j].Content {
				varied = true
				break
			}
		}
	}
	if !varied {
		t.Fatal("50 shuffles produced identical order")
	}
}

func TestShuffleChoicesStripsIDs(t *testing.T) {
	q := mkQuestion("q1", 5, 3)
	out := ShuffleChoices(q, 4)
	for _, c := range out {
		if c.Content.Kind == ContentText && c.Content.Text == "" {
			t.Fatal("lost content during shuffle")
		}
	}
}

func TestShuffleChoicesRejectsMalformed(t *testing.T) {
	none := mkQuestion("q1", 5, 3)
	for i := range none.Choices {
		none.Choices[i].Correct = false
	}
	if out := ShuffleChoices(none, 4); out != nil {
		t.Fatalf("no-correct question produced %+v", out)
	}
	two := mkQuestion("q2", 5, 3)
	two.Choices[1].Correct = true
	if out := ShuffleChoices(two, 4); out != nil {
		t.Fatalf("two-correct question produced %+v", out)
	}
}
