package render

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/examforge/examforge/internal/exam"
	"github.com/examforge/examforge/internal/logger"
)

func bigPayload(sections, perSection int) []exam.SubjectSection {
	out := make([]exam.SubjectSection, 0, sections)
	for s := 0; s < sections; s++ {
		sec := exam.SubjectSection{
			SubjectID:   fmt.Sprintf("s%d", s),
			SubjectName: fmt.Sprintf("Subject %d", s),
		}
		for i := 0; i < perSection; i++ {
			sec.Entries = append(sec.Entries, exam.ExamEntry{
				Question: exam.Question{ID: fmt.Sprintf("s%d-q%d", s, i), Points: 2, Body: "Pick the right answer."},
				Choices: []exam.RenderedChoice{
					{Content: exam.TextContent("alpha"), Correct: true},
					{Content: exam.TextContent("beta")},
					{Content: exam.TextContent("gamma")},
				},
			})
		}
		out = append(out, sec)
	}
	return out
}

func assertPDF(t *testing.T, path string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(raw) < 5 || string(raw[:5]) != "%PDF-" {
		t.Fatalf("%s is not a PDF", path)
	}
}

func TestFlattenNumbersAcrossSections(t *testing.T) {
	units := flatten(bigPayload(2, 3))
	if len(units) != 6 {
		t.Fatalf("len=%d", len(units))
	}
	for i, u := range units {
		if u.number != i+1 {
			t.Fatalf("unit %d numbered %d", i, u.number)
		}
	}
	if units[0].sectionTitle == "" || units[3].sectionTitle == "" {
		t.Fatal("section headings missing")
	}
	if units[1].sectionTitle != "" {
		t.Fatal("heading repeated mid-section")
	}
}

func TestChunkUnits(t *testing.T) {
	units := flatten(bigPayload(1, 10))
	chunks := chunkUnits(units, 4)
	if len(chunks) != 3 {
		t.Fatalf("chunks=%d, want 3", len(chunks))
	}
	if len(chunks[0]) != 4 || len(chunks[1]) != 4 || len(chunks[2]) != 2 {
		t.Fatalf("chunk sizes %d/%d/%d", len(chunks[0]), len(chunks[1]), len(chunks[2]))
	}
}

func TestRenderSingleChunk(t *testing.T) {
	dir := t.TempDir()
	r := NewPDFRenderer(50, dir, logger.NewNop())
	out := filepath.Join(dir, "out.pdf")
	job := &Job{ID: "j1", Title: "Midterm", Payload: bigPayload(1, 5)}
	if err := r.Render(job, out); err != nil {
		t.Fatal(err)
	}
	assertPDF(t, out)
}

func TestRenderChunkedMerge(t *testing.T) {
	dir := t.TempDir()
	r := NewPDFRenderer(4, dir, logger.NewNop())
	out := filepath.Join(dir, "out.pdf")
	job := &Job{ID: "j2", Title: "Final", Payload: bigPayload(2, 7)}
	if err := r.Render(job, out); err != nil {
		t.Fatal(err)
	}
	assertPDF(t, out)

	// Temp chunk files are reclaimed between chunks.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "out.pdf" {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}

func TestRenderEmptyPayload(t *testing.T) {
	dir := t.TempDir()
	r := NewPDFRenderer(4, dir, logger.NewNop())
	if err := r.Render(&Job{ID: "j3"}, filepath.Join(dir, "out.pdf")); err == nil {
		t.Fatal("empty payload must error")
	}
}

func TestRenderFallbackImageRef(t *testing.T) {
	dir := t.TempDir()
	r := NewPDFRenderer(50, dir, logger.NewNop())
	out := filepath.Join(dir, "out.pdf")
	payload := bigPayload(1, 1)
	payload[0].Entries[0].Choices[1] = exam.RenderedChoice{
		Content: exam.ImageContent("https://cdn.example.com/unreachable.png"),
	}
	if err := r.Render(&Job{ID: "j4", Payload: payload}, out); err != nil {
		t.Fatal(err)
	}
	assertPDF(t, out)
}
