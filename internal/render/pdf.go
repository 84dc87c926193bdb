package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/examforge/examforge/internal/exam"
	"github.com/examforge/examforge/internal/logger"
)

// PDFRenderer renders a printable exam in fixed-size chunks to bound peak
// memory. Chunk 0 goes straight to the output file; each later chunk renders
// to a temp file whose pages are appended onto the output, then the temp
// file is removed so memory and disk are reclaimed between chunks.
type PDFRenderer struct {
	chunkSize int
	tmpDir    string
	log       *logger.Logger
}

func NewPDFRenderer(chunkSize int, tmpDir string, log *logger.Logger) *PDFRenderer {
	if chunkSize <= 0 {
		chunkSize = 40
	}
	return &PDFRenderer{chunkSize: chunkSize, tmpDir: tmpDir, log: log.With("component", "PDFRenderer")}
}

// renderUnit is one exam entry with its section heading context.
type renderUnit struct {
	sectionTitle string // non-empty only on the first entry of a section
	number       int    // 1-based question number within the exam
	entry        exam.ExamEntry
}

// Render writes the whole exam to outPath. Any error leaves no temp files
// behind; the caller owns cleanup of outPath.
func (r *PDFRenderer) Render(job *Job, outPath string) error {
	units := flatten(job.Payload)
	if len(units) == 0 {
		return fmt.Errorf("job %s: empty payload", job.ID)
	}
	chunks := chunkUnits(units, r.chunkSize)

	for i, chunk := range chunks {
		if i == 0 {
			if err := r.renderChunk(job.Title, chunk, outPath); err != nil {
				return fmt.Errorf("chunk 0: %w", err)
			}
			continue
		}
		tmp := filepath.Join(r.tmpDir, fmt.Sprintf("%s-chunk%d.pdf", job.ID, i))
		if err := r.renderChunk("", chunk, tmp); err != nil {
			os.Remove(tmp)
			return fmt.Errorf("chunk %d: %w", i, err)
		}
		if err := pdfapi.MergeAppendFile([]string{tmp}, outPath, false, nil); err != nil {
			os.Remove(tmp)
			return fmt.Errorf("append chunk %d: %w", i, err)
		}
		os.Remove(tmp)
	}
	return nil
}

func (r *PDFRenderer) renderChunk(title string, units []renderUnit, path string) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 18)
	doc.AddPage()

	if title != "" {
		doc.SetFont("Helvetica", "B", 16)
		doc.MultiCell(0, 9, title, "", "C", false)
		doc.Ln(4)
	}

	for _, u := range units {
		if u.sectionTitle != "" {
			doc.SetFont("Helvetica", "B", 13)
			doc.MultiCell(0, 8, u.sectionTitle, "", "L", false)
			doc.Ln(2)
		}
		doc.SetFont("Helvetica", "B", 11)
		doc.MultiCell(0, 6, fmt.Sprintf("%d. (%d pts) %s", u.number, u.entry.Question.Points, u.entry.Question.Body), "", "L", false)
		doc.SetFont("Helvetica", "", 11)
		for ci, c := range u.entry.Choices {
			label := fmt.Sprintf("%c)", 'A'+ci)
			switch c.Content.Kind {
			case exam.ContentImage:
				r.renderImageChoice(doc, label, c.Content.ImageRef, u.number, ci)
			default:
				doc.MultiCell(0, 6, "   "+label+" "+c.Content.Text, "", "L", false)
			}
		}
		doc.Ln(3)
	}

	if err := doc.OutputFileAndClose(path); err != nil {
		return err
	}
	return nil
}

// renderImageChoice embeds an inlined data URI, or falls back to printing
// the reference when the optimizer left the original URL in place.
func (r *PDFRenderer) renderImageChoice(doc *fpdf.Fpdf, label, ref string, qnum, cnum int) {
	const prefix = "data:image/jpeg;base64,"
	if !strings.HasPrefix(ref, prefix) {
		doc.MultiCell(0, 6, fmt.Sprintf("   %s [image: %s]", label, ref), "", "L", false)
		return
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ref, prefix))
	if err != nil {
		r.log.Warn("bad inlined image, printing reference", "question", qnum, "choice", cnum, "error", err)
		doc.MultiCell(0, 6, "   "+label+" [image unavailable]", "", "L", false)
		return
	}
	name := fmt.Sprintf("q%dc%d", qnum, cnum)
	doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "JPG"}, bytes.NewReader(raw))
	doc.MultiCell(0, 6, "   "+label, "", "L", false)
	doc.ImageOptions(name, doc.GetX()+8, doc.GetY(), 60, 0, true, fpdf.ImageOptions{ImageType: "JPG"}, 0, "")
}

func flatten(sections []exam.SubjectSection) []renderUnit {
	var out []renderUnit
	n := 0
	for _, s := range sections {
		for i, e := range s.Entries {
			n++
			u := renderUnit{number: n, entry: e}
			if i == 0 {
				u.sectionTitle = s.SubjectName
			}
			out = append(out, u)
		}
	}
	return out
}

func chunkUnits(units []renderUnit, size int) [][]renderUnit {
	var out [][]renderUnit
	for len(units) > size {
		out = append(out, units[:size])
		units = units[size:]
	}
	return append(out, units)
}
