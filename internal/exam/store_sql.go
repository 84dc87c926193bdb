package exam

import (
	"context"
	"database/sql"
	"errors"

	"github.com/examforge/examforge/internal/securetext"
)

type SQLRepo struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
	sealed securetext.SecureText
}

func NewSQLRepo(db *sql.DB, driver string, st securetext.SecureText) *SQLRepo {
	return &SQLRepo{db: db, driver: driver, sealed: st}
}

func (s *SQLRepo) FetchApproved(ctx context.Context, opts FetchOpts) ([]Question, error) {
	query := `SELECT q.id, q.subject_id, q.difficulty, q.points, q.body_sealed
		FROM questions q
		JOIN subjects s ON s.id = q.subject_id
		WHERE q.subject_id = $1 AND q.approval = 'approved'
		  AND ($2 = '' OR s.program = $2)
		ORDER BY q.id`
	rows, err := s.db.QueryContext(ctx, query, opts.SubjectID, opts.Program)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var qs []Question
	ids := make([]string, 0, 64)
	byID := map[string]int{}
	for rows.Next() {
		var q Question
		var sealed string
		if err := rows.Scan(&q.ID, &q.SubjectID, &q.Difficulty, &q.Points, &sealed); err != nil {
			return nil, err
		}
		q.Approval = ApprovalApproved
		q.Body = s.sealed.Reveal(sealed)
		byID[q.ID] = len(qs)
		qs = append(qs, q)
		ids = append(ids, q.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return qs, nil
	}

	if err := s.attachChoices(ctx, opts.SubjectID, byID, qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// attachChoices loads every choice for the subject in one query and fans
// them out to their questions.
func (s *SQLRepo) attachChoices(ctx context.Context, subjectID string, byID map[string]int, qs []Question) error {
	rows, err := s.db.QueryContext(ctx, `SELECT c.id, c.question_id, c.kind, c.text_sealed, c.image_ref, c.correct
		FROM choices c
		JOIN questions q ON q.id = c.question_id
		WHERE q.subject_id = $1 AND q.approval = 'approved'
		ORDER BY c.id`, subjectID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var c Choice
		var kind, textSealed, imageRef string
		if err := rows.Scan(&c.ID, &c.QuestionID, &kind, &textSealed, &imageRef, &c.Correct); err != nil {
			return err
		}
		switch ContentKind(kind) {
		case ContentImage:
			c.Content = ImageContent(imageRef)
		default:
			c.Content = TextContent(s.sealed.Reveal(textSealed))
		}
		if i, ok := byID[c.QuestionID]; ok {
			qs[i].Choices = append(qs[i].Choices, c)
		}
	}
	return rows.Err()
}

func (s *SQLRepo) SubjectName(ctx context.Context, subjectID string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM subjects WHERE id=$1`, subjectID).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", errors.New("subject not found")
	}
	if err != nil {
		return "", err
	}
	return name, nil
}
