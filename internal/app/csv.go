package app

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"vocab-quiz-service/internal/domain"
)

const utf8BOM = "\uFEFF"

// ParseCSV reads questions laid out as
//
//	questionText, correctAnswer, wrongAnswer1, wrongAnswer2[, wrongAnswer3]
//
// one per line. The correct answer is always choice 0. A non-empty fifth
// column makes a 4-choice question. Rows that break the authoring rules are
// reported with their line number.
func ParseCSV(r io.Reader) ([]domain.Question, error) {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && string(head) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	var questions []domain.Question
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, &domain.LineError{Line: perr.Line, Reason: perr.Err.Error()}
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)

		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		if blank(record) {
			continue
		}
		if len(record) < 4 {
			return nil, &domain.LineError{
				Line:   line,
				Reason: fmt.Sprintf("need at least 4 columns (question, correct, wrong1, wrong2), got %d", len(record)),
			}
		}

		q := domain.Question{
			Text:         record[0],
			Choices:      []string{record[1], record[2], record[3]},
			CorrectIndex: 0,
		}
		if len(record) >= 5 && record[4] != "" {
			q.Choices = append(q.Choices, record[4])
		}
		if err := q.Validate(); err != nil {
			return nil, &domain.LineError{Line: line, Err: err}
		}
		questions = append(questions, q)
	}
	return questions, nil
}

func blank(record []string) bool {
	for _, field := range record {
		if field != "" {
			return false
		}
	}
	return true
}
