package domain

import (
	"slices"
	"time"
)

// Category is one of the fixed quiz subject areas.
type Category string

const (
	CategoryVocabulary Category = "vocabulary"
	CategoryProverb    Category = "proverb"
	CategoryWago       Category = "wago"
)

// Categories lists every supported category in display order.
func Categories() []Category {
	return []Category{CategoryVocabulary, CategoryProverb, CategoryWago}
}

// ParseCategory validates a raw category name.
func ParseCategory(raw string) (Category, error) {
	c := Category(raw)
	if !c.Valid() {
		return "", ErrUnknownCategory
	}
	return c, nil
}

func (c Category) Valid() bool {
	switch c {
	case CategoryVocabulary, CategoryProverb, CategoryWago:
		return true
	}
	return false
}

// Origin records where a question came from.
type Origin string

const (
	OriginBundled Origin = "bundled"
	OriginCustom  Origin = "custom"
)

// Question models a 3 or 4 choice question. Text may mark one emphasised span as [[...]].
type Question struct {
	ID           string   `json:"id,omitempty"`
	Text         string   `json:"text"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correctIndex"`
	Category     Category `json:"category,omitempty"`
	Origin       Origin   `json:"origin,omitempty"`
	BundledIndex int      `json:"bundledIndex,omitempty"` // position in the bundled list, only for OriginBundled
}

// SameContent reports whether two questions ask the same thing with the same answer.
func (q Question) SameContent(other Question) bool {
	return q.Text == other.Text &&
		q.CorrectIndex == other.CorrectIndex &&
		slices.Equal(q.Choices, other.Choices)
}

// Clone returns a copy that shares no memory with q.
func (q Question) Clone() Question {
	q.Choices = slices.Clone(q.Choices)
	return q
}

// DisplayChoice is a choice in presentation order, keeping its original index.
type DisplayChoice struct {
	Text  string `json:"text"`
	Index int    `json:"index"`
}

// Result is the final score of a completed session.
type Result struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// Grade is the letter band for a result plus its display class and feedback.
type Grade struct {
	Letter    string `json:"letter"`
	ClassName string `json:"className"`
	Comment   string `json:"comment"`
}

// ResultEvent is one append-only answer record.
type ResultEvent struct {
	ID         string    `json:"id,omitempty"`
	QuestionID string    `json:"questionId"`
	IsCorrect  bool      `json:"isCorrect"`
	QuizType   Category  `json:"quizType"`
	AnsweredAt time.Time `json:"answeredAt"`
	Question   *Question `json:"question,omitempty"`
}

// QuestionStats summarises answer history for a single question.
type QuestionStats struct {
	QuestionID        string    `json:"questionId"`
	Question          *Question `json:"question,omitempty"`
	TotalAnswers      int       `json:"totalAnswers"`
	CorrectAnswers    int       `json:"correctAnswers"`
	CorrectRate       float64   `json:"correctRate"`
	RecentCorrectRate float64   `json:"recentCorrectRate"`
}

// ImportReport counts the outcome of a bulk import.
type ImportReport struct {
	Imported         int `json:"imported"`
	SkippedDuplicate int `json:"skippedDuplicate"`
}
