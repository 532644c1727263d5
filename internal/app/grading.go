package app

import "vocab-quiz-service/internal/domain"

var gradeBands = []struct {
	minRatio float64
	grade    domain.Grade
}{
	{0.9, domain.Grade{
		Letter:    "S",
		ClassName: "text-yellow-500",
		Comment:   "すばらしい！完璧に近い成績です！\n日頃の勉強の成果が出ていますね。",
	}},
	{0.7, domain.Grade{
		Letter:    "A",
		ClassName: "text-red-500",
		Comment:   "よくできました！\nもう少しで完璧です。この調子で頑張りましょう！",
	}},
	{0.5, domain.Grade{
		Letter:    "B",
		ClassName: "text-blue-500",
		Comment:   "まずまずの成績です。\n間違えた問題を復習して、次はAを目指しましょう！",
	}},
}

var lowestGrade = domain.Grade{
	Letter:    "C",
	ClassName: "text-green-500",
	Comment:   "もう少し頑張りましょう。\n毎日少しずつ勉強すれば、必ず上達します！",
}

// Grade maps a score to its letter band. Bands are checked from the top; a
// non-positive total always grades C.
func Grade(score, total int) domain.Grade {
	if total <= 0 {
		return lowestGrade
	}
	ratio := float64(score) / float64(total)
	for _, band := range gradeBands {
		if ratio >= band.minRatio {
			return band.grade
		}
	}
	return lowestGrade
}
