// pkg/matching/matcher.go
package matching

import (
	"strings"
	"unicode"

	"github.com/xrash/smetrics"
)

// PreviewMaxSeconds – порог длительности, ниже которого результат
// считается превью-обрезком (30-секундные demo-клипы сервисов).
const PreviewMaxSeconds = 45

// normalizeTitle приводит название к нижнему регистру, убирает всё,
// кроме букв, цифр и пробелов, и схлопывает пробелы: после удаления
// дефисов "Artist - Song" иначе не содержал бы "artist song".
func normalizeTitle(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// IsAcceptable проверяет, содержит ли название кандидата искомое
// название трека (направленное включение: лишние слова вроде
// "(Official Video)" допустимы, отсутствие ядра названия — нет).
func IsAcceptable(candidateTitle, targetTrackName string) bool {
	if candidateTitle == "" || targetTrackName == "" {
		return false
	}
	return strings.Contains(normalizeTitle(candidateTitle), normalizeTitle(targetTrackName))
}

// IsPreview отсеивает кандидатов с известной длительностью короче порога.
// Нулевая длительность означает «неизвестно» и не отбраковывается.
func IsPreview(durationSeconds int) bool {
	return durationSeconds > 0 && durationSeconds < PreviewMaxSeconds
}

// Similarity возвращает процент похожести двух строк (0–100).
func Similarity(s1, s2 string) int {
	s1, s2 = strings.ToLower(strings.TrimSpace(s1)), strings.ToLower(strings.TrimSpace(s2))
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	if maxLen == 0 {
		return 100
	}
	distance := smetrics.WagnerFischer(s1, s2, 1, 1, 2)
	score := 100 - (distance * 100 / maxLen)
	if score < 0 {
		score = 0
	}
	return score
}

// ArtistsMatch решает, совпадают ли имена исполнителей: прямое взаимное
// включение либо высокая fuzzy-похожесть. Используется при уточняющем
// повторном поиске обложки.
func ArtistsMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la, lb := strings.ToLower(a), strings.ToLower(b)
	if strings.Contains(la, lb) || strings.Contains(lb, la) {
		return true
	}
	return Similarity(a, b) >= 70
}
