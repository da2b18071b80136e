// pkg/matching/matcher_test.go
package matching

import "testing"

func TestIsAcceptable(t *testing.T) {
	if !IsAcceptable("Artist - Song Name (Official Video)", "Song Name") {
		t.Errorf("Ожидалось совпадение для кандидата с лишними словами")
	}
	if IsAcceptable("Totally Different Track", "Song Name") {
		t.Errorf("Ожидался отказ для постороннего трека")
	}
	// Пунктуация не должна влиять на сравнение.
	if !IsAcceptable("SONG NAME [Official Audio]", "Song, Name!") {
		t.Errorf("Ожидалось совпадение без учёта регистра и пунктуации")
	}
	if IsAcceptable("", "Song Name") || IsAcceptable("Song Name", "") {
		t.Errorf("Пустые строки не должны совпадать")
	}
}

func TestIsPreview(t *testing.T) {
	if !IsPreview(20) {
		t.Errorf("20 секунд — превью")
	}
	if IsPreview(0) {
		t.Errorf("Неизвестная длительность не отбраковывается")
	}
	if IsPreview(180) {
		t.Errorf("Полный трек не превью")
	}
}

func TestSimilarity(t *testing.T) {
	if score := Similarity("Daft Punk", "Daft Punk"); score != 100 {
		t.Errorf("Ожидалось 100, получено %d", score)
	}
	if score := Similarity("Daft Punk", "Draft Punk"); score < 80 {
		t.Errorf("Ожидался высокий процент совпадения, получено %d", score)
	}
}

func TestArtistsMatch(t *testing.T) {
	if !ArtistsMatch("Daft Punk", "daft punk - Topic") {
		t.Errorf("Взаимное включение должно совпадать")
	}
	if ArtistsMatch("Daft Punk", "Queen") {
		t.Errorf("Разные исполнители не должны совпадать")
	}
}
