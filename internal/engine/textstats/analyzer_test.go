package textstats

import (
	"testing"
)

func TestAnalyze_BasicStats(t *testing.T) {
	values := []string{
		"the quick brown fox",
		"the lazy dog",
		"",
		"the quick brown fox",
	}
	result := Analyze("note", values, 10)

	basic := result.Basic
	if basic.RecordCount != 4 {
		t.Errorf("expected 4 records, got %d", basic.RecordCount)
	}
	if basic.EmptyCount != 1 {
		t.Errorf("expected 1 empty record, got %d", basic.EmptyCount)
	}
	if basic.UniqueCount != 3 {
		t.Errorf("expected 3 unique records, got %d", basic.UniqueCount)
	}
	if basic.TotalWords != 7 {
		t.Errorf("expected 7 words, got %d", basic.TotalWords)
	}
}

func TestAnalyze_WordFrequencyOrder(t *testing.T) {
	values := []string{"apple apple apple banana banana cherry"}
	result := Analyze("note", values, 10)

	if len(result.WordFrequency) != 3 {
		t.Fatalf("expected 3 distinct words, got %d", len(result.WordFrequency))
	}
	if result.WordFrequency[0].Token != "apple" || result.WordFrequency[0].Count != 3 {
		t.Errorf("expected apple x3 first, got %s x%d", result.WordFrequency[0].Token, result.WordFrequency[0].Count)
	}
	if result.WordFrequency[1].Token != "banana" {
		t.Errorf("expected banana second, got %s", result.WordFrequency[1].Token)
	}
	if !almostEqual(result.WordFrequency[0].Percentage, 50) {
		t.Errorf("expected apple at 50%%, got %f", result.WordFrequency[0].Percentage)
	}
}

func TestAnalyze_FrequencyTiesLexicographic(t *testing.T) {
	values := []string{"zebra apple zebra apple"}
	result := Analyze("note", values, 10)

	if result.WordFrequency[0].Token != "apple" {
		t.Errorf("ties should break lexicographically, got %s first", result.WordFrequency[0].Token)
	}
}

func TestAnalyze_TopNTruncates(t *testing.T) {
	values := []string{"one two three four five six seven eight"}
	result := Analyze("note", values, 3)

	if len(result.WordFrequency) != 3 {
		t.Errorf("expected top 3 entries, got %d", len(result.WordFrequency))
	}
}

func TestDetectPatterns_EmailAndURL(t *testing.T) {
	values := []string{
		"reach me at alice@example.com today",
		"see https://example.com/docs for details",
		"nothing to detect here",
		"bob@example.org and carol@example.org",
	}
	patterns := DetectPatterns(values)

	byName := map[string]float64{}
	counts := map[string]int{}
	for _, p := range patterns {
		byName[p.Pattern] = p.Percentage
		counts[p.Pattern] = p.Count
	}
	// Counts are per record containing a match, not per match
	if counts["email"] != 2 {
		t.Errorf("expected 2 records with emails, got %d", counts["email"])
	}
	if counts["url"] != 1 {
		t.Errorf("expected 1 record with a URL, got %d", counts["url"])
	}
	if !almostEqual(byName["email"], 50) {
		t.Errorf("expected email in 50%% of records, got %f", byName["email"])
	}
}

func TestTokenize_Basic(t *testing.T) {
	tokens := Tokenize("It's a well-known fact: 42 counts.")
	expected := []string{"It's", "a", "well", "known", "fact", "42", "counts"}
	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d: %v", len(expected), len(tokens), tokens)
	}
	for i, want := range expected {
		if tokens[i] != want {
			t.Errorf("token %d: expected %q, got %q", i, want, tokens[i])
		}
	}
}

func TestTokenize_CJKSingleRunes(t *testing.T) {
	tokens := Tokenize("日本語 test")
	// Each CJK rune is its own token
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[3] != "test" {
		t.Errorf("expected trailing latin token, got %q", tokens[3])
	}
}

func TestAnalyze_ScriptClassification(t *testing.T) {
	values := []string{
		"plain english text",
		"more english words",
		"привет мир",
	}
	result := Analyze("note", values, 10)

	if len(result.Languages) < 2 {
		t.Fatalf("expected at least 2 script classes, got %d", len(result.Languages))
	}
	if result.Languages[0].Language != "latin" || result.Languages[0].Count != 2 {
		t.Errorf("expected latin x2 dominant, got %s x%d", result.Languages[0].Language, result.Languages[0].Count)
	}
	foundCyrillic := false
	for _, l := range result.Languages {
		if l.Language == "cyrillic" {
			foundCyrillic = true
		}
	}
	if !foundCyrillic {
		t.Error("expected a cyrillic class")
	}
}

func TestAnalyze_SentenceStats(t *testing.T) {
	values := []string{"First sentence. Second one here! Third?"}
	result := Analyze("note", values, 10)

	if result.Sentences.SentenceCount != 3 {
		t.Errorf("expected 3 sentences, got %d", result.Sentences.SentenceCount)
	}
	if result.Sentences.PunctuationCounts["."] != 1 {
		t.Errorf("expected 1 period, got %d", result.Sentences.PunctuationCounts["."])
	}
}

func TestReadability_Bounds(t *testing.T) {
	simple := Analyze("note", []string{"The cat sat. The dog ran."}, 10)
	if simple.Readability.Score < 0 || simple.Readability.Score > 100 {
		t.Errorf("score outside [0,100]: %f", simple.Readability.Score)
	}

	dense := Analyze("note", []string{
		"Multidimensional heterogeneous representations systematically characterize interdependent organizational infrastructures notwithstanding considerable implementation complexities throughout distributed computational environments",
	}, 10)
	if dense.Readability.Score >= simple.Readability.Score {
		t.Errorf("dense prose should score below simple prose: %f >= %f",
			dense.Readability.Score, simple.Readability.Score)
	}
	if dense.Readability.Score >= 40 && len(dense.Readability.Recommendations) != 0 {
		t.Error("recommendations only expected for low scores")
	}
	if dense.Readability.Score < 40 && len(dense.Readability.Recommendations) == 0 {
		t.Error("expected recommendations for difficult text")
	}
}

func TestAnalyze_EmptyInput(t *testing.T) {
	result := Analyze("note", nil, 10)

	if result.Basic.RecordCount != 0 {
		t.Errorf("expected 0 records, got %d", result.Basic.RecordCount)
	}
	if len(result.WordFrequency) != 0 {
		t.Errorf("expected no word frequencies, got %d", len(result.WordFrequency))
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
