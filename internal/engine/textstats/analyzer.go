// Package textstats profiles one text column: token and character
// frequencies, fixed-pattern detection, script classification, sentence
// statistics and a readability estimate.
package textstats

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"datalens/domain/analysis"
)

// DefaultTopN bounds the frequency tables when the request leaves it unset.
const DefaultTopN = 10

var sentenceSplit = regexp.MustCompile(`[.!?。！？]+`)

var punctuationMarks = []string{".", ",", "!", "?", ";", ":", "。", "、", "！", "？"}

// Analyze computes the full text profile for the column's records.
func Analyze(column string, values []string, topN int) *analysis.TextAnalysisResult {
	if topN <= 0 {
		topN = DefaultTopN
	}

	result := &analysis.TextAnalysisResult{
		Column:        column,
		WordFrequency: []analysis.FrequencyEntry{},
		CharFrequency: []analysis.FrequencyEntry{},
		Patterns:      DetectPatterns(values),
		Languages:     []analysis.LanguageStat{},
		Sentences: analysis.SentenceStats{
			PunctuationCounts: map[string]int{},
		},
	}

	var (
		allWords           []string
		sentenceWordCounts []int
		unique             = map[string]struct{}{}
		wordCounts         = map[string]int{}
		charCounts         = map[string]int{}
	)

	for _, v := range values {
		unique[v] = struct{}{}
		if strings.TrimSpace(v) == "" {
			result.Basic.EmptyCount++
			continue
		}

		result.Basic.TotalCharacters += utf8.RuneCountInString(v)

		tokens := Tokenize(v)
		result.Basic.TotalWords += len(tokens)
		for _, tok := range tokens {
			w := strings.ToLower(tok)
			wordCounts[w]++
			allWords = append(allWords, w)
		}

		for _, r := range v {
			if unicode.IsSpace(r) {
				continue
			}
			charCounts[string(r)]++
		}

		for _, mark := range punctuationMarks {
			if n := strings.Count(v, mark); n > 0 {
				result.Sentences.PunctuationCounts[mark] += n
			}
		}

		for _, sentence := range sentenceSplit.Split(v, -1) {
			if strings.TrimSpace(sentence) == "" {
				continue
			}
			result.Sentences.SentenceCount++
			sentenceWordCounts = append(sentenceWordCounts, len(Tokenize(sentence)))
		}
	}

	result.Basic.RecordCount = len(values)
	result.Basic.UniqueCount = len(unique)
	if len(values) > 0 {
		result.Basic.EmptyRatio = float64(result.Basic.EmptyCount) / float64(len(values))
		result.Basic.UniquenessRatio = float64(len(unique)) / float64(len(values))
		result.Basic.AvgCharsPerItem = float64(result.Basic.TotalCharacters) / float64(len(values))
		result.Basic.AvgWordsPerItem = float64(result.Basic.TotalWords) / float64(len(values))
	}

	result.WordFrequency = topFrequencies(wordCounts, topN)
	result.CharFrequency = topFrequencies(charCounts, topN)
	result.Languages = classifyScripts(values)

	if result.Sentences.SentenceCount > 0 {
		total := 0
		for _, c := range sentenceWordCounts {
			total += c
		}
		result.Sentences.AvgSentenceLength = float64(total) / float64(result.Sentences.SentenceCount)
	}

	result.Readability = Readability(sentenceWordCounts, allWords)
	return result
}

// topFrequencies returns the n most frequent entries with their share of
// total occurrences. Ties break lexicographically so results stay
// deterministic.
func topFrequencies(counts map[string]int, n int) []analysis.FrequencyEntry {
	total := 0
	for _, c := range counts {
		total += c
	}
	entries := make([]analysis.FrequencyEntry, 0, len(counts))
	for tok, c := range counts {
		e := analysis.FrequencyEntry{Token: tok, Count: c}
		if total > 0 {
			e.Percentage = 100 * float64(c) / float64(total)
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Token < entries[j].Token
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// classifyScripts buckets each record by its dominant script class and
// reports share and average length per class.
func classifyScripts(values []string) []analysis.LanguageStat {
	type agg struct {
		count    int
		totalLen int
	}
	classes := map[string]*agg{}
	nonEmpty := 0

	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		nonEmpty++
		class := dominantScript(v)
		a, ok := classes[class]
		if !ok {
			a = &agg{}
			classes[class] = a
		}
		a.count++
		a.totalLen += utf8.RuneCountInString(v)
	}

	out := make([]analysis.LanguageStat, 0, len(classes))
	for class, a := range classes {
		stat := analysis.LanguageStat{
			Language:  class,
			Count:     a.count,
			AvgLength: float64(a.totalLen) / float64(a.count),
		}
		if nonEmpty > 0 {
			stat.Percentage = 100 * float64(a.count) / float64(nonEmpty)
		}
		out = append(out, stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Language < out[j].Language
	})
	return out
}

func dominantScript(s string) string {
	counts := map[string]int{}
	for _, r := range s {
		switch {
		case r <= unicode.MaxASCII && unicode.IsLetter(r):
			counts["latin"]++
		case unicode.Is(unicode.Latin, r):
			counts["latin_extended"]++
		case unicode.Is(unicode.Cyrillic, r):
			counts["cyrillic"]++
		case unicode.Is(unicode.Han, r):
			counts["cjk"]++
		case unicode.Is(unicode.Hiragana, r) || unicode.Is(unicode.Katakana, r):
			counts["japanese"]++
		case unicode.Is(unicode.Hangul, r):
			counts["korean"]++
		case unicode.Is(unicode.Arabic, r):
			counts["arabic"]++
		case unicode.IsDigit(r):
			counts["numeric"]++
		}
	}
	best, bestCount := "other", 0
	// Deterministic order for ties
	for _, class := range []string{"latin", "latin_extended", "cyrillic", "cjk", "japanese", "korean", "arabic", "numeric"} {
		if counts[class] > bestCount {
			best, bestCount = class, counts[class]
		}
	}
	return best
}
