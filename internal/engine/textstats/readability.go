package textstats

import (
	"datalens/domain/analysis"
	"unicode/utf8"
)

// Words longer than this count as complex for the readability estimate.
const complexWordLength = 7

// Readability derives a 0-100 score from average sentence length and word
// complexity; higher scores read easier. Low scores come with concrete
// improvement recommendations.
func Readability(sentenceWordCounts []int, words []string) analysis.ReadabilityReport {
	totalWords := 0
	for _, c := range sentenceWordCounts {
		totalWords += c
	}

	avgSentenceLen := 0.0
	if len(sentenceWordCounts) > 0 {
		avgSentenceLen = float64(totalWords) / float64(len(sentenceWordCounts))
	}

	complexCount := 0
	totalLetters := 0
	for _, w := range words {
		n := utf8.RuneCountInString(w)
		totalLetters += n
		if n >= complexWordLength {
			complexCount++
		}
	}
	avgWordLength := 0.0
	complexRatio := 0.0
	if len(words) > 0 {
		avgWordLength = float64(totalLetters) / float64(len(words))
		complexRatio = float64(complexCount) / float64(len(words))
	}

	score := 100 - 3.5*avgSentenceLen - 60*complexRatio
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	report := analysis.ReadabilityReport{
		Score:           score,
		ComplexityLevel: complexityLevel(score),
		AvgWordLength:   avgWordLength,
	}
	if score < 40 {
		if avgSentenceLen > 15 {
			report.Recommendations = append(report.Recommendations,
				"Sentences are long on average; splitting them improves readability")
		}
		if complexRatio > 0.25 {
			report.Recommendations = append(report.Recommendations,
				"Many long words; shorter synonyms would lower complexity")
		}
		if len(report.Recommendations) == 0 {
			report.Recommendations = append(report.Recommendations,
				"Text is dense; shorter sentences and simpler wording would help")
		}
	}
	return report
}

func complexityLevel(score float64) string {
	switch {
	case score >= 80:
		return "very_easy"
	case score >= 60:
		return "easy"
	case score >= 40:
		return "moderate"
	case score >= 20:
		return "difficult"
	default:
		return "very_difficult"
	}
}
