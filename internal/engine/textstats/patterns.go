package textstats

import (
	"regexp"

	"datalens/domain/analysis"
)

// Fixed pattern set reported by the analyzer. Counts are records containing
// at least one match.
var patternSet = []struct {
	name        string
	description string
	re          *regexp.Regexp
}{
	{"email", "Email addresses", regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)},
	{"url", "URLs", regexp.MustCompile(`https?://[^\s]+`)},
	{"phone", "Phone numbers", regexp.MustCompile(`\+?\d[\d\s\-().]{6,}\d`)},
}

// DetectPatterns reports how many records contain each fixed pattern.
func DetectPatterns(values []string) []analysis.PatternStat {
	out := make([]analysis.PatternStat, 0, len(patternSet))
	total := len(values)
	for _, p := range patternSet {
		count := 0
		for _, v := range values {
			if p.re.MatchString(v) {
				count++
			}
		}
		stat := analysis.PatternStat{
			Pattern:     p.name,
			Description: p.description,
			Count:       count,
		}
		if total > 0 {
			stat.Percentage = 100 * float64(count) / float64(total)
		}
		out = append(out, stat)
	}
	return out
}
