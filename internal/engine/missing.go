package engine

import (
	"datalens/domain/analysis"
	"datalens/domain/table"
)

// MissingData scans each selected column in snapshot order and emits one
// missing_start event on every present->missing transition and one
// missing_end on every missing->present transition, carrying the length of
// the run just closed. Null and absent values are always missing; zero and
// empty string participate per the policy flags. A run still open at the
// end of the snapshot counts toward the column stats but emits no end
// event.
func MissingData(snap *table.Snapshot, columns []string, p table.MissingPolicy) *analysis.MissingDataResult {
	result := &analysis.MissingDataResult{
		Events:      []analysis.MissingEvent{},
		ColumnStats: make(map[string]analysis.MissingColumnStats, len(columns)),
	}

	for _, col := range columns {
		scanColumn(snap, col, p, result)
	}

	result.Summary.TotalEvents = len(result.Events)
	return result
}

func scanColumn(snap *table.Snapshot, column string, p table.MissingPolicy, result *analysis.MissingDataResult) {
	var (
		inRun       bool
		runLength   int
		runCount    int
		missingRows int
		maxRun      int
		totalRunLen int
	)

	for i, row := range snap.Rows {
		v := row.Get(column)
		missing := v.IsMissing(p)

		if missing {
			missingRows++
			runLength++
			if !inRun {
				inRun = true
				runCount++
				result.Events = append(result.Events, analysis.MissingEvent{
					Type:       analysis.MissingStart,
					RowIndex:   i,
					ColumnName: column,
					Value:      v,
				})
				result.Summary.MissingStartEvents++
			}
			continue
		}

		if inRun {
			result.Events = append(result.Events, analysis.MissingEvent{
				Type:          analysis.MissingEnd,
				RowIndex:      i,
				ColumnName:    column,
				Value:         v,
				MissingLength: runLength,
			})
			result.Summary.MissingEndEvents++
			totalRunLen += runLength
			if runLength > maxRun {
				maxRun = runLength
			}
			inRun = false
			runLength = 0
		}
	}

	// Run still open at the end of the snapshot
	if inRun {
		totalRunLen += runLength
		if runLength > maxRun {
			maxRun = runLength
		}
	}

	if maxRun > result.Summary.LongestMissingStreak {
		result.Summary.LongestMissingStreak = maxRun
	}

	stats := analysis.MissingColumnStats{
		TotalMissingEvents: runCount,
		MaxMissingLength:   maxRun,
	}
	if len(snap.Rows) > 0 {
		stats.MissingPercentage = 100 * float64(missingRows) / float64(len(snap.Rows))
	}
	if runCount > 0 {
		stats.AverageMissingLength = float64(totalRunLen) / float64(runCount)
	}
	result.ColumnStats[column] = stats
}
