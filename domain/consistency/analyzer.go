// Package consistency detects rows whose categorical "Data Type" value
// disagrees with the dominant value recorded for the same "Name" key.
package consistency

import (
	"github.com/Ivanfun/ivan-excel-type-checker/domain/tabular"
)

// KeyProfile maps each distinct Name to the dominant Data Type recorded
// for it. Recomputed fully on each run, never persisted.
type KeyProfile map[string]string

// SummaryRow is one (Name, Data Type, Count) triple of the deviation
// summary.
type SummaryRow struct {
	Name     string
	DataType string
	Count    int
}

// Summary is the ordered deviation summary, grouped in first-appearance
// order.
type Summary []SummaryRow

// Result carries everything the analyzer derives from one Dataset.
type Result struct {
	Profile     KeyProfile
	Summary     Summary
	FlaggedRows int
	// FlaggedNames counts distinct Names with at least one flagged row.
	FlaggedNames int
}

// Analyze computes the per-Name dominant Data Type, marks every record
// whose value diverges, and builds the deviation summary. Records with a
// blank Name or Data Type never participate: they are not grouped, not
// flagged, and not counted. The dataset's records are annotated in
// place; nothing else is mutated.
func Analyze(ds *tabular.Dataset) Result {
	result := Result{Profile: KeyProfile{}}

	nameIdx := ds.ColumnIndex(tabular.ColumnName)
	typeIdx := ds.ColumnIndex(tabular.ColumnDataType)
	if nameIdx < 0 || typeIdx < 0 {
		return result
	}

	// Frequency of each Data Type per Name, plus first-seen order of
	// values so the mode tie-break is deterministic.
	counts := make(map[string]map[string]int)
	valueOrder := make(map[string][]string)

	for _, rec := range ds.Records {
		name, dataType, ok := analyzedValues(rec, nameIdx, typeIdx)
		if !ok {
			continue
		}
		if counts[name] == nil {
			counts[name] = make(map[string]int)
		}
		if counts[name][dataType] == 0 {
			valueOrder[name] = append(valueOrder[name], dataType)
		}
		counts[name][dataType]++
	}

	// Dominant value per Name: the mode, ties broken by the value seen
	// first in original row order.
	for name, order := range valueOrder {
		dominant := order[0]
		for _, value := range order[1:] {
			if counts[name][value] > counts[name][dominant] {
				dominant = value
			}
		}
		result.Profile[name] = dominant
	}

	// Flag every record diverging from its group's dominant value.
	flaggedNames := make(map[string]bool)
	for i := range ds.Records {
		rec := &ds.Records[i]
		name, dataType, ok := analyzedValues(*rec, nameIdx, typeIdx)
		if !ok {
			rec.Flagged = false
			continue
		}
		rec.Flagged = dataType != result.Profile[name]
		if rec.Flagged {
			result.FlaggedRows++
			flaggedNames[name] = true
		}
	}
	result.FlaggedNames = len(flaggedNames)

	// Summary covers all records of a flagged Name, across all of its
	// Data Type values, not only the minority ones.
	groupIndex := make(map[[2]string]int)
	for _, rec := range ds.Records {
		name, dataType, ok := analyzedValues(rec, nameIdx, typeIdx)
		if !ok || !flaggedNames[name] {
			continue
		}
		key := [2]string{name, dataType}
		if idx, seen := groupIndex[key]; seen {
			result.Summary[idx].Count++
			continue
		}
		groupIndex[key] = len(result.Summary)
		result.Summary = append(result.Summary, SummaryRow{Name: name, DataType: dataType, Count: 1})
	}

	return result
}

// analyzedValues extracts the trimmed (Name, Data Type) pair of a
// record, reporting false when either is blank.
func analyzedValues(rec tabular.Record, nameIdx, typeIdx int) (string, string, bool) {
	name := rec.CellAt(nameIdx).String()
	dataType := rec.CellAt(typeIdx).String()
	if name == "" || dataType == "" {
		return "", "", false
	}
	return name, dataType, true
}
