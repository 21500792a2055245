package balances

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Resolve picks the record whose name best matches a transcript and returns it
// with its position in records. A case-insensitive
// exact match wins outright, otherwise the smallest edit distance wins and ties go to
// the earliest record. There is no similarity threshold: any non-empty list yields a
// record.
func Resolve(transcript string, records []Record) (Record, int, error) {
	if len(records) == 0 {
		return Record{}, -1, ErrEmptyCategoryList
	}

	needle := normalize(transcript)

	best := -1
	bestDistance := 0
	for i, record := range records {
		name := normalize(record.Name)
		if name == needle {
			return record, i, nil
		}

		distance := levenshtein.ComputeDistance(needle, name)
		if best < 0 || distance < bestDistance {
			best = i
			bestDistance = distance
		}
	}

	return records[best], best, nil
}

// Distance is the edit distance Resolve uses between a transcript and a category name.
func Distance(transcript, name string) int {
	return levenshtein.ComputeDistance(normalize(transcript), normalize(name))
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
