package core

import (
	"sort"

	"github.com/huangsam/cyclereport/schema"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortRows orders rows by team name using a locale-aware collation,
// then by cycle number descending. Equal rows keep their relative order.
func SortRows(rows []schema.DerivedRow) {
	col := collate.New(language.English)
	sort.SliceStable(rows, func(i, j int) bool {
		if c := col.CompareString(rows[i].TeamName, rows[j].TeamName); c != 0 {
			return c < 0
		}
		return rows[i].CycleNumber > rows[j].CycleNumber
	})
}
