package contract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// quarterPattern matches the Q[1-4]YYYY textual form.
var quarterPattern = regexp.MustCompile(`^[Qq]([1-4])(\d{4})$`)

// Quarter is a calendar quarter of a year.
type Quarter struct {
	Number int // 1 through 4
	Year   int
}

// ParseQuarter parses the Q[1-4]YYYY form, e.g. "Q32026".
func ParseQuarter(s string) (Quarter, error) {
	m := quarterPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Quarter{}, fmt.Errorf("%w: invalid quarter %q (expected Q[1-4]YYYY, e.g. Q32026)", ErrConfig, s)
	}
	number, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	return Quarter{Number: number, Year: year}, nil
}

// CurrentQuarter returns the calendar quarter containing now.
func CurrentQuarter(now time.Time) Quarter {
	now = now.UTC()
	return Quarter{Number: (int(now.Month())-1)/3 + 1, Year: now.Year()}
}

// Start returns the first instant of the quarter in UTC.
func (q Quarter) Start() time.Time {
	return time.Date(q.Year, time.Month((q.Number-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant after the quarter in UTC.
func (q Quarter) End() time.Time {
	return q.Start().AddDate(0, 3, 0)
}

// String renders the quarter in the Q[1-4]YYYY form.
func (q Quarter) String() string {
	return fmt.Sprintf("Q%d%d", q.Number, q.Year)
}
