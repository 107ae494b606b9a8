package order

import (
	"strconv"
	"strings"
	"time"
)

// DateParts - то, что удалось извлечь из свободного поля даты.
// Day == 0, если день не указан.
type DateParts struct {
	Year  int
	Month time.Month
	Day   int
}

var czechMonths = map[string]time.Month{
	"leden":    time.January,
	"únor":     time.February,
	"březen":   time.March,
	"duben":    time.April,
	"květen":   time.May,
	"červen":   time.June,
	"červenec": time.July,
	"srpen":    time.August,
	"září":     time.September,
	"říjen":    time.October,
	"listopad": time.November,
	"prosinec": time.December,
}

// MonthName возвращает чешское название месяца с заглавной буквы
func MonthName(m time.Month) string {
	for name, month := range czechMonths {
		if month == m {
			r := []rune(name)
			return strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return ""
}

// ParseDate разбирает поле Date. Поддерживаются "D. M. YYYY", "M. YYYY",
// ISO "YYYY-MM-DD" и название месяца с необязательным годом.
// Если год не указан, подставляется fallbackYear.
func ParseDate(raw string, fallbackYear int) (DateParts, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return DateParts{}, false
	}

	if t, err := time.Parse("2006-01-02", firstN(s, 10)); err == nil {
		return DateParts{Year: t.Year(), Month: t.Month(), Day: t.Day()}, true
	}

	if strings.Contains(s, ".") {
		return parseDotted(s, fallbackYear)
	}

	fields := strings.Fields(strings.ToLower(s))
	month, ok := czechMonths[fields[0]]
	if !ok {
		return DateParts{}, false
	}
	year := fallbackYear
	if len(fields) > 1 {
		y, err := strconv.Atoi(fields[1])
		if err != nil {
			return DateParts{}, false
		}
		year = y
	}
	return DateParts{Year: year, Month: month}, true
}

func parseDotted(s string, fallbackYear int) (DateParts, bool) {
	var nums []int
	for _, part := range strings.Split(s, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return DateParts{}, false
		}
		nums = append(nums, n)
	}

	var d DateParts
	switch len(nums) {
	case 3:
		d = DateParts{Day: nums[0], Month: time.Month(nums[1]), Year: nums[2]}
	case 2:
		// "15. 3." без года или "3. 2025" без дня
		if nums[1] > 12 {
			d = DateParts{Month: time.Month(nums[0]), Year: nums[1]}
		} else {
			d = DateParts{Day: nums[0], Month: time.Month(nums[1]), Year: fallbackYear}
		}
	default:
		return DateParts{}, false
	}

	if d.Month < time.January || d.Month > time.December || d.Day < 0 || d.Day > 31 {
		return DateParts{}, false
	}
	return d, true
}

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
