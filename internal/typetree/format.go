package typetree

import (
	"fmt"
	"math"
	"strconv"
)

var countSuffixes = []string{"", "K", "M", "B", "T"}

// FormatCount abbreviates n with a K/M/B/T suffix at one decimal place,
// falling back to "1.23E+15" form past trillions.
func FormatCount(n int64) string {
	if n < 1000 {
		return strconv.FormatInt(n, 10)
	}

	v := float64(n)
	magnitude := 0
	for math.Abs(v) >= 1000 {
		magnitude++
		v /= 1000
	}
	if magnitude >= len(countSuffixes) {
		return fmt.Sprintf("%.2fE+%d", v, magnitude*3)
	}
	return fmt.Sprintf("%.1f%s", v, countSuffixes[magnitude])
}

// FormatPercentage renders part/total as a whole percentage. A zero total
// renders as "0%".
func FormatPercentage(part, total int64) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", float64(part)/float64(total)*100)
}
