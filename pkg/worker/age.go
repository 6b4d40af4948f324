package worker

import (
	"fmt"
	"time"
)

// AbbreviateAge renders a rough "time since last contact" string for
// display next to a worker.
func AbbreviateAge(age time.Duration) string {
	if age < time.Second {
		return "just now"
	}
	if age < time.Minute {
		return plural(int(age.Seconds()), "second")
	}
	if age < time.Hour {
		return plural(int(age.Minutes()), "minute")
	}
	if age < 24*time.Hour {
		return "about " + plural(int(age.Hours()), "hour")
	}
	if age < 7*24*time.Hour {
		return "about " + plural(int(age.Hours()/24), "day")
	}
	return "about " + plural(int(age.Hours()/(24*7)), "week")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
