// utils/time_utils.go
package utils

import "time"

// Brasília time location (BRT, -03:00)
var brLoc = func() *time.Location {
	if loc, err := time.LoadLocation("America/Sao_Paulo"); err == nil {
		return loc
	}
	return time.FixedZone("BRT", -3*3600)
}()

// FormatDisplayBR renders dd/mm/yyyy hh:mm, the format leads read in emails.
func FormatDisplayBR(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(brLoc).Format("02/01/2006 15:04")
}

// ParseDateBR accepts yyyy-mm-dd (HTML date input) or dd/mm/yyyy.
func ParseDateBR(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "02/01/2006"} {
		if t, err := time.ParseInLocation(layout, s, brLoc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
