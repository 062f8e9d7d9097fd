package location

import (
	"errors"
	"fmt"
)

// Display strings for states that are not a fix.
const (
	NotSupported = "Geolocation not supported"
	Acquiring    = "Acquiring location..."
	Denied       = "Location access denied"
	Unavailable  = "Location unavailable"
	NA           = "N/A"
)

// FormatCoordinates prints six decimals, about 0.11 m at the equator.
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.6f, %.6f", lat, lon)
}

func FormatAltitude(alt *float64) string {
	if alt == nil {
		return NA
	}
	return fmt.Sprintf("%.1f m", *alt)
}

func FormatAccuracy(acc *float64) string {
	if acc == nil {
		return NA
	}
	return fmt.Sprintf("±%.1f m", *acc)
}

// ErrorText is the coordinates label shown after a failed fix.
func ErrorText(err error) string {
	if errors.Is(err, ErrPermissionDenied) {
		return Denied
	}
	return Unavailable
}
