package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DMS notation as produced by handsets and provisioning tools:
// 34°38'19.39''N, 2°56'7.2''W, also with plain separators: 34 38 19.39 N.
var dmsPattern = regexp.MustCompile(
	`^\s*(\d{1,3})\s*(?:°|\s)\s*(\d{1,2})\s*(?:'|\s)\s*(\d{1,2}(?:\.\d+)?)\s*(?:''|")?\s*([NSEWnsew])\s*$`)

// ParseCoordinate parses a latitude or longitude supplied by a client. Signed
// decimal degrees and DMS compass notation are accepted; anything else
// (including mixed forms like "North 72.908134") is an error.
func ParseCoordinate(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, fmt.Errorf("empty coordinate")
	}

	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return v, nil
	}

	m := dmsPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return 0, fmt.Errorf("coordinate %q is neither decimal degrees nor DMS notation", s)
	}

	deg, _ := strconv.ParseFloat(m[1], 64)
	min, _ := strconv.ParseFloat(m[2], 64)
	sec, _ := strconv.ParseFloat(m[3], 64)
	if min >= 60 || sec >= 60 {
		return 0, fmt.Errorf("coordinate %q has out-of-range minutes or seconds", s)
	}

	v := deg + min/60 + sec/3600
	switch strings.ToUpper(m[4]) {
	case "S", "W":
		v = -v
	}
	return v, nil
}

// CheckLatitude validates a client-supplied latitude string against WGS84.
func CheckLatitude(s string) error {
	v, err := ParseCoordinate(s)
	if err != nil {
		return err
	}
	if v < -90 || v > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", v)
	}
	return nil
}

// CheckLongitude validates a client-supplied longitude string against WGS84.
func CheckLongitude(s string) error {
	v, err := ParseCoordinate(s)
	if err != nil {
		return err
	}
	if v < -180 || v > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", v)
	}
	return nil
}
