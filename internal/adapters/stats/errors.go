package stats

import (
	"errors"
	"fmt"
)

// Sentinel errors for profile fetches.
var (
	ErrNotFound       = errors.New("profile not found")
	ErrPrivateProfile = errors.New("profile is private")
	ErrConnection     = errors.New("stats source unreachable")
	ErrRelay          = errors.New("stats relay failed")
	ErrParse          = errors.New("profile payload malformed")
)

// MarkerError is an error marker reported by the stats source itself.
type MarkerError struct {
	Marker string
}

func (e *MarkerError) Error() string { return fmt.Sprintf("stats source error %q", e.Marker) }

// Is reports ErrRelay so unknown markers classify as relay failures.
func (e *MarkerError) Is(target error) bool { return target == ErrRelay }

// Message returns the text shown to a user for a fetch error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrPrivateProfile):
		return "User profile is PRIVATE. Enable public sharing in RS3 settings."
	case errors.Is(err, ErrNotFound):
		return "User not found on RuneMetrics."
	case errors.Is(err, ErrConnection):
		return "Connection failed. This is usually caused by proxy service outages or CORS blocking. Please try again in a few minutes."
	case errors.Is(err, ErrParse):
		return "Failed to parse profile data"
	case err == nil:
		return ""
	}
	var marker *MarkerError
	if errors.As(err, &marker) {
		return "RS API Error: " + marker.Marker
	}
	return err.Error()
}
