package gains

import (
	"errors"
	"fmt"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/relay"
)

// Document classifications. They never leave the package; FetchGains turns
// them into unavailable records.
var (
	errNotTracked   = errors.New("player not tracked")
	errNeedsUpdate  = errors.New("player needs update")
	errUnrecognized = errors.New("table structure not recognized")
)

// User-facing messages for unavailable records.
const (
	MsgNotTracked   = "Player not tracked on CML"
	MsgNeedsUpdate  = `Player exists but needs "Update" on CML website`
	MsgUnrecognized = "CML table structure not recognized"
	MsgServiceBusy  = "CML tracking service busy"
	MsgUnreachable  = "CML unreachable"
)

func shortDocument(n int) error {
	return fmt.Errorf("%w: document of %d bytes", relay.ErrEmptyBody, n)
}
