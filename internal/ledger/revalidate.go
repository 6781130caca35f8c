package ledger

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Invalidator receives logical cache keys after a successful ledger mutation
// so downstream presentation layers can refetch. The mechanism behind the
// keys is up to the implementation.
type Invalidator interface {
	Invalidate(keys ...string)
}

// DashboardKey is emitted on every mutation; per-account keys come from
// AccountKey.
const DashboardKey = "/dashboard"

// AccountKey returns the invalidation key for one account's view.
func AccountKey(accountID uint) string {
	return fmt.Sprintf("/account/%d", accountID)
}

// LogInvalidator logs the emitted keys. It is the default wiring when no
// real cache sits in front of the service.
type LogInvalidator struct {
	Log zerolog.Logger
}

func (l LogInvalidator) Invalidate(keys ...string) {
	l.Log.Debug().Strs("keys", keys).Msg("cache invalidate")
}
