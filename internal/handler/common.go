package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/aastha-raghuvanshi/welth/internal/ledger"
	"github.com/aastha-raghuvanshi/welth/internal/middleware"
	"github.com/aastha-raghuvanshi/welth/internal/models"
	"github.com/aastha-raghuvanshi/welth/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// currentUser pulls the user resolved by the auth middleware. The false case
// only happens on a miswired route; the middleware has already answered 401.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(middleware.CurrentUserKey)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not signed in")
		return nil, false
	}
	user, ok := v.(*models.User)
	if !ok || user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not signed in")
		return nil, false
	}
	return user, true
}

// writeLedgerError maps service errors to the envelope in one place, so
// every ledger route reports failures the same way.
func writeLedgerError(c *gin.Context, log zerolog.Logger, op string, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "record not found")
	case errors.Is(err, ledger.ErrValidation):
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
	default:
		log.Error().Err(err).Str("op", op).Msg("ledger operation failed")
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "operation failed, please retry")
	}
}

// parseDate accepts the date formats clients actually send.
func parseDate(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339,          // 2025-12-03T00:00:00+01:00
		"2006-01-02T15:04:05", // 2025-12-03T00:00:00
		"2006-01-02",          // 2025-12-03
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
