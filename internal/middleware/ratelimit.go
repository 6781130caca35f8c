package middleware

import (
	"net/http"

	"github.com/aastha-raghuvanshi/welth/internal/limiter"
	"github.com/aastha-raghuvanshi/welth/internal/models"
	"github.com/aastha-raghuvanshi/welth/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RateLimit gates mutating routes per user. Must run after Auth.
func RateLimit(lim *limiter.Limiter, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CurrentUserKey)
		if !ok {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not signed in")
			c.Abort()
			return
		}
		user, ok := v.(*models.User)
		if !ok || user == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not signed in")
			c.Abort()
			return
		}

		decision := lim.Check(user.ID, 1)
		if decision.Allowed {
			c.Next()
			return
		}

		if decision.Reason == limiter.ReasonRateLimit {
			log.Warn().
				Str("code", "RATE_LIMIT_EXCEEDED").
				Uint("user_id", user.ID).
				Int("remaining", decision.Remaining).
				Dur("retry_after", decision.RetryAfter).
				Msg("request denied")
			util.Error(c, http.StatusTooManyRequests, util.CodeRateLimited,
				"too many requests, please try again later")
		} else {
			log.Warn().
				Str("code", "REQUEST_BLOCKED").
				Uint("user_id", user.ID).
				Msg("request denied")
			util.Error(c, http.StatusForbidden, util.CodePolicyBlocked, "request blocked")
		}
		c.Abort()
	}
}
