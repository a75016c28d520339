package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
)

// SessionAttributes annotates the New Relic transaction with the state of the
// browser session once the handler has run. Without an agent it does nothing.
func SessionAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		txn := nrgin.Transaction(c)
		sess := CurrentSession(c)
		if txn == nil || sess == nil {
			return
		}

		txn.AddAttribute("session.bootstrapped", sess.Bootstrapped())
		txn.AddAttribute("session.authenticated", sess.IsAuthenticated())
		txn.AddAttribute("session.hasDraft", sess.Draft() != nil)
		if u := sess.User(); u != nil {
			txn.AddAttribute("user.id", u.ID)
		}

		for _, err := range c.Errors {
			txn.NoticeError(err.Err)
		}
	}
}
