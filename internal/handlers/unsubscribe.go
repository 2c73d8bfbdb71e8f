package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"english-bridge-mailer/internal/model"
	"english-bridge-mailer/internal/repository"
)

// confirmationPage is shown for every unsubscribe click, valid reference
// or not. Problems are logged server-side only; the visitor always gets
// the same answer, which also makes repeat clicks indistinguishable from
// the first.
const confirmationPage = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222; max-width: 560px; margin: 40px auto;">
<h2 style="color: #1a5276;">English Bridge</h2>
<p>You have been unsubscribed and will not receive further emails from us.</p>
<p>Changed your mind? Write to hello@englishbridge.org and we will add you back.</p>
</body>
</html>`

// Unsubscribe flips the opt-in flag of the referenced application or
// RSVP to false. Idempotent: the flag is only ever flipped one way and
// re-clicking the link returns the same page.
func (h *Handlers) Unsubscribe(c *gin.Context) {
	kind := c.Param("kind")
	if kind != model.TriggerApplication && kind != model.TriggerRSVP {
		logrus.Warnf("Unsubscribe request with unknown kind %q", kind)
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(confirmationPage))
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		logrus.Warnf("Unsubscribe request with invalid id %q", c.Param("id"))
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(confirmationPage))
		return
	}

	if err := h.store.OptOut(c.Request.Context(), kind, uint(id)); err != nil {
		if err == repository.ErrNotFound {
			logrus.Warnf("Unsubscribe request for missing %s %d", kind, id)
		} else {
			logrus.Errorf("Failed to opt out %s %d: %v", kind, id, err)
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(confirmationPage))
		return
	}

	h.metrics.OptOuts.Inc()
	logrus.Infof("Opted out %s %d", kind, id)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(confirmationPage))
}
