package auth

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

// cookieCommitWriter defers the scs session commit to the first header
// write, the last point at which a Set-Cookie header can still go out.
// scs's own LoadAndSave wraps plain http handlers; gin hands out its own
// ResponseWriter, so the commit hook has to live here instead.
type cookieCommitWriter struct {
	gin.ResponseWriter
	sm         *SessionManager
	request    *http.Request
	headerSent bool
	committed  bool
}

func (w *cookieCommitWriter) WriteHeader(code int) {
	if !w.headerSent {
		w.headerSent = true
		w.commitSession()
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *cookieCommitWriter) WriteHeaderNow() {
	if !w.headerSent {
		w.headerSent = true
		w.commitSession()
	}
	w.ResponseWriter.WriteHeaderNow()
}

func (w *cookieCommitWriter) Write(b []byte) (int, error) {
	if !w.headerSent {
		w.headerSent = true
		w.commitSession()
	}
	return w.ResponseWriter.Write(b)
}

// commitSession persists modified session data and sets (or clears) the
// session cookie. Runs at most once per response.
func (w *cookieCommitWriter) commitSession() {
	if w.committed {
		return
	}
	w.committed = true

	ctx := w.request.Context()
	switch w.sm.Status(ctx) {
	case scs.Modified:
		token, expiry, err := w.sm.Commit(ctx)
		if err != nil {
			return
		}
		w.sm.WriteSessionCookie(ctx, w.ResponseWriter, token, expiry)
	case scs.Destroyed:
		w.sm.WriteSessionCookie(ctx, w.ResponseWriter, "", time.Time{})
	}
}

// SessionLoadSave adapts scs's load-and-save cycle to a gin middleware:
// load the session into the request context, run the chain, commit on the
// way out. Must be installed before anything that touches session data.
func (sm *SessionManager) SessionLoadSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(sm.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := sm.Load(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.Request = c.Request.WithContext(ctx)

		writer := &cookieCommitWriter{
			ResponseWriter: c.Writer,
			sm:             sm,
			request:        c.Request,
		}
		c.Writer = writer

		c.Next()

		// A handler that sends no body never triggers a header write.
		if !writer.headerSent {
			writer.commitSession()
		}
	}
}
