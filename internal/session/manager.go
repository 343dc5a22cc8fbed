package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/restaurant-app/internal/logger"
)

const contextKey = "session"

type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

type Manager struct {
	store Store
	codec *Codec
	opts  Options
	log   *slog.Logger
}

func NewManager(store Store, codec *Codec, opts Options, log *slog.Logger) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "restaurant_session"
	}
	if opts.TTL <= 0 {
		opts.TTL = 24 * time.Hour
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{store: store, codec: codec, opts: opts, log: log}
}

// ======================================================
// MIDDLEWARE
// ======================================================

// Middleware resolves the cookie into a *Session for the request. A
// missing, tampered or expired cookie yields a fresh anonymous session
// that is only persisted once something is written to it.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := m.load(c)
		c.Set(contextKey, sess)

		if sess.Authenticated() {
			ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, sess.Identity.UserID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

func (m *Manager) load(c *gin.Context) *Session {
	raw, err := c.Cookie(m.opts.CookieName)
	if err != nil || raw == "" {
		return &Session{}
	}

	id, err := m.codec.Parse(raw)
	if err != nil {
		return &Session{}
	}

	sess, err := m.store.Get(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.WithContext(c.Request.Context(), m.log).
				Error("session lookup failed", slog.Any("err", err))
		}
		return &Session{}
	}
	return sess
}

// ======================================================
// ACCESSORS
// ======================================================

// Current never returns nil; routes outside the middleware see an
// anonymous session.
func Current(c *gin.Context) *Session {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(*Session); ok && s != nil {
			return s
		}
	}
	return &Session{}
}

func IdentityFrom(c *gin.Context) (*Identity, bool) {
	s := Current(c)
	if !s.Authenticated() {
		return nil, false
	}
	return s.Identity, true
}

// ======================================================
// MUTATIONS
// ======================================================

func (m *Manager) Save(c *gin.Context, s *Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
		s.CreatedAt = time.Now().UTC()
	}

	if err := m.store.Save(c.Request.Context(), s, m.opts.TTL); err != nil {
		return err
	}

	token, err := m.codec.Sign(s.ID, m.opts.TTL)
	if err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, token, int(m.opts.TTL.Seconds()), "/", "", m.opts.Secure, true)
	c.Set(contextKey, s)
	return nil
}

// SetNext remembers where to send the user after they authenticate.
func (m *Manager) SetNext(c *gin.Context, next string) error {
	s := Current(c)
	s.Next = next
	return m.Save(c, s)
}

// Establish authenticates the request under a brand new session id and
// returns the pending post-login target, if one was stored.
func (m *Manager) Establish(c *gin.Context, ident Identity) (string, error) {
	old := Current(c)
	next := old.Next

	if old.ID != "" {
		if err := m.store.Delete(c.Request.Context(), old.ID); err != nil {
			logger.WithContext(c.Request.Context(), m.log).
				Warn("drop previous session failed", slog.Any("err", err))
		}
	}

	fresh := &Session{Identity: &ident}
	if err := m.Save(c, fresh); err != nil {
		return "", err
	}
	return next, nil
}

// Destroy clears everything, like a full logout.
func (m *Manager) Destroy(c *gin.Context) error {
	s := Current(c)

	var err error
	if s.ID != "" {
		err = m.store.Delete(c.Request.Context(), s.ID)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.opts.CookieName, "", -1, "/", "", m.opts.Secure, true)
	c.Set(contextKey, &Session{})
	return err
}
