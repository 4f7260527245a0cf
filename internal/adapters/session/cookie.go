package session

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	cookieName = "console-session"
	idKey      = "sid"
)

// Flash is a one-shot alert shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

func init() {
	gob.Register(Flash{})
}

// Cookies stores the session id and pending flashes in a signed cookie.
type Cookies struct {
	store *sessions.CookieStore
}

func NewCookies(secret []byte, maxAge int, secure bool) *Cookies {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Cookies{store: store}
}

func (c *Cookies) get(r *http.Request) *sessions.Session {
	// a cookie that fails to decode yields a fresh session
	s, _ := c.store.Get(r, cookieName)
	return s
}

// ID returns the session id carried by the request cookie, if any.
func (c *Cookies) ID(r *http.Request) string {
	id, _ := c.get(r).Values[idKey].(string)
	return id
}

func (c *Cookies) SetID(w http.ResponseWriter, r *http.Request, id string) error {
	s := c.get(r)
	s.Values[idKey] = id
	return s.Save(r, w)
}

// Clear forgets the session id but keeps pending flashes.
func (c *Cookies) Clear(w http.ResponseWriter, r *http.Request) error {
	s := c.get(r)
	delete(s.Values, idKey)
	return s.Save(r, w)
}

func (c *Cookies) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) error {
	s := c.get(r)
	s.AddFlash(Flash{Kind: kind, Message: message})
	return s.Save(r, w)
}

// Flashes pops the pending flashes.
func (c *Cookies) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s := c.get(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save(r, w)

	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	return out
}
