// Package common provides shared helpers for UI features.
package common

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/sessions"
)

// SessionName is the cookie holding flash messages.
const SessionName = "anothersignal"

// AddFlash stores a one-shot message shown as a toast on the next page render.
func AddFlash(store sessions.Store, w http.ResponseWriter, r *http.Request, message string) {
	session, err := store.Get(r, SessionName)
	if err != nil {
		slog.Debug("discarding unreadable session", "error", err)
	}
	session.AddFlash(message)
	if err := session.Save(r, w); err != nil {
		slog.Warn("failed to save flash", "error", err)
	}
}

// Flashes pops the pending flash messages.
func Flashes(store sessions.Store, w http.ResponseWriter, r *http.Request) []string {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return nil
	}
	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		slog.Warn("failed to clear flashes", "error", err)
	}
	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Action is a parsed view transition such as "sort:name" or "page:3".
type Action struct {
	Name string
	Arg  string
}

// ParseAction splits the action query parameter at the first colon.
func ParseAction(raw string) Action {
	name, arg, _ := strings.Cut(raw, ":")
	return Action{Name: name, Arg: arg}
}

// IntArg returns the action argument as an integer.
func (a Action) IntArg() (int, bool) {
	n, err := strconv.Atoi(a.Arg)
	return n, err == nil
}
