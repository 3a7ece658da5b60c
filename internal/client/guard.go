package client

import (
	"context"
	"strings"

	"github.com/baharkarakas/event-hub/internal/models"
)

const (
	LoginPath = "/login"
	HomePath  = "/home"
)

// Route is one client view. A nil AllowedRoles admits any logged-in user.
type Route struct {
	Path         string
	Public       bool
	AllowedRoles []models.Role
}

func (r Route) admits(role models.Role) bool {
	if len(r.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range r.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// match compares path segments; ":name" segments match anything non-empty.
func (r Route) match(path string) bool {
	want := strings.Split(strings.Trim(r.Path, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if strings.HasPrefix(want[i], ":") {
			if got[i] == "" {
				return false
			}
			continue
		}
		if want[i] != got[i] {
			return false
		}
	}
	return true
}

var DefaultRoutes = []Route{
	{Path: "/"},
	{Path: HomePath},
	{Path: "/event/:id"},
	{Path: "/create-event", AllowedRoles: []models.Role{models.RoleAdmin}},
	{Path: "/registrations"},
	{Path: LoginPath, Public: true},
	{Path: "/register", Public: true},
}

// Decision is the guard's verdict. When Allow is false Redirect names where to go instead.
type Decision struct {
	Allow    bool
	Redirect string
	Route    Route
	Session  Session
}

// Guard gates client views on the persisted session. It does not verify the token;
// the API rejects bad tokens and the Client clears the session when it does.
type Guard struct {
	store  SessionStore
	routes []Route
	home   Route
}

func NewGuard(store SessionStore, routes []Route) *Guard {
	if routes == nil {
		routes = DefaultRoutes
	}
	g := &Guard{store: store, routes: routes, home: Route{Path: HomePath}}
	for _, r := range routes {
		if r.Path == HomePath {
			g.home = r
		}
	}
	return g
}

func (g *Guard) resolve(path string) (Route, bool) {
	for _, r := range g.routes {
		if r.match(path) {
			return r, true
		}
	}
	return g.home, false
}

func (g *Guard) Check(ctx context.Context, path string) (Decision, error) {
	route, known := g.resolve(path)
	if route.Public {
		return Decision{Allow: true, Route: route}, nil
	}

	sess, ok, err := g.store.Load(ctx)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return Decision{Redirect: LoginPath, Route: route}, nil
	}
	if !route.admits(sess.User.Role) {
		return Decision{Redirect: HomePath, Route: route, Session: sess}, nil
	}
	if !known {
		// unknown paths land on home
		return Decision{Redirect: HomePath, Route: route, Session: sess}, nil
	}
	return Decision{Allow: true, Route: route, Session: sess}, nil
}
