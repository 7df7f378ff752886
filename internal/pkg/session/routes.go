// internal/pkg/session/routes.go
package session

import "strings"

// RouteClass is what the access gate decides from a request path.
type RouteClass int

const (
	// RoutePublic passes through with no auth check at all.
	RoutePublic RouteClass = iota
	// RouteAuth is a sign-in/register page: authenticated users are
	// redirected away from it.
	RouteAuth
	// RouteProtected requires an authenticated user.
	RouteProtected
	// RouteOther is everything else: checked, but always passed through.
	RouteOther
)

// RouteClassifier holds the three static prefix sets. Public/static wins
// first; auth pages are tested before protected ones. Not runtime-mutated.
type RouteClassifier struct {
	public    []string
	auth      []string
	protected []string
}

// DefaultRoutes matches the dashboard's route layout: every API and asset
// path is public at the gate (API routes carry their own bearer auth), the
// login/register pages are auth-only, the app pages are protected.
func DefaultRoutes() *RouteClassifier {
	return &RouteClassifier{
		public: []string{
			"/api/",
			"/_next/",
			"/favicon.ico",
			"/assets/",
			"/auth/forgot-password",
			"/auth/callback",
			"/pricing",
			"/terms",
			"/privacy",
			"/",
		},
		auth: []string{
			"/auth/login",
			"/auth/register",
		},
		protected: []string{
			"/dashboard",
			"/clients",
			"/workouts",
			"/schedule",
			"/messages",
			"/settings",
		},
	}
}

func NewRouteClassifier(public, auth, protected []string) *RouteClassifier {
	return &RouteClassifier{public: public, auth: auth, protected: protected}
}

// Classify maps a request path onto its route class.
func (rc *RouteClassifier) Classify(path string) RouteClass {
	if matchesAny(path, rc.public) {
		return RoutePublic
	}
	if matchesAny(path, rc.auth) {
		return RouteAuth
	}
	if matchesAny(path, rc.protected) {
		return RouteProtected
	}
	return RouteOther
}

// matchesAny: a path matches an entry when it equals it, or, for non-root
// entries, starts with it.
func matchesAny(path string, entries []string) bool {
	for _, entry := range entries {
		if path == entry {
			return true
		}
		if entry != "/" && strings.HasPrefix(path, entry) {
			return true
		}
	}
	return false
}
