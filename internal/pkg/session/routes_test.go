package session

import "testing"

func TestClassifyDefaultRoutes(t *testing.T) {
	rc := DefaultRoutes()

	cases := []struct {
		path string
		want RouteClass
	}{
		{"/", RoutePublic},
		{"/api/v1/health", RoutePublic},
		{"/api/v1/auth/signin", RoutePublic},
		{"/_next/static/chunk.js", RoutePublic},
		{"/favicon.ico", RoutePublic},
		{"/assets/logo.svg", RoutePublic},
		{"/pricing", RoutePublic},
		{"/terms", RoutePublic},
		{"/auth/forgot-password", RoutePublic},
		{"/auth/callback/google", RoutePublic},

		{"/auth/login", RouteAuth},
		{"/auth/register", RouteAuth},

		{"/dashboard", RouteProtected},
		{"/dashboard/today", RouteProtected},
		{"/clients", RouteProtected},
		{"/clients/42", RouteProtected},
		{"/workouts", RouteProtected},
		{"/schedule", RouteProtected},
		{"/messages", RouteProtected},
		{"/settings/profile", RouteProtected},

		{"/auth/complete-profile", RouteOther},
		{"/about", RouteOther},
	}

	for _, tc := range cases {
		if got := rc.Classify(tc.path); got != tc.want {
			t.Errorf("Classify(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestClassifyRootIsExactMatch(t *testing.T) {
	rc := DefaultRoutes()

	// "/" as a public entry must not turn every path public
	if got := rc.Classify("/dashboard"); got != RouteProtected {
		t.Fatalf("Classify(/dashboard) = %v, want RouteProtected", got)
	}
}
