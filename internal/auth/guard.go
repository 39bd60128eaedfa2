package auth

import "github.com/spec-kit/medicity-console/internal/domain"

// Outcome is what the guard tells the router to do with a navigation.
type Outcome string

const (
	OutcomeRender   Outcome = "render"
	OutcomeRedirect Outcome = "redirect"
)

// Decision is the result of evaluating one navigation.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Render lets the requested screen through.
func Render() Decision {
	return Decision{Outcome: OutcomeRender}
}

// RedirectTo sends the browser elsewhere.
func RedirectTo(target string) Decision {
	return Decision{Outcome: OutcomeRedirect, Target: target}
}

// ToLogin reports whether the decision bounces the caller to the login screen.
func (d Decision) ToLogin() bool {
	return d.Outcome == OutcomeRedirect && d.Target == LoginPath
}

// Evaluate decides what happens to a navigation to path. It depends only on its
// arguments.
//
// An authenticated caller asking for the login screen always goes to the admin
// root, whatever the role. Doctors then bounce again to their own landing page.
func Evaluate(identity *domain.Identity, routes RoleRouteMap, path string) Decision {
	if path == LoginPath {
		if identity != nil {
			return RedirectTo(AdminRootPath)
		}
		return Render()
	}

	if identity == nil {
		return RedirectTo(LoginPath)
	}

	permitted := routes[identity.Role]
	for _, allowed := range permitted {
		if allowed == path {
			return Render()
		}
	}
	if len(permitted) == 0 {
		return RedirectTo(LoginPath)
	}
	return RedirectTo(permitted[0])
}
