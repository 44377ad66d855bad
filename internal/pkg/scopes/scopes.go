// Package scopes decides whether a caller may perform an operation. The gate
// returns an explicit Decision instead of failing the request itself, so
// services stay testable without a live permission subsystem.
package scopes

// Capabilities checked by the API surface.
const (
	GlobalAdmin          = "global-admin"
	GlobalSettingsRead   = "global-settings:r"
	ProjectSettingsWrite = "project-settings:w"
	NLUModelExecute      = "nlu-model:x"
	NLUDataRead          = "nlu-data:r"
	ResponsesRead        = "responses:r"
	StoriesRead          = "stories:r"
)

// Role is a named capability bundle. Global roles apply platform-wide,
// project roles apply to a single project id.
type Role struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

// Builtin is the fixed role catalog. "global-admin" implies every capability
// on every project.
var Builtin = []Role{
	{
		Name:         "global-admin",
		Description:  "Full control over the platform and every project.",
		Capabilities: []string{"*"},
	},
	{
		Name:        "project-admin",
		Description: "Full control over a single project.",
		Capabilities: []string{
			ProjectSettingsWrite, NLUModelExecute, NLUDataRead, ResponsesRead, StoriesRead,
		},
	},
	{
		Name:        "nlu-editor",
		Description: "Train models and review NLU data.",
		Capabilities: []string{
			NLUModelExecute, NLUDataRead, StoriesRead,
		},
	},
	{
		Name:        "viewer",
		Description: "Read-only access to project content.",
		Capabilities: []string{
			NLUDataRead, ResponsesRead, StoriesRead,
		},
	},
}

var roleCaps = func() map[string]map[string]bool {
	out := make(map[string]map[string]bool, len(Builtin))
	for _, r := range Builtin {
		caps := make(map[string]bool, len(r.Capabilities))
		for _, c := range r.Capabilities {
			caps[c] = true
		}
		out[r.Name] = caps
	}
	return out
}()

// Subject is the caller's role bindings as loaded by the auth middleware.
type Subject struct {
	GlobalRoles  []string
	ProjectRoles map[string][]string // project id → role names
}

// Decision is the gate output. Missing lists the capabilities that would have
// satisfied the check, for error reporting.
type Decision struct {
	Allowed bool
	Missing []string
}

// Options carries per-request gate modifiers.
type Options struct {
	// BypassCI is set by the middleware when the request authenticated with
	// the configured CI token. It satisfies global-admin checks only; every
	// other capability still requires a role binding.
	BypassCI bool
}

// Check reports whether the subject holds ANY of caps for projectID
// (projectID may be empty for global capabilities).
func Check(sub Subject, caps []string, projectID string, opts Options) Decision {
	if opts.BypassCI {
		for _, c := range caps {
			if c == GlobalAdmin {
				return Decision{Allowed: true}
			}
		}
	}

	held := make(map[string]bool)
	addRole := func(name string) {
		for c := range roleCaps[name] {
			held[c] = true
		}
	}
	for _, r := range sub.GlobalRoles {
		addRole(r)
	}
	if projectID != "" {
		for _, r := range sub.ProjectRoles[projectID] {
			addRole(r)
		}
	}

	if held["*"] {
		return Decision{Allowed: true}
	}
	for _, c := range caps {
		if held[c] {
			return Decision{Allowed: true}
		}
	}
	return Decision{Missing: caps}
}
