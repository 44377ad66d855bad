package scopes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckGlobalAdmin(t *testing.T) {
	sub := Subject{GlobalRoles: []string{"global-admin"}}

	d := Check(sub, []string{ProjectSettingsWrite}, "proj-1", Options{})
	assert.True(t, d.Allowed)
	assert.Empty(t, d.Missing)

	d = Check(sub, []string{GlobalAdmin}, "", Options{})
	assert.True(t, d.Allowed)
}

func TestCheckProjectScoped(t *testing.T) {
	sub := Subject{ProjectRoles: map[string][]string{
		"proj-1": {"nlu-editor"},
	}}

	d := Check(sub, []string{NLUModelExecute}, "proj-1", Options{})
	assert.True(t, d.Allowed)

	// role binding does not leak into other projects
	d = Check(sub, []string{NLUModelExecute}, "proj-2", Options{})
	assert.False(t, d.Allowed)
	assert.Equal(t, []string{NLUModelExecute}, d.Missing)
}

func TestCheckAnyOfCaps(t *testing.T) {
	sub := Subject{ProjectRoles: map[string][]string{
		"proj-1": {"viewer"},
	}}

	d := Check(sub, []string{ProjectSettingsWrite, StoriesRead}, "proj-1", Options{})
	assert.True(t, d.Allowed)
}

func TestCheckDenied(t *testing.T) {
	sub := Subject{ProjectRoles: map[string][]string{
		"proj-1": {"viewer"},
	}}

	d := Check(sub, []string{ProjectSettingsWrite}, "proj-1", Options{})
	assert.False(t, d.Allowed)
	assert.Equal(t, []string{ProjectSettingsWrite}, d.Missing)
}

func TestCheckCIBypass(t *testing.T) {
	d := Check(Subject{}, []string{GlobalAdmin}, "", Options{BypassCI: true})
	assert.True(t, d.Allowed)
}

func TestCheckCIBypassLimitedToGlobalAdmin(t *testing.T) {
	for _, c := range []string{
		ProjectSettingsWrite, NLUModelExecute, NLUDataRead, GlobalSettingsRead,
	} {
		d := Check(Subject{}, []string{c}, "proj-1", Options{BypassCI: true})
		assert.False(t, d.Allowed, c)
		assert.Equal(t, []string{c}, d.Missing, c)
	}

	// still bypasses when global-admin is among the accepted capabilities
	d := Check(Subject{}, []string{NLUDataRead, GlobalAdmin}, "proj-1", Options{BypassCI: true})
	assert.True(t, d.Allowed)
}

func TestCheckUnknownRoleIgnored(t *testing.T) {
	sub := Subject{GlobalRoles: []string{"does-not-exist"}}

	d := Check(sub, []string{NLUDataRead}, "proj-1", Options{})
	assert.False(t, d.Allowed)
}
