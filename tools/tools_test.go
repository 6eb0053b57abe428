package tools_test

import (
	"context"
	"testing"

	"github.com/effective-security/gcpmcp/tools"
	"github.com/stretchr/testify/assert"
)

type stubTool struct {
	name        string
	description string
}

func (t *stubTool) Name() string        { return t.name }
func (t *stubTool) Description() string { return t.description }
func (t *stubTool) Parameters() any     { return nil }
func (t *stubTool) Call(_ context.Context, _ string) (string, error) {
	return "", nil
}

func TestGetDescriptions(t *testing.T) {
	res := tools.GetDescriptions(
		&stubTool{name: "list_secrets", description: "List the secrets in a project."},
		&stubTool{name: "delete_secret", description: "Delete a secret."},
	)
	exp := `{
	"Tools": [
		{
			"Name": "list_secrets",
			"Description": "List the secrets in a project."
		},
		{
			"Name": "delete_secret",
			"Description": "Delete a secret."
		}
	]
}`
	assert.Equal(t, exp, res)
}
