package schema_test

import (
	"reflect"
	"testing"

	"github.com/effective-security/gcpmcp/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	ProjectID string `json:"project_id" jsonschema:"title=Project ID,description=The project."`
	Prefix    string `json:"prefix,omitempty" jsonschema:"title=Prefix,description=Optional prefix."`
}

func Test_New(t *testing.T) {
	sc, err := schema.New(reflect.TypeOf(testRequest{}))
	require.NoError(t, err)
	require.NotNil(t, sc.Parameters)

	exp := `{
	"properties": {
		"project_id": {
			"type": "string",
			"title": "Project ID",
			"description": "The project."
		},
		"prefix": {
			"type": "string",
			"title": "Prefix",
			"description": "Optional prefix."
		}
	},
	"type": "object",
	"required": [
		"project_id"
	]
}`
	assert.Equal(t, exp, sc.String())

	// Cached per type.
	sc2, err := schema.New(reflect.TypeOf(testRequest{}))
	require.NoError(t, err)
	assert.Same(t, sc, sc2)
}
