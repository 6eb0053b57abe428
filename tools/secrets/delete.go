package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/gcpmcp/pkg/jsonutil"
	"github.com/effective-security/gcpmcp/pkg/schema"
	"github.com/effective-security/gcpmcp/tools"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
)

// DeleteToolName is the name of the tool to delete a secret.
const DeleteToolName = "delete_secret"

// DeleteRequest represents the tool input.
type DeleteRequest struct {
	SecretName string `json:"secret_name" yaml:"secret_name" jsonschema:"title=Secret Name,description=The name of the secret to delete."`
	ProjectID  string `json:"project_id" yaml:"project_id" jsonschema:"title=Project ID,description=The Google Cloud project the secret belongs to."`
}

// DeleteTool deletes a secret and all of its versions.
type DeleteTool struct {
	name        string
	description string
	funcParams  any

	client         Client
	defaultProject string
}

var _ tools.Tool[DeleteRequest, StatusResult] = (*DeleteTool)(nil)
var _ tools.MCPTool[DeleteRequest] = (*DeleteTool)(nil)

// NewDeleteTool returns the tool to delete a secret.
func NewDeleteTool(client Client) (*DeleteTool, error) {
	sc, err := schema.New(reflect.TypeOf(DeleteRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &DeleteTool{
		name:        DeleteToolName,
		description: "Delete a secret from Google Cloud Secret Manager.",
		funcParams:  sc.Parameters,
		client:      client,
	}, nil
}

// WithDefaultProject sets the project used when the request omits one.
func (t *DeleteTool) WithDefaultProject(projectID string) *DeleteTool {
	t.defaultProject = projectID
	return t
}

func (t *DeleteTool) Name() string {
	return t.name
}

func (t *DeleteTool) Description() string {
	return t.description
}

func (t *DeleteTool) Parameters() any {
	return t.funcParams
}

func (t *DeleteTool) Run(ctx context.Context, req *DeleteRequest) (*StatusResult, error) {
	projectID, err := resolveProject(req.ProjectID, t.defaultProject)
	if err != nil {
		return nil, err
	}
	if req.SecretName == "" {
		return nil, errors.New("invalid request: empty secret_name")
	}

	err = t.client.DeleteSecret(ctx, &secretmanagerpb.DeleteSecretRequest{
		Name: secretPath(projectID, req.SecretName),
	})
	if err != nil {
		return nil, errors.WithMessage(err, "failed to delete secret")
	}

	logger.ContextKV(ctx, xlog.DEBUG, "tool", t.name, "secret", req.SecretName, "project", projectID)

	return &StatusResult{
		Status:  "success",
		Message: fmt.Sprintf("Secret '%s' successfully deleted from project '%s'", req.SecretName, projectID),
	}, nil
}

func (t *DeleteTool) Call(ctx context.Context, input string) (string, error) {
	var req DeleteRequest
	if err := json.Unmarshal(jsonutil.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return jsonutil.ToJSON(res), nil
}

func (t *DeleteTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *DeleteTool) RunMCP(ctx context.Context, req *DeleteRequest) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(jsonutil.ToJSON(res))), nil
}
