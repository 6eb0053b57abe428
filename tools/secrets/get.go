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
	mcp "github.com/metoro-io/mcp-golang"
)

// GetValueToolName is the name of the tool to read a secret value.
const GetValueToolName = "get_secret_value"

// GetValueRequest represents the tool input.
type GetValueRequest struct {
	SecretName string `json:"secret_name" yaml:"secret_name" jsonschema:"title=Secret Name,description=The name of the secret to read."`
	ProjectID  string `json:"project_id" yaml:"project_id" jsonschema:"title=Project ID,description=The Google Cloud project the secret belongs to."`
}

// GetValueResult is the tool response. A failed read is reported in band,
// with status "error" and the failure message.
type GetValueResult struct {
	Status  string `json:"status" yaml:"status"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

func (r *GetValueResult) String() string {
	return jsonutil.ToJSON(r)
}

// GetValueTool reads the latest version of a secret.
type GetValueTool struct {
	name        string
	description string
	funcParams  any

	client         Client
	defaultProject string
}

var _ tools.Tool[GetValueRequest, GetValueResult] = (*GetValueTool)(nil)
var _ tools.MCPTool[GetValueRequest] = (*GetValueTool)(nil)

// NewGetValueTool returns the tool to read a secret value.
func NewGetValueTool(client Client) (*GetValueTool, error) {
	sc, err := schema.New(reflect.TypeOf(GetValueRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &GetValueTool{
		name:        GetValueToolName,
		description: "Get a secret value from Google Cloud Secret Manager.",
		funcParams:  sc.Parameters,
		client:      client,
	}, nil
}

// WithDefaultProject sets the project used when the request omits one.
func (t *GetValueTool) WithDefaultProject(projectID string) *GetValueTool {
	t.defaultProject = projectID
	return t
}

func (t *GetValueTool) Name() string {
	return t.name
}

func (t *GetValueTool) Description() string {
	return t.description
}

func (t *GetValueTool) Parameters() any {
	return t.funcParams
}

func (t *GetValueTool) Run(ctx context.Context, req *GetValueRequest) (*GetValueResult, error) {
	projectID, err := resolveProject(req.ProjectID, t.defaultProject)
	if err != nil {
		return nil, err
	}
	if req.SecretName == "" {
		return nil, errors.New("invalid request: empty secret_name")
	}

	resp, err := t.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretPath(projectID, req.SecretName) + "/versions/latest",
	})
	if err != nil {
		return &GetValueResult{
			Status:  "error",
			Message: fmt.Sprintf("Error retrieving secret: %s", err.Error()),
		}, nil
	}

	return &GetValueResult{
		Status: "success",
		Value:  string(resp.GetPayload().GetData()),
	}, nil
}

func (t *GetValueTool) Call(ctx context.Context, input string) (string, error) {
	var req GetValueRequest
	if err := json.Unmarshal(jsonutil.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return jsonutil.ToJSON(res), nil
}

func (t *GetValueTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *GetValueTool) RunMCP(ctx context.Context, req *GetValueRequest) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(jsonutil.ToJSON(res))), nil
}
