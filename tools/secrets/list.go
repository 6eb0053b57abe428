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

// ListToolName is the name of the tool to list secrets.
const ListToolName = "list_secrets"

// ListRequest represents the tool input.
type ListRequest struct {
	ProjectID string `json:"project_id" yaml:"project_id" jsonschema:"title=Project ID,description=The Google Cloud project to list secrets in."`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty" jsonschema:"title=Name Prefix,description=Optional secret name prefix to filter by."`
}

// ListResult holds the full resource names of the secrets in the project.
type ListResult struct {
	Secrets []string `json:"secrets" yaml:"secrets" jsonschema:"title=Secrets,description=Full resource names of the secrets."`
}

func (r *ListResult) String() string {
	return jsonutil.ToJSON(r)
}

// ListTool lists the secrets in a project.
type ListTool struct {
	name        string
	description string
	funcParams  any

	client         Client
	defaultProject string
}

var _ tools.Tool[ListRequest, ListResult] = (*ListTool)(nil)
var _ tools.MCPTool[ListRequest] = (*ListTool)(nil)

// NewListTool returns the tool to list secrets.
func NewListTool(client Client) (*ListTool, error) {
	sc, err := schema.New(reflect.TypeOf(ListRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &ListTool{
		name:        ListToolName,
		description: "List the secrets in a Google Cloud project, optionally filtered by name prefix.",
		funcParams:  sc.Parameters,
		client:      client,
	}, nil
}

// WithDefaultProject sets the project used when the request omits one.
func (t *ListTool) WithDefaultProject(projectID string) *ListTool {
	t.defaultProject = projectID
	return t
}

func (t *ListTool) Name() string {
	return t.name
}

func (t *ListTool) Description() string {
	return t.description
}

func (t *ListTool) Parameters() any {
	return t.funcParams
}

func (t *ListTool) Run(ctx context.Context, req *ListRequest) (*ListResult, error) {
	projectID, err := resolveProject(req.ProjectID, t.defaultProject)
	if err != nil {
		return nil, err
	}

	lreq := &secretmanagerpb.ListSecretsRequest{
		Parent: projectPath(projectID),
	}
	if req.Prefix != "" {
		lreq.Filter = fmt.Sprintf("name:%s*", req.Prefix)
	}

	list, err := t.client.ListSecrets(ctx, lreq)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to list secrets")
	}

	res := new(ListResult)
	for _, s := range list {
		res.Secrets = append(res.Secrets, s.GetName())
	}
	return res, nil
}

func (t *ListTool) Call(ctx context.Context, input string) (string, error) {
	var req ListRequest
	if err := json.Unmarshal(jsonutil.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return jsonutil.ToJSON(res), nil
}

func (t *ListTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *ListTool) RunMCP(ctx context.Context, req *ListRequest) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(jsonutil.ToJSON(res))), nil
}
