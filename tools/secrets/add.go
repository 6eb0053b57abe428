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
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// AddToolName is the name of the tool to add a secret.
const AddToolName = "add_secret"

// AddRequest represents the tool input.
type AddRequest struct {
	SecretName  string `json:"secret_name" yaml:"secret_name" jsonschema:"title=Secret Name,description=The name of the secret to add or update."`
	ProjectID   string `json:"project_id" yaml:"project_id" jsonschema:"title=Project ID,description=The Google Cloud project the secret belongs to."`
	SecretValue string `json:"secret_value" yaml:"secret_value" jsonschema:"title=Secret Value,description=The secret payload to store."`
}

// AddTool adds a new secret, or a new version to an existing secret.
type AddTool struct {
	name        string
	description string
	funcParams  any

	client         Client
	defaultProject string
}

var _ tools.Tool[AddRequest, StatusResult] = (*AddTool)(nil)
var _ tools.MCPTool[AddRequest] = (*AddTool)(nil)

// NewAddTool returns the tool to add a secret or a secret version.
func NewAddTool(client Client) (*AddTool, error) {
	sc, err := schema.New(reflect.TypeOf(AddRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &AddTool{
		name:        AddToolName,
		description: "Add a new secret or a new version to an existing secret in Google Cloud Secret Manager.",
		funcParams:  sc.Parameters,
		client:      client,
	}, nil
}

// WithDefaultProject sets the project used when the request omits one.
func (t *AddTool) WithDefaultProject(projectID string) *AddTool {
	t.defaultProject = projectID
	return t
}

func (t *AddTool) Name() string {
	return t.name
}

func (t *AddTool) Description() string {
	return t.description
}

func (t *AddTool) Parameters() any {
	return t.funcParams
}

func (t *AddTool) Run(ctx context.Context, req *AddRequest) (*StatusResult, error) {
	projectID, err := resolveProject(req.ProjectID, t.defaultProject)
	if err != nil {
		return nil, err
	}
	if req.SecretName == "" {
		return nil, errors.New("invalid request: empty secret_name")
	}

	parent := secretPath(projectID, req.SecretName)
	_, err = t.client.GetSecret(ctx, &secretmanagerpb.GetSecretRequest{Name: parent})
	if err != nil {
		if status.Code(err) != codes.NotFound {
			return nil, errors.WithMessage(err, "failed to get secret")
		}
		// Secret does not exist yet, create it with automatic replication.
		created, err := t.client.CreateSecret(ctx, &secretmanagerpb.CreateSecretRequest{
			Parent:   projectPath(projectID),
			SecretId: req.SecretName,
			Secret: &secretmanagerpb.Secret{
				Replication: &secretmanagerpb.Replication{
					Replication: &secretmanagerpb.Replication_Automatic_{
						Automatic: &secretmanagerpb.Replication_Automatic{},
					},
				},
			},
		})
		if err != nil {
			return nil, errors.WithMessage(err, "failed to create secret")
		}
		parent = created.GetName()
	}

	ver, err := t.client.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent: parent,
		Payload: &secretmanagerpb.SecretPayload{
			Data: []byte(req.SecretValue),
		},
	})
	if err != nil {
		return nil, errors.WithMessage(err, "failed to add secret version")
	}

	logger.ContextKV(ctx, xlog.DEBUG, "tool", t.name, "secret", req.SecretName, "version", ver.GetName())

	return &StatusResult{
		Status:  "success",
		Message: fmt.Sprintf("Secret '%s' added/updated in project '%s'. New version: %s", req.SecretName, projectID, ver.GetName()),
	}, nil
}

func (t *AddTool) Call(ctx context.Context, input string) (string, error) {
	var req AddRequest
	if err := json.Unmarshal(jsonutil.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return jsonutil.ToJSON(res), nil
}

func (t *AddTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *AddTool) RunMCP(ctx context.Context, req *AddRequest) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(jsonutil.ToJSON(res))), nil
}
