// Package projects implements the tool to discover the Google Cloud
// projects visible to the ambient credentials.
package projects

import (
	"context"
	"encoding/json"
	"reflect"

	resourcemanager "cloud.google.com/go/resourcemanager/apiv3"
	"cloud.google.com/go/resourcemanager/apiv3/resourcemanagerpb"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/gcpmcp/pkg/jsonutil"
	"github.com/effective-security/gcpmcp/pkg/schema"
	"github.com/effective-security/gcpmcp/tools"
	mcp "github.com/metoro-io/mcp-golang"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// ListToolName is the name of the tool to list projects.
const ListToolName = "list_projects"

// Client is the Resource Manager surface the tool uses.
type Client interface {
	SearchProjects(ctx context.Context, req *resourcemanagerpb.SearchProjectsRequest) ([]*resourcemanagerpb.Project, error)
}

type apiClient struct {
	pc *resourcemanager.ProjectsClient
}

// NewClient creates a Client backed by the Resource Manager API,
// authenticated with Application Default Credentials.
func NewClient(ctx context.Context, opts ...option.ClientOption) (Client, error) {
	pc, err := resourcemanager.NewProjectsClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Resource Manager client")
	}
	return &apiClient{pc: pc}, nil
}

func (c *apiClient) SearchProjects(ctx context.Context, req *resourcemanagerpb.SearchProjectsRequest) ([]*resourcemanagerpb.Project, error) {
	var list []*resourcemanagerpb.Project
	it := c.pc.SearchProjects(ctx, req)
	for {
		p, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}

// ListRequest represents the tool input. The tool takes no parameters.
type ListRequest struct{}

// ProjectInfo is the display-name/id record for a single project.
type ProjectInfo struct {
	Name string `json:"name" yaml:"name" jsonschema:"title=Name,description=The display name of the project."`
	ID   string `json:"id" yaml:"id" jsonschema:"title=ID,description=The project ID."`
}

// ListResult holds the projects the caller has access to.
type ListResult struct {
	Projects []ProjectInfo `json:"projects" yaml:"projects" jsonschema:"title=Projects,description=The visible projects."`
}

func (r *ListResult) String() string {
	return jsonutil.ToJSON(r)
}

// ListTool lists the projects the ambient credentials can see.
type ListTool struct {
	name        string
	description string
	funcParams  any

	client Client
}

var _ tools.Tool[ListRequest, ListResult] = (*ListTool)(nil)
var _ tools.MCPTool[ListRequest] = (*ListTool)(nil)

// NewListTool returns the tool to list projects.
func NewListTool(client Client) (*ListTool, error) {
	sc, err := schema.New(reflect.TypeOf(ListRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &ListTool{
		name:        ListToolName,
		description: "List all Google Cloud projects the caller has access to.",
		funcParams:  sc.Parameters,
		client:      client,
	}, nil
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
	list, err := t.client.SearchProjects(ctx, &resourcemanagerpb.SearchProjectsRequest{})
	if err != nil {
		return nil, errors.WithMessage(err, "failed to list projects")
	}

	res := new(ListResult)
	for _, p := range list {
		res.Projects = append(res.Projects, ProjectInfo{
			Name: p.GetDisplayName(),
			ID:   p.GetProjectId(),
		})
	}
	return res, nil
}

func (t *ListTool) Call(ctx context.Context, input string) (string, error) {
	var req ListRequest
	if input != "" {
		if err := json.Unmarshal(jsonutil.CleanJSON([]byte(input)), &req); err != nil {
			return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
		}
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
