package cloudrun

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"cloud.google.com/go/run/apiv2/runpb"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/gcpmcp/pkg/jsonutil"
	"github.com/effective-security/gcpmcp/pkg/schema"
	"github.com/effective-security/gcpmcp/tools"
	mcp "github.com/metoro-io/mcp-golang"
)

// ListToolName is the name of the tool to list Cloud Run services.
const ListToolName = "list_cloud_run_services"

// ListRequest represents the tool input.
type ListRequest struct {
	ProjectID string `json:"project_id" yaml:"project_id" jsonschema:"title=Project ID,description=The Google Cloud project to list services in."`
	Region    string `json:"region" yaml:"region" jsonschema:"title=Region,description=The Cloud Run region to list services in."`
}

// ServiceInfo is the name/uri record for a single service.
type ServiceInfo struct {
	Name string `json:"name" yaml:"name" jsonschema:"title=Name,description=The short name of the service."`
	URI  string `json:"uri" yaml:"uri" jsonschema:"title=URI,description=The serving URI of the service."`
}

// ListResult holds the services in the project and region.
type ListResult struct {
	Services []ServiceInfo `json:"services" yaml:"services" jsonschema:"title=Services,description=The Cloud Run services."`
}

func (r *ListResult) String() string {
	return jsonutil.ToJSON(r)
}

// ListTool lists the Cloud Run services in a project and region.
type ListTool struct {
	name        string
	description string
	funcParams  any

	client         Client
	defaultProject string
	defaultRegion  string
}

var _ tools.Tool[ListRequest, ListResult] = (*ListTool)(nil)
var _ tools.MCPTool[ListRequest] = (*ListTool)(nil)

// NewListTool returns the tool to list Cloud Run services.
func NewListTool(client Client) (*ListTool, error) {
	sc, err := schema.New(reflect.TypeOf(ListRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &ListTool{
		name:        ListToolName,
		description: "List all Cloud Run services in the specified project and region.",
		funcParams:  sc.Parameters,
		client:      client,
	}, nil
}

// WithDefaults sets the project and region used when the request omits them.
func (t *ListTool) WithDefaults(projectID, region string) *ListTool {
	t.defaultProject = projectID
	t.defaultRegion = region
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
	projectID, region, err := resolveLocation(req.ProjectID, req.Region, t.defaultProject, t.defaultRegion)
	if err != nil {
		return nil, err
	}

	list, err := t.client.ListServices(ctx, &runpb.ListServicesRequest{
		Parent: locationPath(projectID, region),
	})
	if err != nil {
		return nil, errors.WithMessage(err, "failed to list Cloud Run services")
	}

	res := new(ListResult)
	for _, svc := range list {
		name := svc.GetName()
		if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
			name = name[idx+1:]
		}
		res.Services = append(res.Services, ServiceInfo{
			Name: name,
			URI:  svc.GetUri(),
		})
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
