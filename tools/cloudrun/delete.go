package cloudrun

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"cloud.google.com/go/run/apiv2/runpb"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/gcpmcp/pkg/jsonutil"
	"github.com/effective-security/gcpmcp/pkg/schema"
	"github.com/effective-security/gcpmcp/tools"
	"github.com/effective-security/xlog"
	mcp "github.com/metoro-io/mcp-golang"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DeleteToolName is the name of the tool to delete a Cloud Run service.
const DeleteToolName = "delete_cloud_run_service"

// DeleteRequest represents the tool input.
type DeleteRequest struct {
	ServiceName string `json:"service_name" yaml:"service_name" jsonschema:"title=Service Name,description=The name of the Cloud Run service to delete."`
	ProjectID   string `json:"project_id" yaml:"project_id" jsonschema:"title=Project ID,description=The Google Cloud project the service belongs to."`
	Region      string `json:"region" yaml:"region" jsonschema:"title=Region,description=The Cloud Run region the service runs in."`
}

// DeleteTool deletes a Cloud Run service and waits for the operation
// to complete. A missing service is reported in band, not as a tool error.
type DeleteTool struct {
	name        string
	description string
	funcParams  any

	client         Client
	defaultProject string
	defaultRegion  string
}

var _ tools.Tool[DeleteRequest, StatusResult] = (*DeleteTool)(nil)
var _ tools.MCPTool[DeleteRequest] = (*DeleteTool)(nil)

// NewDeleteTool returns the tool to delete a Cloud Run service.
func NewDeleteTool(client Client) (*DeleteTool, error) {
	sc, err := schema.New(reflect.TypeOf(DeleteRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &DeleteTool{
		name:        DeleteToolName,
		description: "Delete a Cloud Run service from Google Cloud Run.",
		funcParams:  sc.Parameters,
		client:      client,
	}, nil
}

// WithDefaults sets the project and region used when the request omits them.
func (t *DeleteTool) WithDefaults(projectID, region string) *DeleteTool {
	t.defaultProject = projectID
	t.defaultRegion = region
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
	projectID, region, err := resolveLocation(req.ProjectID, req.Region, t.defaultProject, t.defaultRegion)
	if err != nil {
		return nil, err
	}
	if req.ServiceName == "" {
		return nil, errors.New("invalid request: empty service_name")
	}

	name := servicePath(projectID, region, req.ServiceName)

	_, err = t.client.GetService(ctx, &runpb.GetServiceRequest{Name: name})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &StatusResult{
				Status:  "error",
				Message: fmt.Sprintf("Service '%s' not found in project '%s' region '%s'", req.ServiceName, projectID, region),
			}, nil
		}
		return nil, errors.WithMessage(err, "failed to get Cloud Run service")
	}

	err = t.client.DeleteService(ctx, &runpb.DeleteServiceRequest{Name: name})
	if err != nil {
		return nil, errors.WithMessage(err, "failed to delete Cloud Run service")
	}

	logger.ContextKV(ctx, xlog.DEBUG, "tool", t.name, "service", req.ServiceName, "project", projectID, "region", region)

	return &StatusResult{
		Status:  "success",
		Message: fmt.Sprintf("Service '%s' successfully deleted", req.ServiceName),
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
