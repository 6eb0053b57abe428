package cloudrun

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"cloud.google.com/go/logging/apiv2/loggingpb"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/gcpmcp/pkg/jsonutil"
	"github.com/effective-security/gcpmcp/pkg/schema"
	"github.com/effective-security/gcpmcp/tools"
	mcp "github.com/metoro-io/mcp-golang"
)

// LogsToolName is the name of the tool to fetch Cloud Run service logs.
const LogsToolName = "get_cloud_run_service_logs"

// DefaultLogsLimit is the number of log entries returned when the
// request does not specify a limit.
const DefaultLogsLimit = 100

// LogsRequest represents the tool input.
type LogsRequest struct {
	ServiceName string `json:"service_name" yaml:"service_name" jsonschema:"title=Service Name,description=The name of the Cloud Run service to fetch logs for."`
	ProjectID   string `json:"project_id" yaml:"project_id" jsonschema:"title=Project ID,description=The Google Cloud project the service belongs to."`
	Region      string `json:"region" yaml:"region" jsonschema:"title=Region,description=The Cloud Run region the service runs in."`
	Limit       int    `json:"limit,omitempty" yaml:"limit,omitempty" jsonschema:"title=Limit,description=Maximum number of log entries to return. Defaults to 100."`
}

// LogEntry mirrors a Cloud Logging entry for the service.
type LogEntry struct {
	Timestamp   string            `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Severity    string            `json:"severity,omitempty" yaml:"severity,omitempty"`
	LogName     string            `json:"log_name,omitempty" yaml:"log_name,omitempty"`
	TextPayload string            `json:"text_payload,omitempty" yaml:"text_payload,omitempty"`
	JSONPayload map[string]any    `json:"json_payload,omitempty" yaml:"json_payload,omitempty"`
	Labels      map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// LogsResult holds the latest log entries, newest first.
type LogsResult struct {
	Entries []LogEntry `json:"entries" yaml:"entries" jsonschema:"title=Entries,description=The log entries, newest first."`
}

func (r *LogsResult) String() string {
	return jsonutil.ToJSON(r)
}

// LogsTool fetches the latest logs for a Cloud Run service.
type LogsTool struct {
	name        string
	description string
	funcParams  any

	client         LogsClient
	defaultProject string
	defaultRegion  string
	defaultLimit   int
}

var _ tools.Tool[LogsRequest, LogsResult] = (*LogsTool)(nil)
var _ tools.MCPTool[LogsRequest] = (*LogsTool)(nil)

// NewLogsTool returns the tool to fetch Cloud Run service logs.
func NewLogsTool(client LogsClient) (*LogsTool, error) {
	sc, err := schema.New(reflect.TypeOf(LogsRequest{}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create schema")
	}
	return &LogsTool{
		name:         LogsToolName,
		description:  "Get the latest logs for a Cloud Run service (default 100 entries).",
		funcParams:   sc.Parameters,
		client:       client,
		defaultLimit: DefaultLogsLimit,
	}, nil
}

// WithDefaults sets the project and region used when the request omits them.
func (t *LogsTool) WithDefaults(projectID, region string) *LogsTool {
	t.defaultProject = projectID
	t.defaultRegion = region
	return t
}

// WithDefaultLimit overrides the default number of entries returned.
func (t *LogsTool) WithDefaultLimit(limit int) *LogsTool {
	if limit > 0 {
		t.defaultLimit = limit
	}
	return t
}

func (t *LogsTool) Name() string {
	return t.name
}

func (t *LogsTool) Description() string {
	return t.description
}

func (t *LogsTool) Parameters() any {
	return t.funcParams
}

func (t *LogsTool) Run(ctx context.Context, req *LogsRequest) (*LogsResult, error) {
	projectID, region, err := resolveLocation(req.ProjectID, req.Region, t.defaultProject, t.defaultRegion)
	if err != nil {
		return nil, err
	}
	if req.ServiceName == "" {
		return nil, errors.New("invalid request: empty service_name")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = t.defaultLimit
	}

	filter := fmt.Sprintf(
		`resource.type="cloud_run_revision" AND resource.labels.service_name=%q AND resource.labels.location=%q`,
		req.ServiceName, region)

	entries, err := t.client.ListLogEntries(ctx, &loggingpb.ListLogEntriesRequest{
		ResourceNames: []string{"projects/" + projectID},
		Filter:        filter,
		OrderBy:       "timestamp desc",
		PageSize:      int32(limit),
	}, limit)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to fetch Cloud Run service logs")
	}

	res := new(LogsResult)
	for _, e := range entries {
		entry := LogEntry{
			Severity: e.GetSeverity().String(),
			LogName:  e.GetLogName(),
			Labels:   e.GetLabels(),
		}
		if ts := e.GetTimestamp(); ts != nil {
			entry.Timestamp = ts.AsTime().Format(time.RFC3339Nano)
		}
		entry.TextPayload = e.GetTextPayload()
		if jp := e.GetJsonPayload(); jp != nil {
			entry.JSONPayload = jp.AsMap()
		}
		res.Entries = append(res.Entries, entry)
	}
	return res, nil
}

func (t *LogsTool) Call(ctx context.Context, input string) (string, error) {
	var req LogsRequest
	if err := json.Unmarshal(jsonutil.CleanJSON([]byte(input)), &req); err != nil {
		return "", errors.WithStack(tools.ErrFailedUnmarshalInput)
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return jsonutil.ToJSON(res), nil
}

func (t *LogsTool) RegisterMCP(registrator tools.McpServerRegistrator) error {
	return registrator.RegisterTool(t.name, t.description, t.RunMCP)
}

func (t *LogsTool) RunMCP(ctx context.Context, req *LogsRequest) (*mcp.ToolResponse, error) {
	res, err := t.Run(ctx, req)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResponse(mcp.NewTextContent(jsonutil.ToJSON(res))), nil
}
