// Package cloudrun implements the Cloud Run tools: listing and deleting
// services, and fetching service logs from Cloud Logging.
package cloudrun

import (
	"context"

	logging "cloud.google.com/go/logging/apiv2"
	"cloud.google.com/go/logging/apiv2/loggingpb"
	run "cloud.google.com/go/run/apiv2"
	"cloud.google.com/go/run/apiv2/runpb"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/gcpmcp/pkg/jsonutil"
	"github.com/effective-security/xlog"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/gcpmcp/tools", "cloudrun")

// Client is the Cloud Run surface the tools use.
// DeleteService blocks until the long-running operation completes.
type Client interface {
	ListServices(ctx context.Context, req *runpb.ListServicesRequest) ([]*runpb.Service, error)
	GetService(ctx context.Context, req *runpb.GetServiceRequest) (*runpb.Service, error)
	DeleteService(ctx context.Context, req *runpb.DeleteServiceRequest) error
}

// LogsClient is the Cloud Logging surface the logs tool uses.
// The limit is applied while draining, the server page size only hints.
type LogsClient interface {
	ListLogEntries(ctx context.Context, req *loggingpb.ListLogEntriesRequest, limit int) ([]*loggingpb.LogEntry, error)
}

type servicesClient struct {
	rc *run.ServicesClient
}

// NewClient creates a Client backed by the Cloud Run Admin API,
// authenticated with Application Default Credentials.
func NewClient(ctx context.Context, opts ...option.ClientOption) (Client, error) {
	rc, err := run.NewServicesClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Cloud Run client")
	}
	return &servicesClient{rc: rc}, nil
}

func (c *servicesClient) ListServices(ctx context.Context, req *runpb.ListServicesRequest) ([]*runpb.Service, error) {
	var list []*runpb.Service
	it := c.rc.ListServices(ctx, req)
	for {
		s, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}

func (c *servicesClient) GetService(ctx context.Context, req *runpb.GetServiceRequest) (*runpb.Service, error) {
	return c.rc.GetService(ctx, req)
}

func (c *servicesClient) DeleteService(ctx context.Context, req *runpb.DeleteServiceRequest) error {
	op, err := c.rc.DeleteService(ctx, req)
	if err != nil {
		return err
	}
	_, err = op.Wait(ctx)
	return err
}

type logsClient struct {
	lc *logging.Client
}

// NewLogsClient creates a LogsClient backed by the Cloud Logging API.
func NewLogsClient(ctx context.Context, opts ...option.ClientOption) (LogsClient, error) {
	lc, err := logging.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Cloud Logging client")
	}
	return &logsClient{lc: lc}, nil
}

func (c *logsClient) ListLogEntries(ctx context.Context, req *loggingpb.ListLogEntriesRequest, limit int) ([]*loggingpb.LogEntry, error) {
	var list []*loggingpb.LogEntry
	it := c.lc.ListLogEntries(ctx, req)
	for len(list) < limit {
		e, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, nil
}

// StatusResult is the status/message record returned by the delete tool.
type StatusResult struct {
	Status  string `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
}

func (r *StatusResult) String() string {
	return jsonutil.ToJSON(r)
}

func locationPath(projectID, region string) string {
	return "projects/" + projectID + "/locations/" + region
}

func servicePath(projectID, region, serviceName string) string {
	return locationPath(projectID, region) + "/services/" + serviceName
}

func resolveLocation(projectID, region, defaultProject, defaultRegion string) (string, string, error) {
	if projectID == "" {
		projectID = defaultProject
	}
	if region == "" {
		region = defaultRegion
	}
	if projectID == "" {
		return "", "", errors.New("invalid request: empty project_id")
	}
	if region == "" {
		return "", "", errors.New("invalid request: empty region")
	}
	return projectID, region, nil
}
