// Package secrets implements the Secret Manager tools: listing, adding,
// deleting secrets and reading secret values.
package secrets

import (
	"context"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/gcpmcp/pkg/jsonutil"
	"github.com/effective-security/xlog"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/gcpmcp/tools", "secrets")

// Client is the Secret Manager surface the tools use.
// The production implementation wraps the Secret Manager API client and
// drains list pagination, so callers never see iterators.
type Client interface {
	ListSecrets(ctx context.Context, req *secretmanagerpb.ListSecretsRequest) ([]*secretmanagerpb.Secret, error)
	GetSecret(ctx context.Context, req *secretmanagerpb.GetSecretRequest) (*secretmanagerpb.Secret, error)
	CreateSecret(ctx context.Context, req *secretmanagerpb.CreateSecretRequest) (*secretmanagerpb.Secret, error)
	AddSecretVersion(ctx context.Context, req *secretmanagerpb.AddSecretVersionRequest) (*secretmanagerpb.SecretVersion, error)
	DeleteSecret(ctx context.Context, req *secretmanagerpb.DeleteSecretRequest) error
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

type apiClient struct {
	sm *secretmanager.Client
}

// NewClient creates a Client backed by the Secret Manager API,
// authenticated with Application Default Credentials.
func NewClient(ctx context.Context, opts ...option.ClientOption) (Client, error) {
	sm, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Secret Manager client")
	}
	return &apiClient{sm: sm}, nil
}

func (c *apiClient) ListSecrets(ctx context.Context, req *secretmanagerpb.ListSecretsRequest) ([]*secretmanagerpb.Secret, error) {
	var list []*secretmanagerpb.Secret
	it := c.sm.ListSecrets(ctx, req)
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

func (c *apiClient) GetSecret(ctx context.Context, req *secretmanagerpb.GetSecretRequest) (*secretmanagerpb.Secret, error) {
	return c.sm.GetSecret(ctx, req)
}

func (c *apiClient) CreateSecret(ctx context.Context, req *secretmanagerpb.CreateSecretRequest) (*secretmanagerpb.Secret, error) {
	return c.sm.CreateSecret(ctx, req)
}

func (c *apiClient) AddSecretVersion(ctx context.Context, req *secretmanagerpb.AddSecretVersionRequest) (*secretmanagerpb.SecretVersion, error) {
	return c.sm.AddSecretVersion(ctx, req)
}

func (c *apiClient) DeleteSecret(ctx context.Context, req *secretmanagerpb.DeleteSecretRequest) error {
	return c.sm.DeleteSecret(ctx, req)
}

func (c *apiClient) AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	return c.sm.AccessSecretVersion(ctx, req)
}

// StatusResult is the status/message record returned by the mutating tools.
type StatusResult struct {
	Status  string `json:"status" yaml:"status"`
	Message string `json:"message" yaml:"message"`
}

func (r *StatusResult) String() string {
	return jsonutil.ToJSON(r)
}

func projectPath(projectID string) string {
	return "projects/" + projectID
}

func secretPath(projectID, secretName string) string {
	return "projects/" + projectID + "/secrets/" + secretName
}

func resolveProject(projectID, defaultProject string) (string, error) {
	if projectID != "" {
		return projectID, nil
	}
	if defaultProject != "" {
		return defaultProject, nil
	}
	return "", errors.New("invalid request: empty project_id")
}
