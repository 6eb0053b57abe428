package secrets_test

import (
	"context"
	"testing"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/gcpmcp/pkg/jsonutil"
	"github.com/effective-security/gcpmcp/tools"
	"github.com/effective-security/gcpmcp/tools/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type fakeClient struct {
	listSecrets         func(ctx context.Context, req *secretmanagerpb.ListSecretsRequest) ([]*secretmanagerpb.Secret, error)
	getSecret           func(ctx context.Context, req *secretmanagerpb.GetSecretRequest) (*secretmanagerpb.Secret, error)
	createSecret        func(ctx context.Context, req *secretmanagerpb.CreateSecretRequest) (*secretmanagerpb.Secret, error)
	addSecretVersion    func(ctx context.Context, req *secretmanagerpb.AddSecretVersionRequest) (*secretmanagerpb.SecretVersion, error)
	deleteSecret        func(ctx context.Context, req *secretmanagerpb.DeleteSecretRequest) error
	accessSecretVersion func(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error)
}

func (c *fakeClient) ListSecrets(ctx context.Context, req *secretmanagerpb.ListSecretsRequest) ([]*secretmanagerpb.Secret, error) {
	return c.listSecrets(ctx, req)
}

func (c *fakeClient) GetSecret(ctx context.Context, req *secretmanagerpb.GetSecretRequest) (*secretmanagerpb.Secret, error) {
	return c.getSecret(ctx, req)
}

func (c *fakeClient) CreateSecret(ctx context.Context, req *secretmanagerpb.CreateSecretRequest) (*secretmanagerpb.Secret, error) {
	return c.createSecret(ctx, req)
}

func (c *fakeClient) AddSecretVersion(ctx context.Context, req *secretmanagerpb.AddSecretVersionRequest) (*secretmanagerpb.SecretVersion, error) {
	return c.addSecretVersion(ctx, req)
}

func (c *fakeClient) DeleteSecret(ctx context.Context, req *secretmanagerpb.DeleteSecretRequest) error {
	return c.deleteSecret(ctx, req)
}

func (c *fakeClient) AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	return c.accessSecretVersion(ctx, req)
}

func Test_ListTool(t *testing.T) {
	ctx := context.Background()

	var gotReq *secretmanagerpb.ListSecretsRequest
	client := &fakeClient{
		listSecrets: func(_ context.Context, req *secretmanagerpb.ListSecretsRequest) ([]*secretmanagerpb.Secret, error) {
			gotReq = req
			return []*secretmanagerpb.Secret{
				{Name: "projects/proj1/secrets/app-db-password"},
				{Name: "projects/proj1/secrets/app-api-key"},
			}, nil
		},
	}

	tool, err := secrets.NewListTool(client)
	require.NoError(t, err)

	assert.Equal(t, secrets.ListToolName, tool.Name())
	assert.Contains(t, tool.Description(), "secrets")

	params := jsonutil.ToJSONIndent(tool.Parameters())
	expParams := `{
	"properties": {
		"project_id": {
			"type": "string",
			"title": "Project ID",
			"description": "The Google Cloud project to list secrets in."
		},
		"prefix": {
			"type": "string",
			"title": "Name Prefix",
			"description": "Optional secret name prefix to filter by."
		}
	},
	"type": "object",
	"required": [
		"project_id"
	]
}`
	assert.Equal(t, expParams, string(params))

	_, err = tool.Call(ctx, "plain string")
	assert.True(t, errors.Is(err, tools.ErrFailedUnmarshalInput))

	res, err := tool.Run(ctx, &secrets.ListRequest{ProjectID: "proj1", Prefix: "app"})
	require.NoError(t, err)
	assert.Equal(t, "projects/proj1", gotReq.Parent)
	assert.Equal(t, "name:app*", gotReq.Filter)
	assert.Equal(t, []string{
		"projects/proj1/secrets/app-db-password",
		"projects/proj1/secrets/app-api-key",
	}, res.Secrets)

	res, err = tool.Run(ctx, &secrets.ListRequest{ProjectID: "proj1"})
	require.NoError(t, err)
	assert.Empty(t, gotReq.Filter)
	assert.Len(t, res.Secrets, 2)

	_, err = tool.Run(ctx, &secrets.ListRequest{})
	assert.EqualError(t, err, "invalid request: empty project_id")

	res2, err := tool.WithDefaultProject("proj1").Run(ctx, &secrets.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, res2.Secrets, 2)
}

func Test_ListTool_Error(t *testing.T) {
	client := &fakeClient{
		listSecrets: func(_ context.Context, _ *secretmanagerpb.ListSecretsRequest) ([]*secretmanagerpb.Secret, error) {
			return nil, status.Error(codes.PermissionDenied, "denied")
		},
	}

	tool, err := secrets.NewListTool(client)
	require.NoError(t, err)

	_, err = tool.Run(context.Background(), &secrets.ListRequest{ProjectID: "proj1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list secrets")
}

func Test_AddTool_ExistingSecret(t *testing.T) {
	ctx := context.Background()

	var gotAdd *secretmanagerpb.AddSecretVersionRequest
	client := &fakeClient{
		getSecret: func(_ context.Context, req *secretmanagerpb.GetSecretRequest) (*secretmanagerpb.Secret, error) {
			return &secretmanagerpb.Secret{Name: req.Name}, nil
		},
		addSecretVersion: func(_ context.Context, req *secretmanagerpb.AddSecretVersionRequest) (*secretmanagerpb.SecretVersion, error) {
			gotAdd = req
			return &secretmanagerpb.SecretVersion{Name: req.Parent + "/versions/3"}, nil
		},
	}

	tool, err := secrets.NewAddTool(client)
	require.NoError(t, err)
	assert.Equal(t, secrets.AddToolName, tool.Name())

	res, err := tool.Run(ctx, &secrets.AddRequest{
		SecretName:  "app-db-password",
		ProjectID:   "proj1",
		SecretValue: "hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, "projects/proj1/secrets/app-db-password", gotAdd.Parent)
	assert.Equal(t, []byte("hunter2"), gotAdd.Payload.Data)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "Secret 'app-db-password' added/updated in project 'proj1'. New version: projects/proj1/secrets/app-db-password/versions/3", res.Message)
}

func Test_AddTool_CreatesSecret(t *testing.T) {
	ctx := context.Background()

	var gotCreate *secretmanagerpb.CreateSecretRequest
	client := &fakeClient{
		getSecret: func(_ context.Context, _ *secretmanagerpb.GetSecretRequest) (*secretmanagerpb.Secret, error) {
			return nil, status.Error(codes.NotFound, "not found")
		},
		createSecret: func(_ context.Context, req *secretmanagerpb.CreateSecretRequest) (*secretmanagerpb.Secret, error) {
			gotCreate = req
			return &secretmanagerpb.Secret{Name: req.Parent + "/secrets/" + req.SecretId}, nil
		},
		addSecretVersion: func(_ context.Context, req *secretmanagerpb.AddSecretVersionRequest) (*secretmanagerpb.SecretVersion, error) {
			return &secretmanagerpb.SecretVersion{Name: req.Parent + "/versions/1"}, nil
		},
	}

	tool, err := secrets.NewAddTool(client)
	require.NoError(t, err)

	res, err := tool.Run(ctx, &secrets.AddRequest{
		SecretName:  "fresh",
		ProjectID:   "proj1",
		SecretValue: "v",
	})
	require.NoError(t, err)
	require.NotNil(t, gotCreate)
	assert.Equal(t, "projects/proj1", gotCreate.Parent)
	assert.Equal(t, "fresh", gotCreate.SecretId)
	assert.NotNil(t, gotCreate.Secret.GetReplication().GetAutomatic())
	assert.Equal(t, "success", res.Status)
	assert.Contains(t, res.Message, "New version: projects/proj1/secrets/fresh/versions/1")
}

func Test_AddTool_GetError(t *testing.T) {
	client := &fakeClient{
		getSecret: func(_ context.Context, _ *secretmanagerpb.GetSecretRequest) (*secretmanagerpb.Secret, error) {
			return nil, status.Error(codes.PermissionDenied, "denied")
		},
	}

	tool, err := secrets.NewAddTool(client)
	require.NoError(t, err)

	_, err = tool.Run(context.Background(), &secrets.AddRequest{
		SecretName: "x", ProjectID: "proj1", SecretValue: "v",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get secret")
}

func Test_DeleteTool(t *testing.T) {
	ctx := context.Background()

	var gotName string
	client := &fakeClient{
		deleteSecret: func(_ context.Context, req *secretmanagerpb.DeleteSecretRequest) error {
			gotName = req.Name
			return nil
		},
	}

	tool, err := secrets.NewDeleteTool(client)
	require.NoError(t, err)
	assert.Equal(t, secrets.DeleteToolName, tool.Name())

	res, err := tool.Run(ctx, &secrets.DeleteRequest{SecretName: "app-db-password", ProjectID: "proj1"})
	require.NoError(t, err)
	assert.Equal(t, "projects/proj1/secrets/app-db-password", gotName)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "Secret 'app-db-password' successfully deleted from project 'proj1'", res.Message)

	_, err = tool.Run(ctx, &secrets.DeleteRequest{ProjectID: "proj1"})
	assert.EqualError(t, err, "invalid request: empty secret_name")

	client.deleteSecret = func(_ context.Context, _ *secretmanagerpb.DeleteSecretRequest) error {
		return status.Error(codes.NotFound, "not found")
	}
	_, err = tool.Run(ctx, &secrets.DeleteRequest{SecretName: "gone", ProjectID: "proj1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to delete secret")
}

func Test_GetValueTool(t *testing.T) {
	ctx := context.Background()

	var gotName string
	client := &fakeClient{
		accessSecretVersion: func(_ context.Context, req *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error) {
			gotName = req.Name
			return &secretmanagerpb.AccessSecretVersionResponse{
				Name: req.Name,
				Payload: &secretmanagerpb.SecretPayload{
					Data: []byte("hunter2"),
				},
			}, nil
		},
	}

	tool, err := secrets.NewGetValueTool(client)
	require.NoError(t, err)
	assert.Equal(t, secrets.GetValueToolName, tool.Name())

	res, err := tool.Run(ctx, &secrets.GetValueRequest{SecretName: "app-db-password", ProjectID: "proj1"})
	require.NoError(t, err)
	assert.Equal(t, "projects/proj1/secrets/app-db-password/versions/latest", gotName)
	assert.Equal(t, "success", res.Status)
	assert.Equal(t, "hunter2", res.Value)

	// SDK failures are reported in band.
	client.accessSecretVersion = func(_ context.Context, _ *secretmanagerpb.AccessSecretVersionRequest) (*secretmanagerpb.AccessSecretVersionResponse, error) {
		return nil, status.Error(codes.NotFound, "not found")
	}
	res, err = tool.Run(ctx, &secrets.GetValueRequest{SecretName: "gone", ProjectID: "proj1"})
	require.NoError(t, err)
	assert.Equal(t, "error", res.Status)
	assert.Contains(t, res.Message, "Error retrieving secret:")
	assert.Empty(t, res.Value)
}

func Test_Call(t *testing.T) {
	ctx := context.Background()

	client := &fakeClient{
		listSecrets: func(_ context.Context, _ *secretmanagerpb.ListSecretsRequest) ([]*secretmanagerpb.Secret, error) {
			return []*secretmanagerpb.Secret{{Name: "projects/proj1/secrets/one"}}, nil
		},
	}

	tool, err := secrets.NewListTool(client)
	require.NoError(t, err)

	// LLM-produced input may be wrapped in prose.
	out, err := tool.Call(ctx, "Here you go: {\"project_id\": \"proj1\"}")
	require.NoError(t, err)
	assert.Equal(t, `{"secrets":["projects/proj1/secrets/one"]}`, out)
}
