package config

import (
	"context"
	"fmt"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// accessSecretVersion reads a secret payload by its full resource name,
// e.g. projects/p/secrets/gemini-api-key/versions/latest.
func accessSecretVersion(ctx context.Context, name string) (string, error) {
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("create secret manager client: %w", err)
	}
	defer func() { _ = client.Close() }()

	resp, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", name, err)
	}
	if resp.GetPayload() == nil || len(resp.GetPayload().GetData()) == 0 {
		return "", fmt.Errorf("secret %s is empty", name)
	}
	return string(resp.GetPayload().GetData()), nil
}
