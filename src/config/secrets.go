package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/tidwall/gjson"
)

// SecretsGetter is the subset of the Secrets Manager client used here.
type SecretsGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// LoadSecrets overlays the JSON secret named by AWS_SECRETS_ID onto the
// configuration. Secret keys use the environment variable names, e.g.
// {"JWT_SECRET": "...", "DATABASE_PASSWORD": "..."}.
func LoadSecrets(ctx context.Context) (*Config, error) {
	c := Get()
	if c.AWS.SecretsID == "" {
		return c, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return ApplySecrets(ctx, secretsmanager.NewFromConfig(cfg), c.AWS.SecretsID)
}

func ApplySecrets(ctx context.Context, client SecretsGetter, secretID string) (*Config, error) {
	out, err := client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretID),
	})
	if err != nil {
		return nil, fmt.Errorf("get secret %s: %w", secretID, err)
	}
	raw := aws.ToString(out.SecretString)
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("secret %s is not a JSON object", secretID)
	}
	values := map[string]any{}
	gjson.Parse(raw).ForEach(func(key, value gjson.Result) bool {
		values[secretKey(key.String())] = value.Value()
		return true
	})
	return Override(values)
}

// secretKey maps JWT_SECRET to jwt.secret.
func secretKey(env string) string {
	return strings.Replace(strings.ToLower(env), "_", ".", 1)
}
