package config

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecrets struct {
	secret string
}

func (f *fakeSecrets) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(f.secret)}, nil
}

func TestDefaults(t *testing.T) {
	c, err := Override(nil)
	require.NoError(t, err)
	assert.Equal(t, "https://open.er-api.com/v6/latest", c.Currency.APIURL)
	assert.Equal(t, "https://api.openweathermap.org/data/2.5/weather", c.OpenWeather.APIURL)
	assert.Equal(t, 10*time.Minute, c.Currency.CacheTTL)
	assert.Equal(t, 20, c.RateLimit.Comments)
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", "abc")
	t.Setenv("CURRENCY_PREFETCH", "usd, eur,,gbp")
	c, err := Override(nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", c.OpenWeather.APIKey)
	assert.Equal(t, []string{"USD", "EUR", "GBP"}, c.CurrencyPrefetch())
}

func TestApplySecrets(t *testing.T) {
	c, err := ApplySecrets(context.Background(), &fakeSecrets{secret: `{"JWT_SECRET":"s3cret","DATABASE_REPLICA_DSN":"host=replica"}`}, "voyagemate/api")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", c.JWT.Secret)
	assert.Equal(t, "host=replica", c.Database.ReplicaDSN)
}

func TestApplySecretsRejectsInvalidJSON(t *testing.T) {
	_, err := ApplySecrets(context.Background(), &fakeSecrets{secret: "not json"}, "voyagemate/api")
	assert.Error(t, err)
}

func TestShareURL(t *testing.T) {
	c := &Config{App: AppConfig{Host: "https://voyagemate.app/"}}
	assert.Equal(t, "https://voyagemate.app/s/abc", c.ShareURL("abc"))
}
