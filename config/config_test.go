package config

import (
	// Go Internal Packages
	"testing"

	// External Packages
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadDefaults(t *testing.T) Config {
	t.Helper()
	k := koanf.New(".")
	require.NoError(t, k.Load(rawbytes.Provider(DefaultConfig), yaml.Parser()))

	var c Config
	require.NoError(t, k.Unmarshal("", &c))
	return c
}

func TestDefaultConfigIsValid(t *testing.T) {
	c := loadDefaults(t)
	require.NoError(t, c.Validate())

	assert.Equal(t, "ipn-gateway", c.Application)
	assert.Equal(t, "ACCOUNT", c.Validation.DefaultRefType)
	assert.Equal(t, "INVOICE", c.Validation.RefTypePrefixes["INV"])
	assert.Equal(t, "METER", c.Validation.RefTypePrefixes["MTR"])
	assert.False(t, c.Kafka.Enabled)
}

func TestValidateRejectsMissingFields(t *testing.T) {
	c := loadDefaults(t)
	c.Mongo.URI = ""
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo.uri")
}

func TestValidateRequiresSecretWhenAuthEnabled(t *testing.T) {
	c := loadDefaults(t)
	c.Auth.Enabled = true
	c.Auth.JWTSecret = ""
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt_secret")
}
