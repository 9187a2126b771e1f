package config

import (
	// Local Packages
	errors "ipn-gateway/errors"
)

var DefaultConfig = []byte(`
application: "ipn-gateway"

logger:
  level: "debug"

is_prod_mode: false

server:
  addr: ":8000"
  read_timeout_secs: 15
  write_timeout_secs: 15

auth:
  enabled: false
  jwt_secret: ""

mongo:
  uri: "mongodb://localhost:27017"
  database: "ipn"

redis:
  uri: "localhost:6379"
  password: ""

kafka:
  enabled: false
  brokers:
    - "localhost:9092"
  topic: "transaction-events"
  producer_name: "ipn-gateway"

validation:
  default_ref_type: "ACCOUNT"
  ref_type_prefixes:
    INV: "INVOICE"
    MTR: "METER"
    POL: "POLICY"
    MSI: "MSISDN"
`)

type Config struct {
	Application string     `koanf:"application"`
	Logger      Logger     `koanf:"logger"`
	IsProdMode  bool       `koanf:"is_prod_mode"`
	Server      Server     `koanf:"server"`
	Auth        Auth       `koanf:"auth"`
	Mongo       Mongo      `koanf:"mongo"`
	Redis       Redis      `koanf:"redis"`
	Kafka       Kafka      `koanf:"kafka"`
	Validation  Validation `koanf:"validation"`
}

type Logger struct {
	Level string `koanf:"level"`
}

type Server struct {
	Addr             string `koanf:"addr"`
	ReadTimeoutSecs  int    `koanf:"read_timeout_secs"`
	WriteTimeoutSecs int    `koanf:"write_timeout_secs"`
}

type Auth struct {
	Enabled   bool   `koanf:"enabled"`
	JWTSecret string `koanf:"jwt_secret"`
}

type Mongo struct {
	URI      string `koanf:"uri"`
	Database string `koanf:"database"`
}

type Redis struct {
	URI      string `koanf:"uri"`
	Password string `koanf:"password"`
}

type Kafka struct {
	Enabled      bool     `koanf:"enabled"`
	Brokers      []string `koanf:"brokers"`
	Topic        string   `koanf:"topic"`
	ProducerName string   `koanf:"producer_name"`
}

// Validation carries the reference-type inference rules. The prefix table is
// undocumented gateway policy, so it lives in config rather than code.
type Validation struct {
	DefaultRefType  string            `koanf:"default_ref_type"`
	RefTypePrefixes map[string]string `koanf:"ref_type_prefixes"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	ve := errors.ValidationErrs()

	if c.Application == "" {
		ve.Add("application", "cannot be empty")
	}
	if c.Logger.Level == "" {
		ve.Add("logger.level", "cannot be empty")
	}
	if c.Server.Addr == "" {
		ve.Add("server.addr", "cannot be empty")
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" {
		ve.Add("auth.jwt_secret", "cannot be empty when auth is enabled")
	}
	if c.Mongo.URI == "" {
		ve.Add("mongo.uri", "cannot be empty")
	}
	if c.Mongo.Database == "" {
		ve.Add("mongo.database", "cannot be empty")
	}
	if c.Redis.URI == "" {
		ve.Add("redis.uri", "cannot be empty")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		ve.Add("kafka.brokers", "cannot be empty when kafka is enabled")
	}
	if c.Validation.DefaultRefType == "" {
		ve.Add("validation.default_ref_type", "cannot be empty")
	}

	return ve.Err()
}
