package config

import (
	"fmt"
	"strings"
	"time"

	"schema-deploy/internal/fault"

	"github.com/spf13/viper"
)

// Environment variables recognized in addition to the config file.
const (
	EnvEndpoint = "BASE_ENDPOINT_URL"
	EnvAPIKey   = "SERVICE_API_KEY"
	EnvDriver   = "DATABASE_DRIVER"
	EnvDSN      = "DATABASE_DSN"
	EnvSchema   = "SCHEMA_FILE"
)

type Config struct {
	Endpoint   string
	APIKey     string
	SchemaFile string

	Database   DatabaseConfig
	Connection ConnectionConfig
	REST       RESTConfig
	Verify     VerifyConfig
}

type DatabaseConfig struct {
	Driver string
	DSN    string
	Schema string // namespace to inspect; empty means the dialect default
}

// ConnectionConfig describes how the privileged connection string is suggested
// to the operator. Templates use {ref} for the project identifier.
type ConnectionConfig struct {
	HostTemplate string
	Port         int
	User         string
	Database     string
	SettingsURL  string
	EditorURL    string
}

type RESTConfig struct {
	Path    string
	Timeout time.Duration
}

type VerifyConfig struct {
	CountTable    string
	SampleTable   string
	SampleColumns []string
}

// MissingError reports a required setting that was not provided.
type MissingError struct {
	Key string
	Env string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s is required (set %s or %q in the config file)", e.Env, e.Env, e.Key)
}

// SetDefaults registers defaults and environment bindings on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("connection.host_template", "db.{ref}.supabase.co")
	v.SetDefault("connection.port", 5432)
	v.SetDefault("connection.user", "postgres")
	v.SetDefault("connection.database", "postgres")
	v.SetDefault("connection.settings_url", "https://app.supabase.com/project/{ref}/settings/database")
	v.SetDefault("connection.editor_url", "https://app.supabase.com/project/{ref}/sql")
	v.SetDefault("rest.path", "/rest/v1")
	v.SetDefault("rest.timeout", 30*time.Second)
	v.SetDefault("verify.count_table", "quotas")
	v.SetDefault("verify.sample_table", "raffle_configs")
	v.SetDefault("verify.sample_columns", []string{"name", "prize", "total_quotas"})

	_ = v.BindEnv("endpoint", EnvEndpoint)
	_ = v.BindEnv("api_key", EnvAPIKey)
	_ = v.BindEnv("database.driver", EnvDriver)
	_ = v.BindEnv("database.dsn", EnvDSN)
	_ = v.BindEnv("schema_file", EnvSchema)
}

// Load assembles the configuration once from v. Required fields are not
// checked here; each component asks for what it needs.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Endpoint:   strings.TrimSpace(v.GetString("endpoint")),
		APIKey:     strings.TrimSpace(v.GetString("api_key")),
		SchemaFile: v.GetString("schema_file"),
		Database: DatabaseConfig{
			Driver: strings.ToLower(v.GetString("database.driver")),
			DSN:    v.GetString("database.dsn"),
			Schema: v.GetString("database.schema"),
		},
		Connection: ConnectionConfig{
			HostTemplate: v.GetString("connection.host_template"),
			Port:         v.GetInt("connection.port"),
			User:         v.GetString("connection.user"),
			Database:     v.GetString("connection.database"),
			SettingsURL:  v.GetString("connection.settings_url"),
			EditorURL:    v.GetString("connection.editor_url"),
		},
		REST: RESTConfig{
			Path:    v.GetString("rest.path"),
			Timeout: v.GetDuration("rest.timeout"),
		},
		Verify: VerifyConfig{
			CountTable:    v.GetString("verify.count_table"),
			SampleTable:   v.GetString("verify.sample_table"),
			SampleColumns: columns(v.GetStringSlice("verify.sample_columns")),
		},
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Connection.Port <= 0 || cfg.Connection.Port > 65535 {
		return nil, fault.Newf(fault.Config, "connection.port out of range: %d", cfg.Connection.Port)
	}
	if cfg.REST.Timeout <= 0 {
		return nil, fault.Newf(fault.Config, "rest.timeout must be positive")
	}
	if len(cfg.Verify.SampleColumns) == 0 {
		return nil, fault.Newf(fault.Config, "verify.sample_columns must list at least one column")
	}
	return cfg, nil
}

// columns accepts both a YAML list and "a, b, c" from the environment.
func columns(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, c := range strings.Split(r, ",") {
			if c = strings.TrimSpace(c); c != "" {
				out = append(out, c)
			}
		}
	}
	return out
}

// RequireEndpoint fails with a configuration fault when the endpoint is unset.
func (c *Config) RequireEndpoint() error {
	if c.Endpoint == "" {
		return fault.New(fault.Config, &MissingError{Key: "endpoint", Env: EnvEndpoint})
	}
	return nil
}

// RequireAPIKey fails with a configuration fault when the API key is unset.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fault.New(fault.Config, &MissingError{Key: "api_key", Env: EnvAPIKey})
	}
	return nil
}

// Expand substitutes the project identifier into a {ref} template.
func Expand(template, ref string) string {
	return strings.ReplaceAll(template, "{ref}", ref)
}
