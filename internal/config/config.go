// Package config provides the static configuration of the client and the
// edge service, read once at start from defaults, an optional YAML file,
// .env files and LUMINA_* environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/atinyakov/lumina/internal/logger"
	"github.com/atinyakov/lumina/internal/models"
)

const envPrefix = "LUMINA"

// Local store drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// RemoteConfig describes the remote edge service.
type RemoteConfig struct {
	// URL is the base endpoint. Empty selects local mode.
	URL string `mapstructure:"url" yaml:"url"`
	// SecretKey is sent as X-Secret-Key on uploads and checked by the server.
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
	// Timeout bounds every remote call.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LocalConfig describes on-device persistence for local mode.
type LocalConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	Path   string `mapstructure:"path"   yaml:"path"`
}

// ServerConfig holds edge service settings.
type ServerConfig struct {
	Address        string `mapstructure:"address"          yaml:"address"`
	DatabaseDSN    string `mapstructure:"database_dsn"     yaml:"database_dsn"`
	PublicURL      string `mapstructure:"public_url"       yaml:"public_url"`
	TLSCert        string `mapstructure:"tls_cert"         yaml:"tls_cert"`
	TLSKey         string `mapstructure:"tls_key"          yaml:"tls_key"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// Options holds the configuration values for the application.
type Options struct {
	Remote RemoteConfig  `mapstructure:"remote" yaml:"remote"`
	Local  LocalConfig   `mapstructure:"local"  yaml:"local"`
	Server ServerConfig  `mapstructure:"server" yaml:"server"`
	Log    logger.Config `mapstructure:"log"    yaml:"log"`
}

// Defaults returns the built-in configuration.
func Defaults() Options {
	return Options{
		Remote: RemoteConfig{
			Timeout: 10 * time.Second,
		},
		Local: LocalConfig{
			Driver: DriverFile,
			Path:   "lumina_admin.json",
		},
		Server: ServerConfig{
			Address:        "localhost:8080",
			PublicURL:      "http://localhost:8080",
			MaxUploadBytes: 10 << 20,
		},
		Log: logger.Config{
			Level:      "info",
			MaxSizeMB:  64,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// Backend reports which credential backend these options select.
// A non-empty remote URL selects the remote backend.
func (o *Options) Backend() models.BackendKind {
	if strings.TrimSpace(o.Remote.URL) != "" {
		return models.RemoteBackend
	}
	return models.LocalBackend
}

// Load reads configuration. An empty path searches for config.yaml in the
// working directory and $HOME/.lumina; a missing file is not an error then.
func Load(path string) (*Options, error) {
	loadDotEnv(path)

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.lumina")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	opts := &Options{}
	if err := v.Unmarshal(opts); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Validate checks values that would otherwise fail late.
func (o *Options) Validate() error {
	if o.Remote.URL != "" {
		u, err := url.Parse(o.Remote.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid remote.url %q", o.Remote.URL)
		}
	}
	switch o.Local.Driver {
	case DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("unsupported local.driver %q", o.Local.Driver)
	}
	if o.Local.Path == "" {
		return errors.New("local.path must not be empty")
	}
	if o.Remote.Timeout <= 0 {
		return errors.New("remote.timeout must be positive")
	}
	return nil
}

func loadDotEnv(path string) {
	files := []string{".env", ".env.local"}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
	if path == "" {
		return
	}
	dir := filepath.Dir(path)
	for _, f := range files {
		_ = godotenv.Load(filepath.Join(dir, f))
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()

	v.SetDefault("remote.url", d.Remote.URL)
	v.SetDefault("remote.secret_key", d.Remote.SecretKey)
	v.SetDefault("remote.timeout", d.Remote.Timeout)

	v.SetDefault("local.driver", d.Local.Driver)
	v.SetDefault("local.path", d.Local.Path)

	v.SetDefault("server.address", d.Server.Address)
	v.SetDefault("server.database_dsn", d.Server.DatabaseDSN)
	v.SetDefault("server.public_url", d.Server.PublicURL)
	v.SetDefault("server.tls_cert", d.Server.TLSCert)
	v.SetDefault("server.tls_key", d.Server.TLSKey)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.json", d.Log.JSON)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.no_terminal", d.Log.NoTerminal)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
}
