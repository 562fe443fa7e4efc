package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Logger   LoggerConfig
	DB       DBConfig
	Storage  StorageConfig
	Archive  ArchiveConfig
	Export   ExportConfig
	Snapshot SnapshotConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Env     string
	WorkDir string
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimitMB  int
}

type LoggerConfig struct {
	Level string
	Env   string
}

type DBConfig struct {
	Path        string
	BusyTimeout time.Duration
}

type StorageConfig struct {
	ImagesDir  string
	StagingDir string
}

type ArchiveConfig struct {
	ExtractWorkers int
	MaxEntryBytes  int64
}

type ExportConfig struct {
	// LenientUnknownKind makes an unknown export type answer with an empty
	// array instead of a client error.
	LenientUnknownKind bool
}

type SnapshotConfig struct {
	Command string
	Args    []string
	Timeout time.Duration
	LockTTL time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// DefaultBodyLimitMB caps whole request bodies. Snapshot and image uploads
// are multipart and can be large; raw JSON bodies have their own cap.
const DefaultBodyLimitMB = 512

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.work_dir", ".")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", 60)
	v.SetDefault("server.write_timeout", 300)
	v.SetDefault("server.body_limit_mb", DefaultBodyLimitMB)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")
	v.SetDefault("db.path", "data/quizdeck.db")
	v.SetDefault("db.busy_timeout", 5)
	v.SetDefault("storage.images_dir", "uploads/question-images")
	v.SetDefault("storage.staging_dir", "data/staging")
	v.SetDefault("archive.extract_workers", 4)
	v.SetDefault("archive.max_entry_bytes", 50*1024*1024)
	v.SetDefault("export.lenient_unknown_kind", false)
	v.SetDefault("snapshot.command", "scripts/replace-db.sh")
	v.SetDefault("snapshot.args", []string{})
	v.SetDefault("snapshot.timeout", 120)
	v.SetDefault("snapshot.lock_ttl", 300)
	v.SetDefault("redis.db", 0)
}

// LoadConfig reads config.yaml (optional) and APP_* environment overrides.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Env:     v.GetString("app.env"),
			WorkDir: v.GetString("app.work_dir"),
		},
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout") * time.Second,
			WriteTimeout: v.GetDuration("server.write_timeout") * time.Second,
			BodyLimitMB:  v.GetInt("server.body_limit_mb"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		DB: DBConfig{
			Path:        v.GetString("db.path"),
			BusyTimeout: v.GetDuration("db.busy_timeout") * time.Second,
		},
		Storage: StorageConfig{
			ImagesDir:  v.GetString("storage.images_dir"),
			StagingDir: v.GetString("storage.staging_dir"),
		},
		Archive: ArchiveConfig{
			ExtractWorkers: v.GetInt("archive.extract_workers"),
			MaxEntryBytes:  v.GetInt64("archive.max_entry_bytes"),
		},
		Export: ExportConfig{
			LenientUnknownKind: v.GetBool("export.lenient_unknown_kind"),
		},
		Snapshot: SnapshotConfig{
			Command: v.GetString("snapshot.command"),
			Args:    v.GetStringSlice("snapshot.args"),
			Timeout: v.GetDuration("snapshot.timeout") * time.Second,
			LockTTL: v.GetDuration("snapshot.lock_ttl") * time.Second,
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
	}
}

// ResolvePath makes p absolute relative to the configured working directory.
func (c *Config) ResolvePath(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	base := c.App.WorkDir
	if base == "" {
		base = "."
	}
	abs, err := filepath.Abs(filepath.Join(base, p))
	if err != nil {
		return filepath.Join(base, p)
	}
	return abs
}

func (c *Config) DBPath() string      { return c.ResolvePath(c.DB.Path) }
func (c *Config) ImagesDir() string   { return c.ResolvePath(c.Storage.ImagesDir) }
func (c *Config) StagingDir() string  { return c.ResolvePath(c.Storage.StagingDir) }
func (c *Config) BodyLimitBytes() int { return c.Server.BodyLimitMB * 1024 * 1024 }

// SnapshotCommand resolves the replace procedure. Bare names are looked up
// on PATH; anything with a separator is resolved against the work dir.
func (c *Config) SnapshotCommand() string {
	cmd := c.Snapshot.Command
	if cmd == "" || !strings.ContainsRune(cmd, '/') && !strings.ContainsRune(cmd, filepath.Separator) {
		return cmd
	}
	return c.ResolvePath(cmd)
}
