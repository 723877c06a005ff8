package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/redjax/notedash/internal/utils"
	"github.com/spf13/pflag"
)

const EnvPrefix = "NOTEDASH_"

// Config holds the application configuration
type Config struct {
	ConfigFile  string        `koanf:"config.file"`
	APIURL      string        `koanf:"api.url"`
	APITimeout  time.Duration `koanf:"api.timeout"`
	DataDir     string        `koanf:"data.dir"`
	SessionFile string        `koanf:"session.file"`
	LogFile     string        `koanf:"log.file"`
	ServeAddr   string        `koanf:"serve.addr"`
	ServeSecret string        `koanf:"serve.secret"`
	TokenTTL    time.Duration `koanf:"serve.token.ttl"`
}

func DefaultConfig() *Config {
	dataDir, err := utils.GetAppDataDir()
	if err != nil {
		dataDir = ".notedash"
	}

	return &Config{
		ConfigFile:  filepath.Join(dataDir, "notedash.yml"),
		APIURL:      "http://localhost:8000",
		APITimeout:  10 * time.Second,
		DataDir:     dataDir,
		SessionFile: filepath.Join(dataDir, "session.json"),
		LogFile:     filepath.Join(dataDir, "notedash.log"),
		ServeAddr:   "127.0.0.1:8000",
		ServeSecret: "notedash-dev-secret",
		TokenTTL:    36 * time.Hour,
	}
}

// Load layers defaults, an optional config file, the environment and CLI
// flags (highest precedence) and unmarshals the result.
func Load(flagSet *pflag.FlagSet, configFile string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// A .env in the working directory feeds the env provider below.
	_ = godotenv.Load()

	if configFile == "" {
		if _, err := os.Stat(cfg.ConfigFile); err == nil {
			configFile = cfg.ConfigFile
		}
	}

	if configFile != "" {
		parser, err := parserForFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("unsupported config file format: %w", err)
		}

		if err := k.Load(file.Provider(configFile), parser); err != nil {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("error loading environment: %w", err)
	}

	if flagSet != nil {
		if err := k.Load(posflag.ProviderWithFlag(flagSet, ".", k, flagKey(flagSet)), nil); err != nil {
			return nil, fmt.Errorf("error loading flags: %w", err)
		}
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{FlatPaths: true}); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if configFile != "" {
		cfg.ConfigFile = configFile
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")

	return cfg, nil
}

// envKey maps NOTEDASH_API_URL to api.url.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", -1)
}

// flagKey maps --api-url to api.url. Flags the user did not set are skipped
// so they don't shadow file and env values with their defaults.
func flagKey(fs *pflag.FlagSet) func(*pflag.Flag) (string, interface{}) {
	return func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return strings.ReplaceAll(f.Name, "-", "."), posflag.FlagVal(fs, f)
	}
}

// EnsureDataDirs creates the directories the config points at.
func (c *Config) EnsureDataDirs() error {
	dirs := []string{
		c.DataDir,
		filepath.Dir(c.SessionFile),
		filepath.Dir(c.LogFile),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating directory %s: %w", dir, err)
		}
	}
	return nil
}

func parserForFile(path string) (koanf.Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yml", ".yaml":
		return yaml.Parser(), nil
	case ".json":
		return json.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	case ".env":
		return dotenv.Parser(), nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}
