package config

import (
	"encoding/json"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vango-dev/dropzone/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "dropzone.json"

	// DefaultEndpoint is where the widget posts the multipart form.
	DefaultEndpoint = "/"

	// DefaultFieldName is the form field every file part is appended under.
	DefaultFieldName = "file"

	// DefaultReloadDelay is how long the success message stays before reload.
	DefaultReloadDelay = 2 * time.Second

	// DefaultPort is the default host server port.
	DefaultPort = 5000

	// DefaultHost is the default host server bind address.
	DefaultHost = "localhost"

	// DefaultStaticDir is the directory holding wasm_exec.js and dropzone.wasm.
	DefaultStaticDir = "public"

	// DefaultStaticPrefix is the URL prefix static files are served under.
	DefaultStaticPrefix = "/static/"
)

// Config represents the complete dropzone.json configuration.
type Config struct {
	// Name is the project name, shown as the upload page title.
	Name string `json:"name,omitempty"`

	// Endpoint is the path the form is posted to.
	Endpoint string `json:"endpoint,omitempty"`

	// FieldName is the multipart field name for each file.
	FieldName string `json:"fieldName,omitempty"`

	// ReloadDelay is a duration string (e.g. "2s"). "0s" reloads immediately.
	ReloadDelay string `json:"reloadDelay,omitempty"`

	// Elements holds the DOM ids the browser widget binds to.
	Elements ElementsConfig `json:"elements,omitempty"`

	// Server contains host server configuration.
	Server ServerConfig `json:"server,omitempty"`

	// S3 configures the s3:// file source of the upload command.
	S3 S3Config `json:"s3,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ElementsConfig contains the ids of the four widget elements.
type ElementsConfig struct {
	DropZone string `json:"dropZone,omitempty"`
	Input    string `json:"input,omitempty"`
	Progress string `json:"progress,omitempty"`
	Status   string `json:"status,omitempty"`
}

// ServerConfig contains host server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty"`

	// Upstream is the application that handles the posted form.
	// Empty means uploads are answered with 502.
	Upstream string `json:"upstream,omitempty"`

	// Static contains static file serving configuration.
	Static StaticConfig `json:"static,omitempty"`
}

// StaticConfig contains static file serving configuration.
type StaticConfig struct {
	// Dir is the directory containing static files.
	Dir string `json:"dir,omitempty"`

	// Prefix is the URL prefix for static files.
	Prefix string `json:"prefix,omitempty"`
}

// S3Config contains settings for reading s3:// references.
type S3Config struct {
	// Region is the AWS region. Falls back to AWS_REGION.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (MinIO, localstack).
	Endpoint string `json:"endpoint,omitempty"`

	// PathStyle forces path-style addressing.
	PathStyle bool `json:"pathStyle,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Endpoint:    DefaultEndpoint,
		FieldName:   DefaultFieldName,
		ReloadDelay: DefaultReloadDelay.String(),
		Elements: ElementsConfig{
			DropZone: "drop-area",
			Input:    "fileElem",
			Progress: "progressBar",
			Status:   "fileList",
		},
		Server: ServerConfig{
			Host: DefaultHost,
			Port: DefaultPort,
			Static: StaticConfig{
				Dir:    DefaultStaticDir,
				Prefix: DefaultStaticPrefix,
			},
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for dropzone.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("D100").
				WithDetail("No dropzone.json found in " + filepath.Dir(path)).
				WithSuggestion("Run 'dropzone init' to write a default config")
		}
		return nil, errors.New("D101").Wrap(err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.configPath = path
	return cfg, nil
}

// Parse decodes a dropzone.json document and applies defaults.
func Parse(data []byte) (*Config, error) {
	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("D101").
			WithDetail("Failed to parse dropzone.json: " + err.Error()).
			WithSuggestion("Check that dropzone.json is valid JSON")
	}
	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("D101").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("D101").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Endpoint == "" {
		c.Endpoint = DefaultEndpoint
	}
	if c.FieldName == "" {
		c.FieldName = DefaultFieldName
	}
	if c.ReloadDelay == "" {
		c.ReloadDelay = DefaultReloadDelay.String()
	}

	if c.Elements.DropZone == "" {
		c.Elements.DropZone = "drop-area"
	}
	if c.Elements.Input == "" {
		c.Elements.Input = "fileElem"
	}
	if c.Elements.Progress == "" {
		c.Elements.Progress = "progressBar"
	}
	if c.Elements.Status == "" {
		c.Elements.Status = "fileList"
	}

	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.Static.Dir == "" {
		c.Server.Static.Dir = DefaultStaticDir
	}
	if c.Server.Static.Prefix == "" {
		c.Server.Static.Prefix = DefaultStaticPrefix
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("D103").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Server.Port))
	}
	if d, err := time.ParseDuration(c.ReloadDelay); err != nil || d < 0 {
		return errors.New("D102").
			WithSuggestion(`Use a value such as "2s"`)
	}
	if c.Server.Upstream != "" {
		u, err := url.Parse(c.Server.Upstream)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.New("D104").
				WithDetail("Got " + strconv.Quote(c.Server.Upstream))
		}
	}
	return nil
}

// ReloadDuration returns the parsed reload delay, or the default if the
// configured value does not parse.
func (c *Config) ReloadDuration() time.Duration {
	d, err := time.ParseDuration(c.ReloadDelay)
	if err != nil || d < 0 {
		return DefaultReloadDelay
	}
	return d
}

// Address returns the host:port the server listens on.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// URL returns the base URL of the host server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// StaticPath returns the absolute path to the static directory.
func (c *Config) StaticPath() string {
	if filepath.IsAbs(c.Server.Static.Dir) {
		return c.Server.Static.Dir
	}
	return filepath.Join(c.Dir(), c.Server.Static.Dir)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing dropzone.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("D100").
				WithDetail("No dropzone.json found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'dropzone init' to write a default config")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}

// LoadOrDefault loads dropzone.json from the working directory tree and
// falls back to defaults when none exists. Parse errors are still returned.
func LoadOrDefault() (*Config, error) {
	cfg, err := LoadFromWorkingDir()
	if errors.HasCode(err, "D100") {
		return New(), nil
	}
	return cfg, err
}
