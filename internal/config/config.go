// Package config loads the settings of isdown.
//
// Settings are read from the defaults, a YAML file, a .env file and ISDOWN_* environment variables,
// in order of increasing priority. Command line flags are applied on top by the command.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/macrat/isdown/internal/isdownerr"
	"github.com/macrat/isdown/internal/report"
	"github.com/macrat/isdown/internal/store"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrLoadConfig    = errors.New("failed to load configuration")
)

const (
	// DefaultFile is the config file that is read if it exists and no file is specified.
	DefaultFile = "isdown.yaml"

	// DefaultEnvFile is the dotenv file that is read if it exists.
	DefaultEnvFile = ".env"

	// ForeverDays is the number of retention days that means keeping history forever.
	// It is kept for compatibility with old settings that used a huge number instead of "forever".
	ForeverDays = 36500

	EnvPrefix = "ISDOWN_"
)

// Config is the settings of isdown.
type Config struct {
	URL     string `yaml:"url" validate:"required,url"`
	Host    string `yaml:"host" validate:"required,hostname_rfc1123|ip"`
	SSHPort int    `yaml:"ssh_port" validate:"min=1,max=65535"`
	History string `yaml:"history" validate:"required"`
	Output  string `yaml:"output" validate:"required"`

	JSONOutput string `yaml:"json_output"`
	TextOutput string `yaml:"text_output"`

	// RetentionDays is the number of days to keep history. Nil means forever.
	RetentionDays *int `yaml:"retention_days" validate:"omitempty,min=1"`

	HTTPTimeout time.Duration `yaml:"http_timeout" validate:"min=1ms"`
	SSHTimeout  time.Duration `yaml:"ssh_timeout" validate:"min=1ms"`
	PingTimeout time.Duration `yaml:"ping_timeout" validate:"min=1ms"`

	TLSVerify      bool  `yaml:"tls_verify"`
	PingPrivileged *bool `yaml:"ping_privileged"`

	Title     string `yaml:"title"`
	CheckNote string `yaml:"check_note"`

	LogDir   string `yaml:"log_dir"`
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	FailOnDown bool `yaml:"fail_on_down"`
}

// Default returns the default settings.
func Default() Config {
	return Config{
		URL:         "https://watgpu.cs.uwaterloo.ca/",
		Host:        "watgpu.cs.uwaterloo.ca",
		SSHPort:     22,
		History:     "history.json",
		Output:      "index.html",
		HTTPTimeout: 10 * time.Second,
		SSHTimeout:  5 * time.Second,
		PingTimeout: 5 * time.Second,
		Title:       report.DefaultTitle,
		CheckNote:   report.DefaultCheckNote,
		LogLevel:    "info",
	}
}

// Retention returns the retention policy of the history.
func (c Config) Retention() store.Retention {
	if c.RetentionDays == nil || *c.RetentionDays >= ForeverDays {
		return store.KeepForever
	}
	return store.KeepFor(time.Duration(*c.RetentionDays) * 24 * time.Hour)
}

// ReportOptions returns the options for the status page.
func (c Config) ReportOptions() report.Options {
	return report.Options{
		Title:     c.Title,
		CheckNote: c.CheckNote,
	}
}

// Outputs returns the status documents to write.
func (c Config) Outputs() []Output {
	outs := []Output{{c.Output, report.FormatHTML}}
	if c.JSONOutput != "" {
		outs = append(outs, Output{c.JSONOutput, report.FormatJSON})
	}
	if c.TextOutput != "" {
		outs = append(outs, Output{c.TextOutput, report.FormatText})
	}
	return outs
}

// Output is a status document.
type Output struct {
	Path   string
	Format report.Format
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks the settings.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return isdownerr.New(ErrInvalidConfig, err, "")
	}

	errs := &isdownerr.FieldErrors{Kind: ErrInvalidConfig, Source: isdownerr.FromSettings}
	for _, fe := range ves {
		if fe.Tag() == "required" {
			errs.Add(fe.Field(), "", "required")
		} else {
			errs.Add(fe.Field(), fmt.Sprint(fe.Value()), describeTag(fe))
		}
	}
	return errs.Err()
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "url":
		return "must be a URL"
	case "hostname_rfc1123|ip":
		return "must be a host name or an IP address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "must satisfy " + fe.Tag()
	}
}

// LoadFile reads a YAML file over c.
// Keys that are not in the file are left unchanged.
func (c *Config) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return isdownerr.New(ErrLoadConfig, err, "")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return isdownerr.New(ErrLoadConfig, err, "%s", path)
	}
	return nil
}

// Getenv is a function to look up an environment variable, like os.LookupEnv.
type Getenv func(key string) (string, bool)

// WithDotenv makes Getenv that looks up getenv first, and then the dotenv file.
// A missing dotenv file is ignored.
func WithDotenv(getenv Getenv, path string) (Getenv, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return getenv, nil
	} else if err != nil {
		return nil, isdownerr.New(ErrLoadConfig, err, "%s", path)
	}

	return func(key string) (string, bool) {
		if v, ok := getenv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	}, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, errors.New("must be a boolean")
	}
}

// LoadEnv reads ISDOWN_* environment variables over c.
func (c *Config) LoadEnv(getenv Getenv) error {
	errs := &isdownerr.FieldErrors{Kind: ErrInvalidConfig, Source: isdownerr.FromEnv}

	str := func(name string, p *string) {
		if v, ok := getenv(EnvPrefix + name); ok {
			*p = v
		}
	}
	integer := func(name string, p *int) bool {
		v, ok := getenv(EnvPrefix + name)
		if !ok {
			return false
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs.Add(EnvPrefix+name, v, "must be a number")
			return false
		}
		*p = n
		return true
	}
	boolean := func(name string, p *bool) bool {
		v, ok := getenv(EnvPrefix + name)
		if !ok {
			return false
		}
		b, err := parseBool(v)
		if err != nil {
			errs.Add(EnvPrefix+name, v, err.Error())
			return false
		}
		*p = b
		return true
	}
	duration := func(name string, p *time.Duration) {
		v, ok := getenv(EnvPrefix + name)
		if !ok {
			return
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			errs.Add(EnvPrefix+name, v, "must be a duration like 5s")
			return
		}
		*p = d
	}

	str("URL", &c.URL)
	str("HOST", &c.Host)
	integer("SSH_PORT", &c.SSHPort)
	str("HISTORY", &c.History)
	str("OUTPUT", &c.Output)
	str("JSON_OUTPUT", &c.JSONOutput)
	str("TEXT_OUTPUT", &c.TextOutput)

	var days int
	if integer("RETENTION_DAYS", &days) {
		c.RetentionDays = &days
	}

	duration("HTTP_TIMEOUT", &c.HTTPTimeout)
	duration("SSH_TIMEOUT", &c.SSHTimeout)
	duration("PING_TIMEOUT", &c.PingTimeout)

	boolean("TLS_VERIFY", &c.TLSVerify)

	var privileged bool
	if boolean("PING_PRIVILEGED", &privileged) {
		c.PingPrivileged = &privileged
	}

	str("TITLE", &c.Title)
	str("CHECK_NOTE", &c.CheckNote)
	str("LOG_DIR", &c.LogDir)
	str("LOG_LEVEL", &c.LogLevel)
	boolean("FAIL_ON_DOWN", &c.FailOnDown)

	return errs.Err()
}

// LoadOptions is the sources of Load.
type LoadOptions struct {
	// File is the path to the YAML file. If it is empty, DefaultFile is read if it exists.
	File string

	// EnvFile is the path to the dotenv file. If it is empty, DefaultEnvFile is used.
	EnvFile string

	// Getenv looks up environment variables. Nil means os.LookupEnv.
	Getenv Getenv
}

// Load reads the settings from all sources except command line flags.
// The result is not validated yet, because flags may change it.
func Load(opts LoadOptions) (Config, error) {
	c := Default()

	if opts.File != "" {
		if err := c.LoadFile(opts.File); err != nil {
			return c, err
		}
	} else if _, err := os.Stat(DefaultFile); err == nil {
		if err := c.LoadFile(DefaultFile); err != nil {
			return c, err
		}
	}

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.LookupEnv
	}

	envFile := opts.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	getenv, err := WithDotenv(getenv, envFile)
	if err != nil {
		return c, err
	}

	if err := c.LoadEnv(getenv); err != nil {
		return c, err
	}

	return c, nil
}
