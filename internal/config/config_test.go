package config_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/macrat/isdown/internal/config"
	"github.com/macrat/isdown/internal/isdownerr"
	"github.com/macrat/isdown/internal/report"
	"github.com/macrat/isdown/internal/store"
	"github.com/macrat/isdown/internal/testutil"
)

func env(m map[string]string) config.Getenv {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func intp(n int) *int {
	return &n
}

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "no-such.env")
}

func TestDefault(t *testing.T) {
	t.Parallel()

	c := config.Default()

	if err := c.Validate(); err != nil {
		t.Fatalf("default config is invalid: %s", err)
	}
	if c.Retention() != store.KeepForever {
		t.Errorf("default retention should be forever: %s", c.Retention())
	}
	if c.URL != "https://watgpu.cs.uwaterloo.ca/" || c.Host != "watgpu.cs.uwaterloo.ca" || c.SSHPort != 22 {
		t.Errorf("unexpected default target: %+v", c)
	}
	if diff := cmp.Diff([]config.Output{{"index.html", report.FormatHTML}}, c.Outputs()); diff != "" {
		t.Errorf("unexpected outputs\n%s", diff)
	}
}

func TestConfig_Retention(t *testing.T) {
	t.Parallel()

	tests := []struct {
		Days *int
		Want store.Retention
	}{
		{nil, store.KeepForever},
		{intp(30), store.KeepFor(30 * 24 * time.Hour)},
		{intp(1), store.KeepFor(24 * time.Hour)},
		{intp(36499), store.KeepFor(36499 * 24 * time.Hour)},
		{intp(36500), store.KeepForever},
		{intp(100000000000), store.KeepForever},
	}

	for _, tt := range tests {
		c := config.Default()
		c.RetentionDays = tt.Days
		if got := c.Retention(); got != tt.Want {
			t.Errorf("%v: expected %s but got %s", tt.Days, tt.Want, got)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		Name   string
		Modify func(*config.Config)
		Errors []string
	}{
		{"ok", func(c *config.Config) {}, nil},
		{"ip-host", func(c *config.Config) { c.Host = "192.0.2.1" }, nil},
		{"localhost", func(c *config.Config) { c.Host = "localhost" }, nil},
		{"empty-url", func(c *config.Config) { c.URL = "" }, []string{"url: required"}},
		{"bad-url", func(c *config.Config) { c.URL = "not a url" }, []string{"url: invalid value not a url (must be a URL)"}},
		{"bad-host", func(c *config.Config) { c.Host = "bad host!" }, []string{"host: invalid value bad host!"}},
		{"port-zero", func(c *config.Config) { c.SSHPort = 0 }, []string{"ssh_port: invalid value 0 (must be at least 1)"}},
		{"port-too-large", func(c *config.Config) { c.SSHPort = 70000 }, []string{"ssh_port: invalid value 70000 (must be at most 65535)"}},
		{"negative-retention", func(c *config.Config) { c.RetentionDays = intp(-1) }, []string{"retention_days: invalid value"}},
		{"bad-log-level", func(c *config.Config) { c.LogLevel = "loud" }, []string{"log_level: invalid value loud (must be one of debug info warn error)"}},
		{"zero-timeout", func(c *config.Config) { c.HTTPTimeout = 0 }, []string{"http_timeout: invalid value"}},
		{
			"multiple",
			func(c *config.Config) { c.History = ""; c.Output = "" },
			[]string{"history: required", "output: required"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.Name, func(t *testing.T) {
			c := config.Default()
			tt.Modify(&c)

			err := c.Validate()
			if len(tt.Errors) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %s", err)
				}
				return
			}

			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, msg := range tt.Errors {
				if !strings.Contains(err.Error(), msg) {
					t.Errorf("error does not contain %q\n%s", msg, err)
				}
			}
		})
	}
}

func TestLoad_file(t *testing.T) {
	t.Parallel()

	path := testutil.WriteFile(t, "isdown.yaml", strings.Join([]string{
		"url: https://example.com/",
		"host: example.com",
		"ssh_port: 2222",
		"retention_days: 90",
		"http_timeout: 3s",
		"ping_privileged: false",
		"json_output: status.json",
		"title: Is Example Down?",
	}, "\n"))

	c, err := config.Load(config.LoadOptions{File: path, EnvFile: noEnvFile(t), Getenv: env(nil)})
	if err != nil {
		t.Fatalf("failed to load: %s", err)
	}

	want := config.Default()
	want.URL = "https://example.com/"
	want.Host = "example.com"
	want.SSHPort = 2222
	want.RetentionDays = intp(90)
	want.HTTPTimeout = 3 * time.Second
	privileged := false
	want.PingPrivileged = &privileged
	want.JSONOutput = "status.json"
	want.Title = "Is Example Down?"

	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("unexpected config\n%s", diff)
	}

	if diff := cmp.Diff([]config.Output{{"index.html", report.FormatHTML}, {"status.json", report.FormatJSON}}, c.Outputs()); diff != "" {
		t.Errorf("unexpected outputs\n%s", diff)
	}
}

func TestLoad_fileErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		Name    string
		Content string
	}{
		{"unknown-key", "no_such_key: 1\n"},
		{"broken", "url: [\n"},
		{"bad-duration", "http_timeout: soon\n"},
	}

	for _, tt := range tests {
		path := testutil.WriteFile(t, tt.Name+".yaml", tt.Content)

		_, err := config.Load(config.LoadOptions{File: path, EnvFile: noEnvFile(t), Getenv: env(nil)})
		if !errors.Is(err, config.ErrLoadConfig) {
			t.Errorf("%s: unexpected error: %v", tt.Name, err)
		}
	}

	_, err := config.Load(config.LoadOptions{File: filepath.Join(t.TempDir(), "missing.yaml"), EnvFile: noEnvFile(t), Getenv: env(nil)})
	if !errors.Is(err, config.ErrLoadConfig) {
		t.Errorf("missing file: unexpected error: %v", err)
	}
}

func TestLoad_emptyFile(t *testing.T) {
	t.Parallel()

	path := testutil.WriteFile(t, "isdown.yaml", "")

	c, err := config.Load(config.LoadOptions{File: path, EnvFile: noEnvFile(t), Getenv: env(nil)})
	if err != nil {
		t.Fatalf("failed to load: %s", err)
	}
	if diff := cmp.Diff(config.Default(), c); diff != "" {
		t.Errorf("empty file should keep defaults\n%s", diff)
	}
}

func TestLoad_env(t *testing.T) {
	t.Parallel()

	path := testutil.WriteFile(t, "isdown.yaml", "host: from-file.example.com\nssh_port: 2222\n")
	dotenv := testutil.WriteFile(t, ".env", "ISDOWN_HOST=from-dotenv.example.com\nISDOWN_LOG_LEVEL=debug\n")

	c, err := config.Load(config.LoadOptions{
		File:    path,
		EnvFile: dotenv,
		Getenv: env(map[string]string{
			"ISDOWN_HOST":            "from-env.example.com",
			"ISDOWN_RETENTION_DAYS":  "36500",
			"ISDOWN_PING_PRIVILEGED": "yes",
			"ISDOWN_SSH_TIMEOUT":     "2s",
			"ISDOWN_FAIL_ON_DOWN":    "on",
		}),
	})
	if err != nil {
		t.Fatalf("failed to load: %s", err)
	}

	if c.Host != "from-env.example.com" {
		t.Errorf("environment variable should have priority: %s", c.Host)
	}
	if c.LogLevel != "debug" {
		t.Errorf("dotenv should be read: %s", c.LogLevel)
	}
	if c.SSHPort != 2222 {
		t.Errorf("file value should be kept: %d", c.SSHPort)
	}
	if c.Retention() != store.KeepForever {
		t.Errorf("36500 days should mean forever: %s", c.Retention())
	}
	if c.PingPrivileged == nil || !*c.PingPrivileged {
		t.Errorf("unexpected ping privileged: %v", c.PingPrivileged)
	}
	if c.SSHTimeout != 2*time.Second {
		t.Errorf("unexpected ssh timeout: %s", c.SSHTimeout)
	}
	if !c.FailOnDown {
		t.Errorf("fail on down should be enabled")
	}
}

func TestLoad_envErrors(t *testing.T) {
	t.Parallel()

	_, err := config.Load(config.LoadOptions{
		File:    testutil.WriteFile(t, "isdown.yaml", ""),
		EnvFile: noEnvFile(t),
		Getenv: env(map[string]string{
			"ISDOWN_SSH_PORT":     "ssh",
			"ISDOWN_TLS_VERIFY":   "maybe",
			"ISDOWN_PING_TIMEOUT": "long",
		}),
	})

	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Fatalf("unexpected error: %v", err)
	}

	var fe *isdownerr.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("error should be a list of fields: %#v", err)
	}
	if fe.Source != isdownerr.FromEnv {
		t.Errorf("unexpected source: %q", fe.Source)
	}
	if diff := cmp.Diff([]string{"ISDOWN_SSH_PORT", "ISDOWN_PING_TIMEOUT", "ISDOWN_TLS_VERIFY"}, fe.Keys()); diff != "" {
		t.Errorf("unexpected keys\n%s", diff)
	}

	want := strings.Join([]string{
		"invalid configuration in environment variables:",
		"  ISDOWN_SSH_PORT: invalid value ssh (must be a number)",
		"  ISDOWN_PING_TIMEOUT: invalid value long (must be a duration like 5s)",
		"  ISDOWN_TLS_VERIFY: invalid value maybe (must be a boolean)",
	}, "\n")
	if err.Error() != want {
		t.Errorf("unexpected message\n got: %s\nwant: %s", err, want)
	}
}

func TestConfig_Validate_fields(t *testing.T) {
	t.Parallel()

	c := config.Default()
	c.URL = ""
	c.SSHPort = 0

	err := c.Validate()

	var fe *isdownerr.FieldErrors
	if !errors.As(err, &fe) {
		t.Fatalf("error should be a list of fields: %#v", err)
	}
	if fe.Source != isdownerr.FromSettings {
		t.Errorf("unexpected source: %q", fe.Source)
	}
	if diff := cmp.Diff([]string{"url", "ssh_port"}, fe.Keys()); diff != "" {
		t.Errorf("unexpected keys\n%s", diff)
	}

	var field isdownerr.FieldError
	if !errors.As(err, &field) || field.Key != "url" || field.Reason != "required" {
		t.Errorf("unexpected first field: %#v", field)
	}

	want := "invalid configuration:\n  url: required\n  ssh_port: invalid value 0 (must be at least 1)"
	if err.Error() != want {
		t.Errorf("unexpected message\n got: %s\nwant: %s", err, want)
	}
}
