package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/template"
	"time"

	"github.com/macrat/isdown/internal/config"
	"github.com/macrat/isdown/internal/logging"
	"github.com/macrat/isdown/internal/meta"
	"github.com/macrat/isdown/internal/monitor"
	"github.com/macrat/isdown/internal/scheme"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// Mode is the subcommand of IsdownCommand.
type Mode string

const (
	ModeCheck  Mode = "check"
	ModeRender Mode = "render"
	ModeProbe  Mode = "probe"
)

type IsdownCommand struct {
	OutStream io.Writer
	ErrStream io.Writer

	// Getenv looks up environment variables. Nil means os.LookupEnv.
	Getenv config.Getenv

	// EnvFile is the dotenv file. Empty means config.DefaultEnvFile.
	EnvFile string

	// Probes replaces the probes made from Config.
	Probes *scheme.ProbeSet

	// Now replaces the clock.
	Now func() time.Time

	Mode        Mode
	ConfigPath  string
	Config      config.Config
	ShowVersion bool
	ShowHelp    bool
}

var defaultIsdownCommand = &IsdownCommand{
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

//go:embed help.txt
var helpText string

func (cmd *IsdownCommand) PrintUsage(detail bool) {
	tmpl := template.Must(template.New("help.txt").Parse(helpText))
	tmpl.Execute(cmd.ErrStream, map[string]interface{}{
		"Version":         meta.Version,
		"ConfigFile":      config.DefaultFile,
		"EnvFile":         config.DefaultEnvFile,
		"ForeverDays":     config.ForeverDays,
		"HTTPRedirectMax": scheme.HTTP_REDIRECT_MAX,
		"Short":           !detail,
	})
	fmt.Fprintln(cmd.ErrStream)
}

func (cmd *IsdownCommand) usageError(name string, err error) int {
	fmt.Fprintln(cmd.ErrStream, err)
	fmt.Fprintf(cmd.ErrStream, "\nPlease see `%s -h` for more information.\n", name)
	return 2
}

func parseMode(args []string) (Mode, []string) {
	if len(args) > 1 {
		switch m := Mode(args[1]); m {
		case ModeCheck, ModeRender, ModeProbe:
			return m, append([]string{args[0]}, args[2:]...)
		}
	}
	return ModeCheck, args
}

func (cmd *IsdownCommand) ParseArgs(args []string) (exitCode int) {
	cmd.Mode, args = parseMode(args)

	flags := pflag.NewFlagSet("isdown", pflag.ContinueOnError)
	flags.Usage = func() {}

	flags.StringVar(&cmd.ConfigPath, "config", "", "Path to config file")
	history := flags.StringP("history", "f", "", "Path to history file")
	output := flags.StringP("output", "o", "", "Path to status page")
	jsonOutput := flags.String("json-output", "", "Path to JSON status")
	textOutput := flags.String("text-output", "", "Path to text status")
	url := flags.String("url", "", "URL for HTTP probe")
	host := flags.String("host", "", "Host for SSH port and ping probes")
	port := flags.Int("port", 0, "SSH port number")
	retention := flags.Int("retention-days", 0, "Days to keep history")
	tlsVerify := flags.Bool("tls-verify", false, "Verify certificate in HTTP probe")
	logDir := flags.String("log-dir", "", "Directory for log file")
	logLevel := flags.String("log-level", "", "Log level")
	failOnDown := flags.Bool("fail-on-down", false, "Exit with 1 if the host is down")
	flags.BoolVarP(&cmd.ShowVersion, "version", "v", false, "Show version")
	flags.BoolVarP(&cmd.ShowHelp, "help", "h", false, "Show help message")

	if err := flags.Parse(args[1:]); err != nil {
		return cmd.usageError(args[0], err)
	}

	if cmd.ShowVersion || cmd.ShowHelp {
		return 0
	}

	if flags.NArg() > 0 {
		fmt.Fprintf(cmd.ErrStream, "unknown command: %s\n\n", flags.Arg(0))
		cmd.PrintUsage(false)
		return 2
	}

	cfg, err := config.Load(config.LoadOptions{
		File:    cmd.ConfigPath,
		EnvFile: cmd.EnvFile,
		Getenv:  cmd.Getenv,
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: %s\n", err)
		return 2
	}

	setString := func(name string, p *string, value string) {
		if flags.Changed(name) {
			*p = value
		}
	}
	setString("history", &cfg.History, *history)
	setString("output", &cfg.Output, *output)
	setString("json-output", &cfg.JSONOutput, *jsonOutput)
	setString("text-output", &cfg.TextOutput, *textOutput)
	setString("url", &cfg.URL, *url)
	setString("host", &cfg.Host, *host)
	setString("log-dir", &cfg.LogDir, *logDir)
	setString("log-level", &cfg.LogLevel, *logLevel)
	if flags.Changed("port") {
		cfg.SSHPort = *port
	}
	if flags.Changed("retention-days") {
		cfg.RetentionDays = retention
	}
	if flags.Changed("tls-verify") {
		cfg.TLSVerify = *tlsVerify
	}
	if flags.Changed("fail-on-down") {
		cfg.FailOnDown = *failOnDown
	}

	if err := cfg.Validate(); err != nil {
		return cmd.usageError(args[0], err)
	}

	cmd.Config = cfg

	return 0
}

func (cmd *IsdownCommand) PrintVersion() {
	fmt.Fprintf(cmd.OutStream, "isdown version %s (%s)\n", meta.Version, meta.Commit)
}

func (cmd *IsdownCommand) newMonitor() (*monitor.Monitor, *zap.Logger, error) {
	logger, err := logging.New(logging.Options{
		Level:   cmd.Config.LogLevel,
		Dir:     cmd.Config.LogDir,
		Console: cmd.ErrStream,
		Color:   logging.IsTerminal(cmd.ErrStream),
	})
	if err != nil {
		return nil, nil, err
	}

	var probes scheme.ProbeSet
	if cmd.Probes != nil {
		probes = *cmd.Probes
	} else {
		probes, err = monitor.NewProbeSet(cmd.Config)
		if err != nil {
			return nil, logger, err
		}
	}

	var opts []monitor.Option
	if cmd.Now != nil {
		opts = append(opts, monitor.WithClock(cmd.Now))
	}

	return monitor.New(cmd.Config, probes, logger, opts...), logger, nil
}

func (cmd *IsdownCommand) Run(args []string) (exitCode int) {
	if code := cmd.ParseArgs(args); code != 0 {
		return code
	}

	if cmd.ShowVersion {
		cmd.PrintVersion()
		return 0
	}

	if cmd.ShowHelp {
		cmd.PrintUsage(true)
		return 0
	}

	m, logger, err := cmd.newMonitor()
	if logger != nil {
		defer logger.Sync()
	}
	if err != nil {
		fmt.Fprintf(cmd.ErrStream, "error: %s\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd.Mode {
	case ModeRender:
		return cmd.RunRender(ctx, m)
	case ModeProbe:
		return cmd.RunProbe(ctx, m)
	default:
		return cmd.RunCheck(ctx, m)
	}
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "export" {
		os.Exit(defaultExportCommand.Run(os.Args))
	}

	os.Exit(defaultIsdownCommand.Run(os.Args))
}
