package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/macrat/isdown/internal/atomicfile"
	"github.com/macrat/isdown/internal/config"
	"github.com/macrat/isdown/internal/logconv"
	"github.com/macrat/isdown/internal/logging"
	"github.com/macrat/isdown/internal/store"
	"github.com/spf13/pflag"
)

type ExportCommand struct {
	OutStream io.Writer
	ErrStream io.Writer

	// Getenv looks up environment variables. Nil means os.LookupEnv.
	Getenv config.Getenv

	// EnvFile is the dotenv file. Empty means config.DefaultEnvFile.
	EnvFile string

	// Now is used as the creation time of XLSX. Nil means time.Now.
	Now func() time.Time
}

var defaultExportCommand = &ExportCommand{
	OutStream: os.Stdout,
	ErrStream: os.Stderr,
}

const ExportHelp = `isdown export -- Export history for reporting

Usage: isdown export [OPTIONS...]

Options:
      --config  Path to the YAML config file.
  -f, --history Path to the history file. (default history.json)
  -o, --output  Output file. (default stdout)

  -c, --csv     Export as CSV. (default format)
  -j, --json    Export as JSON lines.
  -l, --ltsv    Export as LTSV.
  -x, --xlsx    Export as XLSX.

  -h, --help    Show this help message and exit.

The history file is never modified.
`

func (c ExportCommand) Run(args []string) int {
	flags := pflag.NewFlagSet("isdown export", pflag.ContinueOnError)
	flags.Usage = func() {}

	configPath := flags.String("config", "", "Path to config file")
	historyPath := flags.StringP("history", "f", "", "Path to history file")
	outputPath := flags.StringP("output", "o", "", "Output file")

	toCsv := flags.BoolP("csv", "c", false, "Export as CSV")
	toJson := flags.BoolP("json", "j", false, "Export as JSON lines")
	toLtsv := flags.BoolP("ltsv", "l", false, "Export as LTSV")
	toXlsx := flags.BoolP("xlsx", "x", false, "Export as XLSX")

	help := flags.BoolP("help", "h", false, "Show this message and exit")

	if err := flags.Parse(args[2:]); err != nil {
		fmt.Fprintln(c.ErrStream, err)
		fmt.Fprintf(c.ErrStream, "\nPlease see `%s %s -h` for more information.\n", args[0], args[1])
		return 2
	}

	if *help {
		fmt.Fprint(c.OutStream, ExportHelp)
		return 0
	}

	if flags.NArg() > 0 {
		fmt.Fprintf(c.ErrStream, "error: unexpected argument: %s\n", flags.Arg(0))
		return 2
	}

	count := 0
	for _, b := range []bool{*toCsv, *toJson, *toLtsv, *toXlsx} {
		if b {
			count++
		}
	}
	if count > 1 {
		fmt.Fprintln(c.ErrStream, "error: flags for output format can not use multiple in the same time.")
		return 2
	}

	toOutput := *outputPath != "" && *outputPath != "-"
	if *toXlsx && !toOutput && logging.IsTerminal(c.OutStream) {
		fmt.Fprintln(c.ErrStream, "error: can not write xlsx format to stdout. please redirect or use -o option.")
		return 2
	}

	cfg, err := config.Load(config.LoadOptions{File: *configPath, EnvFile: c.EnvFile, Getenv: c.Getenv})
	if err != nil {
		fmt.Fprintf(c.ErrStream, "error: %s\n", err)
		return 2
	}
	if flags.Changed("history") {
		cfg.History = *historyPath
	}

	h, err := store.New(cfg.History).Load().History()
	if err != nil {
		fmt.Fprintf(c.ErrStream, "error: %s\n", err)
		return 1
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}

	write := func(w io.Writer) error {
		switch {
		case *toJson:
			return logconv.ToJSONLines(w, h)
		case *toLtsv:
			return logconv.ToLTSV(w, h)
		case *toXlsx:
			return logconv.ToXlsx(w, h, now())
		default:
			return logconv.ToCSV(w, h)
		}
	}

	if toOutput {
		err = atomicfile.WriteFile(*outputPath, 0644, write)
	} else {
		err = write(c.OutStream)
	}
	if err != nil {
		fmt.Fprintf(c.ErrStream, "error: failed to export history: %s\n", err)
		return 1
	}

	return 0
}

