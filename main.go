package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/GiGurra/boa/pkg/boa"

	"github.com/gigurra/kz-statements/internal"
	"github.com/gigurra/kz-statements/internal/banks"
	"github.com/gigurra/kz-statements/internal/statement"
)

type Params struct {
	Path       string   `descr:"Data directory with one folder per bank, a single statement file, or - for stdin. A format prefix (kaspi-statement:file.xlsx) forces that format" positional:"true" optional:"true"`
	OutputDir  string   `descr:"Directory for JSON, CSV and XLSX outputs (default from config: output)" optional:"true"`
	Config     string   `descr:"Config file path (default: ~/.kz-statements/config.yaml)" optional:"true"`
	Workers    int      `descr:"Files processed in parallel (default: number of CPUs)" optional:"true"`
	Format     string   `descr:"Force a format id instead of detecting it (see --formats)" optional:"true"`
	Exports    []string `descr:"Combined outputs to write" alts:"json,csv,xlsx" optional:"true"`
	Formats    bool     `descr:"List supported formats in detection order and exit" optional:"true"`
	InitConfig bool     `descr:"Write the effective config to the config path and exit" optional:"true"`
	LogLevel   string   `descr:"Log level (default from config: info)" alts:"debug,info,warn,error" optional:"true"`
	Folder     string   `descr:"Bank folder hint for single-file and stdin mode (default: parent directory name)" optional:"true"`
	Name       string   `descr:"File name of the statement read from stdin" optional:"true"`
}

func main() {
	boa.NewCmdT[Params]("kz-statements").
		WithShort("Normalize Kazakh bank statements into one transaction format").
		WithLong("Detects the bank layout of .xlsx/.xls statements (33 formats from Kaspi, Halyk, Forte, BCC and others), extracts every transaction into a unified record and writes per-file JSON, a combined JSON/CSV/XLSX export and a parse report.").
		WithRunFunc(func(params *Params) {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			if err := run(ctx, params, os.Stdin, os.Stdout, os.Stderr); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}).
		Run()
}

// run executes one CLI invocation. It returns an error only for setup
// problems; files that fail to parse are reported, not returned.
func run(ctx context.Context, params *Params, stdin io.Reader, stdout, stderr io.Writer) error {
	if params.Formats {
		internal.PrintFormatsTable(stdout, banks.Registry())
		return nil
	}

	cfg, cfgPath, err := loadConfig(params)
	if err != nil {
		return err
	}

	if params.InitConfig {
		if cfgPath == "" {
			return errors.New("no config path: pass --config")
		}
		if err := cfg.Save(cfgPath); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Config written to %s\n", cfgPath)
		return nil
	}

	log, err := internal.NewLogger(cfg.LogLevel, stderr)
	if err != nil {
		return err
	}
	internal.DetectDisplayLocale()

	formatID, path := banks.SplitFormatArg(params.Path)
	if params.Format != "" {
		formatID = params.Format
	}
	job := internal.Job{Folder: params.Folder}
	if formatID != "" {
		if job.Format, err = banks.Lookup(formatID); err != nil {
			return err
		}
	}

	proc := internal.NewProcessor(cfg, log)

	var batch *internal.Batch
	switch {
	case path == "-":
		name := params.Name
		if name == "" {
			name = "upload.xlsx"
		}
		res := proc.ProcessUpload(name, stdin, job)
		batch = internal.NewBatch([]*statement.Result{res})
	default:
		if path == "" {
			path = cfg.DataDir
		}
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("input not found: %s", path)
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		var jobs []internal.Job
		if info.IsDir() {
			if jobs, err = internal.Discover(path, cfg); err != nil {
				return err
			}
			if job.Format != nil {
				for i := range jobs {
					jobs[i].Format = job.Format
				}
			}
			log.Info("Discovered files", "dir", path, "files", len(jobs))
		} else {
			job.Path = path
			if job.Folder == "" {
				job.Folder = filepath.Base(filepath.Dir(path))
			}
			jobs = []internal.Job{job}
		}
		batch = proc.ProcessAll(ctx, jobs)
	}

	written, err := internal.WriteOutputs(cfg.OutputDir, batch, cfg)
	if err != nil {
		return fmt.Errorf("writing outputs: %w", err)
	}
	log.Info("Outputs written", "dir", cfg.OutputDir, "files", len(written))

	internal.PrintReportTable(stdout, batch)
	return nil
}

// loadConfig resolves the config file and applies command line overrides
// on top of it. Flags win over the environment, which wins over the file.
func loadConfig(params *Params) (*internal.Config, string, error) {
	path, explicit := params.Config, params.Config != ""
	if !explicit {
		path = internal.DefaultConfigPath()
	}

	cfg, err := internal.LoadConfig(path, explicit && !params.InitConfig)
	if err != nil {
		return nil, "", err
	}

	if params.OutputDir != "" {
		cfg.OutputDir = params.OutputDir
	}
	if params.Workers > 0 {
		cfg.Workers = params.Workers
	}
	if len(params.Exports) > 0 {
		cfg.Exports = params.Exports
	}
	if params.LogLevel != "" {
		cfg.LogLevel = params.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}
