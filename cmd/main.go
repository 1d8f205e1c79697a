package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/mattn/go-isatty"
	"github.com/phuslu/log"
	"github.com/urfave/cli/v2"

	"github.com/knights-analytics/basicpitch"
	"github.com/knights-analytics/basicpitch/options"
)

var configPath string
var modelDir string
var libraryDirs cli.StringSlice
var sharedLibraryPath string
var verbose bool
var runtimeName string
var jsonOutput bool

// baseOptions are applied before the environment, the config file and the flags.
var baseOptions []options.WithOption

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:        "config",
		Usage:       "Path to a .yaml, .json or .toml configuration file",
		Aliases:     []string{"c"},
		Destination: &configPath,
	},
	&cli.StringFlag{
		Name:        "modelDir",
		Usage:       "Directory that contains saved_models/icassp_2022. Falls back to $" + options.EnvModelDir + ", then to the directory of this binary",
		Aliases:     []string{"m"},
		Destination: &modelDir,
	},
	&cli.StringSliceFlag{
		Name:        "libraryDir",
		Usage:       "Extra directory to search for runtime shared libraries (repeatable)",
		Aliases:     []string{"l"},
		Destination: &libraryDirs,
	},
	&cli.StringFlag{
		Name:        "onnxruntimeSharedLibrary",
		Usage:       "Path to libonnxruntime.so, libonnxruntime.dylib or onnxruntime.dll",
		Aliases:     []string{"s"},
		Destination: &sharedLibraryPath,
	},
	&cli.BoolFlag{
		Name:        "verbose",
		Usage:       "Log successful probes as well as failures",
		Destination: &verbose,
	},
}

var runtimeFlag = &cli.StringFlag{
	Name:        "runtime",
	Usage:       "Use this runtime (tf, coreml, tflite, onnx) instead of the detected default",
	Aliases:     []string{"r"},
	Destination: &runtimeName,
}

var detectCommand = &cli.Command{
	Name:  "detect",
	Usage: "Report which inference runtimes are installed and which model format is the default",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "Print the report as json",
			Destination: &jsonOutput,
		},
	},
	Action: func(ctx *cli.Context) error {
		cfg, err := resolve(ctx)
		if err != nil {
			return err
		}
		report := newDetectReport(cfg)
		if jsonOutput {
			b, err := jsoniter.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(ctx.App.Writer, string(b))
			return err
		}
		return report.write(ctx.App.Writer)
	},
}

var pathCommand = &cli.Command{
	Name:  "path",
	Usage: "Print the path of the model asset for the default runtime",
	Flags: []cli.Flag{runtimeFlag},
	Action: func(ctx *cli.Context) error {
		cfg, err := resolve(ctx)
		if err != nil {
			return err
		}
		modelPath, _, err := selectedModelPath(cfg)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(ctx.App.Writer, modelPath)
		return err
	},
}

var inspectCommand = &cli.Command{
	Name:  "inspect",
	Usage: "Check that the model asset for the default runtime is present and well formed",
	Flags: []cli.Flag{runtimeFlag},
	Action: func(ctx *cli.Context) error {
		cfg, err := resolve(ctx)
		if err != nil {
			return err
		}
		modelPath, kind, err := selectedModelPath(cfg)
		if err != nil {
			return err
		}
		info, err := basicpitch.InspectAsset(ctx.Context, modelPath, kind)
		if err != nil {
			return err
		}
		b, err := jsoniter.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(ctx.App.Writer, string(b))
		return err
	},
}

func newApp() *cli.App {
	return &cli.App{
		Name:     "basicpitch",
		Usage:    "Locate the Basic Pitch model for the inference runtimes installed on this host",
		Version:  basicpitch.Version,
		Flags:    globalFlags,
		Commands: []*cli.Command{detectCommand, pathCommand, inspectCommand},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// resolve collects options from the environment, the config file and the flags, in that order, so flags win.
func resolve(ctx *cli.Context) (*basicpitch.Config, error) {
	opts := append(append([]options.WithOption{}, baseOptions...), options.FromEnv()...)
	if configPath != "" {
		fileOpts, err := options.LoadFile(configPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fileOpts...)
	}
	if modelDir != "" {
		opts = append(opts, options.WithBaseDir(modelDir))
	}
	if dirs := libraryDirs.Value(); len(dirs) > 0 {
		opts = append(opts, options.WithLibraryDirs(dirs...))
	}
	if sharedLibraryPath != "" {
		opts = append(opts, options.WithOnnxLibraryPath(sharedLibraryPath))
	}
	opts = append(opts, options.WithLogger(newLogger(ctx.App.ErrWriter, verbose)))
	return basicpitch.Resolve(ctx.Context, opts...)
}

func selectedModelPath(cfg *basicpitch.Config) (string, basicpitch.RuntimeKind, error) {
	if runtimeName == "" {
		modelPath, err := cfg.DefaultModelPath()
		return modelPath, cfg.Default(), err
	}
	kind, err := basicpitch.ParseRuntimeKind(runtimeName)
	if err != nil {
		return "", basicpitch.RuntimeNone, err
	}
	modelPath, err := cfg.ModelPath(kind)
	return modelPath, kind, err
}

// newLogger writes human readable logs to a terminal and json otherwise.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return &log.Logger{
			Level:  level,
			Writer: &log.ConsoleWriter{ColorOutput: true},
		}
	}
	return &log.Logger{
		Level:  level,
		Writer: &log.IOWriter{Writer: w},
	}
}

type detectReport struct {
	Available basicpitch.AvailabilitySet `json:"available"`
	Default   basicpitch.RuntimeKind     `json:"default"`
	ModelPath string                     `json:"model_path,omitempty"`
	BaseDir   string                     `json:"base_dir"`
	Missing   map[string]string          `json:"missing,omitempty"`
}

func newDetectReport(cfg *basicpitch.Config) detectReport {
	report := detectReport{
		Available: cfg.Availability(),
		Default:   cfg.Default(),
		BaseDir:   cfg.BaseDir(),
		Missing:   map[string]string{},
	}
	if modelPath, err := cfg.DefaultModelPath(); err == nil {
		report.ModelPath = modelPath
	}
	for _, k := range basicpitch.Runtimes() {
		if err := cfg.ProbeError(k); err != nil {
			report.Missing[k.Name()] = err.Error()
		}
	}
	return report
}

func (r detectReport) write(w io.Writer) error {
	var sb strings.Builder
	for _, k := range basicpitch.Runtimes() {
		status := "available"
		if !r.Available.Has(k) {
			status = "missing: " + r.Missing[k.Name()]
		}
		fmt.Fprintf(&sb, "%-16s %-14s %s\n", k, k.Suffix(), status)
	}
	if r.Default == basicpitch.RuntimeNone {
		fmt.Fprintf(&sb, "default: none (%v)\n", basicpitch.ErrNoRuntime)
	} else {
		fmt.Fprintf(&sb, "default: %s -> %s\n", r.Default, r.ModelPath)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
