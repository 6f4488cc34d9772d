// Command pickplace reads and writes shard scan logs, matches shard meshes
// and renders pick-and-place layouts.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/banshee-data/pickplace.report/internal/config"
	"github.com/banshee-data/pickplace.report/internal/fsutil"
	"github.com/banshee-data/pickplace.report/internal/monitoring"
	"github.com/banshee-data/pickplace.report/internal/scanlog"
	"github.com/banshee-data/pickplace.report/internal/timeutil"
)

// errReported marks a failure already printed from a report.
var errReported = errors.New("operation failed")

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	logFile    string
	verbose    bool

	cfg    *config.ToolConfig
	fs     fsutil.FileSystem
	clock  timeutil.Clock
	start  time.Time
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{fs: fsutil.OSFileSystem{}, clock: timeutil.RealClock{}}

	rootCmd := &cobra.Command{
		Use:   "pickplace",
		Short: "Pick-and-place tooling for scanned shards",
		Long: `pickplace works on scan folders produced by the shard scanning rig.

Each folder holds a log.yaml describing the ground plane and, per shard, its
plane, pick pose and mesh file. pickplace reads those logs, writes place
poses back into them, matches shard meshes against each other and renders
a top-down preview of the layout.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			monitoring.Logf("[pickplace] %s finished in %s", cmd.Name(), a.clock.Since(a.start))
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "JSON tool configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logFile, "log-file", "", "Write diagnostic logs to this rotated file instead of stderr")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(
		newReadCmd(a),
		newWriteCmd(a),
		newMatchCmd(a),
		newMeshCmd(a),
		newPreviewCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// setup loads the configuration and installs the logger.
func (a *app) setup() error {
	a.start = a.clock.Now()
	a.cfg = config.EmptyToolConfig()
	if a.configPath != "" {
		cfg, err := config.LoadToolConfig(a.configPath)
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	logger, err := buildLogger(a.logFile, a.verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	monitoring.SetLogger(logger.Sugar().Infof)
	return nil
}

// buildLogger logs at info level when verbose and warn otherwise. With a
// log file, output goes through a rotating writer.
func buildLogger(logFile string, verbose bool) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.InfoLevel
	}

	if logFile == "" {
		zcfg := zap.NewProductionConfig()
		zcfg.Encoding = "console"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zcfg.Level = zap.NewAtomicLevelAt(level)
		return zcfg.Build()
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	writer := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(writer), level)
	return zap.New(core), nil
}

// codec returns a scan log codec configured from the tool config.
func (a *app) codec() *scanlog.Codec {
	opts := append(a.cfg.CodecOptions(), scanlog.WithFileSystem(a.fs))
	return scanlog.NewCodec(opts...)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
