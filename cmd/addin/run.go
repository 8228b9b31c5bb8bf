package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/native-addin/wasmhost"
)

var runCmd = &cobra.Command{
	Use:   "run <module.wasm> [args...]",
	Short: "Run a WebAssembly guest with the add-in host module",
	Long: `run instantiates a core WebAssembly module whose "addin" imports are
served by the bundled classes. WASI preview1 is available for the guest's own
I/O. The module's _start export runs with the remaining arguments.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runGuest(ctx, args[0], args[1:])
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runGuest(ctx context.Context, path string, args []string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read module: %w", err)
	}

	lib, err := newLibrary()
	if err != nil {
		return err
	}

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCloseOnContextDone(true))
	defer rt.Close(ctx)

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, rt); err != nil {
		return fmt.Errorf("instantiate wasi: %w", err)
	}

	host := wasmhost.New(lib, wasmhost.WithLogger(log.Named("wasmhost")))
	defer func() {
		if err := host.Close(); err != nil {
			log.Warn("close host", zap.Error(err))
		}
	}()
	if _, err := host.Instantiate(ctx, rt); err != nil {
		return err
	}

	compiled, err := rt.CompileModule(ctx, data)
	if err != nil {
		return fmt.Errorf("compile module: %w", err)
	}

	cfg := wazero.NewModuleConfig().
		WithName(path).
		WithArgs(append([]string{path}, args...)...).
		WithStdout(os.Stdout).
		WithStderr(os.Stderr).
		WithStdin(os.Stdin).
		WithSysWalltime().
		WithSysNanotime()

	log.Debug("running guest", zap.String("module", path), zap.Strings("args", args))

	mod, err := rt.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		var exit *sys.ExitError
		if errors.As(err, &exit) {
			if exit.ExitCode() == 0 {
				return nil
			}
			return fmt.Errorf("module exited with code %d", exit.ExitCode())
		}
		return fmt.Errorf("run module: %w", err)
	}
	return mod.Close(ctx)
}
