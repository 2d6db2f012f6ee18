package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"screenshop/internal/capture"
	"screenshop/internal/config"
	"screenshop/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "screenshot",
		Short:         "Capture storefront screenshots for upload",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newCaptureCmd())
	return root
}

func newCaptureCmd() *cobra.Command {
	var (
		label      string
		timeout    time.Duration
		controlURL string
	)
	cmd := &cobra.Command{
		Use:   "capture <url> <output-dir>",
		Short: "Save desktop and mobile full-page screenshots of a URL",
		Long: `Render a page in headless Chrome at 1440x900 and at 390x844 (mobile, 3x)
and write screenshot[-label].png and screenshot[-label]-mobile.png into output-dir.
The absolute path of each file is printed on its own line.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Location())
			defer func() { _ = log.Sync() }()

			c := capture.New(capture.Options{ControlURL: controlURL, Timeout: timeout, Log: log})
			paths, err := c.Capture(cmd.Context(), args[0], args[1], label)
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			if err != nil {
				log.Error("capture_failed", zap.String("url", args[0]), zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "suffix added to output file names")
	cmd.Flags().DurationVar(&timeout, "timeout", capture.DefaultTimeout, "navigation timeout per viewport")
	cmd.Flags().StringVar(&controlURL, "control-url", os.Getenv("CHROME_CONTROL_URL"), "DevTools websocket of a running Chrome")
	return cmd
}
