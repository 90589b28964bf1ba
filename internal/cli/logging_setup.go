package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/nutriboard/internal/config"
	"github.com/rshade/nutriboard/internal/logging"
)

// setupLogging configures logging from the config file, environment and
// --debug, then stores the logger and a trace ID on the command's context.
func setupLogging(cmd *cobra.Command, cfg *config.Config, debug bool) logging.LogPathResult {
	loggingCfg := cfg.Logging.WithDebug(debug)
	if debug {
		loggingCfg.Format = logging.FormatConsole
		loggingCfg.File = ""
	}

	if loggingCfg.File != "" {
		if err := cfg.EnsureLogDir(); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	if result.UsingFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = result.Logger.WithContext(ctx)
	cmd.SetContext(ctx)

	log := logging.ComponentLogger(result.Logger, "cli")
	log.Info().Ctx(ctx).Str("command", cmd.CommandPath()).Str(logging.TraceIDField, traceID).Msg("command started")

	return result
}
