package config

import (
	"github.com/rshade/nutriboard/internal/logging"
)

// ToLoggingConfig converts the logging section for the logging package.
//
//   - Level and Format are copied directly
//   - A non-empty File switches Output to "file"
//   - Otherwise Output is "stderr"
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := logging.OutputStderr
	if lc.File != "" {
		output = logging.OutputFile
	}

	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// WithDebug returns a copy of the logging section forced to debug level,
// as the --debug flag does.
func (lc *LoggingConfig) WithDebug(debug bool) LoggingConfig {
	out := *lc
	if debug {
		out.Level = "debug"
	}
	return out
}
