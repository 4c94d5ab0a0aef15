// Package logging builds the process-wide slog logger.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Writer: os.Stderr,
//	})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
// # Redaction
//
// Attributes whose key names a credential (token, secret, password,
// authorization, api_key) have their value replaced, and bearer tokens or
// Cloudflare/GitHub token shapes are masked inside any string value:
//
//	logger.Info("request", "authorization", "Bearer abc123")  // authorization=***
//	logger.Info("failed", "error", "token ghp_abcdef... rejected")  // ghp_***
//
// Logs go to stderr by default so stdout stays free for the progress
// rows and JSON output.
package logging
