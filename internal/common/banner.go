package common

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and the effective listen address
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.PrintSimple("Magazine Studio", GetVersion())

	logger.Info().
		Str("version", GetFullVersion()).
		Str("address", fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)).
		Str("environment", config.Environment).
		Str("storage", config.Storage.Badger.Path).
		Msg("Magazine Studio starting")
}
