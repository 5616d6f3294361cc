package navigator

import (
	"github.com/playtrail/playtrail/key"
	"github.com/spf13/viper"
)

// Configured returns the options selected by the playlist.* settings.
func Configured() []Option {
	options := []Option{WithExcludeMissing(viper.GetBool(key.PlaylistExcludeMissing))}

	if viper.IsSet(key.PlaylistGateSize) {
		options = append(options, WithGateSize(viper.GetInt(key.PlaylistGateSize)))
	}

	return options
}
