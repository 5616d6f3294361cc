package session

import (
	"time"

	"github.com/playtrail/playtrail/key"
	"github.com/spf13/viper"
)

// Configured returns the options selected by the player.* settings.
func Configured() []Option {
	var options []Option

	if viper.IsSet(key.PlayerSampleInterval) {
		options = append(options, WithInterval(time.Duration(viper.GetInt(key.PlayerSampleInterval))*time.Second))
	}

	if viper.IsSet(key.PlayerResumeThreshold) {
		options = append(options, WithResumeThreshold(viper.GetFloat64(key.PlayerResumeThreshold)))
	}

	return options
}
