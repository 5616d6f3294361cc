// Package config registers every playtrail setting and wires viper to the
// config file and the environment.
package config

import (
	"errors"
	"strings"

	"github.com/playtrail/playtrail/constant"
	"github.com/playtrail/playtrail/filesystem"
	"github.com/playtrail/playtrail/where"
	"github.com/spf13/viper"
)

// EnvKeyReplacer turns a key into the suffix of its environment variable.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// Setup loads defaults, binds environment variables and reads the config
// file if there is one.
func Setup() error {
	viper.SetFs(filesystem.API())
	viper.SetConfigName(constant.Playtrail)
	viper.SetConfigType("toml")
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Playtrail)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	viper.SetTypeByDefaultValue(true)

	for _, field := range fields {
		viper.MustBindEnv(field.Key)
		viper.SetDefault(field.Key, field.Value)
	}

	var notFound viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
		return err
	}

	return nil
}
