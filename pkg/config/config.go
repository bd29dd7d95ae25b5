package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// NewConfig reads yaml configuration into cfg, with environment variables
// taking precedence over file values. Extra dirs are searched before the
// default locations, which allows pointing the server at a project directory.
func NewConfig(fileName, prefix string, cfg interface{}, dirs ...string) error {
	v := viper.New()
	v.SetConfigName(fileName)
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath("configs")
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// a missing file is fine, the environment may carry everything
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return err
	}
	return nil
}
