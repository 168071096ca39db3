package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/josephgoksu/qutimport/internal/miranda"
	"github.com/josephgoksu/qutimport/models"
	"github.com/josephgoksu/qutimport/types"
	"github.com/spf13/viper"
)

const (
	configName = ".qutimport"
	envPrefix  = "QUTIMPORT"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// validate is a single instance of Validate, it caches struct info
var validate = validator.New()

// setDefaults registers the value of every key that has one.
func setDefaults() {
	viper.SetDefault("timezone", "Local")
	viper.SetDefault("encoding", "utf-8")
	viper.SetDefault("history.dir", "history")
	viper.SetDefault("lostChains.account", miranda.DefaultLostAccount)
	viper.SetDefault("lostChains.discard", []string{"IRC"})
	viper.SetDefault("lostChains.fixedPoint", false)
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(envPrefix) // e.g., QUTIMPORT_TIMEZONE
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults()

	cfgFileFlag := viper.GetString("config")
	if cfgFileFlag != "" {
		viper.SetConfigFile(cfgFileFlag)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	} else {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && cfgFileFlag == "":
			if viper.GetBool("verbose") {
				fmt.Fprintln(os.Stderr, "No config file found. Using defaults and environment variables.")
			}
		case cfgFileFlag != "" && os.IsNotExist(err):
			HandleFatalError("Specified config file not found: "+cfgFileFlag, err)
		default:
			HandleFatalError("Error reading config file "+viper.ConfigFileUsed(), err)
		}
	}

	if err := loadConfig(&GlobalAppConfig); err != nil {
		HandleFatalError("Configuration is invalid. Run with --verbose for details.", err)
	}
}

// loadConfig unmarshals viper's merged settings into config and validates them.
func loadConfig(config *types.AppConfig) error {
	if err := viper.Unmarshal(config); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if _, err := config.Location(); err != nil {
		return err
	}
	if _, err := discardProtocols(config.LostChains.Discard); err != nil {
		return err
	}
	return nil
}

// GetConfig returns a pointer to the global types.AppConfig instance.
func GetConfig() *types.AppConfig {
	return &GlobalAppConfig
}

// discardProtocols maps configured module tags to protocols.
func discardProtocols(tags []string) ([]models.Protocol, error) {
	out := make([]models.Protocol, 0, len(tags))
	for _, tag := range tags {
		p, err := models.ParseProtocol(tag)
		if err != nil {
			return nil, fmt.Errorf("lostChains.discard: %w", err)
		}
		out = append(out, p)
	}
	return out, nil
}

// location resolves the configured timezone.
func location() *time.Location {
	loc, err := GetConfig().Location()
	if err != nil {
		return time.Local
	}
	return loc
}
