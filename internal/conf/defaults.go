// conf/defaults.go default values for settings
package conf

import (
	"github.com/spf13/viper"

	"github.com/tphakala/nutridri/internal/logger"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("logging.default_level", logger.DefaultLogLevel)
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", logger.DefaultConsoleEnabled)
	viper.SetDefault("logging.console.level", logger.DefaultLogLevel)
	viper.SetDefault("logging.file_output.enabled", logger.DefaultFileEnabled)
	viper.SetDefault("logging.file_output.path", logger.DefaultLogPath)
	viper.SetDefault("logging.file_output.level", "debug")

	viper.SetDefault("sources.units", "")
	viper.SetDefault("sources.nutrients", "data/src/NUTR_DEF.txt")
	viper.SetDefault("sources.unitmap", "data/src/dri_unit_map.csv")
	viper.SetDefault("sources.dri", []string{
		"data/src/dri_elements.csv",
		"data/src/dri_vitamins.csv",
		"data/src/dri_macro.csv",
	})

	viper.SetDefault("output.catalog", "data/prod/nutrient_lkup.csv")
	viper.SetDefault("output.reference", "data/prod/nutrient_ref_final.csv")

	viper.SetDefault("profile.sex", "female")
	viper.SetDefault("profile.age", 30)
}
