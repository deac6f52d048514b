package conf

import (
	"github.com/spf13/viper"
)

// setDefaultConfig sets the default configuration values to viper.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	// Main configuration
	viper.SetDefault("main.name", "BirdFinder-Go")
	viper.SetDefault("main.log.enabled", true)
	viper.SetDefault("main.log.path", "logs/birdfinder.log")
	viper.SetDefault("main.log.level", "info")

	// Region selection
	viper.SetDefault("region.id", "washtenaw")
	viper.SetDefault("region.dir", "regions")

	// eBird API configuration
	viper.SetDefault("ebird.apikey", "")
	viper.SetDefault("ebird.baseurl", "https://api.ebird.org/v2")
	viper.SetDefault("ebird.timeout", 30)
	viper.SetDefault("ebird.cachettl", 60)
	viper.SetDefault("ebird.ratelimitms", 100)
	viper.SetDefault("ebird.maxhotspots", 0)
	viper.SetDefault("ebird.minspecies", 0)

	// Migration analysis thresholds
	viper.SetDefault("analysis.valleyminlength", 4)
	viper.SetDefault("analysis.valleypeakratio", 0.15)
	viper.SetDefault("analysis.valleyabsolutefloor", 0.005)
	viper.SetDefault("analysis.timingpeakratio", 0.10)
	viper.SetDefault("analysis.timingabsolutefloor", 0.001)
	viper.SetDefault("analysis.minpeakfrequency", 0.005)
	viper.SetDefault("analysis.minweekspresence", 10)
	viper.SetDefault("analysis.lowpresenceweeks", 15)
	viper.SetDefault("analysis.seasonalvariationratio", 0.5)
	viper.SetDefault("analysis.residentboundaryratio", 0.20)
	viper.SetDefault("analysis.valleyseparationweeks", 12)

	// Output configuration
	viper.SetDefault("output.directory", "output")
	viper.SetDefault("output.indent", true)
}

// defaultConfigYAML is written out when no config file exists yet.
const defaultConfigYAML = `# BirdFinder-Go configuration

debug: false

main:
  name: BirdFinder-Go
  log:
    enabled: true
    path: logs/birdfinder.log
    level: info

region:
  id: washtenaw
  dir: regions

ebird:
  apikey: ""          # or set EBIRD_API_KEY in the environment
  baseurl: https://api.ebird.org/v2
  timeout: 30         # seconds
  cachettl: 60        # minutes
  ratelimitms: 100
  maxhotspots: 0      # 0 keeps all hotspots
  minspecies: 0       # drop hotspots below this species count

analysis:
  valleyminlength: 4
  valleypeakratio: 0.15
  valleyabsolutefloor: 0.005
  timingpeakratio: 0.10
  timingabsolutefloor: 0.001
  minpeakfrequency: 0.005
  minweekspresence: 10
  lowpresenceweeks: 15
  seasonalvariationratio: 0.5
  residentboundaryratio: 0.20
  valleyseparationweeks: 12

output:
  directory: output
  indent: true
`
