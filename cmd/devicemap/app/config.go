package app

import (
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/agentstation/devicemap"
	"github.com/agentstation/devicemap/pkg/constants"
	"github.com/agentstation/devicemap/pkg/errors"
)

// EnvPrefix is prepended to every environment variable derived from a config key.
const EnvPrefix = "DEVICEMAP"

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	IPFabric   IPFabricConfig
	NetBox     NetBoxConfig
	Thresholds devicemap.Thresholds
	Library    LibraryConfig

	ReportDir   string
	MetricsFile string
	RoleColors  map[string]string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// IPFabricConfig locates the discovery platform.
type IPFabricConfig struct {
	URL      string
	Token    string
	Limit    int
	Snapshot string
}

// NetBoxConfig locates the target NetBox instance.
type NetBoxConfig struct {
	URL       string
	Token     string
	Limit     int
	Branch    string
	RateLimit float64
}

// LibraryConfig locates the device-type library and its local mirror.
type LibraryConfig struct {
	Source string
	Branch string
	Path   string
}

// legacyEnv are the environment names used by earlier importer releases.
var legacyEnv = map[string][]string{
	"ipfabric.url":      {"ipfabricbaseurl", "IPFABRICBASEURL"},
	"ipfabric.token":    {"ipfabrictoken", "IPFABRICTOKEN"},
	"ipfabric.limit":    {"ipflimit", "IPFLIMIT"},
	"netbox.url":        {"netboxbaseurl", "NETBOXBASEURL"},
	"netbox.token":      {"netboxtoken", "NETBOXTOKEN"},
	"netbox.limit":      {"netboxlimit", "NETBOXLIMIT"},
	"library.source":    {"reposource", "REPOSOURCE"},
	"thresholds.vendor": {"vendornamesensitivity", "VENDORNAMESENSITIVITY"},
	"thresholds.model":  {"modelnamesensitivity", "modellnamesensitivity", "MODELNAMESENSITIVITY"},
	"thresholds.image":  {"deviceimagesensitivity", "DEVICEIMAGESENSITIVITY"},
	"thresholds.module": {"modulenamesensitivity", "modulelnamesensitivity", "MODULENAMESENSITIVITY"},
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later through UpdateFromFlags)
// 2. Environment variables (DEVICEMAP_*, then the legacy names)
// 3. .env files
// 4. Config file (configFile, or .devicemap.yaml in $HOME or the working directory)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".devicemap")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// An explicit file must exist; the search locations are optional.
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.NewConfigError("config", "failed to read config file", err)
		}
	}

	var numbers numericSettings
	numbers.read(v)
	if numbers.err != nil {
		return nil, numbers.err
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no-color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		IPFabric: IPFabricConfig{
			URL:      v.GetString("ipfabric.url"),
			Token:    v.GetString("ipfabric.token"),
			Limit:    numbers.int("ipfabric.limit"),
			Snapshot: v.GetString("ipfabric.snapshot"),
		},
		NetBox: NetBoxConfig{
			URL:       v.GetString("netbox.url"),
			Token:     v.GetString("netbox.token"),
			Limit:     numbers.int("netbox.limit"),
			Branch:    v.GetString("netbox.branch"),
			RateLimit: numbers.float("netbox.rate_limit"),
		},
		Thresholds: devicemap.Thresholds{
			Vendor: numbers.float("thresholds.vendor"),
			Model:  numbers.float("thresholds.model"),
			Module: numbers.float("thresholds.module"),
			Image:  numbers.float("thresholds.image"),
		},
		Library: LibraryConfig{
			Source: v.GetString("library.source"),
			Branch: v.GetString("library.branch"),
			Path:   v.GetString("library.path"),
		},
		ReportDir:   v.GetString("report.dir"),
		MetricsFile: v.GetString("metrics.textfile"),
		RoleColors:  v.GetStringMapString("roles.colors"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

var (
	floatKeys = []string{"thresholds.vendor", "thresholds.model", "thresholds.module", "thresholds.image", "netbox.rate_limit"}
	intKeys   = []string{"ipfabric.limit", "netbox.limit"}
)

// numericSettings parses numeric keys strictly. Viper's typed getters turn
// "0,9" or "high" into 0, which as a threshold would accept any candidate.
type numericSettings struct {
	floats map[string]float64
	ints   map[string]int
	err    error
}

func (n *numericSettings) read(v *viper.Viper) {
	n.floats = make(map[string]float64, len(floatKeys))
	n.ints = make(map[string]int, len(intKeys))
	for _, key := range floatKeys {
		f, err := cast.ToFloat64E(trimmed(v.Get(key)))
		if err != nil {
			n.err = errors.NewValidationError(key, v.Get(key), "not a number")
			return
		}
		n.floats[key] = f
	}
	for _, key := range intKeys {
		i, err := cast.ToIntE(trimmed(v.Get(key)))
		if err != nil {
			n.err = errors.NewValidationError(key, v.Get(key), "not an integer")
			return
		}
		n.ints[key] = i
	}
}

func (n *numericSettings) float(key string) float64 { return n.floats[key] }
func (n *numericSettings) int(key string) int       { return n.ints[key] }

func trimmed(value any) any {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return value
}

// Validate checks settings that make a run meaningless when wrong. The
// thresholds are checked first; an out-of-range value is a ValidationError.
func (c *Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if c.IPFabric.Limit <= 0 {
		return errors.NewValidationError("ipfabric.limit", c.IPFabric.Limit, "must be positive")
	}
	if c.NetBox.Limit <= 0 {
		return errors.NewValidationError("netbox.limit", c.NetBox.Limit, "must be positive")
	}
	if c.NetBox.RateLimit < 0 {
		return errors.NewValidationError("netbox.rate_limit", c.NetBox.RateLimit, "must not be negative")
	}
	return nil
}

// RequireRemotes reports a ConfigError when IP Fabric or NetBox is not configured.
func (c *Config) RequireRemotes() error {
	missing := []string{}
	for key, value := range map[string]string{
		"ipfabric.url":   c.IPFabric.URL,
		"ipfabric.token": c.IPFabric.Token,
		"netbox.url":     c.NetBox.URL,
		"netbox.token":   c.NetBox.Token,
	} {
		if value == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return errors.NewConfigError("remotes", "missing "+strings.Join(missing, ", "), nil)
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ipfabric.limit", constants.DefaultIPFabricPageSize)
	v.SetDefault("ipfabric.snapshot", constants.DefaultSnapshot)
	v.SetDefault("netbox.limit", constants.DefaultNetBoxPageSize)
	v.SetDefault("netbox.rate_limit", 0)
	v.SetDefault("thresholds.vendor", constants.DefaultThreshold)
	v.SetDefault("thresholds.model", constants.DefaultThreshold)
	v.SetDefault("thresholds.module", constants.DefaultThreshold)
	v.SetDefault("thresholds.image", constants.DefaultThreshold)
	v.SetDefault("library.source", constants.DeviceTypeLibraryGit)
	v.SetDefault("library.branch", constants.DefaultLibraryBranch)
	v.SetDefault("library.path", constants.DefaultLibraryPath)
	v.SetDefault("report.dir", constants.DefaultReportDir)
}

// bindLegacyEnv binds every key to its DEVICEMAP_ name followed by the legacy names.
func bindLegacyEnv(v *viper.Viper) error {
	for key, names := range legacyEnv {
		primary := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, primary}, names...)...); err != nil {
			return errors.NewConfigError("env", "failed to bind "+key, err)
		}
	}
	return nil
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded after .env; godotenv never overrides a variable
// that is already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
