package context

// AppConfig is the config for the app
type AppConfig struct {
	Name    string
	URL     string
	BotName string `mapstructure:"bot-name"`
}

// DatabaseConfig is the database configuration
type DatabaseConfig struct {
	Host string `mapstructure:"hostname"`
	Port int
	User string `mapstructure:"username"`
	Pass string `mapstructure:"password"`
	Name string `mapstructure:"db"`
	Pool int
}

// HostConfig is the config for the server host
type HostConfig struct {
	Name          string
	Port          int
	HTTPSEnabled  bool   `mapstructure:"https-enabled"`
	HTTPSCacheDir string `mapstructure:"https-cache-dir"`
}

// RewardsConfig holds the currency constants of the reward economy.
// Values are configuration, not code; defaults mirror the production bot.
type RewardsConfig struct {
	ReferralBonus int64 `mapstructure:"referral-bonus"`
	MinTaskReward int64 `mapstructure:"min-task-reward"`
	MaxTaskReward int64 `mapstructure:"max-task-reward"`
}

// PaymentConfig is the config for the external payment channel
type PaymentConfig struct {
	// StarsExchangeRate is the number of coins credited per Telegram Star.
	StarsExchangeRate int64 `mapstructure:"stars-exchange-rate"`
}

// Config contains all the config variables for the API server
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Host     HostConfig
	Rewards  RewardsConfig
	Payment  PaymentConfig
}

// APIContext stores the config for the API server
type APIContext struct {
	Config Config
}

// NewAPIContext creates a new API context
func NewAPIContext(config Config) APIContext {
	return APIContext{
		Config: config,
	}
}
