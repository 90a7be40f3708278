package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type DB struct {
	Host string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User string `yaml:"user" env:"DB_USER" env-required:"true"`
	Pass string `yaml:"password" env:"DB_PASS" env-required:"true"`
	Name string `yaml:"name" env:"DB_NAME" env-default:"flappy"`
	Ssl  string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
}

type HTTP struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:""`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
}

type Auth struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
}

// Game carries the verifier policy knobs; the scoring event set and the
// tolerance depend on the deployed client's mechanics.
type Game struct {
	ClientVersion  string        `yaml:"client_version" env:"CURRENT_CLIENT_VERSION" env-default:"1.0.0"`
	MinDuration    time.Duration `yaml:"min_duration" env:"GAME_MIN_DURATION" env-default:"5s"`
	MaxEventGap    time.Duration `yaml:"max_event_gap" env:"GAME_MAX_EVENT_GAP" env-default:"10s"`
	ScoreTolerance int           `yaml:"score_tolerance" env:"GAME_SCORE_TOLERANCE" env-default:"1"`
	ScoringEvents  []string      `yaml:"scoring_events" env:"GAME_SCORING_EVENTS" env-default:"PASS_PIPE"`
}

type Payment struct {
	MerchantNumber string `yaml:"merchant_number" env:"BKASH_MERCHANT_NUMBER" env-default:"01XXXXXXXXX"`
}

type SMTP struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     string `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User     string `yaml:"user" env:"SMTP_USER"`
	Pass     string `yaml:"password" env:"SMTP_PASS"`
	From     string `yaml:"from" env:"SMTP_FROM"`
	Receiver string `yaml:"receiver" env:"SMTP_RECEIVER"`
}

type Config struct {
	Env         string  `yaml:"env" env:"APP_ENV" env-default:"development"`
	FrontendURL string  `yaml:"frontend_url" env:"FRONTEND_URL" env-default:"https://flappy-bird-game.vercel.app"`
	DB          DB      `yaml:"postgres_db"`
	HTTP        HTTP    `yaml:"http"`
	Auth        Auth    `yaml:"auth"`
	Game        Game    `yaml:"game"`
	Payment     Payment `yaml:"payment"`
	SMTP        SMTP    `yaml:"smtp"`
}

// MustLoad reads CONFIG_PATH (yaml) when present, falling back to plain
// environment variables, and exits on any missing required value.
func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath != "" {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			log.Fatalf("config file %s does not exist", configPath)
		}
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			log.Fatal(err)
		}
		return &cfg
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatal(err)
	}
	return &cfg
}

// DSN renders the postgres connection string.
func (c *Config) DSN() string {
	return "user=" + c.DB.User + " password=" + c.DB.Pass + " dbname=" + c.DB.Name +
		" host=" + c.DB.Host + " port=" + c.DB.Port + " sslmode=" + c.DB.Ssl
}
