package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/gokudragoo/stonepapersessior/server/utils"

	"github.com/caarlos0/env/v11"
	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
)

// Config do processo do peer, lida do ambiente (e de um .env opcional)
type Config struct {
	PeerID        string        `env:"SPS_PEER_ID"`
	NatsURL       string        `env:"NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	DataDir       string        `env:"SPS_DATA_DIR" envDefault:"./sps_data"`
	QueueTTL      time.Duration `env:"SPS_QUEUE_TTL" envDefault:"5m"`
	MailboxSize   int           `env:"SPS_MAILBOX_SIZE" envDefault:"64"`
	JournalRetain uint64        `env:"SPS_JOURNAL_RETAIN" envDefault:"1000"`
	CompactEvery  time.Duration `env:"SPS_COMPACT_EVERY" envDefault:"1m"`
	LogLevel      string        `env:"SPS_LOG_LEVEL" envDefault:"info"`
	LogJSON       bool          `env:"SPS_LOG_JSON" envDefault:"false"`
}

// ClientConfig é o que o cliente de terminal precisa
type ClientConfig struct {
	PeerID         string        `env:"SPS_PEER_ID"`
	NatsURL        string        `env:"NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	RequestTimeout time.Duration `env:"SPS_REQUEST_TIMEOUT" envDefault:"5s"`
}

// LoadDotEnv carrega os arquivos .env informados; arquivo ausente não é erro.
// Variáveis já definidas no ambiente têm prioridade.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func Load() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.PeerID == "" {
		cfg.PeerID = utils.NewPeerID()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := utils.ValidatePeerID(c.PeerID); err != nil {
		return fmt.Errorf("SPS_PEER_ID: %w", err)
	}
	if c.QueueTTL <= 0 {
		return fmt.Errorf("SPS_QUEUE_TTL must be positive, got %s", c.QueueTTL)
	}
	if c.MailboxSize <= 0 {
		return fmt.Errorf("SPS_MAILBOX_SIZE must be positive, got %d", c.MailboxSize)
	}
	if c.CompactEvery <= 0 {
		return fmt.Errorf("SPS_COMPACT_EVERY must be positive, got %s", c.CompactEvery)
	}
	if hclog.LevelFromString(c.LogLevel) == hclog.NoLevel {
		return fmt.Errorf("SPS_LOG_LEVEL: unknown level %q", c.LogLevel)
	}
	return nil
}

// Logger monta o logger raiz conforme SPS_LOG_LEVEL / SPS_LOG_JSON
func (c Config) Logger() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       "sps",
		Level:      hclog.LevelFromString(c.LogLevel),
		JSONFormat: c.LogJSON,
	})
}

func LoadClient() (ClientConfig, error) {
	cfg, err := env.ParseAs[ClientConfig]()
	if err != nil {
		return ClientConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		return ClientConfig{}, fmt.Errorf("SPS_REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	return cfg, nil
}
