package bitabletoolkit

import (
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/raywall/bitable-toolkit/config"
	"github.com/raywall/bitable-toolkit/field"
	"github.com/raywall/bitable-toolkit/logger"
	"github.com/raywall/bitable-toolkit/record"
	"github.com/raywall/bitable-toolkit/table"
	"github.com/raywall/bitable-toolkit/token"
	"github.com/raywall/bitable-toolkit/transport"
)

// Toolkit bundles the service facades of one Bitable app.
type Toolkit struct {
	Session *transport.Session
	Records *record.Service
	Tables  *table.Service
	Fields  *field.Service
	Tokens  *token.Cache
	Logger  zerolog.Logger
}

// New assembles a Toolkit from a validated configuration: transport client,
// token cache with the configured store backend and the three service
// facades, all sharing one logger.
func New(cfg *config.Config) (*Toolkit, error) {
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	log := logger.New(cfg.Logging)

	opts := []transport.Option{
		transport.WithHTTPClient(&http.Client{Timeout: cfg.Client.GetTimeout()}),
		transport.WithLogger(log),
	}
	if cfg.Client.BaseURL != "" {
		opts = append(opts, transport.WithBaseURL(cfg.Client.BaseURL))
	}
	client := transport.NewClient(opts...)

	var store token.Store
	if cfg.Token.Store == "redis" {
		store = token.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.Token.RedisAddr,
			Password: cfg.Token.RedisPassword,
			DB:       cfg.Token.RedisDB,
		}))
	} else {
		store = token.NewMemoryStore()
	}
	tokens := token.NewCache(client.FetchToken, token.WithStore(store), token.WithLogger(log))

	session := transport.NewSession(client, tokens, cfg.App.AppID, cfg.App.AppSecret, cfg.App.AppToken)
	return &Toolkit{
		Session: session,
		Records: record.NewService(session, log),
		Tables:  table.NewService(session, log),
		Fields:  field.NewService(session, log),
		Tokens:  tokens,
		Logger:  log,
	}, nil
}

// FromFile loads a YAML configuration and assembles a Toolkit from it.
func FromFile(path string) (*Toolkit, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}
