package natsclient

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sifan077/slugurl/config"
	"go.uber.org/zap"
)

const (
	defaultConnectTimeout = 5 * time.Second
	defaultReconnectWait  = 2 * time.Second
	clientName            = "slugurl"
)

// Connect creates a NATS connection (with JetStream available) using application config.
// Link events are best-effort, so the client keeps reconnecting in the background
// instead of failing publishers.
func Connect(cfg config.NATSConfig, log *zap.Logger) (*nats.Conn, nats.JetStreamContext, error) {
	if log == nil {
		log = zap.NewNop()
	}

	conn, err := nats.Connect(buildURL(cfg), options(cfg, log)...)
	if err != nil {
		return nil, nil, fmt.Errorf("nats: connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("nats: init jetstream: %w", err)
	}

	return conn, js, nil
}

func options(cfg config.NATSConfig, log *zap.Logger) []nats.Option {
	opts := []nats.Option{
		nats.Name(clientName),
		nats.Timeout(defaultConnectTimeout),
		nats.ReconnectWait(defaultReconnectWait),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("nats disconnected", zap.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
	}

	if cfg.User != "" {
		opts = append(opts, nats.UserInfo(cfg.User, cfg.Password))
	}
	return opts
}

func buildURL(cfg config.NATSConfig) string {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = nats.DefaultPort
	}
	return fmt.Sprintf("nats://%s:%d", host, port)
}
