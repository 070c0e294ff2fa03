package common

import (
	"net/http"

	"github.com/futig/interview-backend/internal/config"
	pkgHTTP "github.com/futig/interview-backend/pkg/http"
	"go.uber.org/zap"
)

// NewBaseConnector builds a JSON connector for cfg.Url with bearer auth and request logging.
func NewBaseConnector(cfg config.HTTPClientConfig, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: cfg.Url,
	}

	opts := append(transportOptions(cfg), pkgHTTP.WithAuthToken(cfg.Token))
	return pkgHTTP.NewConnector(connCfg, opts...)
}

// NewSDKClient builds a plain client for SDKs that authenticate on their own.
// It keeps the configured timeouts and request logging.
func NewSDKClient(cfg config.HTTPClientConfig) *http.Client {
	return pkgHTTP.NewClient(transportOptions(cfg)...)
}

const userAgent = "interview-backend"

func transportOptions(cfg config.HTTPClientConfig) []pkgHTTP.HttpOpts {
	return []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithUserAgent(userAgent),
	}
}
