package common

import (
	"github.com/convrt/rag-backend/internal/config"
	pkgHTTP "github.com/convrt/rag-backend/pkg/http"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// NewBaseConnector builds an HTTP connector for baseURL. Requests are
// authorized from ts when it is set, otherwise with the static token from cfg.
func NewBaseConnector(cfg config.HTTPClientConfig, baseURL string, ts oauth2.TokenSource, logger *zap.Logger) *pkgHTTP.Connector {
	connCfg := &pkgHTTP.ConnectorConfig{
		Logger:  logger,
		BaseURL: baseURL,
	}

	opts := []pkgHTTP.HttpOpts{
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
	}

	if ts != nil {
		opts = append(opts, pkgHTTP.WithTokenSource(ts))
	} else {
		opts = append(opts, pkgHTTP.WithAuthToken(cfg.Token))
	}

	return pkgHTTP.NewConnector(connCfg, opts...)
}
