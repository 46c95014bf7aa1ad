// Package api serves the read side of a node over HTTP.
package api

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MinterTeam/minter-membership/core/code"
	"github.com/MinterTeam/minter-membership/core/events"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/handlers"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Blockchain is the part of host.App the API reads from.
type Blockchain interface {
	Height() uint64
	Time() time.Time
	AppHash() []byte
	QuerySmart(contract string, msg []byte) ([]byte, error)
}

type Service struct {
	blockchain Blockchain
	events     events.IEventsDB
	membership string
	version    string
	logger     log.Logger
}

func NewService(blockchain Blockchain, eventsDB events.IEventsDB, membership, version string, logger log.Logger) *Service {
	return &Service{blockchain: blockchain, events: eventsDB, membership: membership, version: version, logger: logger}
}

type Response struct {
	Code   uint32      `json:"code"`
	Result interface{} `json:"result,omitempty"`
	Log    string      `json:"log,omitempty"`
}

// Handler returns the routes wrapped with CORS.
func (s *Service) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequest)

	r.GET("/status", s.Status)
	r.GET("/is_member/:address", s.IsMember)
	r.GET("/events/:height", s.Events)

	return handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet}),
	)(r)
}

// Run serves the API on addr until ctx is done.
func (s *Service) Run(ctx context.Context, addr string) error {
	host, err := listenHost(addr)
	if err != nil {
		return err
	}

	srv := &http.Server{Addr: host, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("Starting API server", "addr", host)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Service) logRequest(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.Debug("request served", "path", c.Request.URL.Path, "status", c.Writer.Status(), "took", time.Since(start))
}

func (s *Service) fail(c *gin.Context, status int, err error) {
	c.JSON(status, Response{Code: code.Of(err), Log: err.Error()})
}

// listenHost accepts both "tcp://host:port" and "host:port".
func listenHost(addr string) (string, error) {
	if !strings.Contains(addr, "://") {
		return addr, nil
	}
	u, err := url.Parse(addr)
	if err != nil {
		return "", errors.Wrapf(err, "parse listen address %q", addr)
	}
	return u.Host, nil
}
