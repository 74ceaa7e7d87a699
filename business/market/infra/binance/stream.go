package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/bmino/binance-triangle-arbitrage-sub000/business/market/app"
	"github.com/bmino/binance-triangle-arbitrage-sub000/business/market/domain"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/logger"
	"github.com/bmino/binance-triangle-arbitrage-sub000/internal/wsconn"
)

// StreamConfig configures the depth stream connection.
type StreamConfig struct {
	// WebSocketURL is the stream endpoint base, e.g.
	// wss://stream.binance.com:9443.
	WebSocketURL string

	// DepthSpeedMs is the partial depth update cadence, 100 or 1000.
	DepthSpeedMs int

	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Stream delivers partial depth snapshots over the combined streams
// endpoint. Every event replaces the previous snapshot wholesale; the
// receipt time becomes the snapshot's event time.
type Stream struct {
	cfg    StreamConfig
	log    logger.LoggerInterface
	client *wsconn.Client

	updates     metric.Int64Counter
	parseErrors metric.Int64Counter
}

// NewStream creates a depth stream. Subscribe must be called before any
// snapshots are delivered.
func NewStream(cfg StreamConfig, log logger.LoggerInterface) *Stream {
	if cfg.DepthSpeedMs != 1000 {
		cfg.DepthSpeedMs = 100
	}

	meter := otel.Meter("market.stream")
	updates, _ := meter.Int64Counter("market_depth_updates_total",
		metric.WithDescription("Depth snapshots applied to the cache."))
	parseErrors, _ := meter.Int64Counter("market_depth_parse_errors_total",
		metric.WithDescription("Depth payloads dropped as unparseable."))

	return &Stream{
		cfg:         cfg,
		log:         log,
		updates:     updates,
		parseErrors: parseErrors,
	}
}

// Subscribe connects to the combined partial depth streams of the given
// symbols and forwards each snapshot to handler. The reader runs until the
// context is canceled or Close is called; disconnects reconnect with
// backoff and the book simply goes stale in between.
func (s *Stream) Subscribe(ctx context.Context, symbols []string, handler app.DepthHandler) error {
	streams := make([]string, len(symbols))
	for i, sym := range symbols {
		streams[i] = fmt.Sprintf("%s@depth20@%dms", strings.ToLower(sym), s.cfg.DepthSpeedMs)
	}
	url := s.cfg.WebSocketURL + "/stream?streams=" + strings.Join(streams, "/")

	conf := wsconn.DefaultConfig(url)
	if s.cfg.InitialBackoff > 0 {
		conf.InitialBackoff = s.cfg.InitialBackoff
	}
	if s.cfg.MaxBackoff > 0 {
		conf.MaxBackoff = s.cfg.MaxBackoff
	}

	s.client = wsconn.New(conf)
	s.client.OnStateChange(func(state wsconn.State, err error) {
		if err != nil {
			s.log.Warn(ctx, "depth stream state change", "state", string(state), "error", err.Error())
			return
		}
		s.log.Info(ctx, "depth stream state change", "state", string(state))
	})

	if err := s.client.Connect(ctx); err != nil {
		return err
	}
	s.log.Info(ctx, "depth stream connected", "streams", len(streams))

	go s.consume(ctx, handler)
	return nil
}

// Connected reports whether the underlying connection is up.
func (s *Stream) Connected() bool {
	return s.client != nil && s.client.IsConnected()
}

// Close tears down the stream connection.
func (s *Stream) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Stream) consume(ctx context.Context, handler app.DepthHandler) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-s.client.Messages():
			if !ok {
				return
			}
			snap, err := s.parse(data)
			if err != nil {
				s.parseErrors.Add(ctx, 1)
				s.log.Warn(ctx, "dropping depth event", "error", err.Error())
				continue
			}
			s.updates.Add(ctx, 1)
			handler(snap)
		}
	}
}

func (s *Stream) parse(data []byte) (*domain.DepthSnapshot, error) {
	var ev combinedStreamEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	var payload partialDepthPayload
	if err := json.Unmarshal(ev.Data, &payload); err != nil {
		return nil, err
	}

	bids, err := parseLevels(payload.Bids)
	if err != nil {
		return nil, err
	}
	asks, err := parseLevels(payload.Asks)
	if err != nil {
		return nil, err
	}

	return &domain.DepthSnapshot{
		Symbol:    symbolFromStream(ev.Stream),
		Bids:      bids,
		Asks:      asks,
		EventTime: time.Now(),
	}, nil
}
