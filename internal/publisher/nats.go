package publisher

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Publisher announces rendered selections to downstream consumers.
type Publisher interface {
	PublishSelection(msg SelectionMessage) error
	Close()
}

type NATSPublisher struct {
	nc      *nats.Conn
	prefix  string
	metrics PublisherMetrics
	log     *zap.Logger
}

type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	PublishObserve(d time.Duration)
	NATSSetConnected(connected bool)
}

func NewNATSPublisher(url, prefix string, m PublisherMetrics, log *zap.Logger) (*NATSPublisher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	nc, err := nats.Connect(url,
		nats.Name("direktmap"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Info("nats reconnected", zap.String("url", c.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Info("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return &NATSPublisher{nc: nc, prefix: strings.TrimSuffix(prefix, "."), metrics: m, log: log}, nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
		p.nc.Close()
	}
}

// SelectionMessage describes one successfully rendered map layer.
type SelectionMessage struct {
	Origins     []string  `json:"origins"`
	Names       []string  `json:"names"`
	TrainTypes  string    `json:"trainTypes"`
	MaxDuration int       `json:"maxDuration,omitempty"`
	Query       string    `json:"query"`
	Features    int       `json:"features"`
	Timestamp   time.Time `json:"timestamp"`
}

func (p *NATSPublisher) PublishSelection(msg SelectionMessage) error {
	subject := Subject(p.prefix, msg.Origins)
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	p.log.Debug("nats publish", zap.String("subject", subject))
	start := time.Now()
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	return err
}

// Subject returns <prefix>.<origin>[_<origin>...] for the given origin ids.
func Subject(prefix string, origins []string) string {
	tokens := make([]string, 0, len(origins))
	for _, o := range origins {
		tokens = append(tokens, subjectToken(o))
	}
	last := "_"
	if len(tokens) > 0 {
		last = strings.Join(tokens, "_")
	}
	if prefix == "" {
		return last
	}
	return prefix + "." + last
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or trailing '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
