package natsgath

import (
	"log/slog"

	"github.com/nats-io/nats.go"
	"github.com/programme-lv/labgrader/api"
	"github.com/programme-lv/labgrader/internal/gatherer"
	"github.com/programme-lv/labgrader/internal/grading"
)

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	PublishMsg(m *nats.Msg) error
}

type natsGatherer struct {
	*gatherer.Stream

	nc       Publisher
	subject  string
	compress bool
	log      *slog.Logger
}

var _ grading.Gatherer = (*natsGatherer)(nil)

// New creates a gatherer that publishes every grading event to subject.
func New(nc Publisher, subject string, compress bool, log *slog.Logger) *natsGatherer {
	if log == nil {
		log = slog.Default()
	}
	g := &natsGatherer{
		nc:       nc,
		subject:  subject,
		compress: compress,
		log:      log.With("sink", "nats", "subject", subject),
	}
	g.Stream = gatherer.NewStream(g.send)
	return g
}

// Connect dials the server with the options the grader always uses.
func Connect(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.Name("labgrader"),
		nats.MaxReconnects(5),
	)
}

func (s *natsGatherer) send(msgType api.MsgType, msg any) {
	b, err := api.Encode(msg, s.compress)
	if err != nil {
		s.log.Error("failed to encode message", "type", msgType, "err", err)
		return
	}

	m := nats.NewMsg(s.subject)
	m.Data = b
	m.Header.Set("Msg-Type", string(msgType))
	if s.compress {
		m.Header.Set("Content-Encoding", api.ContentEncodingSnappy)
	}
	if err := s.nc.PublishMsg(m); err != nil {
		s.log.Warn("failed to publish message", "type", msgType, "err", err)
	}
}
