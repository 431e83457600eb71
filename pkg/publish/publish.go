// Package publish sends reports to NATS subscribers
package publish

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/mpapenbr/iracelog-gap-analysis/log"
	"github.com/mpapenbr/iracelog-gap-analysis/pkg/model"
)

const flushTimeout = 5 * time.Second

const (
	HeaderAnalysisID = "Iga-Analysis-Id"
	HeaderCacheKey   = "Iga-Cache-Key"
)

var ErrNoSubject = errors.New("publish subject is required")

type NatsPublisher struct {
	conn    *nats.Conn
	subject string
	l       *log.Logger
}

func NewNatsPublisher(conn *nats.Conn, subject string, l *log.Logger) (*NatsPublisher, error) {
	if subject == "" {
		return nil, ErrNoSubject
	}
	return &NatsPublisher{conn: conn, subject: subject, l: l.Named("publish")}, nil
}

// Publish sends the report as JSON and waits until the server received it.
// Without a deadline on ctx the wait is limited to flushTimeout.
func (p *NatsPublisher) Publish(ctx context.Context, rep *model.Report) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	msg := nats.NewMsg(p.subject)
	msg.Header.Set(HeaderAnalysisID, rep.ComparisonInfo.AnalysisID)
	msg.Header.Set(HeaderCacheKey, rep.ComparisonInfo.CacheKey)
	msg.Data = data
	if err := p.conn.PublishMsg(msg); err != nil {
		return err
	}
	p.l.Debug("report published",
		log.String("subject", p.subject),
		log.Int("bytes", len(data)))
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flushTimeout)
		defer cancel()
	}
	return p.conn.FlushWithContext(ctx)
}
