package services

import (
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"socialmedia-api/internal/application/ports"
	"socialmedia-api/internal/domain/media"
	"socialmedia-api/internal/infrastructure/metrics"
	"socialmedia-api/internal/infrastructure/mq"
)

type (
	mediaEvent struct {
		MediaID media.ID     `json:"media_id"`
		Format  media.Format `json:"format,omitempty"`
		Owner   string       `json:"owner,omitempty"`
	}
	postEvent struct {
		PostID uuid.UUID  `json:"post_id"`
		Media  []media.ID `json:"media"`
	}
	userEvent struct {
		UserID uuid.UUID `json:"user_id"`
	}
)

// emit never blocks a request on the broker: a full buffer drops the event
// and counts it.
func emit(q ports.RabbitMQ, mCounter *prometheus.CounterVec, e mq.Event) {
	if q == nil {
		return
	}
	select {
	case q.GetInputChan() <- e:
	default:
		mCounter.WithLabelValues(metrics.EventsDropped).Inc()
	}
}
