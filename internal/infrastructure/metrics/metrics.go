package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MediaUploaded       = "media_uploaded_total"
	MediaClaimed        = "media_claimed_total"
	MediaClaimRollbacks = "media_claim_rollbacks_total"
	MediaDeleted        = "media_deleted_total"
	MediaSweptExpired   = "media_swept_expired_total"
	MediaSweptOrphans   = "media_swept_orphans_total"
	PostsCreated        = "posts_created_total"
	PostsUpdated        = "posts_updated_total"
	PostsDeleted        = "posts_deleted_total"
	UsersCreated        = "users_created_total"
	UsersDeleted        = "users_deleted_total"
	SessionsCreated     = "sessions_created_total"
	EventsDropped       = "events_dropped_total"
	AppRequests         = "app_requests_total"
)

// NewCounter registers the service counter vector on the default registry.
func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(opts(), []string{"result"})
}

// NewUnregisteredCounter is NewCounter for tests and one-shot jobs that must
// not touch the default registry.
func NewUnregisteredCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(opts(), []string{"result"})
}

func opts() prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: "socialmedia",
		Name:      "general_counters",
	}
}
