package notify

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/camping-heater-rental/backend/internal/reservation"
	"github.com/camping-heater-rental/backend/internal/storage/models"
	"github.com/camping-heater-rental/backend/internal/websocket"
)

// DigestScheduler runs a daily job that finds rentals starting today,
// emails the admin a digest and broadcasts rental.starting events.
type DigestScheduler struct {
	cron        *cron.Cron
	service     *reservation.Service
	client      *Client
	broadcaster *websocket.EventBroadcaster
	schedule    string
}

// NewDigestScheduler creates the scheduler. client may be nil when
// email is not configured; hub may be nil in tests.
func NewDigestScheduler(service *reservation.Service, client *Client, hub *websocket.Hub, schedule string) *DigestScheduler {
	var broadcaster *websocket.EventBroadcaster
	if hub != nil {
		broadcaster = websocket.NewEventBroadcaster(hub)
	}

	return &DigestScheduler{
		cron:        cron.New(),
		service:     service,
		client:      client,
		broadcaster: broadcaster,
		schedule:    schedule,
	}
}

// Start registers the daily job and starts the cron runner.
func (s *DigestScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		s.RunDigest(context.Background(), models.Today())
	}); err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("Daily rental digest scheduled (%s)", s.schedule)
	return nil
}

// Stop stops the cron runner, waiting for a running job to finish.
func (s *DigestScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// RunDigest executes one digest pass for the given day.
func (s *DigestScheduler) RunDigest(ctx context.Context, day models.Date) {
	apps, err := s.service.ApplicationsStartingOn(ctx, day)
	if err != nil {
		log.Printf("Digest: listing applications failed: %v", err)
		return
	}
	if len(apps) == 0 {
		return
	}

	log.Printf("Digest: %d rental(s) starting on %s", len(apps), day)

	if s.broadcaster != nil {
		for i := range apps {
			s.broadcaster.BroadcastRentalStarting(&apps[i])
		}
	}

	if s.client != nil {
		if err := s.client.SendDigest(ctx, day, apps); err != nil {
			log.Printf("Digest: sending email failed: %v", err)
		}
	}
}
