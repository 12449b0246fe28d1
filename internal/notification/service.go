package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	authrepo "jobradar-backend/internal/auth/repository"
	catalogdomain "jobradar-backend/internal/catalog/domain"
	catalogusecase "jobradar-backend/internal/catalog/usecase"
	reportdomain "jobradar-backend/internal/report/domain"
	"jobradar-backend/pkg/fcm"

	"cloud.google.com/go/pubsub"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ReportNotifier pushes a summary of a completed daily run to every
// registered device
type ReportNotifier struct {
	fcmClient *fcm.Client
	tokenRepo authrepo.DeviceTokenRepository
	log       *zap.SugaredLogger
}

func NewReportNotifier(fcmClient *fcm.Client, tokenRepo authrepo.DeviceTokenRepository, log *zap.SugaredLogger) *ReportNotifier {
	return &ReportNotifier{
		fcmClient: fcmClient,
		tokenRepo: tokenRepo,
		log:       log.Named("notifier"),
	}
}

func (n *ReportNotifier) Deliver(ctx context.Context, report *reportdomain.DailyRunReport) {
	tokens, err := n.tokenRepo.ListTokens()
	if err != nil {
		n.log.Errorw("failed to load device tokens", "error", err)
		return
	}
	if len(tokens) == 0 {
		return
	}

	tokenStrings := make([]string, 0, len(tokens))
	for _, t := range tokens {
		tokenStrings = append(tokenStrings, t.Token)
	}

	title := fmt.Sprintf("Daily run %s complete", report.Date)
	body := fmt.Sprintf("%d messages ingested, %d job posts, %d channels ranked",
		report.MessagesIngested, report.JobMessages, len(report.Ranked))
	if shortfall := report.TotalShortfall(); shortfall > 0 {
		body += fmt.Sprintf(" (%d assignments short)", shortfall)
	}

	failedTokens, err := n.fcmClient.SendToDevices(ctx, tokenStrings, fcm.NotificationData{
		Title: title,
		Body:  body,
		Data: map[string]string{
			"type": "daily_run",
			"date": report.Date,
		},
	})
	if err != nil {
		n.log.Errorw("failed to send run notification", "error", err)
		return
	}
	n.log.Infow("sent run notification", "date", report.Date, "devices", len(tokens)-len(failedTokens))

	// Stale registrations are pruned as FCM reports them
	for _, token := range failedTokens {
		if err := n.tokenRepo.DeleteToken(token); err != nil {
			n.log.Warnw("failed to prune device token", "error", err)
		}
	}
}

// DiscoveredGroup is the wire shape of one group announcement on the
// discovery topic
type DiscoveredGroup struct {
	Name     string `json:"name"`
	Link     string `json:"link"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// DiscoverySubscriber feeds externally discovered groups into the catalog
// from a Pub/Sub subscription
type DiscoverySubscriber struct {
	pubsubClient *pubsub.Client
	catalog      catalogusecase.Catalog
	subName      string
	log          *zap.SugaredLogger
}

func NewDiscoverySubscriber(projectID, subName, credentialsFile string, catalog catalogusecase.Catalog, log *zap.SugaredLogger) (*DiscoverySubscriber, error) {
	ctx := context.Background()

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := pubsub.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %v", err)
	}

	return &DiscoverySubscriber{
		pubsubClient: client,
		catalog:      catalog,
		subName:      subName,
		log:          log.Named("discovery"),
	}, nil
}

func (s *DiscoverySubscriber) Start(ctx context.Context) {
	s.log.Infow("starting discovery subscriber", "subscription", s.subName)

	sub := s.pubsubClient.Subscription(s.subName)
	exists, err := sub.Exists(ctx)
	if err != nil {
		s.log.Errorw("failed to check subscription", "error", err)
		return
	}

	if !exists {
		topic := s.pubsubClient.Topic(s.subName)
		topicExists, err := topic.Exists(ctx)
		if err != nil {
			s.log.Errorw("failed to check topic", "error", err)
			return
		}
		if !topicExists {
			s.log.Warnw("discovery topic does not exist, subscriber disabled", "topic", s.subName)
			return
		}

		sub, err = s.pubsubClient.CreateSubscription(ctx, s.subName+"-sub", pubsub.SubscriptionConfig{
			Topic:       topic,
			AckDeadline: 10 * time.Second,
		})
		if err != nil {
			s.log.Errorw("failed to create subscription", "error", err)
			return
		}
		s.log.Infow("created discovery subscription", "subscription", s.subName+"-sub")
	}

	err = sub.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		s.handleMessage(ctx, msg)
		msg.Ack()
	})
	if err != nil && ctx.Err() == nil {
		s.log.Errorw("discovery subscriber stopped", "error", err)
	}
}

func (s *DiscoverySubscriber) handleMessage(ctx context.Context, msg *pubsub.Message) {
	var discovered DiscoveredGroup
	if err := json.Unmarshal(msg.Data, &discovered); err != nil {
		s.log.Warnw("failed to unmarshal discovery message", "error", err)
		return
	}
	if discovered.Link == "" {
		s.log.Warnw("discovery message missing link, ignored")
		return
	}

	group := &catalogdomain.Group{
		Name:     discovered.Name,
		Link:     discovered.Link,
		Category: discovered.Category,
		Priority: catalogdomain.Priority(discovered.Priority),
	}
	if _, err := s.catalog.AddDiscovered(ctx, []*catalogdomain.Group{group}); err != nil {
		s.log.Errorw("failed to add discovered group", "link", discovered.Link, "error", err)
	}
}
