package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Eventhood/Eventhood-backend/internal/models"
)

// CreateEventReport files a report against an event. Reports start unhandled.
func (s *Store) CreateEventReport(ctx context.Context, event, reportedBy, topic primitive.ObjectID, reason string) (models.EventReport, error) {
	r := models.EventReport{
		Event:      event,
		ReportedBy: reportedBy,
		Topic:      topic,
		Reason:     reason,
		ReportDate: time.Now().UTC(),
	}
	res, err := s.eventReports.InsertOne(ctx, r)
	if err != nil {
		return models.EventReport{}, wrapWrite(err, "event report")
	}
	r.ID = res.InsertedID.(primitive.ObjectID)
	return r, nil
}

// EventReports lists every report, newest first, populated.
func (s *Store) EventReports(ctx context.Context) ([]models.PopulatedEventReport, error) {
	opts := options.Find().SetSort(bson.D{{Key: "reportDate", Value: -1}})
	cur, err := s.eventReports.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing event reports: %w", err)
	}
	defer cur.Close(ctx)

	var reports []models.EventReport
	if err := cur.All(ctx, &reports); err != nil {
		return nil, err
	}

	eventIDs := make([]primitive.ObjectID, 0, len(reports))
	userIDs := make([]primitive.ObjectID, 0, len(reports))
	topicIDs := make([]primitive.ObjectID, 0, len(reports))
	for _, r := range reports {
		eventIDs = append(eventIDs, r.Event)
		userIDs = append(userIDs, r.ReportedBy)
		topicIDs = append(topicIDs, r.Topic)
	}

	events, err := s.eventSummaries(ctx, eventIDs)
	if err != nil {
		return nil, err
	}
	refs, err := s.userRefs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	topics, err := s.reportTopicsByID(ctx, topicIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.PopulatedEventReport, 0, len(reports))
	for _, r := range reports {
		p := models.PopulatedEventReport{
			ID:         r.ID,
			Reason:     r.Reason,
			Handled:    r.Handled,
			ReportDate: r.ReportDate,
		}
		if e, ok := events[r.Event]; ok {
			p.Event = &e
		}
		if ref, ok := refs[r.ReportedBy]; ok {
			p.ReportedBy = &ref
		}
		if t, ok := topics[r.Topic]; ok {
			p.Topic = &t
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *Store) reportTopicsByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.ReportTopic, error) {
	topics := make(map[primitive.ObjectID]models.ReportTopic, len(ids))
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return topics, nil
	}

	cur, err := s.reportTopics.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("populating report topics: %w", err)
	}
	defer cur.Close(ctx)

	var docs []models.ReportTopic
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, t := range docs {
		topics[t.ID] = t
	}
	return topics, nil
}

// CreateReportTopic adds a report topic. Topic names are unique.
func (s *Store) CreateReportTopic(ctx context.Context, name string) (models.ReportTopic, error) {
	t := models.ReportTopic{Name: name}
	res, err := s.reportTopics.InsertOne(ctx, t)
	if err != nil {
		return models.ReportTopic{}, wrapWrite(err, "report topic")
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return t, nil
}

// ReportTopics lists all report topics sorted by name.
func (s *Store) ReportTopics(ctx context.Context) ([]models.ReportTopic, error) {
	cur, err := s.reportTopics.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("listing report topics: %w", err)
	}
	defer cur.Close(ctx)

	topics := []models.ReportTopic{}
	if err := cur.All(ctx, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}
