package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Eventhood/Eventhood-backend/internal/models"
)

// CreateFAQTopic adds an FAQ topic. Topic names are unique.
func (s *Store) CreateFAQTopic(ctx context.Context, name string) (models.FAQTopic, error) {
	t := models.FAQTopic{Name: name}
	res, err := s.faqTopics.InsertOne(ctx, t)
	if err != nil {
		return models.FAQTopic{}, wrapWrite(err, "FAQ topic")
	}
	t.ID = res.InsertedID.(primitive.ObjectID)
	return t, nil
}

// FAQTopics lists all FAQ topics sorted by name.
func (s *Store) FAQTopics(ctx context.Context) ([]models.FAQTopic, error) {
	cur, err := s.faqTopics.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("listing FAQ topics: %w", err)
	}
	defer cur.Close(ctx)

	topics := []models.FAQTopic{}
	if err := cur.All(ctx, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// DeleteFAQTopic removes a topic by id; deleting a missing topic is a no-op.
func (s *Store) DeleteFAQTopic(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.faqTopics, id)
}

// CreateFAQQuestion adds a question under a topic. Question text is unique.
func (s *Store) CreateFAQQuestion(ctx context.Context, topic primitive.ObjectID, question, answer string) (models.FAQQuestion, error) {
	q := models.FAQQuestion{Topic: topic, Question: question, Answer: answer}
	res, err := s.faqQuestions.InsertOne(ctx, q)
	if err != nil {
		return models.FAQQuestion{}, wrapWrite(err, "FAQ question")
	}
	q.ID = res.InsertedID.(primitive.ObjectID)
	return q, nil
}

// FAQQuestions lists every question with its topic populated.
func (s *Store) FAQQuestions(ctx context.Context) ([]models.PopulatedFAQQuestion, error) {
	cur, err := s.faqQuestions.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "question", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("listing FAQ questions: %w", err)
	}
	defer cur.Close(ctx)

	var questions []models.FAQQuestion
	if err := cur.All(ctx, &questions); err != nil {
		return nil, err
	}

	topicIDs := make([]primitive.ObjectID, 0, len(questions))
	for _, q := range questions {
		topicIDs = append(topicIDs, q.Topic)
	}
	topics, err := s.faqTopicsByID(ctx, topicIDs)
	if err != nil {
		return nil, err
	}

	out := make([]models.PopulatedFAQQuestion, 0, len(questions))
	for _, q := range questions {
		p := models.PopulatedFAQQuestion{ID: q.ID, Question: q.Question, Answer: q.Answer}
		if t, ok := topics[q.Topic]; ok {
			p.Topic = &t
		}
		out = append(out, p)
	}
	return out, nil
}

// DeleteFAQQuestion removes a question by id; deleting a missing question is
// a no-op.
func (s *Store) DeleteFAQQuestion(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, s.faqQuestions, id)
}

func (s *Store) faqTopicsByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.FAQTopic, error) {
	topics := make(map[primitive.ObjectID]models.FAQTopic, len(ids))
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return topics, nil
	}

	cur, err := s.faqTopics.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("populating FAQ topics: %w", err)
	}
	defer cur.Close(ctx)

	var docs []models.FAQTopic
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, t := range docs {
		topics[t.ID] = t
	}
	return topics, nil
}
