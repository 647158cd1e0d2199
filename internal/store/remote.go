package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/abacreative/admin-services/internal/models"
	"github.com/abacreative/admin-services/pkg/logger"
)

// Remote collection names. Row shapes are snake_case (see models rows).
const (
	ColUsers              = "admin_users"
	ColContactMessages    = "contact_messages"
	ColJoinUsApplications = "join_us_applications"
)

// MongoStore is the hosted-backend adapter. Read failures are logged and
// degrade to empty results; write failures are returned to the caller.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Name() string { return BackendRemote }

// Ping is the liveness probe the selector uses: a bounded-cost count on the
// users collection.
func (s *MongoStore) Ping(ctx context.Context) error {
	_, err := s.db.Collection(ColUsers).CountDocuments(ctx, bson.M{}, options.Count().SetLimit(1))
	return err
}

func findRows[R any](ctx context.Context, col *mongo.Collection, sortField string) ([]R, error) {
	opts := options.Find().SetSort(bson.D{{Key: sortField, Value: -1}})
	cur, err := col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []R{}
	for cur.Next(ctx) {
		var r R
		if err := cur.Decode(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, cur.Err()
}

func upsertRow(ctx context.Context, col *mongo.Collection, id string, row any) error {
	opts := options.Update().SetUpsert(true)
	_, err := col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": row}, opts)
	return err
}

func (s *MongoStore) Users(ctx context.Context) ([]models.User, error) {
	rows, err := findRows[models.UserRow](ctx, s.db.Collection(ColUsers), "created_at")
	if err != nil {
		logger.Warnf("remote: list users failed, returning empty: %v", err)
		return []models.User{}, nil
	}
	out := make([]models.User, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.UserFromRow(r))
	}
	return out, nil
}

func (s *MongoStore) SaveUser(ctx context.Context, u models.User) error {
	return upsertRow(ctx, s.db.Collection(ColUsers), u.ID, models.UserToRow(u))
}

// UserByCredentials filters by exact username, password and active flag
// server-side and returns the first match.
func (s *MongoStore) UserByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	filter := bson.M{"username": username, "password": password, "is_active": true}
	var row models.UserRow
	if err := s.db.Collection(ColUsers).FindOne(ctx, filter).Decode(&row); err != nil {
		if err != mongo.ErrNoDocuments {
			logger.Warnf("remote: credential lookup failed: %v", err)
		}
		return nil, nil
	}
	u := models.UserFromRow(row)
	return &u, nil
}

func (s *MongoStore) ContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	rows, err := findRows[models.ContactMessageRow](ctx, s.db.Collection(ColContactMessages), "submitted_at")
	if err != nil {
		logger.Warnf("remote: list contact messages failed, returning empty: %v", err)
		return []models.ContactMessage{}, nil
	}
	out := make([]models.ContactMessage, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.ContactMessageFromRow(r))
	}
	return out, nil
}

func (s *MongoStore) SaveContactMessage(ctx context.Context, m models.ContactMessage) error {
	return upsertRow(ctx, s.db.Collection(ColContactMessages), m.ID, models.ContactMessageToRow(m))
}

func (s *MongoStore) JoinUsApplications(ctx context.Context) ([]models.JoinUsApplication, error) {
	rows, err := findRows[models.JoinUsApplicationRow](ctx, s.db.Collection(ColJoinUsApplications), "submitted_at")
	if err != nil {
		logger.Warnf("remote: list applications failed, returning empty: %v", err)
		return []models.JoinUsApplication{}, nil
	}
	out := make([]models.JoinUsApplication, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.JoinUsApplicationFromRow(r))
	}
	return out, nil
}

func (s *MongoStore) SaveJoinUsApplication(ctx context.Context, a models.JoinUsApplication) error {
	return upsertRow(ctx, s.db.Collection(ColJoinUsApplications), a.ID, models.JoinUsApplicationToRow(a))
}
