package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"hrportal-backend/internal/models"
)

// accountDocument is the BSON shape of an HR account in the collection.
type accountDocument struct {
	ID              bson.ObjectID `bson:"_id,omitempty"`
	Name            string        `bson:"name"`
	Email           string        `bson:"email"`
	PasswordHash    string        `bson:"password"`
	CompanyName     string        `bson:"company_name"`
	JobTitle        string        `bson:"job_title"`
	CompanyWebsite  *string       `bson:"company_website,omitempty"`
	VerificationDoc string        `bson:"verification_doc"`
	Verified        bool          `bson:"verified"`
	CreatedAt       time.Time     `bson:"created_at"`
}

func (d *accountDocument) toModel() models.HRAccount {
	return models.HRAccount{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Email:           d.Email,
		PasswordHash:    d.PasswordHash,
		CompanyName:     d.CompanyName,
		JobTitle:        d.JobTitle,
		CompanyWebsite:  d.CompanyWebsite,
		VerificationDoc: d.VerificationDoc,
		Verified:        d.Verified,
		CreatedAt:       d.CreatedAt,
	}
}

// MongoStorage is the MongoDB-backed AccountStore.
type MongoStorage struct {
	client   *mongo.Client
	accounts *mongo.Collection
}

// ConnectMongo connects to uri and ensures the unique email index on the
// accounts collection.
func ConnectMongo(ctx context.Context, uri, database, collection string) (*MongoStorage, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := &MongoStorage{
		client:   client,
		accounts: client.Database(database).Collection(collection),
	}

	_, err = s.accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create email index: %w", err)
	}

	return s, nil
}

func (s *MongoStorage) GetByEmail(ctx context.Context, email string) (*models.HRAccount, error) {
	var doc accountDocument
	err := s.accounts.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	account := doc.toModel()
	return &account, nil
}

func (s *MongoStorage) Create(ctx context.Context, account *models.HRAccount) error {
	doc := accountDocument{
		ID:              bson.NewObjectID(),
		Name:            account.Name,
		Email:           account.Email,
		PasswordHash:    account.PasswordHash,
		CompanyName:     account.CompanyName,
		JobTitle:        account.JobTitle,
		CompanyWebsite:  account.CompanyWebsite,
		VerificationDoc: account.VerificationDoc,
		Verified:        account.Verified,
		CreatedAt:       time.Now().UTC(),
	}

	if _, err := s.accounts.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return err
	}

	account.ID = doc.ID.Hex()
	account.CreatedAt = doc.CreatedAt
	return nil
}

func (s *MongoStorage) Approve(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrAccountNotFound
	}

	res, err := s.accounts.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "verified", Value: true}}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (s *MongoStorage) ListPending(ctx context.Context) ([]models.HRAccount, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.accounts.Find(ctx, bson.D{{Key: "verified", Value: false}}, opts)
	if err != nil {
		return nil, err
	}

	var docs []accountDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	accounts := make([]models.HRAccount, 0, len(docs))
	for i := range docs {
		accounts = append(accounts, docs[i].toModel())
	}
	return accounts, nil
}

func (s *MongoStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
