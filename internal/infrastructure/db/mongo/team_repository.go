package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/podium/leaderboard-api/internal/core/domain"
	"github.com/podium/leaderboard-api/internal/core/ports"
)

const collectionTeams = "teams"

type TeamRepository struct {
	col *mongo.Collection
}

func NewTeamRepository(db *mongo.Database) *TeamRepository {
	return &TeamRepository{col: db.Collection(collectionTeams)}
}

type teamDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Score     int                `bson:"score"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d teamDoc) toDomain() *domain.Team {
	return &domain.Team{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Score:     d.Score,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// Insert persists a new team document and fills in the generated ID.
func (r *TeamRepository) Insert(ctx context.Context, t *domain.Team) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, teamDoc{
		Name:      t.Name,
		Score:     t.Score,
		CreatedAt: t.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert team: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert team: unexpected inserted id type %T", res.InsertedID)
	}
	t.ID = oid.Hex()
	return nil
}

func (r *TeamRepository) FindAll(ctx context.Context) ([]*domain.Team, error) {
	return r.find(ctx, nil)
}

// FindByID parses the id first; a malformed id short-circuits to the
// same not-found result a valid-but-absent id produces.
func (r *TeamRepository) FindByID(ctx context.Context, id string) (*domain.Team, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTeamNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d teamDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTeamNotFound
		}
		return nil, fmt.Errorf("find team: %w", err)
	}
	return d.toDomain(), nil
}

// Update applies the non-nil patch fields via $set and reports how many
// documents were actually modified. Malformed ids and empty patches
// modify nothing.
func (r *TeamRepository) Update(ctx context.Context, id string, patch ports.TeamPatch) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}
	if patch.IsEmpty() {
		return 0, nil
	}

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Score != nil {
		set["score"] = *patch.Score
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("update team: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *TeamRepository) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete team: %w", err)
	}
	return res.DeletedCount, nil
}

// UpdateScore overwrites the stored aggregate score. Writes against a
// malformed or absent id are silent no-ops.
func (r *TeamRepository) UpdateScore(ctx context.Context, id string, score int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"score": score}}); err != nil {
		return fmt.Errorf("update team score: %w", err)
	}
	return nil
}

// FindLeaderboard returns all teams sorted by score descending. Order
// among equal scores is whatever the store yields.
func (r *TeamRepository) FindLeaderboard(ctx context.Context) ([]*domain.Team, error) {
	return r.find(ctx, options.Find().SetSort(bson.D{{Key: "score", Value: -1}}))
}

func (r *TeamRepository) find(ctx context.Context, opts *options.FindOptions) ([]*domain.Team, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.col.Find(ctx, bson.M{}, opts)
	} else {
		cursor, err = r.col.Find(ctx, bson.M{})
	}
	if err != nil {
		return nil, fmt.Errorf("find teams: %w", err)
	}
	defer cursor.Close(ctx)

	teams := make([]*domain.Team, 0)
	for cursor.Next(ctx) {
		var d teamDoc
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode team: %w", err)
		}
		teams = append(teams, d.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}
	return teams, nil
}
