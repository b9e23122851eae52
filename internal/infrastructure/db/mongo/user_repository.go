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

// Collection name kept singular for compatibility with existing
// deployments of the store.
const collectionUsers = "user"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

// Score is intentionally not omitempty-tagged: documents written before
// the field existed decode to 0, which is exactly how the aggregation
// treats an absent score.
type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	TeamID    primitive.ObjectID `bson:"team_id"`
	Score     int                `bson:"score"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		TeamID:    d.TeamID.Hex(),
		Score:     d.Score,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// Insert persists a new user document and fills in the generated ID.
// The TeamID must be well-formed hex; it does not need to reference an
// existing team.
func (r *UserRepository) Insert(ctx context.Context, u *domain.User) error {
	teamOID, err := primitive.ObjectIDFromHex(u.TeamID)
	if err != nil {
		return fmt.Errorf("insert user: invalid team id %q: %w", u.TeamID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, userDoc{
		Name:      u.Name,
		TeamID:    teamOID,
		Score:     u.Score,
		CreatedAt: u.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("insert user: unexpected inserted id type %T", res.InsertedID)
	}
	u.ID = oid.Hex()
	return nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	return r.find(ctx, bson.M{}, nil)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d userDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return d.toDomain(), nil
}

// FindByTeam returns all users of a team. A malformed teamID yields an
// empty slice so that aggregation against it sums to zero.
func (r *UserRepository) FindByTeam(ctx context.Context, teamID string) ([]*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(teamID)
	if err != nil {
		return []*domain.User{}, nil
	}
	return r.find(ctx, bson.M{"team_id": oid}, nil)
}

// Update applies the non-nil patch fields via $set and reports how many
// documents were actually modified. A malformed id, or a malformed
// team_id inside the patch, modifies nothing.
func (r *UserRepository) Update(ctx context.Context, id string, patch ports.UserPatch) (int64, error) {
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
	if patch.TeamID != nil {
		teamOID, err := primitive.ObjectIDFromHex(*patch.TeamID)
		if err != nil {
			return 0, nil
		}
		set["team_id"] = teamOID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return 0, fmt.Errorf("update user: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (int64, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return res.DeletedCount, nil
}

// FindLeaderboardByTeam returns the team's users sorted by score
// descending. Malformed teamID yields an empty ranking.
func (r *UserRepository) FindLeaderboardByTeam(ctx context.Context, teamID string) ([]*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(teamID)
	if err != nil {
		return []*domain.User{}, nil
	}
	return r.find(ctx, bson.M{"team_id": oid}, options.Find().SetSort(bson.D{{Key: "score", Value: -1}}))
}

func (r *UserRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var cursor *mongo.Cursor
	var err error
	if opts != nil {
		cursor, err = r.col.Find(ctx, filter, opts)
	} else {
		cursor, err = r.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := make([]*domain.User, 0)
	for cursor.Next(ctx) {
		var d userDoc
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, d.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}
