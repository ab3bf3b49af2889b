package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/employee-portal/internal/core/domain"
)

const (
	defaultTimeout = 10 * time.Second
	indexTimeout   = 30 * time.Second
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// Ping reports whether the database answers within the default timeout.
func Ping(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return mapErr(db.Client().Ping(ctx, nil))
}

// EnsureIndexes creates the indexes every collection relies on, including the
// unique ones that back identity and employee email uniqueness.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	plan := map[string][]mongo.IndexModel{
		collectionIdentities: {
			{Keys: bson.D{{Key: "username_lower", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "email_lower", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionEmployees: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "department_id", Value: 1}}},
			{Keys: bson.D{{Key: "last_name", Value: 1}, {Key: "first_name", Value: 1}}},
		},
		collectionTimeSheets: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		collectionLeaves: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}, {Key: "start_date", Value: -1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
	}

	for coll, indexes := range plan {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, mapErr(err))
		}
	}
	return nil
}

// mapErr translates driver errors into domain errors. Transport failures and
// timeouts become domain.ErrUnavailable so callers can tell an outage from an
// empty result.
func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return domain.ErrNotFound
	case mongo.IsNetworkError(err),
		mongo.IsTimeout(err),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	return err
}

// scopeFilter translates a row scope into a query fragment. ok is false when
// the scope matches nothing and the query can be skipped.
func scopeFilter(scope domain.Scope, ownerField, departmentField string) (bson.M, bool) {
	switch scope.Kind {
	case domain.ScopeAll:
		return bson.M{}, true
	case domain.ScopeDepartment:
		if departmentField == "" || scope.DepartmentID == "" {
			return nil, false
		}
		return bson.M{departmentField: scope.DepartmentID}, true
	case domain.ScopeOwner:
		if scope.EmployeeID == "" {
			return nil, false
		}
		return bson.M{ownerField: scope.EmployeeID}, true
	default:
		return nil, false
	}
}

// and combines query fragments so repeated keys cannot overwrite each other.
func and(parts ...bson.M) bson.M {
	var nonEmpty []bson.M
	for _, p := range parts {
		if len(p) > 0 {
			nonEmpty = append(nonEmpty, p)
		}
	}
	switch len(nonEmpty) {
	case 0:
		return bson.M{}
	case 1:
		return nonEmpty[0]
	}
	return bson.M{"$and": nonEmpty}
}
