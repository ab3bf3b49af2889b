package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

const collectionTimeSheets = "timesheets"

type TimeSheetRepository struct {
	col *mongo.Collection
}

func NewTimeSheetRepository(db *mongo.Database) *TimeSheetRepository {
	return &TimeSheetRepository{col: db.Collection(collectionTimeSheets)}
}

func (r *TimeSheetRepository) Create(ctx context.Context, t *domain.TimeSheet) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("insert timesheet: %w", mapErr(err))
	}
	return nil
}

func (r *TimeSheetRepository) FindByID(ctx context.Context, id string) (*domain.TimeSheet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var t domain.TimeSheet
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

// List returns matching entries, newest date first.
func (r *TimeSheetRepository) List(ctx context.Context, f ports.TimeSheetFilter) ([]*domain.TimeSheet, error) {
	filter, ok := timeSheetListFilter(f)
	if !ok {
		return []*domain.TimeSheet{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cursor.Close(ctx)

	entries := make([]*domain.TimeSheet, 0)
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, mapErr(err)
	}
	return entries, nil
}

// Transition is a single conditional update on {_id, status: tr.From}.
func (r *TimeSheetRepository) Transition(ctx context.Context, id string, tr domain.TimeSheetTransition) (*domain.TimeSheet, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	filter := bson.M{"_id": id, "status": tr.From}

	var t domain.TimeSheet
	if err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": timeSheetTransitionSet(tr)}, opts).Decode(&t); err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

func (r *TimeSheetRepository) DeleteDraft(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "status": domain.TimeSheetDraft})
	if err != nil {
		return mapErr(err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func timeSheetListFilter(f ports.TimeSheetFilter) (bson.M, bool) {
	scope, ok := scopeFilter(f.Scope, "employee_id", "")
	if !ok {
		return nil, false
	}
	criteria := bson.M{}
	if f.EmployeeID != "" {
		criteria["employee_id"] = f.EmployeeID
	}
	if f.Status != "" {
		criteria["status"] = f.Status
	}
	if !f.DateFrom.IsZero() {
		criteria["date"] = bson.M{"$gte": f.DateFrom}
	}
	return and(scope, criteria), true
}

// timeSheetTransitionSet mirrors domain.TimeSheetTransition.Apply as a $set
// document.
func timeSheetTransitionSet(tr domain.TimeSheetTransition) bson.M {
	set := bson.M{
		"status":      tr.To,
		"modified_at": tr.At,
	}
	switch tr.To {
	case domain.TimeSheetSubmitted:
		set["submitted_by"], set["submitted_at"] = tr.By, tr.At
	case domain.TimeSheetApproved:
		set["approved_by"], set["approved_at"] = tr.By, tr.At
	case domain.TimeSheetRejected:
		set["rejected_by"], set["rejected_at"] = tr.By, tr.At
	}
	return set
}
