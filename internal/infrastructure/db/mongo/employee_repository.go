package mongo

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/employee-portal/internal/core/domain"
	"github.com/99minutos/employee-portal/internal/core/ports"
)

const collectionEmployees = "employees"

// employeeSortFields maps API sort keys to document fields.
var employeeSortFields = map[string]string{
	ports.SortFirstName: "first_name",
	ports.SortLastName:  "last_name",
	ports.SortEmail:     "email",
	ports.SortHireDate:  "hire_date",
	ports.SortSalary:    "salary",
}

type EmployeeRepository struct {
	col *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *EmployeeRepository {
	return &EmployeeRepository{col: db.Collection(collectionEmployees)}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, e); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateEmail(e.Email)
		}
		return fmt.Errorf("insert employee: %w", mapErr(err))
	}
	return nil
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id string) (*domain.Employee, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail relies on emails being stored lower-cased.
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*domain.Employee, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *EmployeeRepository) findOne(ctx context.Context, filter bson.M) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.Employee
	if err := r.col.FindOne(ctx, filter).Decode(&e); err != nil {
		return nil, mapErr(err)
	}
	return &e, nil
}

// List returns a paginated, filtered list of employees and the total count.
func (r *EmployeeRepository) List(ctx context.Context, f ports.EmployeeFilter) ([]*domain.Employee, int64, error) {
	filter, ok := employeeListFilter(f)
	if !ok {
		return []*domain.Employee{}, 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, mapErr(err)
	}

	cursor, err := r.col.Find(ctx, filter, employeeFindOptions(f))
	if err != nil {
		return nil, 0, mapErr(err)
	}
	defer cursor.Close(ctx)

	employees := make([]*domain.Employee, 0)
	if err := cursor.All(ctx, &employees); err != nil {
		return nil, 0, mapErr(err)
	}
	return employees, total, nil
}

func (r *EmployeeRepository) Replace(ctx context.Context, e *domain.Employee) error {
	err := replaceByID(ctx, r.col, e.ID, e)
	if mongo.IsDuplicateKeyError(err) {
		return duplicateEmail(e.Email)
	}
	return err
}

// ApplyChanges sets only the changed fields and the modification stamp in
// one write.
func (r *EmployeeRepository) ApplyChanges(ctx context.Context, id string, changes domain.EmployeeChanges) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var e domain.Employee
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": employeeChangeSet(changes)}, opts).Decode(&e)
	if err != nil {
		return nil, mapErr(err)
	}
	return &e, nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.col, id)
}

func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, mapErr(err)
	}
	return n, nil
}

// HeadcountByDepartment groups employees by department_id. Employees with no
// department form a group with an empty ID.
func (r *EmployeeRepository) HeadcountByDepartment(ctx context.Context) ([]ports.DepartmentHeadcount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$department_id", ""}}}},
			{Key: "employee_count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "average_salary", Value: bson.D{{Key: "$avg", Value: "$salary"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mapErr(err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		DepartmentID  string   `bson:"_id"`
		EmployeeCount int64    `bson:"employee_count"`
		AverageSalary *float64 `bson:"average_salary"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, mapErr(err)
	}

	out := make([]ports.DepartmentHeadcount, 0, len(rows))
	for _, row := range rows {
		h := ports.DepartmentHeadcount{DepartmentID: row.DepartmentID, EmployeeCount: row.EmployeeCount}
		if row.AverageSalary != nil {
			h.AverageSalary = *row.AverageSalary
		}
		out = append(out, h)
	}
	return out, nil
}

// employeeListFilter builds the query for List. ok is false when the scope
// excludes every row.
func employeeListFilter(f ports.EmployeeFilter) (bson.M, bool) {
	scope, ok := scopeFilter(f.Scope, "_id", "department_id")
	if !ok {
		return nil, false
	}

	criteria := bson.M{}
	if f.Status != "" {
		criteria["status"] = f.Status
	}
	if f.DepartmentID != "" {
		criteria["department_id"] = f.DepartmentID
	}

	var search bson.M
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
		search = bson.M{"$or": bson.A{
			bson.M{"first_name": pattern},
			bson.M{"last_name": pattern},
			bson.M{"email": pattern},
		}}
	}
	return and(scope, criteria, search), true
}

func employeeFindOptions(f ports.EmployeeFilter) *options.FindOptions {
	field, ok := employeeSortFields[f.SortBy]
	if !ok {
		field = "last_name"
	}
	dir := 1
	if f.Descending {
		dir = -1
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	return options.Find().
		SetSort(bson.D{{Key: field, Value: dir}, {Key: "_id", Value: 1}}).
		SetSkip(pageSkip(page, limit)).
		SetLimit(int64(limit))
}

// pageSkip saturates at math.MaxInt64 instead of overflowing, so an absurd
// page reads as past the end.
func pageSkip(page, limit int) int64 {
	pages, size := int64(page-1), int64(limit)
	if pages > math.MaxInt64/size {
		return math.MaxInt64
	}
	return pages * size
}

func employeeChangeSet(c domain.EmployeeChanges) bson.M {
	set := bson.M{
		"modified_by": c.ModifiedBy,
		"modified_at": c.ModifiedAt,
	}
	if c.DepartmentID != nil {
		set["department_id"] = *c.DepartmentID
	}
	if c.PositionID != nil {
		set["position_id"] = *c.PositionID
	}
	if c.Salary != nil {
		set["salary"] = *c.Salary
	}
	return set
}

func duplicateEmail(email string) error {
	return domain.NewValidationError(fmt.Sprintf("Employee with email %s already exists", email))
}
