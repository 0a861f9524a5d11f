package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AadilJabar19/ERP-sub002/internal/domain"
)

const (
	departmentNameIndex = "uniq_department_name"
	departmentCodeIndex = "uniq_department_code"
)

// DepartmentIndexes are the indexes the departments collection must carry.
// The unique indexes enforce that name and code never repeat.
var DepartmentIndexes = []mongo.IndexModel{
	{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetName(departmentNameIndex).SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetName(departmentCodeIndex).SetUnique(true),
	},
	{
		Keys:    bson.D{{Key: "status", Value: 1}},
		Options: options.Index().SetName("idx_department_status"),
	},
	{
		Keys:    bson.D{{Key: "manager", Value: 1}},
		Options: options.Index().SetName("idx_department_manager").SetSparse(true),
	},
}

// DepartmentRepository manages department persistence.
type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Department, error)
	List(ctx context.Context, filter domain.DepartmentFilter) ([]domain.Department, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, update domain.DepartmentUpdate) (*domain.Department, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type departmentRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewDepartmentRepository builds the repository.
func NewDepartmentRepository(db *mongo.Database) DepartmentRepository {
	return &departmentRepository{
		coll: db.Collection(domain.DepartmentCollection),
		now:  func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (r *departmentRepository) Create(ctx context.Context, dept *domain.Department) error {
	if dept.ID.IsZero() {
		dept.ID = primitive.NewObjectID()
	}
	now := r.now()
	dept.CreatedAt = now
	dept.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, dept); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateDepartmentError(err, dept.Name, dept.Code)
		}
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

func (r *departmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Department, error) {
	var dept domain.Department
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&dept); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("find department: %w", err)
	}
	return &dept, nil
}

func (r *departmentRepository) List(ctx context.Context, filter domain.DepartmentFilter) ([]domain.Department, int64, error) {
	filter.Normalize()
	query := listQuery(filter)

	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count departments: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(filter.Offset).
		SetLimit(filter.Limit)
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find departments: %w", err)
	}
	defer cursor.Close(ctx)

	result := make([]domain.Department, 0)
	if err := cursor.All(ctx, &result); err != nil {
		return nil, 0, fmt.Errorf("decode departments: %w", err)
	}
	return result, total, nil
}

func (r *departmentRepository) Update(ctx context.Context, id primitive.ObjectID, update domain.DepartmentUpdate) (*domain.Department, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var dept domain.Department
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, updateDocument(update, r.now()), opts).Decode(&dept)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDepartmentNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateDepartmentError(err, deref(update.Name), deref(update.Code))
		}
		return nil, fmt.Errorf("update department: %w", err)
	}
	return &dept, nil
}

func (r *departmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDepartmentNotFound
	}
	return nil
}

func listQuery(filter domain.DepartmentFilter) bson.M {
	query := bson.M{}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"code": pattern},
		}
	}
	return query
}

func updateDocument(update domain.DepartmentUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Code != nil {
		set["code"] = *update.Code
	}
	if update.ManagerID != nil && !update.ClearManager {
		set["manager"] = *update.ManagerID
	}
	if update.Budget != nil {
		set["budget"] = *update.Budget
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}

	doc := bson.M{"$set": set}
	if update.ClearManager {
		doc["$unset"] = bson.M{"manager": ""}
	}
	return doc
}

// duplicateDepartmentError names the field whose unique index rejected the write.
// The field and value come from the server's keyPattern/keyValue; servers that do
// not send them are matched on the index name.
func duplicateDepartmentError(err error, name, code string) error {
	field, value := duplicateKey(err)
	switch field {
	case "code":
		if value == nil {
			value = code
		}
		return domain.NewFieldError("code", domain.ErrDuplicate, value)
	case "name":
		if value == nil {
			value = name
		}
		return domain.NewFieldError("name", domain.ErrDuplicate, value)
	default:
		return domain.NewFieldError("department", domain.ErrDuplicate, nil)
	}
}

func duplicateKey(err error) (string, any) {
	for _, doc := range duplicateKeyDocs(err) {
		pattern, ok := doc.Lookup("keyPattern").DocumentOK()
		if !ok {
			msg, _ := doc.Lookup("errmsg").StringValueOK()
			if field := fieldForIndex(msg); field != "" {
				return field, nil
			}
			continue
		}
		elems, err := pattern.Elements()
		if err != nil || len(elems) == 0 {
			continue
		}
		field := elems[0].Key()
		var value any
		if kv, ok := doc.Lookup("keyValue").DocumentOK(); ok {
			if str, ok := kv.Lookup(field).StringValueOK(); ok {
				value = str
			}
		}
		return field, value
	}
	return "", nil
}

// duplicateKeyDocs returns the raw server documents describing duplicate key errors.
func duplicateKeyDocs(err error) []bson.Raw {
	var docs []bson.Raw
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if isDuplicateKeyCode(we.Code) && len(we.Raw) > 0 {
				docs = append(docs, we.Raw)
			}
		}
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) && isDuplicateKeyCode(int(cmdErr.Code)) && len(cmdErr.Raw) > 0 {
		docs = append(docs, cmdErr.Raw)
	}
	return docs
}

func isDuplicateKeyCode(code int) bool {
	return code == 11000 || code == 11001 || code == 12582
}

// fieldForIndex reads the index name from an E11000 message. The name precedes the
// duplicated value, so the value cannot influence the match.
func fieldForIndex(msg string) string {
	_, rest, ok := strings.Cut(msg, " index: ")
	if !ok {
		return ""
	}
	index, _, _ := strings.Cut(rest, " ")
	switch index {
	case departmentCodeIndex:
		return "code"
	case departmentNameIndex:
		return "name"
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
