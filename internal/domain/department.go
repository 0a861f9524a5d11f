package domain

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DepartmentCollection is the document collection departments are stored in.
const DepartmentCollection = "departments"

// DepartmentStatus enumerates department lifecycle states.
type DepartmentStatus string

const (
	DepartmentStatusActive   DepartmentStatus = "active"
	DepartmentStatusInactive DepartmentStatus = "inactive"
)

// Valid reports whether s is one of the known statuses.
func (s DepartmentStatus) Valid() bool {
	return s == DepartmentStatusActive || s == DepartmentStatusInactive
}

// ParseDepartmentStatus converts raw input into a DepartmentStatus.
func ParseDepartmentStatus(raw string) (DepartmentStatus, error) {
	status := DepartmentStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", NewFieldError("status", ErrInvalidStatus, raw)
	}
	return status, nil
}

// Department represents a high-level organizational unit.
type Department struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"name" json:"name" validate:"required"`
	Code        string              `bson:"code" json:"code" validate:"required"`
	ManagerID   *primitive.ObjectID `bson:"manager,omitempty" json:"manager,omitempty"`
	Budget      float64             `bson:"budget" json:"budget"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Location    string              `bson:"location,omitempty" json:"location,omitempty"`
	Status      DepartmentStatus    `bson:"status" json:"status" validate:"required,department_status"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ApplyDefaults normalizes text fields and fills the status default.
func (d *Department) ApplyDefaults() {
	d.Name = strings.TrimSpace(d.Name)
	d.Code = strings.TrimSpace(d.Code)
	d.Description = strings.TrimSpace(d.Description)
	d.Location = strings.TrimSpace(d.Location)
	if d.Status == "" {
		d.Status = DepartmentStatusActive
	}
}

// Validate checks required fields and the status enumeration.
// Uniqueness of name and code is enforced by the store.
func (d *Department) Validate() error {
	return validateStruct(d)
}

// DepartmentUpdate carries a partial update. Nil fields are left untouched.
type DepartmentUpdate struct {
	Name         *string
	Code         *string
	ManagerID    *primitive.ObjectID
	ClearManager bool
	Budget       *float64
	Description  *string
	Location     *string
	Status       *DepartmentStatus
}

// Normalize trims the text fields that are present.
func (u *DepartmentUpdate) Normalize() {
	for _, field := range []*string{u.Name, u.Code, u.Description, u.Location} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}

// IsEmpty reports whether the update changes nothing.
func (u DepartmentUpdate) IsEmpty() bool {
	return u.Name == nil && u.Code == nil && u.ManagerID == nil && !u.ClearManager &&
		u.Budget == nil && u.Description == nil && u.Location == nil && u.Status == nil
}

// Validate applies the Department rules to the fields present in the update.
func (u DepartmentUpdate) Validate() error {
	if u.IsEmpty() {
		return NewFieldError("update", ErrEmptyUpdate, nil)
	}
	var errs []error
	if u.Name != nil && *u.Name == "" {
		errs = append(errs, NewFieldError("name", ErrRequired, *u.Name))
	}
	if u.Code != nil && *u.Code == "" {
		errs = append(errs, NewFieldError("code", ErrRequired, *u.Code))
	}
	if u.Status != nil && !u.Status.Valid() {
		errs = append(errs, NewFieldError("status", ErrInvalidStatus, string(*u.Status)))
	}
	return errors.Join(errs...)
}

// Apply copies the present fields of u onto d.
func (u DepartmentUpdate) Apply(d *Department) {
	if u.Name != nil {
		d.Name = *u.Name
	}
	if u.Code != nil {
		d.Code = *u.Code
	}
	if u.ClearManager {
		d.ManagerID = nil
	} else if u.ManagerID != nil {
		id := *u.ManagerID
		d.ManagerID = &id
	}
	if u.Budget != nil {
		d.Budget = *u.Budget
	}
	if u.Description != nil {
		d.Description = *u.Description
	}
	if u.Location != nil {
		d.Location = *u.Location
	}
	if u.Status != nil {
		d.Status = *u.Status
	}
}

// DepartmentFilter narrows department listings.
type DepartmentFilter struct {
	Status *DepartmentStatus
	Search string
	Limit  int64
	Offset int64
}

const (
	DefaultPageSize int64 = 20
	MaxPageSize     int64 = 100
)

// Normalize clamps pagination values into their allowed range.
func (f *DepartmentFilter) Normalize() {
	f.Search = strings.TrimSpace(f.Search)
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("department_status", func(fl validator.FieldLevel) bool {
		return DepartmentStatus(fl.Field().String()).Valid()
	})
	return v
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		reason := ErrRequired
		if fe.Tag() == "department_status" {
			reason = ErrInvalidStatus
		}
		errs = append(errs, NewFieldError(fe.Field(), reason, fe.Value()))
	}
	return errors.Join(errs...)
}
