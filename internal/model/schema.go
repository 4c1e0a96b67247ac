package model

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/daydash-app/daydash/internal/common"
)

// Field describes one domain field of an entity: its local (camelCase) name,
// the backend column it maps to, and how it is serialized. The mapping is an
// explicit table per entity type rather than a runtime naming convention, so
// it can be unit-tested and overridden field by field.
type Field struct {
	// Name is the local field name used in patches and local JSON. Empty
	// means SnakeToCamel(Column).
	Name string
	// Column is the backend column. Empty means CamelToSnake(Name).
	Column string
	// GoField is the struct field name. Empty means Name with the first
	// letter upper-cased.
	GoField string
	// Date marks time.Time fields, serialized as RFC 3339 strings in raw form.
	Date bool
	// Local marks client-only fields: stripped before ToRaw, never
	// round-tripped through the backend, preserved across merges.
	Local bool
}

// Schema binds an entity type to its backend table: field mapping, required
// fields, defaults for omitted optional fields, and fetch order. One Schema
// per entity type; it is stateless after construction and safe for
// concurrent use.
type Schema[T Entity] struct {
	Table    string
	OrderBy  string
	Required []string
	Defaults map[string]any
	Fields   []Field

	byName map[string]*Field
	typ    reflect.Type
}

var timeType = reflect.TypeOf(time.Time{})

// reserved Base field names, managed by the store rather than patches
const (
	fieldID        = "id"
	fieldTrashed   = "trashed"
	fieldCreatedAt = "createdAt"
	fieldUpdatedAt = "updatedAt"
	fieldIsSynced  = "isSynced"
)

// MustSchema fills in mechanical defaults (column names, Go field names),
// verifies every field against the entity struct, and returns the schema
// ready for use. Panics on a malformed definition; schemas are package-level
// values, so this fails at startup, not mid-sync.
func MustSchema[T Entity](s Schema[T]) *Schema[T] {
	s.typ = reflect.TypeFor[T]().Elem()
	if s.Table == "" {
		panic("schema: table name is required")
	}
	if s.OrderBy == "" {
		s.OrderBy = "created_at"
	}
	s.byName = make(map[string]*Field, len(s.Fields))
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Name == "" && f.Column == "" {
			panic(fmt.Sprintf("schema %s: field needs a name or a column", s.Table))
		}
		if f.Name == "" {
			f.Name = SnakeToCamel(f.Column)
		}
		if f.Column == "" {
			f.Column = CamelToSnake(f.Name)
		}
		if f.GoField == "" {
			f.GoField = upperFirst(f.Name)
		}
		sf, ok := s.typ.FieldByName(f.GoField)
		if !ok {
			panic(fmt.Sprintf("schema %s: no struct field %s", s.Table, f.GoField))
		}
		if f.Date != (sf.Type == timeType) {
			panic(fmt.Sprintf("schema %s: field %s date flag does not match type %s", s.Table, f.Name, sf.Type))
		}
		s.byName[f.Name] = f
	}
	for _, r := range s.Required {
		if _, ok := s.byName[r]; !ok {
			panic(fmt.Sprintf("schema %s: required field %s not declared", s.Table, r))
		}
	}
	for d := range s.Defaults {
		if _, ok := s.byName[d]; !ok {
			panic(fmt.Sprintf("schema %s: default for undeclared field %s", s.Table, d))
		}
	}
	return &s
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}

// New returns a zero entity of the schema's type.
func (s *Schema[T]) New() T {
	return reflect.New(s.typ).Interface().(T)
}

// Clone returns a copy of e. Entities hold only value fields, so a shallow
// struct copy is a full copy.
func (s *Schema[T]) Clone(e T) T {
	n := s.New()
	reflect.ValueOf(n).Elem().Set(reflect.ValueOf(e).Elem())
	return n
}

// Missing reports the required fields that p does not provide and Defaults
// does not cover. An empty result means the patch validates.
func (s *Schema[T]) Missing(p Patch) []string {
	var missing []string
	for _, r := range s.Required {
		if v, ok := p[r]; ok && v != nil {
			continue
		}
		if _, ok := s.Defaults[r]; ok {
			continue
		}
		missing = append(missing, r)
	}
	return missing
}

// WithDefaults returns a copy of p with Defaults filled in for every field
// the patch omits.
func (s *Schema[T]) WithDefaults(p Patch) Patch {
	out := make(Patch, len(p)+len(s.Defaults))
	for k, v := range s.Defaults {
		out[k] = v
	}
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Apply merges the patch over e, shallowly: only fields named in the patch
// are replaced. Base timestamps and sync status are owned by the store and
// ignored here; "trashed" is settable (soft delete travels through Update).
// Unknown field names fail with a MappingError.
func (s *Schema[T]) Apply(e T, p Patch) error {
	ev := reflect.ValueOf(e).Elem()
	for k, v := range p {
		switch k {
		case fieldID, fieldCreatedAt, fieldUpdatedAt, fieldIsSynced:
			continue
		case fieldTrashed:
			b, ok := v.(bool)
			if !ok {
				return &common.MappingError{Table: s.Table, Field: k, Err: fmt.Errorf("expected bool, got %T", v)}
			}
			e.Meta().Trashed = b
			continue
		}
		f, ok := s.byName[k]
		if !ok {
			return &common.MappingError{Table: s.Table, Field: k, Err: errors.New("unknown field")}
		}
		if err := assign(ev.FieldByName(f.GoField), v, f.Date); err != nil {
			return &common.MappingError{Table: s.Table, Field: k, Err: err}
		}
	}
	return nil
}

// CopyLocal copies the client-only (Local) fields from src into dst. Used by
// merges so values that never round-trip through the backend survive a
// remote-sourced replacement.
func (s *Schema[T]) CopyLocal(src, dst T) {
	sv := reflect.ValueOf(src).Elem()
	dv := reflect.ValueOf(dst).Elem()
	for i := range s.Fields {
		f := &s.Fields[i]
		if !f.Local {
			continue
		}
		dv.FieldByName(f.GoField).Set(sv.FieldByName(f.GoField))
	}
}

// ToRaw maps e into its backend row form: Base fields under their snake_case
// names, every non-local domain field through the field table, date fields as
// RFC 3339 UTC strings, plus the owning user_id. Fails with MappingError when
// identity or timestamps are absent; a partially mapped row must never be
// persisted.
func (s *Schema[T]) ToRaw(e T, userID string) (map[string]any, error) {
	meta := e.Meta()
	if meta.ID == "" {
		return nil, &common.MappingError{Table: s.Table, Field: fieldID, Err: errors.New("empty id")}
	}
	if meta.CreatedAt.IsZero() || meta.UpdatedAt.IsZero() {
		return nil, &common.MappingError{Table: s.Table, Field: fieldUpdatedAt, Err: errors.New("missing timestamps")}
	}

	row := map[string]any{
		"id":         meta.ID,
		"user_id":    userID,
		"trashed":    meta.Trashed,
		"created_at": meta.CreatedAt.UTC().Format(time.RFC3339Nano),
		"updated_at": meta.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}

	ev := reflect.ValueOf(e).Elem()
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Local {
			continue
		}
		fv := ev.FieldByName(f.GoField)
		if f.Date {
			t := fv.Interface().(time.Time)
			if t.IsZero() {
				row[f.Column] = nil
				continue
			}
			row[f.Column] = t.UTC().Format(time.RFC3339Nano)
			continue
		}
		row[f.Column] = fv.Interface()
	}
	return row, nil
}

// FromRaw is the inverse of ToRaw. Anything sourced from the backend is by
// definition reconciled, so the produced entity always has IsSynced=true.
// Local-only fields stay at their zero value; the store's merge preserves
// the locally held values for them.
func (s *Schema[T]) FromRaw(row map[string]any) (T, error) {
	e := s.New()
	meta := e.Meta()

	id, ok := row["id"].(string)
	if !ok || id == "" {
		return e, &common.MappingError{Table: s.Table, Field: fieldID, Err: errors.New("missing id")}
	}
	meta.ID = id

	trashed, ok := row["trashed"].(bool)
	if !ok {
		return e, &common.MappingError{Table: s.Table, Field: fieldTrashed, Err: errors.New("missing trashed flag")}
	}
	meta.Trashed = trashed

	var err error
	if meta.CreatedAt, err = rawTime(row["created_at"]); err != nil {
		return e, &common.MappingError{Table: s.Table, Field: fieldCreatedAt, Err: err}
	}
	if meta.UpdatedAt, err = rawTime(row["updated_at"]); err != nil {
		return e, &common.MappingError{Table: s.Table, Field: fieldUpdatedAt, Err: err}
	}
	meta.IsSynced = true

	ev := reflect.ValueOf(e).Elem()
	for i := range s.Fields {
		f := &s.Fields[i]
		if f.Local {
			continue
		}
		v, ok := row[f.Column]
		if !ok || v == nil {
			continue
		}
		if err := assign(ev.FieldByName(f.GoField), v, f.Date); err != nil {
			return e, &common.MappingError{Table: s.Table, Field: f.Name, Err: err}
		}
	}
	return e, nil
}

func rawTime(v any) (time.Time, error) {
	str, ok := v.(string)
	if !ok || str == "" {
		return time.Time{}, errors.New("missing timestamp")
	}
	t, err := time.Parse(time.RFC3339Nano, str)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// assign writes v into a struct field, coercing the loose types JSON and
// patches produce (float64 for every number) into the field's static type.
func assign(fv reflect.Value, v any, date bool) error {
	if v == nil {
		fv.SetZero()
		return nil
	}
	if date {
		switch tv := v.(type) {
		case time.Time:
			fv.Set(reflect.ValueOf(tv))
			return nil
		case string:
			t, err := time.Parse(time.RFC3339Nano, tv)
			if err != nil {
				return err
			}
			fv.Set(reflect.ValueOf(t))
			return nil
		default:
			return fmt.Errorf("expected time, got %T", v)
		}
	}
	switch fv.Kind() {
	case reflect.String:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		fv.SetString(s)
	case reflect.Bool:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", v)
		}
		fv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch n := v.(type) {
		case int:
			fv.SetInt(int64(n))
		case int64:
			fv.SetInt(n)
		case float64:
			fv.SetInt(int64(n))
		default:
			return fmt.Errorf("expected number, got %T", v)
		}
	case reflect.Float32, reflect.Float64:
		switch n := v.(type) {
		case float64:
			fv.SetFloat(n)
		case int:
			fv.SetFloat(float64(n))
		default:
			return fmt.Errorf("expected number, got %T", v)
		}
	default:
		return fmt.Errorf("unsupported field kind %s", fv.Kind())
	}
	return nil
}
