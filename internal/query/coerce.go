package query

import (
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kind is the stored type of a filterable field.
type Kind int

const (
	KindString Kind = iota
	KindObjectID
	KindInt
	KindTime
)

// Schema maps known field names to their stored kind. Fields missing from the
// schema are passed through as strings.
type Schema map[string]Kind

// Question document field names used in filters.
const (
	FieldID        = "_id"
	FieldSubjectID = "subjectId"
	FieldChapter   = "chapter"
	FieldLevel     = "level"
	FieldType      = "type"
	FieldPoints    = "points"
	FieldUser      = "user"
	FieldCreatedAt = "createdAt"
)

// QuestionSchema casts filter values for the questions collection.
var QuestionSchema = Schema{
	FieldID:        KindObjectID,
	FieldSubjectID: KindObjectID,
	FieldChapter:   KindString,
	FieldLevel:     KindString,
	FieldType:      KindString,
	FieldPoints:    KindInt,
	FieldUser:      KindObjectID,
	FieldCreatedAt: KindTime,
}

// Coerce casts literal values and comparison operands to the field's kind.
// A value that does not parse is kept as-is; the store then simply matches
// nothing. Top-level lists become $in, scalar $in/$nin operands become
// one-element arrays.
func (s Schema) Coerce(filter map[string]any) bson.M {
	out := make(bson.M, len(filter))
	for field, val := range filter {
		kind := s[field]
		switch v := val.(type) {
		case map[string]any:
			out[field] = s.coerceOperators(kind, v)
		case []any:
			out[field] = bson.M{"$in": coerceList(kind, v)}
		case []string:
			out[field] = bson.M{"$in": coerceList(kind, stringsToAny(v))}
		default:
			out[field] = coerceScalar(kind, v)
		}
	}
	return out
}

func (s Schema) coerceOperators(kind Kind, ops map[string]any) bson.M {
	out := make(bson.M, len(ops))
	for op, operand := range ops {
		switch op {
		case "$in", "$nin":
			switch v := operand.(type) {
			case []any:
				out[op] = coerceList(kind, v)
			case []string:
				out[op] = coerceList(kind, stringsToAny(v))
			default:
				out[op] = bson.A{coerceScalar(kind, v)}
			}
		default:
			if list, ok := operand.([]any); ok {
				out[op] = coerceList(kind, list)
				continue
			}
			out[op] = coerceScalar(kind, operand)
		}
	}
	return out
}

func coerceList(kind Kind, vals []any) bson.A {
	out := make(bson.A, 0, len(vals))
	for _, v := range vals {
		out = append(out, coerceScalar(kind, v))
	}
	return out
}

func coerceScalar(kind Kind, val any) any {
	s, ok := val.(string)
	if !ok {
		return val
	}
	switch kind {
	case KindObjectID:
		if id, err := primitive.ObjectIDFromHex(s); err == nil {
			return id
		}
	case KindInt:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case KindTime:
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02", s); err == nil {
			return t
		}
	}
	return s
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
