package query

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reserved query parameter names. Each one is consumed by its own concern and
// never reaches the filter.
const (
	ParamSelect = "select"
	ParamSort   = "sort"
	ParamPage   = "page"
	ParamLimit  = "limit"
	ParamSolved = "solved"
)

// ReservedParams lists every parameter excluded from filter translation.
var ReservedParams = []string{ParamSelect, ParamSort, ParamPage, ParamLimit, ParamSolved}

// Comparison operators accepted in bracket form, e.g. points[gte]=2.
const (
	OpGreater        = "gt"
	OpGreaterOrEqual = "gte"
	OpLess           = "lt"
	OpLessOrEqual    = "lte"
	OpIn             = "in"
)

// Operators is the set of bare operator names rewritten to store operators.
var Operators = []string{OpGreater, OpGreaterOrEqual, OpLess, OpLessOrEqual, OpIn}

// OperatorMarker prefixes a bare operator name to form the store operator.
const OperatorMarker = "$"

// RewriteMode selects how bare operator names become store operators.
type RewriteMode string

const (
	// RewriteText substitutes every whole-word operator name in the
	// serialized filter. Values that happen to be operator-shaped words
	// (chapter=lt, free text containing "in") are rewritten too. This is the
	// legacy behaviour clients depend on.
	RewriteText RewriteMode = "text"
	// RewriteStructural only prefixes keys of comparison sub-objects.
	RewriteStructural RewriteMode = "structural"
)

// ParseRewriteMode falls back to RewriteText for anything unrecognised.
func ParseRewriteMode(s string) RewriteMode {
	if RewriteMode(s) == RewriteStructural {
		return RewriteStructural
	}
	return RewriteText
}

var operatorWord = regexp.MustCompile(`\b(gt|gte|lt|lte|in)\b`)

// SolvedFlag is the value of the `solved` parameter once recognised.
type SolvedFlag string

const (
	SolvedTrue  SolvedFlag = "true"
	SolvedFalse SolvedFlag = "false"
)

// ParseSolvedFlag accepts exactly "true" or "false".
func ParseSolvedFlag(s string) (SolvedFlag, bool) {
	switch SolvedFlag(s) {
	case SolvedTrue, SolvedFalse:
		return SolvedFlag(s), true
	}
	return "", false
}

// Solved restricts results to questions the student has (or has not) answered.
type Solved struct {
	Flag        SolvedFlag
	AnsweredIDs []primitive.ObjectID
}

// Options configures Translate. Zero value is usable: ReservedParams,
// RewriteText, QuestionSchema and no solved predicate.
type Options struct {
	Reserved []string
	Mode     RewriteMode
	Schema   Schema
	Solved   *Solved
}

// Translate converts raw listing parameters into a store filter.
func Translate(raw RawParams, opts Options) (bson.M, error) {
	reserved := opts.Reserved
	if reserved == nil {
		reserved = ReservedParams
	}
	schema := opts.Schema
	if schema == nil {
		schema = QuestionSchema
	}

	copied := make(map[string]any, len(raw))
	for key, val := range raw {
		if contains(reserved, key) {
			continue
		}
		copied[key] = val
	}

	var rewritten map[string]any
	switch opts.Mode {
	case RewriteStructural:
		rewritten = rewriteStructural(copied)
	default:
		var err error
		if rewritten, err = rewriteText(copied); err != nil {
			return nil, err
		}
	}

	filter := schema.Coerce(rewritten)
	if opts.Solved != nil {
		applySolved(filter, *opts.Solved)
	}
	return filter, nil
}

func rewriteText(in map[string]any) (map[string]any, error) {
	// <, > and & stay literal so they act as word boundaries
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(in); err != nil {
		return nil, fmt.Errorf("encode filter: %w", err)
	}
	replaced := operatorWord.ReplaceAllFunc(buf.Bytes(), func(word []byte) []byte {
		return append([]byte(OperatorMarker), word...)
	})

	out := map[string]any{}
	if err := json.Unmarshal(replaced, &out); err != nil {
		return nil, fmt.Errorf("decode filter: %w", err)
	}
	return out, nil
}

func rewriteStructural(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, val := range in {
		sub, ok := val.(map[string]any)
		if !ok {
			out[key] = val
			continue
		}
		ops := make(map[string]any, len(sub))
		for op, operand := range sub {
			if contains(Operators, op) {
				op = OperatorMarker + op
			}
			ops[op] = operand
		}
		out[key] = ops
	}
	return out
}

func applySolved(filter bson.M, solved Solved) {
	ids := solved.AnsweredIDs
	if ids == nil {
		ids = []primitive.ObjectID{}
	}

	var predicate bson.M
	switch solved.Flag {
	case SolvedTrue:
		predicate = bson.M{"$in": ids}
	case SolvedFalse:
		predicate = bson.M{"$nin": ids}
	default:
		return
	}

	existing, ok := filter[FieldID]
	if !ok {
		filter[FieldID] = predicate
		return
	}
	delete(filter, FieldID)
	clauses := bson.A{bson.M{FieldID: existing}, bson.M{FieldID: predicate}}
	if and, ok := filter["$and"].(bson.A); ok {
		clauses = append(and, clauses...)
	}
	filter["$and"] = clauses
}

// UnsafeKeys reports raw keys that would address store operators directly
// ($where, $expr, ...). Handlers refuse these before translating.
func UnsafeKeys(raw RawParams) []string {
	var out []string
	for key := range raw {
		if len(key) > 0 && key[0] == '$' {
			out = append(out, key)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
