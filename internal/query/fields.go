package query

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// DefaultSort orders newest questions first.
const DefaultSort = "-createdAt"

// SelectorTokens converts a comma-separated field list ("level,-points") into
// the space-separated selector form ("level -points").
func SelectorTokens(csv string) string {
	parts := strings.Split(csv, ",")
	tokens := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return strings.Join(tokens, " ")
}

// Projection builds a projection document from selector tokens. A leading
// "-" excludes the field. Returns nil for an empty selector.
func Projection(tokens string) bson.D {
	fields := strings.Fields(tokens)
	if len(fields) == 0 {
		return nil
	}
	proj := make(bson.D, 0, len(fields))
	for _, f := range fields {
		if name, ok := strings.CutPrefix(f, "-"); ok {
			proj = append(proj, bson.E{Key: name, Value: 0})
			continue
		}
		proj = append(proj, bson.E{Key: strings.TrimPrefix(f, "+"), Value: 1})
	}
	return proj
}

// SortDoc builds an ordered sort document from selector tokens. A leading
// "-" sorts descending. An empty selector falls back to DefaultSort.
func SortDoc(tokens string) bson.D {
	fields := strings.Fields(tokens)
	if len(fields) == 0 {
		fields = []string{DefaultSort}
	}
	sortDoc := make(bson.D, 0, len(fields))
	for _, f := range fields {
		if name, ok := strings.CutPrefix(f, "-"); ok {
			sortDoc = append(sortDoc, bson.E{Key: name, Value: -1})
			continue
		}
		sortDoc = append(sortDoc, bson.E{Key: strings.TrimPrefix(f, "+"), Value: 1})
	}
	return sortDoc
}

// Select narrows a decoded document to the fields selector tokens keep.
// Inclusion keeps _id plus the named fields ("-_id" drops _id). A selector
// made only of exclusions drops the named fields. Empty tokens keep all.
func Select(doc map[string]any, tokens string) map[string]any {
	fields := strings.Fields(tokens)
	if len(fields) == 0 {
		return doc
	}
	include := map[string]bool{}
	exclude := map[string]bool{}
	for _, f := range fields {
		if name, ok := strings.CutPrefix(f, "-"); ok {
			exclude[name] = true
			continue
		}
		include[strings.TrimPrefix(f, "+")] = true
	}

	out := make(map[string]any, len(doc))
	for key, val := range doc {
		if exclude[key] {
			continue
		}
		if len(include) > 0 && !include[key] && key != FieldID {
			continue
		}
		out[key] = val
	}
	return out
}
