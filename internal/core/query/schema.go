package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

// Display selects how the shaper renders a column value.
type Display int

const (
	DisplayText Display = iota
	DisplayYesNo
	// DisplayLink wraps the value with the id of the record it navigates to.
	DisplayLink
	// DisplayReference renders a resolved discriminated reference as
	// {_id, value, type}.
	DisplayReference
	DisplayFullAddress
	DisplayPeriod
)

// Join is a lookup of LocalField against ForeignField of From.
type Join struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
	// Many keeps the joined array; single joins are unwound with missing
	// matches preserved.
	Many bool
}

func (j Join) as() string {
	if j.As != "" {
		return j.As
	}
	return j.LocalField + "Ref"
}

func (j Join) foreign() string {
	if j.ForeignField != "" {
		return j.ForeignField
	}
	return "_id"
}

func (j Join) key() string { return "join:" + j.as() }

func (j Join) stages() mongo.Pipeline {
	out := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: j.From},
			{Key: "localField", Value: j.LocalField},
			{Key: "foreignField", Value: j.foreign()},
			{Key: "as", Value: j.as()},
		}}},
	}
	if !j.Many {
		out = append(out, bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + j.as()},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}})
	}
	return out
}

// Union is a reference whose collection is chosen per record by TypeField.
// After its stages run, Field holds {_id, name, type}.
type Union struct {
	Field     string
	TypeField string
	Variants  []domain.EntityType
}

func (u Union) key() string { return "union:" + u.Field }

// stages emits one guarded lookup per variant. Only the branch whose
// discriminator matches can return a record, so the merge picks at most one.
func (u Union) stages() mongo.Pipeline {
	out := make(mongo.Pipeline, 0, len(u.Variants)+2)
	names := bson.A{}
	temps := bson.A{}
	for i, v := range u.Variants {
		target, ok := TargetFor(v)
		if !ok {
			continue
		}
		as := fmt.Sprintf("_%s_%d", u.Field, i)
		out = append(out, bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: target.Collection},
			{Key: "let", Value: bson.D{
				{Key: "refId", Value: "$" + u.Field},
				{Key: "refType", Value: "$" + u.TypeField},
			}},
			{Key: "pipeline", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "$expr", Value: bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$eq", Value: bson.A{"$$refType", string(v)}}},
					bson.D{{Key: "$eq", Value: bson.A{"$_id", "$$refId"}}},
				}}}}}}},
				bson.D{{Key: "$project", Value: bson.D{{Key: "name", Value: "$" + target.NameField}}}},
				bson.D{{Key: "$limit", Value: 1}},
			}},
			{Key: "as", Value: as},
		}}})
		names = append(names, "$"+as+".name")
		temps = append(temps, as)
	}
	out = append(out,
		bson.D{{Key: "$addFields", Value: bson.D{{Key: u.Field, Value: bson.D{
			{Key: "_id", Value: "$" + u.Field},
			{Key: "type", Value: "$" + u.TypeField},
			{Key: "name", Value: bson.D{{Key: "$ifNull", Value: bson.A{
				bson.D{{Key: "$arrayElemAt", Value: bson.A{bson.D{{Key: "$concatArrays", Value: names}}, 0}}},
				"",
			}}}},
		}}}}},
		bson.D{{Key: "$unset", Value: temps}},
	)
	return out
}

// Field describes how one column is read, joined, sorted and displayed.
// The zero value is a plain local field named after the column.
type Field struct {
	Ref   *Join
	Union *Union
	// Attr is read from the joined record when Ref is set.
	Attr string
	// Path is the local source path; defaults to the column name.
	Path    string
	Display Display
}

func (f Field) source(column string) string {
	if f.Path != "" {
		return f.Path
	}
	return column
}

// sortKeys returns the paths a sort on this column orders by.
func (f Field) sortKeys(column string) []string {
	switch {
	case f.Ref != nil:
		return []string{f.Ref.as() + "." + f.Attr}
	case f.Union != nil:
		return []string{f.Union.Field + ".name"}
	case f.Display == DisplayPeriod:
		return []string{"year", "month"}
	}
	return []string{f.source(column)}
}

// searchPath is the path a regex search on this column matches.
func (f Field) searchPath(column string) string {
	return f.sortKeys(column)[0]
}

func (f Field) projection(column string) any {
	switch {
	case f.Ref != nil:
		value := "$" + f.Ref.as() + "." + f.Attr
		if f.Display == DisplayLink {
			return bson.D{{Key: "id", Value: "$" + f.Ref.LocalField}, {Key: "value", Value: value}}
		}
		return value
	case f.Union != nil:
		return "$" + f.Union.Field
	case f.Display == DisplayLink:
		return bson.D{{Key: "id", Value: "$_id"}, {Key: "value", Value: "$" + f.source(column)}}
	case f.Display == DisplayPeriod:
		return bson.D{{Key: "month", Value: "$month"}, {Key: "year", Value: "$year"}}
	}
	if src := f.source(column); src != column {
		return "$" + src
	}
	return 1
}

// contribution is a deduplicated group of stages a column depends on.
type contribution struct {
	key    string
	stages mongo.Pipeline
}

func (f Field) contribution() (contribution, bool) {
	switch {
	case f.Ref != nil:
		return contribution{key: f.Ref.key(), stages: f.Ref.stages()}, true
	case f.Union != nil:
		return contribution{key: f.Union.key(), stages: f.Union.stages()}, true
	}
	return contribution{}, false
}

// ScopeKind selects how an AccessScope restricts a module.
type ScopeKind int

const (
	// ScopeNone leaves the module unrestricted.
	ScopeNone ScopeKind = iota
	// ScopeClient matches Field against the visible client ids.
	ScopeClient
	// ScopeCaller matches Field (or CreatorField) against the caller id.
	ScopeCaller
	// ScopeVia joins Via and matches Field of the joined records against the
	// visible client ids.
	ScopeVia
)

type ScopeRule struct {
	Kind         ScopeKind
	Field        string
	CreatorField string
	Via          *Join
}

// FilterInput is what a module filter sees of the request.
type FilterInput struct {
	Filters domain.Filters
	Caller  domain.Caller
}

// Clause is a module filter's contribution to the plan. Match conditions run
// with the base match; Joined conditions run after the joins for Needs.
type Clause struct {
	Match  []bson.D
	Joined []bson.D
	Needs  []string
}

// FilterFunc translates entity-specific filters into a Clause.
type FilterFunc func(in FilterInput) Clause

// Schema is the query side of a module: where it lives, how each column is
// resolved and how callers are scoped.
type Schema struct {
	Collection string
	Fields     map[string]Field
	// Search lists the columns a free-text term is matched against.
	Search []string
	Scope  ScopeRule
	// Parent is matched against ListRequest.ParentID and is then required.
	Parent string
	Where  []bson.D
	// Extra columns are always projected but never returned as headers.
	Extra      []string
	SoftDelete bool
	Filter     FilterFunc
}

// Field returns the column's field description.
func (s Schema) Field(column string) Field {
	return s.Fields[column]
}
