// Package query builds aggregation plans for module listings from the
// caller's selected columns, access scope and request parameters.
package query

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/traderisk/risk-backoffice/internal/core/domain"
)

// Builder turns list inputs into plans using a fixed set of module schemas.
type Builder struct {
	schemas map[string]Schema
}

// NewBuilder returns a Builder over schemas keyed by module name.
func NewBuilder(schemas map[string]Schema) *Builder {
	return &Builder{schemas: schemas}
}

// NewDefaultBuilder returns a Builder over the built-in module schemas.
func NewDefaultBuilder() *Builder {
	return NewBuilder(Schemas())
}

// Schema returns the schema of module.
func (b *Builder) Schema(module string) (Schema, error) {
	s, ok := b.schemas[module]
	if !ok {
		return Schema{}, fmt.Errorf("%w: no query schema for %q", domain.ErrModuleNotFound, module)
	}
	return s, nil
}

// Input is everything a plan is derived from.
type Input struct {
	Module  domain.ModuleDescriptor
	Columns domain.ColumnSet
	Scope   domain.AccessScope
	Caller  domain.Caller
	Request domain.ListRequest
	// RecordID narrows the plan to a single record (detail drawers).
	RecordID string
}

// Build produces the plan for in. Stored columns the module no longer
// defines are ignored; joins are emitted only for columns that are
// projected, filtered, searched or sorted on.
func (b *Builder) Build(in Input) (*Plan, error) {
	schema, err := b.Schema(in.Module.Name)
	if err != nil {
		return nil, err
	}
	req := in.Request.Normalized()
	selected := in.Module.Known(in.Columns).With(schema.Extra...)

	match, err := baseMatch(schema, in, req)
	if err != nil {
		return nil, err
	}

	var joined []bson.D
	var needs []string
	c := newContributions()

	if schema.Scope.Kind == ScopeVia && !in.Scope.FullAccess && schema.Scope.Via != nil {
		c.add(contribution{key: schema.Scope.Via.key(), stages: schema.Scope.Via.stages()})
		joined = append(joined, eq(schema.Scope.Field, bson.D{{Key: "$in", Value: objectIDs(in.Scope.ClientIDs)}}))
	}

	if schema.Filter != nil {
		clause := schema.Filter(FilterInput{Filters: req.Filters, Caller: in.Caller})
		match = append(match, clause.Match...)
		joined = append(joined, clause.Joined...)
		needs = append(needs, clause.Needs...)
	}

	if req.Search != "" && len(schema.Search) > 0 {
		local, remote := searchClauses(schema, req.Search)
		if len(remote) > 0 {
			joined = append(joined, bson.D{{Key: "$or", Value: append(local, remote...)}})
			needs = append(needs, schema.Search...)
		} else {
			match = append(match, bson.D{{Key: "$or", Value: local}})
		}
	}

	sort, err := sortStage(schema, in.Module, req)
	if err != nil {
		return nil, err
	}
	if req.SortBy != "" && req.SortBy != "_id" {
		needs = append(needs, req.SortBy)
	}

	for _, name := range selected.Names() {
		if contrib, ok := schema.Field(name).contribution(); ok {
			c.add(contrib)
		}
	}
	for _, name := range needs {
		if contrib, ok := schema.Field(name).contribution(); ok {
			c.add(contrib)
		}
	}

	stages := mongo.Pipeline{{{Key: "$match", Value: and(match)}}}
	stages = append(stages, c.pipeline()...)
	if len(joined) > 0 {
		stages = append(stages, bson.D{{Key: "$match", Value: and(joined)}})
	}
	stages = append(stages, bson.D{{Key: "$sort", Value: sort}})

	return &Plan{
		Collection: schema.Collection,
		Stages:     stages,
		Projection: projection(schema, selected),
		Page:       req.Page,
		Limit:      req.Limit,
		Columns:    selected,
	}, nil
}

func baseMatch(schema Schema, in Input, req domain.ListRequest) ([]bson.D, error) {
	var match []bson.D
	if schema.SoftDelete {
		match = append(match, notDeleted())
	}
	match = append(match, schema.Where...)

	if in.RecordID != "" {
		oid, err := ObjectID(in.RecordID, "record")
		if err != nil {
			return nil, err
		}
		match = append(match, eq("_id", oid))
	}

	// A single record is addressed by id; its parent is implied.
	if schema.Parent != "" && (in.RecordID == "" || req.ParentID != "") {
		if req.ParentID == "" {
			return nil, domain.NewValidationError(domain.CodeParentRequired, "%s is required", schema.Parent)
		}
		oid, err := ObjectID(req.ParentID, schema.Parent)
		if err != nil {
			return nil, err
		}
		match = append(match, eq(schema.Parent, oid))
	}

	scope, err := scopeMatch(schema.Scope, in, req)
	if err != nil {
		return nil, err
	}
	if scope != nil {
		match = append(match, scope)
	}
	return match, nil
}

// scopeMatch restricts a module to the caller's access scope. The creator
// filter applies at every access level.
func scopeMatch(rule ScopeRule, in Input, req domain.ListRequest) (bson.D, error) {
	if rule.Kind == ScopeCaller && req.Filters.ListCreatedBy && rule.CreatorField != "" {
		oid, err := ObjectID(in.Caller.ID, "caller")
		if err != nil {
			return nil, err
		}
		return eq(rule.CreatorField, oid), nil
	}
	if in.Scope.FullAccess {
		return nil, nil
	}
	switch rule.Kind {
	case ScopeClient:
		return eq(rule.Field, bson.D{{Key: "$in", Value: objectIDs(in.Scope.ClientIDs)}}), nil
	case ScopeCaller:
		oid, err := ObjectID(in.Caller.ID, "caller")
		if err != nil {
			return nil, err
		}
		return eq(rule.Field, oid), nil
	}
	return nil, nil
}

func searchClauses(schema Schema, term string) (local, remote bson.A) {
	for _, name := range schema.Search {
		f := schema.Field(name)
		cond := eq(f.searchPath(name), contains(term))
		if f.Ref != nil || f.Union != nil {
			remote = append(remote, cond)
		} else {
			local = append(local, cond)
		}
	}
	return local, remote
}

func sortStage(schema Schema, module domain.ModuleDescriptor, req domain.ListRequest) (bson.D, error) {
	dir := -1
	if req.SortOrder == domain.SortAsc {
		dir = 1
	}
	if req.SortBy == "" || req.SortBy == "_id" {
		return bson.D{{Key: "_id", Value: dir}}, nil
	}
	if !module.HasColumn(req.SortBy) {
		return nil, domain.NewValidationError(domain.CodeInvalidSort, "cannot sort by %q", req.SortBy)
	}
	sort := bson.D{}
	for _, key := range schema.Field(req.SortBy).sortKeys(req.SortBy) {
		sort = append(sort, bson.E{Key: key, Value: dir})
	}
	// _id breaks ties so pages never overlap.
	return append(sort, bson.E{Key: "_id", Value: -1}), nil
}

func projection(schema Schema, selected domain.ColumnSet) bson.D {
	out := bson.D{{Key: "_id", Value: 1}}
	for _, name := range selected.Names() {
		if name == "_id" {
			continue
		}
		out = append(out, bson.E{Key: name, Value: schema.Field(name).projection(name)})
	}
	return out
}

// contributions collects join stages once per key, in first-use order.
type contributions struct {
	seen  map[string]struct{}
	order []contribution
}

func newContributions() *contributions {
	return &contributions{seen: make(map[string]struct{})}
}

func (c *contributions) add(contrib contribution) {
	if _, ok := c.seen[contrib.key]; ok {
		return
	}
	c.seen[contrib.key] = struct{}{}
	c.order = append(c.order, contrib)
}

func (c *contributions) pipeline() mongo.Pipeline {
	var out mongo.Pipeline
	for _, contrib := range c.order {
		out = append(out, contrib.stages...)
	}
	return out
}
