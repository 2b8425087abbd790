/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package repository

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/tomoncle/roster/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/schema"
)

type baseRepositoryImpl[T any] struct {
	db *bun.DB
}

// NewRepository returns a generic repository backed by the provided Bun DB.
func NewRepository[T any](db *bun.DB) Repository[T] {
	return &baseRepositoryImpl[T]{db: db}
}

func (r *baseRepositoryImpl[T]) Dialect() schema.Dialect { return r.db.Dialect() }

func (r *baseRepositoryImpl[T]) NewSelect() *bun.SelectQuery { return r.db.NewSelect() }

func (r *baseRepositoryImpl[T]) NewInsert() *bun.InsertQuery { return r.db.NewInsert() }

func (r *baseRepositoryImpl[T]) NewUpdate() *bun.UpdateQuery { return r.db.NewUpdate() }

func (r *baseRepositoryImpl[T]) NewDelete() *bun.DeleteQuery { return r.db.NewDelete() }

func (r *baseRepositoryImpl[T]) GetOne(ctx context.Context, id any) (*T, error) {
	var entity T
	err := r.db.NewSelect().Model(&entity).Where("?TableAlias.id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *baseRepositoryImpl[T]) GetAll(ctx context.Context) ([]*T, error) {
	var entities []*T
	err := r.db.NewSelect().Model(&entities).Order("id ASC").Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) List(ctx context.Context, filter QueryFilter) ([]*T, error) {
	entities := make([]*T, 0)
	query := r.db.NewSelect().Model(&entities)
	if filter != nil {
		query = filter.Apply(query)
	}
	if err := query.OrderExpr("?TableAlias.id ASC").Scan(ctx); err != nil {
		return nil, err
	}
	return entities, nil
}

func (r *baseRepositoryImpl[T]) Query(ctx context.Context, query string, args ...interface{}) ([]*T, error) {
	var entities []*T
	err := r.db.NewSelect().Model(&entities).Where(query, args...).Scan(ctx)
	return entities, err
}

func (r *baseRepositoryImpl[T]) Count(ctx context.Context, filter QueryFilter) (int, error) {
	query := r.db.NewSelect().Model((*T)(nil))
	if filter != nil {
		query = filter.Apply(query)
	}
	return query.Count(ctx)
}

// Page always issues a count; the member search executor is the place for
// count elision. Order properties are column names of T, sorted with NULLs
// last and the id as final tie-break.
func (r *baseRepositoryImpl[T]) Page(ctx context.Context, filter QueryFilter, page types.PageRequest) (*types.Page[T], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if err := r.validateOrders(page.GetOrders()); err != nil {
		return nil, err
	}
	entities := make([]*T, 0)
	query := r.db.NewSelect().Model(&entities)
	if filter != nil {
		query = filter.Apply(query)
	}
	total, err := query.Count(ctx)
	if err != nil {
		return nil, err
	}
	if total == 0 || page.GetOffset() >= total {
		return types.NewPage(entities, page, total), nil
	}
	for _, order := range page.GetOrders() {
		col := bun.Ident(order.Property)
		query = query.OrderExpr("?TableAlias.? IS NULL, ?TableAlias.? "+order.Direction.Name(), col, col)
	}
	err = query.
		OrderExpr("?TableAlias.id ASC").
		Offset(page.GetOffset()).
		Limit(page.GetPageSize()).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return types.NewPage(entities, page, total), nil
}

func (r *baseRepositoryImpl[T]) validateOrders(orders []types.Order) error {
	table := r.db.Table(reflect.TypeOf((*T)(nil)).Elem())
	for _, order := range orders {
		if _, ok := table.FieldMap[order.Property]; !ok {
			return fmt.Errorf("%w: unknown sort column %q for table %s", types.ErrInvalidArgument, order.Property, table.Name)
		}
	}
	return nil
}

func (r *baseRepositoryImpl[T]) Create(ctx context.Context, entity ...*T) error {
	if len(entity) == 0 {
		return nil
	}
	entities := valsToSlice(entity...)
	_, err := r.db.NewInsert().Model(&entities).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Upsert(ctx context.Context, fields []string, duplicateKeys []string, entity ...*T) error {
	return r.multipleUpsert(ctx, nil, fields, duplicateKeys, entity...)
}

func (r *baseRepositoryImpl[T]) Update(ctx context.Context, entity *T) error {
	_, err := r.db.NewUpdate().Model(entity).WherePK().Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) Delete(ctx context.Context, id any) error {
	_, err := r.db.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) CreateWithTx(ctx context.Context, tx *bun.Tx, entity ...*T) error {
	if len(entity) == 0 {
		return nil
	}
	entities := valsToSlice(entity...)
	_, err := tx.NewInsert().Model(&entities).Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) UpsertWithTx(ctx context.Context, tx *bun.Tx, fields []string, duplicateKeys []string, entity ...*T) error {
	return r.multipleUpsert(ctx, tx, fields, duplicateKeys, entity...)
}

func (r *baseRepositoryImpl[T]) UpdateWithTx(ctx context.Context, tx *bun.Tx, entity *T) error {
	_, err := tx.NewUpdate().Model(entity).WherePK().Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) DeleteWithTx(ctx context.Context, tx *bun.Tx, id any) error {
	_, err := tx.NewDelete().Model((*T)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}

func valsToSlice[T any](entity ...*T) []*T {
	entities := make([]*T, len(entity))
	copy(entities, entity)
	return entities
}

func (r *baseRepositoryImpl[T]) multipleUpsert(ctx context.Context, tx *bun.Tx, fields []string, duplicateKeys []string, entity ...*T) error {
	if len(fields) == 0 {
		return fmt.Errorf("fields cannot be empty")
	}
	if len(entity) == 0 {
		return nil
	}

	var insertQuery *bun.InsertQuery
	if tx != nil {
		insertQuery = tx.NewInsert()
	} else {
		insertQuery = r.db.NewInsert()
	}

	entities := valsToSlice(entity...)

	switch {
	case r.db.HasFeature(feature.InsertOnConflict):
		return r.upsertOnConflict(ctx, insertQuery, fields, duplicateKeys, entities)
	case r.db.HasFeature(feature.InsertOnDuplicateKey):
		return r.upsertOnDuplicateKey(ctx, insertQuery, fields, entities)
	default:
		return r.upsertFallback(ctx, tx, entities)
	}
}

func (r *baseRepositoryImpl[T]) upsertOnDuplicateKey(ctx context.Context, insertQuery *bun.InsertQuery, fields []string, entities []*T) error {
	queryArgs := make([]string, 0, len(fields))
	for _, field := range fields {
		queryArgs = append(queryArgs, fmt.Sprintf("%s = VALUES(%s)", field, field))
	}
	_, err := insertQuery.
		Model(&entities).
		On("DUPLICATE KEY UPDATE " + strings.Join(queryArgs, ", ")).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertOnConflict(ctx context.Context, insertQuery *bun.InsertQuery, fields []string, duplicateKeys []string, entities []*T) error {
	if len(duplicateKeys) == 0 {
		duplicateKeys = []string{"id"}
	}
	queryArgs := make([]string, 0, len(fields))
	for _, field := range fields {
		queryArgs = append(queryArgs, fmt.Sprintf("%s = EXCLUDED.%s", field, field))
	}
	_, err := insertQuery.
		Model(&entities).
		On("CONFLICT (" + strings.Join(duplicateKeys, ",") + ") DO UPDATE").
		Set(strings.Join(queryArgs, ", ")).
		Exec(ctx)
	return err
}

func (r *baseRepositoryImpl[T]) upsertFallback(ctx context.Context, tx *bun.Tx, entities []*T) error {
	var db bun.IDB = r.db
	if tx != nil {
		db = tx
	}
	for _, entity := range entities {
		_, err := db.NewInsert().Model(entity).Exec(ctx)
		if err != nil {
			_, updateErr := db.NewUpdate().Model(entity).WherePK().Exec(ctx)
			if updateErr != nil {
				return fmt.Errorf("upsert failed for entity: insert error: %v, update error: %v", err, updateErr)
			}
		}
	}
	return nil
}
