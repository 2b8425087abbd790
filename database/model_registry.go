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

package database

import (
	"reflect"
	"sort"
	"sync"
)

var defaultRegistry = newModelRegistry()

// SQLModel is a Bun model created by migration 001. Instance returns a struct
// pointer, Priority orders creation (lower first) so referenced tables exist
// before the tables pointing at them.
type SQLModel interface {
	Instance() interface{}
	Priority() int
}

// IndexedModel is implemented by models that want secondary indexes created
// alongside their table.
type IndexedModel interface {
	Indexes() []ModelIndex
}

// ModelIndex is a named, non-unique index over one or more columns.
type ModelIndex struct {
	Name    string
	Columns []string
}

func Index(name string, columns ...string) ModelIndex {
	return ModelIndex{Name: name, Columns: columns}
}

// ModelRegistry keeps one entry per Go model type.
type ModelRegistry interface {
	Register(model SQLModel)
	Models() []SQLModel
}

type modelRegistry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]SQLModel
	order  []reflect.Type
}

func newModelRegistry() ModelRegistry {
	return &modelRegistry{byType: make(map[reflect.Type]SQLModel)}
}

// Register adds model. A second registration of the same Go type is ignored,
// so registration helpers may run more than once.
func (r *modelRegistry) Register(model SQLModel) {
	t := reflect.TypeOf(model.Instance())
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byType[t]; ok {
		return
	}
	r.byType[t] = model
	r.order = append(r.order, t)
}

// Models returns the registered models by ascending priority, ties in
// registration order.
func (r *modelRegistry) Models() []SQLModel {
	r.mu.RLock()
	result := make([]SQLModel, 0, len(r.order))
	for _, t := range r.order {
		result = append(result, r.byType[t])
	}
	r.mu.RUnlock()

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Priority() < result[j].Priority()
	})
	return result
}

type ModelAdapter struct {
	instance interface{}
	priority int
	indexes  []ModelIndex
}

var _ IndexedModel = (*ModelAdapter)(nil)

// NewModelAdapter wraps a Bun model pointer, its creation priority and any
// secondary indexes into an SQLModel.
func NewModelAdapter(instance interface{}, priority int, indexes ...ModelIndex) SQLModel {
	return &ModelAdapter{
		instance: instance,
		priority: priority,
		indexes:  indexes,
	}
}

func (a *ModelAdapter) Instance() interface{} { return a.instance }

func (a *ModelAdapter) Priority() int { return a.priority }

func (a *ModelAdapter) Indexes() []ModelIndex { return a.indexes }

func GetRegisteredModels() []SQLModel {
	return defaultRegistry.Models()
}

// RegisteredModel adds a model to the default registry.
func RegisteredModel(model SQLModel) {
	defaultRegistry.Register(model)
}

// RegisteredModelInstances returns the model pointers of the default
// registry in creation order, ready for bun.DB.RegisterModel.
func RegisteredModelInstances() []interface{} {
	models := GetRegisteredModels()
	instances := make([]interface{}, len(models))
	for i, model := range models {
		instances[i] = model.Instance()
	}
	return instances
}
