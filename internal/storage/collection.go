package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"budgetbook/internal/core"
	"budgetbook/internal/retry"
)

// Collection is the generic CRUD adapter over one named collection. T
// is any record type whose JSON form carries an "id" field; the adapter
// generates identifiers on Add and performs field-level merges on
// Update at the JSON level, so it needs no per-type knowledge.
type Collection[T any] struct {
	driver Driver
	name   string
	kind   string // singular record name for errors and logs
	policy retry.Policy
}

// NewCollection binds a collection name to a driver. Every operation is
// individually wrapped in the bounded retry policy.
func NewCollection[T any](driver Driver, name string, policy retry.Policy) *Collection[T] {
	return &Collection[T]{
		driver: driver,
		name:   name,
		kind:   strings.TrimSuffix(name, "s"),
		policy: policy,
	}
}

// Add generates a fresh version-4 UUID, writes the record keyed by it,
// and returns the identifier.
func (c *Collection[T]) Add(ctx context.Context, record T) (string, error) {
	fields, err := toFields(record)
	if err != nil {
		return "", core.NewStorageError(fmt.Sprintf("encode %s", c.kind), err)
	}

	id := uuid.NewString()
	fields["id"] = id
	doc, err := json.Marshal(fields)
	if err != nil {
		return "", core.NewStorageError(fmt.Sprintf("encode %s", c.kind), err)
	}

	err = retry.Do(ctx, c.policy, func() error {
		return c.driver.Insert(ctx, c.name, id, doc)
	})
	if err != nil {
		return "", core.NewStorageError(fmt.Sprintf("add %s", c.kind), err)
	}

	slog.DebugContext(ctx, "Record added", "collection", c.name, "id", id)
	return id, nil
}

// GetAll returns every record in the collection. Insertion order is not
// guaranteed to be preserved; callers sort as needed.
func (c *Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	var docs [][]byte
	err := retry.Do(ctx, c.policy, func() error {
		var listErr error
		docs, listErr = c.driver.List(ctx, c.name)
		return listErr
	})
	if err != nil {
		return nil, core.NewStorageError(fmt.Sprintf("list %s", c.name), err)
	}

	records := make([]T, 0, len(docs))
	for _, doc := range docs {
		var record T
		if err := json.Unmarshal(doc, &record); err != nil {
			return nil, core.NewStorageError(fmt.Sprintf("decode %s", c.kind), err)
		}
		records = append(records, record)
	}
	return records, nil
}

// GetByID returns the record, or ok=false (not an error) when the
// identifier is unknown.
func (c *Collection[T]) GetByID(ctx context.Context, id string) (T, bool, error) {
	var record T

	var doc []byte
	var found bool
	err := retry.Do(ctx, c.policy, func() error {
		var getErr error
		doc, found, getErr = c.driver.Get(ctx, c.name, id)
		return getErr
	})
	if err != nil {
		return record, false, core.NewStorageError(fmt.Sprintf("get %s", c.kind), err)
	}
	if !found {
		return record, false, nil
	}

	if err := json.Unmarshal(doc, &record); err != nil {
		return record, false, core.NewStorageError(fmt.Sprintf("decode %s", c.kind), err)
	}
	return record, true, nil
}

// Update merges the given fields into the existing document (field-level
// overwrite, not deep merge) and writes it back under the same
// identifier. Updating an unknown id fails with *core.NotFoundError.
func (c *Collection[T]) Update(ctx context.Context, id string, fields map[string]any) error {
	err := retry.Do(ctx, c.policy, func() error {
		doc, found, getErr := c.driver.Get(ctx, c.name, id)
		if getErr != nil {
			return getErr
		}
		if !found {
			return &core.NotFoundError{Kind: c.kind, ID: id}
		}

		merged := make(map[string]any)
		if err := json.Unmarshal(doc, &merged); err != nil {
			return err
		}
		for k, v := range fields {
			merged[k] = v
		}
		merged["id"] = id

		out, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		return c.driver.Put(ctx, c.name, id, out)
	})
	if err != nil {
		var notFound *core.NotFoundError
		if errors.As(err, &notFound) {
			return notFound
		}
		return core.NewStorageError(fmt.Sprintf("update %s", c.kind), err)
	}

	slog.DebugContext(ctx, "Record updated", "collection", c.name, "id", id)
	return nil
}

// Delete removes the record. Deleting an unknown identifier is a no-op.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	err := retry.Do(ctx, c.policy, func() error {
		return c.driver.Delete(ctx, c.name, id)
	})
	if err != nil {
		return core.NewStorageError(fmt.Sprintf("delete %s", c.kind), err)
	}
	return nil
}

func toFields(record any) (map[string]any, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

