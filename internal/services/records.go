package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/officehub/internal/models"
	"github.com/dimitrije/officehub/internal/store"
)

type entity[T any] interface {
	*T
	SetMeta(id string, version int64)
}

func load[T any, P entity[T]](ctx context.Context, st store.Store, path string, notFound error) (*T, error) {
	rec, err := st.Get(ctx, path)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidPath) {
		return nil, notFound
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	v, err := models.Decode[T, P](*rec)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func list[T any, P entity[T]](ctx context.Context, st store.Store, path string) ([]T, error) {
	snap, err := st.List(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	return models.DecodeAll[T, P](snap), nil
}

func create[T any, P entity[T]](ctx context.Context, st store.Store, collection string, value *T) (*T, error) {
	rec, err := st.Push(ctx, collection, value)
	if err != nil {
		return nil, logWriteErr("create", collection, err)
	}
	P(value).SetMeta(rec.Key, rec.Version)
	return value, nil
}

func patch[T any, P entity[T]](ctx context.Context, st store.Store, path string, fields map[string]any, expectedVersion int64, notFound error) (*T, error) {
	rec, err := st.Update(ctx, path, fields, expectedVersion)
	if errors.Is(err, store.ErrNotFound) {
		return nil, notFound
	}
	if err != nil {
		return nil, logWriteErr("update", path, err)
	}
	v, err := models.Decode[T, P](*rec)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func remove(ctx context.Context, st store.Store, path string) error {
	return logWriteErr("delete", path, st.Delete(ctx, path))
}

func validDate(s string) bool {
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}
