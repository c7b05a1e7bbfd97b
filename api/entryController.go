package api

import (
	"context"
	"net/http"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
	"github.com/mdblp/health-tracker/usecase"
)

// Handlers shared by the resources addressed by a numeric id.

func createEntry[T any, PT interface {
	*T
	schema.Entry
}](entries *usecase.Entries[T, PT]) HandlerLoggerFunc {
	return func(ctx context.Context, res *common.HttpResponseWriter) error {
		var entry T
		if derr := decodeBody(res, &entry); derr != nil {
			return res.WriteError(derr)
		}
		created, derr := entries.Create(ctx, &entry)
		return writeResult(res, http.StatusCreated, created, derr)
	}
}

func getEntry[T any, PT interface {
	*T
	schema.Entry
}](entries *usecase.Entries[T, PT]) HandlerLoggerFunc {
	return func(ctx context.Context, res *common.HttpResponseWriter) error {
		id, derr := pathID(res)
		if derr != nil {
			return res.WriteError(derr)
		}
		entry, derr := entries.Get(ctx, id)
		return writeResult(res, http.StatusOK, entry, derr)
	}
}

// updateEntry the body fields are applied over the stored entry, absent fields are kept
func updateEntry[T any, PT interface {
	*T
	schema.Entry
}](entries *usecase.Entries[T, PT]) HandlerLoggerFunc {
	return func(ctx context.Context, res *common.HttpResponseWriter) error {
		id, derr := pathID(res)
		if derr != nil {
			return res.WriteError(derr)
		}
		entry, derr := entries.Update(ctx, id, func(entry *T) error {
			return res.DecodeBody(entry)
		})
		return writeResult(res, http.StatusOK, entry, derr)
	}
}

func deleteEntry[T any, PT interface {
	*T
	schema.Entry
}](entries *usecase.Entries[T, PT]) HandlerLoggerFunc {
	return func(ctx context.Context, res *common.HttpResponseWriter) error {
		id, derr := pathID(res)
		if derr != nil {
			return res.WriteError(derr)
		}
		return writeNoContent(res, entries.Delete(ctx, id))
	}
}
