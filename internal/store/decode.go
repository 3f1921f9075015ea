package store

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/pkg/currency"
	"github.com/GregMSThompson/ascend-backend/pkg/dates"
	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

var timeType = reflect.TypeOf(time.Time{})

// legacyHook repairs values older clients wrote: masked currency text in
// numeric fields, native timestamps in string fields and numbers in text fields.
func legacyHook(from, to reflect.Type, data any) (any, error) {
	switch {
	case to.Kind() == reflect.Float64 && from.Kind() == reflect.String:
		v, err := currency.ParseInput(data.(string))
		if err != nil {
			return 0.0, nil
		}
		return v, nil
	case to.Kind() == reflect.String && from == timeType:
		return dates.ISO(data.(time.Time)), nil
	case to.Kind() == reflect.String && (from.Kind() == reflect.Float64 || from.Kind() == reflect.Int64):
		return fmt.Sprint(data), nil
	}
	return data, nil
}

func decodeInto(data map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "firestore",
		Squash:     true,
		DecodeHook: legacyHook,
		Result:     out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}

// decodeEach decodes every document, logging and skipping the ones that do not fit.
func decodeEach[T any](ctx context.Context, docs []Document, setID func(*T, string)) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := decodeInto(doc.Data, &v); err != nil {
			logger.FromContext(ctx).Warn("skipping undecodable document", "path", doc.Path, "error", err)
			continue
		}
		setID(&v, doc.ID)
		out = append(out, v)
	}
	return out
}

func DecodeTransactions(ctx context.Context, docs []Document) []models.Transaction {
	return decodeEach(ctx, docs, func(t *models.Transaction, id string) { t.ID = id })
}

func DecodeClients(ctx context.Context, docs []Document) []models.Client {
	return decodeEach(ctx, docs, func(c *models.Client, id string) { c.ID = id })
}

func DecodeTasks(ctx context.Context, docs []Document) []models.Task {
	return decodeEach(ctx, docs, func(t *models.Task, id string) { t.ID = id })
}

func DecodeMembers(ctx context.Context, docs []Document) []models.TeamMember {
	return decodeEach(ctx, docs, func(m *models.TeamMember, id string) { m.ID = id })
}

func DecodeTask(doc Document) (models.Task, error) {
	var t models.Task
	if err := decodeInto(doc.Data, &t); err != nil {
		return t, err
	}
	t.ID = doc.ID
	return t, nil
}

func DecodeTransaction(doc Document) (models.Transaction, error) {
	var tx models.Transaction
	if err := decodeInto(doc.Data, &tx); err != nil {
		return tx, err
	}
	tx.ID = doc.ID
	return tx, nil
}

func DecodeMember(doc Document) (models.TeamMember, error) {
	var m models.TeamMember
	if err := decodeInto(doc.Data, &m); err != nil {
		return m, err
	}
	m.ID = doc.ID
	return m, nil
}
