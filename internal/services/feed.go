package services

import (
	"context"

	"github.com/GregMSThompson/ascend-backend/internal/dto"
	"github.com/GregMSThompson/ascend-backend/internal/errs"
	"github.com/GregMSThompson/ascend-backend/internal/models"
	"github.com/GregMSThompson/ascend-backend/pkg/dates"
	"github.com/GregMSThompson/ascend-backend/pkg/logger"
)

// Feed writes replace the whole updates array. Two people appending at the
// same moment can lose one entry; the last write wins.

func (s *recordService) Feed(ctx context.Context, actor Actor, taskID string) (dto.FeedView, error) {
	if err := s.authorize(actor, models.KindTasks); err != nil {
		return dto.FeedView{}, err
	}
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return dto.FeedView{}, err
	}
	view := dto.FeedView{TaskID: task.ID, Updates: []models.Update{}, LastUpdate: task.LastUpdate}
	switch r := task.Report().(type) {
	case models.LegacyReport:
		view.LegacyReport = r.Text
	case models.UpdateFeed:
		view.Updates = append(view.Updates, r.Entries...)
	}
	return view, nil
}

func (s *recordService) AppendUpdate(ctx context.Context, actor Actor, taskID string, in dto.UpdateText) (models.Update, error) {
	ctx, span := tracer.Start(ctx, "records.AppendUpdate", withSpanKind(models.KindTasks))
	defer span.End()

	if err := in.Validate(); err != nil {
		return models.Update{}, err
	}
	if err := s.authorize(actor, models.KindTasks); err != nil {
		return models.Update{}, err
	}
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return models.Update{}, err
	}

	now := dates.ISO(s.Clock())
	entry := models.Update{ID: newID(), Text: in.Text, Author: actor.Email, Timestamp: now}
	fields := map[string]any{
		"updates":    updateMaps(prependUpdate(task.Updates, entry)),
		"lastUpdate": now,
	}
	if err := s.Docs.Set(ctx, s.Layout.Doc(models.KindTasks, taskID), s.stamp(fields, actor, false), true); err != nil {
		return models.Update{}, s.fail(ctx, span, "add task update", err)
	}
	logger.FromContext(ctx).Info("task update added", "task", taskID, "update", entry.ID)
	return entry, nil
}

// EditUpdate changes the text of an entry. Only its author may do so.
func (s *recordService) EditUpdate(ctx context.Context, actor Actor, taskID, updateID string, in dto.UpdateText) error {
	ctx, span := tracer.Start(ctx, "records.EditUpdate", withSpanKind(models.KindTasks))
	defer span.End()

	if err := in.Validate(); err != nil {
		return err
	}
	if err := s.authorize(actor, models.KindTasks); err != nil {
		return err
	}
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return err
	}
	updates, err := editUpdate(task.Updates, updateID, actor, in.Text)
	if err != nil {
		return err
	}
	fields := map[string]any{"updates": updateMaps(updates)}
	if err := s.Docs.Set(ctx, s.Layout.Doc(models.KindTasks, taskID), s.stamp(fields, actor, false), true); err != nil {
		return s.fail(ctx, span, "edit task update", err)
	}
	return nil
}

// RemoveUpdate deletes an entry. Its author, an admin or a dev may do so.
func (s *recordService) RemoveUpdate(ctx context.Context, actor Actor, taskID, updateID string) error {
	ctx, span := tracer.Start(ctx, "records.RemoveUpdate", withSpanKind(models.KindTasks))
	defer span.End()

	if err := s.authorize(actor, models.KindTasks); err != nil {
		return err
	}
	task, err := s.loadTask(ctx, taskID)
	if err != nil {
		return err
	}
	updates, err := removeUpdate(task.Updates, updateID, actor)
	if err != nil {
		return err
	}
	fields := map[string]any{"updates": updateMaps(updates)}
	if err := s.Docs.Set(ctx, s.Layout.Doc(models.KindTasks, taskID), s.stamp(fields, actor, false), true); err != nil {
		return s.fail(ctx, span, "remove task update", err)
	}
	return nil
}

func prependUpdate(list []models.Update, entry models.Update) []models.Update {
	out := make([]models.Update, 0, len(list)+1)
	out = append(out, entry)
	return append(out, list...)
}

func findUpdate(list []models.Update, id string) (int, error) {
	for i, u := range list {
		if u.ID == id {
			return i, nil
		}
	}
	return -1, errs.NewNotFoundError("update not found")
}

func editUpdate(list []models.Update, id string, actor Actor, text string) ([]models.Update, error) {
	i, err := findUpdate(list, id)
	if err != nil {
		return nil, err
	}
	if !actor.is(list[i].Author) {
		return nil, errs.NewPermissionError("only the author can edit this update")
	}
	out := append([]models.Update(nil), list...)
	out[i].Text = text
	return out, nil
}

func removeUpdate(list []models.Update, id string, actor Actor) ([]models.Update, error) {
	i, err := findUpdate(list, id)
	if err != nil {
		return nil, err
	}
	if !actor.is(list[i].Author) && !actor.Grant.Elevated() {
		return nil, errs.NewPermissionError("only the author can remove this update")
	}
	out := make([]models.Update, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}

func updateMaps(list []models.Update) []any {
	out := make([]any, len(list))
	for i, u := range list {
		out[i] = map[string]any{"id": u.ID, "text": u.Text, "author": u.Author, "timestamp": u.Timestamp}
	}
	return out
}
