package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"taskboard/contexts/crm/task-comments-service/domain/entities"
	domainerrors "taskboard/contexts/crm/task-comments-service/domain/errors"
	httptransport "taskboard/contexts/crm/task-comments-service/transport/http"
)

func captureHandler() (Handler, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return Handler{Logger: logger}, &buf
}

func logRecords(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("decode log line %q: %v", line, err)
		}
		records = append(records, record)
	}
	return records
}

func TestHandlersLogReceivedAndFailedAtTransportLayer(t *testing.T) {
	handler, buf := captureHandler()
	actor := entities.Identity{UserID: "u1", Role: entities.RoleUser}

	_, err := handler.CreateTaskHandler(context.Background(), actor, httptransport.CreateTaskRequest{Description: " ", Comment: "C"})
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	_, err = handler.GetCommentHandler(context.Background(), "42")
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	records := logRecords(t, buf)
	wantEvents := []string{
		"taskboard_http_create_task_received",
		"taskboard_http_create_task_failed",
		"taskboard_http_get_comment_received",
		"taskboard_http_get_comment_failed",
	}
	if len(records) != len(wantEvents) {
		t.Fatalf("expected %d records, got %d: %s", len(wantEvents), len(records), buf.String())
	}
	for i, want := range wantEvents {
		record := records[i]
		if record["event"] != want {
			t.Fatalf("record %d: expected event %q, got %v", i, want, record["event"])
		}
		if record["layer"] != "transport" || record["module"] != moduleName {
			t.Fatalf("record %d: unexpected layer/module %+v", i, record)
		}
	}
	if records[0]["actor_id"] != "u1" {
		t.Fatalf("expected actor_id on create task records, got %+v", records[0])
	}
	if records[1]["level"] != "WARN" || records[1]["error"] == nil {
		t.Fatalf("expected warn record with error, got %+v", records[1])
	}
}

func TestSuccessfulRequestLogsOnlyReceipt(t *testing.T) {
	handler, buf := captureHandler()

	handler.trace("list_tasks")(new(error))

	records := logRecords(t, buf)
	if len(records) != 1 || records[0]["event"] != "taskboard_http_list_tasks_received" {
		t.Fatalf("expected a single received record, got %s", buf.String())
	}
}
