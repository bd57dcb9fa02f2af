package mongostore

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"tboard/internal/service"
)

func boardBSON(version int64) bson.D {
	return bson.D{
		{Key: "_id", Value: "b1"},
		{Key: "name", Value: "Home"},
		{Key: "createdBy", Value: "u1"},
		{Key: "assignedTo", Value: bson.A{"u1"}},
		{Key: "taskList", Value: bson.A{
			bson.D{
				{Key: "title", Value: "Todo"},
				{Key: "createdBy", Value: "u1"},
				{Key: "cards", Value: bson.A{
					bson.D{
						{Key: "name", Value: "Milk"},
						{Key: "createdBy", Value: "u1"},
						{Key: "assignedTo", Value: bson.A{"u1"}},
						{Key: "labelColor", Value: "#0C90F1"},
					},
				}},
			},
		}},
		{Key: "version", Value: version},
	}
}

func TestFetchBoard(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "tboard.boards", mtest.FirstBatch, boardBSON(3)))
		c := NewWithDatabase(mt.DB, "u1")

		b, err := c.FetchBoard(context.Background(), "b1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := service.Board{
			ID:         "b1",
			Name:       "Home",
			CreatedBy:  "u1",
			AssignedTo: []string{"u1"},
			TaskLists: []service.TaskList{{
				Title:     "Todo",
				CreatedBy: "u1",
				Cards:     []service.Card{{Title: "Milk", CreatedBy: "u1", AssignedTo: []string{"u1"}, LabelColor: "#0C90F1"}},
			}},
			Version: "3",
		}
		if diff := cmp.Diff(want, b); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	mt.Run("filters on membership", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "tboard.boards", mtest.FirstBatch, boardBSON(3)))
		c := NewWithDatabase(mt.DB, "u1")

		if _, err := c.FetchBoard(context.Background(), "b1"); err != nil {
			mt.Fatalf("unexpected error: %v", err)
		}
		evt := mt.GetStartedEvent()
		if got, ok := evt.Command.Lookup("filter", "assignedTo").StringValueOK(); !ok || got != "u1" {
			mt.Errorf("find filter has assignedTo %q, expected u1", got)
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "tboard.boards", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "tboard.boards", mtest.FirstBatch),
		)
		c := NewWithDatabase(mt.DB, "u1")

		_, err := c.FetchBoard(context.Background(), "missing")
		if !errors.Is(err, service.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("not a member", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "tboard.boards", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "tboard.boards", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "b1"},
				{Key: "assignedTo", Value: bson.A{"u2"}},
			}),
		)
		c := NewWithDatabase(mt.DB, "u1")

		_, err := c.FetchBoard(context.Background(), "b1")
		if !errors.Is(err, service.ErrPermissionDenied) {
			mt.Fatalf("expected ErrPermissionDenied, got %v", err)
		}
	})
}

func TestSaveTaskLists(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	lists := []service.TaskList{{Title: "Todo", CreatedBy: "u1"}}

	mt.Run("matched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		c := NewWithDatabase(mt.DB, "u1")

		if err := c.SaveTaskLists(context.Background(), "b1", "3", lists); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	mt.Run("stale version", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, "tboard.boards", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "b1"},
				{Key: "assignedTo", Value: bson.A{"u1"}},
			}),
		)
		c := NewWithDatabase(mt.DB, "u1")

		err := c.SaveTaskLists(context.Background(), "b1", "2", lists)
		if !errors.Is(err, service.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	mt.Run("missing board", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, "tboard.boards", mtest.FirstBatch),
		)
		c := NewWithDatabase(mt.DB, "u1")

		err := c.SaveMembers(context.Background(), "gone", "1", []string{"u1"})
		if !errors.Is(err, service.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	mt.Run("not a member", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}),
			mtest.CreateCursorResponse(0, "tboard.boards", mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "b1"},
				{Key: "assignedTo", Value: bson.A{"u2"}},
			}),
		)
		c := NewWithDatabase(mt.DB, "u1")

		err := c.SaveTaskLists(context.Background(), "b1", "3", lists)
		if !errors.Is(err, service.ErrPermissionDenied) {
			mt.Fatalf("expected ErrPermissionDenied, got %v", err)
		}
		evt := mt.GetStartedEvent()
		if got, ok := evt.Command.Lookup("updates", "0", "q", "assignedTo").StringValueOK(); !ok || got != "u1" {
			mt.Errorf("update filter has assignedTo %q, expected u1", got)
		}
	})
}

func TestSaveTaskLists_InvalidVersion(t *testing.T) {
	c := NewWithDatabase(nil, "u1")
	err := c.SaveTaskLists(context.Background(), "b1", "2026-01-01T00:00:00Z", nil)
	if !errors.Is(err, service.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestFetchUsers_KeepsRequestOrder(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("order", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "tboard.users", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "u1"}, {Key: "name", Value: "Ann"}, {Key: "email", Value: "ann@example.com"}},
			bson.D{{Key: "_id", Value: "u2"}, {Key: "name", Value: "Bob"}, {Key: "email", Value: "bob@example.com"}},
		))
		c := NewWithDatabase(mt.DB, "u1")

		users, err := c.FetchUsers(context.Background(), []string{"u2", "ghost", "u1"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []service.User{
			{ID: "u2", Name: "Bob", Email: "bob@example.com"},
			{ID: "u1", Name: "Ann", Email: "ann@example.com"},
		}
		if diff := cmp.Diff(want, users); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestToTaskListDocs_NoNullArrays(t *testing.T) {
	docs := toTaskListDocs([]service.TaskList{{Title: "A", Cards: []service.Card{{Title: "c"}}}})
	if docs[0].Cards[0].AssignedTo == nil {
		t.Error("expected an empty assignee array, got nil")
	}
	if docs := toTaskListDocs([]service.TaskList{{Title: "B"}}); docs[0].Cards == nil {
		t.Error("expected an empty card array, got nil")
	}
}

func TestWrapError(t *testing.T) {
	tests := []struct {
		err  error
		want error
	}{
		{mongo.ErrNoDocuments, service.ErrNotFound},
		{mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}, service.ErrConflict},
		{mongo.CommandError{Code: 13, Message: "unauthorized"}, service.ErrPermissionDenied},
		{fmt.Errorf("find: %w", context.DeadlineExceeded), service.ErrUnavailable},
	}

	for _, tt := range tests {
		if got := wrapError(tt.err); !errors.Is(got, tt.want) {
			t.Errorf("wrapError(%v) = %v, expected %v", tt.err, got, tt.want)
		}
	}
	if wrapError(nil) != nil {
		t.Error("expected nil")
	}
}
