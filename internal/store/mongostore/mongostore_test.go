package mongostore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/01moynul/mtd-portal/internal/database"
	"github.com/01moynul/mtd-portal/internal/store"
	"github.com/01moynul/mtd-portal/internal/store/storetest"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStoreContract(t *testing.T) {
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("set MONGO_TEST_URI to run")
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	n := 0
	storetest.Run(t, func(t *testing.T) *store.Store {
		n++
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		name := fmt.Sprintf("portal_test_%d_%d", time.Now().UnixNano(), n)
		provider := database.NewProvider(uri, name, 10*time.Second, log)
		db, err := provider.DB(ctx)
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		if err := database.EnsureIndexes(ctx, db); err != nil {
			t.Fatalf("indexes: %v", err)
		}
		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = db.Drop(ctx)
			_ = provider.Close(ctx)
		})
		return New(db)
	})
}

func TestSetDocDropsNilFields(t *testing.T) {
	name := "Renamed"
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	doc, err := setDoc(struct {
		Name     *string `bson:"name,omitempty"`
		Password *string `bson:"password,omitempty"`
	}{Name: &name}, now)
	if err != nil {
		t.Fatalf("setDoc: %v", err)
	}
	set, ok := doc["$set"].(bson.M)
	if !ok {
		t.Fatalf("expected $set document, got %T", doc["$set"])
	}
	if set["name"] != "Renamed" {
		t.Fatalf("expected name in $set, got %v", set)
	}
	if _, ok := set["password"]; ok {
		t.Fatalf("nil field leaked into $set: %v", set)
	}
	if _, ok := set["updatedAt"]; !ok {
		t.Fatalf("updatedAt missing from $set")
	}
}

func TestObjectIDRejectsMalformed(t *testing.T) {
	if _, err := objectID("zzz"); err == nil {
		t.Fatalf("expected error for malformed id")
	}
	id := primitive.NewObjectID()
	got, err := objectID(id.Hex())
	if err != nil || got != id {
		t.Fatalf("expected round trip of %s, got %s (err=%v)", id.Hex(), got.Hex(), err)
	}
}
