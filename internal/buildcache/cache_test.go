package buildcache

import (
	"os"
	"testing"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "ansuz-cache-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPutAndAllChecksums(t *testing.T) {
	db := testDB(t)

	if err := db.Put("resources/a.json", "cs1"); err != nil {
		t.Fatal(err)
	}
	if err := db.Put("tools/op.json", "cs2"); err != nil {
		t.Fatal(err)
	}

	all, err := db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 || all["resources/a.json"] != "cs1" || all["tools/op.json"] != "cs2" {
		t.Errorf("all = %v", all)
	}
}

func TestPutUpserts(t *testing.T) {
	db := testDB(t)
	if err := db.Put("p", "old"); err != nil {
		t.Fatal(err)
	}
	if err := db.Put("p", "new"); err != nil {
		t.Fatal(err)
	}
	all, err := db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all["p"] != "new" {
		t.Errorf("all = %v", all)
	}
}

func TestDelete(t *testing.T) {
	db := testDB(t)
	if err := db.Put("p", "cs"); err != nil {
		t.Fatal(err)
	}
	if err := db.Delete("p"); err != nil {
		t.Fatal(err)
	}
	all, err := db.AllChecksums()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("all = %v, want empty", all)
	}

	// Deleting a missing entry is not an error.
	if err := db.Delete("absent"); err != nil {
		t.Errorf("delete absent: %v", err)
	}
}
