package index

import (
	"os"
	"testing"

	"github.com/starford/dokuwiki2wikijs/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "d2w-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func page(source, url, checksum string) EntryRow {
	return EntryRow{
		Source:   source,
		Kind:     models.KindPage,
		Target:   url[1:] + ".md",
		URL:      url,
		Checksum: checksum,
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"runs", "entries", "links", "users"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertEntry(page("wiki/hello.txt", "/wiki/hello", "abc123"), []string{"/wiki/other"}); err != nil {
		t.Fatalf("UpsertEntry: %v", err)
	}
	cs, err := db.GetChecksum("wiki/hello.txt")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestUpsertReplacesLinks(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertEntry(page("up.txt", "/up", "1"), []string{"/x"})
	_ = db.UpsertEntry(page("up.txt", "/up", "2"), []string{"/y"})

	dangling, err := db.DanglingLinks()
	if err != nil {
		t.Fatalf("DanglingLinks: %v", err)
	}
	if len(dangling) != 1 || dangling[0].Target != "/y" {
		t.Errorf("dangling = %+v, want only /y", dangling)
	}
}

func TestDanglingLinks(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertEntry(page("a.txt", "/a", "1"), []string{"/b", "/missing", "/pic.png"})
	_ = db.UpsertEntry(page("b.txt", "/b", "2"), []string{"/a"})
	_ = db.UpsertEntry(EntryRow{Source: "media/pic.png", Kind: models.KindMedia, Target: "pic.png", URL: "/pic.png"}, nil)

	dangling, err := db.DanglingLinks()
	if err != nil {
		t.Fatalf("DanglingLinks: %v", err)
	}
	if len(dangling) != 1 {
		t.Fatalf("dangling = %+v, want 1", dangling)
	}
	if dangling[0].Source != "a.txt" || dangling[0].Target != "/missing" {
		t.Errorf("dangling[0] = %+v", dangling[0])
	}
}

func TestDeleteEntry(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertEntry(page("del.txt", "/del", "x"), []string{"/target"})

	if err := db.DeleteEntry("del.txt"); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	cs, _ := db.GetChecksum("del.txt")
	if cs != "" {
		t.Errorf("deleted entry still has checksum %q", cs)
	}
	dangling, _ := db.DanglingLinks()
	if len(dangling) != 0 {
		t.Errorf("expected no links after delete, got %+v", dangling)
	}
}

func TestBeginRunClearsPreviousEntries(t *testing.T) {
	db := testDB(t)
	first, err := db.BeginRun("/srv/wiki")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	_ = db.UpsertEntry(page("old.txt", "/old", "1"), []string{"/gone"})

	second, err := db.BeginRun("/srv/wiki")
	if err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	if first == second || second == "" {
		t.Errorf("run ids = %q, %q", first, second)
	}
	s, err := db.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if s.Pages != 0 || s.Links != 0 {
		t.Errorf("summary after new run = %+v", s)
	}
	var runs int
	_ = db.conn.QueryRow(`SELECT count(*) FROM runs`).Scan(&runs)
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestSummary(t *testing.T) {
	db := testDB(t)
	warned := page("w.txt", "/w", "1")
	warned.Warnings = 2
	_ = db.UpsertEntry(warned, []string{"/a"})
	_ = db.UpsertEntry(page("ok.txt", "/ok", "2"), nil)
	_ = db.UpsertEntry(EntryRow{Source: "m.png", Kind: models.KindMedia, Target: "m.png", URL: "/m.png"}, nil)

	s, err := db.Summary()
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	want := Summary{Pages: 2, Media: 1, Warnings: 1, Links: 1}
	if s != want {
		t.Errorf("summary = %+v, want %+v", s, want)
	}
}

func TestReplaceUsers(t *testing.T) {
	db := testDB(t)
	_ = db.ReplaceUsers([]models.User{{Login: "zed", Name: "Zed"}, {Login: "amy", Name: "Amy", Email: "amy@example.com"}})
	_ = db.ReplaceUsers([]models.User{{Login: "amy", Name: "Amy", Email: "amy@example.com"}})

	users, err := db.Users()
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 1 || users[0].Login != "amy" || users[0].Email != "amy@example.com" {
		t.Errorf("users = %+v", users)
	}
}
