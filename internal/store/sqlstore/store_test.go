package sqlstore

import (
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/plarkin/chatline/internal/models"
)

var testStore *SQLStore

func SetupTestDB(t *testing.T) {
	var err error
	testStore, err = New("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
}

func TeardownTestDB() {
	testStore.db.Close()
}

func mustCreateUser(t *testing.T, username string) {
	t.Helper()
	err := testStore.CreateUser(&models.User{Username: username, Password: "pass"})
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
}
