package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/joho/godotenv"

	app "github.com/neetprep/service_layer/internal/app"
	"github.com/neetprep/service_layer/internal/app/domain/session"
	"github.com/neetprep/service_layer/internal/app/storage/postgres"
	"github.com/neetprep/service_layer/internal/config"
	"github.com/neetprep/service_layer/internal/platform/database"
	"github.com/neetprep/service_layer/internal/platform/migrations"
)

// Runs the lookup endpoint against a real database seeded with one join.
func TestIntegrationPostgresLookup(t *testing.T) {
	_ = godotenv.Load("../../../.env.test")
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping Postgres integration")
	}

	ctx := context.Background()
	db, err := database.Open(ctx, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := migrations.Apply(ctx, db.DB); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	var subjectID, topicID, questionID int64
	if err := db.QueryRowxContext(ctx, `
		INSERT INTO subjects (name) VALUES ('Biology')
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`).Scan(&subjectID); err != nil {
		t.Fatalf("seed subject: %v", err)
	}
	if err := db.QueryRowxContext(ctx, `
		INSERT INTO topics (subject_id, name) VALUES ($1, 'Cell biology')
		ON CONFLICT (subject_id, name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`, subjectID).Scan(&topicID); err != nil {
		t.Fatalf("seed topic: %v", err)
	}
	if err := db.QueryRowxContext(ctx, `
		INSERT INTO questions (subject_id, topic_id, body, options, answer)
		VALUES ($1, $2, 'Powerhouse of the cell?', '{Nucleus,Mitochondrion}', 1)
		RETURNING id`, subjectID, topicID).Scan(&questionID); err != nil {
		t.Fatalf("seed question: %v", err)
	}

	store := postgres.New(db)
	application, err := app.New(app.Stores{Questions: store, Sessions: store, Querier: store}, nil)
	if err != nil {
		t.Fatalf("new application: %v", err)
	}
	handler, err := NewRouter(application, *config.DefaultSettings(), nil)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	resp := do(t, handler, http.MethodPost, "/api/sessions", marshal(map[string]any{
		"user_id":      "integration",
		"plan":         "premium",
		"subject_id":   subjectID,
		"question_ids": []int64{questionID},
	}))
	if resp.Code != http.StatusCreated {
		t.Fatalf("start session: %d %s", resp.Code, resp.Body.String())
	}
	var started struct {
		Session   session.Session    `json:"session"`
		Questions []session.Question `json:"questions"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &started); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	resp = do(t, handler, http.MethodPost, "/api/session-questions/lookup", marshal(map[string]any{
		"session_id":  started.Session.ID,
		"question_id": questionID,
	}))
	if resp.Code != http.StatusOK {
		t.Fatalf("lookup: %d %s", resp.Code, resp.Body.String())
	}
	var found session.LookupResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &found)
	if found.SessionQuestionID != started.Questions[0].ID {
		t.Fatalf("expected %d, got %d", started.Questions[0].ID, found.SessionQuestionID)
	}

	resp = do(t, handler, http.MethodPost, "/api/session-questions/lookup", marshal(map[string]any{
		"session_id":  started.Session.ID,
		"question_id": questionID + 1_000_000,
	}))
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
