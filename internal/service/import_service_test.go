package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/timesplit/internal/catalog"
	"github.com/alexanderramin/timesplit/internal/contract"
	"github.com/alexanderramin/timesplit/internal/domain"
	"github.com/alexanderramin/timesplit/internal/importer"
	"github.com/alexanderramin/timesplit/internal/repository"
	"github.com/alexanderramin/timesplit/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeResponseSchema() *importer.ImportSchema {
	return &importer.ImportSchema{Responses: []importer.ResponseImport{
		{Name: "Ada", Team: "Membership", TimeAllocation: map[string]float64{"code_development": 70, "meetings": 30}},
		{Name: "Bo", Team: "Platform Frontend", Role: "frontend", TimeAllocation: map[string]float64{"fe_bugfix": 100}},
		{Name: "Cy", Team: "Content Quality", Role: "qa", TimeAllocation: map[string]float64{"qa_bugbash": 50, "qa_meetings": 50}},
	}}
}

func TestImportResponses_AppliesAll(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLResponseRepo(database)
	svc := NewImportService(repo, testutil.NewTestUoW(database), catalog.Default())
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, testutil.NewTestResponse("Ada")))

	result, err := svc.ImportResponsesFromSchema(ctx, threeResponseSchema())
	require.NoError(t, err)
	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Replaced)
	assert.Equal(t, []string{"Ada", "Bo", "Cy"}, result.Names)

	ada, err := repo.GetByName(ctx, "Ada")
	require.NoError(t, err)
	assert.Equal(t, 70.0, ada.Allocation["code_development"])

	bo, err := repo.GetByName(ctx, "Bo")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleFrontend, bo.Role)
}

func TestImportResponses_KeepsUpdatedAt(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLResponseRepo(database)
	svc := NewImportService(repo, testutil.NewTestUoW(database), catalog.Default())

	updated := time.Date(2023, 3, 4, 5, 6, 7, 0, time.UTC)
	schema := threeResponseSchema()
	schema.Responses[0].UpdatedAt = &updated

	_, err := svc.ImportResponsesFromSchema(context.Background(), schema)
	require.NoError(t, err)

	ada, err := repo.GetByName(context.Background(), "Ada")
	require.NoError(t, err)
	assert.True(t, updated.Equal(ada.UpdatedAt))
}

func TestImportResponses_StructuralErrorsCollected(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLResponseRepo(database)
	svc := NewImportService(repo, testutil.NewTestUoW(database), catalog.Default())

	schema := threeResponseSchema()
	schema.Responses[1].Name = "Ada"
	schema.Responses[2].Team = ""

	_, err := svc.ImportResponsesFromSchema(context.Background(), schema)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "import validation failed (2 errors)")
	assert.Contains(t, err.Error(), "duplicates responses[0]")
	assert.Contains(t, err.Error(), "responses[2].team is required")

	all, err := repo.List(context.Background(), repository.ResponseFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestImportResponses_SubmissionRulesCheckedBeforeWriting(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLResponseRepo(database)
	svc := NewImportService(repo, testutil.NewTestUoW(database), catalog.Default())

	schema := threeResponseSchema()
	schema.Responses[1].TimeAllocation = map[string]float64{"fe_bugfix": 90}
	schema.Responses[2].TimeAllocation = map[string]float64{"bugfix": 100}

	_, err := svc.ImportResponsesFromSchema(context.Background(), schema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(2 errors)")
	assert.Contains(t, err.Error(), "responses[1] (Bo)")
	assert.Contains(t, err.Error(), "90.00%")
	assert.Contains(t, err.Error(), "responses[2] (Cy)")

	all, err := repo.List(context.Background(), repository.ResponseFilter{})
	require.NoError(t, err)
	assert.Empty(t, all, "a valid first entry is not stored when a later one fails")
}

func TestImportResponses_RollsBackOnWriteFailure(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLResponseRepo(database)
	injected := errors.New("disk full")
	uow := &testutil.FailOnNthExecUoW{DB: database, FailOn: 3, Err: injected}
	svc := NewImportService(repo, uow, catalog.Default())

	_, err := svc.ImportResponsesFromSchema(context.Background(), threeResponseSchema())
	require.Error(t, err)
	assert.ErrorIs(t, err, injected)
	assert.Contains(t, err.Error(), `importing "Cy"`)
	assert.Equal(t, 3, uow.Writes)
	assert.Zero(t, testutil.CountResponses(t, database), "earlier writes are rolled back")
}

func TestImportResponses_FromFile(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLResponseRepo(database)
	svc := NewImportService(repo, testutil.NewTestUoW(database), catalog.Default())

	path := filepath.Join(t.TempDir(), "responses.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"responses": [
		{"name": "Ada", "team": "Membership", "time_allocation": {"bugfix": 100}}
	]}`), 0o644))

	result, err := svc.ImportResponses(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	_, err = svc.ImportResponses(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestExport_CanBeImportedAgain(t *testing.T) {
	database := testutil.NewTestDB(t)
	repo := repository.NewSQLResponseRepo(database)
	svc := NewImportService(repo, testutil.NewTestUoW(database), catalog.Default())
	ctx := context.Background()

	_, err := svc.ImportResponsesFromSchema(ctx, threeResponseSchema())
	require.NoError(t, err)

	qaOnly, err := svc.Export(ctx, contract.ListRequest{Role: domain.RoleQA})
	require.NoError(t, err)
	require.Len(t, qaOnly.Responses, 1)
	assert.Equal(t, "Cy", qaOnly.Responses[0].Name)

	exported, err := svc.Export(ctx, contract.ListRequest{})
	require.NoError(t, err)
	require.Len(t, exported.Responses, 3)

	var buf bytes.Buffer
	require.NoError(t, importer.EncodeImportSchema(&buf, exported))
	decoded, err := importer.DecodeImportSchema(&buf)
	require.NoError(t, err)

	other := testutil.NewTestDB(t)
	otherRepo := repository.NewSQLResponseRepo(other)
	result, err := NewImportService(otherRepo, testutil.NewTestUoW(other), catalog.Default()).
		ImportResponsesFromSchema(ctx, decoded)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)

	cy, err := otherRepo.GetByName(ctx, "Cy")
	require.NoError(t, err)
	assert.Equal(t, 50.0, cy.Allocation["qa_bugbash"])
}
