package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/meridian/internal/db"
	"github.com/alexanderramin/meridian/internal/domain"
	"github.com/alexanderramin/meridian/internal/repository"
	"github.com/alexanderramin/meridian/internal/testutil"
	"github.com/stretchr/testify/require"
)

func setupRepos(t *testing.T) (repository.ProjectRepo, repository.ItemRepo, db.UnitOfWork) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repository.NewSQLiteProjectRepo(database),
		repository.NewSQLiteItemRepo(database),
		testutil.NewTestUoW(database)
}

func seedProject(t *testing.T, projects repository.ProjectRepo, name string) *domain.Project {
	t.Helper()
	p := testutil.NewTestProject(name)
	require.NoError(t, projects.Create(context.Background(), p))
	return p
}
