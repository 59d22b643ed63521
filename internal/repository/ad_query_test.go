package repository

import (
	"context"
	"testing"

	"github.com/souqkw/marketplace/internal/constants"
	"github.com/souqkw/marketplace/internal/dto"
	"github.com/souqkw/marketplace/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newDryRunDB opens the postgres dialector in dry-run mode so the query
// builder's SQL can be inspected without a live database.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.Open("host=localhost user=souq dbname=souq_test sslmode=disable"), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func listSQL(t *testing.T, filter dto.AdFilter) string {
	t.Helper()
	repo := &adRepository{db: newDryRunDB(t)}

	var ads []model.Ad
	tx := repo.buildListQuery(context.Background(), filter).Find(&ads)
	require.NoError(t, tx.Error)
	return tx.Statement.SQL.String()
}

func TestProductScopeSearchesAdColumnsOnly(t *testing.T) {
	sql := listSQL(t, dto.AdFilter{Search: "bag", SearchScope: constants.SearchScopeProduct})

	require.Contains(t, sql, "ads.title_en ILIKE")
	require.Contains(t, sql, "ads.title_ar ILIKE")
	require.Contains(t, sql, "ads.description_en ILIKE")
	require.Contains(t, sql, "ads.description_ar ILIKE")
	require.NotContains(t, sql, "categories.name_en")
	require.NotContains(t, sql, "categories.name_ar")
}

func TestCategoryScopeSearchesCategoryColumnsOnly(t *testing.T) {
	sql := listSQL(t, dto.AdFilter{Search: "bag", SearchScope: constants.SearchScopeCategory})

	require.Contains(t, sql, "categories.name_en ILIKE")
	require.Contains(t, sql, "categories.name_ar ILIKE")
	require.NotContains(t, sql, "ads.title_en")
	require.NotContains(t, sql, "ads.description_en")
}

func TestAllScopeSearchesBothColumnSets(t *testing.T) {
	sql := listSQL(t, dto.AdFilter{Search: "bag", SearchScope: constants.SearchScopeAll})

	require.Contains(t, sql, "ads.title_en ILIKE")
	require.Contains(t, sql, "categories.name_en ILIKE")
}

func TestEmptySearchSkipsTextPredicate(t *testing.T) {
	sql := listSQL(t, dto.AdFilter{})

	require.NotContains(t, sql, "ILIKE")
	require.Contains(t, sql, "ads.status")
}
