package catalog

import (
	"context"
	"path/filepath"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/labreport/constants"
)

func TestStore_SQLiteSyncAndLoad(t *testing.T) {
	ctx := context.Background()
	source := "sqlite://" + filepath.Join(t.TempDir(), "catalog.db")

	store, err := OpenStore(ctx, source, nil)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.EnsureSchema(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrEmptyStore)

	require.NoError(t, store.Sync(ctx, Builtin()))
	// A second sync replaces rather than duplicates.
	require.NoError(t, store.Sync(ctx, Builtin()))

	c, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, BuiltinVersion, c.Version())
	assert.Equal(t, DefaultNoPrecautions, c.NoPrecautionsMessage())
	assert.Equal(t, Builtin().Rules(), c.Rules())
}

func TestLoad_Sources(t *testing.T) {
	ctx := context.Background()

	c, err := Load(ctx, SourceBuiltin, nil)
	require.NoError(t, err)
	assert.Equal(t, BuiltinVersion, c.Version())

	c, err = Load(ctx, "", nil)
	require.NoError(t, err)
	assert.Equal(t, 14, c.Len())

	source := "sqlite://" + filepath.Join(t.TempDir(), "catalog.db")
	store, err := OpenStore(ctx, source, nil)
	require.NoError(t, err)
	require.NoError(t, store.Sync(ctx, Builtin()))
	store.Close()

	c, err = Load(ctx, source, nil)
	require.NoError(t, err)
	assert.Equal(t, Builtin().Rules(), c.Rules())

	_, err = Load(ctx, "ftp://example.com/catalog", nil)
	assert.Error(t, err)
}

func TestStore_PostgresPlaceholders(t *testing.T) {
	pg := NewStore(nil, DialectPostgres, nil)
	assert.Equal(t, "$1, $2, $3", pg.placeholders(3))

	lite := NewStore(nil, DialectSQLite, nil)
	assert.Equal(t, "?, ?", lite.placeholders(2))
}

func TestStore_LoadPostgres(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(selectMeta)).
		WillReturnRows(sqlmock.NewRows([]string{"name", "value"}).
			AddRow("version", "lab-42").
			AddRow("no_precautions_message", ""))
	mock.ExpectQuery(regexp.QuoteMeta(selectRules)).
		WillReturnRows(sqlmock.NewRows([]string{
			"analyte", "display_name", "unit", "low_value", "high_value",
			"msg_low", "msg_normal", "msg_high", "prec_low", "prec_high",
		}).AddRow("rdw", "RDW", "%", nil, 14.0, "", "RDW is normal ({reading}).", "RDW is high ({reading}).", "", "See a doctor."))
	mock.ExpectQuery(regexp.QuoteMeta(selectTerms)).
		WillReturnRows(sqlmock.NewRows([]string{"analyte", "kind", "term"}).
			AddRow("rdw", "alias", "RDW").
			AddRow("rdw", "synonym", "Red Cell Distribution Width").
			AddRow("rdw", "unit", "%").
			AddRow("mpv", "alias", "MPV"))

	store := NewStore(db, DialectPostgres, nil)
	c, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, "lab-42", c.Version())
	assert.Equal(t, DefaultNoPrecautions, c.NoPrecautionsMessage())
	require.Equal(t, 1, c.Len())

	rdw := c.Rule(0)
	assert.Equal(t, constants.RDW, rdw.Analyte)
	assert.Nil(t, rdw.Low)
	assert.Equal(t, 14.0, *rdw.High)
	assert.Equal(t, []string{"RDW"}, rdw.Aliases)
	assert.Equal(t, []string{"Red Cell Distribution Width"}, rdw.Synonyms)
	assert.Equal(t, []string{"%"}, rdw.MatchUnits)
	assert.Equal(t, "RDW is high (15.0%).", rdw.Summary(constants.ClassHigh, 15))
}
