package cliente

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/KromaEnergia/relatorio-vendas/internal/utils/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMissingIDs(t *testing.T) {
	gdb, mock := dbtest.New(t)

	mock.ExpectQuery(`SELECT "id" FROM "clientes" WHERE id IN \(`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	missing, err := NewRepository(gdb).MissingIDs(context.Background(), []uint{1, 8, 9, 8})
	require.NoError(t, err)
	assert.Equal(t, []uint{8, 9}, missing)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExistsByNameCI(t *testing.T) {
	gdb, mock := dbtest.New(t)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "clientes" WHERE LOWER\(nome\) = LOWER\(\$1\) AND id <> \$2`).
		WithArgs("Padaria", 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := NewRepository(gdb).ExistsByNameCI(context.Background(), "Padaria", 3)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNamesByIDs(t *testing.T) {
	gdb, mock := dbtest.New(t)

	mock.ExpectQuery(`SELECT "id","nome" FROM "clientes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "nome"}).AddRow(1, "Padaria").AddRow(2, "Mercado"))

	names, err := NewRepository(gdb).NamesByIDs(context.Background(), []uint{1, 2})
	require.NoError(t, err)
	assert.Equal(t, map[uint]string{1: "Padaria", 2: "Mercado"}, names)
}

func TestDelete_SemLinhas(t *testing.T) {
	gdb, mock := dbtest.New(t)

	mock.ExpectExec(`DELETE FROM "clientes" WHERE "clientes"."id" = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := NewRepository(gdb).Delete(context.Background(), 4)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
