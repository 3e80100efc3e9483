package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/KromaEnergia/relatorio-vendas/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "db", Port: 5433, Name: "relatorios", SSLDisable: true}
	assert.Equal(t, "host=db user=u password=p dbname=relatorios port=5433 sslmode=disable", DSN(cfg, "u", "p"))

	cfg.SSLDisable = false
	assert.Equal(t, "host=db user=u password=p dbname=relatorios port=5433", DSN(cfg, "u", "p"))
}

func TestClassificacaoDeErros(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "idx_relatorio_vendedor_data"}
	fk := &pgconn.PgError{Code: "23503"}

	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", unique)))
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.False(t, IsUniqueViolation(fk))

	assert.True(t, IsForeignKeyViolation(fk))
	assert.True(t, IsForeignKeyViolation(gorm.ErrForeignKeyViolated))
	assert.False(t, IsForeignKeyViolation(errors.New("x")))

	assert.True(t, IsNotFound(fmt.Errorf("buscar: %w", gorm.ErrRecordNotFound)))
	assert.False(t, IsNotFound(nil))
}

type fakeSecrets struct {
	value *string
	err   error
	asked string
}

func (f *fakeSecrets) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.asked = aws.ToString(in.SecretId)
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.value}, nil
}

func TestFetchSecret(t *testing.T) {
	f := &fakeSecrets{value: aws.String(`{"username":"app","password":"s3nha"}`)}

	user, pass, err := fetchSecret(context.Background(), f, "prod/db")
	require.NoError(t, err)
	assert.Equal(t, "app", user)
	assert.Equal(t, "s3nha", pass)
	assert.Equal(t, "prod/db", f.asked)
}

func TestFetchSecret_Erros(t *testing.T) {
	_, _, err := fetchSecret(context.Background(), &fakeSecrets{err: errors.New("denied")}, "x")
	assert.Error(t, err)

	_, _, err = fetchSecret(context.Background(), &fakeSecrets{}, "x")
	assert.Error(t, err)

	_, _, err = fetchSecret(context.Background(), &fakeSecrets{value: aws.String("{")}, "x")
	assert.Error(t, err)
}

func TestRetrieveCredentials(t *testing.T) {
	user, pass, err := retrieveCredentials(config.DatabaseConfig{Username: "u", Password: "p"})
	require.NoError(t, err)
	assert.Equal(t, "u", user)
	assert.Equal(t, "p", pass)

	_, _, err = retrieveCredentials(config.DatabaseConfig{})
	assert.Error(t, err)

	orig := newSecretsClient
	t.Cleanup(func() { newSecretsClient = orig })
	newSecretsClient = func(context.Context) (secretGetter, error) {
		return &fakeSecrets{value: aws.String(`{"username":"sm","password":"pw"}`)}, nil
	}
	user, pass, err = retrieveCredentials(config.DatabaseConfig{SecretID: "prod/db"})
	require.NoError(t, err)
	assert.Equal(t, "sm", user)
	assert.Equal(t, "pw", pass)
}
