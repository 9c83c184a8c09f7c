package useradd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/server/models"
	"github.com/dmitrijs2005/smartnotes/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRegistrar struct {
	name, email, password string
	err                   error
}

func (f *fakeRegistrar) Register(_ context.Context, name, email, password string) (*models.User, *services.TokenPair, error) {
	f.name, f.email, f.password = name, email, password
	if f.err != nil {
		return nil, nil, f.err
	}
	return &models.User{ID: "u1", Name: name, Email: email}, &services.TokenPair{}, nil
}

func stubPasswords(t *testing.T, pws ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	i := 0
	readPassword = func(int) ([]byte, error) {
		pw := []byte(pws[i])
		i++
		return pw, nil
	}
}

func TestRun_CreatesUser(t *testing.T) {
	stubPasswords(t, "secret1", "secret1")
	reg := &fakeRegistrar{}
	var out bytes.Buffer

	err := Run(context.Background(), reg, strings.NewReader("Ann\nann@example.com\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "Ann", reg.name)
	assert.Equal(t, "ann@example.com", reg.email)
	assert.Equal(t, "secret1", reg.password)
	assert.Contains(t, out.String(), "Created user Ann <ann@example.com> with id u1")
	assert.NotContains(t, out.String(), "secret1")
}

func TestRun_PasswordMismatch(t *testing.T) {
	stubPasswords(t, "secret1", "secret2")
	reg := &fakeRegistrar{}

	err := Run(context.Background(), reg, strings.NewReader("Ann\nann@example.com\n"), &bytes.Buffer{})
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Empty(t, reg.name)
}

func TestRun_RegisterError(t *testing.T) {
	stubPasswords(t, "secret1", "secret1")
	reg := &fakeRegistrar{err: common.ErrorAlreadyExists}

	err := Run(context.Background(), reg, strings.NewReader("Ann\nann@example.com"), &bytes.Buffer{})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestRun_EOFBeforeEmail(t *testing.T) {
	err := Run(context.Background(), &fakeRegistrar{}, strings.NewReader("Ann\n"), &bytes.Buffer{})
	assert.Error(t, err)
}
