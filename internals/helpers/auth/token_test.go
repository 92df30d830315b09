package helper

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParseToken(t *testing.T) {
	id := uuid.New()
	tok, exp, err := IssueToken("secret", id, "ADMIN", "root", time.Hour, time.Now())
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := ParseToken("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, id.String(), claims.ID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "root", claims.UserName)
}

func TestParseToken_Rejects(t *testing.T) {
	id := uuid.New()
	tok, _, err := IssueToken("secret", id, "teacher", "t", time.Hour, time.Now())
	require.NoError(t, err)

	_, err = ParseToken("other", tok)
	assert.Error(t, err)

	expired, _, err := IssueToken("secret", id, "teacher", "t", time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = ParseToken("secret", expired)
	assert.Error(t, err)
}

func TestIssueToken_EmptySecret(t *testing.T) {
	_, _, err := IssueToken("", uuid.New(), "admin", "x", time.Hour, time.Now())
	assert.Error(t, err)
}
