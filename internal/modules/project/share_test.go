package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShareCodeRoundtrip(t *testing.T) {
	code := ShareCode("abc123")
	id, err := DecodeShareCode(code)
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	_, err = DecodeShareCode("not base64 at all!!")
	assert.Error(t, err)
}

func TestShareLink(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, staticNames{})
	p := seedProject(t, db, "owner-1")

	link, err := svc.ShareLink("https://boasting.example", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://boasting.example/?sharingcode="+ShareCode(p.ID), link)

	_, err = svc.ShareLink("https://boasting.example", "missing")
	assert.ErrorIs(t, err, errProjectNotFound)
}
