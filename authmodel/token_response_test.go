package authmodel_test

import (
	"testing"

	"github.com/jrsteele09/lostfound-auth-client/authmodel"
	autherrs "github.com/jrsteele09/lostfound-auth-client/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestParseTokenResponse(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		resp, err := authmodel.ParseTokenResponse([]byte(`{
			"access_token": "acc",
			"refresh_token": "ref",
			"token_type": "bearer",
			"user": {"id": 7, "email": "a@b.co"}
		}`))
		require.NoError(t, err)
		require.Equal(t, "acc", resp.AccessToken)
		require.NotNil(t, resp.RefreshToken)
		require.Equal(t, "ref", *resp.RefreshToken)
		require.True(t, resp.HasUser())
	})

	t.Run("refresh payload without refresh token or user", func(t *testing.T) {
		resp, err := authmodel.ParseTokenResponse([]byte(`{"access_token":"acc","token_type":"bearer","user":null}`))
		require.NoError(t, err)
		require.Nil(t, resp.RefreshToken)
		require.False(t, resp.HasUser())
	})

	t.Run("missing access token", func(t *testing.T) {
		_, err := authmodel.ParseTokenResponse([]byte(`{"token_type":"bearer"}`))
		require.Error(t, err)
		require.Contains(t, err.Error(), "access_token missing")
	})

	t.Run("not json", func(t *testing.T) {
		_, err := authmodel.ParseTokenResponse([]byte(`<html>`))
		require.Error(t, err)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := authmodel.ParseTokenResponse([]byte(" \n"))
		require.ErrorIs(t, err, autherrs.ErrEmptyResponse)
	})
}
