// Copyright 2026 The MATransit Authors
// SPDX-License-Identifier: Apache-2.0

package areas

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// user credentials as written by `gcloud auth application-default login`,
// without a quota project
const userCredentials = `{
  "type": "authorized_user",
  "client_id": "fake-client.apps.googleusercontent.com",
  "client_secret": "fake-secret",
  "refresh_token": "fake-refresh-token"
}`

func TestAPIKeyFromADCWithoutProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adc.json")
	require.NoError(t, os.WriteFile(path, []byte(userCredentials), 0o600))
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", path)

	_, err := APIKeyFromADC(context.Background(), "", DefaultMapsKeyName)
	require.ErrorIs(t, err, errNoProject)
}

func TestAPIKeyFromADCMissingCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", filepath.Join(t.TempDir(), "missing.json"))

	_, err := APIKeyFromADC(context.Background(), "", DefaultMapsKeyName)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finding default credentials")
}
