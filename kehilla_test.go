// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package kehilla

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/kehilla/ai"
	"github.com/poiesic/kehilla/ai/mock"
	"github.com/poiesic/kehilla/core"
	"github.com/poiesic/kehilla/directory"
	"github.com/poiesic/kehilla/ingestion"
	"github.com/poiesic/kehilla/search"
	"github.com/poiesic/kehilla/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider string
	}{
		{name: "openai", provider: ai.ProviderOpenAI},
		{name: "langchain", provider: ai.ProviderLangChain},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := ai.NewConfig(ai.WithProvider(tt.provider), ai.WithHost("http://localhost:11434"))
			provider, err := NewProvider(cfg)
			require.NoError(t, err)
			require.NotNil(t, provider.ChatModel())
			assert.NoError(t, provider.Close())
		})
	}

	_, err := NewProvider(ai.NewConfig(ai.WithProvider("bogus")))
	assert.ErrorIs(t, err, ai.ErrInvalidConfig)
}

func TestOpen_SampleStore(t *testing.T) {
	// Discovery gets two messages and an empty envelope; the proximity
	// judgment gets one and selects the Houston congregations.
	chat := mock.NewMockChatModel().WithCompleteFunc(func(_ context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
		if len(req.Messages) == 1 {
			return &ai.ChatResponse{Content: "[5, 6]"}, nil
		}
		return &ai.ChatResponse{Content: mock.EmptyEnvelope}, nil
	})
	provider := mock.NewMockProviderWithChatModel(chat)
	d, err := Open(context.Background(), WithProvider(provider))
	require.NoError(t, err)

	assert.Equal(t, directory.NewSampleStore().Len(), d.Store().Len())

	res, err := d.Search(context.Background(), "Conservative synagogue in Houston")
	require.NoError(t, err)
	assert.Equal(t, search.StateDone, res.State)
	assert.Empty(t, res.External)
	require.Len(t, res.Local, 2)
	assert.Equal(t, "Congregation Beth Yeshurun", res.Local[0].Name, "Conservative ranks first")
	for _, inst := range res.Local {
		assert.Equal(t, core.SourceLocalDatabase, inst.Source)
	}
	assert.Equal(t, 2, chat.CallCount())

	require.NoError(t, d.Close())
	assert.True(t, provider.(*mock.MockProvider).Closed())
}

func TestOpen_DegradesWhenModelFails(t *testing.T) {
	chat := mock.Failing(&ai.TransportError{StatusCode: 503})
	d, err := Open(context.Background(),
		WithProvider(mock.NewMockProviderWithChatModel(chat)),
		WithModelProximity(false))
	require.NoError(t, err)
	defer d.Close()

	res, err := d.Search(context.Background(), "Reform temple")
	require.NoError(t, err)
	assert.True(t, res.Degraded)
	assert.NotEmpty(t, res.Institutions)
}

func TestOpen_Document(t *testing.T) {
	path := filepath.Join(t.TempDir(), "institutions.json")
	require.NoError(t, os.WriteFile(path, directory.SampleDocument(), 0o600))

	d, err := Open(context.Background(), WithProvider(mock.NewMockProvider()), WithDocument(path))
	require.NoError(t, err)
	defer d.Close()
	assert.Equal(t, directory.NewSampleStore().Len(), d.Store().Len())

	_, err = Open(context.Background(), WithProvider(mock.NewMockProvider()),
		WithDocument(filepath.Join(t.TempDir(), "missing.json")))
	assert.Error(t, err)
}

func TestOpen_Database(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	_, err := Open(ctx, WithProvider(mock.NewMockProvider()), WithDatabase(dir))
	assert.ErrorIs(t, err, ErrEmptyDatabase)

	backend, err := badger.OpenBackend(dir, false)
	require.NoError(t, err)
	repo, err := badger.NewInstitutionRepository(backend)
	require.NoError(t, err)
	imp, err := ingestion.NewImporter(repo)
	require.NoError(t, err)
	_, err = imp.ImportStore(ctx, directory.NewSampleStore())
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	d, err := Open(ctx, WithProvider(mock.NewMockProvider()), WithDatabase(dir))
	require.NoError(t, err)
	defer d.Close()

	sample := directory.NewSampleStore()
	assert.Equal(t, sample.ZipCodes(), d.Store().ZipCodes())
	assert.Equal(t, sample.All()[0].Name, d.Store().All()[0].Name)

	matches := d.NearbyZip("77096")
	require.NotEmpty(t, matches)
	assert.Zero(t, matches[0].Distance)

	hillels, err := d.ByCategory("hillel")
	require.NoError(t, err)
	assert.NotEmpty(t, hillels)
	assert.NotEmpty(t, d.ByAffiliation("reform"))
	assert.NotEmpty(t, d.Recommend([]string{"family"}))
}
