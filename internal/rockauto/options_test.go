package rockauto

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladimirNTS/Rockauto-Rest-API/internal/models"
)

func newOptionsServer(t *testing.T, page string) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var requests atomic.Int64
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == partSearchPath {
			requests.Add(1)
			fmt.Fprint(w, page)
			return
		}
		fmt.Fprint(w, "<html></html>")
	}))
	t.Cleanup(ts.Close)
	return ts, &requests
}

func TestVocabularyParsesDropdown(t *testing.T) {
	ts, _ := newOptionsServer(t, searchFormPage)
	client := newTestClient(t, ts.URL)

	vocab, err := client.Vocabulary(context.Background(), models.OptionManufacturer, true)
	require.NoError(t, err)

	// The option with empty display text is skipped.
	require.Equal(t, 3, vocab.Count)
	assert.Equal(t, models.OptionManufacturer, vocab.Kind)
	assert.Equal(t, []models.FilterOption{
		{Value: "", Text: "All"},
		{Value: "55", Text: "ACME"},
		{Value: "73", Text: "BOSCH"},
	}, vocab.Options)
	assert.False(t, vocab.LastUpdated.IsZero())
}

func TestVocabularyCaching(t *testing.T) {
	ts, requests := newOptionsServer(t, searchFormPage)
	client := newTestClient(t, ts.URL)
	ctx := context.Background()

	_, err := client.Vocabulary(ctx, models.OptionPartGroup, true)
	require.NoError(t, err)
	_, err = client.Vocabulary(ctx, models.OptionPartGroup, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), requests.Load(), "cached vocabulary must not refetch")

	_, err = client.Vocabulary(ctx, models.OptionPartGroup, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), requests.Load(), "useCache=false must refetch")

	client.InvalidateOptions()
	_, err = client.Vocabulary(ctx, models.OptionPartGroup, true)
	require.NoError(t, err)
	assert.Equal(t, int64(3), requests.Load(), "invalidation must refetch")
}

func TestVocabularyMissingSelect(t *testing.T) {
	ts, _ := newOptionsServer(t, `<html><body><p>layout changed</p></body></html>`)
	client := newTestClient(t, ts.URL)

	_, err := client.Vocabulary(context.Background(), models.OptionPartType, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUpstreamFormat)
}

func TestVocabularyUnknownKind(t *testing.T) {
	ts, _ := newOptionsServer(t, searchFormPage)
	client := newTestClient(t, ts.URL)

	_, err := client.Vocabulary(context.Background(), models.OptionKind("color"), true)
	assert.Error(t, err)
}

func TestResolveLabel(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	vocab := &models.OptionVocabulary{
		Kind: models.OptionManufacturer,
		Options: []models.FilterOption{
			{Value: "", Text: "All"},
			{Value: "55", Text: "ACME"},
		},
	}

	tests := []struct {
		label string
		want  string
	}{
		{"", ""},
		{"all", ""},
		{"ALL", ""},
		{"ACME", "55"},
		{"acme", "55"},
		{"NoSuchBrand", ""},
	}

	for _, tt := range tests {
		t.Run("label="+tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, client.resolveLabel(vocab, tt.label))
		})
	}
}
