package agent

import (
	"context"
	"testing"

	"github.com/firebase/genkit/go/genkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookbot/internal/catalog"
	"bookbot/internal/checkpoint/stubs"
	"bookbot/internal/corplib"
	"bookbot/internal/session"
	"bookbot/internal/websearch"
)

func newTestToolset(t *testing.T) (*genkit.Genkit, *Toolset) {
	t.Helper()
	g := genkit.Init(context.Background())
	toolset := NewToolset(g,
		catalog.NewClient(zap.NewNop()),
		websearch.NewClient(zap.NewNop()),
		corplib.NewClient(zap.NewNop()),
		zap.NewNop(),
	)
	return g, toolset
}

func TestToolset_VariantPartition(t *testing.T) {
	_, toolset := newTestToolset(t)

	assert.Equal(t, []string{
		"get_books_by_genre",
		"get_books_universal_search",
		"get_link_on_book",
		"get_links_to_additional_information",
	}, toolset.Names(session.VariantDefault))

	assert.Equal(t, []string{
		"get_library_categories",
		"get_library_books",
	}, toolset.Names(session.VariantCorporate))
}

func TestToolset_UnknownVariantFallsBackToDefault(t *testing.T) {
	_, toolset := newTestToolset(t)
	assert.Equal(t, toolset.Names(session.VariantDefault), toolset.Names(session.Variant("made-up")))
	assert.Len(t, toolset.Refs(session.Variant("made-up")), 4)
}

func TestNew_ValidatesConfig(t *testing.T) {
	g, toolset := newTestToolset(t)
	store := stubs.NewMockStore()

	_, err := New(Config{Store: store, Tools: toolset, ModelName: "m"})
	assert.Error(t, err, "genkit instance is mandatory")

	_, err = New(Config{Genkit: g, Tools: toolset, ModelName: "m"})
	assert.Error(t, err, "checkpoint store is mandatory")

	_, err = New(Config{Genkit: g, Store: store, Tools: toolset})
	assert.Error(t, err, "model name is mandatory")

	facade, err := New(Config{Genkit: g, Store: store, Tools: toolset, ModelName: "m"})
	require.NoError(t, err)
	assert.Equal(t, defaultMaxTurns, facade.maxTurns)
}

func TestInvoke_FailureLeavesThreadUntouched(t *testing.T) {
	g, toolset := newTestToolset(t)
	store := stubs.NewMockStore()

	facade, err := New(Config{
		Genkit:    g,
		Store:     store,
		Tools:     toolset,
		ModelName: "googleai/not-configured",
	})
	require.NoError(t, err)

	// No model plugin is registered, so the invocation fails before the
	// exchange is checkpointed.
	_, err = facade.Invoke(context.Background(), "7_1700000000", session.VariantDefault, "find me a book")
	require.Error(t, err)
	assert.Equal(t, 0, store.ThreadCount())
}
