package agent

import (
	"encoding/json"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"go.uber.org/zap"

	"bookbot/internal/catalog"
	"bookbot/internal/corplib"
	"bookbot/internal/session"
	"bookbot/internal/websearch"
)

// Tool names form a closed set, fixed at registration time. Which names are
// exposed to the model depends only on the agent variant, so the routing
// contract is checkable without invoking the model.
const (
	toolBooksByGenre    = "get_books_by_genre"
	toolBooksUniversal  = "get_books_universal_search"
	toolPurchaseLinks   = "get_link_on_book"
	toolAdditionalInfo  = "get_links_to_additional_information"
	toolLibraryBooks    = "get_library_books"
	toolLibraryGenres   = "get_library_categories"
	purchaseSearchSite  = "ozon.ru"
	purchasePrefixQuery = "buy book "
)

// Toolset holds the registered tools, partitioned per agent variant.
type Toolset struct {
	defaultRefs    []ai.ToolRef
	corporateRefs  []ai.ToolRef
	defaultNames   []string
	corporateNames []string
}

// NewToolset registers every tool adapter with the agent runtime once and
// returns the per-variant partitions.
func NewToolset(g *genkit.Genkit, books *catalog.Client, web *websearch.Client, library *corplib.Client, logger *zap.Logger) *Toolset {
	if logger == nil {
		logger = zap.NewNop()
	}

	byGenre := genkit.DefineTool(
		g, toolBooksByGenre,
		"Search books by genre. Translate the genre into English before calling. "+
			"If there are no results, call "+toolBooksUniversal+" instead. "+
			"Each result has title, authors, publishedDate, categories, publisher, description, buyLink.",
		func(ctx *ai.ToolContext, input struct {
			Genre string `json:"genre" jsonschema_description:"Book genre, in English"`
		}) (string, error) {
			logger.Info("tool invoked", zap.String("tool", toolBooksByGenre), zap.String("genre", input.Genre))
			result, err := books.SearchByGenre(ctx.Context, input.Genre)
			if err != nil {
				return errorJSON(err), nil
			}
			return asJSON(result), nil
		},
	)

	universal := genkit.DefineTool(
		g, toolBooksUniversal,
		"Search books by any user query: title, author, genre or description. "+
			"Translate genre terms into English. "+
			"Each result has title, authors, publishedDate, categories, publisher, description, buyLink.",
		func(ctx *ai.ToolContext, input struct {
			Query string `json:"query" jsonschema_description:"Free-form book search query"`
		}) (string, error) {
			logger.Info("tool invoked", zap.String("tool", toolBooksUniversal), zap.String("query", input.Query))
			result, err := books.SearchUniversal(ctx.Context, input.Query)
			if err != nil {
				return errorJSON(err), nil
			}
			return asJSON(result), nil
		},
	)

	purchase := genkit.DefineTool(
		g, toolPurchaseLinks,
		"Find links to buy a book. Use when the user wants purchase links. "+
			"Return every link found. Each result has title, href and body.",
		func(ctx *ai.ToolContext, input struct {
			Query string `json:"query" jsonschema_description:"Book title and author to shop for"`
		}) (string, error) {
			logger.Info("tool invoked", zap.String("tool", toolPurchaseLinks), zap.String("query", input.Query))
			return web.SearchJSON(ctx.Context, purchasePrefixQuery+input.Query, purchaseSearchSite), nil
		},
	)

	additional := genkit.DefineTool(
		g, toolAdditionalInfo,
		"Look up additional information from external sources, or when there is "+
			"no description for a book. Return every result. Each result has title, href and body.",
		func(ctx *ai.ToolContext, input struct {
			Query string `json:"query" jsonschema_description:"What to look up"`
		}) (string, error) {
			logger.Info("tool invoked", zap.String("tool", toolAdditionalInfo), zap.String("query", input.Query))
			return web.SearchJSON(ctx.Context, input.Query, ""), nil
		},
	)

	libraryBooks := genkit.DefineTool(
		g, toolLibraryBooks,
		"Return the books in the corporate library. Give the user all of it: "+
			"isReserved false means the book is available, link points to the book "+
			"on the library site, description and all carry the remaining data.",
		func(ctx *ai.ToolContext, _ struct{}) (string, error) {
			logger.Info("tool invoked", zap.String("tool", toolLibraryBooks))
			return asJSON(library.Books(ctx.Context)), nil
		},
	)

	libraryGenres := genkit.DefineTool(
		g, toolLibraryGenres,
		"List the book categories available in the corporate library. "+
			"Use when the user asks which genres the library carries.",
		func(ctx *ai.ToolContext, _ struct{}) (string, error) {
			logger.Info("tool invoked", zap.String("tool", toolLibraryGenres))
			categories, err := library.Categories(ctx.Context)
			if err != nil {
				return "", err
			}
			return categories, nil
		},
	)

	return &Toolset{
		defaultRefs:    []ai.ToolRef{byGenre, universal, purchase, additional},
		corporateRefs:  []ai.ToolRef{libraryGenres, libraryBooks},
		defaultNames:   []string{toolBooksByGenre, toolBooksUniversal, toolPurchaseLinks, toolAdditionalInfo},
		corporateNames: []string{toolLibraryGenres, toolLibraryBooks},
	}
}

// Refs returns the tool references exposed to the given agent variant.
func (t *Toolset) Refs(variant session.Variant) []ai.ToolRef {
	if variant == session.VariantCorporate {
		return t.corporateRefs
	}
	return t.defaultRefs
}

// Names returns the tool names exposed to the given agent variant.
func (t *Toolset) Names(variant session.Variant) []string {
	if variant == session.VariantCorporate {
		return t.corporateNames
	}
	return t.defaultNames
}

func asJSON(v any) string {
	payload, err := json.Marshal(v)
	if err != nil {
		return errorJSON(err)
	}
	return string(payload)
}

func errorJSON(err error) string {
	payload, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(payload)
}
