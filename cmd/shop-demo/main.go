// Command shop-demo runs a terminal sales assistant over the fixed
// storefront catalog. An empty input line exits.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bookbot/internal/shop"
)

const systemPrompt = `You are a friendly bookshop sales assistant.
Help the customer pick a book from the shop's stock, answer questions using
the book details and reviews, and place an order when the customer decides.
Only sell what is in stock.`

func main() {
	godotenv.Load()

	apiKey := os.Getenv("MODEL_API_KEY")
	if apiKey == "" {
		log.Fatal("MODEL_API_KEY is required")
	}
	modelName := os.Getenv("MODEL_NAME")
	if modelName == "" {
		modelName = "googleai/gemini-2.5-flash"
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{APIKey: apiKey}))

	catalog := shop.NewCatalog(logger)
	tools := defineTools(g, catalog, logger)

	fmt.Println("Bookshop assistant ready. Empty line exits.")

	var history []*ai.Message
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			break
		}

		history = append(history, ai.NewUserMessage(ai.NewTextPart(input)))

		resp, err := genkit.Generate(ctx, g,
			ai.WithModelName(modelName),
			ai.WithSystem(systemPrompt),
			ai.WithMessages(history...),
			ai.WithTools(tools...),
			ai.WithMaxTurns(6),
		)
		if err != nil {
			logger.Error("Generation failed", zap.Error(err))
			fmt.Println("Assistant: sorry, something went wrong, try again.")
			continue
		}

		reply := resp.Text()
		history = append(history, ai.NewModelMessage(ai.NewTextPart(reply)))
		fmt.Printf("Assistant: %s\n", reply)
	}
}

func defineTools(g *genkit.Genkit, catalog *shop.Catalog, logger *zap.Logger) []ai.ToolRef {
	list := genkit.DefineTool(
		g, "get_books",
		"List the books in stock with id, title, author and cost.",
		func(_ *ai.ToolContext, _ struct{}) (string, error) {
			return marshal(catalog.List())
		},
	)

	details := genkit.DefineTool(
		g, "get_book_details",
		"Return the full record for one book: cost, customer reviews and tags.",
		func(_ *ai.ToolContext, input struct {
			ID int64 `json:"id" jsonschema_description:"Book ID from get_books"`
		}) (string, error) {
			book, ok := catalog.Details(input.ID)
			if !ok {
				return fmt.Sprintf(`{"error":"no book with id %d"}`, input.ID), nil
			}
			return marshal(book)
		},
	)

	order := genkit.DefineTool(
		g, "create_order",
		"Place an order for a book the customer has chosen.",
		func(_ *ai.ToolContext, input struct {
			ID int64 `json:"id" jsonschema_description:"Book ID from get_books"`
		}) (string, error) {
			if err := catalog.CreateOrder(input.ID); err != nil {
				return fmt.Sprintf(`{"error":%q}`, err.Error()), nil
			}
			logger.Info("Order placed from demo session", zap.Int64("book_id", input.ID))
			return `{"status":"ordered"}`, nil
		},
	)

	return []ai.ToolRef{list, details, order}
}

func marshal(v any) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}
