// chat-cli is a terminal client for the chat backend: an interactive
// prompt loop that renders streamed deltas as they arrive and keeps
// session metrics.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"coffee-chat/client"
	"coffee-chat/domain/chat"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	serverURL string
	apiKey    string
)

var rootCmd = &cobra.Command{
	Use:   "chat-cli",
	Short: "Interactive terminal client for the coffee chat backend",
	Long: `Start an interactive chat session against a running backend.

Messages stream back token by token. Session commands:
  /metrics   print session aggregates
  /clear     reset the conversation
  /quit      exit`,
	SilenceUsage: true,
	RunE:         runChat,
}

func init() {
	rootCmd.Flags().StringVar(&serverURL, "server", "http://localhost:3001", "backend base URL")
	rootCmd.Flags().StringVar(&apiKey, "api-key", "", "API key (defaults to API_KEY env)")
}

func runChat(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if apiKey == "" {
		apiKey = os.Getenv("API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: pass --api-key or set API_KEY")
	}

	store := client.NewStore()
	c := client.New(serverURL, apiKey, store)

	assistant := color.New(color.FgCyan)
	errColor := color.New(color.FgRed)
	promptColor := color.New(color.FgGreen, color.Bold)

	for _, msg := range store.Messages() {
		if msg.Sender == chat.SenderAssistant {
			assistant.Println(msg.Content)
		}
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		promptColor.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		input := strings.TrimSpace(scanner.Text())
		switch {
		case input == "":
			continue
		case input == "/quit" || input == "/exit":
			return nil
		case input == "/clear":
			store.Reset()
			fmt.Println("Conversation cleared.")
			continue
		case input == "/metrics":
			printMetrics(store.Metrics())
			continue
		}

		_, err := c.Send(cmd.Context(), input, func(delta string) {
			assistant.Print(delta)
		})
		fmt.Println()
		if err != nil {
			errColor.Printf("error: %v\n", err)
			continue
		}
		if sessionErr := store.Error(); sessionErr != "" {
			errColor.Printf("error: %s\n", sessionErr)
		}
	}
}

func printMetrics(m client.Metrics) {
	bold := color.New(color.Bold)
	bold.Println("Session metrics")
	fmt.Printf("  messages:           %d\n", m.MessageCount)
	fmt.Printf("  responses:          %d\n", len(m.ResponseTimes))
	fmt.Printf("  avg response time:  %.2fs\n", m.AverageResponseTime)
	fmt.Printf("  prompt tokens:      %d\n", m.PromptTokens)
	fmt.Printf("  completion tokens:  %d\n", m.CompletionTokens)
	fmt.Printf("  total tokens:       %d\n", m.TotalTokens)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
