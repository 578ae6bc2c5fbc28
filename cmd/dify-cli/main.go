// Command dify-cli calls the Dify API directly, for checking credentials and
// answers without going through Slack.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/devricklin/slack-dify-bridge/internal/biz/domain"
	"github.com/devricklin/slack-dify-bridge/internal/biz/usecase"
	"github.com/devricklin/slack-dify-bridge/internal/data"
	"github.com/devricklin/slack-dify-bridge/internal/infra/dify"
)

var (
	baseURL string
	user    string
	model   string
	timeout time.Duration
	asJSON  bool
)

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "dify-cli",
		Short:         "Call the Dify API directly",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "base-url", envOr("DIFY_BASE_URL", dify.DefaultBaseURL), "Dify API base URL")
	root.PersistentFlags().StringVarP(&user, "user", "u", "dify-cli", "user identifier sent to Dify")
	root.PersistentFlags().StringVarP(&model, "model", "m", string(domain.DefaultModel), "model input (claude, chatgpt, gemini)")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 60*time.Second, "request timeout")
	root.PersistentFlags().BoolVar(&asJSON, "json", false, "print raw JSON responses")

	root.AddCommand(askCmd(), completeCmd(), conversationsCmd(), messagesCmd(), feedbackCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func newClient() (*dify.Client, error) {
	apiKey := os.Getenv("DIFY_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("DIFY_API_KEY is required")
	}
	return dify.NewClient(apiKey, dify.WithBaseURL(baseURL)), nil
}

func commandContext() (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func parseModel() (domain.Model, error) {
	return domain.ParseModel(model)
}

func askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <query>",
		Short: "Send a chat message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseModel()
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()

			resp, err := client.SendChatMessage(ctx, strings.Join(args, " "), user, string(m), false, nil)
			if err != nil {
				return err
			}
			return printAnswer(resp, m)
		},
	}
}

func completeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <query>",
		Short: "Send a completion message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseModel()
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()

			resp, err := client.SendCompletionMessage(ctx, strings.Join(args, " "), user, string(m), nil)
			if err != nil {
				return err
			}
			return printAnswer(resp, m)
		},
	}
}

func conversationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "conversations",
		Short: "List conversations of the user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()

			list, err := client.GetConversations(ctx, user)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(list)
			}
			fmt.Printf("=== %d conversations ===\n", len(list.Data))
			for _, c := range list.Data {
				fmt.Printf("%s  %s  %s\n", c.ID, time.Unix(c.CreatedAt, 0).Format(time.RFC3339), c.Name)
			}
			return nil
		},
	}
}

func messagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "messages <conversation-id>",
		Short: "List messages of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()

			list, err := client.GetConversationMessages(ctx, args[0], user)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(list)
			}
			for i, msg := range list.Data {
				fmt.Printf("[%d] %s (%s)\n", i+1, msg.ID, time.Unix(msg.CreatedAt, 0).Format(time.RFC3339))
				fmt.Printf("    Q: %s\n", msg.Query)
				fmt.Printf("    A: %s\n", msg.Answer)
				if msg.Feedback != nil {
					fmt.Printf("    Feedback: %s\n", msg.Feedback.Rating)
				}
			}
			return nil
		},
	}
}

func feedbackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feedback <message-id> <up|down>",
		Short: "Rate an answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rating domain.Rating
			switch strings.ToLower(args[1]) {
			case "up", "like", "1":
				rating = domain.RatingPositive
			case "down", "dislike", "0":
				rating = domain.RatingNegative
			default:
				return fmt.Errorf("rating must be up or down, got %q", args[1])
			}

			client, err := newClient()
			if err != nil {
				return err
			}
			ctx, cancel := commandContext()
			defer cancel()

			res := client.SubmitFeedback(ctx, args[0], int(rating), user)
			if asJSON {
				return printJSON(res)
			}
			if !res.Success {
				return fmt.Errorf("feedback failed: %s", res.Error)
			}
			fmt.Println("Feedback recorded")
			return nil
		},
	}
}

func printAnswer(resp *dify.MessageResponse, m domain.Model) error {
	if asJSON {
		return printJSON(resp)
	}
	reply := usecase.FormatReply(data.ToGatewayReply(resp), m)
	for _, b := range reply.Blocks {
		switch b.Kind {
		case domain.BlockDivider:
			fmt.Println(strings.Repeat("-", 40))
		case domain.BlockActions:
			labels := make([]string, 0, len(b.Buttons))
			for _, btn := range b.Buttons {
				labels = append(labels, fmt.Sprintf("[%s]", btn.Text))
			}
			fmt.Println(strings.Join(labels, " "))
		default:
			fmt.Println(b.Text)
		}
	}
	if resp.MessageID != "" {
		fmt.Printf("\nmessage_id: %s\n", resp.MessageID)
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
