package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apierrors "github.com/ragchat/ragchat/internal/errors"
	"github.com/ragchat/ragchat/internal/models"
	"github.com/ragchat/ragchat/internal/render"
)

// askOptions are the flags of the ask command
type askOptions struct {
	output string
	file   string
	raw    bool
}

// NewAskCmd creates the one-shot chat command
func NewAskCmd(deps *Dependencies) *cobra.Command {
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "ask [message]",
		Short: "Send one message and print the reply",
		Long: `Send a single message to the session and print the reply.

The message comes from the arguments, --file, or stdin when piped:
  ragchat ask "Summarize the uploaded handbook"
  ragchat ask -f question.md
  echo "What changed in v2?" | ragchat ask`,
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := readMessage(cmd, args, opts.file)
			if err != nil {
				return err
			}
			return runAsk(cmd, deps, message, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Save the reply to a file")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the message from a file")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print only the reply text")

	return cmd
}

// readMessage picks the message from args, a file or piped stdin
func readMessage(cmd *cobra.Command, args []string, file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", nil
		}
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

// runAsk sends one message and prints the reply
func runAsk(cmd *cobra.Command, deps *Dependencies, message string, opts askOptions) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return fmt.Errorf("message cannot be empty")
	}

	rt, err := deps.setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()
	out := cmd.OutOrStdout()
	decorated := !opts.raw && isStdoutTTY()

	sessionID, err := rt.resolveSession(ctx)
	if err != nil {
		return err
	}
	verbosef(cmd, rt.cfg, "Server: %s, session: %d", rt.client.BaseURL(), sessionID)

	spin := startSpinner(stderr, decorated, "Waiting for the assistant")
	startTime := time.Now()
	reply, err := rt.client.SendChat(ctx, message, sessionID)
	requestDuration := time.Since(startTime)
	if err != nil {
		spin.stopWithError()
		if decorated {
			fmt.Fprintln(stderr, formatErrorMessage(err, "Failed to get a response from the server"))
		}
		return fmt.Errorf("chat request failed: %w", err)
	}
	if reply.Failed() {
		spin.stopWithError()
		fmt.Fprintln(stderr, dangerText("❌ Error: "+reply.Error))
		return apierrors.NewApplicationError(models.EndpointChat, reply.Error)
	}
	spin.stopWithSuccess("Done")

	verbosef(cmd, rt.cfg, "Request took %s", requestDuration.Round(time.Millisecond))
	verbosef(cmd, rt.cfg, "Model: %s, used RAG: %t", reply.ModelUsed, reply.UsedRAG)

	if rt.cfg.CopyToClipboard {
		if err := deps.clipboard().WriteAll(reply.Response); err != nil {
			fmt.Fprintln(stderr, warningText(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else if decorated {
			fmt.Fprintln(stderr, successText("✓ Copied to clipboard"))
		}
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(reply.Response), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorated {
			fmt.Fprintln(stderr, successText(fmt.Sprintf("✓ Response saved to %s", opts.output)))
		}
		return nil
	}

	if !decorated {
		fmt.Fprintln(out, reply.Response)
		return nil
	}

	bubbleWidth, contentWidth := bubbleWidths()
	fmt.Fprintln(out, assistantLabel(reply.ModelUsed, reply.UsedRAG))
	rendered := render.Reply(reply.Response, render.OptionsFromConfigWithWidth(rt.cfg, contentWidth))
	fmt.Fprintln(out, assistantBubble(rendered, bubbleWidth))
	return nil
}
