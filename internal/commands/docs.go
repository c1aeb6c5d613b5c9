package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ragchat/ragchat/internal/api"
	apierrors "github.com/ragchat/ragchat/internal/errors"
)

// NewDocsCmd creates the one-shot document commands
func NewDocsCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "List, upload and delete documents",
		Long:  `Manage the documents the backend uses for retrieval without opening the documents page.`,
	}

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDocsDelete(cmd, deps, args[0], yes)
		},
	}
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List uploaded documents",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runDocsList(cmd, deps)
			},
		},
		&cobra.Command{
			Use:   "upload <file>...",
			Short: "Upload documents (.txt, .pdf, .docx)",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return runDocsUpload(cmd, deps, args)
			},
		},
		deleteCmd,
	)

	return cmd
}

func runDocsList(cmd *cobra.Command, deps *Dependencies) error {
	rt, err := deps.setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	docs, err := rt.client.ListDocuments(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load document list: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(docs) == 0 {
		fmt.Fprintln(out, "No documents uploaded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tFILENAME\tSIZE\tUPLOADED\tSTATUS")
	_, _ = fmt.Fprintln(w, "--\t--------\t----\t--------\t------")
	for _, d := range docs {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			d.ID, d.Filename, d.SizeLabel(), d.UploadedAt.Display(), d.StatusLabel())
	}
	return w.Flush()
}

// runDocsUpload uploads each file in turn. A failed file does not stop the
// rest; the command fails if any upload failed.
func runDocsUpload(cmd *cobra.Command, deps *Dependencies, paths []string) error {
	rt, err := deps.setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	out := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	decorated := isStdoutTTY()

	failed := 0
	for _, path := range paths {
		if rt.cfg.Verbose {
			if c, err := api.Preflight(path); err == nil {
				verbosef(cmd, rt.cfg, "%s: %s, %d bytes", c.FileName, c.MIMEType, c.Size)
			}
		}

		spin := startSpinner(stderr, decorated, "Uploading "+path)
		result, err := rt.client.UploadDocument(cmd.Context(), path)
		if err != nil {
			spin.stopWithError()
			failed++
			fmt.Fprintln(stderr, dangerText("Upload failed: "+uploadMessage(err)))
			continue
		}
		spin.stopWithSuccess("Uploaded")
		fmt.Fprintf(out, "Document \"%s\" uploaded. Processing started.\n", result.Filename)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d uploads failed", failed, len(paths))
	}
	return nil
}

// uploadMessage returns the text shown after "Upload failed: "
func uploadMessage(err error) string {
	var upErr *apierrors.UploadError
	if !errors.As(err, &upErr) {
		return err.Error()
	}
	if upErr.Message == "" {
		return "Unknown error"
	}
	return upErr.Message
}

func runDocsDelete(cmd *cobra.Command, deps *Dependencies, arg string, yes bool) error {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid document id %q", arg)
	}

	if !yes {
		fmt.Fprintf(cmd.OutOrStdout(), "Delete document %d? [y/N] ", id)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil
		}
	}

	rt, err := deps.setup(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := rt.client.DeleteDocument(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete document %d: %w", id, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted document %d\n", id)
	return nil
}
