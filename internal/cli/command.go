package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/neetprep/service_layer/pkg/logger"
)

// NewRootCommand builds the questionctl command tree writing documents to
// out and diagnostics to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	var baseURL string

	root := &cobra.Command{
		Use:           "questionctl",
		Short:         "Debug client for the NEET prep question API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&baseURL, "base-url", DefaultBaseURL, "API base URL")
	root.SetOut(out)
	root.SetErr(errOut)

	root.AddCommand(&cobra.Command{
		Use:   "get <question-id>",
		Short: "Fetch a question and print it as formatted JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New(logger.LoggingConfig{Level: "info", Format: "text"})
			log.SetOutput(errOut)
			log = log.Named("questionctl")

			resp, err := NewClient(baseURL).GetQuestion(cmd.Context(), args[0])
			if err != nil {
				// Failures are reported but the command still succeeds.
				log.WithError(err).WithField("question_id", args[0]).Error("fetch question failed")
				return nil
			}
			if resp.Status >= 400 {
				log.WithField("status", resp.Status).WithField("error", resp.Error()).Warn("server returned an error")
			}

			_, err = out.Write(Format(resp.Body, isTerminal(out)))
			return err
		},
	})
	return root
}

// isTerminal reports whether w is a character device.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
