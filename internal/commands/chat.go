package commands

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session.

Every message is sent on its own; earlier turns are not resent.
Enter sends, Alt+Enter adds a new line. Type /key to set the API key,
/export <path> to save the transcript, /copy to copy the last reply.
Type 'exit', 'quit', or press Ctrl+C to end the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runChat(cmd)
		},
	}
}

func (a *app) runChat(cmd *cobra.Command) error {
	ctrl, store, err := a.controller()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a.logger.Info("chat started",
		zap.String("model", a.cfg.Model),
		zap.String("mode", string(ctrl.Mode())))

	return a.deps.TUI.RunChat(ctx, ctrl, store, a.cfg)
}
