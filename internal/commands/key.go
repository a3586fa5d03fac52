package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/groqchat/internal/config"
	apierrors "github.com/diogo/groqchat/internal/errors"
	"github.com/diogo/groqchat/internal/models"
)

func newKeyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the stored Groq API key",
		Long: `Manage the Groq API key used for remote completions.

With no key stored, replies come from the offline assistant.`,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set [value]",
			Short: "Store the API key (prompts without echo when no value is given)",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				value, err := a.readKeyValue(args)
				if err != nil {
					return err
				}
				return a.setKey(value)
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Show the stored key (masked) and the current mode",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.showKey()
			},
		},
		&cobra.Command{
			Use:     "delete",
			Aliases: []string{"rm"},
			Short:   "Remove the stored key",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.store()
				if err != nil {
					return err
				}
				if err := store.Delete(); err != nil {
					return fmt.Errorf("failed to delete API key: %w", err)
				}
				fmt.Fprintln(a.deps.Stdout, "API key removed, replies will come from the offline assistant")
				return nil
			},
		},
		&cobra.Command{
			Use:         "path",
			Short:       "Show where the key is stored",
			Args:        cobra.NoArgs,
			Annotations: map[string]string{annotationLenientConfig: "true"},
			RunE: func(cmd *cobra.Command, args []string) error {
				if a.cfg.CredentialBackend == config.BackendKeyring {
					fmt.Fprintf(a.deps.Stdout, "keyring service %q, entry %q\n", config.KeyringService, models.CredentialKey)
					return nil
				}
				path, err := config.GetCredentialsPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(a.deps.Stdout, path)
				return nil
			},
		},
		&cobra.Command{
			Use:   "import <file>",
			Short: "Import the key from a JSON export",
			Long: `Import the API key from a JSON file holding a "groq-api-key" entry,
either as {"groq-api-key": "..."} or [{"name": "groq-api-key", "value": "..."}].`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := a.store()
				if err != nil {
					return err
				}
				if err := config.ImportCredential(args[0], store); err != nil {
					return fmt.Errorf("failed to import API key: %w", err)
				}
				fmt.Fprintf(a.deps.Stdout, "API key imported from %s\n", args[0])
				return nil
			},
		},
	)

	return cmd
}

// readKeyValue takes the key from the argument, a masked prompt or stdin
func (a *app) readKeyValue(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if a.deps.IsTerminal() {
		return a.deps.ReadSecret("Groq API key (leave empty to remove): ")
	}
	return readLine(a.deps.Stdin)
}

// setKey persists value; blank removes the stored key
func (a *app) setKey(value string) error {
	store, err := a.store()
	if err != nil {
		return err
	}

	value = strings.TrimSpace(value)
	if err := store.Set(value); err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}

	if value == "" {
		fmt.Fprintln(a.deps.Stdout, "API key removed, replies will come from the offline assistant")
		return nil
	}
	fmt.Fprintf(a.deps.Stdout, "API key saved (%s)\n", config.MaskCredential(value))
	return nil
}

// showKey prints the masked key and the resulting mode
func (a *app) showKey() error {
	store, err := a.store()
	if err != nil {
		return err
	}

	value, err := store.Get()
	switch {
	case errors.Is(err, apierrors.ErrNoCredential):
		fmt.Fprintln(a.deps.Stdout, "No API key stored")
		fmt.Fprintln(a.deps.Stdout, "Mode: offline")
		return nil
	case err != nil:
		return fmt.Errorf("failed to read API key: %w", err)
	}

	fmt.Fprintf(a.deps.Stdout, "API key: %s\n", config.MaskCredential(value))
	fmt.Fprintln(a.deps.Stdout, "Mode: online")
	return nil
}
