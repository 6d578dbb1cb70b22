package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newKeysCommand(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys",
		Long: `Create, list and delete the API keys accepted in the mm-auth header.
While no key exists the API is open; the first key created always gets the
master scope "*".`,
	}

	cmd.AddCommand(newKeysCreateCommand(root))
	cmd.AddCommand(newKeysListCommand(root))
	cmd.AddCommand(newKeysDeleteCommand(root))

	return cmd
}

// withAuthAPI opens the database, runs fn and closes it again.
func withAuthAPI(cmd *cobra.Command, root *rootOptions, fn func(*AuthAPI) error) error {
	cfg, err := LoadConfig(root.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := root.newLogger(cmd.ErrOrStderr(), cfg.Server.LogLevel)

	db, store, err := openHistory(cfg.Server, logger)
	if err != nil {
		return err
	}
	defer func() {
		store.Close()
		_ = db.Close()
	}()

	return fn(NewAuthAPI(db, logger))
}

func newKeysCreateCommand(root *rootOptions) *cobra.Command {
	var req CreateKeyRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new API key and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAuthAPI(cmd, root, func(a *AuthAPI) error {
				resp, err := a.createKey(cmd.Context(), req)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "id:     %d\n", resp.ID)
				_, _ = fmt.Fprintf(out, "scopes: %s\n", strings.Join(resp.Scopes, " "))
				_, _ = fmt.Fprintf(out, "key:    %s\n", resp.RawKey)
				_, _ = fmt.Fprintln(out, "The key is shown only once; store it now.")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&req.Description, "description", "d", "", "what the key is for")
	cmd.Flags().StringSliceVar(&req.Scopes, "scope", nil, "scope to grant, repeatable (e.g. markov:generate)")

	return cmd
}

func newKeysListCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withAuthAPI(cmd, root, func(a *AuthAPI) error {
				keys, err := a.listKeys(cmd.Context())
				if err != nil {
					return err
				}
				for _, k := range keys {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", k.ID, strings.Join(k.Scopes, " "), k.Description)
				}
				return nil
			})
		},
	}
}

func newKeysDeleteCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid key ID %q", args[0])
			}
			return withAuthAPI(cmd, root, func(a *AuthAPI) error {
				err := a.deleteKey(cmd.Context(), id)
				if errors.Is(err, errKeyNotFound) {
					return fmt.Errorf("key %d: %w", id, err)
				}
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted key %d\n", id)
				return nil
			})
		},
	}
}
