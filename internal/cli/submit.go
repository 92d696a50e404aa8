package cli

import (
	"github.com/spf13/cobra"

	"github.com/idilsaglam/formpost/internal/model"
	"github.com/idilsaglam/formpost/internal/notify"
	"github.com/idilsaglam/formpost/internal/submit"
	"github.com/idilsaglam/formpost/internal/ui"
)

func (a *app) newSubmitCmd() *cobra.Command {
	var name, email string
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit once without the interactive form",
		Example: `  formpost submit --name Alice --email a@example.com --endpoint https://example.com/api
  FORMPOST_ENDPOINT=https://example.com/api formpost submit --name Alice --email a@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state := &model.FormState{
				Name:        name,
				Email:       email,
				APIEndpoint: a.cfg.Endpoint,
				DarkMode:    a.cfg.StartTheme().Dark,
			}
			if fe := state.CheckConstraints(); fe != nil {
				cmd.PrintErrln(ui.Failure("--" + fe.Field + ": " + fe.Message))
				return silentExit(exitUsage)
			}

			client, err := a.newClient()
			if err != nil {
				return err
			}
			defer client.CloseIdleConnections()

			h := submit.Handler{
				Client:   client,
				Notifier: notify.Console{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()},
			}
			return exitFor(h.Run(cmd.Context(), state))
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name to send")
	cmd.Flags().StringVar(&email, "email", "", "email to send")
	return cmd
}

// exitFor maps an already-shown notice to the command result.
func exitFor(n notify.Notice) error {
	switch n.Kind {
	case notify.KindSuccess:
		return nil
	case notify.KindValidation:
		return silentExit(exitUsage)
	}
	return silentExit(exitError)
}
