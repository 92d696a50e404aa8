package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/formpost/internal/credentials"
	"github.com/idilsaglam/formpost/internal/ui"
)

func (a *app) newCookiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cookies",
		Short: "Manage the cookies sent with submissions",
		Long: `Cookies are stored in $FORMPOST_HOME/cookies.json (default ~/.formpost).
FORMPOST_COOKIE="name=value; other=x" with FORMPOST_COOKIE_URL overrides the file for one run.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <url> <name=value>",
			Short: "Store a cookie for a URL",
			Args:  exactArgs(2, "usage: formpost cookies add <url> <name=value>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				name, value, err := credentials.ParsePair(args[1])
				if err != nil {
					return usageErr("cookies add: %v", err)
				}
				store, err := credentials.DefaultStore()
				if err != nil {
					return err
				}
				if err := store.Add(credentials.Cookie{URL: args[0], Name: name, Value: value}); err != nil {
					return fmt.Errorf("cookies add: %w", err)
				}
				cmd.Println(ui.Success("stored " + name))
				return nil
			},
		},
		&cobra.Command{
			Use:   "ls",
			Short: "List stored cookies",
			Args:  exactArgs(0, "usage: formpost cookies ls"),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := credentials.DefaultStore()
				if err != nil {
					return err
				}
				cookies, err := store.Resolve()
				if err != nil {
					return err
				}
				if len(cookies) == 0 {
					cmd.Println(ui.Muted("no cookies stored"))
					cmd.Println("Run: formpost cookies add <url> <name=value>")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "URL\tNAME\tSOURCE")
				for _, c := range cookies {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", c.URL, c.Name, c.Source)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "rm <url> <name>",
			Short: "Remove a stored cookie",
			Args:  exactArgs(2, "usage: formpost cookies rm <url> <name>"),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := credentials.DefaultStore()
				if err != nil {
					return err
				}
				removed, err := store.Remove(args[0], args[1])
				if err != nil {
					return fmt.Errorf("cookies rm: %w", err)
				}
				if !removed {
					return usageErr("no cookie %q for %s", args[1], args[0])
				}
				cmd.Println(ui.Success("removed " + args[1]))
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Delete every stored cookie",
			Args:  exactArgs(0, "usage: formpost cookies clear"),
			RunE: func(cmd *cobra.Command, args []string) error {
				store, err := credentials.DefaultStore()
				if err != nil {
					return err
				}
				if err := store.Clear(); err != nil {
					return fmt.Errorf("cookies clear: %w", err)
				}
				cmd.Println(ui.Success("cleared"))
				return nil
			},
		},
	)
	return cmd
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageErr("%s", usage)
		}
		return nil
	}
}
