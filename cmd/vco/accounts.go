package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"virtualco/internal/app"
	"virtualco/internal/catalog"
	"virtualco/internal/config"
)

// resolveOwner accepts a user id or an email address.
func resolveOwner(ctx context.Context, a *app.App, who string) (string, error) {
	who = strings.TrimSpace(who)
	if who == "" {
		return "", fmt.Errorf("--owner required")
	}
	if !strings.Contains(who, "@") {
		return who, nil
	}
	u, err := a.Repo.GetUserByEmail(ctx, who)
	if err != nil {
		return "", fmt.Errorf("user %s: %w", who, err)
	}
	return u.ID, nil
}

func userCmd() *cobra.Command {
	usr := &cobra.Command{Use: "user", Short: "Manage accounts"}
	usr.AddCommand(userCreateCmd())
	usr.AddCommand(userListCmd())
	return usr
}

func userCreateCmd() *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				u, err := a.Auth.Signup(ctx, email, password, name)
				if err != nil {
					return err
				}
				return printJSONOrTable(u)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func userListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				users, err := a.Repo.ListUsers(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(users)
				}
				tw := newTable("", table.Row{"ID", "Email", "Name", "Created"})
				for _, u := range users {
					tw.AppendRow(table.Row{u.ID, u.Email, u.Name, u.CreatedAt})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func tokenCmd() *cobra.Command {
	var email, password, apiKeyName string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Log in and print a bearer token, or mint an API key with --api-key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				token, u, err := a.Auth.Login(ctx, email, password)
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("api-key") {
					key, rec, err := a.Auth.CreateAPIKey(ctx, u.ID, apiKeyName)
					if err != nil {
						return err
					}
					if viper.GetBool("json") {
						return printJSON(map[string]string{"id": rec.ID, "key": key})
					}
					fmt.Println(key)
					return nil
				}
				if viper.GetBool("json") {
					return printJSON(map[string]string{"token": token, "user_id": u.ID})
				}
				fmt.Println(token)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	cmd.Flags().StringVar(&apiKeyName, "api-key", "", "create an API key with this name instead")
	cmd.Flags().Lookup("api-key").NoOptDefVal = "cli"
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func simsCmd() *cobra.Command {
	var owner string
	sims := &cobra.Command{Use: "sims", Short: "Manage saved simulations"}
	sims.PersistentFlags().StringVar(&owner, "owner", "", "owner user id or email")

	sims.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved simulations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				id, err := resolveOwner(ctx, a, owner)
				if err != nil {
					return err
				}
				items, err := a.Persist.ListSimulations(ctx, id)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := newTable("", table.Row{"ID", "Project", "Domain", "Progress", "Updated"})
				for _, s := range items {
					tw.AppendRow(table.Row{s.ID, s.ProjectName, s.Domain, fmt.Sprintf("%.1f%%", s.Progress), s.UpdatedAt.Format("2006-01-02 15:04")})
				}
				tw.Render()
				return nil
			})
		},
	})

	sims.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved simulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				id, err := resolveOwner(ctx, a, owner)
				if err != nil {
					return err
				}
				sim, err := a.Persist.LoadSimulation(ctx, id, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(sim)
				}
				printSummary(sim, 5)
				return nil
			})
		},
	})

	sims.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved simulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				id, err := resolveOwner(ctx, a, owner)
				if err != nil {
					return err
				}
				if err := a.Persist.DeleteSimulation(ctx, id, args[0]); err != nil {
					return err
				}
				fmt.Println("deleted", args[0])
				return nil
			})
		},
	})
	return sims
}

func settingsCmd() *cobra.Command {
	var owner, file string
	st := &cobra.Command{Use: "settings", Short: "Show or store user settings"}
	st.PersistentFlags().StringVar(&owner, "owner", "", "owner user id or email")

	st.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print stored settings, or the defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				id, err := resolveOwner(ctx, a, owner)
				if err != nil {
					return err
				}
				s, err := a.Persist.SettingsOrDefault(ctx, id)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(s)
				}
				out, err := s.ToYAML()
				if err != nil {
					return err
				}
				fmt.Print(string(out))
				return nil
			})
		},
	})

	set := &cobra.Command{
		Use:   "set",
		Short: "Store settings from a YAML file; omitted keys take the defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := config.FromFile(file)
			if err != nil {
				return err
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				id, err := resolveOwner(ctx, a, owner)
				if err != nil {
					return err
				}
				if err := a.Persist.SaveSettings(ctx, id, s); err != nil {
					return err
				}
				fmt.Println("settings saved")
				return nil
			})
		},
	}
	set.Flags().StringVar(&file, "file", "", "settings YAML file")
	_ = set.MarkFlagRequired("file")
	st.AddCommand(set)
	return st
}

func domainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains",
		Short: "List business domains and their headline metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := catalog.Default()
			if viper.GetBool("json") {
				var out []catalog.DomainInfo
				for _, k := range cat.Domains() {
					out = append(out, cat.Domain(k))
				}
				return printJSON(out)
			}
			tw := newTable("", table.Row{"Key", "Name", "Focus", "Users", "Revenue", "Features"})
			for _, k := range cat.Domains() {
				d, l := cat.Domain(k), cat.MetricLabels(k)
				tw.AppendRow(table.Row{k, d.Name, d.Focus, l.Users, l.Revenue, l.Features})
			}
			tw.Render()
			return nil
		},
	}
}

