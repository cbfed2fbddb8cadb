package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pratik-mahalle/processimo/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// Credential keys in the CLI config file.
const (
	keyToken        = "auth.token"
	keyRefreshToken = "auth.refresh_token"
	keyUsername     = "auth.username"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "auth", Short: "Sign in, sign up and manage stored credentials"}
	cmd.AddCommand(newAuthLoginCmd(), newAuthRegisterCmd(), newAuthRefreshCmd(), newAuthLogoutCmd(), newAuthWhoamiCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Sign in with username and password",
		Annotations: publicCommand(),
		RunE: func(cmd *cobra.Command, args []string) error {
			username = orPrompt(username, "Username: ")
			if password == "" {
				password = promptPassword("Password: ")
			}
			resp, err := apiClient.Login(context.Background(), username, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}
			if err := storeCredentials(resp); err != nil {
				return err
			}
			fmt.Printf("Signed in as %s\n", displayName(resp.User, username))
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newAuthRegisterCmd() *cobra.Command {
	var req client.RegisterRequest
	var firstName, lastName string
	cmd := &cobra.Command{
		Use:         "register",
		Short:       "Create a customer account",
		Annotations: publicCommand(),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Username = orPrompt(req.Username, "Username: ")
			req.Email = orPrompt(req.Email, "Email: ")
			if req.Password == "" {
				req.Password = promptPassword("Password: ")
				if promptPassword("Confirm password: ") != req.Password {
					return fmt.Errorf("passwords do not match")
				}
			}
			req.FirstName = optional(firstName)
			req.LastName = optional(lastName)

			resp, err := apiClient.Register(context.Background(), req)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}
			if err := storeCredentials(resp); err != nil {
				return err
			}
			fmt.Printf("Account created. Signed in as %s\n", req.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "username")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (prompted when omitted)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	return cmd
}

func newAuthRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "refresh",
		Short:       "Renew the stored access token",
		Annotations: publicCommand(),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt := viper.GetString(keyRefreshToken)
			if rt == "" {
				return fmt.Errorf("no refresh token stored. Run 'processimo auth login' first")
			}
			resp, err := apiClient.Refresh(context.Background(), rt)
			if err != nil {
				return fmt.Errorf("refresh failed, sign in again: %w", err)
			}
			if err := storeCredentials(resp); err != nil {
				return err
			}
			fmt.Println("Access token renewed")
			return nil
		},
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "logout",
		Short:       "Forget stored credentials",
		Annotations: publicCommand(),
		RunE: func(cmd *cobra.Command, args []string) error {
			// the server only clears its cookies
			_ = apiClient.Logout(context.Background())
			for _, k := range []string{keyToken, keyRefreshToken, keyUsername} {
				viper.Set(k, "")
			}
			if err := writeConfig(); err != nil {
				return fmt.Errorf("failed to clear credentials: %w", err)
			}
			fmt.Println("Signed out")
			return nil
		},
	}
}

func newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := apiClient.GetCurrentUser(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get user info: %w", err)
			}
			if getOutputFormat() != "table" {
				return printOutput(u)
			}
			rows := [][2]string{
				{"Username", u.Username},
				{"Email", u.Email},
				{"Role", u.Role},
				{"ID", fmt.Sprint(u.ID)},
			}
			if name := displayName(u, ""); name != u.Username {
				rows = append(rows, [2]string{"Name", name})
			}
			for _, r := range rows {
				fmt.Printf("%-9s %s\n", r[0]+":", r[1])
			}
			return nil
		},
	}
}

func storeCredentials(resp *client.AuthResponse) error {
	viper.Set(keyToken, resp.AccessToken)
	if resp.RefreshToken != "" {
		viper.Set(keyRefreshToken, resp.RefreshToken)
	}
	if resp.User != nil {
		viper.Set(keyUsername, resp.User.Username)
	}
	if err := writeConfig(); err != nil {
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

func displayName(u *client.User, fallback string) string {
	switch {
	case u == nil:
		return fallback
	case u.FirstName != nil && u.LastName != nil:
		return *u.FirstName + " " + *u.LastName
	}
	return u.Username
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orPrompt(value, prompt string) string {
	if value != "" {
		return value
	}
	return promptInput(prompt)
}

var stdin = bufio.NewReader(os.Stdin)

func promptInput(prompt string) string {
	fmt.Print(prompt)
	line, _ := stdin.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptPassword hides input on a terminal and reads a plain line when stdin
// is piped.
func promptPassword(prompt string) string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptInput(prompt)
	}
	fmt.Print(prompt)
	pw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(pw)
}
