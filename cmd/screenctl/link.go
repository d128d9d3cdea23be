package main

import (
	"errors"
	"fmt"
	"time"

	"screening-backend/internal/auth"
	"screening-backend/internal/config"
	"screening-backend/internal/notify"
	"screening-backend/internal/rbac"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var bookingLinkCmd = &cobra.Command{
	Use:   "booking-link",
	Short: "Print the calendar link a candidate receives by SMS",
	RunE: func(cmd *cobra.Command, _ []string) error {
		base := viper.GetString("frontend-url")
		if base == "" {
			return errors.New("FRONTEND_URL (or --frontend-url) is required")
		}
		cand, user := viper.GetString("link.candidate-id"), viper.GetString("link.user-id")
		if cand == "" || user == "" {
			return errors.New("--candidate-id and --user-id are required")
		}
		fmt.Fprintln(cmd.OutOrStdout(), notify.BookingLink(base, cand, user))
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a short-lived access token accepted by the recruiter routes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		v, err := auth.NewVerifier(config.AuthConfig{
			JWTSecret:   viper.GetString("jwt-secret"),
			JWTAudience: viper.GetString("jwt-audience"),
		})
		if err != nil {
			return err
		}
		tok, err := v.Issue(time.Now(), viper.GetString("token.subject"), viper.GetString("token.role"), viper.GetDuration("token.ttl"))
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bookingLinkCmd, tokenCmd)

	bookingLinkCmd.Flags().String("frontend-url", "", "front-end base url (env FRONTEND_URL)")
	bookingLinkCmd.Flags().String("candidate-id", "", "candidate id")
	bookingLinkCmd.Flags().String("user-id", "", "recruiter user id")
	viper.BindPFlag("frontend-url", bookingLinkCmd.Flags().Lookup("frontend-url"))
	viper.BindPFlag("link.candidate-id", bookingLinkCmd.Flags().Lookup("candidate-id"))
	viper.BindPFlag("link.user-id", bookingLinkCmd.Flags().Lookup("user-id"))

	tokenCmd.Flags().String("subject", "screenctl", "token subject (user id)")
	tokenCmd.Flags().String("role", rbac.RoleServiceRole, "role claim")
	tokenCmd.Flags().Duration("ttl", 15*time.Minute, "token lifetime")
	viper.BindPFlag("token.subject", tokenCmd.Flags().Lookup("subject"))
	viper.BindPFlag("token.role", tokenCmd.Flags().Lookup("role"))
	viper.BindPFlag("token.ttl", tokenCmd.Flags().Lookup("ttl"))
}
