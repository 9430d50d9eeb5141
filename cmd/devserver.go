package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/transcribeflow/tflow/internal/mockapi"
	"github.com/transcribeflow/tflow/internal/server"
)

var (
	devAddr       string
	devTrialLimit int
	devPolls      int
	devSecret     string
	devGoogle     string
)

var devServerCmd = &cobra.Command{
	Use:   "dev-server",
	Short: "Run an in-memory TranscribeFlow API for local testing",
	Long: `Starts a fake TranscribeFlow server that implements the same HTTP API
entirely in memory. OTP codes and password reset tokens that the real
server would email are printed to stderr instead. Uploaded audio is not
transcribed; each job completes after a few status polls with a canned
transcript.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		api := mockapi.New(mockapi.Options{
			TrialLimit:      devTrialLimit,
			PollsToComplete: devPolls,
			Secret:          devSecret,
			LogRequests:     verbose,
			GoogleEmail:     devGoogle,
			OnOTP: func(kind, email, code string) {
				fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", kind, email, code)
			},
		})
		srv := server.New(server.Config{Addr: devAddr}, api)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		fmt.Fprintf(os.Stderr, "tflow dev-server %s starting on %s\n", Version, devAddr)
		fmt.Fprintf(os.Stderr, "  Free uploads per client: %d\n", devTrialLimit)
		fmt.Fprintf(os.Stderr, "  Polls until a job completes: %d\n", devPolls)

		return srv.Start()
	},
}

func init() {
	devServerCmd.Flags().StringVar(&devAddr, "addr", "127.0.0.1:8000", "address to listen on")
	devServerCmd.Flags().IntVar(&devTrialLimit, "trial-limit", 2, "anonymous uploads allowed (negative disables them)")
	devServerCmd.Flags().IntVar(&devPolls, "polls", 3, "status polls before a job completes")
	devServerCmd.Flags().StringVar(&devSecret, "secret", "", "token signing secret (random when empty)")
	devServerCmd.Flags().StringVar(&devGoogle, "google-account", "", "email that Google sign-in logs in as (disabled when empty)")
	rootCmd.AddCommand(devServerCmd)
}
