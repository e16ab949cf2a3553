package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"code-analyzer/internal"
)

// Version is set at build time
var Version = "dev"

// Global flag values.
var (
	envFile string
	port    string
)

var rootCmd = &cobra.Command{
	Use:   "code-analyzer",
	Short: "Serve AI feedback for submitted source code",
	Long: `code-analyzer serves a small browser front end and forwards submitted
code to an OpenAI-compatible chat completion API, relaying the feedback back.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServer,
}

var tokenCmd = &cobra.Command{
	Use:   "token SUBJECT",
	Short: "Print an access token for the analysis API",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := internal.LoadConfig(envFile)
		if err != nil {
			return err
		}
		ttl, _ := cmd.Flags().GetDuration("ttl")
		token, err := internal.GenerateToken(cfg.JWTSecret, args[0], ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file to load environment variables from")
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "port to listen on (overrides PORT)")
	tokenCmd.Flags().Duration("ttl", 7*24*time.Hour, "token lifetime")

	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(versionCmd)
}

func runServer(_ *cobra.Command, _ []string) error {
	cfg, err := internal.LoadConfig(envFile)
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}

	internal.InitLogger(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	proxy, err := internal.NewCompletionProxy(cfg.Proxy, nil)
	if err != nil {
		return err
	}
	server := internal.NewServer(cfg, proxy, internal.NewBPETokenizer(internal.GPT3Encoding))

	if cfg.JWTSecret != "" {
		logrus.Info("Token authentication enabled for analysis routes")
	}
	logrus.Infof("Server running at http://127.0.0.1:%s", cfg.Port)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.SetupRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return httpServer.ListenAndServe()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalf("code-analyzer: %v", err)
	}
}
