// cmd/trdpsim/cmd/serve.go
package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/tamzrod/trdp-sim/internal/config"
	"github.com/tamzrod/trdp-sim/internal/control"
	"github.com/tamzrod/trdp-sim/internal/logging"
	"github.com/tamzrod/trdp-sim/internal/store"
)

var serveOpen bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP control plane",
	Long: `Serve the control API: start and stop simulations from the
configuration library, read metrics and change payloads at runtime.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("host", "0.0.0.0", "listen host (env "+envHost+")")
	serveCmd.Flags().String("port", "8080", "listen port (env "+envPort+")")
	serveCmd.Flags().String("library", store.DefaultDir, "configuration library directory (env "+envLibrary+")")
	serveCmd.Flags().BoolVar(&serveOpen, "open", false, "open the API status page in a browser")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	host := stringFlag(cmd, "host", envHost)
	port := stringFlag(cmd, "port", envPort)
	library := stringFlag(cmd, "library", envLibrary)

	log, closer, err := logging.New(config.LoggingConfig{Level: config.LogLevelInfo})
	if err != nil {
		return err
	}
	defer logging.Close(closer)

	st, err := store.New(library)
	if err != nil {
		return err
	}

	m := control.NewManager(st, log)
	defer m.Close()

	ln, err := net.Listen("tcp", net.JoinHostPort(host, port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	url := fmt.Sprintf("http://localhost:%d/api/status", ln.Addr().(*net.TCPAddr).Port)
	log.Info("control plane listening", "addr", ln.Addr().String(), "library", st.Dir())
	if serveOpen {
		if err := browser.OpenURL(url); err != nil {
			log.Warn("unable to open browser", "url", url, "err", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return control.NewServer(m, st, log).Serve(ctx, ln)
}
