package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/lexqa/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the document service
//	-d string   path of the local state database
//	-m int      maximum upload size in MB
//	-i int      online check interval in seconds
//	-p string   listen address of the Prometheus endpoint
//
// os.Args is filtered with flagx.FilterArgs first so -c/-config and unknown
// flags do not abort parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-m", "-i", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the document service")
	fs.StringVar(&cfg.StatePath, "d", cfg.StatePath, "path of the local state database")
	fs.Int64Var(&cfg.MaxUploadMB, "m", cfg.MaxUploadMB, "maximum upload size (in MB)")
	fs.StringVar(&cfg.MetricsAddr, "p", cfg.MetricsAddr, "listen address of the Prometheus endpoint")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	// -i has whole-second resolution, so it replaces the interval only when given.
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
		}
	})
}
